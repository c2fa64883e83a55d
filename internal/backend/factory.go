// Copyright (c) 2025 The authsession Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"time"

	"github.com/rs/zerolog"
)

// Options configures the HTTP implementation.
type Options struct {
	Endpoints Endpoints
	UserAgent string

	// Timeout bounds each request. Zero means 10 seconds.
	Timeout time.Duration

	// Logger receives request diagnostics at debug level. Nil disables logging.
	Logger *zerolog.Logger
}

// New creates a backend API implementation for baseURL.
// Returns HTTP client (real backend).
func New(baseURL string, opts Options) API {
	return newHTTP(baseURL, opts)
}
