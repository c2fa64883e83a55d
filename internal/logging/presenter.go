// Copyright (c) 2025 The authsession Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"errors"
	"strings"

	apperrors "authsession/cli/internal/errors"
)

// PresentError renders err for the terminal, prefixed with context when given.
// Secrets are masked and the machine-readable kind of typed errors is dropped.
func PresentError(context string, err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	var e *apperrors.E
	if errors.As(err, &e) {
		msg = strings.Replace(msg, string(e.Kind)+": ", "", 1)
	}
	msg = Mask(msg)

	if context == "" {
		return msg
	}
	return context + ": " + msg
}
