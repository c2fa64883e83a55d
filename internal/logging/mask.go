// Copyright (c) 2025 The authsession Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package logging provides logger construction, secret masking and error presentation.
// It includes functions for masking sensitive information in log messages and
// formatting errors for user-friendly display while protecting credentials and secrets.
//
// The package helps ensure that passwords, access tokens and refresh tokens are not
// accidentally exposed in logs or error messages shown to users.
package logging

import (
	"regexp"
	"strings"
)

var (
	rePassword  = regexp.MustCompile(`(?i)((?:new|old)?password=)([^\s;&]+)`)
	reToken     = regexp.MustCompile(`(?i)(token=|bearer\s+)([A-Za-z0-9._~+/=-]+)`)
	reJSONField = regexp.MustCompile(`(?i)("(?:password|oldPassword|newPassword|token|accessToken|access_token|refreshToken|refresh_token)"\s*:\s*")([^"]*)(")`)
	reJWT       = regexp.MustCompile(`eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\.[A-Za-z0-9_-]*`)
	reAPIKey    = regexp.MustCompile(`(?i)(apikey=|api_key=)([^\s;&]+)`)
)

// Mask replaces sensitive values in the input string with "***".
// Bare JWTs are masked wherever they appear.
func Mask(s string) string {
	out := s
	out = rePassword.ReplaceAllString(out, "$1***")
	out = reToken.ReplaceAllString(out, "$1***")
	out = reJSONField.ReplaceAllString(out, "$1***$3")
	out = reJWT.ReplaceAllString(out, "***")
	out = reAPIKey.ReplaceAllString(out, "$1***")
	// Basic env-like pairs key=VALUE; mask common secret keys
	for _, k := range []string{"AUTHSESSION_KEYRING_PASSWORD", "ACCESS_TOKEN", "REFRESH_TOKEN"} {
		out = strings.ReplaceAll(out, k+"=", k+"=***")
	}
	return out
}
