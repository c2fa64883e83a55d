// Copyright (c) 2025 The authsession Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"errors"
	"fmt"
	"net/http"

	"authsession/cli/internal/backend"

	"github.com/pterm/pterm"
)

// PresentAPIError prints a user-facing explanation of an auth API rejection
// and reports whether err was one. Other errors are left to the caller.
func PresentAPIError(err error, context string) bool {
	var apiErr *backend.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	pterm.Error.Println(describeAPIError(apiErr, context))
	if hint := apiErrorHint(apiErr); hint != "" {
		pterm.Info.Println(hint)
	}
	return true
}

func describeAPIError(e *backend.APIError, context string) string {
	msg := Mask(e.Message)
	switch {
	case e.StatusCode == http.StatusUnauthorized:
		return fmt.Sprintf("%s: credentials were rejected (%s)", context, msg)
	case e.StatusCode == http.StatusForbidden:
		return fmt.Sprintf("%s: not allowed (%s)", context, msg)
	case e.StatusCode == http.StatusConflict:
		return fmt.Sprintf("%s: %s", context, msg)
	case e.StatusCode == http.StatusTooManyRequests:
		return fmt.Sprintf("%s: too many attempts", context)
	case e.StatusCode >= 500:
		return fmt.Sprintf("%s: the auth service failed (%d)", context, e.StatusCode)
	default:
		return fmt.Sprintf("%s: %s", context, msg)
	}
}

func apiErrorHint(e *backend.APIError) string {
	switch {
	case e.StatusCode == http.StatusUnauthorized:
		return "Check your email and password, or run 'authsession password request' to reset it."
	case e.StatusCode == http.StatusConflict:
		return "An account with this email may already exist. Try 'authsession login'."
	case e.StatusCode == http.StatusTooManyRequests:
		return "Wait a minute before trying again."
	case e.StatusCode >= 500:
		return "This is not a problem with your setup. Please try again in a few minutes."
	}
	return ""
}
