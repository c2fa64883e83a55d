package backend

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// APIError is a non-2xx answer from the auth API.
type APIError struct {
	// StatusCode is the HTTP status code of the answer
	StatusCode int
	// Code is the machine-readable error code when the API sent one
	Code string
	// Message is the human-readable description
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("auth api: %d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("auth api: %d: %s", e.StatusCode, e.Message)
}

// Unauthorized reports whether the API rejected the credentials or token.
func (e *APIError) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// parseErrorResponse turns an error answer into an *APIError.
// It understands { error, error_description }, { code, message } and { message }
// bodies, falling back to the status text.
func parseErrorResponse(status int, body []byte) error {
	var errBody struct {
		Error            any    `json:"error"`
		ErrorDescription string `json:"error_description"`
		Code             string `json:"code"`
		Message          string `json:"message"`
	}

	apiErr := &APIError{StatusCode: status}
	if err := json.Unmarshal(body, &errBody); err == nil {
		switch v := errBody.Error.(type) {
		case string:
			apiErr.Code = v
		case map[string]any:
			// { "error": { "code": ..., "message": ... } }
			if c, ok := v["code"].(string); ok {
				apiErr.Code = c
			}
			if m, ok := v["message"].(string); ok {
				apiErr.Message = m
			}
		}
		if apiErr.Code == "" {
			apiErr.Code = errBody.Code
		}
		if apiErr.Message == "" {
			apiErr.Message = firstNonEmpty(errBody.ErrorDescription, errBody.Message)
		}
	} else if text := strings.TrimSpace(string(body)); text != "" && len(text) <= 200 {
		apiErr.Message = text
	}

	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
