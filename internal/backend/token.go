// Copyright (c) 2025 The authsession Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	apperrors "authsession/cli/internal/errors"
)

// decodeTokenBundle decodes a login/signup/refresh answer.
// Be liberal in what we accept: field names in camelCase or snake_case, and a
// bearer token in the Authorization header when the body carries none.
func decodeTokenBundle(resp *response) (*TokenBundle, error) {
	var raw map[string]any
	if err := json.Unmarshal(resp.body, &raw); err != nil {
		return nil, apperrors.Wrap(apperrors.InvalidResponse, "decode token response", err)
	}

	bundle := &TokenBundle{
		AccessToken:  extractAccessToken(raw),
		RefreshToken: extractRefreshToken(raw),
		ExpiresIn:    extractExpiresIn(raw),
		User:         extractUser(raw),
	}
	if bundle.AccessToken == "" {
		bundle.AccessToken = parseBearerToken(resp.header.Get("Authorization"))
	}
	if bundle.AccessToken == "" {
		return nil, apperrors.New(apperrors.InvalidResponse, "no access token in response")
	}
	return bundle, nil
}

// parseBearerToken extracts token from a value like "Bearer <token>" case-insensitively.
// Returns the token string without the "Bearer " prefix, or empty string if invalid format.
func parseBearerToken(value string) string {
	v := strings.TrimSpace(value)
	if len(v) < 7 {
		return ""
	}
	if strings.EqualFold(v[0:6], "bearer") && (v[6] == ' ' || v[6] == '\t') {
		return strings.TrimSpace(v[6:])
	}
	return ""
}

// extractAccessToken extracts the access token from the response payload.
// It tries multiple common field names to be resilient to different response formats.
func extractAccessToken(result map[string]any) string {
	return firstString(result, "token", "accessToken", "access_token")
}

// extractRefreshToken extracts the refresh token from the response payload.
// Returns empty string if no refresh token is present.
func extractRefreshToken(result map[string]any) string {
	return firstString(result, "refreshToken", "refresh_token")
}

// extractExpiresIn reads the lifetime in seconds from a number or numeric string.
// A missing or unusable value yields 0.
func extractExpiresIn(result map[string]any) int64 {
	for _, key := range []string{"expiresIn", "expires_in"} {
		switch v := result[key].(type) {
		case float64:
			if v > 0 {
				return int64(v)
			}
		case string:
			if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil && n > 0 {
				return n
			}
		}
	}
	return 0
}

// extractUser reads the nested user object. IDs may arrive as strings or numbers.
func extractUser(result map[string]any) *User {
	m, ok := result["user"].(map[string]any)
	if !ok {
		return nil
	}
	u := &User{
		Email: firstString(m, "email"),
		Name:  firstString(m, "name"),
	}
	switch id := m["id"].(type) {
	case string:
		u.ID = id
	case float64:
		u.ID = strconv.FormatFloat(id, 'f', -1, 64)
	case nil:
	default:
		u.ID = fmt.Sprint(id)
	}
	return u
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k].(string); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
