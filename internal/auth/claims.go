// Copyright (c) 2025 The authsession Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import (
	"authsession/cli/internal/backend"

	"github.com/golang-jwt/jwt/v5"
)

// sessionClaims are the access token claims the CLI reads for display.
type sessionClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// parseClaims decodes token without verifying its signature. The auth API is
// the only party that validates tokens; the CLI only displays what they say.
func parseClaims(token string) (*sessionClaims, bool) {
	var c sessionClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &c); err != nil {
		return nil, false
	}
	return &c, true
}

func userFromToken(token string) *backend.User {
	c, ok := parseClaims(token)
	if !ok || (c.Subject == "" && c.Email == "") {
		return nil
	}
	return &backend.User{ID: c.Subject, Email: c.Email, Name: c.Name}
}

func expiryFromToken(token string) (int64, bool) {
	c, ok := parseClaims(token)
	if !ok || c.ExpiresAt == nil {
		return 0, false
	}
	return c.ExpiresAt.UnixMilli(), true
}
