// Copyright (c) 2025 The authsession Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package backend provides the client for the remote authentication API.
// It defines the API contract the session coordinator depends on and an
// HTTP implementation that speaks JSON over POST to a configured base URL.
package backend

import "context"

// API defines auth API operations the session coordinator depends on.
// Implementations may call real HTTP endpoints or provide fakes for tests.
type API interface {
	// Login exchanges credentials for a token bundle.
	Login(ctx context.Context, email, password string) (*TokenBundle, error)
	// Signup creates an account and returns its first token bundle.
	Signup(ctx context.Context, email, password, name string) (*TokenBundle, error)
	// Refresh exchanges a refresh token for a new token bundle.
	Refresh(ctx context.Context, refreshToken string) (*TokenBundle, error)
	// Logout notifies the API that the session ends. accessToken may be empty.
	Logout(ctx context.Context, accessToken string) error
	// RequestPasswordReset asks the API to send a reset link to email.
	RequestPasswordReset(ctx context.Context, email string) (map[string]any, error)
	// ConfirmPasswordReset sets a new password using a reset token.
	ConfirmPasswordReset(ctx context.Context, resetToken, newPassword string) (map[string]any, error)
	// ChangePassword changes the password of the signed-in user.
	ChangePassword(ctx context.Context, accessToken, oldPassword, newPassword string) (map[string]any, error)
}

// User is the identity payload returned with a token bundle.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// DisplayName returns the most human-friendly identifier available.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	switch {
	case u.Email != "":
		return u.Email
	case u.Name != "":
		return u.Name
	default:
		return u.ID
	}
}

// TokenBundle is the auth API's answer to login, signup and refresh.
type TokenBundle struct {
	AccessToken  string
	RefreshToken string
	// ExpiresIn is the access token lifetime in seconds.
	ExpiresIn int64
	User      *User
}
