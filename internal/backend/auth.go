package backend

import (
	"context"
	"encoding/json"
	"strings"
)

// Login posts { email, password } to the login endpoint and decodes the token bundle.
func (h *HTTP) Login(ctx context.Context, email, password string) (*TokenBundle, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
	}
	resp, err := h.post(ctx, h.endpoints.Login, body, "")
	if err != nil {
		return nil, err
	}
	return decodeTokenBundle(resp)
}

// Signup posts { email, password, name } to the signup endpoint.
// The answer has the same shape as login.
func (h *HTTP) Signup(ctx context.Context, email, password, name string) (*TokenBundle, error) {
	body := map[string]string{
		"email":    email,
		"password": password,
		"name":     name,
	}
	resp, err := h.post(ctx, h.endpoints.Signup, body, "")
	if err != nil {
		return nil, err
	}
	return decodeTokenBundle(resp)
}

// Refresh posts { refreshToken } to the refresh endpoint.
// The backend may rotate the refresh token or keep it the same.
func (h *HTTP) Refresh(ctx context.Context, refreshToken string) (*TokenBundle, error) {
	body := map[string]string{
		"refreshToken": refreshToken,
	}
	resp, err := h.post(ctx, h.endpoints.Refresh, body, "")
	if err != nil {
		return nil, err
	}
	return decodeTokenBundle(resp)
}

// Logout posts an empty body to the logout endpoint with the bearer token when known.
// The response body is ignored.
func (h *HTTP) Logout(ctx context.Context, accessToken string) error {
	_, err := h.post(ctx, h.endpoints.Logout, nil, accessToken)
	return err
}

// RequestPasswordReset posts { email } and passes the server's answer through.
func (h *HTTP) RequestPasswordReset(ctx context.Context, email string) (map[string]any, error) {
	resp, err := h.post(ctx, h.endpoints.PasswordResetRequest, map[string]string{"email": email}, "")
	if err != nil {
		return nil, err
	}
	return decodePassthrough(resp.body), nil
}

// ConfirmPasswordReset posts { token, newPassword } and passes the server's answer through.
func (h *HTTP) ConfirmPasswordReset(ctx context.Context, resetToken, newPassword string) (map[string]any, error) {
	body := map[string]string{
		"token":       resetToken,
		"newPassword": newPassword,
	}
	resp, err := h.post(ctx, h.endpoints.PasswordResetConfirm, body, "")
	if err != nil {
		return nil, err
	}
	return decodePassthrough(resp.body), nil
}

// ChangePassword posts { oldPassword, newPassword } with the bearer token and
// passes the server's answer through.
func (h *HTTP) ChangePassword(ctx context.Context, accessToken, oldPassword, newPassword string) (map[string]any, error) {
	body := map[string]string{
		"oldPassword": oldPassword,
		"newPassword": newPassword,
	}
	resp, err := h.post(ctx, h.endpoints.ChangePassword, body, accessToken)
	if err != nil {
		return nil, err
	}
	return decodePassthrough(resp.body), nil
}

// decodePassthrough returns the answer as a map. Empty bodies yield an empty map;
// bodies that are not a JSON object are kept under "message".
func decodePassthrough(body []byte) map[string]any {
	out := map[string]any{}
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return out
	}
	if err := json.Unmarshal([]byte(trimmed), &out); err != nil {
		return map[string]any{"message": trimmed}
	}
	return out
}
