package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	apperrors "authsession/cli/internal/errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Endpoints holds the API paths relative to the base URL.
type Endpoints struct {
	Login                string `json:"login"`
	Signup               string `json:"signup"`
	Logout               string `json:"logout"`
	Refresh              string `json:"refresh"`
	PasswordResetRequest string `json:"password_reset_request"`
	PasswordResetConfirm string `json:"password_reset_confirm"`
	ChangePassword       string `json:"change_password"`
}

// DefaultEndpoints returns the standard auth API paths.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		Login:                "/login",
		Signup:               "/signup",
		Logout:               "/logout",
		Refresh:              "/refresh",
		PasswordResetRequest: "/password-reset/request",
		PasswordResetConfirm: "/password-reset/confirm",
		ChangePassword:       "/change-password",
	}
}

// WithDefaults fills empty paths from DefaultEndpoints.
func (e Endpoints) WithDefaults() Endpoints {
	d := DefaultEndpoints()
	fill := func(v *string, def string) {
		if strings.TrimSpace(*v) == "" {
			*v = def
		}
	}
	fill(&e.Login, d.Login)
	fill(&e.Signup, d.Signup)
	fill(&e.Logout, d.Logout)
	fill(&e.Refresh, d.Refresh)
	fill(&e.PasswordResetRequest, d.PasswordResetRequest)
	fill(&e.PasswordResetConfirm, d.PasswordResetConfirm)
	fill(&e.ChangePassword, d.ChangePassword)
	return e
}

// HTTP implements API over JSON REST endpoints.
type HTTP struct {
	// baseURL is the base URL for all HTTP requests (e.g., "https://auth.example.com/api")
	baseURL string
	// endpoints contains the URL paths for the auth operations
	endpoints Endpoints
	// client is the underlying HTTP client with configured timeout
	client    *http.Client
	userAgent string
	log       zerolog.Logger
}

// newHTTP creates a new HTTP client with the given base URL and options.
func newHTTP(baseURL string, opts Options) *HTTP {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = "authsession-cli"
	}
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}
	return &HTTP{
		baseURL:   strings.TrimRight(baseURL, "/"),
		endpoints: opts.Endpoints.WithDefaults(),
		client:    &http.Client{Timeout: timeout},
		userAgent: ua,
		log:       log,
	}
}

// response is a fully read 2xx answer.
type response struct {
	header http.Header
	body   []byte
}

// post sends body as JSON to path. A nil body sends an empty request body.
// Non-2xx answers are returned as *APIError; transport failures as network_failed.
func (h *HTTP) post(ctx context.Context, path string, body any, accessToken string) (*response, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	reqID := uuid.NewString()
	h.setStandardHeaders(req, reqID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	start := time.Now()
	resp, err := h.client.Do(req)
	if err != nil {
		h.log.Debug().Str("request_id", reqID).Str("path", path).Err(err).Msg("auth api request failed")
		return nil, apperrors.Wrap(apperrors.NetworkFailed, "POST "+path, err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.NetworkFailed, "read "+path+" response", err)
	}

	h.log.Debug().
		Str("request_id", reqID).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("auth api request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, parseErrorResponse(resp.StatusCode, b)
	}
	return &response{header: resp.Header, body: b}, nil
}

// setStandardHeaders sets the headers every auth API request carries.
func (h *HTTP) setStandardHeaders(req *http.Request, requestID string) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", h.userAgent)
	req.Header.Set("X-Request-ID", requestID)
}
