package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apperrors "authsession/cli/internal/errors"

	"github.com/stretchr/testify/require"
)

type recorded struct {
	method  string
	path    string
	body    map[string]any
	rawBody string
	header  http.Header
}

// newFakeAPI serves handler and records every request it receives.
func newFakeAPI(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*HTTP, *[]recorded) {
	t.Helper()
	var calls []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		rec := recorded{method: r.Method, path: r.URL.Path, rawBody: string(b), header: r.Header.Clone()}
		if len(b) > 0 {
			_ = json.Unmarshal(b, &rec.body)
		}
		calls = append(calls, rec)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return newHTTP(srv.URL+"/", Options{UserAgent: "authsession-test"}), &calls
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestHTTP_Login(t *testing.T) {
	h, calls := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"token":        "t",
			"refreshToken": "r",
			"expiresIn":    60,
			"user":         map[string]any{"id": "u1", "email": "ada@example.com", "name": "Ada"},
		})
	})

	bundle, err := h.Login(context.Background(), "ada@example.com", "pw")
	require.NoError(t, err)
	require.Equal(t, &TokenBundle{
		AccessToken:  "t",
		RefreshToken: "r",
		ExpiresIn:    60,
		User:         &User{ID: "u1", Email: "ada@example.com", Name: "Ada"},
	}, bundle)

	require.Len(t, *calls, 1)
	c := (*calls)[0]
	require.Equal(t, http.MethodPost, c.method)
	require.Equal(t, "/login", c.path)
	require.Equal(t, map[string]any{"email": "ada@example.com", "password": "pw"}, c.body)
	require.Equal(t, "application/json", c.header.Get("Content-Type"))
	require.Equal(t, "authsession-test", c.header.Get("User-Agent"))
	require.NotEmpty(t, c.header.Get("X-Request-ID"))
	require.Empty(t, c.header.Get("Authorization"))
}

func TestHTTP_RequestBodies(t *testing.T) {
	h, calls := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/signup", "/refresh":
			writeJSON(w, http.StatusCreated, map[string]any{"access_token": "t2", "refresh_token": "r2", "expires_in": "30"})
		default:
			writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		}
	})
	ctx := context.Background()

	bundle, err := h.Signup(ctx, "a@b.c", "pw", "Ada")
	require.NoError(t, err)
	require.Equal(t, "t2", bundle.AccessToken)
	require.Equal(t, int64(30), bundle.ExpiresIn)
	require.Nil(t, bundle.User)

	_, err = h.Refresh(ctx, "r1")
	require.NoError(t, err)

	out, err := h.RequestPasswordReset(ctx, "a@b.c")
	require.NoError(t, err)
	require.Equal(t, map[string]any{"ok": true}, out)

	_, err = h.ConfirmPasswordReset(ctx, "reset-tok", "new")
	require.NoError(t, err)

	_, err = h.ChangePassword(ctx, "access", "old", "new")
	require.NoError(t, err)

	require.NoError(t, h.Logout(ctx, "access"))

	want := []struct {
		path string
		body map[string]any
	}{
		{"/signup", map[string]any{"email": "a@b.c", "password": "pw", "name": "Ada"}},
		{"/refresh", map[string]any{"refreshToken": "r1"}},
		{"/password-reset/request", map[string]any{"email": "a@b.c"}},
		{"/password-reset/confirm", map[string]any{"token": "reset-tok", "newPassword": "new"}},
		{"/change-password", map[string]any{"oldPassword": "old", "newPassword": "new"}},
		{"/logout", nil},
	}
	require.Len(t, *calls, len(want))
	for i, w := range want {
		require.Equal(t, w.path, (*calls)[i].path)
		require.Equal(t, w.body, (*calls)[i].body)
	}
	require.Equal(t, "Bearer access", (*calls)[4].header.Get("Authorization"))
	require.Equal(t, "Bearer access", (*calls)[5].header.Get("Authorization"))
	require.Empty(t, (*calls)[5].rawBody)
}

func TestHTTP_TokenFromAuthorizationHeader(t *testing.T) {
	h, _ := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Authorization", "Bearer from-header")
		writeJSON(w, http.StatusOK, map[string]any{"expiresIn": 5})
	})

	bundle, err := h.Login(context.Background(), "a", "b")
	require.NoError(t, err)
	require.Equal(t, "from-header", bundle.AccessToken)
}

func TestHTTP_MissingTokenIsInvalidResponse(t *testing.T) {
	h, _ := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"user": map[string]any{"id": 7}})
	})

	_, err := h.Login(context.Background(), "a", "b")
	require.Error(t, err)
	require.Equal(t, apperrors.InvalidResponse, apperrors.KindOf(err))
}

func TestHTTP_ErrorResponses(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   *APIError
	}{
		{
			name:   "oauth style",
			status: http.StatusUnauthorized,
			body:   `{"error":"invalid_grant","error_description":"bad credentials"}`,
			want:   &APIError{StatusCode: 401, Code: "invalid_grant", Message: "bad credentials"},
		},
		{
			name:   "code and message",
			status: http.StatusConflict,
			body:   `{"code":"email_taken","message":"account exists"}`,
			want:   &APIError{StatusCode: 409, Code: "email_taken", Message: "account exists"},
		},
		{
			name:   "nested error object",
			status: http.StatusBadRequest,
			body:   `{"error":{"code":"weak_password","message":"too short"}}`,
			want:   &APIError{StatusCode: 400, Code: "weak_password", Message: "too short"},
		},
		{
			name:   "plain text",
			status: http.StatusBadGateway,
			body:   `upstream down`,
			want:   &APIError{StatusCode: 502, Message: "upstream down"},
		},
		{
			name:   "empty body",
			status: http.StatusInternalServerError,
			want:   &APIError{StatusCode: 500, Message: "Internal Server Error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := h.Login(context.Background(), "a", "b")
			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			require.Equal(t, tt.want, apiErr)
		})
	}
}

func TestHTTP_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	h := newHTTP(url, Options{Timeout: time.Second})
	err := h.Logout(context.Background(), "")
	require.Error(t, err)
	require.Equal(t, apperrors.NetworkFailed, apperrors.KindOf(err))
}

func TestHTTP_PassthroughNonJSON(t *testing.T) {
	h, _ := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "check your inbox")
	})

	out, err := h.RequestPasswordReset(context.Background(), "a@b.c")
	require.NoError(t, err)
	require.Equal(t, map[string]any{"message": "check your inbox"}, out)
}

func TestParseBearerToken(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Bearer abc", "abc"},
		{"bearer   abc ", "abc"},
		{"Basic abc", ""},
		{"Bearerabc", ""},
		{"", ""},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, parseBearerToken(tt.in), tt.in)
	}
}

func TestUser_DisplayName(t *testing.T) {
	require.Equal(t, "", (*User)(nil).DisplayName())
	require.Equal(t, "a@b.c", (&User{ID: "1", Email: "a@b.c", Name: "A"}).DisplayName())
	require.Equal(t, "A", (&User{ID: "1", Name: "A"}).DisplayName())
	require.Equal(t, "1", (&User{ID: "1"}).DisplayName())
}
