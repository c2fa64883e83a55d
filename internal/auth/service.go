// Copyright (c) 2025 The authsession Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package auth provides the session coordinator for the authsession CLI.
// It drives login, signup, refresh and logout against the auth API, keeps the
// token store consistent with each outcome and publishes the current user and
// the authenticated flag as observable values.
//
// State transitions are serialized by a mutex. Network calls run outside it;
// the completion of each call takes it before touching the store or the
// observable values. Subscribers are notified while that lock is held, so a
// subscriber must not call Login, Signup, Refresh, Logout or Reset
// synchronously from its callback.
package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"authsession/cli/internal/backend"
	apperrors "authsession/cli/internal/errors"
	"authsession/cli/internal/logging"
	"authsession/cli/internal/observable"
	"authsession/cli/internal/tokenstore"

	"github.com/rs/zerolog"
)

// ErrNotAuthenticated is returned when no usable session exists and none could be restored.
var ErrNotAuthenticated = apperrors.New(apperrors.NotAuthenticated, "not authenticated")

// Service coordinates the session. It is safe for concurrent use.
type Service struct {
	api   backend.API
	store *tokenstore.Store
	now   func() time.Time
	log   zerolog.Logger

	refreshOnStart bool
	skipStartup    bool

	// mu serializes state transitions.
	mu sync.Mutex
	// refreshMu keeps concurrent AccessToken callers from refreshing twice.
	refreshMu sync.Mutex

	currentUser   *observable.Value[*backend.User]
	authenticated *observable.Value[bool]
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the clock used to compute token expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLogger attaches a logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Service) { s.log = log }
}

// WithStartupRefresh makes Initialize try a refresh when the stored access
// token is expired but a refresh token is present, instead of clearing.
func WithStartupRefresh(enabled bool) Option {
	return func(s *Service) { s.refreshOnStart = enabled }
}

// WithoutStartup makes NewService skip Initialize. The stored session is left
// as is and the authenticated flag starts false until an operation sets it.
// Commands that act on the stored tokens directly, such as an explicit refresh,
// use it so startup does not consume or clear the session first.
func WithoutStartup() Option {
	return func(s *Service) { s.skipStartup = true }
}

// NewService creates a coordinator over api and store and runs Initialize
// unless WithoutStartup is given.
func NewService(ctx context.Context, api backend.API, store *tokenstore.Store, opts ...Option) *Service {
	s := &Service{
		api:           api,
		store:         store,
		now:           time.Now,
		log:           zerolog.Nop(),
		currentUser:   observable.New[*backend.User](nil),
		authenticated: observable.New(false),
	}
	for _, opt := range opts {
		opt(s)
	}
	if !s.skipStartup {
		s.Initialize(ctx)
	}
	return s
}

// CurrentUser exposes the signed-in user. It is nil until a login, signup or
// refresh response carries one.
func (s *Service) CurrentUser() observable.Reader[*backend.User] { return s.currentUser }

// Authenticated exposes the authenticated flag.
func (s *Service) Authenticated() observable.Reader[bool] { return s.authenticated }

// Initialize derives the authenticated state from the token store. A present,
// unexpired token marks the session authenticated; anything else clears the
// stored session locally, optionally after a refresh attempt.
func (s *Service) Initialize(ctx context.Context) {
	if s.store.HasToken() && !s.store.IsTokenExpired() {
		s.mu.Lock()
		s.authenticated.Set(true)
		s.mu.Unlock()
		s.log.Debug().Msg("restored session from token store")
		return
	}

	if s.refreshOnStart {
		if _, err := s.store.RefreshToken(); err == nil {
			ok, err := s.Refresh(ctx)
			if err != nil {
				s.log.Warn().Str("error", logging.Mask(err.Error())).Msg("session refresh on startup failed")
			}
			if ok {
				s.log.Debug().Msg("session refreshed on startup")
			}
			return
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.clearLocked(); err != nil {
		s.log.Warn().Str("error", logging.Mask(err.Error())).Msg("clearing stale session failed")
	}
}

// Reset clears the session locally without contacting the auth API.
func (s *Service) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clearLocked()
}

// Login signs in with email and password and stores the issued tokens.
// On failure the authenticated flag drops to false and the API error is
// returned unchanged; the stored session is left as it was.
func (s *Service) Login(ctx context.Context, email, password string) (*backend.User, error) {
	bundle, err := s.api.Login(ctx, email, password)
	return s.completeAuth("login", bundle, err)
}

// Signup creates an account and signs in with it.
func (s *Service) Signup(ctx context.Context, email, password, name string) (*backend.User, error) {
	bundle, err := s.api.Signup(ctx, email, password, name)
	return s.completeAuth("signup", bundle, err)
}

// Refresh exchanges the stored refresh token for a new session. The current
// user becomes whatever the response carries, which is nil when it has none;
// Identity then falls back to the new token's claims.
// Without a stored refresh token it clears the session and returns (false, nil)
// without a network call. A rejected or failed refresh clears the session and
// returns the error.
func (s *Service) Refresh(ctx context.Context) (bool, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()
	return s.refresh(ctx)
}

// Logout ends the session. The auth API is notified on a best-effort basis;
// the local session is cleared whether or not that call succeeds.
func (s *Service) Logout(ctx context.Context) error {
	token, err := s.store.Token()
	if err != nil && !errors.Is(err, tokenstore.ErrNotFound) {
		s.log.Debug().Str("error", logging.Mask(err.Error())).Msg("access token unreadable, logging out without it")
	}

	if err := s.api.Logout(ctx, token); err != nil {
		s.log.Warn().Str("error", logging.Mask(err.Error())).Msg("remote logout failed, clearing local session")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clearLocked()
}

// RequestPasswordReset asks the auth API to send a reset link. Session state is untouched.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) (map[string]any, error) {
	return s.api.RequestPasswordReset(ctx, email)
}

// ResetPassword sets a new password using a reset token. Session state is untouched.
func (s *Service) ResetPassword(ctx context.Context, resetToken, newPassword string) (map[string]any, error) {
	return s.api.ConfirmPasswordReset(ctx, resetToken, newPassword)
}

// ChangePassword changes the password of the signed-in user. The stored access
// token is attached as is; it is not refreshed first.
func (s *Service) ChangePassword(ctx context.Context, oldPassword, newPassword string) (map[string]any, error) {
	token, err := s.store.Token()
	if err != nil && !errors.Is(err, tokenstore.ErrNotFound) {
		s.log.Debug().Str("error", logging.Mask(err.Error())).Msg("access token unreadable")
	}
	return s.api.ChangePassword(ctx, token, oldPassword, newPassword)
}

// IsAuthenticated reports whether the store holds an unexpired access token.
// It reads the store on every call rather than the cached flag.
func (s *Service) IsAuthenticated() bool {
	return s.store.HasToken() && !s.store.IsTokenExpired()
}

// AccessToken returns a usable access token, refreshing first when the stored
// one is expired or missing. Returns ErrNotAuthenticated when no token can be produced.
func (s *Service) AccessToken(ctx context.Context) (string, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	if !s.store.IsTokenExpired() {
		if token, err := s.store.Token(); err == nil {
			return token, nil
		}
	}

	ok, err := s.refresh(ctx)
	if err != nil {
		return "", apperrors.Wrap(apperrors.NotAuthenticated, ErrNotAuthenticated.Message, err)
	}
	if !ok {
		return "", ErrNotAuthenticated
	}
	token, err := s.store.Token()
	if err != nil {
		return "", apperrors.Wrap(apperrors.NotAuthenticated, ErrNotAuthenticated.Message, err)
	}
	return token, nil
}

// Identity returns the signed-in user for display. When this process has not
// seen a login response it falls back to the access token's claims, which are
// not verified. Returns nil when neither is available.
func (s *Service) Identity() *backend.User {
	if u := s.currentUser.Get(); u != nil {
		return u
	}
	token, err := s.store.Token()
	if err != nil {
		return nil
	}
	return userFromToken(token)
}

func (s *Service) refresh(ctx context.Context) (bool, error) {
	refreshToken, err := s.store.RefreshToken()
	if err != nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		clearErr := s.clearLocked()
		if errors.Is(err, tokenstore.ErrNotFound) {
			s.log.Debug().Msg("no refresh token stored, session cleared")
			return false, clearErr
		}
		return false, err
	}

	bundle, err := s.api.Refresh(ctx, refreshToken)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		if clearErr := s.clearLocked(); clearErr != nil {
			s.log.Warn().Str("error", logging.Mask(clearErr.Error())).Msg("clearing session after failed refresh")
		}
		s.log.Debug().Str("error", logging.Mask(err.Error())).Msg("refresh rejected, session cleared")
		return false, err
	}

	b := *bundle
	if b.RefreshToken == "" {
		b.RefreshToken = refreshToken
	}
	if err := s.applyLocked(&b); err != nil {
		return false, err
	}
	s.log.Debug().Msg("session refreshed")
	return true, nil
}

func (s *Service) completeAuth(op string, bundle *backend.TokenBundle, err error) (*backend.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.authenticated.Set(false)
		s.log.Debug().Str("op", op).Str("error", logging.Mask(err.Error())).Msg("authentication failed")
		return nil, err
	}
	if err := s.applyLocked(bundle); err != nil {
		return nil, err
	}

	ev := s.log.Info().Str("op", op)
	if bundle.User != nil {
		ev = ev.Str("user_id", bundle.User.ID)
	}
	ev.Msg("session established")
	return bundle.User, nil
}

// applyLocked persists bundle in one write and publishes its user. Caller holds s.mu.
func (s *Service) applyLocked(bundle *backend.TokenBundle) error {
	rec := tokenstore.Record{
		AccessToken:  bundle.AccessToken,
		RefreshToken: bundle.RefreshToken,
		ExpiresAt:    tokenstore.FormatExpiry(s.expiryFor(bundle)),
	}
	if err := s.store.Save(rec); err != nil {
		s.authenticated.Set(false)
		return err
	}
	s.currentUser.Set(bundle.User)
	s.authenticated.Set(true)
	return nil
}

// expiryFor computes the absolute expiry in milliseconds. A bundle without a
// lifetime falls back to the token's exp claim, then to now (already expired).
func (s *Service) expiryFor(bundle *backend.TokenBundle) int64 {
	now := s.now().UnixMilli()
	if bundle.ExpiresIn > 0 {
		return now + bundle.ExpiresIn*1000
	}
	if ms, ok := expiryFromToken(bundle.AccessToken); ok {
		return ms
	}
	return now
}

// clearLocked removes the stored session and resets both observable values.
// Caller holds s.mu.
func (s *Service) clearLocked() error {
	err := s.store.Clear()
	s.currentUser.Set(nil)
	s.authenticated.Set(false)
	return err
}
