// Copyright (c) 2025 The authsession Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package tokenstore persists the access token, refresh token and token expiry
// for one auth API and answers whether a usable token is present.
//
// All three fields live in a single serialized record under one key, so a
// login or refresh replaces them with one write. Individual setters read the
// record, change one field and write it back under the store's lock.
//
// Reads fail closed: an unreadable record, a missing expiry or an expiry that
// does not parse all count as "expired".
package tokenstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	apperrors "authsession/cli/internal/errors"
	"authsession/cli/internal/keychain"

	"github.com/rs/zerolog"
)

// RecordKey is the storage key holding the serialized session record.
const RecordKey = "session"

var (
	// ErrNotFound is returned when the requested field is not stored.
	ErrNotFound = errors.New("tokenstore: not found")
	// ErrMalformedExpiry is returned when the stored expiry is not a decimal integer.
	ErrMalformedExpiry = errors.New("tokenstore: malformed expiry")
	// ErrCorruptRecord is returned when the stored record is not valid JSON.
	ErrCorruptRecord = errors.New("tokenstore: corrupt record")
)

// Backend is the durable key-value medium. *keychain.Manager implements it.
type Backend interface {
	Get(key string) ([]byte, error)
	Set(key string, data []byte) error
	Remove(key string) error
}

// Record is the persisted session material.
// ExpiresAt holds milliseconds since the Unix epoch as a decimal string.
type Record struct {
	AccessToken  string `json:"access_token,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresAt    string `json:"expires_at,omitempty"`
}

// Store is the token store. It is safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	backend Backend
	now     func() time.Time
	log     zerolog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the wall clock used by IsTokenExpired.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger attaches a logger for fail-closed read diagnostics.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Store) { s.log = log }
}

// New creates a Store over backend.
func New(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		now:     time.Now,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load returns the stored record. A missing record yields the zero Record.
func (s *Store) Load() (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Save replaces the whole record in a single write.
func (s *Store) Save(r Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(r)
}

// SetToken stores the access token.
func (s *Store) SetToken(token string) error {
	return s.update(func(r *Record) { r.AccessToken = token })
}

// Token returns the access token, or ErrNotFound.
func (s *Store) Token() (string, error) {
	r, err := s.Load()
	if err != nil {
		return "", err
	}
	if r.AccessToken == "" {
		return "", ErrNotFound
	}
	return r.AccessToken, nil
}

// SetRefreshToken stores the refresh token.
func (s *Store) SetRefreshToken(token string) error {
	return s.update(func(r *Record) { r.RefreshToken = token })
}

// RefreshToken returns the refresh token, or ErrNotFound.
func (s *Store) RefreshToken() (string, error) {
	r, err := s.Load()
	if err != nil {
		return "", err
	}
	if r.RefreshToken == "" {
		return "", ErrNotFound
	}
	return r.RefreshToken, nil
}

// SetTokenExpiry stores the expiry as milliseconds since the Unix epoch.
func (s *Store) SetTokenExpiry(ms int64) error {
	return s.update(func(r *Record) { r.ExpiresAt = FormatExpiry(ms) })
}

// TokenExpiry returns the stored expiry in milliseconds since the Unix epoch.
// Returns ErrNotFound when absent and ErrMalformedExpiry when it does not parse.
func (s *Store) TokenExpiry() (int64, error) {
	r, err := s.Load()
	if err != nil {
		return 0, err
	}
	return r.Expiry()
}

// IsTokenExpired reports whether the access token must be treated as expired:
// no expiry stored, an unusable expiry, or now at or past the expiry.
func (s *Store) IsTokenExpired() bool {
	ms, err := s.TokenExpiry()
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.log.Debug().Err(err).Msg("token expiry unusable, treating as expired")
		}
		return true
	}
	return s.now().UnixMilli() >= ms
}

// HasToken reports whether a non-empty access token is stored and readable.
func (s *Store) HasToken() bool {
	_, err := s.Token()
	if err != nil && !errors.Is(err, ErrNotFound) {
		s.log.Debug().Err(err).Msg("access token unreadable, treating as absent")
	}
	return err == nil
}

// Clear deletes the record. Clearing an empty store is not an error.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backend.Remove(RecordKey); err != nil {
		return apperrors.Wrap(apperrors.StoreFailed, "clear session", err)
	}
	return nil
}

// Expiry parses ExpiresAt.
func (r Record) Expiry() (int64, error) {
	if r.ExpiresAt == "" {
		return 0, ErrNotFound
	}
	ms, err := strconv.ParseInt(r.ExpiresAt, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedExpiry, r.ExpiresAt)
	}
	return ms, nil
}

// FormatExpiry encodes milliseconds since the Unix epoch the way records store them.
func FormatExpiry(ms int64) string {
	return strconv.FormatInt(ms, 10)
}

func (s *Store) update(mutate func(*Record)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.load()
	if err != nil {
		if !errors.Is(err, ErrCorruptRecord) {
			return err
		}
		// an undecodable record is overwritten rather than left in place
		r = Record{}
	}
	mutate(&r)
	return s.save(r)
}

func (s *Store) load() (Record, error) {
	var r Record
	data, err := s.backend.Get(RecordKey)
	if err != nil {
		if errors.Is(err, keychain.ErrNotFound) {
			return r, nil
		}
		return r, apperrors.Wrap(apperrors.StoreFailed, "read session", err)
	}
	if err := json.Unmarshal(data, &r); err != nil {
		return Record{}, apperrors.Wrap(apperrors.StoreFailed, "decode session", fmt.Errorf("%w: %v", ErrCorruptRecord, err))
	}
	return r, nil
}

func (s *Store) save(r Record) error {
	if r == (Record{}) {
		if err := s.backend.Remove(RecordKey); err != nil {
			return apperrors.Wrap(apperrors.StoreFailed, "clear session", err)
		}
		return nil
	}
	b, err := json.Marshal(r)
	if err != nil {
		return err
	}
	if err := s.backend.Set(RecordKey, b); err != nil {
		return apperrors.Wrap(apperrors.StoreFailed, "write session", err)
	}
	return nil
}
