// Copyright (c) 2025 The authsession Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"authsession/cli/internal/auth"
	"authsession/cli/internal/backend"
	"authsession/cli/internal/config"
	"authsession/cli/internal/httperrors"
	"authsession/cli/internal/keychain"
	"authsession/cli/internal/logging"
	"authsession/cli/internal/tokenstore"
	"authsession/cli/internal/xdg"

	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
)

// session bundles what a command needs to talk to the auth API.
type session struct {
	cfg   config.Config
	log   zerolog.Logger
	store *tokenstore.Store
	svc   *auth.Service
}

// reportedError marks an error whose explanation was already printed.
type reportedError struct{ err error }

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// openSession loads config, opens the keyring and starts the session coordinator.
// opts are applied after the config-driven ones.
func openSession(ctx context.Context, opts ...auth.Option) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if flagBaseURL != "" {
		cfg.BaseURL = flagBaseURL
	}

	log := logging.New(os.Stderr, cfg.LogLevel, flagVerbose)
	if flagVerbose || logging.IsVerbose() {
		pterm.EnableDebugMessages()
	}

	fileDir := cfg.Keyring.FileDir
	if fileDir == "" {
		if dir, err := xdg.StateDir(); err == nil {
			fileDir = filepath.Join(dir, "keyring")
		}
	}
	km, err := keychain.Open(keychain.Options{
		ServiceName:  cfg.Keyring.Service,
		Backends:     cfg.Keyring.Backends,
		FileDir:      fileDir,
		FilePassword: cfg.Keyring.FilePassword,
	})
	if err != nil {
		return nil, err
	}

	store := tokenstore.New(km, tokenstore.WithLogger(log))
	api := backend.New(cfg.BaseURL, backend.Options{
		Endpoints: cfg.Endpoints,
		UserAgent: "authsession-cli/" + Version,
		Timeout:   cfg.Timeout(),
		Logger:    &log,
	})
	svcOpts := append([]auth.Option{
		auth.WithLogger(log),
		auth.WithStartupRefresh(cfg.RefreshOnStart),
	}, opts...)
	svc := auth.NewService(ctx, api, store, svcOpts...)

	return &session{cfg: cfg, log: log, store: store, svc: svc}, nil
}

// present prints a user-facing explanation of err and returns it marked as reported.
func (s *session) present(err error, context string) error {
	if err == nil {
		return nil
	}
	switch {
	case httperrors.IsNetworkError(err):
		return &reportedError{httperrors.FormatNetworkError(err, context, s.cfg.BaseURL)}
	case logging.PresentAPIError(err, context):
		return &reportedError{err}
	case errors.Is(err, auth.ErrNotAuthenticated):
		pterm.Println("🔒 You're not logged in.")
		pterm.Println("   Run 'authsession login' to get started.")
		return &reportedError{err}
	default:
		pterm.Error.Println(logging.PresentError(context, err))
		return &reportedError{err}
	}
}
