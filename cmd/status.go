// Copyright (c) 2025 The authsession Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"errors"
	"fmt"
	"time"

	"authsession/cli/internal/auth"
	"authsession/cli/internal/tokenstore"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// statusCmd shows what the token store holds without touching the network
// or changing the stored session.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Context(), auth.WithoutStartup())
		if err != nil {
			return err
		}

		state := pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprint("signed out")
		if s.svc.IsAuthenticated() {
			state = pterm.NewStyle(pterm.FgGreen, pterm.Bold).Sprint("signed in")
		}

		expiry := "none"
		if ms, err := s.store.TokenExpiry(); err == nil {
			expiry = formatExpiry(ms)
		} else if errors.Is(err, tokenstore.ErrMalformedExpiry) {
			expiry = "unreadable"
		}

		_, refreshErr := s.store.RefreshToken()

		body := fmt.Sprintf("State:         %s\nAccount:       %s\nToken expiry:  %s\nRefresh token: %s\nAuth API:      %s",
			state,
			identityLabel(s.svc.Identity()),
			expiry,
			yesNo(refreshErr == nil),
			s.cfg.BaseURL,
		)
		pterm.DefaultBox.
			WithTitle(pterm.NewStyle(pterm.FgCyan, pterm.Bold).Sprint("Session")).
			Println(body)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func formatExpiry(ms int64) string {
	t := time.UnixMilli(ms)
	left := time.Until(t).Round(time.Second)
	if left <= 0 {
		return fmt.Sprintf("%s (expired)", t.Local().Format(time.RFC1123))
	}
	return fmt.Sprintf("%s (in %s)", t.Local().Format(time.RFC1123), left)
}

func yesNo(b bool) string {
	if b {
		return "stored"
	}
	return "none"
}
