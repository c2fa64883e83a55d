// Copyright (c) 2025 The authsession Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"authsession/cli/internal/auth"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// refreshCmd exchanges the stored refresh token for a new session.
var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Refresh the stored access token",
	Long: `The refresh command exchanges the stored refresh token for a new access token.

If no refresh token is stored, or the auth API rejects it, the session is removed
and you need to log in again.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := openSession(ctx, auth.WithoutStartup())
		if err != nil {
			return err
		}

		ok, err := withSpinner("Refreshing session", func() (bool, error) {
			return s.svc.Refresh(ctx)
		})
		if err != nil {
			return s.present(err, "refreshing the session")
		}
		if !ok {
			pterm.Println("🔒 No refresh token stored. Run 'authsession login' to sign in.")
			return nil
		}

		pterm.Success.Println("Session refreshed")
		if exp, err := s.store.TokenExpiry(); err == nil {
			pterm.Printf("Access token valid until %s\n", formatExpiry(exp))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(refreshCmd)
}
