// Copyright (c) 2025 The authsession Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// logoutCmd ends the session.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and remove stored tokens",
	Long: `The logout command notifies the auth API that the session ends (best-effort)
and removes the access token, refresh token and expiry from the OS keyring.

Local tokens are removed even when the auth API cannot be reached.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := openSession(ctx)
		if err != nil {
			return err
		}

		if _, err := withSpinner("Signing out", func() (struct{}, error) {
			return struct{}{}, s.svc.Logout(ctx)
		}); err != nil {
			return s.present(err, "removing stored tokens")
		}

		pterm.Println("✅ Signed out. Stored tokens have been removed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
