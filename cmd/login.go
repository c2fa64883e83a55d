// Copyright (c) 2025 The authsession Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"authsession/cli/internal/backend"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	loginEmail    string
	loginPassword string
	loginForce    bool
)

// loginCmd signs in with email and password.
var loginCmd = &cobra.Command{
	Use:     "login",
	Aliases: []string{"signin"},
	Short:   "Sign in with email and password",
	Long: `The login command exchanges an email and password for an access token and a
refresh token and stores both in the OS keyring.

Missing values are prompted for; the password is read without echo. If a valid
session already exists the command does nothing unless --force is given.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := openSession(ctx)
		if err != nil {
			return err
		}

		if !loginForce && s.svc.IsAuthenticated() {
			pterm.Printf("Already logged in as %s\n", identityLabel(s.svc.Identity()))
			return nil
		}

		email, err := valueOrPrompt(loginEmail, "Email: ", false)
		if err != nil {
			return err
		}
		password, err := valueOrPrompt(loginPassword, "Password: ", true)
		if err != nil {
			return err
		}

		user, err := withSpinner("Signing in", func() (*backend.User, error) {
			return s.svc.Login(ctx, email, password)
		})
		if err != nil {
			return s.present(err, "logging in")
		}

		if user == nil {
			user = s.svc.Identity()
		}
		if label := user.DisplayName(); label != "" {
			pterm.Println(getRandomLoginGreeting(label))
		} else {
			pterm.Println(getRandomLoginGreeting(email))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "Account email")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Account password (prompted when omitted)")
	loginCmd.Flags().BoolVar(&loginForce, "force", false, "Sign in again even if a session exists")
}

// identityLabel names the user for display, falling back to a generic label.
func identityLabel(u *backend.User) string {
	if name := u.DisplayName(); name != "" {
		return name
	}
	return "current user"
}
