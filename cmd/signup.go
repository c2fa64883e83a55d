// Copyright (c) 2025 The authsession Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"errors"

	"authsession/cli/internal/backend"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	signupEmail    string
	signupName     string
	signupPassword string
)

// signupCmd creates an account and signs in with it.
var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account and sign in",
	Long: `The signup command registers a new account with the auth API and stores the
session it returns, exactly as login does.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := openSession(ctx)
		if err != nil {
			return err
		}

		email, err := valueOrPrompt(signupEmail, "Email: ", false)
		if err != nil {
			return err
		}
		name, err := valueOrPrompt(signupName, "Name: ", false)
		if err != nil {
			return err
		}
		password := signupPassword
		if password == "" {
			if password, err = promptPassword("Password: "); err != nil {
				return err
			}
			confirm, err := promptPassword("Repeat password: ")
			if err != nil {
				return err
			}
			if confirm != password {
				return errors.New("passwords do not match")
			}
		}

		user, err := withSpinner("Creating account", func() (*backend.User, error) {
			return s.svc.Signup(ctx, email, password, name)
		})
		if err != nil {
			return s.present(err, "signing up")
		}

		if user == nil {
			user = &backend.User{Email: email, Name: name}
		}
		pterm.Success.Printf("Account created. Welcome, %s!\n", identityLabel(user))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(signupCmd)
	signupCmd.Flags().StringVarP(&signupEmail, "email", "e", "", "Account email")
	signupCmd.Flags().StringVarP(&signupName, "name", "n", "", "Display name")
	signupCmd.Flags().StringVarP(&signupPassword, "password", "p", "", "Account password (prompted when omitted)")
}
