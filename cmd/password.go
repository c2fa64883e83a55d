// Copyright (c) 2025 The authsession Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"errors"
	"fmt"
	"sort"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	resetEmail       string
	resetToken       string
	resetNewPassword string
)

// passwordCmd groups password management.
var passwordCmd = &cobra.Command{
	Use:   "password",
	Short: "Reset or change your password",
}

var passwordRequestCmd = &cobra.Command{
	Use:   "request",
	Short: "Send a password reset link to your email",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		email, err := valueOrPrompt(resetEmail, "Email: ", false)
		if err != nil {
			return err
		}

		out, err := withSpinner("Requesting reset link", func() (map[string]any, error) {
			return s.svc.RequestPasswordReset(ctx, email)
		})
		if err != nil {
			return s.present(err, "requesting a password reset")
		}
		pterm.Success.Println("If the account exists, a reset link is on its way.")
		printResponse(out)
		return nil
	},
}

var passwordConfirmCmd = &cobra.Command{
	Use:   "confirm",
	Short: "Set a new password with a reset token",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		token, err := valueOrPrompt(resetToken, "Reset token: ", true)
		if err != nil {
			return err
		}
		newPassword, err := newPasswordFromFlagOrPrompt(resetNewPassword)
		if err != nil {
			return err
		}

		out, err := withSpinner("Resetting password", func() (map[string]any, error) {
			return s.svc.ResetPassword(ctx, token, newPassword)
		})
		if err != nil {
			return s.present(err, "resetting the password")
		}
		pterm.Success.Println("Password reset. You can now log in with the new password.")
		printResponse(out)
		return nil
	},
}

var passwordChangeCmd = &cobra.Command{
	Use:   "change",
	Short: "Change the password of the signed-in account",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := openSession(ctx)
		if err != nil {
			return err
		}
		if !s.svc.IsAuthenticated() {
			pterm.Println("🔒 You're not logged in.")
			pterm.Println("   Run 'authsession login' to get started.")
			return nil
		}

		oldPassword, err := promptPassword("Current password: ")
		if err != nil {
			return err
		}
		newPassword, err := newPasswordFromFlagOrPrompt(resetNewPassword)
		if err != nil {
			return err
		}

		out, err := withSpinner("Changing password", func() (map[string]any, error) {
			return s.svc.ChangePassword(ctx, oldPassword, newPassword)
		})
		if err != nil {
			return s.present(err, "changing the password")
		}
		pterm.Success.Println("Password changed")
		printResponse(out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(passwordCmd)
	passwordCmd.AddCommand(passwordRequestCmd, passwordConfirmCmd, passwordChangeCmd)

	passwordRequestCmd.Flags().StringVarP(&resetEmail, "email", "e", "", "Account email")
	passwordConfirmCmd.Flags().StringVar(&resetToken, "token", "", "Reset token from the email (prompted when omitted)")
	passwordConfirmCmd.Flags().StringVar(&resetNewPassword, "new-password", "", "New password (prompted when omitted)")
	passwordChangeCmd.Flags().StringVar(&resetNewPassword, "new-password", "", "New password (prompted when omitted)")
}

func newPasswordFromFlagOrPrompt(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	pw, err := promptPassword("New password: ")
	if err != nil {
		return "", err
	}
	confirm, err := promptPassword("Repeat new password: ")
	if err != nil {
		return "", err
	}
	if pw != confirm {
		return "", errors.New("passwords do not match")
	}
	return pw, nil
}

// printResponse shows the API's answer in debug output.
func printResponse(out map[string]any) {
	keys := make([]string, 0, len(out))
	for k := range out {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		pterm.Debug.Println(fmt.Sprintf("%s: %v", k, out[k]))
	}
}
