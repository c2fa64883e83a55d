// Copyright (c) 2025 The authsession Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for the authsession CLI.
// It implements subcommands for signing in and out of an auth API, refreshing
// and inspecting the stored session, and managing passwords, using the Cobra
// CLI framework.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"authsession/cli/internal/logging"

	"github.com/spf13/cobra"
)

var (
	flagBaseURL string
	flagVerbose bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "authsession",
	Short: "Sign in to an auth API and keep the session in the OS keyring",
	Long: `authsession signs in to a remote authentication API with email and password,
stores the issued access and refresh tokens in the OS keyring, and keeps them fresh.

Settings are read from $XDG_CONFIG_HOME/authsession/config.json and may be overridden
with AUTHSESSION_BASE_URL, AUTHSESSION_LOG_LEVEL and the --base-url flag.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the CLI application.
// Interrupts cancel the command context so in-flight requests stop.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		var shown *reportedError
		if !errors.As(err, &shown) {
			fmt.Fprintln(os.Stderr, logging.PresentError("error", err))
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = Version
	rootCmd.PersistentFlags().StringVar(&flagBaseURL, "base-url", "", "Auth API base URL (overrides config and AUTHSESSION_BASE_URL)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
}
