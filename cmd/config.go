// Copyright (c) 2025 The authsession Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"authsession/cli/internal/config"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// configCmd groups commands that inspect and edit the config file.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change CLI settings",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := config.Path()
		if err != nil {
			return err
		}
		c, err := config.LoadFile(p)
		if err != nil {
			return err
		}
		if flagBaseURL != "" {
			c.BaseURL = flagBaseURL
		}
		b, err := json.MarshalIndent(c, "", "  ")
		if err != nil {
			return err
		}
		pterm.Debug.Printf("Config file: %s\n", p)
		fmt.Fprintln(cmd.OutOrStdout(), string(b))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting in the config file",
	Long: `The set command writes one setting to $XDG_CONFIG_HOME/authsession/config.json.

Known keys: ` + strings.Join(config.Keys, ", ") + `.
Environment overrides are not written back.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := config.Path()
		if err != nil {
			return err
		}
		c, err := config.ReadFile(p)
		if err != nil {
			return err
		}
		if err := c.Set(args[0], args[1]); err != nil {
			return err
		}
		if err := config.SaveFile(p, c); err != nil {
			return err
		}
		pterm.Success.Printf("%s updated\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd, configSetCmd)
}
