package cmd

import (
	"authsession/cli/internal/auth"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// whoamiCmd prints the signed-in account.
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show current authenticated account",
	Long: `The whoami command displays the account of the stored session.

The account is read from the access token's claims without contacting the auth API.
If the access token has expired it is refreshed first.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := openSession(ctx, auth.WithoutStartup())
		if err != nil {
			return err
		}

		if _, err := s.svc.AccessToken(ctx); err != nil {
			return s.present(err, "checking the session")
		}

		pterm.Printf("👤 Current user: %s\n", identityLabel(s.svc.Identity()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
