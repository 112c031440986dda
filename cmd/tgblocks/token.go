package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jdelaire/tgblocks/internal/keychain"
)

func newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage the bot token stored in the system keychain",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "set <token>",
			Short: "Store the bot token",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := keychain.SetToken(args[0]); err != nil {
					return fmt.Errorf("store token: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "token stored")
				return nil
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Print the stored bot token, redacted",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				tok, err := keychain.Token()
				if err != nil {
					return fmt.Errorf("read token: %w", err)
				}
				if tok == "" {
					fmt.Fprintln(cmd.OutOrStdout(), "no token stored")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), redact(tok))
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete",
			Short: "Remove the stored bot token",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				if err := keychain.DeleteToken(); err != nil {
					return fmt.Errorf("delete token: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "token deleted")
				return nil
			},
		},
	)
	return cmd
}

// redact keeps the bot id prefix of a "<id>:<secret>" token and masks the rest.
func redact(tok string) string {
	for i := 0; i < len(tok); i++ {
		if tok[i] == ':' {
			return tok[:i+1] + "****"
		}
	}
	if len(tok) <= 4 {
		return "****"
	}
	return tok[:4] + "****"
}
