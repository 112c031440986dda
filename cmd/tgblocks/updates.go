package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jdelaire/tgblocks/internal/config"
)

func newUpdatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "updates",
		Short: "Fetch the update feed once and print its result array",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := newLogger()
			if err != nil {
				return err
			}
			cfg, err := config.Load(flagEnvFile)
			if err != nil {
				return err
			}

			out, err := newBot(cfg, logger).ChatMessages(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
}
