package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jdelaire/tgblocks/core"
	"github.com/jdelaire/tgblocks/internal/config"
)

const callTimeout = 30 * time.Second

func newCallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "call <opcode> [name=value...]",
		Short: "Invoke a block on a running server",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			blockArgs, err := parseArgs(args[1:])
			if err != nil {
				return err
			}
			cfg, err := config.Load(flagEnvFile)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), callTimeout)
			defer cancel()

			resp, err := core.NewClient(cfg.SocketPath).Call(ctx, args[0], blockArgs)
			if err != nil {
				return err
			}
			return printJSON(cmd, resp)
		},
	}
}

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print the block descriptor of a running server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(flagEnvFile)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), callTimeout)
			defer cancel()

			resp, err := core.NewClient(cfg.SocketPath).Info(ctx)
			if err != nil {
				return err
			}
			if !resp.OK {
				return fmt.Errorf("info: %s", resp.Error)
			}
			return printJSON(cmd, resp.Info)
		},
	}
}

func newSubscribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "subscribe",
		Short: "Print match events from a running server as JSON lines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(flagEnvFile)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			enc := json.NewEncoder(cmd.OutOrStdout())
			return core.NewClient(cfg.SocketPath).Subscribe(ctx, func(ev core.MatchEvent) {
				enc.Encode(ev)
			})
		},
	}
}

// parseArgs turns name=value pairs into block arguments.
func parseArgs(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid argument %q, want name=value", p)
		}
		out[name] = value
	}
	return out, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
