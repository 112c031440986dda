package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	flagEnvFile   string
	flagLogLevel  string
	flagLogFormat string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "tgblocks",
		Short:         "Telegram Bot API blocks for visual programming hosts",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", ".env", "Env file to load before reading TGBLOCKS_* variables")
	cmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn or error")
	cmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "Log format: text or json")

	cmd.AddCommand(
		newServeCmd(),
		newTokenCmd(),
		newCallCmd(),
		newInfoCmd(),
		newSubscribeCmd(),
		newUpdatesCmd(),
	)
	return cmd
}

func newLogger() (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(flagLogLevel)); err != nil {
		return nil, fmt.Errorf("invalid log level %q", flagLogLevel)
	}
	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(flagLogFormat) {
	case "text":
		return slog.New(slog.NewTextHandler(os.Stderr, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(os.Stderr, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q (must be 'text' or 'json')", flagLogFormat)
	}
}
