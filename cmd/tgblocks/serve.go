package main

import (
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jdelaire/tgblocks/adapters/telegram_receiver"
	"github.com/jdelaire/tgblocks/adapters/telegram_sender"
	"github.com/jdelaire/tgblocks/core"
	"github.com/jdelaire/tgblocks/core/blocks"
	"github.com/jdelaire/tgblocks/core/configwatch"
	"github.com/jdelaire/tgblocks/internal/config"
	"github.com/jdelaire/tgblocks/internal/keychain"
)

const envWatchInterval = 2 * time.Second

var flagPoll bool

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the block server on a Unix socket",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	cmd.Flags().BoolVar(&flagPoll, "poll", false, "Start polling for messages immediately")
	return cmd
}

// newBot builds a bot from cfg, falling back to the keychain for the token.
func newBot(cfg *config.Config, logger *slog.Logger) *core.Bot {
	recv := telegram_receiver.New(logger).WithBaseURL(cfg.APIURL)
	send := telegram_sender.New(logger).WithBaseURL(cfg.APIURL)
	bot := core.NewBot(recv, send, core.Options{PollInterval: cfg.PollInterval, Logger: logger})

	token := cfg.BotToken
	if token == "" {
		tok, err := keychain.Token()
		if err != nil {
			logger.Warn("keychain unavailable", "error", err)
		}
		token = tok
	}
	if token != "" {
		bot.SetToken(token)
	}

	for _, text := range cfg.Watch {
		bot.WhenMessageReceived(text)
	}
	return bot
}

func runServe(cmd *cobra.Command, _ []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	cfg, err := config.Load(flagEnvFile)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bot := newBot(cfg, logger)
	defer bot.StopPolling()

	reg := blocks.NewRegistry()
	if err := blocks.RegisterBuiltin(reg, bot); err != nil {
		return fmt.Errorf("register blocks: %w", err)
	}

	if cfg.EnvFile != "" {
		r := configwatch.NewTokenReloader(cfg.EnvFile, config.EnvBotToken, bot, envWatchInterval, logger)
		go r.Run(ctx)
	}

	events, cancel := bot.Events(0)
	defer cancel()
	go func() {
		for ev := range events {
			logger.Info("match event", "id", ev.ID, "text", ev.Text, "chat_id", ev.ChatID)
		}
	}()

	srv := core.NewServer(cfg.SocketPath, reg, bot, logger)
	if err := srv.Start(ctx); err != nil {
		return err
	}
	defer srv.Shutdown()

	if flagPoll {
		bot.StartPolling(ctx)
	}

	<-ctx.Done()
	logger.Info("shutting down")
	return nil
}
