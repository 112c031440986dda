package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

var (
	// ErrNoToken is returned when an operation needs a bot token and none is set.
	ErrNoToken = errors.New("no bot token set")
	// ErrNoChat is returned when a send needs a conversation and none has been seen.
	ErrNoChat = errors.New("no chat id known")
)

// Bot API methods and the payload field each one carries.
const (
	MethodSendMessage   = "sendMessage"
	MethodSendPhoto     = "sendPhoto"
	MethodSendAudio     = "sendAudio"
	MethodSendVideo     = "sendVideo"
	MethodSendDocument  = "sendDocument"
	MethodDeleteMessage = "deleteMessage"
)

// Options configures a Bot.
type Options struct {
	PollInterval time.Duration
	Logger       *slog.Logger
}

// Bot ties the session, watch list, poller and Telegram adapters together.
type Bot struct {
	session    *Session
	watch      *WatchList
	events     *Broadcaster
	dispatcher *Dispatcher
	poller     *Poller
	source     UpdateSource
	sender     Sender
	logger     *slog.Logger
}

// NewBot creates a Bot that fetches updates from source and delivers actions through sender.
func NewBot(source UpdateSource, sender Sender, opts Options) *Bot {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	b := &Bot{
		session: NewSession(),
		watch:   NewWatchList(),
		events:  NewBroadcaster(logger),
		source:  source,
		sender:  sender,
		logger:  logger,
	}
	b.dispatcher = NewDispatcher(b.session, b.watch, b.events, logger)
	b.poller = NewPoller(opts.PollInterval, b.checkForMessages, logger)
	return b
}

// Session returns the bot's configuration record.
func (b *Bot) Session() *Session { return b.session }

// SetToken overwrites the bot token.
func (b *Bot) SetToken(token string) {
	b.session.SetToken(token)
	b.logger.Info("bot token set")
}

// Token returns the current bot token.
func (b *Bot) Token() string { return b.session.Token() }

// WhenMessageReceived watches for messages whose text equals text.
func (b *Bot) WhenMessageReceived(text string) {
	b.watch.Add(text)
	b.logger.Debug("watching message text", "text", text)
}

// Events subscribes to match events. Call cancel to unsubscribe.
func (b *Bot) Events(buffer int) (<-chan MatchEvent, func()) {
	return b.events.Subscribe(buffer)
}

// StartPolling starts, or restarts, the fixed-interval update loop.
func (b *Bot) StartPolling(ctx context.Context) { b.poller.Start(ctx) }

// StopPolling stops the update loop. It is a no-op when not polling.
func (b *Bot) StopPolling() { b.poller.Stop() }

// Polling reports whether the update loop is active.
func (b *Bot) Polling() bool { return b.poller.Running() }

// checkForMessages is a single poll tick.
func (b *Bot) checkForMessages(ctx context.Context) {
	token := b.session.Token()
	if token == "" {
		b.logger.Error("poll skipped", "error", ErrNoToken)
		return
	}

	feed, err := b.source.Updates(ctx, token)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		b.logger.Error("poll error", "error", err)
		return
	}
	if !feed.OK || len(feed.Messages) == 0 {
		return
	}

	for _, msg := range feed.Messages {
		b.dispatcher.Handle(msg)
	}
}

// SendText sends a text message to the current conversation.
func (b *Bot) SendText(ctx context.Context, text string) (json.RawMessage, error) {
	return b.send(ctx, MethodSendMessage, "text", text)
}

// SendImage sends a photo by URL or file id.
func (b *Bot) SendImage(ctx context.Context, url string) (json.RawMessage, error) {
	return b.send(ctx, MethodSendPhoto, "photo", url)
}

// SendAudio sends an audio file by URL or file id.
func (b *Bot) SendAudio(ctx context.Context, url string) (json.RawMessage, error) {
	return b.send(ctx, MethodSendAudio, "audio", url)
}

// SendVideo sends a video by URL or file id.
func (b *Bot) SendVideo(ctx context.Context, url string) (json.RawMessage, error) {
	return b.send(ctx, MethodSendVideo, "video", url)
}

// SendDocument sends a document by URL or file id.
func (b *Bot) SendDocument(ctx context.Context, url string) (json.RawMessage, error) {
	return b.send(ctx, MethodSendDocument, "document", url)
}

// DeleteMessage deletes a message in the current conversation. The id is
// sent exactly as given.
func (b *Bot) DeleteMessage(ctx context.Context, messageID string) (json.RawMessage, error) {
	return b.send(ctx, MethodDeleteMessage, "message_id", messageID)
}

func (b *Bot) send(ctx context.Context, method, field string, value any) (json.RawMessage, error) {
	token := b.session.Token()
	if token == "" {
		b.logger.Error("send skipped", "method", method, "error", ErrNoToken)
		return nil, ErrNoToken
	}
	chatID, ok := b.session.ChatID()
	if !ok {
		b.logger.Error("send skipped", "method", method, "error", ErrNoChat)
		return nil, ErrNoChat
	}

	out := Outbound{
		Method: method,
		Body: map[string]any{
			"chat_id": chatID,
			field:     value,
		},
	}

	body, err := b.sender.Send(ctx, token, out)
	if err != nil {
		b.logger.Error("send failed", "method", method, "chat_id", chatID, "error", err)
		return nil, fmt.Errorf("%s: %w", method, err)
	}

	b.logger.Info("telegram response", "method", method, "chat_id", chatID, "body", string(body))
	return body, nil
}

// ChatMessages fetches the update feed once and returns its result array as
// JSON. Watched strings are not consulted and no events are emitted.
func (b *Bot) ChatMessages(ctx context.Context) (string, error) {
	token := b.session.Token()
	if token == "" {
		b.logger.Error("get chat messages skipped", "error", ErrNoToken)
		return "", ErrNoToken
	}

	feed, err := b.source.Updates(ctx, token)
	if err != nil {
		b.logger.Error("get chat messages failed", "error", err)
		return "", fmt.Errorf("get updates: %w", err)
	}
	return string(feed.Raw), nil
}
