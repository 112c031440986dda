package telegram_receiver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jdelaire/tgblocks/core"
)

const defaultBaseURL = "https://api.telegram.org"

type apiResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result"`
	Description string          `json:"description"`
}

type update struct {
	UpdateID int64    `json:"update_id"`
	Message  *message `json:"message"`
}

type message struct {
	MessageID int64  `json:"message_id"`
	From      *user  `json:"from"`
	Chat      chat   `json:"chat"`
	Date      int64  `json:"date"`
	Text      string `json:"text"`
}

type user struct {
	ID int64 `json:"id"`
}

type chat struct {
	ID int64 `json:"id"`
}

// Receiver fetches the Telegram update feed. It does not track offsets, so
// every call returns whatever Telegram still holds.
type Receiver struct {
	logger  *slog.Logger
	client  *http.Client
	baseURL string
}

// New creates a Telegram receiver. Requests are bounded only by their context.
func New(logger *slog.Logger) *Receiver {
	return &Receiver{
		logger:  logger,
		client:  &http.Client{},
		baseURL: defaultBaseURL,
	}
}

// WithBaseURL overrides the Telegram API base URL (for testing).
func (r *Receiver) WithBaseURL(url string) *Receiver {
	r.baseURL = url
	return r
}

// Updates performs a single getUpdates call.
func (r *Receiver) Updates(ctx context.Context, token string) (core.Feed, error) {
	url := fmt.Sprintf("%s/bot%s/getUpdates", r.baseURL, token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return core.Feed{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return core.Feed{}, fmt.Errorf("http get: %w", err)
	}
	defer resp.Body.Close()

	var apiResp apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return core.Feed{}, fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}

	feed := core.Feed{OK: apiResp.OK, Raw: apiResp.Result}
	if !apiResp.OK {
		r.logger.Warn("getUpdates not ok", "status", resp.StatusCode, "description", apiResp.Description)
		return feed, nil
	}

	var updates []update
	if len(apiResp.Result) > 0 {
		if err := json.Unmarshal(apiResp.Result, &updates); err != nil {
			return core.Feed{}, fmt.Errorf("decode updates: %w", err)
		}
	}

	for _, u := range updates {
		if u.Message == nil || u.Message.Text == "" {
			continue
		}

		var userID int64
		if u.Message.From != nil {
			userID = u.Message.From.ID
		}

		feed.Messages = append(feed.Messages, core.InboundMessage{
			UpdateID:  u.UpdateID,
			ChatID:    u.Message.Chat.ID,
			UserID:    userID,
			Text:      u.Message.Text,
			Timestamp: time.Unix(u.Message.Date, 0),
		})
	}

	r.logger.Debug("updates fetched", "count", len(updates), "messages", len(feed.Messages))
	return feed, nil
}
