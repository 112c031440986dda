package telegram_sender

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/jdelaire/tgblocks/core"
)

// Sender posts Bot API actions as JSON.
type Sender struct {
	logger  *slog.Logger
	client  *http.Client
	baseURL string
}

// New creates a Telegram sender. Requests are bounded only by their context.
func New(logger *slog.Logger) *Sender {
	return &Sender{
		logger:  logger,
		client:  &http.Client{},
		baseURL: "https://api.telegram.org",
	}
}

// WithBaseURL sets a custom base URL (for testing).
func (s *Sender) WithBaseURL(baseURL string) *Sender {
	s.baseURL = baseURL
	return s
}

// Send posts out.Body to out.Method and returns the response body. A response
// with "ok": false is not an error; the caller gets the body as Telegram sent it.
func (s *Sender) Send(ctx context.Context, token string, out core.Outbound) (json.RawMessage, error) {
	endpoint := fmt.Sprintf("%s/bot%s/%s", s.baseURL, token, out.Method)

	data, err := json.Marshal(out.Body)
	if err != nil {
		return nil, fmt.Errorf("marshal body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("telegram request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if !json.Valid(body) {
		return nil, fmt.Errorf("telegram API status %d: invalid JSON body", resp.StatusCode)
	}

	s.logger.Debug("telegram action sent", "method", out.Method, "status", resp.StatusCode)
	return json.RawMessage(body), nil
}
