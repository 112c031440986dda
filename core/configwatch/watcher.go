// Package configwatch reloads the bot token when its .env file changes.
package configwatch

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

// TokenSink receives reloaded tokens. *core.Bot satisfies it.
type TokenSink interface {
	Token() string
	SetToken(token string)
}

// TokenReloader polls an env file and pushes a changed token into a sink.
type TokenReloader struct {
	path     string
	key      string
	sink     TokenSink
	interval time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	modTime time.Time
}

// NewTokenReloader watches path and applies the value of key to sink. The file
// need not exist yet; its first appearance counts as a change.
func NewTokenReloader(path, key string, sink TokenSink, interval time.Duration, logger *slog.Logger) *TokenReloader {
	return &TokenReloader{
		path:     path,
		key:      key,
		sink:     sink,
		interval: interval,
		logger:   logger,
		modTime:  modTime(path),
	}
}

// Run checks the file on every interval until ctx is cancelled.
func (r *TokenReloader) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Check()
		}
	}
}

// Check re-reads the file if it changed since the last look and reports
// whether a new token was handed to the sink. An empty or unchanged token
// leaves the sink alone.
func (r *TokenReloader) Check() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	current := modTime(r.path)
	// Missing (possibly mid-save) or untouched.
	if current.IsZero() || current.Equal(r.modTime) {
		return false
	}

	vars, err := godotenv.Read(r.path)
	if err != nil {
		r.logger.Warn("env file unreadable", "path", r.path, "error", err)
		return false
	}
	r.modTime = current

	token := vars[r.key]
	if token == "" || token == r.sink.Token() {
		return false
	}
	r.logger.Info("bot token reloaded", "path", r.path)
	r.sink.SetToken(token)
	return true
}

func modTime(path string) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}
