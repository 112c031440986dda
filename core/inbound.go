package core

import "time"

// InboundMessage represents a text message received from Telegram.
type InboundMessage struct {
	UpdateID  int64
	ChatID    int64
	UserID    int64
	Text      string
	Timestamp time.Time
}
