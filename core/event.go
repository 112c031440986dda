package core

import "time"

// MatchEvent is emitted when an inbound message equals a watched string.
type MatchEvent struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	ChatID    int64     `json:"chat_id"`
	UpdateID  int64     `json:"update_id"`
	CreatedAt time.Time `json:"created_at"`
}
