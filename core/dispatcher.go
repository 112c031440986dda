package core

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Dispatcher matches inbound messages against the watch list and publishes
// one event per matching entry.
type Dispatcher struct {
	session *Session
	watch   *WatchList
	events  *Broadcaster
	logger  *slog.Logger
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(session *Session, watch *WatchList, events *Broadcaster, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		session: session,
		watch:   watch,
		events:  events,
		logger:  logger,
	}
}

// Handle records the message's chat as the current conversation and emits a
// MatchEvent for every watched entry equal to the message text.
func (d *Dispatcher) Handle(msg InboundMessage) {
	if msg.Text == "" {
		return
	}

	d.session.SetChatID(msg.ChatID)

	n := d.watch.Matches(msg.Text)
	if n == 0 {
		d.logger.Debug("no watched string matched", "update_id", msg.UpdateID, "chat_id", msg.ChatID)
		return
	}

	for i := 0; i < n; i++ {
		ev := MatchEvent{
			ID:        uuid.New().String(),
			Text:      msg.Text,
			ChatID:    msg.ChatID,
			UpdateID:  msg.UpdateID,
			CreatedAt: time.Now(),
		}
		d.events.Publish(ev)
		d.logger.Info("message matched", "event_id", ev.ID, "update_id", msg.UpdateID, "chat_id", msg.ChatID)
	}
}
