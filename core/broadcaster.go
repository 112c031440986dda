package core

import (
	"log/slog"
	"sync"
)

// DefaultSubscriberBuffer is the channel capacity used when Subscribe is
// called with a non-positive buffer.
const DefaultSubscriberBuffer = 64

// Broadcaster fans match events out to subscribers.
type Broadcaster struct {
	logger *slog.Logger

	mu     sync.Mutex
	nextID int
	subs   map[int]chan MatchEvent
}

// NewBroadcaster creates a broadcaster with no subscribers.
func NewBroadcaster(logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		logger: logger,
		subs:   make(map[int]chan MatchEvent),
	}
}

// Subscribe registers a new subscriber. The returned cancel func removes it
// and closes the channel; calling it more than once is safe.
func (b *Broadcaster) Subscribe(buffer int) (<-chan MatchEvent, func()) {
	if buffer <= 0 {
		buffer = DefaultSubscriberBuffer
	}
	ch := make(chan MatchEvent, buffer)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Publish delivers ev to every subscriber without blocking. Subscribers whose
// buffer is full miss the event.
func (b *Broadcaster) Publish(ev MatchEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			b.logger.Warn("subscriber buffer full, event dropped", "subscriber", id, "event_id", ev.ID)
		}
	}
}

// Subscribers returns the current subscriber count.
func (b *Broadcaster) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
