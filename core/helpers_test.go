package core

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// syncBuffer is a goroutine-safe log sink.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func captureLogger() (*slog.Logger, *syncBuffer) {
	buf := &syncBuffer{}
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})), buf
}

// fakeSource returns a fixed feed and counts fetches. A non-nil gate holds
// every fetch until it is closed, whatever the context says.
type fakeSource struct {
	mu     sync.Mutex
	feed   Feed
	err    error
	tokens []string
	calls  atomic.Int32
	gate   chan struct{}
}

func (f *fakeSource) Updates(_ context.Context, token string) (Feed, error) {
	f.calls.Add(1)
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens = append(f.tokens, token)
	return f.feed, f.err
}

func (f *fakeSource) setFeed(feed Feed) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.feed = feed
}

// fakeSender records outbound actions.
type fakeSender struct {
	mu   sync.Mutex
	sent []Outbound
	resp json.RawMessage
	err  error
}

func (f *fakeSender) Send(_ context.Context, _ string, out Outbound) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, out)
	if f.err != nil {
		return nil, f.err
	}
	if f.resp == nil {
		return json.RawMessage(`{"ok":true}`), nil
	}
	return f.resp, nil
}

func (f *fakeSender) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func textFeed(msgs ...InboundMessage) Feed {
	return Feed{OK: true, Messages: msgs, Raw: json.RawMessage(`[]`)}
}

// collect drains events for d and returns what arrived.
func collect(ch <-chan MatchEvent, d time.Duration) []MatchEvent {
	var out []MatchEvent
	timeout := time.After(d)
	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				return out
			}
			out = append(out, ev)
		case <-timeout:
			return out
		}
	}
}

func (f *fakeSender) last() Outbound {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return Outbound{}
	}
	return f.sent[len(f.sent)-1]
}
