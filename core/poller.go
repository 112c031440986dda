package core

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultPollInterval is the fixed period between update fetches.
const DefaultPollInterval = 2 * time.Second

// Poller runs a tick function on a fixed interval. At most one loop is active;
// starting while running replaces the active loop and resets its phase.
//
// Each tick runs in its own goroutine so a slow tick never delays the next one.
// Ticks may therefore overlap. Stopping the loop only stops the timer: a tick
// already in flight runs to completion under the context passed to Start.
type Poller struct {
	interval time.Duration
	tick     func(ctx context.Context)
	logger   *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewPoller creates an idle Poller. A non-positive interval selects DefaultPollInterval.
func NewPoller(interval time.Duration, tick func(ctx context.Context), logger *slog.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{
		interval: interval,
		tick:     tick,
		logger:   logger,
	}
}

// Interval returns the tick period.
func (p *Poller) Interval() time.Duration { return p.interval }

// Start begins polling. If a loop is already running its timer is stopped
// first and a fresh loop takes its place. Ticks run under ctx, so only the
// caller's cancellation aborts an in-flight fetch.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel != nil {
		p.stopLocked()
		p.logger.Info("polling restarted", "interval", p.interval)
	} else {
		p.logger.Info("polling started", "interval", p.interval)
	}

	timerCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	p.cancel = cancel
	p.done = done

	go p.run(ctx, timerCtx, done)
}

// Stop clears the timer. Ticks already in flight are left to finish.
// Stopping an idle Poller does nothing.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel == nil {
		return
	}
	p.stopLocked()
	p.logger.Info("polling stopped")
}

// Running reports whether a polling loop is active.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.done == nil {
		return false
	}
	select {
	case <-p.done:
		return false
	default:
		return true
	}
}

// stopLocked waits for the timer goroutine only; it never blocks on a tick.
func (p *Poller) stopLocked() {
	p.cancel()
	<-p.done
	p.cancel = nil
	p.done = nil
}

func (p *Poller) run(tickCtx, timerCtx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-timerCtx.Done():
			return
		case <-ticker.C:
			go p.tick(tickCtx)
		}
	}
}
