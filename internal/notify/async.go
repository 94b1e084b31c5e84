package notify

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/livequiz/internal/metrics"
)

// ErrQueueFull is returned when the async queue cannot take another event.
var ErrQueueFull = errors.New("notification queue full")

// Target is anything that can deliver one event.
type Target interface {
	Broadcast(ctx context.Context, channel, event string, payload any) error
}

type job struct {
	channel string
	event   string
	payload any
}

// Async decouples callers from delivery latency with a bounded queue.
// Events are delivered in enqueue order; when the queue is full they are dropped.
type Async struct {
	target Target
	queue  chan job
	logger zerolog.Logger

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func NewAsync(target Target, size int, logger zerolog.Logger) *Async {
	if size <= 0 {
		size = 1024
	}
	return &Async{
		target: target,
		queue:  make(chan job, size),
		logger: logger.With().Str("component", "notify_async").Logger(),
		done:   make(chan struct{}),
	}
}

func (a *Async) Broadcast(_ context.Context, channel, event string, payload any) error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return ErrQueueFull
	}

	select {
	case a.queue <- job{channel: channel, event: event, payload: payload}:
		return nil
	default:
		return ErrQueueFull
	}
}

// Run delivers queued events until Close is called and the queue is drained.
func (a *Async) Run(ctx context.Context) {
	defer close(a.done)
	for j := range a.queue {
		if err := a.target.Broadcast(ctx, j.channel, j.event, j.payload); err != nil {
			metrics.NotifyFailures.Inc()
			a.logger.Warn().Err(err).Str("channel", j.channel).Str("event", j.event).Msg("delivery failed")
		}
	}
}

// Close stops accepting events and waits for Run to drain the queue or ctx to end.
func (a *Async) Close(ctx context.Context) error {
	a.mu.Lock()
	if !a.closed {
		a.closed = true
		close(a.queue)
	}
	a.mu.Unlock()

	select {
	case <-a.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
