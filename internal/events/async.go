package events

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

var (
	ErrSinkClosed = errors.New("event sink is closed")
	ErrQueueFull  = errors.New("event queue is full")
)

type queuedEvent struct {
	ctx   context.Context
	event Event
}

// AsyncSink hands events to a background worker that delivers them to the
// wrapped sink in publish order. Publish never waits for delivery.
type AsyncSink struct {
	sink  Sink
	queue chan queuedEvent
	done  chan struct{}

	mu     sync.RWMutex
	closed bool
}

var _ Sink = (*AsyncSink)(nil)

// NewAsync starts the delivery worker. size bounds the number of undelivered events.
func NewAsync(sink Sink, size int) *AsyncSink {
	if size < 1 {
		size = 1
	}
	a := &AsyncSink{
		sink:  sink,
		queue: make(chan queuedEvent, size),
		done:  make(chan struct{}),
	}
	go a.run()
	return a
}

// Publish enqueues the event. It fails only when the sink is closed or the queue is full.
func (a *AsyncSink) Publish(ctx context.Context, event Event) error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return ErrSinkClosed
	}

	select {
	case a.queue <- queuedEvent{ctx: context.WithoutCancel(ctx), event: event}:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops accepting events and waits until the queued ones are delivered.
func (a *AsyncSink) Close() {
	a.mu.Lock()
	if !a.closed {
		a.closed = true
		close(a.queue)
	}
	a.mu.Unlock()
	<-a.done
}

func (a *AsyncSink) run() {
	defer close(a.done)
	for q := range a.queue {
		if err := a.sink.Publish(q.ctx, q.event); err != nil {
			slog.WarnContext(q.ctx, "async event delivery failed",
				"eventType", q.event.Type,
				"requestID", q.event.RequestID,
				"error", err)
		}
	}
}
