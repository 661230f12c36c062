package queue

import (
	"context"
	"errors"
	"sync"

	"github.com/iliyamo/table-reservation/internal/logger"
	"github.com/iliyamo/table-reservation/internal/metrics"
)

var (
	ErrOutboxFull   = errors.New("event outbox full")
	ErrOutboxClosed = errors.New("event outbox closed")
)

// Sender delivers a single event.  *Publisher implements it.
type Sender interface {
	Publish(ctx context.Context, ev BookingEvent) error
}

// Outbox queues events in memory and hands them to a Sender from a
// single background goroutine, so callers never wait on the broker.
// Events are delivered in the order they were queued.
type Outbox struct {
	next   Sender
	events chan BookingEvent
	done   chan struct{}

	mu     sync.RWMutex
	closed bool
}

// NewOutbox starts draining into next.  size is the number of events
// that may wait for delivery before Publish starts dropping them.
func NewOutbox(next Sender, size int) *Outbox {
	if size <= 0 {
		size = 256
	}
	o := &Outbox{
		next:   next,
		events: make(chan BookingEvent, size),
		done:   make(chan struct{}),
	}
	go o.run()
	return o
}

// Publish queues ev and returns immediately.  A full buffer drops the
// event and returns ErrOutboxFull.
func (o *Outbox) Publish(_ context.Context, ev BookingEvent) error {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.closed {
		return ErrOutboxClosed
	}
	select {
	case o.events <- ev:
		return nil
	default:
		metrics.RecordEventDropped(ev.Type)
		logger.Warn().Str("event_type", ev.Type).Uint64("booking_id", ev.BookingID).Msg("event outbox full, dropping event")
		return ErrOutboxFull
	}
}

func (o *Outbox) run() {
	defer close(o.done)
	for ev := range o.events {
		// Publisher logs and counts its own failures.
		_ = o.next.Publish(context.Background(), ev)
	}
}

// Close stops accepting events and waits for the queued ones to be
// handed to the Sender, or for ctx to end.
func (o *Outbox) Close(ctx context.Context) error {
	o.mu.Lock()
	if !o.closed {
		o.closed = true
		close(o.events)
	}
	o.mu.Unlock()

	select {
	case <-o.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
