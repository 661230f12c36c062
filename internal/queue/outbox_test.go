package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gatedSender blocks every Publish until release is closed.
type gatedSender struct {
	release chan struct{}

	mu   sync.Mutex
	got  []uint64
	seen chan struct{}
}

func newGatedSender() *gatedSender {
	return &gatedSender{release: make(chan struct{}), seen: make(chan struct{}, 64)}
}

func (s *gatedSender) Publish(_ context.Context, ev BookingEvent) error {
	s.seen <- struct{}{}
	<-s.release
	s.mu.Lock()
	s.got = append(s.got, ev.BookingID)
	s.mu.Unlock()
	return nil
}

func (s *gatedSender) delivered() []uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]uint64(nil), s.got...)
}

func eventFor(id uint64) BookingEvent {
	b := sampleBooking()
	b.ID = id
	return NewBookingEvent(EventBookingConfirmed, b)
}

func TestOutbox_PublishDoesNotWaitForBroker(t *testing.T) {
	s := newGatedSender()
	o := NewOutbox(s, 4)

	start := time.Now()
	require.NoError(t, o.Publish(context.Background(), eventFor(1)))
	require.NoError(t, o.Publish(context.Background(), eventFor(2)))
	assert.Less(t, time.Since(start), time.Second)

	close(s.release)
	require.NoError(t, o.Close(context.Background()))
	assert.Equal(t, []uint64{1, 2}, s.delivered())
}

func TestOutbox_DropsWhenFull(t *testing.T) {
	s := newGatedSender()
	o := NewOutbox(s, 1)

	require.NoError(t, o.Publish(context.Background(), eventFor(1)))
	<-s.seen // event 1 is in flight, the buffer is empty again
	require.NoError(t, o.Publish(context.Background(), eventFor(2)))
	assert.ErrorIs(t, o.Publish(context.Background(), eventFor(3)), ErrOutboxFull)

	close(s.release)
	require.NoError(t, o.Close(context.Background()))
	assert.Equal(t, []uint64{1, 2}, s.delivered())
}

func TestOutbox_Close(t *testing.T) {
	s := newGatedSender()
	o := NewOutbox(s, 2)
	require.NoError(t, o.Publish(context.Background(), eventFor(1)))
	<-s.seen

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, o.Close(ctx), context.DeadlineExceeded)
	assert.ErrorIs(t, o.Publish(context.Background(), eventFor(2)), ErrOutboxClosed)

	close(s.release)
	require.NoError(t, o.Close(context.Background()))
	assert.Equal(t, []uint64{1}, s.delivered())
}
