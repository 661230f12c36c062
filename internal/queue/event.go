// Package queue defines message payloads exchanged over the message broker
// together with the publisher used by the API and the consumer run by the
// `consume` command.
package queue

import (
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/table-reservation/internal/model"
)

// Event types.  Each type is also the name of the durable queue it is
// routed to.
const (
	EventBookingConfirmed = "booking.confirmed"
	EventBookingCancelled = "booking.cancelled"
	EventBookingCompleted = "booking.completed"
)

// BookingEvent is published whenever a booking is created or leaves the
// confirmed state.  It carries enough information for downstream
// consumers to log or notify without querying the primary database.
type BookingEvent struct {
	EventID      string `json:"event_id"`
	Type         string `json:"type"`
	BookingID    uint64 `json:"booking_id"`
	UserID       uint64 `json:"user_id"`
	RestaurantID uint64 `json:"restaurant_id"`
	TableID      uint64 `json:"table_id"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	PartySize    uint32 `json:"party_size"`
	Status       string `json:"status"`
	OccurredAt   string `json:"occurred_at"`
}

// NewBookingEvent builds an event of the given type for b.
func NewBookingEvent(eventType string, b model.Booking) BookingEvent {
	return BookingEvent{
		EventID:      uuid.NewString(),
		Type:         eventType,
		BookingID:    b.ID,
		UserID:       b.UserID,
		RestaurantID: b.RestaurantID,
		TableID:      b.TableID,
		Date:         b.Date,
		Time:         b.Time,
		PartySize:    b.PartySize,
		Status:       string(b.Status),
		OccurredAt:   time.Now().UTC().Format(time.RFC3339),
	}
}
