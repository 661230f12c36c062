package service

import (
	"context"
	"errors"
	"time"

	"github.com/iliyamo/table-reservation/internal/logger"
	"github.com/iliyamo/table-reservation/internal/metrics"
	"github.com/iliyamo/table-reservation/internal/model"
	"github.com/iliyamo/table-reservation/internal/queue"
	"github.com/iliyamo/table-reservation/internal/repository"
)

// EventPublisher hands booking events to the broker.  Implemented by
// queue.Publisher.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.BookingEvent) error
}

type ReserveStatus int

const (
	ReserveAccepted ReserveStatus = iota + 1
	ReserveTableUnavailable
	ReserveInvalidPartySize
	ReserveNotFound
)

func (s ReserveStatus) String() string {
	switch s {
	case ReserveAccepted:
		return "accepted"
	case ReserveTableUnavailable:
		return "table_unavailable"
	case ReserveInvalidPartySize:
		return "invalid_party_size"
	case ReserveNotFound:
		return "not_found"
	}
	return "unknown"
}

// ReserveRequest asks for one table for one visit.  Date is YYYY-MM-DD
// and Time is HH:MM; both are validated by the caller.
type ReserveRequest struct {
	RestaurantID uint64
	TableID      uint64
	UserID       uint64
	Date         string
	Time         string
	PartySize    int
}

// ReserveOutcome carries the booking when Status is ReserveAccepted.
type ReserveOutcome struct {
	Status  ReserveStatus
	Booking model.Booking
}

type FinalizeStatus int

const (
	FinalizeDone FinalizeStatus = iota + 1
	FinalizeAlreadyFinalized
	FinalizeNotFound
)

func (s FinalizeStatus) String() string {
	switch s {
	case FinalizeDone:
		return "done"
	case FinalizeAlreadyFinalized:
		return "already_finalized"
	case FinalizeNotFound:
		return "not_found"
	}
	return "unknown"
}

// FinalizeOutcome is the result of Cancel and Complete.
type FinalizeOutcome struct {
	Status  FinalizeStatus
	Booking model.Booking
}

// ReservationService owns the table/booking state machine.  A table goes
// AVAILABLE -> RESERVED on Reserve and back to AVAILABLE when its booking
// is cancelled or completed.  There is no date overlap logic: a reserved
// table stays reserved until its booking is finalized.
type ReservationService struct {
	tables   TableStore
	bookings BookingStore
	events   EventPublisher
}

// NewReservationService wires the service.  events may be nil, in which
// case no events are published.
func NewReservationService(tables TableStore, bookings BookingStore, events EventPublisher) *ReservationService {
	return &ReservationService{tables: tables, bookings: bookings, events: events}
}

// Reserve books the table for the user.  Only one of any number of
// concurrent calls for the same table can be accepted.
func (s *ReservationService) Reserve(ctx context.Context, req ReserveRequest) (out ReserveOutcome, err error) {
	defer func() {
		if err != nil {
			metrics.RecordReservation("error")
			return
		}
		metrics.RecordReservation(out.Status.String())
		logger.Info().
			Str("outcome", out.Status.String()).
			Uint64("restaurant_id", req.RestaurantID).
			Uint64("table_id", req.TableID).
			Uint64("user_id", req.UserID).
			Uint64("booking_id", out.Booking.ID).
			Msg("reserve")
	}()

	t, err := s.tables.GetTable(ctx, req.TableID)
	if errors.Is(err, repository.ErrTableNotFound) {
		return ReserveOutcome{Status: ReserveNotFound}, nil
	}
	if err != nil {
		return ReserveOutcome{}, storageErr("get table", err)
	}
	if t.RestaurantID != req.RestaurantID {
		return ReserveOutcome{Status: ReserveNotFound}, nil
	}
	if req.PartySize < 1 || uint64(req.PartySize) > uint64(t.Capacity) {
		return ReserveOutcome{Status: ReserveInvalidPartySize}, nil
	}

	b := model.Booking{
		UserID:       req.UserID,
		RestaurantID: req.RestaurantID,
		TableID:      req.TableID,
		Date:         req.Date,
		Time:         req.Time,
		PartySize:    uint32(req.PartySize),
	}
	err = s.bookings.ReserveTable(ctx, &b)
	switch {
	case errors.Is(err, repository.ErrTableUnavailable):
		return ReserveOutcome{Status: ReserveTableUnavailable}, nil
	case errors.Is(err, repository.ErrTableNotFound):
		return ReserveOutcome{Status: ReserveNotFound}, nil
	case err != nil:
		return ReserveOutcome{}, storageErr("reserve table", err)
	}

	s.publish(ctx, queue.EventBookingConfirmed, b)
	return ReserveOutcome{Status: ReserveAccepted, Booking: b}, nil
}

// Cancel cancels a confirmed booking and frees its table.  The booking's
// customer and the staff of its restaurant may cancel; for anyone else
// the booking does not exist.
func (s *ReservationService) Cancel(ctx context.Context, bookingID uint64, actor Actor) (FinalizeOutcome, error) {
	return s.finalize(ctx, bookingID, model.BookingCancelled, actor.CanSee)
}

// Complete marks a confirmed booking as completed and frees its table.
// Only staff of the booking's restaurant may complete it.
func (s *ReservationService) Complete(ctx context.Context, bookingID uint64, actor Actor) (FinalizeOutcome, error) {
	return s.finalize(ctx, bookingID, model.BookingCompleted, func(b model.Booking) bool {
		return actor.IsStaffOf(b.RestaurantID)
	})
}

func (s *ReservationService) finalize(ctx context.Context, bookingID uint64, status model.BookingStatus, allowed func(model.Booking) bool) (FinalizeOutcome, error) {
	b, err := s.bookings.GetBooking(ctx, bookingID)
	if errors.Is(err, repository.ErrBookingNotFound) {
		return FinalizeOutcome{Status: FinalizeNotFound}, nil
	}
	if err != nil {
		return FinalizeOutcome{}, storageErr("get booking", err)
	}
	if !allowed(b) {
		return FinalizeOutcome{Status: FinalizeNotFound}, nil
	}
	if b.Status.Final() {
		return FinalizeOutcome{Status: FinalizeAlreadyFinalized, Booking: b}, nil
	}
	return s.transition(ctx, b, status)
}

func (s *ReservationService) transition(ctx context.Context, b model.Booking, status model.BookingStatus) (FinalizeOutcome, error) {
	err := s.bookings.FinalizeBooking(ctx, b.ID, status)
	switch {
	case errors.Is(err, repository.ErrBookingFinalized):
		return FinalizeOutcome{Status: FinalizeAlreadyFinalized, Booking: b}, nil
	case errors.Is(err, repository.ErrBookingNotFound):
		return FinalizeOutcome{Status: FinalizeNotFound}, nil
	case err != nil:
		return FinalizeOutcome{}, storageErr("finalize booking", err)
	}
	b.Status = status
	metrics.RecordTransition(string(status))
	logger.Info().Uint64("booking_id", b.ID).Uint64("table_id", b.TableID).Str("status", string(status)).Msg("booking finalized")

	eventType := queue.EventBookingCancelled
	if status == model.BookingCompleted {
		eventType = queue.EventBookingCompleted
	}
	s.publish(ctx, eventType, b)
	return FinalizeOutcome{Status: FinalizeDone, Booking: b}, nil
}

// CompleteDue completes every confirmed booking dated strictly before
// the calendar day of before and returns how many were completed.
func (s *ReservationService) CompleteDue(ctx context.Context, before time.Time) (int, error) {
	ids, err := s.bookings.ListDueBookings(ctx, before.Format(DateLayout))
	if err != nil {
		return 0, storageErr("list due bookings", err)
	}
	done := 0
	for _, id := range ids {
		b, err := s.bookings.GetBooking(ctx, id)
		if errors.Is(err, repository.ErrBookingNotFound) {
			continue
		}
		if err != nil {
			return done, storageErr("get booking", err)
		}
		out, err := s.transition(ctx, b, model.BookingCompleted)
		if err != nil {
			return done, err
		}
		if out.Status == FinalizeDone {
			done++
		}
	}
	return done, nil
}

// publish is best effort; the booking is already committed.
func (s *ReservationService) publish(ctx context.Context, eventType string, b model.Booking) {
	if s.events == nil {
		return
	}
	_ = s.events.Publish(context.WithoutCancel(ctx), queue.NewBookingEvent(eventType, b))
}
