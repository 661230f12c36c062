package memstore

import (
	"context"
	"sort"

	"github.com/iliyamo/table-reservation/internal/model"
	"github.com/iliyamo/table-reservation/internal/repository"
)

// ReserveTable holds the table's mutex across the state check, the state
// change and the booking insert.
func (s *Store) ReserveTable(_ context.Context, b *model.Booking) error {
	sl := s.slot(b.TableID)
	if sl == nil {
		return repository.ErrTableNotFound
	}
	sl.mu.Lock()
	defer sl.mu.Unlock()

	if sl.table.DeletedAt != nil || sl.table.RestaurantID != b.RestaurantID {
		return repository.ErrTableNotFound
	}
	if sl.table.State != model.TableAvailable {
		return repository.ErrTableUnavailable
	}
	sl.table.State = model.TableReserved

	now := s.now()
	b.ID = s.seq.next(kindBooking)
	b.Status = model.BookingConfirmed
	b.CreatedAt, b.UpdatedAt = now, now

	s.bookingsMu.Lock()
	s.bookings[b.ID] = *b
	s.bookingsMu.Unlock()
	return nil
}

func (s *Store) GetBooking(_ context.Context, id uint64) (model.Booking, error) {
	s.bookingsMu.RLock()
	defer s.bookingsMu.RUnlock()
	b, ok := s.bookings[id]
	if !ok {
		return b, repository.ErrBookingNotFound
	}
	return b, nil
}

// FinalizeBooking re-checks the status under the table lock so a cancel
// racing with a completion of the same booking resolves to exactly one
// winner.
func (s *Store) FinalizeBooking(ctx context.Context, id uint64, status model.BookingStatus) error {
	b, err := s.GetBooking(ctx, id)
	if err != nil {
		return err
	}
	sl := s.slot(b.TableID)
	if sl == nil {
		return repository.ErrTableNotFound
	}
	sl.mu.Lock()
	defer sl.mu.Unlock()

	s.bookingsMu.Lock()
	b = s.bookings[id]
	if b.Status != model.BookingConfirmed {
		s.bookingsMu.Unlock()
		return repository.ErrBookingFinalized
	}
	b.Status = status
	b.UpdatedAt = s.now()
	s.bookings[id] = b
	s.bookingsMu.Unlock()

	sl.table.State = model.TableAvailable
	return nil
}

func (s *Store) ListDueBookings(_ context.Context, before string) ([]uint64, error) {
	s.bookingsMu.RLock()
	var ids []uint64
	for _, b := range s.bookings {
		if b.Status == model.BookingConfirmed && b.Date < before {
			ids = append(ids, b.ID)
		}
	}
	s.bookingsMu.RUnlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (s *Store) ListBookingsByRestaurant(_ context.Context, restaurantID uint64) ([]model.BookingView, error) {
	return s.views(func(b model.Booking) bool { return b.RestaurantID == restaurantID }), nil
}

func (s *Store) ListBookingsByUser(_ context.Context, userID uint64) ([]model.BookingView, error) {
	return s.views(func(b model.Booking) bool { return b.UserID == userID }), nil
}

func (s *Store) views(keep func(model.Booking) bool) []model.BookingView {
	s.bookingsMu.RLock()
	var picked []model.Booking
	for _, b := range s.bookings {
		if keep(b) {
			picked = append(picked, b)
		}
	}
	s.bookingsMu.RUnlock()

	out := make([]model.BookingView, 0, len(picked))
	for _, b := range picked {
		v := model.BookingView{Booking: b}
		if sl := s.slot(b.TableID); sl != nil {
			sl.mu.Lock()
			v.TableLabel = sl.table.Label
			sl.mu.Unlock()
		}
		s.catalogMu.RLock()
		v.UserName = s.users[b.UserID].Name
		v.RestaurantName = s.restaurants[b.RestaurantID].Name
		s.catalogMu.RUnlock()
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		a, c := out[i], out[j]
		if a.Date != c.Date {
			return a.Date > c.Date
		}
		if a.Time != c.Time {
			return a.Time > c.Time
		}
		return a.ID > c.ID
	})
	return out
}
