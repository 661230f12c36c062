package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/table-reservation/internal/model"
	"github.com/iliyamo/table-reservation/internal/queue"
	"github.com/iliyamo/table-reservation/internal/repository/memstore"
	"github.com/iliyamo/table-reservation/internal/service"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, ev queue.BookingEvent) error {
	return m.Called(ctx, ev).Error(0)
}

type fixture struct {
	store      *memstore.Store
	restaurant model.Restaurant
	other      model.Restaurant
	tables     []model.Table
	customer   service.Actor
	staff      service.Actor
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	s := memstore.New()
	loc := s.AddLocation("Mumbai")
	r := s.AddRestaurant(model.Restaurant{LocationID: loc.ID, Name: "Bombay Bites", Cuisine: "Street Food"})
	other := s.AddRestaurant(model.Restaurant{LocationID: loc.ID, Name: "Coastal Curry", Cuisine: "Seafood"})

	var tables []model.Table
	for _, c := range []uint32{2, 4} {
		tbl := model.Table{RestaurantID: r.ID, Label: "T", Capacity: c}
		require.NoError(t, s.CreateTable(context.Background(), &tbl))
		tables = append(tables, tbl)
	}
	cust := model.User{Name: "Ravi", Email: "ravi@example.com", Role: model.RoleCustomer}
	require.NoError(t, s.CreateUser(context.Background(), &cust))
	rid := r.ID
	staff := model.User{Name: "Meera", Email: "meera@example.com", Role: model.RoleStaff, RestaurantID: &rid}
	require.NoError(t, s.CreateUser(context.Background(), &staff))

	return fixture{
		store:      s,
		restaurant: r,
		other:      other,
		tables:     tables,
		customer:   service.Actor{UserID: cust.ID, Role: model.RoleCustomer},
		staff:      service.Actor{UserID: staff.ID, Role: model.RoleStaff, RestaurantID: r.ID},
	}
}

func (f fixture) request(tableID uint64, party int) service.ReserveRequest {
	return service.ReserveRequest{
		RestaurantID: f.restaurant.ID,
		TableID:      tableID,
		UserID:       f.customer.UserID,
		Date:         "2026-10-20",
		Time:         "19:30",
		PartySize:    party,
	}
}

func TestReserve_Accepted(t *testing.T) {
	f := newFixture(t)
	pub := new(mockPublisher)
	pub.On("Publish", mock.Anything, mock.MatchedBy(func(ev queue.BookingEvent) bool {
		return ev.Type == queue.EventBookingConfirmed && ev.TableID == f.tables[0].ID
	})).Return(nil).Once()
	svc := service.NewReservationService(f.store, f.store, pub)

	out, err := svc.Reserve(context.Background(), f.request(f.tables[0].ID, 2))
	require.NoError(t, err)
	assert.Equal(t, service.ReserveAccepted, out.Status)
	assert.NotZero(t, out.Booking.ID)
	assert.Equal(t, model.BookingConfirmed, out.Booking.Status)

	got, err := f.store.GetBooking(context.Background(), out.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, out.Booking.ID, got.ID)

	tbl, err := f.store.GetTable(context.Background(), f.tables[0].ID)
	require.NoError(t, err)
	assert.Equal(t, model.TableReserved, tbl.State)
	pub.AssertExpectations(t)
}

func TestReserve_PublishErrorIgnored(t *testing.T) {
	f := newFixture(t)
	pub := new(mockPublisher)
	pub.On("Publish", mock.Anything, mock.Anything).Return(errors.New("broker down"))
	svc := service.NewReservationService(f.store, f.store, pub)

	out, err := svc.Reserve(context.Background(), f.request(f.tables[0].ID, 1))
	require.NoError(t, err)
	assert.Equal(t, service.ReserveAccepted, out.Status)
}

func TestReserve_PartySize(t *testing.T) {
	f := newFixture(t)
	svc := service.NewReservationService(f.store, f.store, nil)
	ctx := context.Background()

	// sizes that would wrap to a fitting value in 32 bits
	for _, party := range []int{0, -1, 3, 1 << 32, 1<<32 + 1, 1<<32 + 2} {
		out, err := svc.Reserve(ctx, f.request(f.tables[0].ID, party))
		require.NoError(t, err)
		assert.Equal(t, service.ReserveInvalidPartySize, out.Status, "party %d", party)
	}

	tbl, err := f.store.GetTable(ctx, f.tables[0].ID)
	require.NoError(t, err)
	assert.Equal(t, model.TableAvailable, tbl.State)

	out, err := svc.Reserve(ctx, f.request(f.tables[0].ID, 2))
	require.NoError(t, err)
	assert.Equal(t, service.ReserveAccepted, out.Status)
	assert.Equal(t, uint32(2), out.Booking.PartySize)

	// capacity is checked before state
	out, err = svc.Reserve(ctx, f.request(f.tables[0].ID, 5))
	require.NoError(t, err)
	assert.Equal(t, service.ReserveInvalidPartySize, out.Status)
}

func TestReserve_TableUnavailable(t *testing.T) {
	f := newFixture(t)
	svc := service.NewReservationService(f.store, f.store, nil)
	ctx := context.Background()

	_, err := svc.Reserve(ctx, f.request(f.tables[1].ID, 4))
	require.NoError(t, err)
	out, err := svc.Reserve(ctx, f.request(f.tables[1].ID, 2))
	require.NoError(t, err)
	assert.Equal(t, service.ReserveTableUnavailable, out.Status)
	assert.Zero(t, out.Booking.ID)
}

func TestReserve_NotFound(t *testing.T) {
	f := newFixture(t)
	svc := service.NewReservationService(f.store, f.store, nil)
	ctx := context.Background()

	out, err := svc.Reserve(ctx, f.request(9999, 2))
	require.NoError(t, err)
	assert.Equal(t, service.ReserveNotFound, out.Status)

	req := f.request(f.tables[0].ID, 2)
	req.RestaurantID = f.other.ID
	out, err = svc.Reserve(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, service.ReserveNotFound, out.Status)
}

func TestReserve_Concurrent(t *testing.T) {
	f := newFixture(t)
	svc := service.NewReservationService(f.store, f.store, nil)
	ctx := context.Background()

	const n = 50
	results := make([]service.ReserveStatus, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out, err := svc.Reserve(ctx, f.request(f.tables[1].ID, 2))
			assert.NoError(t, err)
			results[i] = out.Status
		}(i)
	}
	wg.Wait()

	counts := map[service.ReserveStatus]int{}
	for _, st := range results {
		counts[st]++
	}
	assert.Equal(t, 1, counts[service.ReserveAccepted])
	assert.Equal(t, n-1, counts[service.ReserveTableUnavailable])
}

func TestCancel_ByOwnerFreesTable(t *testing.T) {
	f := newFixture(t)
	pub := new(mockPublisher)
	pub.On("Publish", mock.Anything, mock.Anything).Return(nil)
	svc := service.NewReservationService(f.store, f.store, pub)
	ctx := context.Background()

	res, err := svc.Reserve(ctx, f.request(f.tables[0].ID, 2))
	require.NoError(t, err)

	out, err := svc.Cancel(ctx, res.Booking.ID, f.customer)
	require.NoError(t, err)
	assert.Equal(t, service.FinalizeDone, out.Status)
	assert.Equal(t, model.BookingCancelled, out.Booking.Status)

	again, err := svc.Reserve(ctx, f.request(f.tables[0].ID, 2))
	require.NoError(t, err)
	assert.Equal(t, service.ReserveAccepted, again.Status)

	pub.AssertCalled(t, "Publish", mock.Anything, mock.MatchedBy(func(ev queue.BookingEvent) bool {
		return ev.Type == queue.EventBookingCancelled && ev.BookingID == res.Booking.ID
	}))
}

func TestCancel_Twice(t *testing.T) {
	f := newFixture(t)
	svc := service.NewReservationService(f.store, f.store, nil)
	ctx := context.Background()
	res, err := svc.Reserve(ctx, f.request(f.tables[0].ID, 2))
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, res.Booking.ID, f.customer)
	require.NoError(t, err)
	out, err := svc.Cancel(ctx, res.Booking.ID, f.customer)
	require.NoError(t, err)
	assert.Equal(t, service.FinalizeAlreadyFinalized, out.Status)
	assert.Equal(t, model.BookingCancelled, out.Booking.Status)
}

func TestCancel_Visibility(t *testing.T) {
	f := newFixture(t)
	svc := service.NewReservationService(f.store, f.store, nil)
	ctx := context.Background()
	res, err := svc.Reserve(ctx, f.request(f.tables[0].ID, 2))
	require.NoError(t, err)

	stranger := service.Actor{UserID: f.customer.UserID + 100, Role: model.RoleCustomer}
	out, err := svc.Cancel(ctx, res.Booking.ID, stranger)
	require.NoError(t, err)
	assert.Equal(t, service.FinalizeNotFound, out.Status)

	otherStaff := service.Actor{UserID: 77, Role: model.RoleStaff, RestaurantID: f.other.ID}
	out, err = svc.Cancel(ctx, res.Booking.ID, otherStaff)
	require.NoError(t, err)
	assert.Equal(t, service.FinalizeNotFound, out.Status)

	out, err = svc.Cancel(ctx, res.Booking.ID, f.staff)
	require.NoError(t, err)
	assert.Equal(t, service.FinalizeDone, out.Status)

	out, err = svc.Cancel(ctx, 4242, f.staff)
	require.NoError(t, err)
	assert.Equal(t, service.FinalizeNotFound, out.Status)
}

func TestComplete_StaffOnly(t *testing.T) {
	f := newFixture(t)
	svc := service.NewReservationService(f.store, f.store, nil)
	ctx := context.Background()
	res, err := svc.Reserve(ctx, f.request(f.tables[0].ID, 2))
	require.NoError(t, err)

	out, err := svc.Complete(ctx, res.Booking.ID, f.customer)
	require.NoError(t, err)
	assert.Equal(t, service.FinalizeNotFound, out.Status)

	out, err = svc.Complete(ctx, res.Booking.ID, f.staff)
	require.NoError(t, err)
	assert.Equal(t, service.FinalizeDone, out.Status)
	assert.Equal(t, model.BookingCompleted, out.Booking.Status)

	out, err = svc.Cancel(ctx, res.Booking.ID, f.customer)
	require.NoError(t, err)
	assert.Equal(t, service.FinalizeAlreadyFinalized, out.Status)
}

func TestCompleteDue(t *testing.T) {
	f := newFixture(t)
	svc := service.NewReservationService(f.store, f.store, nil)
	ctx := context.Background()

	past := f.request(f.tables[0].ID, 2)
	past.Date = "2026-10-14"
	today := f.request(f.tables[1].ID, 2)
	today.Date = "2026-10-15"
	p, err := svc.Reserve(ctx, past)
	require.NoError(t, err)
	td, err := svc.Reserve(ctx, today)
	require.NoError(t, err)

	n, err := svc.CompleteDue(ctx, time.Date(2026, 10, 15, 3, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := f.store.GetBooking(ctx, p.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingCompleted, got.Status)
	got, err = f.store.GetBooking(ctx, td.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingConfirmed, got.Status)
}

type brokenTables struct {
	*memstore.Store
}

func (brokenTables) GetTable(context.Context, uint64) (model.Table, error) {
	return model.Table{}, errors.New("connection refused")
}

func TestReserve_StorageFailure(t *testing.T) {
	f := newFixture(t)
	svc := service.NewReservationService(brokenTables{f.store}, f.store, nil)

	_, err := svc.Reserve(context.Background(), f.request(f.tables[0].ID, 2))
	assert.ErrorIs(t, err, service.ErrStorageUnavailable)
}

type countingCompleter struct {
	mu     sync.Mutex
	calls  int
	before time.Time
}

func (c *countingCompleter) CompleteDue(_ context.Context, before time.Time) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	c.before = before
	return 3, nil
}

func TestCompletionSweep(t *testing.T) {
	c := &countingCompleter{}
	sweep := service.NewCompletionSweep(c)

	assert.Equal(t, 3, sweep.RunOnce(context.Background()))
	assert.Equal(t, 1, c.calls)

	require.NoError(t, sweep.Start(context.Background(), "0 3 * * *"))
	assert.Len(t, sweep.Entries(), 1)
	sweep.Stop()

	assert.Error(t, service.NewCompletionSweep(c).Start(context.Background(), "not a schedule"))
}
