package service

import (
	"context"

	"github.com/iliyamo/table-reservation/internal/model"
)

// The store interfaces below are implemented by repository.Store (MySQL)
// and memstore.Store.  Not-found and state conflicts are reported with
// the sentinels of package repository.

type TableStore interface {
	GetTable(ctx context.Context, tableID uint64) (model.Table, error)
	ListAvailableTables(ctx context.Context, restaurantID uint64) ([]model.Table, error)
	CreateTable(ctx context.Context, t *model.Table) error
	SoftDeleteTable(ctx context.Context, restaurantID, tableID uint64) error
}

type BookingStore interface {
	// ReserveTable atomically flips the table to RESERVED and inserts b
	// as a confirmed booking.
	ReserveTable(ctx context.Context, b *model.Booking) error
	GetBooking(ctx context.Context, id uint64) (model.Booking, error)
	// FinalizeBooking atomically moves a confirmed booking to status and
	// releases its table.
	FinalizeBooking(ctx context.Context, id uint64, status model.BookingStatus) error
	ListDueBookings(ctx context.Context, before string) ([]uint64, error)
	ListBookingsByRestaurant(ctx context.Context, restaurantID uint64) ([]model.BookingView, error)
	ListBookingsByUser(ctx context.Context, userID uint64) ([]model.BookingView, error)
}

type ReviewStore interface {
	CreateReview(ctx context.Context, rv *model.Review) error
	RatingAggregate(ctx context.Context, restaurantID uint64) (model.RatingAggregate, error)
}

type OfferStore interface {
	CreateOffer(ctx context.Context, o *model.Offer) error
	GetOffer(ctx context.Context, id uint64) (model.Offer, error)
	ListOffers(ctx context.Context, restaurantID uint64) ([]model.Offer, error)
	SetOfferActive(ctx context.Context, id uint64, active bool) error
}

type CatalogStore interface {
	ListLocations(ctx context.Context) ([]model.Location, error)
	GetLocation(ctx context.Context, id uint64) (model.Location, error)
	GetRestaurant(ctx context.Context, id uint64) (model.Restaurant, error)
	ListRestaurantsByLocation(ctx context.Context, locationID uint64) ([]model.RestaurantSummary, error)
	ListMenu(ctx context.Context, restaurantID uint64, vegOnly bool) ([]model.MenuItem, error)
	RestaurantSnapshot(ctx context.Context, restaurantID uint64) (model.RestaurantSnapshot, error)
}

type UserStore interface {
	CreateUser(ctx context.Context, u *model.User) error
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	GetUserByID(ctx context.Context, id uint64) (model.User, error)
}

// Store is everything a full deployment needs.
type Store interface {
	TableStore
	BookingStore
	ReviewStore
	OfferStore
	CatalogStore
	UserStore
}
