package service

import (
	"context"
	"errors"
	"time"

	"github.com/iliyamo/table-reservation/internal/model"
	"github.com/iliyamo/table-reservation/internal/repository"
)

// RestaurantDetail is the restaurant page: bookable tables, offers active
// today and the rating, all read from one snapshot.
type RestaurantDetail struct {
	Restaurant model.Restaurant `json:"restaurant"`
	Tables     []model.Table    `json:"available_tables"`
	Offers     []model.Offer    `json:"active_offers"`
	Rating     Rating           `json:"rating"`
}

// QueryService serves read-only projections.
type QueryService struct {
	catalog  CatalogStore
	bookings BookingStore
}

func NewQueryService(catalog CatalogStore, bookings BookingStore) *QueryService {
	return &QueryService{catalog: catalog, bookings: bookings}
}

func (s *QueryService) ListLocations(ctx context.Context) ([]model.Location, error) {
	locs, err := s.catalog.ListLocations(ctx)
	if err != nil {
		return nil, storageErr("list locations", err)
	}
	return locs, nil
}

// RestaurantsByCity lists the restaurants of a location ordered by name,
// each with its average rating (nil when unrated).
func (s *QueryService) RestaurantsByCity(ctx context.Context, locationID uint64) ([]model.RestaurantSummary, error) {
	_, err := s.catalog.GetLocation(ctx, locationID)
	if errors.Is(err, repository.ErrLocationNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storageErr("get location", err)
	}
	list, err := s.catalog.ListRestaurantsByLocation(ctx, locationID)
	if err != nil {
		return nil, storageErr("list restaurants", err)
	}
	return list, nil
}

// Menu returns the menu of a restaurant.  A veg-only restaurant never
// exposes non-vegetarian items.
func (s *QueryService) Menu(ctx context.Context, restaurantID uint64) ([]model.MenuItem, error) {
	r, err := s.catalog.GetRestaurant(ctx, restaurantID)
	if errors.Is(err, repository.ErrRestaurantNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storageErr("get restaurant", err)
	}
	items, err := s.catalog.ListMenu(ctx, restaurantID, r.VegOnly)
	if err != nil {
		return nil, storageErr("list menu", err)
	}
	return items, nil
}

// RestaurantDetail reads the restaurant page as of today.
func (s *QueryService) RestaurantDetail(ctx context.Context, restaurantID uint64, today time.Time) (RestaurantDetail, error) {
	snap, err := s.catalog.RestaurantSnapshot(ctx, restaurantID)
	if errors.Is(err, repository.ErrRestaurantNotFound) {
		return RestaurantDetail{}, ErrNotFound
	}
	if err != nil {
		return RestaurantDetail{}, storageErr("restaurant snapshot", err)
	}
	return RestaurantDetail{
		Restaurant: snap.Restaurant,
		Tables:     snap.Tables,
		Offers:     activeOffers(snap.Offers, today),
		Rating:     ratingFrom(snap.Rating),
	}, nil
}

// BookingsByRestaurant lists every booking of the actor's restaurant,
// latest visit first.
func (s *QueryService) BookingsByRestaurant(ctx context.Context, actor Actor) ([]model.BookingView, error) {
	if !actor.IsStaffOf(actor.RestaurantID) {
		return nil, ErrNotFound
	}
	list, err := s.bookings.ListBookingsByRestaurant(ctx, actor.RestaurantID)
	if err != nil {
		return nil, storageErr("list bookings", err)
	}
	return list, nil
}

// BookingsByUser lists the actor's own bookings, latest visit first.
func (s *QueryService) BookingsByUser(ctx context.Context, actor Actor) ([]model.BookingView, error) {
	list, err := s.bookings.ListBookingsByUser(ctx, actor.UserID)
	if err != nil {
		return nil, storageErr("list bookings", err)
	}
	return list, nil
}
