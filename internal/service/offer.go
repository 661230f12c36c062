package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/table-reservation/internal/model"
	"github.com/iliyamo/table-reservation/internal/repository"
)

// IsActive reports whether the offer applies on today: it must be
// switched on and today must fall inside [ValidFrom, ValidTo], both ends
// inclusive, comparing calendar days only.
func IsActive(o model.Offer, today time.Time) bool {
	if !o.Active {
		return false
	}
	d := calendarDay(today)
	return !d.Before(calendarDay(o.ValidFrom)) && !d.After(calendarDay(o.ValidTo))
}

// OfferRequest describes a new promotional offer.
type OfferRequest struct {
	Title              string
	Description        string
	DiscountPercentage float64
	ValidFrom          time.Time
	ValidTo            time.Time
	Active             bool
}

// OfferService manages promotional offers.
type OfferService struct {
	restaurants CatalogStore
	offers      OfferStore
}

func NewOfferService(restaurants CatalogStore, offers OfferStore) *OfferService {
	return &OfferService{restaurants: restaurants, offers: offers}
}

// ListActiveOffers returns the offers of the restaurant active on today.
func (s *OfferService) ListActiveOffers(ctx context.Context, restaurantID uint64, today time.Time) ([]model.Offer, error) {
	_, err := s.restaurants.GetRestaurant(ctx, restaurantID)
	if errors.Is(err, repository.ErrRestaurantNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storageErr("get restaurant", err)
	}
	all, err := s.offers.ListOffers(ctx, restaurantID)
	if err != nil {
		return nil, storageErr("list offers", err)
	}
	return activeOffers(all, today), nil
}

func activeOffers(all []model.Offer, today time.Time) []model.Offer {
	out := make([]model.Offer, 0, len(all))
	for _, o := range all {
		if IsActive(o, today) {
			out = append(out, o)
		}
	}
	return out
}

// ListOffers returns every offer of the actor's restaurant, newest first.
func (s *OfferService) ListOffers(ctx context.Context, actor Actor) ([]model.Offer, error) {
	if !actor.IsStaffOf(actor.RestaurantID) {
		return nil, ErrNotFound
	}
	all, err := s.offers.ListOffers(ctx, actor.RestaurantID)
	if err != nil {
		return nil, storageErr("list offers", err)
	}
	return all, nil
}

// CreateOffer adds an offer to the actor's restaurant.
func (s *OfferService) CreateOffer(ctx context.Context, actor Actor, req OfferRequest) (model.Offer, error) {
	if !actor.IsStaffOf(actor.RestaurantID) {
		return model.Offer{}, ErrNotFound
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return model.Offer{}, validationErr("title is required")
	}
	if req.DiscountPercentage <= 0 || req.DiscountPercentage > 100 {
		return model.Offer{}, validationErr("discount_percentage must be in (0, 100]")
	}
	from, to := calendarDay(req.ValidFrom), calendarDay(req.ValidTo)
	if from.After(to) {
		return model.Offer{}, validationErr("valid_from must not be after valid_to")
	}
	o := model.Offer{
		RestaurantID:       actor.RestaurantID,
		Title:              title,
		Description:        strings.TrimSpace(req.Description),
		DiscountPercentage: req.DiscountPercentage,
		ValidFrom:          from,
		ValidTo:            to,
		Active:             req.Active,
	}
	if err := s.offers.CreateOffer(ctx, &o); err != nil {
		return o, storageErr("create offer", err)
	}
	return o, nil
}

// SetOfferActive switches an offer of the actor's restaurant on or off.
func (s *OfferService) SetOfferActive(ctx context.Context, actor Actor, offerID uint64, active bool) (model.Offer, error) {
	o, err := s.offers.GetOffer(ctx, offerID)
	if errors.Is(err, repository.ErrOfferNotFound) {
		return o, ErrNotFound
	}
	if err != nil {
		return o, storageErr("get offer", err)
	}
	if !actor.IsStaffOf(o.RestaurantID) {
		return model.Offer{}, ErrNotFound
	}
	err = s.offers.SetOfferActive(ctx, offerID, active)
	if errors.Is(err, repository.ErrOfferNotFound) {
		return o, ErrNotFound
	}
	if err != nil {
		return o, storageErr("set offer active", err)
	}
	o.Active = active
	return o, nil
}
