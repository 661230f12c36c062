package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/iliyamo/table-reservation/internal/metrics"
	"github.com/iliyamo/table-reservation/internal/model"
	"github.com/iliyamo/table-reservation/internal/repository"
)

// Rating is the mean overall rating of a restaurant.  Rated is false when
// nobody has reviewed it yet, which is not the same as a zero rating.
type Rating struct {
	Value float64
	Count int
	Rated bool
}

// MarshalJSON renders an unrated restaurant with a null average.
func (r Rating) MarshalJSON() ([]byte, error) {
	var avg *float64
	if r.Rated {
		v := r.Value
		avg = &v
	}
	return json.Marshal(struct {
		Average *float64 `json:"average"`
		Count   int      `json:"count"`
	}{avg, r.Count})
}

func ratingFrom(agg model.RatingAggregate) Rating {
	if agg.Count == 0 {
		return Rating{}
	}
	return Rating{Value: agg.Average, Count: agg.Count, Rated: true}
}

type ReviewStatus int

const (
	ReviewAccepted ReviewStatus = iota + 1
	ReviewInvalidScore
	ReviewNotFound
)

// ReviewRequest scores a restaurant on three dimensions, each 1..5.
type ReviewRequest struct {
	UserID       uint64
	RestaurantID uint64
	Service      int
	FoodQuality  int
	Respect      int
	Text         string
}

type ReviewOutcome struct {
	Status ReviewStatus
	Review model.Review
}

// RatingService records reviews and reports the rating aggregate.
type RatingService struct {
	restaurants CatalogStore
	reviews     ReviewStore
}

func NewRatingService(restaurants CatalogStore, reviews ReviewStore) *RatingService {
	return &RatingService{restaurants: restaurants, reviews: reviews}
}

func validScore(v int) bool { return v >= 1 && v <= 5 }

// SubmitReview stores an immutable review.  The overall rating is the
// unrounded mean of the three scores.  Repeated reviews by the same user
// are accepted.
func (s *RatingService) SubmitReview(ctx context.Context, req ReviewRequest) (ReviewOutcome, error) {
	_, err := s.restaurants.GetRestaurant(ctx, req.RestaurantID)
	if errors.Is(err, repository.ErrRestaurantNotFound) {
		return ReviewOutcome{Status: ReviewNotFound}, nil
	}
	if err != nil {
		return ReviewOutcome{}, storageErr("get restaurant", err)
	}
	if !validScore(req.Service) || !validScore(req.FoodQuality) || !validScore(req.Respect) {
		return ReviewOutcome{Status: ReviewInvalidScore}, nil
	}

	rv := model.Review{
		UserID:       req.UserID,
		RestaurantID: req.RestaurantID,
		Service:      req.Service,
		FoodQuality:  req.FoodQuality,
		Respect:      req.Respect,
		Overall:      float64(req.Service+req.FoodQuality+req.Respect) / 3.0,
		Text:         strings.TrimSpace(req.Text),
	}
	if err := s.reviews.CreateReview(ctx, &rv); err != nil {
		return ReviewOutcome{}, storageErr("create review", err)
	}
	metrics.RecordReview(rv.Overall)
	return ReviewOutcome{Status: ReviewAccepted, Review: rv}, nil
}

// AverageRating returns the mean overall rating of the restaurant.
func (s *RatingService) AverageRating(ctx context.Context, restaurantID uint64) (Rating, error) {
	_, err := s.restaurants.GetRestaurant(ctx, restaurantID)
	if errors.Is(err, repository.ErrRestaurantNotFound) {
		return Rating{}, ErrNotFound
	}
	if err != nil {
		return Rating{}, storageErr("get restaurant", err)
	}
	agg, err := s.reviews.RatingAggregate(ctx, restaurantID)
	if err != nil {
		return Rating{}, storageErr("rating aggregate", err)
	}
	return ratingFrom(agg), nil
}
