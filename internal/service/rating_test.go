package service_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/table-reservation/internal/service"
)

func TestSubmitReview_AverageAcrossReviews(t *testing.T) {
	f := newFixture(t)
	svc := service.NewRatingService(f.store, f.store)
	ctx := context.Background()

	out, err := svc.SubmitReview(ctx, service.ReviewRequest{
		UserID: f.customer.UserID, RestaurantID: f.restaurant.ID,
		Service: 5, FoodQuality: 5, Respect: 5, Text: "  superb  ",
	})
	require.NoError(t, err)
	require.Equal(t, service.ReviewAccepted, out.Status)
	assert.Equal(t, 5.0, out.Review.Overall)
	assert.Equal(t, "superb", out.Review.Text)

	out, err = svc.SubmitReview(ctx, service.ReviewRequest{
		UserID: f.customer.UserID, RestaurantID: f.restaurant.ID,
		Service: 1, FoodQuality: 1, Respect: 1,
	})
	require.NoError(t, err)
	require.Equal(t, service.ReviewAccepted, out.Status)

	r, err := svc.AverageRating(ctx, f.restaurant.ID)
	require.NoError(t, err)
	assert.True(t, r.Rated)
	assert.InDelta(t, 3.0, r.Value, 1e-9)
	assert.Equal(t, 2, r.Count)
}

func TestSubmitReview_OverallIsUnrounded(t *testing.T) {
	f := newFixture(t)
	svc := service.NewRatingService(f.store, f.store)

	out, err := svc.SubmitReview(context.Background(), service.ReviewRequest{
		UserID: f.customer.UserID, RestaurantID: f.restaurant.ID,
		Service: 4, FoodQuality: 5, Respect: 5,
	})
	require.NoError(t, err)
	assert.InDelta(t, 14.0/3.0, out.Review.Overall, 1e-9)
}

func TestSubmitReview_InvalidScore(t *testing.T) {
	f := newFixture(t)
	svc := service.NewRatingService(f.store, f.store)
	ctx := context.Background()

	for _, req := range []service.ReviewRequest{
		{Service: 0, FoodQuality: 3, Respect: 3},
		{Service: 3, FoodQuality: 6, Respect: 3},
		{Service: 3, FoodQuality: 3, Respect: -2},
	} {
		req.RestaurantID = f.restaurant.ID
		req.UserID = f.customer.UserID
		out, err := svc.SubmitReview(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, service.ReviewInvalidScore, out.Status)
	}

	r, err := svc.AverageRating(ctx, f.restaurant.ID)
	require.NoError(t, err)
	assert.False(t, r.Rated)
}

func TestSubmitReview_UnknownRestaurant(t *testing.T) {
	f := newFixture(t)
	svc := service.NewRatingService(f.store, f.store)

	out, err := svc.SubmitReview(context.Background(), service.ReviewRequest{
		RestaurantID: 9999, Service: 3, FoodQuality: 3, Respect: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, service.ReviewNotFound, out.Status)

	_, err = svc.AverageRating(context.Background(), 9999)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestRating_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(service.Rating{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"average": null, "count": 0}`, string(b))

	b, err = json.Marshal(service.Rating{Value: 4.5, Count: 2, Rated: true})
	require.NoError(t, err)
	assert.JSONEq(t, `{"average": 4.5, "count": 2}`, string(b))
}
