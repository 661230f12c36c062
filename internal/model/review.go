package model

import "time"

// Review is an immutable three dimension rating of a restaurant.
// Overall is (Service+FoodQuality+Respect)/3 and is never rounded.
type Review struct {
    ID           uint64    `json:"id"`             // reviews.id
    UserID       uint64    `json:"user_id"`        // reviews.user_id
    RestaurantID uint64    `json:"restaurant_id"`  // reviews.restaurant_id
    Service      int       `json:"service"`        // reviews.customer_service
    FoodQuality  int       `json:"food_quality"`   // reviews.food_quality
    Respect      int       `json:"respect"`        // reviews.respect
    Overall      float64   `json:"overall_rating"` // reviews.overall_rating
    Text         string    `json:"review_text"`    // reviews.review_text
    CreatedAt    time.Time `json:"created_at"`     // reviews.created_at
}

// RatingAggregate is the raw aggregate read from a store: the sum of the
// overall scores is not kept, only the mean and how many reviews formed it.
type RatingAggregate struct {
    Average float64
    Count   int
}
