package model

import "time"

// Offer is a promotional discount of a restaurant.  ValidFrom and ValidTo
// are inclusive calendar dates.  Active is an explicit switch independent
// of the window.
type Offer struct {
    ID                 uint64    `json:"id"`                  // offers.id
    RestaurantID       uint64    `json:"restaurant_id"`       // offers.restaurant_id
    Title              string    `json:"title"`               // offers.title
    Description        string    `json:"description"`         // offers.description
    DiscountPercentage float64   `json:"discount_percentage"` // offers.discount_percentage
    ValidFrom          time.Time `json:"valid_from"`          // offers.valid_from (DATE)
    ValidTo            time.Time `json:"valid_to"`            // offers.valid_to (DATE)
    Active             bool      `json:"is_active"`           // offers.is_active
    CreatedAt          time.Time `json:"created_at"`          // offers.created_at
}
