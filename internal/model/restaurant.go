package model

// Location is a city restaurants are grouped by.
type Location struct {
    ID       uint64 `json:"id"`        // locations.id
    CityName string `json:"city_name"` // locations.city_name
}

// Restaurant is created by an external onboarding process and is read-only
// to the reservation core.  When VegOnly is set, every exposed menu item
// must be vegetarian.
type Restaurant struct {
    ID          uint64 `json:"id"`           // restaurants.id
    LocationID  uint64 `json:"location_id"`  // restaurants.location_id
    Name        string `json:"name"`         // restaurants.name
    Cuisine     string `json:"cuisine_type"` // restaurants.cuisine_type
    VegOnly     bool   `json:"is_veg_only"`  // restaurants.is_veg_only
    Description string `json:"description"`  // restaurants.description
}

// RestaurantSummary is a restaurant row joined with its rating aggregate.
// AverageRating is nil when the restaurant has never been rated.
type RestaurantSummary struct {
    Restaurant
    AverageRating *float64 `json:"avg_rating"`
    ReviewCount   int      `json:"review_count"`
}

// RestaurantSnapshot groups everything the restaurant page shows, read
// from a single consistent view of the store.
type RestaurantSnapshot struct {
    Restaurant Restaurant
    Tables     []Table
    Offers     []Offer
    Rating     RatingAggregate
}

// MenuItem is a dish on a restaurant menu.
type MenuItem struct {
    ID           uint64  `json:"id"`            // menu_items.id
    RestaurantID uint64  `json:"restaurant_id"` // menu_items.restaurant_id
    Name         string  `json:"item_name"`     // menu_items.item_name
    Description  string  `json:"description"`   // menu_items.description
    Price        float64 `json:"price"`         // menu_items.price
    Category     string  `json:"category"`      // menu_items.category
    Veg          bool    `json:"is_veg"`        // menu_items.is_veg
}
