package service

import "github.com/iliyamo/table-reservation/internal/model"

// Actor is the authenticated caller of an operation.  It is built from
// the access token claims by the HTTP layer and passed explicitly.
type Actor struct {
	UserID       uint64
	Role         string
	RestaurantID uint64 // set for STAFF only
}

// IsStaffOf reports whether the actor manages the given restaurant.
func (a Actor) IsStaffOf(restaurantID uint64) bool {
	return a.Role == model.RoleStaff && a.RestaurantID != 0 && a.RestaurantID == restaurantID
}

// CanSee reports whether the booking is visible to the actor: its own
// customer and the staff of its restaurant may see it.
func (a Actor) CanSee(b model.Booking) bool {
	return (a.UserID != 0 && a.UserID == b.UserID) || a.IsStaffOf(b.RestaurantID)
}
