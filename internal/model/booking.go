package model

import "time"

// BookingStatus is the lifecycle status of a booking.  A booking starts
// confirmed; cancelled and completed are terminal.
type BookingStatus string

const (
    BookingConfirmed BookingStatus = "confirmed"
    BookingCancelled BookingStatus = "cancelled"
    BookingCompleted BookingStatus = "completed"
)

// Final reports whether no further transition is possible.
func (s BookingStatus) Final() bool {
    return s == BookingCancelled || s == BookingCompleted
}

// Booking assigns one table to one user for a date and time.  Apart from
// Status the record is immutable after creation.
//
// Fields:
//  ID           – primary key identifier.
//  UserID       – customer that made the booking.
//  RestaurantID – restaurant the table belongs to.
//  TableID      – reserved table.
//  Date         – visit date, YYYY-MM-DD.
//  Time         – visit time, HH:MM.
//  PartySize    – number of guests, never above the table capacity.
//  Status       – confirmed, cancelled or completed.
type Booking struct {
    ID           uint64        `json:"id"`            // bookings.id
    UserID       uint64        `json:"user_id"`       // bookings.user_id
    RestaurantID uint64        `json:"restaurant_id"` // bookings.restaurant_id
    TableID      uint64        `json:"table_id"`      // bookings.table_id
    Date         string        `json:"date"`          // bookings.booking_date
    Time         string        `json:"time"`          // bookings.booking_time
    PartySize    uint32        `json:"party_size"`    // bookings.party_size
    Status       BookingStatus `json:"status"`        // bookings.status
    CreatedAt    time.Time     `json:"created_at"`    // bookings.created_at
    UpdatedAt    time.Time     `json:"updated_at"`    // bookings.updated_at
}

// BookingView is a booking joined with display names for listings.
type BookingView struct {
    Booking
    UserName       string `json:"user_name"`
    TableLabel     string `json:"table_label"`
    RestaurantName string `json:"restaurant_name"`
}
