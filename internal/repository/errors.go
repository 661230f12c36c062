// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// services and handlers to distinguish between different failure
// scenarios.  For example, ErrTableUnavailable indicates that a
// reservation lost the race for a table, while ErrConflict signals that
// an operation cannot proceed because of the current state of a row
// (e.g. removing a table that is reserved).
package repository

import "errors"

// ErrConflict is returned when a delete or update cannot be
// performed because of conflicting state.
var ErrConflict = errors.New("conflict")

var (
    ErrLocationNotFound   = errors.New("location not found")
    ErrRestaurantNotFound = errors.New("restaurant not found")
    ErrUserNotFound       = errors.New("user not found")
    ErrOfferNotFound      = errors.New("offer not found")
)

// ErrTableNotFound is returned when a table does not exist, has been
// soft deleted or belongs to another restaurant.
var ErrTableNotFound = errors.New("table not found")

// ErrTableUnavailable is returned by ReserveTable when the table is not
// in the AVAILABLE state at the moment of the compare-and-set.
var ErrTableUnavailable = errors.New("table unavailable")

// ErrBookingNotFound is returned when no booking has the requested id.
var ErrBookingNotFound = errors.New("booking not found")

// ErrBookingFinalized is returned when a booking is already cancelled or
// completed and can not transition again.
var ErrBookingFinalized = errors.New("booking already finalized")
