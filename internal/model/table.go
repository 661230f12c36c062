package model

import "time"

// TableState is the reservation state of a restaurant table.
type TableState string

const (
    TableAvailable TableState = "AVAILABLE"
    TableReserved  TableState = "RESERVED"
)

// Table is a seating resource inside a restaurant and the unit of
// reservation.  It corresponds to a row in the `restaurant_tables` table.
// Capacity never changes through the reservation core; State is only
// written by the reservation transition.
//
// Fields:
//  ID           – primary key identifier.
//  RestaurantID – owning restaurant.
//  Label        – human facing table number (e.g. "T4").
//  Capacity     – maximum party size, always positive.
//  State        – AVAILABLE or RESERVED.
//  DeletedAt    – soft delete marker (nil while the table is in service).
type Table struct {
    ID           uint64     `json:"id"`                   // restaurant_tables.id
    RestaurantID uint64     `json:"restaurant_id"`        // restaurant_tables.restaurant_id
    Label        string     `json:"label"`                // restaurant_tables.table_number
    Capacity     uint32     `json:"capacity"`             // restaurant_tables.capacity
    State        TableState `json:"state"`                // restaurant_tables.status
    DeletedAt    *time.Time `json:"-"`                    // restaurant_tables.deleted_at (nullable)
    CreatedAt    time.Time  `json:"created_at,omitempty"` // restaurant_tables.created_at
}

// Available reports whether the table is in service and can be booked.
func (t Table) Available() bool {
    return t.DeletedAt == nil && t.State == TableAvailable
}
