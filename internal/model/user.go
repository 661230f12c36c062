package model

import "time"

// Roles understood by the service.  Staff accounts are bound to exactly
// one restaurant through RestaurantID.
const (
    RoleCustomer = "CUSTOMER"
    RoleStaff    = "STAFF"
)

// User represents an application user record as stored in the
// `users` table.  Users are created by registration and never change
// afterwards as far as the reservation core is concerned.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Name         – display name shown on staff booking listings.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  Role         – CUSTOMER or STAFF.
//  RestaurantID – restaurant a STAFF user manages, nil for customers.
//  IsActive     – whether the account is active.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
    ID           uint64    // users.id
    Name         string    // users.name
    Email        string    // users.email
    PasswordHash string    // users.password_hash
    Role         string    // users.role
    RestaurantID *uint64   // users.restaurant_id (nullable)
    IsActive     bool      // users.is_active
    CreatedAt    time.Time // users.created_at
    UpdatedAt    time.Time // users.updated_at
}
