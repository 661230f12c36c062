package repository

import "database/sql"

// Store bundles the MySQL repositories behind a single value that
// satisfies every store interface the services depend on.
type Store struct {
    *UserRepo
    *CatalogRepo
    *TableRepo
    *BookingRepo
    *ReviewRepo
    *OfferRepo
}

// NewStore wires all repositories to db.
func NewStore(db *sql.DB) *Store {
    return &Store{
        UserRepo:    NewUserRepo(db),
        CatalogRepo: NewCatalogRepo(db),
        TableRepo:   NewTableRepo(db),
        BookingRepo: NewBookingRepo(db),
        ReviewRepo:  NewReviewRepo(db),
        OfferRepo:   NewOfferRepo(db),
    }
}
