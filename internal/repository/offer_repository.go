package repository

import (
    "context"
    "database/sql"
    "errors"
    "time"

    "github.com/iliyamo/table-reservation/internal/model"
)

// OfferRepo manages promotional offers.
type OfferRepo struct {
    db *sql.DB
}

func NewOfferRepo(db *sql.DB) *OfferRepo { return &OfferRepo{db: db} }

const offerColumns = "id, restaurant_id, title, description, discount_percentage, valid_from, valid_to, is_active, created_at"

// CreateOffer inserts o and fills its ID and creation time.
func (r *OfferRepo) CreateOffer(ctx context.Context, o *model.Offer) error {
    res, err := r.db.ExecContext(ctx,
        `INSERT INTO offers (restaurant_id, title, description, discount_percentage, valid_from, valid_to, is_active)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
        o.RestaurantID, o.Title, o.Description, o.DiscountPercentage,
        o.ValidFrom.Format("2006-01-02"), o.ValidTo.Format("2006-01-02"), o.Active)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    o.ID = uint64(id)
    o.CreatedAt = time.Now().UTC()
    return nil
}

// GetOffer returns a single offer by id.
func (r *OfferRepo) GetOffer(ctx context.Context, id uint64) (model.Offer, error) {
    var o model.Offer
    err := r.db.QueryRowContext(ctx, "SELECT "+offerColumns+" FROM offers WHERE id = ?", id).
        Scan(&o.ID, &o.RestaurantID, &o.Title, &o.Description, &o.DiscountPercentage,
            &o.ValidFrom, &o.ValidTo, &o.Active, &o.CreatedAt)
    if errors.Is(err, sql.ErrNoRows) {
        return o, ErrOfferNotFound
    }
    return o, err
}

// ListOffers returns every offer of a restaurant, newest first.  Window
// evaluation is left to the caller.
func (r *OfferRepo) ListOffers(ctx context.Context, restaurantID uint64) ([]model.Offer, error) {
    return listOffers(ctx, r.db, restaurantID)
}

func listOffers(ctx context.Context, q queryer, restaurantID uint64) ([]model.Offer, error) {
    rows, err := q.QueryContext(ctx,
        "SELECT "+offerColumns+" FROM offers WHERE restaurant_id = ? ORDER BY created_at DESC, id DESC", restaurantID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    offers := make([]model.Offer, 0)
    for rows.Next() {
        var o model.Offer
        if err := rows.Scan(&o.ID, &o.RestaurantID, &o.Title, &o.Description, &o.DiscountPercentage,
            &o.ValidFrom, &o.ValidTo, &o.Active, &o.CreatedAt); err != nil {
            return nil, err
        }
        offers = append(offers, o)
    }
    return offers, rows.Err()
}

// SetOfferActive flips the explicit active switch of an offer.
func (r *OfferRepo) SetOfferActive(ctx context.Context, id uint64, active bool) error {
    res, err := r.db.ExecContext(ctx, "UPDATE offers SET is_active = ? WHERE id = ?", active, id)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        // MySQL reports 0 affected rows when the value is unchanged, so
        // confirm the offer exists before reporting it missing.
        if _, err := r.GetOffer(ctx, id); err != nil {
            return err
        }
    }
    return nil
}
