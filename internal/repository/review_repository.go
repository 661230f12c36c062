package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/iliyamo/table-reservation/internal/model"
)

// ReviewRepo appends to the reviews table.  Reviews are never updated.
type ReviewRepo struct {
    db *sql.DB
}

func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{db: db} }

// CreateReview inserts rv and fills its ID and creation time.
func (r *ReviewRepo) CreateReview(ctx context.Context, rv *model.Review) error {
    res, err := r.db.ExecContext(ctx,
        `INSERT INTO reviews (user_id, restaurant_id, customer_service, food_quality, respect, overall_rating, review_text)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
        rv.UserID, rv.RestaurantID, rv.Service, rv.FoodQuality, rv.Respect, rv.Overall, rv.Text)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    rv.ID = uint64(id)
    rv.CreatedAt = time.Now().UTC()
    return nil
}

// RatingAggregate returns the mean overall rating of a restaurant and the
// number of reviews behind it.  Count is zero when nothing was rated.
func (r *ReviewRepo) RatingAggregate(ctx context.Context, restaurantID uint64) (model.RatingAggregate, error) {
    return ratingAggregate(ctx, r.db, restaurantID)
}

func ratingAggregate(ctx context.Context, q queryer, restaurantID uint64) (model.RatingAggregate, error) {
    var avg sql.NullFloat64
    var agg model.RatingAggregate
    err := q.QueryRowContext(ctx,
        "SELECT AVG(overall_rating), COUNT(*) FROM reviews WHERE restaurant_id = ?", restaurantID,
    ).Scan(&avg, &agg.Count)
    if err != nil {
        return agg, err
    }
    if avg.Valid {
        agg.Average = avg.Float64
    }
    return agg, nil
}
