package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/iliyamo/table-reservation/internal/model"
)

// CatalogRepo reads locations, restaurants and menus.  These rows are
// maintained by onboarding (see database.Seed) and are read-only here.
type CatalogRepo struct {
    db *sql.DB
}

func NewCatalogRepo(db *sql.DB) *CatalogRepo { return &CatalogRepo{db: db} }

// ListLocations returns all cities ordered by name.
func (r *CatalogRepo) ListLocations(ctx context.Context) ([]model.Location, error) {
    rows, err := r.db.QueryContext(ctx, "SELECT id, city_name FROM locations ORDER BY city_name")
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Location, 0)
    for rows.Next() {
        var l model.Location
        if err := rows.Scan(&l.ID, &l.CityName); err != nil {
            return nil, err
        }
        out = append(out, l)
    }
    return out, rows.Err()
}

// GetLocation returns a single location by id.
func (r *CatalogRepo) GetLocation(ctx context.Context, id uint64) (model.Location, error) {
    var l model.Location
    err := r.db.QueryRowContext(ctx, "SELECT id, city_name FROM locations WHERE id = ?", id).Scan(&l.ID, &l.CityName)
    if errors.Is(err, sql.ErrNoRows) {
        return l, ErrLocationNotFound
    }
    return l, err
}

// GetRestaurant returns a single restaurant by id.
func (r *CatalogRepo) GetRestaurant(ctx context.Context, id uint64) (model.Restaurant, error) {
    return getRestaurant(ctx, r.db, id)
}

func getRestaurant(ctx context.Context, q queryer, id uint64) (model.Restaurant, error) {
    var rs model.Restaurant
    err := q.QueryRowContext(ctx,
        "SELECT id, location_id, name, cuisine_type, is_veg_only, description FROM restaurants WHERE id = ?", id,
    ).Scan(&rs.ID, &rs.LocationID, &rs.Name, &rs.Cuisine, &rs.VegOnly, &rs.Description)
    if errors.Is(err, sql.ErrNoRows) {
        return rs, ErrRestaurantNotFound
    }
    return rs, err
}

// ListRestaurantsByLocation returns the restaurants of a city ordered by
// name together with their rating.  AverageRating stays nil for
// restaurants without reviews.
func (r *CatalogRepo) ListRestaurantsByLocation(ctx context.Context, locationID uint64) ([]model.RestaurantSummary, error) {
    const q = `SELECT r.id, r.location_id, r.name, r.cuisine_type, r.is_veg_only, r.description,
                      AVG(rv.overall_rating), COUNT(rv.id)
               FROM restaurants r
               LEFT JOIN reviews rv ON rv.restaurant_id = r.id
               WHERE r.location_id = ?
               GROUP BY r.id, r.location_id, r.name, r.cuisine_type, r.is_veg_only, r.description
               ORDER BY r.name`
    rows, err := r.db.QueryContext(ctx, q, locationID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.RestaurantSummary, 0)
    for rows.Next() {
        var s model.RestaurantSummary
        var avg sql.NullFloat64
        if err := rows.Scan(&s.ID, &s.LocationID, &s.Name, &s.Cuisine, &s.VegOnly, &s.Description,
            &avg, &s.ReviewCount); err != nil {
            return nil, err
        }
        if avg.Valid {
            v := avg.Float64
            s.AverageRating = &v
        }
        out = append(out, s)
    }
    return out, rows.Err()
}

// ListMenu returns menu items ordered by category then name.  With
// vegOnly set, non-vegetarian items are filtered out.
func (r *CatalogRepo) ListMenu(ctx context.Context, restaurantID uint64, vegOnly bool) ([]model.MenuItem, error) {
    q := "SELECT id, restaurant_id, item_name, description, price, category, is_veg FROM menu_items WHERE restaurant_id = ?"
    if vegOnly {
        q += " AND is_veg = TRUE"
    }
    q += " ORDER BY category, item_name"
    rows, err := r.db.QueryContext(ctx, q, restaurantID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.MenuItem, 0)
    for rows.Next() {
        var m model.MenuItem
        if err := rows.Scan(&m.ID, &m.RestaurantID, &m.Name, &m.Description, &m.Price, &m.Category, &m.Veg); err != nil {
            return nil, err
        }
        out = append(out, m)
    }
    return out, rows.Err()
}

// RestaurantSnapshot reads the restaurant, its available tables, its
// offers and its rating from one read-only repeatable-read transaction so
// the parts agree with each other.
func (r *CatalogRepo) RestaurantSnapshot(ctx context.Context, restaurantID uint64) (model.RestaurantSnapshot, error) {
    var snap model.RestaurantSnapshot
    tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
    if err != nil {
        return snap, err
    }
    defer func() { _ = tx.Rollback() }()

    if snap.Restaurant, err = getRestaurant(ctx, tx, restaurantID); err != nil {
        return snap, err
    }
    if snap.Tables, err = listAvailableTables(ctx, tx, restaurantID); err != nil {
        return snap, err
    }
    if snap.Offers, err = listOffers(ctx, tx, restaurantID); err != nil {
        return snap, err
    }
    if snap.Rating, err = ratingAggregate(ctx, tx, restaurantID); err != nil {
        return snap, err
    }
    return snap, tx.Commit()
}
