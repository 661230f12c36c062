package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/iliyamo/table-reservation/internal/model"
)

// TableRepo provides access to the restaurant_tables table.  A table is
// never physically deleted; removal sets deleted_at so past bookings keep
// their reference.
type TableRepo struct {
    db *sql.DB
}

// NewTableRepo returns a new TableRepo bound to the given database.
func NewTableRepo(db *sql.DB) *TableRepo { return &TableRepo{db: db} }

const tableColumns = "id, restaurant_id, table_number, capacity, status, created_at"

// GetTable returns the table with the given id.  Soft deleted tables are
// reported as ErrTableNotFound.
func (r *TableRepo) GetTable(ctx context.Context, tableID uint64) (model.Table, error) {
    return getTable(ctx, r.db, tableID)
}

func getTable(ctx context.Context, q queryer, tableID uint64) (model.Table, error) {
    var t model.Table
    err := q.QueryRowContext(ctx,
        "SELECT "+tableColumns+" FROM restaurant_tables WHERE id = ? AND deleted_at IS NULL", tableID,
    ).Scan(&t.ID, &t.RestaurantID, &t.Label, &t.Capacity, &t.State, &t.CreatedAt)
    if errors.Is(err, sql.ErrNoRows) {
        return t, ErrTableNotFound
    }
    return t, err
}

// ListAvailableTables returns the in-service AVAILABLE tables of a
// restaurant ordered by id.
func (r *TableRepo) ListAvailableTables(ctx context.Context, restaurantID uint64) ([]model.Table, error) {
    return listAvailableTables(ctx, r.db, restaurantID)
}

func listAvailableTables(ctx context.Context, q queryer, restaurantID uint64) ([]model.Table, error) {
    rows, err := q.QueryContext(ctx,
        "SELECT "+tableColumns+" FROM restaurant_tables WHERE restaurant_id = ? AND status = 'AVAILABLE' AND deleted_at IS NULL ORDER BY id",
        restaurantID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    tables := make([]model.Table, 0)
    for rows.Next() {
        var t model.Table
        if err := rows.Scan(&t.ID, &t.RestaurantID, &t.Label, &t.Capacity, &t.State, &t.CreatedAt); err != nil {
            return nil, err
        }
        tables = append(tables, t)
    }
    return tables, rows.Err()
}

// CreateTable inserts a new AVAILABLE table and fills its generated ID.
func (r *TableRepo) CreateTable(ctx context.Context, t *model.Table) error {
    res, err := r.db.ExecContext(ctx,
        "INSERT INTO restaurant_tables (restaurant_id, table_number, capacity, status) VALUES (?, ?, ?, 'AVAILABLE')",
        t.RestaurantID, t.Label, t.Capacity)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    t.ID = uint64(id)
    t.State = model.TableAvailable
    return nil
}

// SoftDeleteTable takes an AVAILABLE table of the restaurant out of
// service.  A reserved table yields ErrConflict; a missing one, or one
// owned by another restaurant, yields ErrTableNotFound.
func (r *TableRepo) SoftDeleteTable(ctx context.Context, restaurantID, tableID uint64) error {
    res, err := r.db.ExecContext(ctx,
        "UPDATE restaurant_tables SET deleted_at = UTC_TIMESTAMP() WHERE id = ? AND restaurant_id = ? AND status = 'AVAILABLE' AND deleted_at IS NULL",
        tableID, restaurantID)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 1 {
        return nil
    }
    t, err := r.GetTable(ctx, tableID)
    if err != nil {
        return err
    }
    if t.RestaurantID != restaurantID {
        return ErrTableNotFound
    }
    return ErrConflict
}
