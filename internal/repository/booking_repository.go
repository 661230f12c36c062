package repository

import (
    "context"
    "database/sql"
    "errors"
    "time"

    "github.com/iliyamo/table-reservation/internal/model"
)

// BookingRepo owns the bookings table and the state column of
// restaurant_tables.  Every transition that touches both runs inside one
// transaction so the table state and the booking status never disagree.
type BookingRepo struct {
    db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// ReserveTable moves the table from AVAILABLE to RESERVED and inserts a
// confirmed booking for it in a single transaction.  The state change is
// a conditional UPDATE; InnoDB serialises concurrent attempts on the row
// so only one of them sees a matched row.  On success b.ID, b.Status and
// the timestamps are filled in.
func (r *BookingRepo) ReserveTable(ctx context.Context, b *model.Booking) error {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    res, err := tx.ExecContext(ctx,
        `UPDATE restaurant_tables SET status = 'RESERVED'
         WHERE id = ? AND restaurant_id = ? AND status = 'AVAILABLE' AND deleted_at IS NULL`,
        b.TableID, b.RestaurantID)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return explainReserveMiss(ctx, tx, b)
    }

    res, err = tx.ExecContext(ctx,
        `INSERT INTO bookings (user_id, restaurant_id, table_id, booking_date, booking_time, party_size, status)
         VALUES (?, ?, ?, ?, ?, ?, 'confirmed')`,
        b.UserID, b.RestaurantID, b.TableID, b.Date, b.Time, b.PartySize)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true

    now := time.Now().UTC()
    b.ID = uint64(id)
    b.Status = model.BookingConfirmed
    b.CreatedAt, b.UpdatedAt = now, now
    return nil
}

// explainReserveMiss tells a missing table apart from a taken one after
// the conditional update matched nothing.
func explainReserveMiss(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
    var restaurantID uint64
    var deleted bool
    err := tx.QueryRowContext(ctx,
        "SELECT restaurant_id, deleted_at IS NOT NULL FROM restaurant_tables WHERE id = ?", b.TableID,
    ).Scan(&restaurantID, &deleted)
    if errors.Is(err, sql.ErrNoRows) {
        return ErrTableNotFound
    }
    if err != nil {
        return err
    }
    if deleted || restaurantID != b.RestaurantID {
        return ErrTableNotFound
    }
    return ErrTableUnavailable
}

const bookingColumns = `b.id, b.user_id, b.restaurant_id, b.table_id,
    DATE_FORMAT(b.booking_date, '%Y-%m-%d'), TIME_FORMAT(b.booking_time, '%H:%i'),
    b.party_size, b.status, b.created_at, b.updated_at`

// GetBooking returns a single booking by id.
func (r *BookingRepo) GetBooking(ctx context.Context, id uint64) (model.Booking, error) {
    var b model.Booking
    err := r.db.QueryRowContext(ctx,
        "SELECT "+bookingColumns+" FROM bookings b WHERE b.id = ?", id,
    ).Scan(&b.ID, &b.UserID, &b.RestaurantID, &b.TableID, &b.Date, &b.Time,
        &b.PartySize, &b.Status, &b.CreatedAt, &b.UpdatedAt)
    if errors.Is(err, sql.ErrNoRows) {
        return b, ErrBookingNotFound
    }
    return b, err
}

// FinalizeBooking moves a confirmed booking to status (cancelled or
// completed) and returns its table to AVAILABLE.  The booking row is
// locked for the duration of the transaction so two finalizations of the
// same booking can not both succeed.
func (r *BookingRepo) FinalizeBooking(ctx context.Context, id uint64, status model.BookingStatus) error {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    var tableID uint64
    var current model.BookingStatus
    err = tx.QueryRowContext(ctx,
        "SELECT table_id, status FROM bookings WHERE id = ? FOR UPDATE", id,
    ).Scan(&tableID, &current)
    if errors.Is(err, sql.ErrNoRows) {
        return ErrBookingNotFound
    }
    if err != nil {
        return err
    }
    if current != model.BookingConfirmed {
        return ErrBookingFinalized
    }
    if _, err := tx.ExecContext(ctx,
        "UPDATE bookings SET status = ? WHERE id = ?", status, id); err != nil {
        return err
    }
    if _, err := tx.ExecContext(ctx,
        "UPDATE restaurant_tables SET status = 'AVAILABLE' WHERE id = ?", tableID); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// ListDueBookings returns the ids of confirmed bookings dated strictly
// before the given YYYY-MM-DD day.
func (r *BookingRepo) ListDueBookings(ctx context.Context, before string) ([]uint64, error) {
    rows, err := r.db.QueryContext(ctx,
        "SELECT id FROM bookings WHERE status = 'confirmed' AND booking_date < ? ORDER BY id", before)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var ids []uint64
    for rows.Next() {
        var id uint64
        if err := rows.Scan(&id); err != nil {
            return nil, err
        }
        ids = append(ids, id)
    }
    return ids, rows.Err()
}

const bookingViewQuery = `SELECT ` + bookingColumns + `, u.name, t.table_number, rs.name
    FROM bookings b
    JOIN users u ON u.id = b.user_id
    JOIN restaurant_tables t ON t.id = b.table_id
    JOIN restaurants rs ON rs.id = b.restaurant_id`

// ListBookingsByRestaurant returns every booking of a restaurant, newest
// visit first.
func (r *BookingRepo) ListBookingsByRestaurant(ctx context.Context, restaurantID uint64) ([]model.BookingView, error) {
    return r.listViews(ctx,
        bookingViewQuery+" WHERE b.restaurant_id = ? ORDER BY b.booking_date DESC, b.booking_time DESC, b.id DESC",
        restaurantID)
}

// ListBookingsByUser returns the bookings a customer made, newest visit
// first.
func (r *BookingRepo) ListBookingsByUser(ctx context.Context, userID uint64) ([]model.BookingView, error) {
    return r.listViews(ctx,
        bookingViewQuery+" WHERE b.user_id = ? ORDER BY b.booking_date DESC, b.booking_time DESC, b.id DESC",
        userID)
}

func (r *BookingRepo) listViews(ctx context.Context, q string, arg uint64) ([]model.BookingView, error) {
    rows, err := r.db.QueryContext(ctx, q, arg)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.BookingView, 0)
    for rows.Next() {
        var v model.BookingView
        if err := rows.Scan(&v.ID, &v.UserID, &v.RestaurantID, &v.TableID, &v.Date, &v.Time,
            &v.PartySize, &v.Status, &v.CreatedAt, &v.UpdatedAt,
            &v.UserName, &v.TableLabel, &v.RestaurantName); err != nil {
            return nil, err
        }
        out = append(out, v)
    }
    return out, rows.Err()
}
