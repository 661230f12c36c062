package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/table-reservation/internal/model"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func q(s string) string { return regexp.QuoteMeta(s) }

func newBooking() *model.Booking {
	return &model.Booking{UserID: 7, RestaurantID: 1, TableID: 3, Date: "2026-10-20", Time: "19:30", PartySize: 2}
}

func TestReserveTable_Success(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(q("UPDATE restaurant_tables SET status = 'RESERVED'")).
		WithArgs(uint64(3), uint64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q("INSERT INTO bookings")).
		WithArgs(uint64(7), uint64(1), uint64(3), "2026-10-20", "19:30", uint32(2)).
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectCommit()

	b := newBooking()
	require.NoError(t, NewBookingRepo(db).ReserveTable(context.Background(), b))
	assert.Equal(t, uint64(42), b.ID)
	assert.Equal(t, model.BookingConfirmed, b.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReserveTable_Miss(t *testing.T) {
	cases := []struct {
		name   string
		rows   *sqlmock.Rows
		noRows bool
		want   error
	}{
		{name: "taken", rows: sqlmock.NewRows([]string{"restaurant_id", "deleted"}).AddRow(1, false), want: ErrTableUnavailable},
		{name: "deleted", rows: sqlmock.NewRows([]string{"restaurant_id", "deleted"}).AddRow(1, true), want: ErrTableNotFound},
		{name: "other restaurant", rows: sqlmock.NewRows([]string{"restaurant_id", "deleted"}).AddRow(2, false), want: ErrTableNotFound},
		{name: "missing", noRows: true, want: ErrTableNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db, mock := newMock(t)
			mock.ExpectBegin()
			mock.ExpectExec(q("UPDATE restaurant_tables SET status = 'RESERVED'")).
				WillReturnResult(sqlmock.NewResult(0, 0))
			exp := mock.ExpectQuery(q("SELECT restaurant_id, deleted_at IS NOT NULL FROM restaurant_tables")).
				WithArgs(uint64(3))
			if tc.noRows {
				exp.WillReturnError(sql.ErrNoRows)
			} else {
				exp.WillReturnRows(tc.rows)
			}
			mock.ExpectRollback()

			err := NewBookingRepo(db).ReserveTable(context.Background(), newBooking())
			assert.ErrorIs(t, err, tc.want)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestReserveTable_InsertFailureRollsBack(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec(q("UPDATE restaurant_tables")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q("INSERT INTO bookings")).WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := NewBookingRepo(db).ReserveTable(context.Background(), newBooking())
	assert.EqualError(t, err, "disk full")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFinalizeBooking(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery(q("SELECT table_id, status FROM bookings WHERE id = ? FOR UPDATE")).
		WithArgs(uint64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"table_id", "status"}).AddRow(3, "confirmed"))
	mock.ExpectExec(q("UPDATE bookings SET status = ? WHERE id = ?")).
		WithArgs(model.BookingCancelled, uint64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q("UPDATE restaurant_tables SET status = 'AVAILABLE' WHERE id = ?")).
		WithArgs(uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, NewBookingRepo(db).FinalizeBooking(context.Background(), 9, model.BookingCancelled))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFinalizeBooking_AlreadyFinal(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery(q("FOR UPDATE")).
		WillReturnRows(sqlmock.NewRows([]string{"table_id", "status"}).AddRow(3, "completed"))
	mock.ExpectRollback()

	err := NewBookingRepo(db).FinalizeBooking(context.Background(), 9, model.BookingCancelled)
	assert.ErrorIs(t, err, ErrBookingFinalized)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFinalizeBooking_Missing(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery(q("FOR UPDATE")).WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	err := NewBookingRepo(db).FinalizeBooking(context.Background(), 9, model.BookingCompleted)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestGetBooking(t *testing.T) {
	db, mock := newMock(t)
	now := time.Now()
	mock.ExpectQuery(q("FROM bookings b WHERE b.id = ?")).
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "restaurant_id", "table_id", "date", "time", "party_size", "status", "created_at", "updated_at"}).
			AddRow(5, 7, 1, 3, "2026-10-20", "19:30", 2, "confirmed", now, now))

	b, err := NewBookingRepo(db).GetBooking(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "2026-10-20", b.Date)
	assert.Equal(t, "19:30", b.Time)
	assert.Equal(t, uint32(2), b.PartySize)
	assert.Equal(t, model.BookingConfirmed, b.Status)

	mock.ExpectQuery(q("FROM bookings b WHERE b.id = ?")).WillReturnError(sql.ErrNoRows)
	_, err = NewBookingRepo(db).GetBooking(context.Background(), 6)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestListDueBookings(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(q("SELECT id FROM bookings WHERE status = 'confirmed' AND booking_date < ?")).
		WithArgs("2026-10-15").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(4))

	ids, err := NewBookingRepo(db).ListDueBookings(context.Background(), "2026-10-15")
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 4}, ids)
}

func TestSoftDeleteTable(t *testing.T) {
	cols := []string{"id", "restaurant_id", "table_number", "capacity", "status", "created_at"}

	t.Run("deleted", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectExec(q("UPDATE restaurant_tables SET deleted_at")).
			WithArgs(uint64(3), uint64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		assert.NoError(t, NewTableRepo(db).SoftDeleteTable(context.Background(), 1, 3))
	})
	t.Run("reserved", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectExec(q("UPDATE restaurant_tables SET deleted_at")).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(q("FROM restaurant_tables WHERE id = ?")).
			WillReturnRows(sqlmock.NewRows(cols).AddRow(3, 1, "T3", 4, "RESERVED", time.Now()))
		assert.ErrorIs(t, NewTableRepo(db).SoftDeleteTable(context.Background(), 1, 3), ErrConflict)
	})
	t.Run("foreign", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectExec(q("UPDATE restaurant_tables SET deleted_at")).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(q("FROM restaurant_tables WHERE id = ?")).
			WillReturnRows(sqlmock.NewRows(cols).AddRow(3, 2, "T3", 4, "AVAILABLE", time.Now()))
		assert.ErrorIs(t, NewTableRepo(db).SoftDeleteTable(context.Background(), 1, 3), ErrTableNotFound)
	})
}

func TestRatingAggregate(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(q("SELECT AVG(overall_rating), COUNT(*) FROM reviews")).
		WithArgs(uint64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"avg", "count"}).AddRow(nil, 0))
	agg, err := NewReviewRepo(db).RatingAggregate(context.Background(), 1)
	require.NoError(t, err)
	assert.Zero(t, agg.Count)

	mock.ExpectQuery(q("SELECT AVG(overall_rating), COUNT(*) FROM reviews")).
		WillReturnRows(sqlmock.NewRows([]string{"avg", "count"}).AddRow(3.0, 2))
	agg, err = NewReviewRepo(db).RatingAggregate(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 2, agg.Count)
	assert.InDelta(t, 3.0, agg.Average, 1e-9)
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(q("INSERT INTO users")).
		WithArgs("Asha", "asha@example.com", "hash", model.RoleCustomer, sqlmock.AnyArg()).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

	err := NewUserRepo(db).CreateUser(context.Background(), &model.User{
		Name: "Asha", Email: " Asha@Example.com", PasswordHash: "hash", Role: model.RoleCustomer,
	})
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestSetOfferActive_Unchanged(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(q("UPDATE offers SET is_active = ? WHERE id = ?")).
		WithArgs(true, uint64(8)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(q("FROM offers WHERE id = ?")).WillReturnError(sql.ErrNoRows)

	err := NewOfferRepo(db).SetOfferActive(context.Background(), 8, true)
	assert.ErrorIs(t, err, ErrOfferNotFound)
}
