package repository

import (
    "context"
    "database/sql"
)

// queryer is satisfied by both *sql.DB and *sql.Tx so read helpers can run
// either standalone or inside a snapshot transaction.
type queryer interface {
    QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
    QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
    ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}
