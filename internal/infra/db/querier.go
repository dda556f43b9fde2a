package db

import (
	"context"
	"database/sql"
)

// Querier is the subset of *sql.DB the repositories use. Both *sql.DB and
// the database circuit breaker satisfy it, so the binaries can decide
// whether repository queries run behind breaker protection.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
