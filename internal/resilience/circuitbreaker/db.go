package circuitbreaker

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"clinic-reviews/internal/observability/metrics"
)

// DBCircuitBreaker puts the repository queries behind a breaker so a dead or
// slow database fails fast instead of stacking up blocked requests.
type DBCircuitBreaker struct {
	cb *CircuitBreaker
	db *sql.DB
}

// DBConfig trips after five consecutive failures and probes again after
// thirty seconds, letting three test requests through half-open.
func DBConfig() Config {
	cfg := DefaultConfig("database")
	cfg.Interval = time.Minute
	cfg.Timeout = 30 * time.Second
	cfg.FailureThreshold = 1.0
	return cfg
}

// NewDBCircuitBreaker wraps db with the default database breaker settings.
func NewDBCircuitBreaker(db *sql.DB) *DBCircuitBreaker {
	return NewDBCircuitBreakerWithConfig(db, DBConfig())
}

// NewDBCircuitBreakerWithConfig wraps db with custom breaker settings.
func NewDBCircuitBreakerWithConfig(db *sql.DB, cfg Config) *DBCircuitBreaker {
	return &DBCircuitBreaker{cb: New(cfg), db: db}
}

// queryOperation labels the duration metric with the query's leading SQL
// verb ("select", "insert", ...).
func queryOperation(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return "unknown"
	}
	return strings.ToLower(fields[0])
}

// QueryContext runs the query behind the breaker; an open circuit returns
// ErrOpenState without touching the database. Query durations feed the
// db_query_duration_seconds histogram.
func (dcb *DBCircuitBreaker) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery(queryOperation(query), time.Since(start)) }()

	var rows *sql.Rows
	_, err := dcb.cb.Execute(func() (interface{}, error) {
		var err error
		rows, err = dcb.db.QueryContext(ctx, query, args...)
		return nil, err
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ExecContext runs the statement behind the breaker; an open circuit returns
// ErrOpenState without touching the database.
func (dcb *DBCircuitBreaker) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery(queryOperation(query), time.Since(start)) }()

	var res sql.Result
	_, err := dcb.cb.Execute(func() (interface{}, error) {
		var err error
		res, err = dcb.db.ExecContext(ctx, query, args...)
		return nil, err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// QueryRowContext bypasses the breaker: sql.Row defers its error to Scan, so
// there is nothing for the breaker to observe here.
func (dcb *DBCircuitBreaker) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return dcb.db.QueryRowContext(ctx, query, args...)
}

// State reports the breaker's current state.
func (dcb *DBCircuitBreaker) State() gobreaker.State { return dcb.cb.State() }

// IsOpen reports whether the breaker is open.
func (dcb *DBCircuitBreaker) IsOpen() bool { return dcb.cb.IsOpen() }

// DB exposes the raw connection for callers that must skip breaker
// protection, such as the health check's ping.
func (dcb *DBCircuitBreaker) DB() *sql.DB { return dcb.db }
