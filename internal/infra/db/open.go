// Package db opens the application database and manages its schema. Both
// PostgreSQL (via the pgx stdlib driver) and SQLite (for local
// development) are supported; the driver is chosen by environment.
package db

import (
	"context"
	"database/sql"
	"log"
	"log/slog"
	"os"
	"strconv"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

// ConnectionConfig holds database connection pool configuration.
type ConnectionConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DefaultConnectionConfig returns the default connection pool configuration.
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		MaxOpenConns:    25,
		MaxIdleConns:    10,
		ConnMaxLifetime: 1 * time.Hour,
		ConnMaxIdleTime: 30 * time.Minute,
	}
}

// Driver returns the configured SQL driver name: "pgx" (default) or
// "sqlite3" when DB_DRIVER=sqlite3.
func Driver() string {
	if os.Getenv("DB_DRIVER") == "sqlite3" {
		return "sqlite3"
	}
	return "pgx"
}

// Open creates and configures a database connection pool. For pgx the DSN
// comes from DATABASE_URL; for sqlite3 the file path comes from DB_PATH
// (default clinic-reviews.db). Exits the process when the database is
// unreachable, matching the startup-or-die behavior of the binaries.
func Open() *sql.DB {
	driver := Driver()

	var dsn string
	switch driver {
	case "sqlite3":
		dsn = os.Getenv("DB_PATH")
		if dsn == "" {
			dsn = "clinic-reviews.db"
		}
		// Foreign keys are off by default in SQLite.
		dsn += "?_foreign_keys=on"
	default:
		dsn = os.Getenv("DATABASE_URL")
		if dsn == "" {
			log.Fatal("DATABASE_URL not set")
		}
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		log.Fatal(err)
	}

	cfg := getConnectionConfigFromEnv()
	if driver == "sqlite3" {
		// SQLite serializes writers; a large pool only causes lock
		// contention.
		cfg.MaxOpenConns = 1
		cfg.MaxIdleConns = 1
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	slog.Info("database connection pool configured",
		slog.String("driver", driver),
		slog.Int("max_open_conns", cfg.MaxOpenConns),
		slog.Int("max_idle_conns", cfg.MaxIdleConns),
		slog.Duration("conn_max_lifetime", cfg.ConnMaxLifetime),
		slog.Duration("conn_max_idle_time", cfg.ConnMaxIdleTime))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("failed to ping database: %v", err)
	}

	slog.Info("database connection established successfully")
	return db
}

// getConnectionConfigFromEnv reads connection pool configuration from
// environment variables. Unset, unparsable, or non-positive values keep
// the defaults.
func getConnectionConfigFromEnv() ConnectionConfig {
	cfg := DefaultConnectionConfig()
	poolInt("DB_MAX_OPEN_CONNS", &cfg.MaxOpenConns)
	poolInt("DB_MAX_IDLE_CONNS", &cfg.MaxIdleConns)
	poolDuration("DB_CONN_MAX_LIFETIME", &cfg.ConnMaxLifetime)
	poolDuration("DB_CONN_MAX_IDLE_TIME", &cfg.ConnMaxIdleTime)
	return cfg
}

func poolInt(key string, dst *int) {
	if val, err := strconv.Atoi(os.Getenv(key)); err == nil && val > 0 {
		*dst = val
	}
}

func poolDuration(key string, dst *time.Duration) {
	if val, err := time.ParseDuration(os.Getenv(key)); err == nil && val > 0 {
		*dst = val
	}
}
