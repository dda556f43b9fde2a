package db

import (
	"database/sql"
	_ "embed"
	"fmt"
	"strings"
)

//go:embed seeds/hospitals.sql
var seedHospitalsSQL string

// MigrateUp creates the schema for the given driver ("pgx" or "sqlite3")
// and loads the development seed data. Every statement is idempotent so
// the binaries can run it unconditionally at startup.
func MigrateUp(db *sql.DB, driver string) error {
	switch driver {
	case "sqlite3":
		return migrateSQLite(db)
	case "pgx":
		return migratePostgres(db)
	default:
		return fmt.Errorf("unsupported driver: %s", driver)
	}
}

func migratePostgres(db *sql.DB) error {
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS hospitals (
    id       SERIAL PRIMARY KEY,
    name     TEXT NOT NULL,
    address  TEXT,
    province TEXT,
    district TEXT,
    phone    TEXT,
    website  TEXT
)`); err != nil {
		return err
	}

	// canonical_url UNIQUE is the dedup backstop: the pre-insert
	// existence check races, the constraint does not.
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS blog_posts (
    id                  TEXT PRIMARY KEY,
    canonical_url       TEXT NOT NULL UNIQUE,
    title               TEXT NOT NULL,
    content             TEXT,
    summary             TEXT,
    image_url           TEXT,
    published_at        TIMESTAMPTZ,
    author              TEXT,
    clinic_name_hint    TEXT,
    clinic_address_hint TEXT,
    notes               TEXT,
    hospital_id         INTEGER REFERENCES hospitals(id),
    is_matched          BOOLEAN NOT NULL DEFAULT FALSE,
    is_verified         BOOLEAN NOT NULL DEFAULT FALSE,
    categories          TEXT,
    tags                TEXT,
    created_at          TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at          TIMESTAMPTZ NOT NULL DEFAULT now()
)`); err != nil {
		return err
	}

	indexes := []string{
		// Public listing sorts by publication date
		`CREATE INDEX IF NOT EXISTS idx_blog_posts_published_at ON blog_posts(published_at DESC)`,
		// Per-clinic lookups
		`CREATE INDEX IF NOT EXISTS idx_blog_posts_hospital_id ON blog_posts(hospital_id)`,
		// Public queries filter on verification
		`CREATE INDEX IF NOT EXISTS idx_blog_posts_verified ON blog_posts(is_verified) WHERE is_verified = TRUE`,
		// Moderation queue
		`CREATE INDEX IF NOT EXISTS idx_blog_posts_unmatched ON blog_posts(is_matched) WHERE is_matched = FALSE`,
		// Clinic directory search
		`CREATE INDEX IF NOT EXISTS idx_hospitals_name ON hospitals(name)`,
	}
	for _, idx := range indexes {
		if _, err := db.Exec(idx); err != nil {
			return err
		}
	}

	// pg_trgm speeds up the ILIKE search paths. Ignore errors: the
	// extension may already exist or the role may lack privileges.
	_, _ = db.Exec(`CREATE EXTENSION IF NOT EXISTS pg_trgm`)
	searchIndexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_blog_posts_title_gin ON blog_posts USING gin(title gin_trgm_ops)`,
		`CREATE INDEX IF NOT EXISTS idx_blog_posts_content_gin ON blog_posts USING gin(content gin_trgm_ops)`,
		`CREATE INDEX IF NOT EXISTS idx_hospitals_name_gin ON hospitals USING gin(name gin_trgm_ops)`,
	}
	for _, idx := range searchIndexes {
		// Fails without pg_trgm; the queries still work, just slower.
		_, _ = db.Exec(idx)
	}

	if _, err := db.Exec(seedHospitalsSQL); err != nil {
		return err
	}

	return nil
}

func migrateSQLite(db *sql.DB) error {
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS hospitals (
    id       INTEGER PRIMARY KEY AUTOINCREMENT,
    name     TEXT NOT NULL,
    address  TEXT,
    province TEXT,
    district TEXT,
    phone    TEXT,
    website  TEXT
)`); err != nil {
		return err
	}

	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS blog_posts (
    id                  TEXT PRIMARY KEY,
    canonical_url       TEXT NOT NULL UNIQUE,
    title               TEXT NOT NULL,
    content             TEXT,
    summary             TEXT,
    image_url           TEXT,
    published_at        TIMESTAMP,
    author              TEXT,
    clinic_name_hint    TEXT,
    clinic_address_hint TEXT,
    notes               TEXT,
    hospital_id         INTEGER REFERENCES hospitals(id),
    is_matched          BOOLEAN NOT NULL DEFAULT 0,
    is_verified         BOOLEAN NOT NULL DEFAULT 0,
    categories          TEXT,
    tags                TEXT,
    created_at          TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at          TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`); err != nil {
		return err
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_blog_posts_published_at ON blog_posts(published_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_blog_posts_hospital_id ON blog_posts(hospital_id)`,
		`CREATE INDEX IF NOT EXISTS idx_blog_posts_verified ON blog_posts(is_verified)`,
		`CREATE INDEX IF NOT EXISTS idx_blog_posts_unmatched ON blog_posts(is_matched)`,
		`CREATE INDEX IF NOT EXISTS idx_hospitals_name ON hospitals(name)`,
	}
	for _, idx := range indexes {
		if _, err := db.Exec(idx); err != nil {
			return err
		}
	}

	if _, err := db.Exec(sqliteSeed(seedHospitalsSQL)); err != nil {
		return err
	}

	return nil
}

// sqliteSeed rewrites the Postgres seed statement into SQLite dialect:
// INSERT OR IGNORE instead of ON CONFLICT DO NOTHING.
func sqliteSeed(seed string) string {
	seed = strings.Replace(seed, "INSERT INTO", "INSERT OR IGNORE INTO", 1)
	return strings.Replace(seed, "ON CONFLICT DO NOTHING", "", 1)
}
