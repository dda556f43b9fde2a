package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"clinic-reviews/internal/domain/entity"
	"clinic-reviews/internal/infra/db"
	"clinic-reviews/internal/pkg/search"
	"clinic-reviews/internal/repository"
)

// hospitalColumns is the canonical SELECT list for the hospitals table.
// Optional columns are coalesced so rows seeded without them scan cleanly.
const hospitalColumns = `id, name, COALESCE(address, ''), COALESCE(province, ''),
       COALESCE(district, ''), COALESCE(phone, ''), COALESCE(website, '')`

// ClinicRepo implements the read-only ClinicRepository interface using SQLite.
type ClinicRepo struct{ db db.Querier }

// NewClinicRepo creates a new SQLite-backed clinic repository.
func NewClinicRepo(db db.Querier) repository.ClinicRepository {
	return &ClinicRepo{db: db}
}

func scanClinic(scanner rowScanner) (*entity.Clinic, error) {
	var clinic entity.Clinic
	err := scanner.Scan(&clinic.ID, &clinic.Name, &clinic.Address,
		&clinic.Province, &clinic.District, &clinic.Phone, &clinic.Website)
	if err != nil {
		return nil, err
	}
	return &clinic, nil
}

// Get retrieves a clinic by ID. Returns (nil, nil) if not found.
func (repo *ClinicRepo) Get(ctx context.Context, id int64) (*entity.Clinic, error) {
	query := `
SELECT ` + hospitalColumns + `
FROM hospitals
WHERE id = ?
LIMIT 1`
	clinic, err := scanClinic(repo.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return clinic, nil
}

// List retrieves the full clinic directory ordered by ID.
func (repo *ClinicRepo) List(ctx context.Context) ([]*entity.Clinic, error) {
	query := `
SELECT ` + hospitalColumns + `
FROM hospitals
ORDER BY id`
	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("List: QueryContext: %w", err)
	}
	defer func() { _ = rows.Close() }()

	clinics := make([]*entity.Clinic, 0, 100)
	for rows.Next() {
		clinic, err := scanClinic(rows)
		if err != nil {
			return nil, fmt.Errorf("List: Scan: %w", err)
		}
		clinics = append(clinics, clinic)
	}
	return clinics, rows.Err()
}

// Search finds clinics whose name contains the keyword.
func (repo *ClinicRepo) Search(ctx context.Context, keyword string, limit int) ([]*entity.Clinic, error) {
	query := `
SELECT ` + hospitalColumns + `
FROM hospitals
WHERE name LIKE ? ESCAPE '\'
ORDER BY name
LIMIT ?`
	rows, err := repo.db.QueryContext(ctx, query, search.EscapeLike(keyword), limit)
	if err != nil {
		return nil, fmt.Errorf("Search: QueryContext: %w", err)
	}
	defer func() { _ = rows.Close() }()

	clinics := make([]*entity.Clinic, 0, limit)
	for rows.Next() {
		clinic, err := scanClinic(rows)
		if err != nil {
			return nil, fmt.Errorf("Search: Scan: %w", err)
		}
		clinics = append(clinics, clinic)
	}
	return clinics, rows.Err()
}
