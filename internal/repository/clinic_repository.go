// Package repository defines persistence interfaces for the domain entities.
// Implementations live under internal/infra/adapter/persistence.
package repository

import (
	"context"

	"clinic-reviews/internal/domain/entity"
)

// ClinicRepository is a read-only view of the clinic directory. The
// directory is owned by another subsystem; this service never mutates it.
type ClinicRepository interface {
	// Get retrieves a clinic by ID. Returns (nil, nil) if not found.
	Get(ctx context.Context, id int64) (*entity.Clinic, error)
	// List retrieves the full directory, for in-process matching.
	List(ctx context.Context) ([]*entity.Clinic, error)
	// Search finds clinics whose name contains the keyword,
	// case-insensitive, ordered by name.
	Search(ctx context.Context, keyword string, limit int) ([]*entity.Clinic, error)
}
