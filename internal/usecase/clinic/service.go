// Package clinic provides read-only access to the clinic directory for the
// admin matching UI. The directory itself is owned by another subsystem.
package clinic

import (
	"context"
	"fmt"
	"strings"

	"clinic-reviews/internal/domain/entity"
	"clinic-reviews/internal/repository"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

// Service serves clinic directory lookups.
type Service struct {
	Clinics repository.ClinicRepository
}

// Search returns clinics whose name contains keyword. An empty keyword
// returns the whole directory; the directory is small enough that the
// matching UI can load it at once.
func (s *Service) Search(ctx context.Context, keyword string, limit int) ([]*entity.Clinic, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		clinics, err := s.Clinics.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("list clinics: %w", err)
		}
		if len(clinics) > limit {
			clinics = clinics[:limit]
		}
		return clinics, nil
	}

	clinics, err := s.Clinics.Search(ctx, keyword, limit)
	if err != nil {
		return nil, fmt.Errorf("search clinics: %w", err)
	}
	return clinics, nil
}
