// Package match resolves clinic name/address hints from ingested blog posts
// against the clinic directory. The tie-break policy lives in one place so
// it stays auditable: when more than one clinic matches with equal
// confidence, the resolver reports no match rather than guessing. A wrong
// attribution is worse than an entry in the manual-review queue.
package match

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"clinic-reviews/internal/domain/entity"
	"clinic-reviews/internal/repository"
)

// Resolver links clinic hints to directory entries.
type Resolver struct {
	Clinics repository.ClinicRepository
	Logger  *slog.Logger
}

// NewResolver creates a Resolver over the given directory.
func NewResolver(clinics repository.ClinicRepository, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{Clinics: clinics, Logger: logger}
}

// Resolve finds the clinic a post belongs to. Absence of a match is a
// normal outcome, reported via ok=false; only directory access failures
// return an error.
//
// Strategy: exact normalized-name match first, then containment match
// (hint contained in a directory name or vice versa); both stages
// disambiguate equal candidates by normalized-address containment, and
// residual ties resolve to unmatched.
func (r *Resolver) Resolve(ctx context.Context, nameHint, addressHint string) (int64, bool, error) {
	name := NormalizeName(nameHint)
	if name == "" {
		return 0, false, nil
	}
	address := NormalizeAddress(addressHint)

	clinics, err := r.Clinics.List(ctx)
	if err != nil {
		return 0, false, fmt.Errorf("list clinics: %w", err)
	}

	exact := make([]*entity.Clinic, 0, 1)
	var partial []*entity.Clinic
	for _, clinic := range clinics {
		dbName := NormalizeName(clinic.Name)
		if dbName == "" {
			continue
		}
		switch {
		case dbName == name:
			exact = append(exact, clinic)
		case strings.Contains(dbName, name) || strings.Contains(name, dbName):
			partial = append(partial, clinic)
		}
	}

	if id, ok := pickCandidate(exact, address); ok {
		return id, true, nil
	}
	if len(exact) > 0 {
		// Equal-confidence exact candidates with no address to separate
		// them: refuse to guess.
		r.Logger.Debug("ambiguous exact clinic match, leaving unmatched",
			slog.String("name_hint", nameHint),
			slog.Int("candidates", len(exact)))
		return 0, false, nil
	}

	if id, ok := pickCandidate(partial, address); ok {
		return id, true, nil
	}
	if len(partial) > 1 {
		r.Logger.Debug("ambiguous partial clinic match, leaving unmatched",
			slog.String("name_hint", nameHint),
			slog.Int("candidates", len(partial)))
	}
	return 0, false, nil
}

// pickCandidate selects from equal-confidence candidates. A single
// candidate wins outright when no address hint is given, or when its
// address agrees with the hint. Multiple candidates require the address to
// single one out.
func pickCandidate(candidates []*entity.Clinic, address string) (int64, bool) {
	switch len(candidates) {
	case 0:
		return 0, false
	case 1:
		if address == "" || addressMatches(candidates[0], address) {
			return candidates[0].ID, true
		}
		return 0, false
	}

	if address == "" {
		return 0, false
	}
	var winner *entity.Clinic
	for _, c := range candidates {
		if !addressMatches(c, address) {
			continue
		}
		if winner != nil {
			// More than one candidate survives the address check.
			return 0, false
		}
		winner = c
	}
	if winner == nil {
		return 0, false
	}
	return winner.ID, true
}

// addressMatches reports whether the clinic's normalized address agrees
// with the hint at road-name+number level (equality or containment either
// way).
func addressMatches(clinic *entity.Clinic, address string) bool {
	dbAddress := NormalizeAddress(clinic.Address)
	if dbAddress == "" {
		return false
	}
	return dbAddress == address ||
		strings.Contains(dbAddress, address) ||
		strings.Contains(address, dbAddress)
}
