// Package postgres provides PostgreSQL implementations of repository interfaces.
package postgres

import (
	"fmt"

	"clinic-reviews/internal/pkg/search"
	"clinic-reviews/internal/repository"
)

// PostQueryBuilder builds the optional filter conditions for public listing
// queries. The builder is shared between COUNT and SELECT queries to keep the
// two in sync. PostgreSQL-specific: uses ILIKE and $N placeholders.
type PostQueryBuilder struct{}

// NewPostQueryBuilder creates a new query builder instance.
func NewPostQueryBuilder() *PostQueryBuilder {
	return &PostQueryBuilder{}
}

// BuildFilterConditions builds condition fragments and arguments for the
// given filters. startIndex is the first placeholder number to use, so the
// caller can prepend its own conditions. The fragments assume the listing
// query aliases blog_posts as p and hospitals as h.
func (qb *PostQueryBuilder) BuildFilterConditions(filters repository.PostFilters, startIndex int) (conditions []string, args []interface{}) {
	paramIndex := startIndex

	if filters.ClinicName != "" {
		conditions = append(conditions, fmt.Sprintf(
			`(p.clinic_name_hint ILIKE $%d OR h.name ILIKE $%d)`, paramIndex, paramIndex))
		args = append(args, search.EscapeLike(filters.ClinicName))
		paramIndex++
	}

	// Categories are stored as an encoded list of a fixed vocabulary, so a
	// substring match cannot hit across entry boundaries.
	if filters.Category != "" {
		conditions = append(conditions, fmt.Sprintf(`p.categories ILIKE $%d`, paramIndex))
		args = append(args, search.EscapeLike(filters.Category))
		paramIndex++
	}

	if filters.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			`(p.title ILIKE $%d OR p.content ILIKE $%d OR p.clinic_name_hint ILIKE $%d)`,
			paramIndex, paramIndex, paramIndex))
		args = append(args, search.EscapeLike(filters.Search))
		paramIndex++
	}

	return conditions, args
}
