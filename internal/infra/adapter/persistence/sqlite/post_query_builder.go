// Package sqlite provides SQLite implementations of repository interfaces.
package sqlite

import (
	"clinic-reviews/internal/pkg/search"
	"clinic-reviews/internal/repository"
)

// PostQueryBuilder builds the optional filter conditions for public listing
// queries. The builder is shared between COUNT and SELECT queries to keep the
// two in sync.
type PostQueryBuilder struct{}

// NewPostQueryBuilder creates a new query builder instance.
func NewPostQueryBuilder() *PostQueryBuilder {
	return &PostQueryBuilder{}
}

// BuildFilterConditions builds condition fragments and arguments for the
// given filters. The fragments assume the listing query aliases blog_posts
// as p and hospitals as h.
func (qb *PostQueryBuilder) BuildFilterConditions(filters repository.PostFilters) (conditions []string, args []interface{}) {
	if filters.ClinicName != "" {
		pattern := search.EscapeLike(filters.ClinicName)
		conditions = append(conditions,
			`(p.clinic_name_hint LIKE ? ESCAPE '\' OR h.name LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern)
	}

	// Categories are stored as an encoded list of a fixed vocabulary, so a
	// substring match cannot hit across entry boundaries.
	if filters.Category != "" {
		conditions = append(conditions, `p.categories LIKE ? ESCAPE '\'`)
		args = append(args, search.EscapeLike(filters.Category))
	}

	if filters.Search != "" {
		pattern := search.EscapeLike(filters.Search)
		conditions = append(conditions,
			`(p.title LIKE ? ESCAPE '\' OR p.content LIKE ? ESCAPE '\' OR p.clinic_name_hint LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern, pattern)
	}

	return conditions, args
}
