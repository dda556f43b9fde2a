package repository

import (
	"context"

	"clinic-reviews/internal/domain/entity"
)

// PostWithClinic pairs a blog post with its matched clinic, when one exists.
type PostWithClinic struct {
	Post   *entity.BlogPost
	Clinic *entity.Clinic // nil when the post is unmatched
}

// PostFilters contains the optional filters for public listing queries.
type PostFilters struct {
	ClinicName string // substring match against the clinic name hint
	Category   string // membership in the categories set
	Search     string // case-insensitive substring over title/content/clinic name
}

// BlogPostRepository persists ingested blog posts. The storage layer must
// enforce a uniqueness constraint on canonical_url; Create returns
// entity.ErrConflict when that constraint is violated so that callers can
// treat concurrent duplicate ingestion as idempotent success.
type BlogPostRepository interface {
	// Create inserts a new post. Returns entity.ErrConflict on a
	// canonical URL uniqueness violation.
	Create(ctx context.Context, post *entity.BlogPost) error
	// Get retrieves a post by ID regardless of verification state.
	// Returns (nil, nil) if the post is not found.
	Get(ctx context.Context, id string) (*entity.BlogPost, error)
	// GetVerified retrieves a post by ID only if it is verified.
	// Returns (nil, nil) when the post is absent or unverified; the two
	// cases are indistinguishable to callers.
	GetVerified(ctx context.Context, id string) (*PostWithClinic, error)
	// ExistsByCanonicalURL reports whether a post with the canonical URL exists.
	ExistsByCanonicalURL(ctx context.Context, canonicalURL string) (bool, error)
	// ListVerified retrieves verified posts matching the filters,
	// ordered by published_at DESC, with LIMIT/OFFSET pagination.
	ListVerified(ctx context.Context, filters PostFilters, offset, limit int) ([]PostWithClinic, error)
	// CountVerified returns the number of verified posts matching the filters.
	CountVerified(ctx context.Context, filters PostFilters) (int64, error)
	// ListUnmatched retrieves posts with no clinic link, oldest ingested
	// first so the moderation backlog drains in order, regardless of
	// verification state.
	ListUnmatched(ctx context.Context, offset, limit int) ([]*entity.BlogPost, error)
	// CountUnmatched returns the number of unmatched posts.
	CountUnmatched(ctx context.Context) (int64, error)
	// SetHospital force-sets the clinic link and the matched flag.
	// Returns entity.ErrNotFound when the post does not exist.
	SetHospital(ctx context.Context, id string, hospitalID int64) error
	// SetVerified updates the moderation gate. Idempotent.
	// Returns entity.ErrNotFound when the post does not exist.
	SetVerified(ctx context.Context, id string, verified bool) error
	// ListCanonicalURLs returns the canonical URL of every stored post.
	// Used by the scheduled re-crawl to derive the set of known blogs.
	ListCanonicalURLs(ctx context.Context) ([]string, error)
}
