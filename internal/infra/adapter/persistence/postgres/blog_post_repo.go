package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"clinic-reviews/internal/domain/entity"
	"clinic-reviews/internal/infra/db"
	"clinic-reviews/internal/pkg/taglist"
	"clinic-reviews/internal/repository"
)

// postColumns is the canonical SELECT list for blog_posts, aliased as p.
// Scan order in scanPost must match.
const postColumns = `p.id, p.canonical_url, p.title, p.content, p.summary, p.image_url,
       p.published_at, p.author, p.clinic_name_hint, p.clinic_address_hint, p.notes,
       p.hospital_id, p.is_matched, p.is_verified, p.categories, p.tags,
       p.created_at, p.updated_at`

// clinicColumns is the SELECT list for the joined hospitals row, aliased as h.
// Every column is scanned as nullable because the join is a LEFT JOIN.
const clinicColumns = `h.id, h.name, h.address, h.province, h.district, h.phone, h.website`

const uniqueViolationCode = "23505"

// BlogPostRepo implements the BlogPostRepository interface using PostgreSQL.
type BlogPostRepo struct {
	db           db.Querier
	queryBuilder *PostQueryBuilder
}

// NewBlogPostRepo creates a new PostgreSQL-backed blog post repository.
func NewBlogPostRepo(db db.Querier) repository.BlogPostRepository {
	return &BlogPostRepo{
		db:           db,
		queryBuilder: NewPostQueryBuilder(),
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanPost scans one blog_posts row in postColumns order.
func scanPost(scanner rowScanner) (*entity.BlogPost, error) {
	var post entity.BlogPost
	var hospitalID sql.NullInt64
	var categories, tags string
	err := scanner.Scan(&post.ID, &post.CanonicalURL, &post.Title, &post.Content,
		&post.Summary, &post.ImageURL, &post.PublishedAt, &post.Author,
		&post.ClinicNameHint, &post.ClinicAddressHint, &post.Notes,
		&hospitalID, &post.IsMatched, &post.IsVerified, &categories, &tags,
		&post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if hospitalID.Valid {
		post.HospitalID = &hospitalID.Int64
	}
	post.Categories = taglist.Decode(categories)
	post.Tags = taglist.Decode(tags)
	return &post, nil
}

// nullClinic holds the LEFT-JOINed hospitals columns in clinicColumns order.
type nullClinic struct {
	id                 sql.NullInt64
	name, address      sql.NullString
	province, district sql.NullString
	phone, website     sql.NullString
}

func (c *nullClinic) dest() []any {
	return []any{&c.id, &c.name, &c.address, &c.province, &c.district, &c.phone, &c.website}
}

func (c *nullClinic) toEntity() *entity.Clinic {
	if !c.id.Valid {
		return nil
	}
	return &entity.Clinic{
		ID:       c.id.Int64,
		Name:     c.name.String,
		Address:  c.address.String,
		Province: c.province.String,
		District: c.district.String,
		Phone:    c.phone.String,
		Website:  c.website.String,
	}
}

// Create inserts a new post. A canonical_url uniqueness violation is mapped
// to entity.ErrConflict so the caller can treat it as idempotent success.
func (repo *BlogPostRepo) Create(ctx context.Context, post *entity.BlogPost) error {
	const query = `
INSERT INTO blog_posts
       (id, canonical_url, title, content, summary, image_url, published_at, author,
        clinic_name_hint, clinic_address_hint, notes, hospital_id, is_matched,
        is_verified, categories, tags, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := repo.db.ExecContext(ctx, query,
		post.ID, post.CanonicalURL, post.Title, post.Content,
		post.Summary, post.ImageURL, post.PublishedAt, post.Author,
		post.ClinicNameHint, post.ClinicAddressHint, post.Notes,
		post.HospitalID, post.IsMatched, post.IsVerified,
		taglist.Encode(post.Categories), taglist.Encode(post.Tags),
		post.CreatedAt, post.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return fmt.Errorf("Create: %w", entity.ErrConflict)
		}
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

// Get retrieves a post by ID regardless of verification state.
func (repo *BlogPostRepo) Get(ctx context.Context, id string) (*entity.BlogPost, error) {
	query := `
SELECT ` + postColumns + `
FROM blog_posts p
WHERE p.id = $1
LIMIT 1`
	post, err := scanPost(repo.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return post, nil
}

// GetVerified retrieves a verified post together with its matched clinic.
// Absent and unverified posts are both reported as (nil, nil).
func (repo *BlogPostRepo) GetVerified(ctx context.Context, id string) (*repository.PostWithClinic, error) {
	query := `
SELECT ` + postColumns + `, ` + clinicColumns + `
FROM blog_posts p
LEFT JOIN hospitals h ON p.hospital_id = h.id
WHERE p.id = $1 AND p.is_verified = TRUE
LIMIT 1`
	row := repo.db.QueryRowContext(ctx, query, id)

	var post entity.BlogPost
	var hospitalID sql.NullInt64
	var categories, tags string
	var clinic nullClinic
	dest := []any{&post.ID, &post.CanonicalURL, &post.Title, &post.Content,
		&post.Summary, &post.ImageURL, &post.PublishedAt, &post.Author,
		&post.ClinicNameHint, &post.ClinicAddressHint, &post.Notes,
		&hospitalID, &post.IsMatched, &post.IsVerified, &categories, &tags,
		&post.CreatedAt, &post.UpdatedAt}
	dest = append(dest, clinic.dest()...)

	err := row.Scan(dest...)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetVerified: %w", err)
	}
	if hospitalID.Valid {
		post.HospitalID = &hospitalID.Int64
	}
	post.Categories = taglist.Decode(categories)
	post.Tags = taglist.Decode(tags)
	return &repository.PostWithClinic{Post: &post, Clinic: clinic.toEntity()}, nil
}

// ExistsByCanonicalURL reports whether a post with the canonical URL exists.
func (repo *BlogPostRepo) ExistsByCanonicalURL(ctx context.Context, canonicalURL string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM blog_posts WHERE canonical_url = $1)`
	var existsFlag bool
	err := repo.db.QueryRowContext(ctx, query, canonicalURL).Scan(&existsFlag)
	if err != nil {
		return false, fmt.Errorf("ExistsByCanonicalURL: %w", err)
	}
	return existsFlag, nil
}

// ListVerified retrieves a page of verified posts with their clinics,
// newest first.
func (repo *BlogPostRepo) ListVerified(ctx context.Context, filters repository.PostFilters, offset, limit int) ([]repository.PostWithClinic, error) {
	conditions, args := repo.queryBuilder.BuildFilterConditions(filters, 1)
	whereClause := "WHERE p.is_verified = TRUE"
	if len(conditions) > 0 {
		whereClause += " AND " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
SELECT `+postColumns+`, `+clinicColumns+`
FROM blog_posts p
LEFT JOIN hospitals h ON p.hospital_id = h.id
%s
ORDER BY p.published_at DESC
LIMIT $%d OFFSET $%d`, whereClause, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ListVerified: QueryContext: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := make([]repository.PostWithClinic, 0, limit)
	for rows.Next() {
		var post entity.BlogPost
		var hospitalID sql.NullInt64
		var categories, tags string
		var clinic nullClinic
		dest := []any{&post.ID, &post.CanonicalURL, &post.Title, &post.Content,
			&post.Summary, &post.ImageURL, &post.PublishedAt, &post.Author,
			&post.ClinicNameHint, &post.ClinicAddressHint, &post.Notes,
			&hospitalID, &post.IsMatched, &post.IsVerified, &categories, &tags,
			&post.CreatedAt, &post.UpdatedAt}
		dest = append(dest, clinic.dest()...)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("ListVerified: Scan: %w", err)
		}
		if hospitalID.Valid {
			post.HospitalID = &hospitalID.Int64
		}
		post.Categories = taglist.Decode(categories)
		post.Tags = taglist.Decode(tags)
		result = append(result, repository.PostWithClinic{Post: &post, Clinic: clinic.toEntity()})
	}
	return result, rows.Err()
}

// CountVerified returns the number of verified posts matching the filters.
func (repo *BlogPostRepo) CountVerified(ctx context.Context, filters repository.PostFilters) (int64, error) {
	conditions, args := repo.queryBuilder.BuildFilterConditions(filters, 1)
	whereClause := "WHERE p.is_verified = TRUE"
	if len(conditions) > 0 {
		whereClause += " AND " + strings.Join(conditions, " AND ")
	}

	query := `
SELECT COUNT(*)
FROM blog_posts p
LEFT JOIN hospitals h ON p.hospital_id = h.id
` + whereClause
	var total int64
	if err := repo.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("CountVerified: %w", err)
	}
	return total, nil
}

// ListUnmatched retrieves posts without a clinic link, oldest ingested first.
func (repo *BlogPostRepo) ListUnmatched(ctx context.Context, offset, limit int) ([]*entity.BlogPost, error) {
	query := `
SELECT ` + postColumns + `
FROM blog_posts p
WHERE p.is_matched = FALSE
ORDER BY p.created_at ASC
LIMIT $1 OFFSET $2`
	rows, err := repo.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("ListUnmatched: QueryContext: %w", err)
	}
	defer func() { _ = rows.Close() }()

	posts := make([]*entity.BlogPost, 0, limit)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("ListUnmatched: Scan: %w", err)
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

// CountUnmatched returns the number of posts without a clinic link.
func (repo *BlogPostRepo) CountUnmatched(ctx context.Context) (int64, error) {
	const query = `SELECT COUNT(*) FROM blog_posts WHERE is_matched = FALSE`
	var total int64
	if err := repo.db.QueryRowContext(ctx, query).Scan(&total); err != nil {
		return 0, fmt.Errorf("CountUnmatched: %w", err)
	}
	return total, nil
}

// SetHospital force-sets the clinic link and keeps the matched flag in sync.
func (repo *BlogPostRepo) SetHospital(ctx context.Context, id string, hospitalID int64) error {
	const query = `
UPDATE blog_posts SET
       hospital_id = $1,
       is_matched  = TRUE,
       updated_at  = now()
WHERE id = $2`
	res, err := repo.db.ExecContext(ctx, query, hospitalID, id)
	if err != nil {
		return fmt.Errorf("SetHospital: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("SetHospital: %w", entity.ErrNotFound)
	}
	return nil
}

// SetVerified updates the moderation gate. Idempotent.
func (repo *BlogPostRepo) SetVerified(ctx context.Context, id string, verified bool) error {
	const query = `
UPDATE blog_posts SET
       is_verified = $1,
       updated_at  = now()
WHERE id = $2`
	res, err := repo.db.ExecContext(ctx, query, verified, id)
	if err != nil {
		return fmt.Errorf("SetVerified: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("SetVerified: %w", entity.ErrNotFound)
	}
	return nil
}

// ListCanonicalURLs returns every stored canonical URL, for the re-crawl
// job to derive the set of known blogs from.
func (repo *BlogPostRepo) ListCanonicalURLs(ctx context.Context) ([]string, error) {
	const query = `SELECT canonical_url FROM blog_posts ORDER BY canonical_url`
	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ListCanonicalURLs: QueryContext: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var urls []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("ListCanonicalURLs: Scan: %w", err)
		}
		urls = append(urls, u)
	}
	return urls, rows.Err()
}
