package sqlite_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	sqlite3 "github.com/mattn/go-sqlite3"

	"clinic-reviews/internal/domain/entity"
	sqliterepo "clinic-reviews/internal/infra/adapter/persistence/sqlite"
	"clinic-reviews/internal/repository"
)

/* ─────────────────────────── helpers ─────────────────────────── */

var postCols = []string{
	"id", "canonical_url", "title", "content", "summary", "image_url",
	"published_at", "author", "clinic_name_hint", "clinic_address_hint", "notes",
	"hospital_id", "is_matched", "is_verified", "categories", "tags",
	"created_at", "updated_at",
}

var joinedCols = append(append([]string{}, postCols...),
	"h_id", "h_name", "h_address", "h_province", "h_district", "h_phone", "h_website")

func samplePost(now time.Time) *entity.BlogPost {
	return &entity.BlogPost{
		ID:           "post-1",
		CanonicalURL: "https://blog.naver.com/reviewer1/223456789012",
		Title:        "허리 통증 침 치료 후기",
		Content:      "침구 치료를 받고 허리가 많이 좋아졌어요",
		Author:       "reviewer1",
		PublishedAt:  now,
		Categories:   []string{"침구"},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

/* ─────────────────────────── 1. Create ─────────────────────────── */

func TestBlogPostRepo_Create(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO blog_posts")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := sqliterepo.NewBlogPostRepo(db)
	if err := repo.Create(context.Background(), samplePost(time.Now())); err != nil {
		t.Fatalf("Create err=%v", err)
	}
}

func TestBlogPostRepo_Create_UniqueViolation(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO blog_posts")).
		WillReturnError(sqlite3.Error{
			Code:         sqlite3.ErrConstraint,
			ExtendedCode: sqlite3.ErrConstraintUnique,
		})

	repo := sqliterepo.NewBlogPostRepo(db)
	err := repo.Create(context.Background(), samplePost(time.Now()))
	if !errors.Is(err, entity.ErrConflict) {
		t.Fatalf("want ErrConflict, got %v", err)
	}
}

/* ─────────────────────────── 2. Reads ─────────────────────────── */

func TestBlogPostRepo_Get_NotFound(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("FROM blog_posts").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(postCols))

	repo := sqliterepo.NewBlogPostRepo(db)
	got, err := repo.Get(context.Background(), "missing")
	if err != nil || got != nil {
		t.Fatalf("want (nil, nil), got (%v, %v)", got, err)
	}
}

func TestBlogPostRepo_ListVerified_WithFilters(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	// ClinicName binds the pattern twice, once per LIKE column.
	mock.ExpectQuery("is_verified = 1").
		WithArgs("%자생%", "%자생%", 10, 0).
		WillReturnRows(sqlmock.NewRows(joinedCols))

	repo := sqliterepo.NewBlogPostRepo(db)
	got, err := repo.ListVerified(context.Background(), repository.PostFilters{ClinicName: "자생"}, 0, 10)
	if err != nil || len(got) != 0 {
		t.Fatalf("ListVerified err=%v len=%d", err, len(got))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestBlogPostRepo_ListUnmatched(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	post := samplePost(now)
	rows := sqlmock.NewRows(postCols).AddRow(
		post.ID, post.CanonicalURL, post.Title, post.Content, post.Summary, post.ImageURL,
		post.PublishedAt, post.Author, post.ClinicNameHint, post.ClinicAddressHint, post.Notes,
		nil, false, false, "침구", "", post.CreatedAt, post.UpdatedAt,
	)
	mock.ExpectQuery("is_matched = 0").
		WithArgs(20, 0).
		WillReturnRows(rows)

	repo := sqliterepo.NewBlogPostRepo(db)
	got, err := repo.ListUnmatched(context.Background(), 0, 20)
	if err != nil || len(got) != 1 {
		t.Fatalf("ListUnmatched err=%v len=%d", err, len(got))
	}
}

/* ─────────────────────────── 3. Updates ─────────────────────────── */

func TestBlogPostRepo_SetHospital_NotFound(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE blog_posts")).
		WithArgs(int64(7), "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := sqliterepo.NewBlogPostRepo(db)
	err := repo.SetHospital(context.Background(), "missing", 7)
	if !errors.Is(err, entity.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestBlogPostRepo_SetVerified(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE blog_posts")).
		WithArgs(true, "post-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := sqliterepo.NewBlogPostRepo(db)
	if err := repo.SetVerified(context.Background(), "post-1", true); err != nil {
		t.Fatalf("SetVerified err=%v", err)
	}
}
