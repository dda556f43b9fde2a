package postgres_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"
	"github.com/jackc/pgx/v5/pgconn"

	"clinic-reviews/internal/domain/entity"
	pg "clinic-reviews/internal/infra/adapter/persistence/postgres"
	"clinic-reviews/internal/pkg/taglist"
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

func addPostRow(rows *sqlmock.Rows, p *entity.BlogPost) *sqlmock.Rows {
	var hospitalID any
	if p.HospitalID != nil {
		hospitalID = *p.HospitalID
	}
	return rows.AddRow(
		p.ID, p.CanonicalURL, p.Title, p.Content, p.Summary, p.ImageURL,
		p.PublishedAt, p.Author, p.ClinicNameHint, p.ClinicAddressHint, p.Notes,
		hospitalID, p.IsMatched, p.IsVerified,
		taglist.Encode(p.Categories), taglist.Encode(p.Tags),
		p.CreatedAt, p.UpdatedAt,
	)
}

func samplePost(now time.Time) *entity.BlogPost {
	return &entity.BlogPost{
		ID:             "post-1",
		CanonicalURL:   "https://blog.naver.com/reviewer1/223456789012",
		Title:          "허리 통증 침 치료 후기",
		Content:        "침구 치료를 받고 허리가 많이 좋아졌어요",
		Summary:        "침구 치료를 받고",
		Author:         "reviewer1",
		ClinicNameHint: "자생한의원",
		PublishedAt:    now,
		IsVerified:     true,
		Categories:     []string{"침구"},
		Tags:           []string{"허리통증"},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

/* ─────────────────────────── 1. Create ─────────────────────────── */

func TestBlogPostRepo_Create(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	post := samplePost(now)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO blog_posts")).
		WithArgs(post.ID, post.CanonicalURL, post.Title, post.Content,
			post.Summary, post.ImageURL, post.PublishedAt, post.Author,
			post.ClinicNameHint, post.ClinicAddressHint, post.Notes,
			nil, post.IsMatched, post.IsVerified,
			"침구", "허리통증", post.CreatedAt, post.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := pg.NewBlogPostRepo(db)
	if err := repo.Create(context.Background(), post); err != nil {
		t.Fatalf("Create err=%v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestBlogPostRepo_Create_UniqueViolation(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO blog_posts")).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "blog_posts_canonical_url_key"})

	repo := pg.NewBlogPostRepo(db)
	err := repo.Create(context.Background(), samplePost(time.Now()))
	if !errors.Is(err, entity.ErrConflict) {
		t.Fatalf("want ErrConflict, got %v", err)
	}
}

/* ─────────────────────────── 2. Get ─────────────────────────── */

func TestBlogPostRepo_Get(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	want := samplePost(now)
	hospitalID := int64(7)
	want.HospitalID = &hospitalID
	want.IsMatched = true

	mock.ExpectQuery("FROM blog_posts").
		WithArgs("post-1").
		WillReturnRows(addPostRow(sqlmock.NewRows(postCols), want))

	repo := pg.NewBlogPostRepo(db)
	got, err := repo.Get(context.Background(), "post-1")
	if err != nil {
		t.Fatalf("Get err=%v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestBlogPostRepo_Get_NotFound(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("FROM blog_posts").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(postCols))

	repo := pg.NewBlogPostRepo(db)
	got, err := repo.Get(context.Background(), "missing")
	if err != nil || got != nil {
		t.Fatalf("want (nil, nil), got (%v, %v)", got, err)
	}
}

/* ─────────────────────────── 3. GetVerified ─────────────────────────── */

func TestBlogPostRepo_GetVerified(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	post := samplePost(now)
	hospitalID := int64(7)
	post.HospitalID = &hospitalID
	post.IsMatched = true

	rows := sqlmock.NewRows(joinedCols).AddRow(
		post.ID, post.CanonicalURL, post.Title, post.Content, post.Summary, post.ImageURL,
		post.PublishedAt, post.Author, post.ClinicNameHint, post.ClinicAddressHint, post.Notes,
		hospitalID, post.IsMatched, post.IsVerified, "침구", "허리통증",
		post.CreatedAt, post.UpdatedAt,
		hospitalID, "자생한의원 청라점", "인천 서구", "인천", "서구", "032-123-4567", "https://jaseng.co.kr",
	)
	mock.ExpectQuery("LEFT JOIN hospitals").
		WithArgs("post-1").
		WillReturnRows(rows)

	repo := pg.NewBlogPostRepo(db)
	got, err := repo.GetVerified(context.Background(), "post-1")
	if err != nil {
		t.Fatalf("GetVerified err=%v", err)
	}
	want := &repository.PostWithClinic{
		Post: post,
		Clinic: &entity.Clinic{
			ID: 7, Name: "자생한의원 청라점", Address: "인천 서구",
			Province: "인천", District: "서구",
			Phone: "032-123-4567", Website: "https://jaseng.co.kr",
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestBlogPostRepo_GetVerified_UnmatchedClinicIsNil(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	post := samplePost(now)

	rows := sqlmock.NewRows(joinedCols).AddRow(
		post.ID, post.CanonicalURL, post.Title, post.Content, post.Summary, post.ImageURL,
		post.PublishedAt, post.Author, post.ClinicNameHint, post.ClinicAddressHint, post.Notes,
		nil, false, true, "침구", "허리통증", post.CreatedAt, post.UpdatedAt,
		nil, nil, nil, nil, nil, nil, nil,
	)
	mock.ExpectQuery("LEFT JOIN hospitals").
		WithArgs("post-1").
		WillReturnRows(rows)

	repo := pg.NewBlogPostRepo(db)
	got, err := repo.GetVerified(context.Background(), "post-1")
	if err != nil {
		t.Fatalf("GetVerified err=%v", err)
	}
	if got.Clinic != nil {
		t.Fatalf("want nil clinic for unmatched post, got %+v", got.Clinic)
	}
}

func TestBlogPostRepo_GetVerified_NotFound(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("LEFT JOIN hospitals").
		WithArgs("unverified").
		WillReturnRows(sqlmock.NewRows(joinedCols))

	repo := pg.NewBlogPostRepo(db)
	got, err := repo.GetVerified(context.Background(), "unverified")
	if err != nil || got != nil {
		t.Fatalf("want (nil, nil), got (%v, %v)", got, err)
	}
}

/* ─────────────────────────── 4. ExistsByCanonicalURL ─────────────────────────── */

func TestBlogPostRepo_ExistsByCanonicalURL(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs("https://blog.naver.com/reviewer1/223456789012").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	repo := pg.NewBlogPostRepo(db)
	exists, err := repo.ExistsByCanonicalURL(context.Background(), "https://blog.naver.com/reviewer1/223456789012")
	if err != nil || !exists {
		t.Fatalf("want exists=true, got exists=%v err=%v", exists, err)
	}
}

/* ─────────────────────────── 5. ListVerified / CountVerified ─────────────────────────── */

func TestBlogPostRepo_ListVerified_NoFilters(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	post := samplePost(now)

	rows := sqlmock.NewRows(joinedCols).AddRow(
		post.ID, post.CanonicalURL, post.Title, post.Content, post.Summary, post.ImageURL,
		post.PublishedAt, post.Author, post.ClinicNameHint, post.ClinicAddressHint, post.Notes,
		nil, false, true, "침구", "허리통증", post.CreatedAt, post.UpdatedAt,
		nil, nil, nil, nil, nil, nil, nil,
	)
	mock.ExpectQuery("is_verified = TRUE").
		WithArgs(20, 0).
		WillReturnRows(rows)

	repo := pg.NewBlogPostRepo(db)
	got, err := repo.ListVerified(context.Background(), repository.PostFilters{}, 0, 20)
	if err != nil || len(got) != 1 {
		t.Fatalf("ListVerified err=%v len=%d", err, len(got))
	}
}

func TestBlogPostRepo_ListVerified_WithFilters(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("is_verified = TRUE").
		WithArgs("%자생%", "%침구%", 10, 20).
		WillReturnRows(sqlmock.NewRows(joinedCols))

	repo := pg.NewBlogPostRepo(db)
	filters := repository.PostFilters{ClinicName: "자생", Category: "침구"}
	got, err := repo.ListVerified(context.Background(), filters, 20, 10)
	if err != nil || len(got) != 0 {
		t.Fatalf("ListVerified err=%v len=%d", err, len(got))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestBlogPostRepo_CountVerified(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WithArgs("%허리%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	repo := pg.NewBlogPostRepo(db)
	total, err := repo.CountVerified(context.Background(), repository.PostFilters{Search: "허리"})
	if err != nil || total != 42 {
		t.Fatalf("CountVerified total=%d err=%v", total, err)
	}
}

/* ─────────────────────────── 6. ListUnmatched / CountUnmatched ─────────────────────────── */

func TestBlogPostRepo_ListUnmatched(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	post := samplePost(now)
	post.IsVerified = false

	mock.ExpectQuery("is_matched = FALSE").
		WithArgs(20, 0).
		WillReturnRows(addPostRow(sqlmock.NewRows(postCols), post))

	repo := pg.NewBlogPostRepo(db)
	got, err := repo.ListUnmatched(context.Background(), 0, 20)
	if err != nil || len(got) != 1 {
		t.Fatalf("ListUnmatched err=%v len=%d", err, len(got))
	}
	if got[0].HospitalID != nil {
		t.Fatalf("unmatched post must have nil HospitalID")
	}
}

func TestBlogPostRepo_CountUnmatched(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	repo := pg.NewBlogPostRepo(db)
	total, err := repo.CountUnmatched(context.Background())
	if err != nil || total != 3 {
		t.Fatalf("CountUnmatched total=%d err=%v", total, err)
	}
}

/* ─────────────────────────── 7. SetHospital / SetVerified ─────────────────────────── */

func TestBlogPostRepo_SetHospital(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE blog_posts")).
		WithArgs(int64(7), "post-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := pg.NewBlogPostRepo(db)
	if err := repo.SetHospital(context.Background(), "post-1", 7); err != nil {
		t.Fatalf("SetHospital err=%v", err)
	}
}

func TestBlogPostRepo_SetHospital_NotFound(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE blog_posts")).
		WithArgs(int64(7), "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := pg.NewBlogPostRepo(db)
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

	repo := pg.NewBlogPostRepo(db)
	if err := repo.SetVerified(context.Background(), "post-1", true); err != nil {
		t.Fatalf("SetVerified err=%v", err)
	}
}

func TestBlogPostRepo_SetVerified_NotFound(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE blog_posts")).
		WithArgs(false, "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := pg.NewBlogPostRepo(db)
	err := repo.SetVerified(context.Background(), "missing", false)
	if !errors.Is(err, entity.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
