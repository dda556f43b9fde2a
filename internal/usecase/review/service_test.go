package review_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"clinic-reviews/internal/common/pagination"
	"clinic-reviews/internal/domain/entity"
	"clinic-reviews/internal/repository"
	"clinic-reviews/internal/usecase/match"
	"clinic-reviews/internal/usecase/review"
)

/* ───────── stub implementations ───────── */

// Minimal in-memory BlogPostRepository.
type stubPostRepo struct {
	data  map[string]*entity.BlogPost
	order []string // insertion order, for deterministic listings
	err   error    // forces all methods to fail when set

	conflictOnCreate bool // simulates losing the unique-constraint race
}

func newPostStub() *stubPostRepo {
	return &stubPostRepo{data: map[string]*entity.BlogPost{}}
}

func (s *stubPostRepo) Create(_ context.Context, p *entity.BlogPost) error {
	if s.err != nil {
		return s.err
	}
	if s.conflictOnCreate {
		return entity.ErrConflict
	}
	for _, existing := range s.data {
		if existing.CanonicalURL == p.CanonicalURL {
			return entity.ErrConflict
		}
	}
	s.data[p.ID] = p
	s.order = append(s.order, p.ID)
	return nil
}

func (s *stubPostRepo) Get(_ context.Context, id string) (*entity.BlogPost, error) {
	return s.data[id], s.err
}

func (s *stubPostRepo) GetVerified(_ context.Context, id string) (*repository.PostWithClinic, error) {
	if s.err != nil {
		return nil, s.err
	}
	p := s.data[id]
	if p == nil || !p.IsVerified {
		return nil, nil
	}
	return &repository.PostWithClinic{Post: p}, nil
}

func (s *stubPostRepo) ExistsByCanonicalURL(_ context.Context, url string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	for _, p := range s.data {
		if p.CanonicalURL == url {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubPostRepo) ListVerified(_ context.Context, _ repository.PostFilters, offset, limit int) ([]repository.PostWithClinic, error) {
	if s.err != nil {
		return nil, s.err
	}
	var all []repository.PostWithClinic
	for _, id := range s.order {
		if p := s.data[id]; p != nil && p.IsVerified {
			all = append(all, repository.PostWithClinic{Post: p})
		}
	}
	return page(all, offset, limit), nil
}

func (s *stubPostRepo) CountVerified(_ context.Context, _ repository.PostFilters) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	var n int64
	for _, p := range s.data {
		if p.IsVerified {
			n++
		}
	}
	return n, nil
}

func (s *stubPostRepo) ListUnmatched(_ context.Context, offset, limit int) ([]*entity.BlogPost, error) {
	if s.err != nil {
		return nil, s.err
	}
	var all []*entity.BlogPost
	for _, id := range s.order {
		if p := s.data[id]; p != nil && !p.IsMatched {
			all = append(all, p)
		}
	}
	return page(all, offset, limit), nil
}

func (s *stubPostRepo) CountUnmatched(_ context.Context) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	var n int64
	for _, p := range s.data {
		if !p.IsMatched {
			n++
		}
	}
	return n, nil
}

func (s *stubPostRepo) SetHospital(_ context.Context, id string, hospitalID int64) error {
	if s.err != nil {
		return s.err
	}
	p := s.data[id]
	if p == nil {
		return entity.ErrNotFound
	}
	p.SetHospital(hospitalID)
	return nil
}

func (s *stubPostRepo) SetVerified(_ context.Context, id string, verified bool) error {
	if s.err != nil {
		return s.err
	}
	p := s.data[id]
	if p == nil {
		return entity.ErrNotFound
	}
	p.IsVerified = verified
	return nil
}

func (s *stubPostRepo) ListCanonicalURLs(_ context.Context) ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	urls := make([]string, 0, len(s.data))
	for _, p := range s.data {
		urls = append(urls, p.CanonicalURL)
	}
	return urls, nil
}

func page[T any](all []T, offset, limit int) []T {
	if offset >= len(all) {
		return []T{}
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end]
}

// Minimal in-memory ClinicRepository.
type stubClinicRepo struct {
	clinics map[int64]*entity.Clinic
	err     error
}

func newClinicStub(clinics ...*entity.Clinic) *stubClinicRepo {
	s := &stubClinicRepo{clinics: map[int64]*entity.Clinic{}}
	for _, c := range clinics {
		s.clinics[c.ID] = c
	}
	return s
}

func (s *stubClinicRepo) Get(_ context.Context, id int64) (*entity.Clinic, error) {
	return s.clinics[id], s.err
}

func (s *stubClinicRepo) List(_ context.Context) ([]*entity.Clinic, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []*entity.Clinic
	for _, c := range s.clinics {
		out = append(out, c)
	}
	return out, nil
}

func (s *stubClinicRepo) Search(_ context.Context, keyword string, limit int) ([]*entity.Clinic, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []*entity.Clinic
	for _, c := range s.clinics {
		if strings.Contains(c.Name, keyword) && len(out) < limit {
			out = append(out, c)
		}
	}
	return out, nil
}

// stubFetcher returns a fixed snapshot, or fails when err is set.
type stubFetcher struct {
	snapshot *review.ContentSnapshot
	err      error
	calls    int
}

func (s *stubFetcher) FetchPost(_ context.Context, _ string) (*review.ContentSnapshot, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.snapshot, nil
}

// stubNotifier records unmatched-post notifications.
type stubNotifier struct {
	postIDs []string
}

func (s *stubNotifier) NotifyUnmatched(_ context.Context, postID, _, _ string) {
	s.postIDs = append(s.postIDs, postID)
}

func testSnapshot() *review.ContentSnapshot {
	return &review.ContentSnapshot{
		Title:       "청라 자생한의원 침 치료 후기",
		Content:     "어깨 통증으로 침구 치료를 받았습니다. 많이 좋아졌어요. #한의원후기 #청라",
		PublishedAt: time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC),
		Author:      "reviewer1",
	}
}

func newService(posts *stubPostRepo, clinics *stubClinicRepo, fetcher *stubFetcher, notifier *stubNotifier) *review.Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &review.Service{
		Posts:    posts,
		Clinics:  clinics,
		Fetcher:  fetcher,
		Resolver: match.NewResolver(clinics, logger),
		Notifier: notifier,
		Logger:   logger,
	}
}

/* ───────── 1. ingestion happy path ───────── */

func TestService_IngestSingle_matchedClinic(t *testing.T) {
	posts := newPostStub()
	clinics := newClinicStub(&entity.Clinic{ID: 7, Name: "자생한의원", Address: "인천 서구 청라동 123"})
	fetcher := &stubFetcher{snapshot: testSnapshot()}
	notifier := &stubNotifier{}
	svc := newService(posts, clinics, fetcher, notifier)

	row := review.IngestRow{
		URL:        "https://m.blog.naver.com/reviewer1/223456789012?fromView=search",
		ClinicName: "자생한의원 청라점",
	}
	if err := svc.IngestSingle(context.Background(), row); err != nil {
		t.Fatalf("ingest: %v", err)
	}

	if len(posts.data) != 1 {
		t.Fatalf("want 1 post, got %d", len(posts.data))
	}
	var got *entity.BlogPost
	for _, p := range posts.data {
		got = p
	}
	if got.CanonicalURL != "https://blog.naver.com/reviewer1/223456789012" {
		t.Errorf("canonical URL = %q", got.CanonicalURL)
	}
	if !got.IsMatched || got.HospitalID == nil || *got.HospitalID != 7 {
		t.Errorf("want match to clinic 7, got matched=%v hospitalID=%v", got.IsMatched, got.HospitalID)
	}
	if got.IsVerified {
		t.Error("new posts must start unverified")
	}
	if got.Summary == "" {
		t.Error("summary should be derived from content")
	}
	if len(got.Tags) == 0 {
		t.Error("hashtags should be extracted as tags")
	}
	if len(notifier.postIDs) != 0 {
		t.Errorf("matched post must not notify, got %v", notifier.postIDs)
	}
}

/* ───────── 2. idempotent re-ingestion ───────── */

func TestService_IngestSingle_duplicateIsNoOp(t *testing.T) {
	posts := newPostStub()
	fetcher := &stubFetcher{snapshot: testSnapshot()}
	svc := newService(posts, newClinicStub(), fetcher, &stubNotifier{})

	row := review.IngestRow{URL: "https://blog.naver.com/reviewer1/223456789012"}
	for i := 0; i < 2; i++ {
		if err := svc.IngestSingle(context.Background(), row); err != nil {
			t.Fatalf("ingest #%d: %v", i+1, err)
		}
	}

	if len(posts.data) != 1 {
		t.Fatalf("want 1 post after double ingestion, got %d", len(posts.data))
	}
	if fetcher.calls != 1 {
		t.Errorf("duplicate must short-circuit before fetching, got %d fetches", fetcher.calls)
	}
}

func TestService_IngestSingle_conflictIsSuccess(t *testing.T) {
	posts := newPostStub()
	posts.conflictOnCreate = true
	svc := newService(posts, newClinicStub(), &stubFetcher{snapshot: testSnapshot()}, &stubNotifier{})

	err := svc.IngestSingle(context.Background(), review.IngestRow{
		URL: "https://blog.naver.com/reviewer1/223456789012",
	})
	if err != nil {
		t.Fatalf("losing the insert race must report success, got %v", err)
	}
}

/* ───────── 3. ingestion validation ───────── */

func TestService_IngestSingle_validation(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"empty URL", ""},
		{"whitespace URL", "   "},
		{"not a blog URL", "https://example.com/post/1"},
		{"blog host without ID", "https://blog.naver.com/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			posts := newPostStub()
			fetcher := &stubFetcher{snapshot: testSnapshot()}
			svc := newService(posts, newClinicStub(), fetcher, &stubNotifier{})

			err := svc.IngestSingle(context.Background(), review.IngestRow{URL: tt.url})

			var vErr *entity.ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("want ValidationError, got %v", err)
			}
			if len(posts.data) != 0 {
				t.Error("rejected rows must persist nothing")
			}
			if fetcher.calls != 0 {
				t.Error("rejected rows must not reach the fetcher")
			}
		})
	}
}

/* ───────── 4. fetch failure ───────── */

func TestService_IngestSingle_fetchFailure(t *testing.T) {
	posts := newPostStub()
	fetcher := &stubFetcher{err: errors.New("connection refused")}
	svc := newService(posts, newClinicStub(), fetcher, &stubNotifier{})

	err := svc.IngestSingle(context.Background(), review.IngestRow{
		URL: "https://blog.naver.com/reviewer1/223456789012",
	})
	if !errors.Is(err, review.ErrFetchFailed) {
		t.Fatalf("want ErrFetchFailed, got %v", err)
	}
	if len(posts.data) != 0 {
		t.Error("failed fetch must persist nothing")
	}
}

/* ───────── 5. unmatched ingestion notifies ───────── */

func TestService_IngestSingle_unmatchedNotifies(t *testing.T) {
	posts := newPostStub()
	clinics := newClinicStub(
		// Two indistinguishable candidates and no address hint: resolver
		// must refuse to guess.
		&entity.Clinic{ID: 1, Name: "자생한의원 강남점", Address: "서울 강남구"},
		&entity.Clinic{ID: 2, Name: "자생한의원 청라점", Address: "인천 서구"},
	)
	notifier := &stubNotifier{}
	svc := newService(posts, clinics, &stubFetcher{snapshot: testSnapshot()}, notifier)

	err := svc.IngestSingle(context.Background(), review.IngestRow{
		URL:        "https://blog.naver.com/reviewer1/223456789012",
		ClinicName: "자생한의원",
	})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}

	var got *entity.BlogPost
	for _, p := range posts.data {
		got = p
	}
	if got.IsMatched || got.HospitalID != nil {
		t.Fatalf("ambiguous hint must stay unmatched, got matched=%v", got.IsMatched)
	}
	if len(notifier.postIDs) != 1 || notifier.postIDs[0] != got.ID {
		t.Errorf("want one notification for %s, got %v", got.ID, notifier.postIDs)
	}
}

/* ───────── 6. batch ingestion ───────── */

func TestService_IngestBatch_countsAndErrors(t *testing.T) {
	posts := newPostStub()
	clinics := newClinicStub(&entity.Clinic{ID: 7, Name: "자생한의원", Address: "인천 서구 청라동 123"})
	svc := newService(posts, clinics, &stubFetcher{snapshot: testSnapshot()}, &stubNotifier{})

	rows := []review.IngestRow{
		{URL: "https://blog.naver.com/a/1", ClinicName: "자생한의원 청라점"},
		{URL: "https://blog.naver.com/b/2"},
		{URL: "https://blog.naver.com/a/1"}, // duplicate of the first row
		{URL: "not a url at all ::"},
	}

	result, err := svc.IngestBatch(context.Background(), rows)
	if err != nil {
		t.Fatalf("batch: %v", err)
	}

	if result.TotalRows != 4 {
		t.Errorf("TotalRows = %d, want 4", result.TotalRows)
	}
	if result.Processed != 3 {
		t.Errorf("Processed = %d, want 3 (two inserts plus one duplicate)", result.Processed)
	}
	if result.Matched != 1 || result.Unmatched != 1 {
		t.Errorf("Matched/Unmatched = %d/%d, want 1/1", result.Matched, result.Unmatched)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("want 1 row error, got %v", result.Errors)
	}
	if len(posts.data) != 2 {
		t.Errorf("want 2 stored posts, got %d", len(posts.data))
	}
}

/* ───────── 7. manual matching ───────── */

func TestService_MatchPost(t *testing.T) {
	posts := newPostStub()
	clinics := newClinicStub(&entity.Clinic{ID: 7, Name: "자생한의원"})
	svc := newService(posts, clinics, &stubFetcher{snapshot: testSnapshot()}, &stubNotifier{})

	if err := svc.IngestSingle(context.Background(), review.IngestRow{
		URL: "https://blog.naver.com/reviewer1/1",
	}); err != nil {
		t.Fatalf("ingest: %v", err)
	}
	var post *entity.BlogPost
	for _, p := range posts.data {
		post = p
	}

	if err := svc.MatchPost(context.Background(), "no-such-post", 7); !errors.Is(err, review.ErrPostNotFound) {
		t.Errorf("missing post: want ErrPostNotFound, got %v", err)
	}
	if err := svc.MatchPost(context.Background(), post.ID, 999); !errors.Is(err, review.ErrClinicNotFound) {
		t.Errorf("missing clinic: want ErrClinicNotFound, got %v", err)
	}
	if post.IsMatched {
		t.Fatal("failed match attempts must leave the post unchanged")
	}

	if err := svc.MatchPost(context.Background(), post.ID, 7); err != nil {
		t.Fatalf("match: %v", err)
	}
	if !post.IsMatched || post.HospitalID == nil || *post.HospitalID != 7 {
		t.Errorf("want post linked to clinic 7, got matched=%v hospitalID=%v", post.IsMatched, post.HospitalID)
	}
}

/* ───────── 8. verification gate ───────── */

func TestService_SetVerified_gatesPublicReads(t *testing.T) {
	posts := newPostStub()
	svc := newService(posts, newClinicStub(), &stubFetcher{snapshot: testSnapshot()}, &stubNotifier{})

	if err := svc.IngestSingle(context.Background(), review.IngestRow{
		URL: "https://blog.naver.com/reviewer1/1",
	}); err != nil {
		t.Fatalf("ingest: %v", err)
	}
	var post *entity.BlogPost
	for _, p := range posts.data {
		post = p
	}

	// Unverified posts are invisible publicly.
	if _, err := svc.GetPost(context.Background(), post.ID); !errors.Is(err, review.ErrPostNotFound) {
		t.Fatalf("unverified post must read as not found, got %v", err)
	}

	if err := svc.SetVerified(context.Background(), post.ID, true); err != nil {
		t.Fatalf("verify: %v", err)
	}
	got, err := svc.GetPost(context.Background(), post.ID)
	if err != nil {
		t.Fatalf("get verified: %v", err)
	}
	if got.Post.ID != post.ID {
		t.Errorf("got post %s, want %s", got.Post.ID, post.ID)
	}

	// Re-verifying is idempotent; unverifying hides it again.
	if err := svc.SetVerified(context.Background(), post.ID, true); err != nil {
		t.Fatalf("re-verify: %v", err)
	}
	if err := svc.SetVerified(context.Background(), post.ID, false); err != nil {
		t.Fatalf("unverify: %v", err)
	}
	if _, err := svc.GetPost(context.Background(), post.ID); !errors.Is(err, review.ErrPostNotFound) {
		t.Errorf("unverified again: want ErrPostNotFound, got %v", err)
	}

	if err := svc.SetVerified(context.Background(), "no-such-post", true); !errors.Is(err, review.ErrPostNotFound) {
		t.Errorf("missing post: want ErrPostNotFound, got %v", err)
	}
}

/* ───────── 9. public listing ───────── */

func TestService_ListPosts_onlyVerified(t *testing.T) {
	posts := newPostStub()
	svc := newService(posts, newClinicStub(), &stubFetcher{snapshot: testSnapshot()}, &stubNotifier{})

	for i, url := range []string{
		"https://blog.naver.com/a/1",
		"https://blog.naver.com/a/2",
		"https://blog.naver.com/a/3",
	} {
		if err := svc.IngestSingle(context.Background(), review.IngestRow{URL: url}); err != nil {
			t.Fatalf("ingest #%d: %v", i+1, err)
		}
	}
	// Verify the first two only.
	for _, id := range posts.order[:2] {
		if err := svc.SetVerified(context.Background(), id, true); err != nil {
			t.Fatalf("verify: %v", err)
		}
	}

	result, err := svc.ListPosts(context.Background(), repository.PostFilters{}, pagination.Params{Page: 1, Limit: 20})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(result.Data) != 2 {
		t.Errorf("want 2 verified posts, got %d", len(result.Data))
	}
	if result.Pagination.Total != 2 || result.Pagination.TotalPages != 1 {
		t.Errorf("pagination = %+v, want total=2 pages=1", result.Pagination)
	}

	// Page size 1 splits the two posts across two pages.
	result, err = svc.ListPosts(context.Background(), repository.PostFilters{}, pagination.Params{Page: 2, Limit: 1})
	if err != nil {
		t.Fatalf("list page 2: %v", err)
	}
	if len(result.Data) != 1 || result.Pagination.TotalPages != 2 {
		t.Errorf("page 2: got %d items, %d pages", len(result.Data), result.Pagination.TotalPages)
	}
}

// An empty store reports zero pages, mirroring ceil(0/limit).
func TestService_ListPosts_emptyStore(t *testing.T) {
	svc := newService(newPostStub(), newClinicStub(), &stubFetcher{snapshot: testSnapshot()}, &stubNotifier{})

	result, err := svc.ListPosts(context.Background(), repository.PostFilters{}, pagination.Params{Page: 1, Limit: 20})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(result.Data) != 0 {
		t.Errorf("want no posts, got %d", len(result.Data))
	}
	if result.Pagination.Total != 0 || result.Pagination.TotalPages != 0 {
		t.Errorf("pagination = %+v, want total=0 pages=0", result.Pagination)
	}
}

/* ───────── 10. moderation queue ───────── */

func TestService_ListUnmatched(t *testing.T) {
	posts := newPostStub()
	clinics := newClinicStub(&entity.Clinic{ID: 7, Name: "자생한의원"})
	svc := newService(posts, clinics, &stubFetcher{snapshot: testSnapshot()}, &stubNotifier{})

	if err := svc.IngestSingle(context.Background(), review.IngestRow{
		URL: "https://blog.naver.com/a/1", ClinicName: "자생한의원",
	}); err != nil {
		t.Fatalf("ingest matched: %v", err)
	}
	if err := svc.IngestSingle(context.Background(), review.IngestRow{
		URL: "https://blog.naver.com/a/2",
	}); err != nil {
		t.Fatalf("ingest unmatched: %v", err)
	}

	result, err := svc.ListUnmatched(context.Background(), pagination.Params{Page: 1, Limit: 20})
	if err != nil {
		t.Fatalf("list unmatched: %v", err)
	}
	if len(result.Data) != 1 {
		t.Fatalf("want 1 unmatched post, got %d", len(result.Data))
	}
	if result.Data[0].IsMatched {
		t.Error("queue must contain only unmatched posts")
	}
	if result.Pagination.Total != 1 {
		t.Errorf("Total = %d, want 1", result.Pagination.Total)
	}
}

/* ───────── 11. ID validation ───────── */

func TestService_EmptyIDs(t *testing.T) {
	svc := newService(newPostStub(), newClinicStub(), &stubFetcher{}, &stubNotifier{})

	if _, err := svc.GetPost(context.Background(), ""); !errors.Is(err, review.ErrInvalidPostID) {
		t.Errorf("GetPost: want ErrInvalidPostID, got %v", err)
	}
	if err := svc.MatchPost(context.Background(), "", 1); !errors.Is(err, review.ErrInvalidPostID) {
		t.Errorf("MatchPost: want ErrInvalidPostID, got %v", err)
	}
	if err := svc.SetVerified(context.Background(), "", true); !errors.Is(err, review.ErrInvalidPostID) {
		t.Errorf("SetVerified: want ErrInvalidPostID, got %v", err)
	}
}
