package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"clinic-reviews/internal/domain/entity"
	"clinic-reviews/internal/observability/metrics"
	"clinic-reviews/internal/pkg/blogurl"
	"clinic-reviews/internal/pkg/taglist"
	"clinic-reviews/internal/utils/text"
)

// summaryLength is the rune bound applied when the feed provides no summary.
const summaryLength = 300

// IngestRow is one normalized ingestion record, from a CSV row or a direct
// admin submission. URL is the only required field; the hints are passed
// through verbatim apart from edge-whitespace trimming.
type IngestRow struct {
	URL           string
	ClinicName    string
	ClinicAddress string
	Category      string
	Notes         string
}

// IngestResult summarizes one batch ingestion. It is returned to the caller
// and never persisted.
type IngestResult struct {
	TotalRows int
	Processed int
	Matched   int
	Unmatched int
	Errors    []string
}

// IngestSingle ingests one row end to end. Re-ingesting a URL that already
// exists is a no-op success. Returns a *entity.ValidationError for a
// missing or unrecognizable URL and an error wrapping ErrFetchFailed when
// the content source fails.
func (s *Service) IngestSingle(ctx context.Context, row IngestRow) error {
	_, err := s.ingestOne(ctx, row)
	return err
}

// IngestBatch ingests rows one at a time, accumulating per-row failures
// instead of aborting: one bad row must not poison the import.
func (s *Service) IngestBatch(ctx context.Context, rows []IngestRow) (*IngestResult, error) {
	result := &IngestResult{TotalRows: len(rows)}

	for _, row := range rows {
		post, err := s.ingestOne(ctx, row)
		if err != nil {
			// Context cancellation aborts the batch; everything else is
			// recorded and the import continues.
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return result, err
			}
			result.Errors = append(result.Errors, fmt.Sprintf("URL: %s - %v", row.URL, err))
			continue
		}
		result.Processed++
		if post == nil {
			continue // duplicate, already ingested
		}
		if post.IsMatched {
			result.Matched++
		} else {
			result.Unmatched++
		}
	}

	s.logger().Info("batch ingestion completed",
		slog.Int("total_rows", result.TotalRows),
		slog.Int("processed", result.Processed),
		slog.Int("matched", result.Matched),
		slog.Int("unmatched", result.Unmatched),
		slog.Int("errors", len(result.Errors)))

	return result, nil
}

// ingestOne runs the pipeline for a single row. Returns (nil, nil) when the
// post already existed (idempotent re-ingestion) and the created post
// otherwise.
func (s *Service) ingestOne(ctx context.Context, row IngestRow) (*entity.BlogPost, error) {
	rawURL := strings.TrimSpace(row.URL)
	if err := entity.ValidateURL(rawURL); err != nil {
		return nil, err
	}

	canonical, ok := blogurl.Canonicalize(rawURL)
	if !ok {
		return nil, &entity.ValidationError{Field: "url", Message: "not a recognized Naver blog URL"}
	}

	// Dedup gate: the pre-check catches the common case cheaply; the
	// unique constraint on canonical_url closes the check-then-act race
	// at insert time below.
	exists, err := s.Posts.ExistsByCanonicalURL(ctx, canonical)
	if err != nil {
		return nil, fmt.Errorf("check existing post: %w", err)
	}
	if exists {
		s.logger().Info("post already ingested", slog.String("canonical_url", canonical))
		metrics.RecordIngestion("duplicate")
		return nil, nil
	}

	// Fetch before any write so a slow source never holds storage state.
	snapshot, err := s.Fetcher.FetchPost(ctx, canonical)
	if err != nil {
		metrics.RecordIngestion("fetch_error")
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	post := s.buildPost(canonical, row, snapshot)

	if name := strings.TrimSpace(row.ClinicName); name != "" {
		clinicID, matched, err := s.Resolver.Resolve(ctx, name, strings.TrimSpace(row.ClinicAddress))
		if err != nil {
			// Directory trouble degrades to the manual-review queue
			// rather than failing the row.
			s.logger().Warn("clinic matching unavailable, leaving post unmatched",
				slog.String("canonical_url", canonical),
				slog.Any("error", err))
		} else if matched {
			post.SetHospital(clinicID)
		}
	}

	if err := s.Posts.Create(ctx, post); err != nil {
		if errors.Is(err, entity.ErrConflict) {
			// Lost the race against a concurrent identical ingestion;
			// the post exists, which is what the caller asked for.
			s.logger().Info("post created concurrently", slog.String("canonical_url", canonical))
			metrics.RecordIngestion("duplicate")
			return nil, nil
		}
		return nil, fmt.Errorf("create post: %w", err)
	}

	if post.IsMatched {
		metrics.RecordIngestion("matched")
	} else {
		metrics.RecordIngestion("unmatched")
		if s.Notifier != nil {
			s.Notifier.NotifyUnmatched(context.WithoutCancel(ctx), post.ID, post.Title, post.ClinicNameHint)
		}
	}

	s.logger().Info("post ingested",
		slog.String("post_id", post.ID),
		slog.String("canonical_url", canonical),
		slog.Bool("matched", post.IsMatched))

	return post, nil
}

// buildPost assembles the persisted entity from the row and the fetched
// snapshot, deriving summary, categories, and tags where the source left
// them empty.
func (s *Service) buildPost(canonical string, row IngestRow, snapshot *ContentSnapshot) *entity.BlogPost {
	summary := snapshot.Summary
	if summary == "" {
		summary = text.Truncate(snapshot.Content, summaryLength)
	}

	categories := []string{strings.TrimSpace(row.Category)}
	if categories[0] == "" {
		categories = text.ExtractCategories(snapshot.Content, snapshot.Title)
	}

	tags := taglist.Dedupe(append(text.ExtractTags(snapshot.Content), snapshot.Tags...))

	author := snapshot.Author
	if author == "" {
		author = "Unknown"
	}

	publishedAt := snapshot.PublishedAt
	if publishedAt.IsZero() {
		publishedAt = s.now()
	}

	now := s.now()
	return &entity.BlogPost{
		ID:                uuid.NewString(),
		CanonicalURL:      canonical,
		Title:             snapshot.Title,
		Content:           snapshot.Content,
		Summary:           summary,
		ImageURL:          snapshot.ImageURL,
		PublishedAt:       publishedAt,
		Author:            author,
		ClinicNameHint:    strings.TrimSpace(row.ClinicName),
		ClinicAddressHint: strings.TrimSpace(row.ClinicAddress),
		Notes:             strings.TrimSpace(row.Notes),
		Categories:        categories,
		Tags:              tags,
		IsVerified:        false,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// now allows tests to pin timestamps.
func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
