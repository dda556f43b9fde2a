package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"clinic-reviews/internal/common/pagination"
	"clinic-reviews/internal/domain/entity"
	"clinic-reviews/internal/observability/metrics"
	"clinic-reviews/internal/repository"
	"clinic-reviews/internal/usecase/match"
)

// Service implements the review pipeline: ingestion, clinic assignment,
// verification, and the public read surface. Verified posts are the only
// ones the public operations return.
type Service struct {
	Posts    repository.BlogPostRepository
	Clinics  repository.ClinicRepository
	Fetcher  ContentFetcher
	Resolver *match.Resolver
	Notifier Notifier
	Logger   *slog.Logger

	// Now overrides the clock in tests. Nil means time.Now.
	Now func() time.Time
}

func (s *Service) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// PaginatedPosts bundles one public page of verified posts with its
// pagination metadata.
type PaginatedPosts struct {
	Data       []repository.PostWithClinic
	Pagination pagination.Metadata
}

// PaginatedQueue bundles one page of the unmatched moderation queue with
// its pagination metadata.
type PaginatedQueue struct {
	Data       []*entity.BlogPost
	Pagination pagination.Metadata
}

// ListPosts returns a page of verified posts with their clinics, newest
// first. Filters narrow by clinic name, category, and free-text search.
func (s *Service) ListPosts(ctx context.Context, filters repository.PostFilters, params pagination.Params) (*PaginatedPosts, error) {
	offset := pagination.CalculateOffset(params.Page, params.Limit)

	total, err := s.Posts.CountVerified(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("count verified posts: %w", err)
	}

	posts, err := s.Posts.ListVerified(ctx, filters, offset, params.Limit)
	if err != nil {
		return nil, fmt.Errorf("list verified posts: %w", err)
	}

	return &PaginatedPosts{
		Data: posts,
		Pagination: pagination.Metadata{
			Total:      total,
			Page:       params.Page,
			Limit:      params.Limit,
			TotalPages: pagination.CalculateTotalPages(total, params.Limit),
		},
	}, nil
}

// GetPost returns one verified post with its clinic. Unverified and absent
// posts are indistinguishable to the caller: both yield ErrPostNotFound.
func (s *Service) GetPost(ctx context.Context, id string) (*repository.PostWithClinic, error) {
	if id == "" {
		return nil, ErrInvalidPostID
	}

	post, err := s.Posts.GetVerified(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get verified post: %w", err)
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	return post, nil
}

// ListUnmatched returns the moderation queue of posts without an assigned
// clinic, oldest first so the backlog drains in order.
func (s *Service) ListUnmatched(ctx context.Context, params pagination.Params) (*PaginatedQueue, error) {
	offset := pagination.CalculateOffset(params.Page, params.Limit)

	total, err := s.Posts.CountUnmatched(ctx)
	if err != nil {
		return nil, fmt.Errorf("count unmatched posts: %w", err)
	}

	posts, err := s.Posts.ListUnmatched(ctx, offset, params.Limit)
	if err != nil {
		return nil, fmt.Errorf("list unmatched posts: %w", err)
	}

	return &PaginatedQueue{
		Data: posts,
		Pagination: pagination.Metadata{
			Total:      total,
			Page:       params.Page,
			Limit:      params.Limit,
			TotalPages: pagination.CalculateTotalPages(total, params.Limit),
		},
	}, nil
}

// MatchPost assigns clinicID to the post. The clinic must exist; a failed
// lookup leaves the post untouched.
func (s *Service) MatchPost(ctx context.Context, postID string, clinicID int64) error {
	if postID == "" {
		return ErrInvalidPostID
	}

	post, err := s.Posts.Get(ctx, postID)
	if err != nil {
		return fmt.Errorf("get post: %w", err)
	}
	if post == nil {
		return ErrPostNotFound
	}

	clinic, err := s.Clinics.Get(ctx, clinicID)
	if err != nil {
		return fmt.Errorf("get clinic: %w", err)
	}
	if clinic == nil {
		return ErrClinicNotFound
	}

	if err := s.Posts.SetHospital(ctx, postID, clinicID); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return ErrPostNotFound
		}
		return fmt.Errorf("assign clinic: %w", err)
	}

	metrics.RecordManualMatch()
	s.logger().Info("post matched to clinic",
		slog.String("post_id", postID),
		slog.Int64("clinic_id", clinicID))
	return nil
}

// SetVerified flips the publication gate. Setting the current value again
// succeeds without effect.
func (s *Service) SetVerified(ctx context.Context, postID string, verified bool) error {
	if postID == "" {
		return ErrInvalidPostID
	}

	if err := s.Posts.SetVerified(ctx, postID, verified); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return ErrPostNotFound
		}
		return fmt.Errorf("set verified: %w", err)
	}

	metrics.RecordVerification(verified)
	s.logger().Info("post verification updated",
		slog.String("post_id", postID),
		slog.Bool("verified", verified))
	return nil
}
