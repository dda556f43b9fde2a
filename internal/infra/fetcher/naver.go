package fetcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/sony/gobreaker"

	"clinic-reviews/internal/observability/metrics"
	"clinic-reviews/internal/pkg/blogurl"
	"clinic-reviews/internal/resilience/circuitbreaker"
	"clinic-reviews/internal/resilience/retry"
	"clinic-reviews/internal/usecase/review"
	"clinic-reviews/internal/utils/text"
)

// NaverFetcher retrieves post content through the blog's RSS feed. The
// feed is the only stable machine-readable surface Naver exposes; the post
// page itself is used only as a fallback when the feed carries a short
// excerpt. Feed fetches go through retry with backoff and a circuit
// breaker shared across all blogs.
//
// Safe for concurrent use.
type NaverFetcher struct {
	client         *http.Client
	page           *pageFetcher
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
	config         Config
	logger         *slog.Logger

	// feedURL is overridable in tests; defaults to blogurl.RSSURL.
	feedURL func(blogID string) string
}

// NewNaverFetcher creates a fetcher with retry and circuit breaker wired
// in. A nil client falls back to a default with the configured timeout.
func NewNaverFetcher(client *http.Client, cfg Config, logger *slog.Logger) *NaverFetcher {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &NaverFetcher{
		client:         client,
		page:           newPageFetcher(cfg),
		circuitBreaker: circuitbreaker.New(circuitbreaker.FeedFetchConfig()),
		retryConfig:    retry.FeedFetchConfig(),
		config:         cfg,
		logger:         logger,
		feedURL:        blogurl.RSSURL,
	}
}

// FetchPost retrieves the post at postURL via the owning blog's RSS feed.
// Returns ErrInvalidURL for URLs that do not identify a blog post and
// ErrPostNotInFeed when the feed no longer lists the post.
func (f *NaverFetcher) FetchPost(ctx context.Context, postURL string) (*review.ContentSnapshot, error) {
	start := time.Now()

	canonical, ok := blogurl.Canonicalize(postURL)
	if !ok {
		return nil, fmt.Errorf("%w: not a blog post URL: %s", ErrInvalidURL, postURL)
	}
	blogID, _ := blogurl.ExtractBlogID(postURL)

	feed, err := f.fetchFeed(ctx, f.feedURL(blogID))
	if err != nil {
		metrics.RecordContentFetchFailed(time.Since(start))
		metrics.RecordFeedCrawlError(blogID, "fetch")
		return nil, fmt.Errorf("fetch feed for blog %s: %w", blogID, err)
	}
	metrics.RecordFeedCrawl(blogID, time.Since(start))

	item := findItem(feed, canonical)
	if item == nil {
		return nil, fmt.Errorf("%w: %s", ErrPostNotInFeed, canonical)
	}

	snapshot := f.buildSnapshot(blogID, item)
	f.enhance(ctx, canonical, snapshot)

	metrics.RecordContentFetchSuccess(time.Since(start), len(snapshot.Content))
	return snapshot, nil
}

// ListFeedPosts returns the canonical URLs of every post currently listed
// in the blog's RSS feed, newest first as Naver orders them. Links that do
// not canonicalize are skipped.
func (f *NaverFetcher) ListFeedPosts(ctx context.Context, blogID string) ([]string, error) {
	start := time.Now()

	feed, err := f.fetchFeed(ctx, f.feedURL(blogID))
	if err != nil {
		metrics.RecordFeedCrawlError(blogID, "fetch")
		return nil, fmt.Errorf("fetch feed for blog %s: %w", blogID, err)
	}
	metrics.RecordFeedCrawl(blogID, time.Since(start))

	urls := make([]string, 0, len(feed.Items))
	for _, it := range feed.Items {
		link := it.Link
		if link == "" {
			link = it.GUID
		}
		if canonical, ok := blogurl.Canonicalize(link); ok {
			urls = append(urls, canonical)
		}
	}
	return urls, nil
}

// fetchFeed retrieves and parses the RSS feed with retry and circuit
// breaker protection.
func (f *NaverFetcher) fetchFeed(ctx context.Context, feedURL string) (*gofeed.Feed, error) {
	var feed *gofeed.Feed

	retryErr := retry.WithBackoff(ctx, f.retryConfig, func() error {
		cbResult, err := f.circuitBreaker.Execute(func() (interface{}, error) {
			return f.doFetchFeed(ctx, feedURL)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				f.logger.Warn("feed fetch circuit breaker open, request rejected",
					slog.String("url", feedURL),
					slog.String("state", f.circuitBreaker.State().String()))
			}
			return err
		}
		feed = cbResult.(*gofeed.Feed)
		return nil
	})
	if retryErr != nil {
		return nil, retryErr
	}
	return feed, nil
}

func (f *NaverFetcher) doFetchFeed(ctx context.Context, feedURL string) (*gofeed.Feed, error) {
	fp := gofeed.NewParser()
	fp.UserAgent = "ClinicReviewsBot/1.0"
	fp.Client = f.client
	return fp.ParseURLWithContext(feedURL, ctx)
}

// findItem locates the feed item whose link canonicalizes to the wanted
// post URL. Naver feeds mix desktop and mobile links, so comparison runs
// on canonical form.
func findItem(feed *gofeed.Feed, canonical string) *gofeed.Item {
	for _, it := range feed.Items {
		link := it.Link
		if link == "" {
			link = it.GUID
		}
		if got, ok := blogurl.Canonicalize(link); ok && got == canonical {
			return it
		}
	}
	return nil
}

// buildSnapshot converts a feed item into a content snapshot, stripping
// markup and collecting whatever metadata the feed carries.
func (f *NaverFetcher) buildSnapshot(blogID string, item *gofeed.Item) *review.ContentSnapshot {
	raw := item.Content
	if raw == "" {
		raw = item.Description
	}

	author := blogID
	if item.Author != nil && item.Author.Name != "" {
		author = item.Author.Name
	}

	var publishedAt time.Time
	if item.PublishedParsed != nil {
		publishedAt = *item.PublishedParsed
	}

	var imageURL string
	if item.Image != nil {
		imageURL = item.Image.URL
	}
	if imageURL == "" {
		imageURL = text.FirstImageURL(raw)
	}

	return &review.ContentSnapshot{
		Title:       item.Title,
		Content:     text.CleanHTML(raw),
		ImageURL:    imageURL,
		PublishedAt: publishedAt,
		Author:      author,
		Tags:        item.Categories,
	}
}

// enhance replaces a short excerpt with the full post page body when the
// fallback is enabled. Failures keep the excerpt; a short review is still
// a review.
func (f *NaverFetcher) enhance(ctx context.Context, canonical string, snapshot *review.ContentSnapshot) {
	if !f.config.EnhanceEnabled {
		return
	}
	if text.CountRunes(snapshot.Content) >= f.config.EnhanceThreshold {
		metrics.RecordContentFetchSkipped()
		return
	}

	full, err := f.page.fetch(ctx, canonical)
	if err != nil {
		f.logger.Debug("page fetch fallback failed, keeping feed excerpt",
			slog.String("url", canonical),
			slog.Any("error", err))
		return
	}
	if text.CountRunes(full) > text.CountRunes(snapshot.Content) {
		snapshot.Content = full
	}
}
