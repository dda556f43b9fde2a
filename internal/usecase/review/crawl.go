package review

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"clinic-reviews/internal/pkg/blogurl"
)

// FeedLister enumerates the posts currently published in a blog's feed.
// It is the crawl-side counterpart of ContentFetcher; the production
// implementation lives under internal/infra/fetcher.
type FeedLister interface {
	ListFeedPosts(ctx context.Context, blogID string) ([]string, error)
}

// CrawlStats summarizes one scheduled re-crawl run.
type CrawlStats struct {
	Blogs     int
	FeedItems int
	Ingested  int
	Skipped   int // already stored
	Errors    int
	Duration  time.Duration

	// PerBlog maps blog ID to the number of feed items seen for it.
	PerBlog map[string]int
}

// RecrawlKnownBlogs walks the feeds of every blog that has at least one
// ingested post and ingests whatever new posts those feeds list. New posts
// arrive with no clinic hint, so they land in the moderation queue. Feeds
// are crawled concurrently up to maxConcurrent; a failing feed is counted
// and skipped so one dead blog cannot starve the rest of the run.
func (s *Service) RecrawlKnownBlogs(ctx context.Context, feeds FeedLister, maxConcurrent int) (*CrawlStats, error) {
	start := time.Now()

	urls, err := s.Posts.ListCanonicalURLs(ctx)
	if err != nil {
		return nil, err
	}
	blogIDs := distinctBlogIDs(urls)

	stats := &CrawlStats{Blogs: len(blogIDs), PerBlog: make(map[string]int, len(blogIDs))}
	var mu sync.Mutex

	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrent)

	for _, blogID := range blogIDs {
		g.Go(func() error {
			links, err := feeds.ListFeedPosts(ctx, blogID)
			if err != nil {
				s.logger().Warn("feed crawl failed",
					slog.String("blog_id", blogID),
					slog.Any("error", err))
				mu.Lock()
				stats.Errors++
				mu.Unlock()
				return nil
			}

			var ingested, skipped, failed int
			for _, link := range links {
				post, err := s.ingestOne(ctx, IngestRow{URL: link})
				if err != nil {
					if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
						return err
					}
					failed++
					continue
				}
				if post == nil {
					skipped++
				} else {
					ingested++
				}
			}

			mu.Lock()
			stats.FeedItems += len(links)
			stats.PerBlog[blogID] = len(links)
			stats.Ingested += ingested
			stats.Skipped += skipped
			stats.Errors += failed
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return stats, err
	}
	stats.Duration = time.Since(start)

	s.logger().Info("re-crawl completed",
		slog.Int("blogs", stats.Blogs),
		slog.Int("feed_items", stats.FeedItems),
		slog.Int("ingested", stats.Ingested),
		slog.Int("skipped", stats.Skipped),
		slog.Int("errors", stats.Errors),
		slog.Duration("duration", stats.Duration))

	return stats, nil
}

// distinctBlogIDs extracts the owning blog of each canonical URL, deduped
// and sorted for a stable crawl order.
func distinctBlogIDs(urls []string) []string {
	seen := make(map[string]struct{}, len(urls))
	for _, u := range urls {
		if id, ok := blogurl.ExtractBlogID(u); ok {
			seen[id] = struct{}{}
		}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
