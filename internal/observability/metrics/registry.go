// Package metrics provides centralized Prometheus metrics for the
// ingestion pipeline and database layer. HTTP request metrics live in
// the handler middleware; everything business-facing registers here.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Store-level gauges. Refreshed after each crawl run rather than on
// every write, so they can lag briefly behind the database.
var (
	PostsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "blog_posts_total",
		Help: "Total number of blog posts in the database",
	})

	UnmatchedPostsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "unmatched_posts_total",
		Help: "Number of posts waiting in the manual-review queue",
	})

	ClinicsTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "clinics_total",
		Help: "Total number of clinics in the directory",
	})
)

// Ingestion and matching counters.
var (
	// PostsIngestedTotal counts ingestion outcomes. Result is one of
	// matched, unmatched, duplicate, or fetch_error.
	PostsIngestedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "posts_ingested_total",
		Help: "Total number of post ingestion attempts",
	}, []string{"result"})

	PostsMatchedManuallyTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "posts_matched_manually_total",
		Help: "Total number of posts matched to a clinic by an admin",
	})

	PostsVerifiedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "posts_verified_total",
		Help: "Total number of post verification changes",
	}, []string{"verified"})

	PostsCrawledTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "posts_crawled_total",
		Help: "Total number of posts discovered by the re-crawl worker",
	}, []string{"feed"})
)

// Crawl and content-fetch metrics.
var (
	FeedCrawlDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "feed_crawl_duration_seconds",
		Help:    "Time taken to crawl a blog feed",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
	}, []string{"blog_id"})

	FeedCrawlErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "feed_crawl_errors_total",
		Help: "Total number of feed crawl errors",
	}, []string{"blog_id", "error_type"})

	ContentFetchAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "content_fetch_attempts_total",
		Help: "Total number of content fetch attempts",
	}, []string{"result"})

	ContentFetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "content_fetch_duration_seconds",
		Help:    "Time taken to fetch post content",
		Buckets: []float64{0.1, 0.2, 0.4, 0.8, 1.6, 3.2, 6.4, 12.8},
	})

	// Buckets reach 10MB because Naver pages with inline images can be
	// large even after readability stripping.
	ContentFetchSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name: "content_fetch_size_bytes",
		Help: "Fetched post content size in bytes",
		Buckets: []float64{
			100, 200, 400, 800, 1600, 3200, 6400, 12800,
			25600, 51200, 102400, 204800, 409600, 819200,
			1638400, 3276800, 6553600, 10485760,
		},
	})
)

// Database metrics.
var (
	DBQueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "db_query_duration_seconds",
		Help:    "Database query duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 10),
	}, []string{"operation"})

	DBConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "db_connections_active",
		Help: "Number of active database connections",
	})

	DBConnectionsIdle = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "db_connections_idle",
		Help: "Number of idle database connections",
	})
)
