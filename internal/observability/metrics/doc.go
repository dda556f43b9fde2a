// Package metrics provides the Prometheus registry and recording helpers
// for business and database metrics: ingestion outcomes, matching and
// verification counters, feed crawl timings, and query durations.
//
// Everything registers on the Prometheus default registry and is exposed
// through the /metrics endpoint. HTTP request metrics are recorded by
// the handler middleware, not here.
//
// Example:
//
//	import "clinic-reviews/internal/observability/metrics"
//
//	func crawlFeed(blogID string) {
//	    start := time.Now()
//	    // ... crawl the feed ...
//	    metrics.RecordFeedCrawl(blogID, time.Since(start))
//	}
package metrics
