package metrics

import "time"

// RecordIngestion records one ingestion attempt. Result is one of
// "matched", "unmatched", "duplicate", or "fetch_error".
func RecordIngestion(result string) {
	PostsIngestedTotal.WithLabelValues(result).Inc()
}

// RecordManualMatch records an admin assigning a clinic to a post.
func RecordManualMatch() {
	PostsMatchedManuallyTotal.Inc()
}

// RecordVerification records a post verification change.
func RecordVerification(verified bool) {
	label := "true"
	if !verified {
		label = "false"
	}
	PostsVerifiedTotal.WithLabelValues(label).Inc()
}

// RecordFeedCrawl records the duration of one feed crawl.
func RecordFeedCrawl(blogID string, duration time.Duration) {
	FeedCrawlDuration.WithLabelValues(blogID).Observe(duration.Seconds())
}

// RecordFeedCrawlError records an error during feed crawling.
// ErrorType groups failures for alerting (e.g. "fetch", "parse").
func RecordFeedCrawlError(blogID, errorType string) {
	FeedCrawlErrors.WithLabelValues(blogID, errorType).Inc()
}

// UpdatePostsTotal updates the total count of blog posts in the database.
// This gauge should be updated periodically to reflect the current state.
func UpdatePostsTotal(count int) {
	PostsTotal.Set(float64(count))
}

// UpdateClinicsTotal updates the total count of clinics in the directory.
func UpdateClinicsTotal(count int) {
	ClinicsTotal.Set(float64(count))
}

// RecordContentFetchSuccess records a successful content fetch operation,
// tracking both the duration and size of fetched content.
func RecordContentFetchSuccess(duration time.Duration, size int) {
	ContentFetchAttemptsTotal.WithLabelValues("success").Inc()
	ContentFetchDuration.Observe(duration.Seconds())
	ContentFetchSize.Observe(float64(size))
}

// RecordContentFetchFailed records a failed content fetch operation.
func RecordContentFetchFailed(duration time.Duration) {
	ContentFetchAttemptsTotal.WithLabelValues("failure").Inc()
	ContentFetchDuration.Observe(duration.Seconds())
}

// RecordContentFetchSkipped records a skipped content fetch. This occurs
// when the RSS item body is already long enough and a page fetch is
// unnecessary.
func RecordContentFetchSkipped() {
	ContentFetchAttemptsTotal.WithLabelValues("skipped").Inc()
}

// RecordDBQuery records the duration of a database query operation.
// Operation should describe the query type (e.g., "select_posts", "insert_post").
func RecordDBQuery(operation string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// UpdateDBConnectionStats updates database connection pool statistics.
func UpdateDBConnectionStats(active, idle int) {
	DBConnectionsActive.Set(float64(active))
	DBConnectionsIdle.Set(float64(idle))
}

// RecordPostsCrawled adds the posts one feed pass discovered.
func RecordPostsCrawled(feed string, count int) {
	PostsCrawledTotal.WithLabelValues(feed).Add(float64(count))
}

// UpdateUnmatchedPostsTotal sets the manual-review queue gauge.
func UpdateUnmatchedPostsTotal(count int) {
	UnmatchedPostsTotal.Set(float64(count))
}
