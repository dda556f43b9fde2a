package pagination

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal is labeled by HTTP status and a page-range bucket, so
	// deep-page scans show up separately from normal browsing.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "review_pagination_requests_total",
		Help: "Total number of pagination requests",
	}, []string{"status", "page_range"})

	DurationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "review_pagination_duration_seconds",
		Help:    "Request duration distribution",
		Buckets: []float64{0.01, 0.05, 0.1, 0.2, 0.5, 1.0, 2.0},
	}, []string{"operation"})

	// TotalCount follows the COUNT query of each listing.
	TotalCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "review_total_count",
		Help: "Current total number of listed blog posts",
	})

	ErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "review_pagination_errors_total",
		Help: "Total number of pagination errors",
	}, []string{"type"})
)

func RecordRequest(statusCode int, page int) {
	RequestsTotal.WithLabelValues(strconv.Itoa(statusCode), getPageRangeBucket(page)).Inc()
}

// RecordDuration observes one operation ("handler", "service",
// "repository") in seconds.
func RecordDuration(operation string, duration float64) {
	DurationSeconds.WithLabelValues(operation).Observe(duration)
}

func UpdateTotalCount(count int64) {
	TotalCount.Set(float64(count))
}

// RecordError counts one error of type "validation", "database" or
// "timeout".
func RecordError(errorType string) {
	ErrorsTotal.WithLabelValues(errorType).Inc()
}

func getPageRangeBucket(page int) string {
	switch {
	case page <= 10:
		return "1-10"
	case page <= 50:
		return "11-50"
	case page <= 100:
		return "51-100"
	default:
		return "100+"
	}
}
