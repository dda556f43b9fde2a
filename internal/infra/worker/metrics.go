package worker

import (
	"clinic-reviews/internal/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// WorkerMetrics instruments the crawl worker. It embeds the shared
// ConfigMetrics (prefixed "worker") and adds counters for cron job runs, a
// duration histogram and a last-success timestamp, which together back the
// worker's staleness alerts.
type WorkerMetrics struct {
	*config.ConfigMetrics

	// CronJobRunsTotal is labeled by status, "success" or "failure".
	CronJobRunsTotal *prometheus.CounterVec

	CronJobDurationSeconds      prometheus.Histogram
	CronJobFeedsProcessedTotal  prometheus.Counter
	CronJobLastSuccessTimestamp prometheus.Gauge
}

// NewWorkerMetrics registers the worker metric set with the default registry.
// Histogram buckets run from one second to thirty minutes to cover a full
// crawl over every registered feed.
func NewWorkerMetrics() *WorkerMetrics {
	return &WorkerMetrics{
		ConfigMetrics: config.NewConfigMetrics("worker"),
		CronJobRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_cron_job_runs_total",
			Help: "Total number of cron job runs by status (success/failure)"}, []string{"status"}),
		CronJobDurationSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "worker_cron_job_duration_seconds",
			Help:    "Duration of cron job execution in seconds",
			Buckets: []float64{1, 5, 30, 60, 300, 900, 1800}}),
		CronJobFeedsProcessedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "worker_cron_job_feeds_processed_total",
			Help: "Total number of feeds processed across all cron job runs"}),
		CronJobLastSuccessTimestamp: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "worker_cron_job_last_success_timestamp",
			Help: "Unix timestamp of the last successful cron job run"}),
	}
}

// MustRegister is a no-op; promauto already registered everything in
// NewWorkerMetrics. It survives so call sites keep the explicit
// construct-then-register shape.
func (m *WorkerMetrics) MustRegister() {}

// RecordJobRun counts one run with the given status, "success" or "failure".
func (m *WorkerMetrics) RecordJobRun(status string) {
	m.CronJobRunsTotal.WithLabelValues(status).Inc()
}

// RecordJobDuration observes one run's wall time in seconds.
func (m *WorkerMetrics) RecordJobDuration(seconds float64) {
	m.CronJobDurationSeconds.Observe(seconds)
}

// RecordFeedsProcessed adds this run's feed count to the running total.
func (m *WorkerMetrics) RecordFeedsProcessed(count int) {
	m.CronJobFeedsProcessedTotal.Add(float64(count))
}

// RecordLastSuccess stamps now as the most recent successful run.
func (m *WorkerMetrics) RecordLastSuccess() {
	m.CronJobLastSuccessTimestamp.SetToCurrentTime()
}
