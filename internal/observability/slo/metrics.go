package slo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Service level objectives. Availability is percent uptime; the latency
// targets are seconds; the error rate is a ratio of 5xx responses.
const (
	AvailabilitySLO = 99.9
	LatencyP95SLO   = 0.200
	LatencyP99SLO   = 0.500
	ErrorRateSLO    = 0.001
)

// The gauges are recomputed once per flush interval from the requests
// observed since the previous flush.
var (
	SLOAvailability = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "slo_availability_ratio",
		Help: "Current availability ratio (0-1), target: 0.999",
	})

	SLOLatencyP95 = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "slo_latency_p95_seconds",
		Help: "Current p95 latency in seconds, target: 0.200",
	})

	SLOLatencyP99 = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "slo_latency_p99_seconds",
		Help: "Current p99 latency in seconds, target: 0.500",
	})

	SLOErrorRate = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "slo_error_rate_ratio",
		Help: "Current error rate ratio (0-1), target: 0.001",
	})
)

// UpdateAvailability updates the availability SLO metric.
func UpdateAvailability(ratio float64) {
	SLOAvailability.Set(ratio)
}

// UpdateLatencyP95 updates the p95 latency SLO metric.
func UpdateLatencyP95(seconds float64) {
	SLOLatencyP95.Set(seconds)
}

// UpdateLatencyP99 updates the p99 latency SLO metric.
func UpdateLatencyP99(seconds float64) {
	SLOLatencyP99.Set(seconds)
}

// UpdateErrorRate updates the error rate SLO metric.
func UpdateErrorRate(ratio float64) {
	SLOErrorRate.Set(ratio)
}

// window accumulates request observations between flushes.
type window struct {
	mu        sync.Mutex
	total     int
	errors    int
	durations []float64
}

var current window

// Observe records one completed HTTP request. The metrics middleware calls
// this for every request; only 5xx responses count against availability.
func Observe(statusCode int, duration time.Duration) {
	current.mu.Lock()
	defer current.mu.Unlock()
	current.total++
	if statusCode >= 500 {
		current.errors++
	}
	current.durations = append(current.durations, duration.Seconds())
}

// Flush recomputes the SLO gauges from the observations collected since the
// last flush and resets the window. A flush with no observations leaves the
// gauges untouched so scrapes between idle intervals keep the last reading.
func Flush() {
	current.mu.Lock()
	total, errors, durations := current.total, current.errors, current.durations
	current.total, current.errors, current.durations = 0, 0, nil
	current.mu.Unlock()

	if total == 0 {
		return
	}

	UpdateAvailability(float64(total-errors) / float64(total))
	UpdateErrorRate(float64(errors) / float64(total))

	sort.Float64s(durations)
	UpdateLatencyP95(quantile(durations, 0.95))
	UpdateLatencyP99(quantile(durations, 0.99))
}

// quantile returns the q-th quantile of sorted using the nearest-rank method.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(q*float64(len(sorted))+0.5) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// Start flushes the SLO window every interval until ctx is cancelled.
// A final flush runs on shutdown so the last partial window is not lost.
func Start(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				Flush()
				return
			case <-ticker.C:
				Flush()
			}
		}
	}()
}
