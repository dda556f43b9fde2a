package config

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ConfigMetrics is the standard set of Prometheus metrics every component
// exposes about its configuration: when it was loaded, how many values failed
// validation, and whether any fallback default is currently in effect.
//
// Metric names are prefixed with the component name, so "worker" produces
// worker_config_load_timestamp, worker_config_validation_errors_total,
// worker_config_fallbacks_total and worker_config_fallback_active.
type ConfigMetrics struct {
	LoadTimestamp prometheus.Gauge

	// ValidationErrorsTotal and FallbacksTotal are labeled by field name
	// ("crawl_schedule", "timezone", ...).
	ValidationErrorsTotal *prometheus.CounterVec
	FallbacksTotal        *prometheus.CounterVec

	// FallbackActive is 1 while any field runs on its fallback default.
	FallbackActive prometheus.Gauge

	componentName string
}

func configGauge(component, suffix, help string) prometheus.Gauge {
	return promauto.NewGauge(prometheus.GaugeOpts{Name: fmt.Sprintf("%s_config_%s", component, suffix), Help: help})
}

func configCounterVec(component, suffix, help string) *prometheus.CounterVec {
	return promauto.NewCounterVec(prometheus.CounterOpts{Name: fmt.Sprintf("%s_config_%s", component, suffix), Help: help}, []string{"field"})
}

// NewConfigMetrics registers the configuration metric set for a component
// with the default registry. Component names must be process-unique or
// promauto panics on the duplicate registration.
func NewConfigMetrics(componentName string) *ConfigMetrics {
	return &ConfigMetrics{
		LoadTimestamp:         configGauge(componentName, "load_timestamp", fmt.Sprintf("Unix timestamp of last %s configuration load", componentName)),
		ValidationErrorsTotal: configCounterVec(componentName, "validation_errors_total", fmt.Sprintf("Total number of %s configuration validation errors", componentName)),
		FallbacksTotal:        configCounterVec(componentName, "fallbacks_total", fmt.Sprintf("Total number of %s configuration fallback operations", componentName)),
		FallbackActive:        configGauge(componentName, "fallback_active", fmt.Sprintf("1 if any %s configuration fallback is active, 0 otherwise", componentName)),
		componentName:         componentName,
	}
}

// RecordLoadTimestamp marks now as the most recent configuration load.
func (m *ConfigMetrics) RecordLoadTimestamp() {
	m.LoadTimestamp.SetToCurrentTime()
}

// RecordValidationError counts a validation failure for the given field.
func (m *ConfigMetrics) RecordValidationError(field string) {
	m.ValidationErrorsTotal.WithLabelValues(field).Inc()
}

// RecordFallback counts a fallback application for the given field.
func (m *ConfigMetrics) RecordFallback(field, fallbackType string) {
	m.FallbacksTotal.WithLabelValues(field).Inc()
}

// SetFallbackActive flips the fallback gauge; call it with true when any
// field is running on its default after a failed load.
func (m *ConfigMetrics) SetFallbackActive(field string, active bool) {
	var v float64
	if active {
		v = 1
	}
	m.FallbackActive.Set(v)
}
