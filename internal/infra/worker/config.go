package worker

import (
	"fmt"
	"log/slog"
	"time"

	"clinic-reviews/internal/pkg/config"
)

// WorkerConfig holds the re-crawl worker settings: the cron schedule, the
// timezone it is interpreted in, and the operational limits of one run.
// Every field has a default and a validation rule, so the worker starts
// even when the environment is misconfigured.
type WorkerConfig struct {
	// CronSchedule is a five-field cron expression.
	CronSchedule string

	// Timezone is the IANA zone the schedule runs in.
	Timezone string

	// CrawlMaxConcurrent caps simultaneous blog feed fetches. Naver
	// throttles aggressive clients, so this stays low. Range 1-50.
	CrawlMaxConcurrent int

	// CrawlTimeout cancels a crawl run that exceeds it.
	CrawlTimeout time.Duration

	// HealthPort serves the probe endpoints. Range 1024-65535.
	HealthPort int
}

// DefaultConfig is the production baseline: a daily crawl at 5:30 KST,
// four concurrent feeds, 30 minutes per run.
func DefaultConfig() WorkerConfig {
	return WorkerConfig{
		CronSchedule:       "30 5 * * *",
		Timezone:           "Asia/Seoul",
		CrawlMaxConcurrent: 4,
		CrawlTimeout:       30 * time.Minute,
		HealthPort:         9091,
	}
}

// Validate checks every field and aggregates the failures into one error.
func (c *WorkerConfig) Validate() error {
	var errors []error

	if err := config.ValidateCronSchedule(c.CronSchedule); err != nil {
		errors = append(errors, fmt.Errorf("cron schedule: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errors = append(errors, fmt.Errorf("timezone: %w", err))
	}
	if err := config.ValidateIntRange(c.CrawlMaxConcurrent, 1, 50); err != nil {
		errors = append(errors, fmt.Errorf("crawl max concurrent: %w", err))
	}
	if err := config.ValidatePositiveDuration(c.CrawlTimeout); err != nil {
		errors = append(errors, fmt.Errorf("crawl timeout: %w", err))
	}
	if err := config.ValidateIntRange(c.HealthPort, 1024, 65535); err != nil {
		errors = append(errors, fmt.Errorf("health port: %w", err))
	}

	if len(errors) > 0 {
		return fmt.Errorf("validation failed: %v", errors)
	}
	return nil
}

// fallbackRecorder tracks per-field fallbacks while loading from the
// environment: warnings to the log, counters to the metrics.
type fallbackRecorder struct {
	logger  *slog.Logger
	metrics *WorkerMetrics
	applied bool
}

func (fr *fallbackRecorder) observe(field, fieldName string, result config.ConfigLoadResult) {
	if !result.FallbackApplied {
		return
	}
	fr.applied = true
	fr.metrics.RecordValidationError(field)
	fr.metrics.RecordFallback(field, "default")
	for _, warning := range result.Warnings {
		fr.logger.Warn("Configuration fallback applied",
			slog.String("field", fieldName),
			slog.String("warning", warning))
	}
}

// LoadConfigFromEnv reads the worker configuration from the environment,
// falling back to defaults field by field. It never returns an error; a
// broken environment produces warnings and metrics, not a dead worker.
//
// Environment variables: CRON_SCHEDULE, WORKER_TIMEZONE,
// CRAWL_MAX_CONCURRENT, CRAWL_TIMEOUT, WORKER_HEALTH_PORT.
func LoadConfigFromEnv(logger *slog.Logger, metrics *WorkerMetrics) (*WorkerConfig, error) {
	cfg := DefaultConfig()
	fr := &fallbackRecorder{logger: logger, metrics: metrics}

	result := config.LoadEnvWithFallback("CRON_SCHEDULE", cfg.CronSchedule, config.ValidateCronSchedule)
	cfg.CronSchedule = result.Value.(string)
	fr.observe("cron_schedule", "CronSchedule", result)

	result = config.LoadEnvWithFallback("WORKER_TIMEZONE", cfg.Timezone, config.ValidateTimezone)
	cfg.Timezone = result.Value.(string)
	fr.observe("timezone", "Timezone", result)

	result = config.LoadEnvInt("CRAWL_MAX_CONCURRENT", cfg.CrawlMaxConcurrent, func(v int) error {
		return config.ValidateIntRange(v, 1, 50)
	})
	cfg.CrawlMaxConcurrent = result.Value.(int)
	fr.observe("crawl_max_concurrent", "CrawlMaxConcurrent", result)

	result = config.LoadEnvDuration("CRAWL_TIMEOUT", cfg.CrawlTimeout, func(d time.Duration) error {
		return config.ValidateDuration(d, 1*time.Minute, 4*time.Hour)
	})
	cfg.CrawlTimeout = result.Value.(time.Duration)
	fr.observe("crawl_timeout", "CrawlTimeout", result)

	result = config.LoadEnvInt("WORKER_HEALTH_PORT", cfg.HealthPort, func(v int) error {
		return config.ValidateIntRange(v, 1024, 65535)
	})
	cfg.HealthPort = result.Value.(int)
	fr.observe("health_port", "HealthPort", result)

	metrics.SetFallbackActive("", fr.applied)
	metrics.RecordLoadTimestamp()

	return &cfg, nil
}
