// Package observability groups the logging, metrics, SLO, and tracing
// subpackages so the binaries wire them from one place.
//
// Subpackages:
//   - logging: structured logging with slog
//   - metrics: Prometheus metrics registry and recorders
//   - slo: service level objective targets and gauges
//   - tracing: OpenTelemetry tracing integration
package observability
