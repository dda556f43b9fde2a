// Package tracing wires OpenTelemetry into the HTTP stack. The middleware
// opens a server span per request and propagates W3C trace context; the
// exporter and sampler are configured by the binary at startup.
package tracing
