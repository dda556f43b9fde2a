// Package logging wraps log/slog with the helpers the handlers and worker
// share: JSON or text output, configurable level, request ID propagation,
// and context-aware logger retrieval.
//
// Example:
//
//	logger := logging.NewLogger()
//	logger.Info("application started", slog.String("version", "1.0"))
//
//	// inside a handler
//	logger := logging.WithRequestID(ctx, slog.Default())
//	logger.Info("processing request")
package logging
