package middleware

import (
	"log/slog"
)

// SlogAdapter bridges the CORSLogger interface onto log/slog, turning the
// field map into slog attributes.
type SlogAdapter struct {
	Logger *slog.Logger
}

func (a *SlogAdapter) Info(msg string, fields map[string]interface{}) {
	a.Logger.Info(msg, slogArgs(fields)...)
}

func (a *SlogAdapter) Warn(msg string, fields map[string]interface{}) {
	a.Logger.Warn(msg, slogArgs(fields)...)
}

func (a *SlogAdapter) Debug(msg string, fields map[string]interface{}) {
	a.Logger.Debug(msg, slogArgs(fields)...)
}

func slogArgs(fields map[string]interface{}) []interface{} {
	args := make([]interface{}, 0, len(fields))
	for k, v := range fields {
		args = append(args, slog.Any(k, v))
	}
	return args
}

// NoOpLogger discards everything; tests use it to silence the middleware.
type NoOpLogger struct{}

func (l *NoOpLogger) Info(msg string, fields map[string]interface{})  {}
func (l *NoOpLogger) Warn(msg string, fields map[string]interface{})  {}
func (l *NoOpLogger) Debug(msg string, fields map[string]interface{}) {}
