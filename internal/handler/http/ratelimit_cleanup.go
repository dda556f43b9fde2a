package http

import (
	"context"
	"log/slog"
	"time"

	"clinic-reviews/internal/handler/http/middleware"
)

// StartRateLimitCleanup starts a background goroutine that periodically
// cleans up expired entries from the rate limiter.
//
// This prevents memory leaks by removing old timestamps that are no longer
// needed for rate limiting decisions. The loop stops when the context is
// cancelled (e.g., during server shutdown).
//
// Parameters:
//   - ctx: Context for cancellation (typically server's context)
//   - limiter: The rate limiter to clean up
//   - interval: How often to run cleanup (e.g., 5 minutes)
//   - limiterType: Type of rate limiter for logging (e.g., "auth" or "api")
func StartRateLimitCleanup(
	ctx context.Context,
	limiter *middleware.RateLimiter,
	interval time.Duration,
	limiterType string,
) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("rate limit cleanup started",
		slog.String("limiter_type", limiterType),
		slog.Duration("interval", interval))

	for {
		select {
		case <-ctx.Done():
			slog.Info("rate limit cleanup stopped",
				slog.String("limiter_type", limiterType))
			return

		case <-ticker.C:
			limiter.CleanupExpired()

			slog.Debug("rate limit cleanup completed",
				slog.String("limiter_type", limiterType))
		}
	}
}
