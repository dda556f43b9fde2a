package middleware

import (
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// RateLimiter caps requests per client IP over a sliding window. The IP is
// resolved through an IPExtractor so deployments behind a reverse proxy can
// opt into header-based extraction.
type RateLimiter struct {
	limit       int
	window      time.Duration
	ipExtractor IPExtractor

	mu       sync.RWMutex
	requests map[string][]time.Time
}

// NewRateLimiter builds a limiter allowing limit requests per IP per window.
func NewRateLimiter(limit int, window time.Duration, ipExtractor IPExtractor) *RateLimiter {
	return &RateLimiter{
		limit:       limit,
		window:      window,
		ipExtractor: ipExtractor,
		requests:    make(map[string][]time.Time),
	}
}

// clientIP resolves the request's IP. When the configured extractor fails
// the limiter falls back to RemoteAddr; if even that is unparseable the
// error propagates and the request is rejected rather than let through
// unlimited.
func (rl *RateLimiter) clientIP(r *http.Request) (string, error) {
	ip, err := rl.ipExtractor.ExtractIP(r)
	if err == nil {
		return ip, nil
	}
	slog.Warn("rate limiter: IP extraction failed, using RemoteAddr fallback",
		slog.String("error", err.Error()),
		slog.String("remote_addr", r.RemoteAddr),
	)
	return extractIPFromAddr(r.RemoteAddr)
}

// Middleware rejects requests over the limit with 429.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, err := rl.clientIP(r)
		if err != nil {
			slog.Error("rate limiter: RemoteAddr extraction failed",
				slog.String("error", err.Error()),
				slog.String("remote_addr", r.RemoteAddr),
			)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		if !rl.allow(ip) {
			slog.Warn("rate limit exceeded",
				slog.String("ip", ip),
				slog.String("path", r.URL.Path),
				slog.Int("limit", rl.limit),
				slog.Duration("window", rl.window),
			)
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// pruneWindow keeps only the timestamps newer than cutoff.
func pruneWindow(timestamps []time.Time, cutoff time.Time) []time.Time {
	var valid []time.Time
	for _, ts := range timestamps {
		if ts.After(cutoff) {
			valid = append(valid, ts)
		}
	}
	return valid
}

// allow drops timestamps that fell out of the window, then admits the request
// if the remaining count is under the limit.
func (rl *RateLimiter) allow(ip string) bool {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	valid := pruneWindow(rl.requests[ip], now.Add(-rl.window))
	if len(valid) >= rl.limit {
		rl.requests[ip] = valid
		return false
	}
	rl.requests[ip] = append(valid, now)
	return true
}

// CleanupExpired drops IPs whose every timestamp has aged out. Run it
// periodically so idle clients do not accumulate in the map.
func (rl *RateLimiter) CleanupExpired() {
	cutoff := time.Now().Add(-rl.window)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for ip, timestamps := range rl.requests {
		valid := pruneWindow(timestamps, cutoff)
		if len(valid) == 0 {
			delete(rl.requests, ip)
			continue
		}
		rl.requests[ip] = valid
	}

	slog.Debug("rate limiter: cleanup completed",
		slog.Int("active_ips", len(rl.requests)),
	)
}
