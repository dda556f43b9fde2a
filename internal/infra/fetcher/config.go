package fetcher

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config controls security and behavior of blog content fetching.
type Config struct {
	// EnhanceEnabled controls the full-page fallback. When false, only
	// the RSS item body is used even when it is short.
	// Default: true
	EnhanceEnabled bool

	// EnhanceThreshold is the minimum RSS body length in runes. Items
	// shorter than this trigger a fetch of the post page itself.
	// Default: 500
	EnhanceThreshold int

	// Timeout bounds a single HTTP request, for both feed and page
	// fetches.
	// Default: 10s
	Timeout time.Duration

	// MaxBodySize is the maximum HTTP response body size in bytes,
	// enforced while reading rather than trusting Content-Length.
	// Default: 10485760 (10MB)
	MaxBodySize int64

	// MaxRedirects bounds the redirect chain. Every redirect target is
	// re-validated against the private-IP policy.
	// Default: 5
	MaxRedirects int

	// DenyPrivateIPs rejects URLs resolving to private, loopback, or
	// link-local addresses. Should always be true in production.
	// Default: true
	DenyPrivateIPs bool
}

// DefaultConfig returns production-ready fetch settings.
func DefaultConfig() Config {
	return Config{
		EnhanceEnabled:   true,
		EnhanceThreshold: 500,
		Timeout:          10 * time.Second,
		MaxBodySize:      10 * 1024 * 1024, // 10MB
		MaxRedirects:     5,
		DenyPrivateIPs:   true,
	}
}

// Validate checks the configuration for values that would be unsafe or
// nonsensical at runtime.
func (c *Config) Validate() error {
	if c.EnhanceThreshold < 0 {
		return fmt.Errorf("enhance threshold must be non-negative, got %d", c.EnhanceThreshold)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}

	minBodySize := int64(1024)              // 1KB
	maxBodySize := int64(100 * 1024 * 1024) // 100MB
	if c.MaxBodySize < minBodySize || c.MaxBodySize > maxBodySize {
		return fmt.Errorf("max body size must be between %d and %d bytes, got %d", minBodySize, maxBodySize, c.MaxBodySize)
	}

	if c.MaxRedirects < 0 || c.MaxRedirects > 10 {
		return fmt.Errorf("max redirects must be between 0 and 10, got %d", c.MaxRedirects)
	}
	return nil
}

// envBool reads key as a boolean, leaving dst untouched when unset.
// Any value other than "true" is treated as false.
func envBool(key string, dst *bool) {
	if val := os.Getenv(key); val != "" {
		*dst = val == "true"
	}
}

// LoadConfigFromEnv loads fetch settings from environment variables,
// falling back to defaults for anything unset. The result is validated
// before it is returned.
//
// Environment variables:
//   - FETCH_ENHANCE_ENABLED: "true" or "false" (default: true)
//   - FETCH_ENHANCE_THRESHOLD: integer in runes (default: 500)
//   - FETCH_TIMEOUT: duration string, e.g. "10s" (default: 10s)
//   - FETCH_MAX_BODY_SIZE: integer in bytes (default: 10485760)
//   - FETCH_MAX_REDIRECTS: integer (default: 5)
//   - FETCH_DENY_PRIVATE_IPS: "true" or "false" (default: true)
func LoadConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	envBool("FETCH_ENHANCE_ENABLED", &cfg.EnhanceEnabled)
	envBool("FETCH_DENY_PRIVATE_IPS", &cfg.DenyPrivateIPs)

	if val := os.Getenv("FETCH_ENHANCE_THRESHOLD"); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			return cfg, fmt.Errorf("invalid FETCH_ENHANCE_THRESHOLD: %v", err)
		}
		cfg.EnhanceThreshold = parsed
	}
	if val := os.Getenv("FETCH_TIMEOUT"); val != "" {
		parsed, err := time.ParseDuration(val)
		if err != nil {
			return cfg, fmt.Errorf("invalid FETCH_TIMEOUT: %v (expected format: '10s', '1m')", err)
		}
		cfg.Timeout = parsed
	}
	if val := os.Getenv("FETCH_MAX_BODY_SIZE"); val != "" {
		parsed, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("invalid FETCH_MAX_BODY_SIZE: %v", err)
		}
		cfg.MaxBodySize = parsed
	}
	if val := os.Getenv("FETCH_MAX_REDIRECTS"); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			return cfg, fmt.Errorf("invalid FETCH_MAX_REDIRECTS: %v", err)
		}
		cfg.MaxRedirects = parsed
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}
