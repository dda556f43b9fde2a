// Package pagination implements offset pagination for list endpoints, with
// the strategy interface left open for cursor-based listing later.
package pagination

import (
	"os"
	"strconv"
)

// Config bounds what a client may request per page.
type Config struct {
	DefaultPage  int
	DefaultLimit int
	// MaxLimit caps the limit query parameter.
	MaxLimit int
}

// DefaultConfig is page 1, twenty items, capped at one hundred.
func DefaultConfig() Config {
	return Config{
		DefaultPage:  1,
		DefaultLimit: 20,
		MaxLimit:     100,
	}
}

// LoadFromEnv reads PAGINATION_DEFAULT_PAGE, PAGINATION_DEFAULT_LIMIT and
// PAGINATION_MAX_LIMIT, keeping the built-in defaults for anything unset or
// unparseable.
func LoadFromEnv() Config {
	return Config{
		DefaultPage:  getEnvAsInt("PAGINATION_DEFAULT_PAGE", 1),
		DefaultLimit: getEnvAsInt("PAGINATION_DEFAULT_LIMIT", 20),
		MaxLimit:     getEnvAsInt("PAGINATION_MAX_LIMIT", 100),
	}
}

func getEnvAsInt(key string, defaultValue int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultValue
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		return defaultValue
	}
	return val
}
