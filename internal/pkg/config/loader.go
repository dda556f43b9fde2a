package config

import (
	"fmt"
	"os"
	"time"
)

// ConfigLoadResult carries a loaded configuration value together with any
// warnings produced while loading it. Loaders never fail: when a value cannot
// be parsed or validated they fall back to the default, set FallbackApplied,
// and record a warning for the caller to log.
type ConfigLoadResult struct {
	Value           interface{}
	Warnings        []string
	FallbackApplied bool
}

func fallbackResult(envKey, raw string, reason interface{}, defaultValue interface{}) ConfigLoadResult {
	warning := fmt.Sprintf("Invalid %s='%s': %v, falling back to default '%v'",
		envKey, raw, reason, defaultValue)
	return ConfigLoadResult{
		Value:           defaultValue,
		Warnings:        []string{warning},
		FallbackApplied: true,
	}
}

func okResult(value interface{}) ConfigLoadResult {
	return ConfigLoadResult{Value: value}
}

// LoadEnvString returns the environment variable's value, or defaultValue when
// the variable is unset or empty. No validation is applied.
func LoadEnvString(envKey, defaultValue string) string {
	if value := os.Getenv(envKey); value != "" {
		return value
	}
	return defaultValue
}

// LoadEnvWithFallback reads a string from the environment and runs it through
// validator (which may be nil). An unset variable uses the default silently; a
// value that fails validation uses the default with a warning.
func LoadEnvWithFallback(envKey, defaultValue string, validator func(string) error) ConfigLoadResult {
	value := os.Getenv(envKey)
	if value == "" {
		return okResult(defaultValue)
	}
	if validator != nil {
		if err := validator(value); err != nil {
			return fallbackResult(envKey, value, err, defaultValue)
		}
	}
	return okResult(value)
}

// LoadEnvDuration reads a time.ParseDuration string ("30s", "5m", "1h30m")
// from the environment. Parse or validation failures fall back to the default
// with a warning.
func LoadEnvDuration(envKey string, defaultValue time.Duration, validator func(time.Duration) error) ConfigLoadResult {
	valueStr := os.Getenv(envKey)
	if valueStr == "" {
		return okResult(defaultValue)
	}
	parsed, err := time.ParseDuration(valueStr)
	if err != nil {
		return fallbackResult(envKey, valueStr, err, defaultValue)
	}
	if validator != nil {
		if err := validator(parsed); err != nil {
			return fallbackResult(envKey, valueStr, err, defaultValue)
		}
	}
	return okResult(parsed)
}

// LoadEnvInt reads an integer from the environment. Parse or validation
// failures fall back to the default with a warning.
func LoadEnvInt(envKey string, defaultValue int, validator func(int) error) ConfigLoadResult {
	valueStr := os.Getenv(envKey)
	if valueStr == "" {
		return okResult(defaultValue)
	}
	var parsed int
	if _, err := fmt.Sscanf(valueStr, "%d", &parsed); err != nil {
		return fallbackResult(envKey, valueStr, "invalid integer format", defaultValue)
	}
	if validator != nil {
		if err := validator(parsed); err != nil {
			return fallbackResult(envKey, valueStr, err, defaultValue)
		}
	}
	return okResult(parsed)
}

// LoadEnvBool reads a boolean from the environment. Accepted spellings follow
// strconv.ParseBool ("1"/"t"/"true" and their cased variants, likewise for
// false). Anything else falls back to the default with a warning.
func LoadEnvBool(envKey string, defaultValue bool) ConfigLoadResult {
	valueStr := os.Getenv(envKey)
	if valueStr == "" {
		return okResult(defaultValue)
	}
	switch valueStr {
	case "1", "t", "T", "true", "TRUE", "True":
		return okResult(true)
	case "0", "f", "F", "false", "FALSE", "False":
		return okResult(false)
	default:
		return fallbackResult(envKey, valueStr,
			"invalid boolean format, expected 'true' or 'false'", defaultValue)
	}
}
