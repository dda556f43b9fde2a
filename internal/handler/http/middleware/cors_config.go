package middleware

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
)

// EnvConfigSource loads CORS settings from environment variables:
// CORS_ALLOWED_ORIGINS (required), CORS_ALLOWED_METHODS, CORS_ALLOWED_HEADERS
// and CORS_MAX_AGE (all optional with defaults).
type EnvConfigSource struct{}

// splitCSV returns the trimmed, non-empty entries of a comma-separated list.
func splitCSV(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// LoadOrigins parses the comma-separated CORS_ALLOWED_ORIGINS list. The
// variable is required; each entry must be a bare http or https origin with
// no path, query, fragment or trailing slash.
func (s *EnvConfigSource) LoadOrigins() ([]string, error) {
	raw := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if raw == "" {
		return nil, fmt.Errorf("CORS_ALLOWED_ORIGINS environment variable is required")
	}

	origins := splitCSV(raw)
	for _, origin := range origins {
		if err := checkOrigin(origin); err != nil {
			return nil, err
		}
	}
	if len(origins) == 0 {
		return nil, fmt.Errorf("at least one valid origin must be configured in CORS_ALLOWED_ORIGINS")
	}
	return origins, nil
}

func checkOrigin(origin string) error {
	u, err := url.Parse(origin)
	if err != nil {
		return fmt.Errorf("invalid origin URL '%s': %w", origin, err)
	}
	switch {
	case u.Scheme != "http" && u.Scheme != "https":
		return fmt.Errorf("origin must use http or https scheme: %s", origin)
	case u.Path != "" && u.Path != "/":
		return fmt.Errorf("origin must not include path: %s", origin)
	case u.RawQuery != "":
		return fmt.Errorf("origin must not include query string: %s", origin)
	case u.Fragment != "":
		return fmt.Errorf("origin must not include fragment: %s", origin)
	case strings.HasSuffix(origin, "/"):
		return fmt.Errorf("origin must not have trailing slash: %s", origin)
	}
	return nil
}

// LoadMethods parses CORS_ALLOWED_METHODS, defaulting to the full method set
// the API serves. Only the standard CORS verbs are accepted.
func (s *EnvConfigSource) LoadMethods() ([]string, error) {
	raw := strings.TrimSpace(os.Getenv("CORS_ALLOWED_METHODS"))
	if raw == "" {
		return []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"}, nil
	}

	valid := map[string]bool{
		"GET": true, "POST": true, "PUT": true,
		"DELETE": true, "PATCH": true, "OPTIONS": true,
	}

	var methods []string
	for _, method := range splitCSV(raw) {
		method = strings.ToUpper(method)
		if !valid[method] {
			return nil, fmt.Errorf("invalid HTTP method '%s': must be one of GET, POST, PUT, DELETE, PATCH, OPTIONS", method)
		}
		methods = append(methods, method)
	}
	if len(methods) == 0 {
		return nil, fmt.Errorf("at least one valid HTTP method must be configured in CORS_ALLOWED_METHODS")
	}
	return methods, nil
}

// LoadHeaders parses CORS_ALLOWED_HEADERS, defaulting to the headers the
// frontend actually sends.
func (s *EnvConfigSource) LoadHeaders() ([]string, error) {
	raw := strings.TrimSpace(os.Getenv("CORS_ALLOWED_HEADERS"))
	if raw == "" {
		return []string{"Content-Type", "Authorization", "X-Request-ID", "X-Trace-ID"}, nil
	}

	headers := splitCSV(raw)
	if len(headers) == 0 {
		return nil, fmt.Errorf("at least one valid header must be configured in CORS_ALLOWED_HEADERS")
	}
	return headers, nil
}

// LoadMaxAge parses CORS_MAX_AGE as a non-negative number of seconds,
// defaulting to 24 hours.
func (s *EnvConfigSource) LoadMaxAge() (int, error) {
	raw := strings.TrimSpace(os.Getenv("CORS_MAX_AGE"))
	if raw == "" {
		return 86400, nil
	}

	maxAge, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid CORS_MAX_AGE '%s': must be a valid integer", raw)
	}
	if maxAge < 0 {
		return 0, fmt.Errorf("CORS_MAX_AGE must be non-negative, got: %d", maxAge)
	}
	return maxAge, nil
}

// LoadCORSConfig loads CORS configuration from environment variables. The
// caller injects a Logger afterwards if violation logging is wanted.
func LoadCORSConfig() (*CORSConfig, error) {
	return LoadCORSConfigFromSource(&EnvConfigSource{}, nil)
}

// LoadCORSConfigFromSource builds a CORSConfig from any ConfigSource and
// wires a WhitelistValidator over the loaded origins. Credentials are always
// allowed because the frontend authenticates with bearer tokens.
func LoadCORSConfigFromSource(source ConfigSource, logger CORSLogger) (*CORSConfig, error) {
	origins, err := source.LoadOrigins()
	if err != nil {
		return nil, fmt.Errorf("failed to load allowed origins: %w", err)
	}
	methods, err := source.LoadMethods()
	if err != nil {
		return nil, fmt.Errorf("failed to load allowed methods: %w", err)
	}
	headers, err := source.LoadHeaders()
	if err != nil {
		return nil, fmt.Errorf("failed to load allowed headers: %w", err)
	}
	maxAge, err := source.LoadMaxAge()
	if err != nil {
		return nil, fmt.Errorf("failed to load max age: %w", err)
	}

	return &CORSConfig{
		AllowedOrigins:   origins,
		AllowedMethods:   methods,
		AllowedHeaders:   headers,
		AllowCredentials: true,
		MaxAge:           maxAge,
		Validator:        NewWhitelistValidator(origins),
		Logger:           logger,
	}, nil
}
