package middleware

// OriginValidator decides whether an Origin header value may make
// cross-origin requests. Implementations must treat empty origins as
// disallowed and return a defensive copy from GetAllowedOrigins.
type OriginValidator interface {
	IsAllowed(origin string) bool

	// GetAllowedOrigins exposes the configured whitelist for logging and
	// startup diagnostics.
	GetAllowedOrigins() []string
}

// ConfigSource abstracts where CORS settings come from, so the environment
// loader can be swapped for files or a config service without touching the
// middleware.
type ConfigSource interface {
	// LoadOrigins returns the allowed origins. Loaders fail closed: no
	// origins configured is an error, not an open policy.
	LoadOrigins() ([]string, error)

	// LoadMethods returns the allowed HTTP methods, applying a default
	// when none are configured.
	LoadMethods() ([]string, error)

	// LoadHeaders returns the allowed request headers, applying a default
	// when none are configured.
	LoadHeaders() ([]string, error)

	// LoadMaxAge returns the preflight cache lifetime in seconds.
	LoadMaxAge() (int, error)
}

// CORSLogger is the logging seam for the CORS middleware. Production wires
// SlogAdapter; tests use NoOpLogger.
type CORSLogger interface {
	Info(msg string, fields map[string]interface{})

	// Warn is used for policy violations such as disallowed origins.
	Warn(msg string, fields map[string]interface{})

	Debug(msg string, fields map[string]interface{})
}
