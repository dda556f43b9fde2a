package middleware

import (
	"net/http"
	"strconv"
	"strings"
)

// CORSConfig drives the CORS middleware. Origin decisions go through the
// Validator; the AllowedOrigins slice is kept only for callers that still
// read the raw whitelist.
type CORSConfig struct {
	AllowedOrigins []string

	AllowedMethods []string
	AllowedHeaders []string

	// AllowCredentials must stay true for bearer-token authentication.
	AllowCredentials bool

	// MaxAge is the preflight cache lifetime in seconds.
	MaxAge int

	Validator OriginValidator

	// Logger receives policy-violation warnings; nil disables them.
	Logger CORSLogger
}

// preflight answers an OPTIONS request directly with 204 and the
// negotiated method, header, and cache lifetime headers.
func (c *CORSConfig) preflight(w http.ResponseWriter, r *http.Request, origin string) {
	w.Header().Set("Access-Control-Allow-Methods", strings.Join(c.AllowedMethods, ", "))
	w.Header().Set("Access-Control-Allow-Headers", strings.Join(c.AllowedHeaders, ", "))
	w.Header().Set("Access-Control-Max-Age", strconv.Itoa(c.MaxAge))

	if c.Logger != nil {
		c.Logger.Debug("CORS: preflight request", map[string]interface{}{
			"origin":            origin,
			"requested_method":  r.Header.Get("Access-Control-Request-Method"),
			"requested_headers": r.Header.Get("Access-Control-Request-Headers"),
		})
	}

	w.WriteHeader(http.StatusNoContent)
}

// CORS validates the Origin header against the configured validator. Allowed
// origins are echoed back with credentials enabled; preflight OPTIONS
// requests are answered directly with 204. Disallowed origins get no CORS
// headers at all, which makes the browser block the response, but the request
// itself still reaches the handler.
func CORS(config CORSConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			// Same-origin requests carry no Origin header.
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			if !config.Validator.IsAllowed(origin) {
				if config.Logger != nil {
					config.Logger.Warn("CORS: origin not allowed", map[string]interface{}{
						"origin":      origin,
						"path":        r.URL.Path,
						"method":      r.Method,
						"remote_addr": r.RemoteAddr,
					})
				}
				next.ServeHTTP(w, r)
				return
			}

			// Echo the origin rather than "*"; wildcards are invalid
			// with credentials.
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")

			if r.Method == http.MethodOptions {
				config.preflight(w, r, origin)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
