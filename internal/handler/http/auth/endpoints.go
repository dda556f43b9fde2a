// Package auth provides JWT authentication for the admin moderation surface.
// Public read endpoints stay open; everything under /admin requires an admin
// token issued by /auth/token.
package auth

import "strings"

// PublicEndpoints lists paths that never require authentication.
//
// - /health, /ready, /live: orchestration probes
// - /metrics: Prometheus scraping
// - /auth/token: token issuance (a token cannot be required to obtain one)
// - /reviews, /clinics: the public read surface serves verified content only
var PublicEndpoints = []string{
	"/health",
	"/healthz",
	"/ready",
	"/live",
	"/metrics",
	"/auth/token",
	"/reviews",
	"/reviews/",
	"/clinics",
}

// IsPublicEndpoint reports whether the path is publicly accessible.
// Entries ending with '/' match by prefix so nested paths like
// /reviews/<id> stay public; other entries match exactly, with an optional
// trailing slash or query string. /healthcheck must not match /health.
func IsPublicEndpoint(path string) bool {
	for _, endpoint := range PublicEndpoints {
		if strings.HasSuffix(endpoint, "/") {
			if strings.HasPrefix(path, endpoint) {
				return true
			}
			continue
		}
		if path == endpoint || path == endpoint+"/" {
			return true
		}
		if strings.HasPrefix(path, endpoint+"?") {
			return true
		}
	}
	return false
}
