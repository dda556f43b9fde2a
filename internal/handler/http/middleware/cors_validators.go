package middleware

import (
	"strings"
)

// WhitelistValidator allows exactly the configured origins. Entries are
// normalized on construction (trimmed, lowercased, trailing slash removed) so
// "https://HanClinics.kr/" and "https://hanclinics.kr" compare equal.
type WhitelistValidator struct {
	allowedOrigins []string
}

// NewWhitelistValidator normalizes and stores the whitelist. Empty entries
// are dropped.
func NewWhitelistValidator(origins []string) *WhitelistValidator {
	normalized := make([]string, 0, len(origins))
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		origin = strings.TrimSuffix(strings.ToLower(origin), "/")
		normalized = append(normalized, origin)
	}

	return &WhitelistValidator{allowedOrigins: normalized}
}

// IsAllowed normalizes the incoming origin the same way the whitelist was
// normalized, then looks for an exact match. Empty origins are rejected.
func (v *WhitelistValidator) IsAllowed(origin string) bool {
	if origin == "" {
		return false
	}

	origin = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(origin)), "/")

	for _, allowed := range v.allowedOrigins {
		if origin == allowed {
			return true
		}
	}
	return false
}

// GetAllowedOrigins returns a copy so callers cannot mutate the whitelist.
func (v *WhitelistValidator) GetAllowedOrigins() []string {
	out := make([]string, len(v.allowedOrigins))
	copy(out, v.allowedOrigins)
	return out
}
