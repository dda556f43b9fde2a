// Package search provides helpers for building SQL text-search patterns.
package search

import "strings"

// EscapeLike escapes LIKE wildcard characters in a user-supplied keyword and
// wraps it in % wildcards for substring matching. Queries using the result
// must declare ESCAPE '\' so the backslash escapes survive both dialects.
func EscapeLike(keyword string) string {
	replacer := strings.NewReplacer(
		`\`, `\\`,
		`%`, `\%`,
		`_`, `\_`,
	)
	return "%" + replacer.Replace(keyword) + "%"
}
