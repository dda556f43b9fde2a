package pathutil

import (
	"regexp"
	"strings"
)

// PathPattern represents a regex pattern and its corresponding normalized template.
type PathPattern struct {
	Pattern  *regexp.Regexp
	Template string
}

// pathPatterns lists the dynamic routes, most specific first. Pre-compiled
// at initialization so normalization stays cheap on the hot path.
var pathPatterns = []*PathPattern{
	{Pattern: regexp.MustCompile(`^/reviews/[^/]+$`), Template: "/reviews/:id"},
	{Pattern: regexp.MustCompile(`^/admin/blog-posts/unmatched$`), Template: "/admin/blog-posts/unmatched"},
	{Pattern: regexp.MustCompile(`^/admin/blog-posts/import-csv$`), Template: "/admin/blog-posts/import-csv"},
	{Pattern: regexp.MustCompile(`^/admin/blog-posts/[^/]+/match$`), Template: "/admin/blog-posts/:id/match"},
	{Pattern: regexp.MustCompile(`^/admin/blog-posts/[^/]+/verify$`), Template: "/admin/blog-posts/:id/verify"},
	{Pattern: regexp.MustCompile(`^/admin/blog-posts/[^/]+$`), Template: "/admin/blog-posts/:id"},
}

// NormalizePath collapses dynamic URL paths to templates so metrics labels
// keep a bounded cardinality. Static paths pass through unchanged.
//
// Examples:
//
//	NormalizePath("/reviews/3f1a")                 // "/reviews/:id"
//	NormalizePath("/admin/blog-posts/3f1a/match")  // "/admin/blog-posts/:id/match"
//	NormalizePath("/reviews")                      // "/reviews" (unchanged)
//	NormalizePath("/health")                       // "/health" (unchanged)
func NormalizePath(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}
	for _, p := range pathPatterns {
		if p.Pattern.MatchString(path) {
			return p.Template
		}
	}
	return path
}
