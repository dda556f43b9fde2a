package pathutil

import (
	"errors"
	"strings"
)

// ErrInvalidID is returned when the ID in the URL path is invalid.
var ErrInvalidID = errors.New("invalid id")

// ExtractID extracts a post ID from a URL path. It removes the given prefix
// and, when suffix is non-empty, the trailing action segment.
//
// Example:
//
//	id, err := ExtractID("/admin/blog-posts/ab12/match", "/admin/blog-posts/", "/match")
//	// Returns: "ab12", nil
func ExtractID(path, prefix, suffix string) (string, error) {
	if !strings.HasPrefix(path, prefix) {
		return "", ErrInvalidID
	}
	id := strings.TrimPrefix(path, prefix)
	if suffix != "" {
		if !strings.HasSuffix(id, suffix) {
			return "", ErrInvalidID
		}
		id = strings.TrimSuffix(id, suffix)
	}
	id = strings.TrimSuffix(id, "/")
	if id == "" || strings.Contains(id, "/") {
		return "", ErrInvalidID
	}
	return id, nil
}
