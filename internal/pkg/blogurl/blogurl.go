// Package blogurl normalizes Naver blog URLs into canonical identifiers.
// Malformed or foreign URLs are a normal outcome, reported via a boolean
// rather than an error.
package blogurl

import (
	"fmt"
	"net/url"
	"strings"
)

// Hosts recognized as Naver blog frontends. The mobile host is folded into
// the desktop host during canonicalization.
var blogHosts = map[string]bool{
	"blog.naver.com":   true,
	"m.blog.naver.com": true,
}

const canonicalHost = "blog.naver.com"

// parse normalizes the scheme and parses the raw URL. Returns nil when the
// input is not a recognizable Naver blog URL.
func parse(raw string) *url.URL {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil
	}
	if !blogHosts[strings.ToLower(u.Hostname())] {
		return nil
	}
	return u
}

// ExtractBlogID extracts the blog identifier (the first path segment) from a
// raw Naver blog URL. The second return value is false when no identifier
// can be extracted.
func ExtractBlogID(raw string) (string, bool) {
	u := parse(raw)
	if u == nil {
		return "", false
	}
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) == 0 || segments[0] == "" {
		return "", false
	}
	return segments[0], true
}

// Canonicalize reduces a raw blog post URL to its deduplication-key form:
// https://blog.naver.com/<blogID>[/<postID>]. The mobile host is folded to
// the desktop host and query/fragment components are dropped.
func Canonicalize(raw string) (string, bool) {
	u := parse(raw)
	if u == nil {
		return "", false
	}
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) == 0 || segments[0] == "" {
		return "", false
	}
	canonical := "https://" + canonicalHost + "/" + segments[0]
	if len(segments) > 1 && segments[1] != "" {
		canonical += "/" + segments[1]
	}
	return canonical, true
}

// RSSURL derives the feed-retrieval URL for a blog identifier.
func RSSURL(blogID string) string {
	return fmt.Sprintf("https://rss.blog.naver.com/%s.xml", blogID)
}
