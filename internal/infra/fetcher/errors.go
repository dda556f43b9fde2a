package fetcher

import "errors"

// Sentinel errors for content fetching. Callers match with errors.Is to
// distinguish permanent rejections from transient failures.
var (
	// ErrInvalidURL means the URL failed validation before any request was made.
	ErrInvalidURL = errors.New("invalid URL")

	// ErrPrivateIP means the hostname resolves to a private or loopback
	// address and the request was refused.
	ErrPrivateIP = errors.New("URL resolves to private IP")

	// ErrTimeout means the request exceeded the configured timeout.
	ErrTimeout = errors.New("request timeout")

	// ErrBodyTooLarge means the response exceeded the configured size limit.
	ErrBodyTooLarge = errors.New("response body too large")

	// ErrTooManyRedirects means the redirect chain exceeded the limit.
	ErrTooManyRedirects = errors.New("too many redirects")

	// ErrExtractFailed means the page was fetched but no readable
	// content could be extracted from it.
	ErrExtractFailed = errors.New("content extraction failed")

	// ErrPostNotInFeed means the blog's feed was fetched but does not
	// list the requested post. Naver feeds only carry recent entries.
	ErrPostNotInFeed = errors.New("post not present in blog feed")
)
