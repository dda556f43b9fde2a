package review

import (
	"context"
	"time"
)

// ContentSnapshot is what the external content source returns for one blog
// post. Content and Summary are plain text (markup already stripped).
type ContentSnapshot struct {
	Title       string
	Content     string
	Summary     string
	ImageURL    string
	PublishedAt time.Time
	Author      string
	Tags        []string
}

// ContentFetcher retrieves the content snapshot for a canonical post URL.
// It is an injected capability; implementations live under internal/infra.
// A failed fetch is reported as an error and handled per row by the
// ingestion pipeline.
type ContentFetcher interface {
	FetchPost(ctx context.Context, postURL string) (*ContentSnapshot, error)
}

// Notifier receives moderation-queue events. Implementations must not
// block ingestion; delivery is fire-and-forget.
type Notifier interface {
	NotifyUnmatched(ctx context.Context, postID, title, clinicNameHint string)
}
