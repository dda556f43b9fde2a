// Package review implements the blog-review ingestion pipeline and the
// moderation/listing use cases built on top of it. Ingestion normalizes a
// raw blog URL, deduplicates against previously ingested posts, fetches a
// content snapshot, attempts to match the post to a clinic, and persists
// the result for moderation.
package review

import "errors"

// Sentinel errors for review use case operations.
var (
	// ErrPostNotFound indicates that the requested blog post was not found.
	// Public retrieval also returns this for posts that exist but are not
	// verified, so moderation-queue contents are not distinguishable from
	// absence.
	ErrPostNotFound = errors.New("blog post not found")

	// ErrClinicNotFound indicates that the referenced clinic does not exist
	// in the directory.
	ErrClinicNotFound = errors.New("clinic not found")

	// ErrInvalidPostID indicates that the provided post ID is empty.
	ErrInvalidPostID = errors.New("invalid post ID")

	// ErrFetchFailed indicates the external content source was unreachable
	// or returned nothing for the requested post. During batch ingestion
	// this is recorded per row and never aborts the batch.
	ErrFetchFailed = errors.New("blog content could not be fetched")
)
