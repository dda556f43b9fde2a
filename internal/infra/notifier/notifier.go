// Package notifier sends webhook alerts when an ingested blog post could
// not be matched to a clinic and needs manual review. Implementations for
// Slack and Discord webhooks are provided, plus a no-op for deployments
// that do not want alerts. All implementations satisfy review.Notifier.
package notifier

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"clinic-reviews/internal/usecase/review"
)

// FromEnv builds a notifier from environment variables.
//
// Environment variables:
//   - NOTIFIER: "slack", "discord", or "none" (default: none)
//   - NOTIFIER_WEBHOOK_URL: webhook URL for slack/discord
//   - NOTIFIER_TIMEOUT: HTTP timeout, duration string (default: 10s)
//   - ADMIN_QUEUE_URL: optional link to the moderation queue, included
//     in messages so reviewers can jump straight to it
func FromEnv(logger *slog.Logger) (review.Notifier, error) {
	kind := os.Getenv("NOTIFIER")
	if kind == "" || kind == "none" {
		return NewNoop(), nil
	}

	webhookURL := os.Getenv("NOTIFIER_WEBHOOK_URL")
	if webhookURL == "" {
		return nil, fmt.Errorf("NOTIFIER=%s requires NOTIFIER_WEBHOOK_URL", kind)
	}

	timeout := 10 * time.Second
	if val := os.Getenv("NOTIFIER_TIMEOUT"); val != "" {
		parsed, err := time.ParseDuration(val)
		if err != nil {
			return nil, fmt.Errorf("invalid NOTIFIER_TIMEOUT: %v", err)
		}
		timeout = parsed
	}

	cfg := Config{
		WebhookURL: webhookURL,
		Timeout:    timeout,
		QueueURL:   os.Getenv("ADMIN_QUEUE_URL"),
	}

	switch kind {
	case "slack":
		return NewSlack(cfg, logger), nil
	case "discord":
		return NewDiscord(cfg, logger), nil
	default:
		return nil, fmt.Errorf("unknown NOTIFIER value: %q", kind)
	}
}

// Config holds webhook notifier settings shared by all implementations.
type Config struct {
	// WebhookURL is the full webhook endpoint, token included.
	WebhookURL string

	// Timeout bounds a single webhook request.
	Timeout time.Duration

	// QueueURL, when set, is linked in each message.
	QueueURL string
}
