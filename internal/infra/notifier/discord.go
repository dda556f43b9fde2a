package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const (
	maxTitleLength = 256

	// Discord blue (#5865F2)
	discordBlueColor = 5793266
)

// DiscordNotifier posts unmatched-post alerts to a Discord webhook.
// Discord webhooks allow 30 requests per minute, so the limiter runs at
// 0.5 req/s with a small burst.
type DiscordNotifier struct {
	client *webhookClient
}

// NewDiscord creates a Discord notifier with the given configuration.
func NewDiscord(cfg Config, logger *slog.Logger) *DiscordNotifier {
	return &DiscordNotifier{
		client: newWebhookClient("discord", cfg, 0.5, 3, logger),
	}
}

type discordPayload struct {
	Embeds []discordEmbed `json:"embeds"`
}

type discordEmbed struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	URL         string             `json:"url,omitempty"`
	Color       int                `json:"color"`
	Footer      discordEmbedFooter `json:"footer"`
	Timestamp   string             `json:"timestamp"`
}

type discordEmbedFooter struct {
	Text string `json:"text"`
}

// NotifyUnmatched implements review.Notifier.
func (d *DiscordNotifier) NotifyUnmatched(ctx context.Context, postID, title, clinicNameHint string) {
	ctx = context.WithValue(ctx, requestIDKey, uuid.New().String())

	if len(title) > maxTitleLength {
		title = title[:maxTitleLength]
	}
	hint := clinicNameHint
	if hint == "" {
		hint = "(none)"
	}

	payload := discordPayload{
		Embeds: []discordEmbed{
			{
				Title:       title,
				Description: fmt.Sprintf("Unmatched blog post needs review.\nClinic hint: %s\nPost ID: %s", hint, postID),
				URL:         d.client.config.QueueURL,
				Color:       discordBlueColor,
				Footer:      discordEmbedFooter{Text: "clinic-reviews"},
				Timestamp:   time.Now().UTC().Format(time.RFC3339),
			},
		},
	}

	d.client.send(ctx, postID, payload)
}
