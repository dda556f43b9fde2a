package notifier

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// SlackNotifier posts unmatched-post alerts to a Slack incoming webhook.
// Slack allows roughly one message per second per webhook.
type SlackNotifier struct {
	client *webhookClient
}

// NewSlack creates a Slack notifier with the given configuration.
func NewSlack(cfg Config, logger *slog.Logger) *SlackNotifier {
	return &SlackNotifier{
		client: newWebhookClient("slack", cfg, 1.0, 3, logger),
	}
}

// slackPayload is a minimal Block Kit message.
type slackPayload struct {
	Text   string       `json:"text"`
	Blocks []slackBlock `json:"blocks,omitempty"`
}

type slackBlock struct {
	Type string     `json:"type"`
	Text *slackText `json:"text,omitempty"`
}

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// NotifyUnmatched implements review.Notifier.
func (s *SlackNotifier) NotifyUnmatched(ctx context.Context, postID, title, clinicNameHint string) {
	ctx = context.WithValue(ctx, requestIDKey, uuid.New().String())

	hint := clinicNameHint
	if hint == "" {
		hint = "(none)"
	}

	body := fmt.Sprintf("*%s*\nclinic hint: %s\npost ID: `%s`", title, hint, postID)
	if s.client.config.QueueURL != "" {
		body += fmt.Sprintf("\n<%s|Open review queue>", s.client.config.QueueURL)
	}

	payload := slackPayload{
		Text: "Unmatched blog post needs review",
		Blocks: []slackBlock{
			{Type: "header", Text: &slackText{Type: "plain_text", Text: "Unmatched blog post"}},
			{Type: "section", Text: &slackText{Type: "mrkdwn", Text: body}},
		},
	}

	s.client.send(ctx, postID, payload)
}
