package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

// webhookClient holds the send mechanics shared by the Slack and Discord
// notifiers: JSON POST, status classification, rate limiting, and a short
// retry loop honoring Retry-After.
type webhookClient struct {
	name        string
	config      Config
	httpClient  *http.Client
	rateLimiter *RateLimiter
	logger      *slog.Logger
}

func newWebhookClient(name string, cfg Config, rps float64, burst int, logger *slog.Logger) *webhookClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &webhookClient{
		name:        name,
		config:      cfg,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		rateLimiter: NewRateLimiter(rps, burst),
		logger:      logger,
	}
}

// post sends one JSON payload and classifies the response status.
func (w *webhookClient) post(ctx context.Context, payload any) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.config.WebhookURL, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("create http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(resp.Body)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return &RateLimitError{
			Message:    fmt.Sprintf("%s rate limit exceeded", w.name),
			RetryAfter: extractRetryAfter(resp, body),
		}
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return &ClientError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("%s client error: %s", w.name, string(body)),
		}
	case resp.StatusCode >= 500:
		return &ServerError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("%s server error: %s", w.name, string(body)),
		}
	default:
		return fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(body))
	}
}

// send delivers a payload with rate limiting and retries. Alerting is best
// effort; failures are logged and swallowed so ingestion never stalls on a
// webhook outage.
func (w *webhookClient) send(ctx context.Context, postID string, payload any) {
	requestID, _ := ctx.Value(requestIDKey).(string)

	if err := w.rateLimiter.Allow(ctx); err != nil {
		w.logger.Error("notification rate limiter error",
			slog.String("notifier", w.name),
			slog.String("request_id", requestID),
			slog.String("post_id", postID),
			slog.Any("error", err))
		return
	}

	const (
		maxAttempts = 2
		baseDelay   = 5 * time.Second
	)

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := w.post(ctx, payload)
		if err == nil {
			w.logger.Info("unmatched post notification sent",
				slog.String("notifier", w.name),
				slog.String("request_id", requestID),
				slog.String("post_id", postID),
				slog.Int("attempt", attempt))
			return
		}
		lastErr = err

		if !isRetryableError(err) {
			w.logger.Error("notification failed with non-retryable error",
				slog.String("notifier", w.name),
				slog.String("request_id", requestID),
				slog.String("post_id", postID),
				slog.Any("error", err))
			return
		}

		delay := baseDelay * time.Duration(attempt)
		if rateLimitErr, ok := is429Error(err); ok {
			delay = rateLimitErr.RetryAfter
		}

		if attempt < maxAttempts {
			w.logger.Warn("notification failed, retrying",
				slog.String("notifier", w.name),
				slog.String("request_id", requestID),
				slog.String("post_id", postID),
				slog.Any("error", err),
				slog.Duration("delay", delay))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return
			}
		}
	}

	w.logger.Error("notification failed after all retries",
		slog.String("notifier", w.name),
		slog.String("request_id", requestID),
		slog.String("post_id", postID),
		slog.Any("error", lastErr))
}

// extractRetryAfter reads the backoff hint from a 429 response, trying the
// JSON body first and the Retry-After header second. Defaults to 5s.
func extractRetryAfter(resp *http.Response, body []byte) time.Duration {
	var parsed struct {
		RetryAfter float64 `json:"retry_after"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.RetryAfter > 0 {
		return time.Duration(parsed.RetryAfter * float64(time.Second))
	}

	if header := resp.Header.Get("Retry-After"); header != "" {
		if seconds, err := strconv.Atoi(header); err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
	}

	return 5 * time.Second
}
