package notifier

import "context"

// Noop discards all notifications. Used when alerting is disabled.
type Noop struct{}

// NewNoop creates a notifier that does nothing.
func NewNoop() *Noop {
	return &Noop{}
}

// NotifyUnmatched implements review.Notifier as a no-op.
func (n *Noop) NotifyUnmatched(_ context.Context, _, _, _ string) {}
