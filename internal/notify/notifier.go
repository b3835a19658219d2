package notify

import "context"

// Notifier delivers a short message about a finished analysis.
type Notifier interface {
	Send(ctx context.Context, title, body string) error
}

var _ Notifier = (*BarkNotifier)(nil)
