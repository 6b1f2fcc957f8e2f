package notify

import (
	"context"
	"log/slog"
)

// Notifier delivers admin alerts about failed runs, feeds and items.
type Notifier interface {
	Notify(ctx context.Context, subject, message string) error
}

// New returns a Telegram notifier when both token and chat are set and a
// log-only notifier otherwise.
func New(token, chatID string) Notifier {
	if token == "" || chatID == "" {
		slog.Debug("Telegram alerts disabled, admin alerts go to the log")
		return &LogNotifier{}
	}
	return NewTelegramNotifier(token, chatID)
}

// LogNotifier writes alerts to the application log.
type LogNotifier struct{}

var _ Notifier = (*LogNotifier)(nil)

func (n *LogNotifier) Notify(ctx context.Context, subject, message string) error {
	slog.Warn("Admin alert", "subject", subject, "message", message)
	return nil
}
