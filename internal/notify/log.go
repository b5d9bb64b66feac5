package notify

import (
	"context"
	"log/slog"
)

// LogSender writes messages to the log. Used when no broker or SMTP relay is configured.
type LogSender struct {
	Log *slog.Logger
}

func (s *LogSender) Send(ctx context.Context, m Message) error {
	s.Log.InfoContext(ctx, "notification",
		"type", m.Kind, "order_code", m.OrderCode, "to", m.To, "subject", m.Subject, "body", m.Body)
	return nil
}
