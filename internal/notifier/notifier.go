// Package notifier is the boundary to the outbound notification channel.
// Real delivery (email) happens in an external system; this package only
// fixes the capability interface the consumer drives.
package notifier

import (
	"context"

	"go.uber.org/zap"
)

type Notifier interface {
	Notify(ctx context.Context, subject, message string) error
}

// LogNotifier stands in for the mailer: it records what would have been
// sent.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(ctx context.Context, subject, message string) error {
	n.log.Info("notification",
		zap.String("subject", subject),
		zap.String("message", message))
	return nil
}
