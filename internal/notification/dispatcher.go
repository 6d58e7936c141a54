// Package notification delivers outbound messages (credentials, reset codes,
// birthday reminders) to staff mailboxes.
package notification

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
)

// ErrNoRecipients is returned when a message has no addresses to deliver to.
var ErrNoRecipients = errors.New("notification has no recipients")

// Message is a single outbound notification.
type Message struct {
	To      []string
	Subject string
	Body    string
	HTML    bool
}

// Dispatcher sends a message to every recipient in one delivery.
type Dispatcher interface {
	Send(ctx context.Context, msg Message) error
}

// LogDispatcher records messages in the log instead of delivering them. It is
// used when no SMTP relay is configured.
type LogDispatcher struct {
	logger *zap.Logger
}

// NewLogDispatcher creates a log-only dispatcher.
func NewLogDispatcher(logger *zap.Logger) *LogDispatcher {
	return &LogDispatcher{logger: logger.With(zap.String("component", "notification"))}
}

// Send logs recipients and subject. Bodies may carry secrets and are never logged.
func (d *LogDispatcher) Send(_ context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return ErrNoRecipients
	}
	d.logger.Info("notification dispatched (log only)",
		zap.String("to", strings.Join(msg.To, ",")),
		zap.String("subject", msg.Subject))
	return nil
}
