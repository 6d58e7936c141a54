package notification

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/membership-hub/membership-service/internal/config"
)

// SMTPDispatcher delivers messages through an SMTP relay.
type SMTPDispatcher struct {
	client *mail.Client
	from   string
	logger *zap.Logger
}

// NewSMTPDispatcher builds a dispatcher from the notification config.
func NewSMTPDispatcher(cfg config.NotificationConfig, logger *zap.Logger) (*SMTPDispatcher, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.SMTPPort),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.SMTPUsername != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.SMTPUsername),
			mail.WithPassword(cfg.SMTPPassword),
		)
	}

	client, err := mail.NewClient(cfg.SMTPHost, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return &SMTPDispatcher{
		client: client,
		from:   cfg.EmailFrom,
		logger: logger.With(zap.String("component", "notification")),
	}, nil
}

// Send delivers msg to all recipients in a single SMTP transaction.
func (d *SMTPDispatcher) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return ErrNoRecipients
	}

	m := mail.NewMsg()
	if err := m.From(d.from); err != nil {
		return fmt.Errorf("set sender: %w", err)
	}
	if err := m.To(msg.To...); err != nil {
		return fmt.Errorf("set recipients: %w", err)
	}
	m.Subject(msg.Subject)
	contentType := mail.TypeTextPlain
	if msg.HTML {
		contentType = mail.TypeTextHTML
	}
	m.SetBodyString(contentType, msg.Body)

	if err := d.client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	d.logger.Debug("notification sent", zap.Int("recipients", len(msg.To)), zap.String("subject", msg.Subject))
	return nil
}

// New selects the SMTP dispatcher when a relay host is configured and the
// log-only dispatcher otherwise.
func New(cfg config.NotificationConfig, logger *zap.Logger) (Dispatcher, error) {
	if cfg.SMTPHost == "" {
		logger.Warn("SMTP_HOST not provided; notifications will only be logged")
		return NewLogDispatcher(logger), nil
	}
	return NewSMTPDispatcher(cfg, logger)
}
