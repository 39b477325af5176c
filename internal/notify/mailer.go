package notify

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

// SMTPMailer sends plain-text mail through an SMTP relay.
type SMTPMailer struct {
	client *mail.Client
	from   string
}

// NewSMTPMailer configures a client for host:port. Authentication is used when user is set.
func NewSMTPMailer(host string, port int, user, password, from string) (*SMTPMailer, error) {
	opts := []mail.Option{
		mail.WithPort(port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if user != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(user),
			mail.WithPassword(password),
		)
	}

	client, err := mail.NewClient(host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create SMTP client: %w", err)
	}
	return &SMTPMailer{client: client, from: from}, nil
}

// Send delivers n.
func (m *SMTPMailer) Send(ctx context.Context, n Notification) error {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("invalid sender %q: %w", m.from, err)
	}
	if err := msg.To(n.Recipient); err != nil {
		return fmt.Errorf("invalid recipient %q: %w", n.Recipient, err)
	}
	msg.Subject(n.Title)
	msg.SetBodyString(mail.TypeTextPlain, n.Message)

	return m.client.DialAndSendWithContext(ctx, msg)
}

// LogMailer writes notifications to the log instead of sending them.
type LogMailer struct {
	Log *zap.Logger
}

// Send logs n.
func (m *LogMailer) Send(_ context.Context, n Notification) error {
	m.Log.Info("mail",
		zap.String("kind", n.Kind),
		zap.String("to", n.Recipient),
		zap.String("subject", n.Title),
		zap.String("body", n.Message),
	)
	return nil
}
