package mail

import (
	"bytes"
	"context"
	"fmt"

	"github.com/beijingsoftware/QR-Code-Database/config"
	gomail "github.com/wneessen/go-mail"
)

// Message is one outbound notification. InlinePNG, when set, is embedded so
// HTML bodies can reference it by InlineName.
type Message struct {
	To         string
	Subject    string
	HTMLBody   string
	InlinePNG  []byte
	InlineName string
}

// Sender delivers outbound mail.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPSender delivers mail through a configured SMTP relay.
type SMTPSender struct {
	client *gomail.Client
	from   string
}

// NewSMTPSender builds a sender from SMTP config. Authentication is used
// only when a user is configured.
func NewSMTPSender(cfg config.SMTPConfig) (*SMTPSender, error) {
	port := cfg.Port
	if port == 0 {
		port = 587
	}

	opts := []gomail.Option{
		gomail.WithPort(port),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
	}
	if cfg.User != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.User),
			gomail.WithPassword(cfg.Password),
		)
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("mail: create client: %w", err)
	}

	return &SMTPSender{client: client, from: cfg.From}, nil
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	m := gomail.NewMsg()
	if err := m.From(s.from); err != nil {
		return fmt.Errorf("mail: set from: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return fmt.Errorf("mail: set recipient: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(gomail.TypeTextHTML, msg.HTMLBody)

	if len(msg.InlinePNG) > 0 {
		name := msg.InlineName
		if name == "" {
			name = "qrcode.png"
		}
		if err := m.EmbedReader(name, bytes.NewReader(msg.InlinePNG)); err != nil {
			return fmt.Errorf("mail: embed image: %w", err)
		}
	}

	if err := s.client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("mail: send: %w", err)
	}
	return nil
}
