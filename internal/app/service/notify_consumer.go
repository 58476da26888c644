package service

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/beijingsoftware/QR-Code-Database/internal/app/model"
	"github.com/beijingsoftware/QR-Code-Database/internal/infra/mail"
	"github.com/beijingsoftware/QR-Code-Database/internal/qrcode"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// NotifyConsumer consumes issue events from NATS JetStream and mails the
// requester a QR code pointing at the resolve endpoint. Delivery happens
// entirely off the issuance request path.
type NotifyConsumer struct {
	js      nats.JetStreamContext
	logger  *zap.Logger
	mailer  mail.Sender
	baseURL string
}

// NewNotifyConsumer creates a new issue event consumer.
func NewNotifyConsumer(js nats.JetStreamContext, logger *zap.Logger, mailer mail.Sender, baseURL string) *NotifyConsumer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotifyConsumer{js: js, logger: logger, mailer: mailer, baseURL: baseURL}
}

// Start begins consuming issue events.
func (c *NotifyConsumer) Start() error {
	// Create stream if not exists
	_, err := c.js.StreamInfo(model.IssueStreamName)
	if err != nil {
		_, err = c.js.AddStream(&nats.StreamConfig{
			Name:     model.IssueStreamName,
			Subjects: []string{model.IssueStreamSubject},
			MaxBytes: model.IssueStreamMaxBytes,
		})
		if err != nil {
			return fmt.Errorf("failed to create stream: %w", err)
		}
	}

	// Create consumer if not exists
	_, err = c.js.ConsumerInfo(model.IssueStreamName, model.IssueConsumerName)
	if err != nil {
		_, err = c.js.AddConsumer(model.IssueStreamName, &nats.ConsumerConfig{
			Durable:   model.IssueConsumerName,
			AckPolicy: nats.AckExplicitPolicy,
		})
		if err != nil {
			return fmt.Errorf("failed to create consumer: %w", err)
		}
	}

	sub, err := c.js.PullSubscribe(model.IssueStreamSubject, model.IssueConsumerName)
	if err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}

	go c.consume(sub)
	return nil
}

func (c *NotifyConsumer) consume(sub *nats.Subscription) {
	ctx := context.Background()
	for {
		msgs, err := sub.Fetch(10, nats.MaxWait(5*time.Second))
		if err != nil && err != nats.ErrTimeout {
			c.logger.Error("failed to fetch messages", zap.Error(err))
			continue
		}

		for _, msg := range msgs {
			var event model.IssueEvent
			if err := json.Unmarshal(msg.Data, &event); err != nil {
				c.logger.Error("failed to unmarshal issue event", zap.Error(err))
				msg.Nak()
				continue
			}

			// Events without a notification address need no mail.
			if event.Email == "" {
				msg.Ack()
				continue
			}

			if err := c.deliver(ctx, event); err != nil {
				c.logger.Error("failed to deliver QR mail",
					zap.String("id", event.ID),
					zap.Int64("code_id", event.CodeID),
					zap.Error(err))
				msg.Nak()
				continue
			}

			c.logger.Debug("QR mail delivered",
				zap.String("id", event.ID),
				zap.Int64("code_id", event.CodeID),
			)

			msg.Ack()
		}
	}
}

func (c *NotifyConsumer) deliver(ctx context.Context, event model.IssueEvent) error {
	payload := ResolveURL(c.baseURL, event.CodeID, event.Secret)

	png, err := qrcode.EncodePNG(payload)
	if err != nil {
		return fmt.Errorf("encode qr: %w", err)
	}

	return c.mailer.Send(ctx, mail.Message{
		To:         event.Email,
		Subject:    "QR Code Generation",
		HTMLBody:   issueMailBody(event.Link),
		InlinePNG:  png,
		InlineName: "qrcode.png",
	})
}

// ResolveURL builds the distributable pointer for a code: the resolve
// endpoint with id and secret as query parameters.
func ResolveURL(baseURL string, codeID int64, secret string) string {
	q := url.Values{}
	q.Set("id", strconv.FormatInt(codeID, 10))
	q.Set("secret", secret)
	return strings.TrimRight(baseURL, "/") + "/resolve?" + q.Encode()
}

func issueMailBody(link string) string {
	return fmt.Sprintf(`
<html>
  <body>
    <p>Thank you for your submission!</p>
    <p>Your submitted link: %s</p>
    <p>Scan the QR code below to view your data:</p>
    <img src="cid:qrcode.png" alt="QR Code">
  </body>
</html>
`, html.EscapeString(link))
}
