package service

import (
	"encoding/json"
	"time"

	"github.com/beijingsoftware/QR-Code-Database/internal/app/model"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

// IssuePublisher publishes issue events to NATS JetStream.
type IssuePublisher struct {
	js nats.JetStreamContext
}

// NewIssuePublisher creates a new issue event publisher.
func NewIssuePublisher(js nats.JetStreamContext) *IssuePublisher {
	return &IssuePublisher{js: js}
}

// Publish announces a freshly issued link on the stream.
func (p *IssuePublisher) Publish(link *model.Link, email string) error {
	event := model.IssueEvent{
		ID:        uuid.New().String(),
		CodeID:    int64(link.ID),
		Link:      link.Link,
		Secret:    link.Secret,
		Email:     email,
		Timestamp: time.Now(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	_, err = p.js.Publish(model.IssueStreamSubject, data)
	return err
}
