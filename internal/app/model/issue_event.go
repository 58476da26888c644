package model

import "time"

// IssueEvent announces a freshly issued link on the stream so the QR mail
// can be composed outside the issuance request path.
type IssueEvent struct {
	ID        string    `json:"id"`
	CodeID    int64     `json:"code_id"`
	Link      string    `json:"link"`
	Secret    string    `json:"secret"`
	Email     string    `json:"email,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	IssueStreamName     = "QR_ISSUES"
	IssueStreamSubject  = "qr.issues"
	IssueConsumerName   = "qr-mailer"
	IssueStreamMaxBytes = 1024 * 1024 * 50 // 50MB
)
