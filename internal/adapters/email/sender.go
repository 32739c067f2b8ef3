package email

import (
	"context"
	"time"
)

// SendRequest contains the data needed to send an email via an external provider.
type SendRequest struct {
	To      []string // Recipient email addresses
	From    string   // Sender address; empty uses the sender's default
	Subject string
	HTML    string
	Text    string // Plain-text alternative
}

// SendResult contains the response from the email provider.
type SendResult struct {
	MessageID string    // Provider's message ID for tracking
	SentAt    time.Time // When the send was accepted
}

// Sender delivers one email through an external provider.
type Sender interface {
	Send(ctx context.Context, req SendRequest) (SendResult, error)
}

// NewSender returns a Resend-backed sender when apiKey is set, otherwise a NoopSender.
// PRE: from is a valid sender address when apiKey is set
// POST: Returns a usable Sender
func NewSender(apiKey, from string) Sender {
	if apiKey == "" {
		return NewNoopSender()
	}
	return NewResendSender(apiKey, from)
}
