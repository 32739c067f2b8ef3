package email

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// NoopSender logs sends without delivering them. Used when no provider key is configured.
type NoopSender struct{}

// NewNoopSender creates a new NoopSender.
func NewNoopSender() *NoopSender {
	return &NoopSender{}
}

// Send logs the email but does not deliver it.
// PRE: req is a valid SendRequest
// POST: Returns a noop result without actual delivery
func (s *NoopSender) Send(_ context.Context, req SendRequest) (SendResult, error) {
	slog.Info("noop_email_send", "to", req.To, "subject", req.Subject)
	now := time.Now()
	return SendResult{
		MessageID: fmt.Sprintf("noop-%d", now.UnixNano()),
		SentAt:    now,
	}, nil
}
