package email

import (
	"context"

	"go.uber.org/zap"
)

// ConsoleSender logs messages instead of delivering them. Used when email
// is disabled in configuration, and in tests.
type ConsoleSender struct {
	logger *zap.Logger
}

// NewConsoleSender creates a new ConsoleSender
func NewConsoleSender(logger *zap.Logger) *ConsoleSender {
	return &ConsoleSender{logger: logger}
}

// Send logs the message
func (s *ConsoleSender) Send(ctx context.Context, msg Message) error {
	s.logger.Info("Email (console sender)",
		zap.String("to", msg.ToAddress),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.PlainText))
	return nil
}

var _ Sender = (*ConsoleSender)(nil)
