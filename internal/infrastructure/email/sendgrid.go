package email

import (
	"context"
	"errors"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"github.com/schoolhub/backend/internal/infrastructure/config"
)

// SendGridSender implements Sender using the SendGrid v3 API
type SendGridSender struct {
	client      *sendgrid.Client
	fromAddress string
	fromName    string
	logger      *zap.Logger
}

// NewSendGridSender creates a new SendGridSender from configuration
func NewSendGridSender(cfg *config.EmailConfig, logger *zap.Logger) (*SendGridSender, error) {
	if cfg == nil {
		return nil, errors.New("email configuration is required")
	}
	if cfg.SendGridKey == "" {
		return nil, errors.New("sendgrid api key is required")
	}
	if cfg.FromAddress == "" {
		return nil, errors.New("email from address is required")
	}
	return &SendGridSender{
		client:      sendgrid.NewSendClient(cfg.SendGridKey),
		fromAddress: cfg.FromAddress,
		fromName:    cfg.FromName,
		logger:      logger,
	}, nil
}

// Send delivers one message through SendGrid
func (s *SendGridSender) Send(ctx context.Context, msg Message) error {
	from := mail.NewEmail(s.fromName, s.fromAddress)
	to := mail.NewEmail(msg.ToName, msg.ToAddress)
	m := mail.NewSingleEmail(from, msg.Subject, to, msg.PlainText, msg.HTML)

	resp, err := s.client.SendWithContext(ctx, m)
	if err != nil {
		s.logger.Error("Failed to send email",
			zap.String("to", msg.ToAddress),
			zap.String("subject", msg.Subject),
			zap.Error(err))
		return fmt.Errorf("email: send failed: %w", err)
	}
	if resp.StatusCode >= 300 {
		s.logger.Error("Email rejected by provider",
			zap.String("to", msg.ToAddress),
			zap.Int("status", resp.StatusCode))
		return fmt.Errorf("email: provider returned status %d", resp.StatusCode)
	}

	s.logger.Debug("Email sent",
		zap.String("to", msg.ToAddress),
		zap.String("subject", msg.Subject))
	return nil
}

var _ Sender = (*SendGridSender)(nil)
