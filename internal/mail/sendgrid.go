package mail

import (
	"context"
	"fmt"

	"github.com/maniadelimpeza/crm-api/internal/config"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridMailer delivers mail through the SendGrid API
type SendGridMailer struct {
	client   *sendgrid.Client
	fromAddr string
	fromName string
}

func NewSendGridMailer(cfg *config.MailConfig) *SendGridMailer {
	return &SendGridMailer{
		client:   sendgrid.NewSendClient(cfg.SendGridAPIKey),
		fromAddr: cfg.FromAddress,
		fromName: cfg.FromName,
	}
}

func (m *SendGridMailer) SendPasswordReset(ctx context.Context, to, name, resetLink string) error {
	subject, body := composePasswordReset(name, resetLink)

	from := sgmail.NewEmail(m.fromName, m.fromAddr)
	recipient := sgmail.NewEmail(name, to)
	message := sgmail.NewSingleEmail(from, subject, recipient, body, "")

	resp, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send failed: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send failed with status %d", resp.StatusCode)
	}
	return nil
}
