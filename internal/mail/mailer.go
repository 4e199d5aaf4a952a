package mail

import (
	"context"
	"fmt"

	"github.com/maniadelimpeza/crm-api/internal/config"
	"go.uber.org/zap"
)

// Mailer delivers transactional mail
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, name, resetLink string) error
}

// NewMailer selects the transport from configuration. The default "log"
// provider composes messages and logs them without sending.
func NewMailer(cfg *config.MailConfig, logger *zap.Logger) (Mailer, error) {
	switch cfg.Provider {
	case "", "log":
		return &LogMailer{from: cfg.FromAddress, logger: logger}, nil
	case "sendgrid":
		if cfg.SendGridAPIKey == "" {
			return nil, fmt.Errorf("sendgrid provider requires SENDGRID_API_KEY")
		}
		return NewSendGridMailer(cfg), nil
	default:
		return nil, fmt.Errorf("unknown mail provider: %s", cfg.Provider)
	}
}

// composePasswordReset builds the subject and plain-text body of the
// reset message
func composePasswordReset(name, resetLink string) (string, string) {
	subject := "Redefinição de senha - ManiaDeLimpeza"
	body := fmt.Sprintf(
		"Olá %s,\n\n"+
			"Recebemos um pedido para redefinir a sua senha. "+
			"Use o link abaixo dentro de 30 minutos:\n\n%s\n\n"+
			"Se você não pediu a redefinição, ignore este e-mail.\n",
		name, resetLink,
	)
	return subject, body
}

// LogMailer composes messages and logs them instead of sending
type LogMailer struct {
	from   string
	logger *zap.Logger
}

func (m *LogMailer) SendPasswordReset(ctx context.Context, to, name, resetLink string) error {
	subject, body := composePasswordReset(name, resetLink)
	m.logger.Info("password reset mail composed (delivery disabled)",
		zap.String("from", m.from),
		zap.String("to", to),
		zap.String("subject", subject),
		zap.Int("body_bytes", len(body)),
	)
	return nil
}
