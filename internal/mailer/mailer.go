package mailer

import (
	"context"
	"fmt"
	"net/mail"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
)

type Message struct {
	To      string
	Subject string
	Text    string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// New picks the sender configured by MAIL_PROVIDER.
func New(cfg config.MailConfig, log zerolog.Logger) (Sender, error) {
	from, err := mail.ParseAddress(cfg.From)
	if err != nil {
		return nil, fmt.Errorf("parse MAIL_FROM: %w", err)
	}

	switch cfg.Provider {
	case config.MailProviderSMTP:
		return NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, from), nil
	case config.MailProviderMailerSend:
		return NewMailerSendSender(cfg.MailerSendKey, from), nil
	case config.MailProviderLog:
		return NewLogSender(log), nil
	default:
		return nil, fmt.Errorf("unknown mail provider %q", cfg.Provider)
	}
}
