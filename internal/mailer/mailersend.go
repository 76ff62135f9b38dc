package mailer

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/mailersend/mailersend-go"
)

type MailerSendSender struct {
	client *mailersend.Mailersend
	from   mailersend.From
}

func NewMailerSendSender(apiKey string, from *mail.Address) *MailerSendSender {
	return &MailerSendSender{
		client: mailersend.NewMailersend(apiKey),
		from: mailersend.From{
			Name:  from.Name,
			Email: from.Address,
		},
	}
}

func (m *MailerSendSender) Send(ctx context.Context, msg Message) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	message := m.client.Email.NewMessage()
	message.SetFrom(m.from)
	message.SetRecipients([]mailersend.Recipient{{Email: msg.To}})
	message.SetSubject(msg.Subject)
	message.SetText(msg.Text)

	res, err := m.client.Email.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("mailersend send to %s: %w", msg.To, err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		return fmt.Errorf("mailersend send to %s: status %d", msg.To, res.StatusCode)
	}
	return nil
}
