package mailer

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"net"
	"net/mail"
	"net/smtp"
	"strconv"
	"strings"
)

type SMTPSender struct {
	host string
	port int
	user string
	pass string
	from *mail.Address
}

func NewSMTPSender(host string, port int, user, pass string, from *mail.Address) *SMTPSender {
	return &SMTPSender{
		host: strings.TrimSpace(host),
		port: port,
		user: strings.TrimSpace(user),
		pass: pass,
		from: from,
	}
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	to := strings.TrimSpace(msg.To)
	if to == "" {
		return fmt.Errorf("empty recipient email")
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", s.from.String())
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	fmt.Fprintf(&buf, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: text/plain; charset=utf-8\r\n\r\n")
	fmt.Fprintf(&buf, "%s\r\n", msg.Text)

	addr := net.JoinHostPort(s.host, strconv.Itoa(s.port))

	// local relays (mailpit) run without auth
	var auth smtp.Auth
	if s.user != "" {
		auth = smtp.PlainAuth("", s.user, s.pass, s.host)
	}

	if err := smtp.SendMail(addr, auth, s.from.Address, []string{to}, buf.Bytes()); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	return nil
}
