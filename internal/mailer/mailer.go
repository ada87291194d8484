package mailer

import (
	"fmt"
	"net/smtp"

	"github.com/frahmantamala/skill-matrix/internal"
)

// Mailer sends outbound mail. Components depend on this interface so tests
// can capture messages instead of talking to an SMTP server.
type Mailer interface {
	Send(to, subject, body string) error
}

type SMTPMailer struct {
	cfg internal.MailConfig
}

// NewSMTPMailer builds a mailer from injected configuration; credentials are
// never read from globals.
func NewSMTPMailer(cfg internal.MailConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)

	msg := []byte("From: " + m.cfg.From + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=UTF-8\r\n" +
		"\r\n" +
		body + "\r\n")

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}
