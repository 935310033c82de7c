// Package mailer sends transactional mail over SMTP. The only message
// this service ever sends is the email-verification link; delivery
// failures surface to the caller immediately and are never retried.
package mailer

import (
	"fmt"
	"log"

	"gopkg.in/gomail.v2"

	"github.com/iliyamo/user-auth-service/internal/config"
)

// Mailer is the send interface handlers depend on. Tests substitute a
// recording fake.
type Mailer interface {
	SendVerification(email, url string) error
}

// SMTPMailer delivers mail through the SMTP server named in the config.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(cfg config.Config) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPass),
		from:   cfg.MailFrom,
	}
}

// SendVerification mails the verification link to the given address.
func (m *SMTPMailer) SendVerification(email, url string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", email)
	msg.SetHeader("Subject", "Verify your email")
	msg.SetBody("text/html",
		fmt.Sprintf(`<p>Please verify your email by clicking the following link: <a href="%s">%s</a></p>`, url, url))

	if err := m.dialer.DialAndSend(msg); err != nil {
		log.Printf("mailer: send to %s failed: %v", email, err)
		return err
	}
	return nil
}
