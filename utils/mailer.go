package utils

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/wneessen/go-mail"
)

// Mailer sends campaign notifications over SMTP. Sends are best-effort:
// when SMTP is not configured the mailer logs and drops instead of failing
// the caller.
type Mailer struct {
	client *mail.Client
	from   string
}

// NewMailerFromEnv builds a Mailer from SMTP_* environment variables.
// Missing SMTP_HOST yields a disabled (but non-nil) mailer.
func NewMailerFromEnv() (*Mailer, error) {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		log.Println("⚠️  SMTP_HOST not set — outbound email disabled")
		return &Mailer{}, nil
	}

	port := 587
	if p := os.Getenv("SMTP_PORT"); p != "" {
		parsed, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid SMTP_PORT %q: %w", p, err)
		}
		port = parsed
	}

	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = "brownie-city@localhost"
	}

	opts := []mail.Option{mail.WithPort(port)}
	if user := os.Getenv("SMTP_USERNAME"); user != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(user),
			mail.WithPassword(os.Getenv("SMTP_PASSWORD")),
		)
	}

	client, err := mail.NewClient(host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build SMTP client: %w", err)
	}

	return &Mailer{client: client, from: from}, nil
}

// Enabled reports whether SMTP is configured.
func (m *Mailer) Enabled() bool {
	return m.client != nil
}

// Send delivers one HTML email. Never called while holding a business lock.
func (m *Mailer) Send(to, subject, html string) error {
	if m.client == nil {
		log.Printf("📭 [MAILER] SMTP disabled, dropping mail to %s (%s)", to, subject)
		return nil
	}

	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, html)

	return m.client.DialAndSend(msg)
}
