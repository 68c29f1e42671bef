package infra

import (
	"fmt"
	"net/smtp"

	"boutique/internal/config"

	"github.com/jordan-wright/email"
)

// Mailer wraps SMTP configuration for sending emails with optional attachments.
type Mailer struct {
	host     string
	user     string
	password string
	from     string
	addr     string
}

func NewMailer(cfg *config.Config) *Mailer {
	from := cfg.SMTPFrom
	if from == "" {
		from = cfg.SMTPUser
	}
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     from,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
	}
}

// Enabled reports whether an SMTP host is configured.
func (m *Mailer) Enabled() bool { return m.host != "" }

// Send delivers a plain-text email. attachment is a file path, or "" for none.
func (m *Mailer) Send(to, subject, body, attachment string) error {
	e := email.NewEmail()
	e.From = m.from
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	if attachment != "" {
		if _, err := e.AttachFile(attachment); err != nil {
			return fmt.Errorf("mailer: attach file: %w", err)
		}
	}

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.password, m.host)
	}
	return e.Send(m.addr, auth)
}

// Forward sends body to the store mailbox with replyTo set, for contact messages.
func (m *Mailer) Forward(to, replyTo, subject, body string) error {
	e := email.NewEmail()
	e.From = m.from
	e.To = []string{to}
	e.ReplyTo = []string{replyTo}
	e.Subject = subject
	e.Text = []byte(body)

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.password, m.host)
	}
	return e.Send(m.addr, auth)
}
