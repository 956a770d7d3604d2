package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/ziksirlabs/ziksir-backend/pkg/config"
	"github.com/ziksirlabs/ziksir-backend/pkg/logger"
)

// Message is a plain-text email ready for delivery.
type Message struct {
	To      []string
	Subject string
	Body    string
}

// Sender delivers notification emails.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPMailer delivers mail through a configured SMTP relay. When no host is
// configured the mailer logs and drops messages, which keeps dev environments
// working without a relay.
type SMTPMailer struct {
	cfg  config.SMTPConfig
	logg *logger.Logger
	send sendFunc
}

func New(cfg config.SMTPConfig, logg *logger.Logger) *SMTPMailer {
	return &SMTPMailer{
		cfg:  cfg,
		logg: logg,
		send: smtp.SendMail,
	}
}

// Enabled reports whether a relay host is configured.
func (m *SMTPMailer) Enabled() bool {
	return strings.TrimSpace(m.cfg.Host) != ""
}

// Send delivers the message, or logs and drops it when no relay is configured.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return fmt.Errorf("message has no recipients")
	}
	if msg.Subject == "" {
		return fmt.Errorf("message has no subject")
	}

	if !m.Enabled() {
		if m.logg != nil {
			fields := map[string]any{
				"to":      strings.Join(msg.To, ","),
				"subject": msg.Subject,
			}
			m.logg.Info(m.logg.WithFields(ctx, fields), "smtp disabled, dropping email")
		}
		return nil
	}

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	if err := m.send(addr, auth, m.cfg.DefaultFrom, msg.To, m.encode(msg)); err != nil {
		return fmt.Errorf("sending email: %w", err)
	}
	return nil
}

func (m *SMTPMailer) encode(msg Message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.cfg.DefaultFrom)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(msg.To, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Body)
	b.WriteString("\r\n")
	return []byte(b.String())
}
