package mailer

import (
	"go.uber.org/zap"
	gomail "gopkg.in/gomail.v2"

	"github.com/Aim67TQ7/heartlandclaimspro-automation/internal/config"
)

// SMTPMailer delivers payment notifications over SMTP.
type SMTPMailer struct {
	cfg *config.SMTPConfig
}

func NewSMTPMailer(cfg *config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.Sender)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	dialer := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Sender, m.cfg.Password)
	return dialer.DialAndSend(msg)
}

// LogMailer writes notifications to the log instead of sending them.
// Used when no SMTP host is configured.
type LogMailer struct{}

func (LogMailer) Send(to, subject, body string) error {
	zap.S().Named("mailer").Infow("notification", "to", to, "subject", subject, "body", body)
	return nil
}

// Mailer sends a single plain-text message.
type Mailer interface {
	Send(to, subject, body string) error
}

// New returns the SMTP mailer when a host is configured, the log mailer otherwise.
func New(cfg *config.SMTPConfig) Mailer {
	if cfg.Host == "" {
		return LogMailer{}
	}
	return NewSMTPMailer(cfg)
}
