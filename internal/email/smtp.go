package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/jwalitptl/healthrec-api/config"
	"github.com/jwalitptl/healthrec-api/pkg/logger"
)

type smtpService struct {
	dialer *gomail.Dialer
	from   string
	log    *logger.Logger
}

// NewSMTPService sends mail through the configured SMTP relay. When no
// host is configured it degrades to a sender that only logs, so user
// creation keeps working in environments without mail.
func NewSMTPService(cfg config.SMTPConfig, log *logger.Logger) Service {
	if cfg.Host == "" {
		return &logService{log: log}
	}
	return &smtpService{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		log:    log,
	}
}

func (s *smtpService) SendInvitation(_ context.Context, to, tempPassword string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Your health records console account")
	m.SetBody("text/plain", fmt.Sprintf(
		"An account has been created for you.\n\nTemporary password: %s\n\nPlease sign in and change it.",
		tempPassword,
	))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send invitation email: %w", err)
	}
	return nil
}

type logService struct {
	log *logger.Logger
}

func (s *logService) SendInvitation(_ context.Context, to, _ string) error {
	s.log.Info("smtp not configured, skipping invitation email", "to", to)
	return nil
}
