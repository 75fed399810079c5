package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/carelink/hospital-api/internal/config"
	"github.com/carelink/hospital-api/internal/model"
)

type Service interface {
	SendApprovalOutcome(ctx context.Context, to, fullName string, approved bool, role model.Role, reason string) error
	SendCustom(ctx context.Context, to, subject, body string) error
}

type service struct {
	dialer *gomail.Dialer
	from   string
}

func NewService(cfg config.SMTPConfig) Service {
	return &service{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *service) SendApprovalOutcome(ctx context.Context, to, fullName string, approved bool, role model.Role, reason string) error {
	var subject, body string
	if approved {
		subject = "Your staff access request was approved"
		body = fmt.Sprintf("Hello %s,\n\nYour request for %s access has been approved. You can sign in with your staff privileges now.\n", fullName, role)
	} else {
		subject = "Your staff access request was not approved"
		body = fmt.Sprintf("Hello %s,\n\nYour request for %s access has been declined.", fullName, role)
		if reason != "" {
			body += fmt.Sprintf("\n\nReason: %s", reason)
		}
		body += "\n"
	}
	return s.SendCustom(ctx, to, subject, body)
}

func (s *service) SendCustom(_ context.Context, to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
