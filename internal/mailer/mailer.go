// Package mailer delivers transactional email over SMTP.
package mailer

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
)

const fromAddress = "oracle@mysticoracle.com"

// sends password-reset emails
type Mailer struct {
	client      *mail.Client
	frontendURL string
}

// SMTP connection settings
type Config struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FrontendURL string
}

// creates a mailer; returns an error when SMTP is not configured
func New(cfg Config) (*Mailer, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("SMTP host is not configured")
	}

	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create SMTP client: %w", err)
	}

	return &Mailer{client: client, frontendURL: cfg.FrontendURL}, nil
}

// sends the password-reset link for a token
func (m *Mailer) SendPasswordReset(ctx context.Context, to, token string) error {
	resetURL := fmt.Sprintf("%s/reset?token=%s", m.frontendURL, token)

	msg := mail.NewMsg()
	if err := msg.From(fromAddress); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}

	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}

	msg.Subject("Reset your Mystic Oracle password")
	msg.SetBodyString(mail.TypeTextHTML, fmt.Sprintf(
		`Click <a href="%s">here</a> to reset your password. This link will expire in 15 minutes.`,
		resetURL,
	))

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}

	return nil
}
