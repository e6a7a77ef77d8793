// Package mailer sends a copy of each generated proposal to the
// requester over SMTP.
package mailer

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
)

// Config holds SMTP settings. An empty Host disables the mailer.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Mailer delivers proposal emails. A nil *Mailer is valid and sends
// nothing, so callers don't branch on configuration.
type Mailer struct {
	client *mail.Client
	from   string
}

// New builds a Mailer, or nil when cfg.Host is empty.
func New(cfg Config) (*Mailer, error) {
	if cfg.Host == "" {
		return nil, nil
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("smtp from address is required")
	}

	opts := []mail.Option{mail.WithPort(cfg.Port)}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("init smtp client: %w", err)
	}
	return &Mailer{client: client, from: cfg.From}, nil
}

// SendProposal emails the proposal to the requester, with the plain
// text as primary body and the rendered HTML as alternative.
func (m *Mailer) SendProposal(ctx context.Context, to, company, text, html string) error {
	if m == nil {
		return nil
	}

	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("to address: %w", err)
	}
	msg.Subject(Subject(company))
	msg.SetBodyString(mail.TypeTextPlain, text)
	msg.AddAlternativeString(mail.TypeTextHTML, HTMLBody(html))

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

// Subject builds the proposal subject line.
func Subject(company string) string {
	return "Propuesta de Crecimiento para " + company
}

// HTMLBody wraps the formatter's HTML fragment in a minimal document.
func HTMLBody(fragment string) string {
	return "<!DOCTYPE html><html><body style=\"font-family: sans-serif; max-width: 640px; margin: 0 auto;\">" +
		fragment +
		"</body></html>"
}
