package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/ShujaShah/starte/domain"
)

// SMTPConfig holds the outbound mail transport settings
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	SSL      bool
}

type sender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// SMTPMailer implements domain.Mailer over SMTP
type SMTPMailer struct {
	client   sender
	from     string
	renderer *Renderer
}

// NewSMTPMailer creates a mailer for cfg. With no host configured the mail is
// written to the log instead of being sent.
func NewSMTPMailer(cfg SMTPConfig, log *slog.Logger) (domain.Mailer, error) {
	renderer, err := NewRenderer()
	if err != nil {
		return nil, err
	}

	if cfg.Host == "" {
		log.Warn("smtp host not configured, activation mail will be logged")
		return &LogMailer{log: log, renderer: renderer}, nil
	}

	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTimeout(15 * time.Second),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}
	if cfg.SSL {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}
	return newSMTPMailer(client, cfg.From, renderer), nil
}

func newSMTPMailer(client sender, from string, renderer *Renderer) *SMTPMailer {
	return &SMTPMailer{client: client, from: from, renderer: renderer}
}

// Send implements domain.Mailer
func (m *SMTPMailer) Send(ctx context.Context, msg domain.Mail) error {
	html, text, err := m.renderer.Render(msg.Template, msg.Data)
	if err != nil {
		return err
	}

	out := mail.NewMsg()
	if err := out.From(m.from); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := out.To(msg.To); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	out.Subject(msg.Subject)
	out.SetBodyString(mail.TypeTextHTML, html)
	if text != "" {
		out.AddAlternativeString(mail.TypeTextPlain, text)
	}

	if err := m.client.DialAndSendWithContext(ctx, out); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}

// LogMailer implements domain.Mailer by logging the rendered message
type LogMailer struct {
	log      *slog.Logger
	renderer *Renderer
}

// Send implements domain.Mailer
func (m *LogMailer) Send(ctx context.Context, msg domain.Mail) error {
	_, text, err := m.renderer.Render(msg.Template, msg.Data)
	if err != nil {
		return err
	}
	m.log.InfoContext(ctx, "[MOCK MAIL]", "to", msg.To, "subject", msg.Subject, "body", text)
	return nil
}
