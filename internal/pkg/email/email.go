package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"strings"

	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/config"
	"github.com/Teesha-Gokulgandhi/OrbitHR/internal/domain/notification"
	"gopkg.in/gomail.v2"
)

//go:embed templates/*.html
var templateFS embed.FS

// dialer is satisfied by *gomail.Dialer.
type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPSender renders an embedded template and sends it in a single attempt.
type SMTPSender struct {
	cfg       config.SMTPConfig
	templates *template.Template
	dialer    dialer
}

// NewSMTPSender parses the templates once. With an empty host the sender stays
// usable but reports every message as not configured.
func NewSMTPSender(cfg config.SMTPConfig) (*SMTPSender, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	s := &SMTPSender{cfg: cfg, templates: tmpl}
	if cfg.Host != "" {
		s.dialer = gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	}
	return s, nil
}

// Render executes templateName (with or without the .html suffix).
func (s *SMTPSender) Render(templateName string, data map[string]any) (string, error) {
	name := templateName
	if !strings.HasSuffix(name, ".html") {
		name += ".html"
	}

	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, name, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return body.String(), nil
}

func (s *SMTPSender) Send(ctx context.Context, to, subject, templateName string, data map[string]any) error {
	if s.dialer == nil {
		slog.Warn("SMTP not configured, skipping email send", "to", to, "subject", subject)
		return notification.ErrSenderNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := s.Render(templateName, data)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	slog.Info("Email sent successfully", "to", to, "subject", subject, "template", templateName)
	return nil
}
