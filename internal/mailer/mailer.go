// Package mailer renders and delivers transactional email.
package mailer

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

func VerificationEmail(to, name string, code int, ttl time.Duration) (Message, error) {
	body, err := render("verification.html", map[string]interface{}{
		"Name":       name,
		"Code":       code,
		"TTLMinutes": int(ttl.Minutes()),
	})
	if err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: "Your Kindness Corner verification code", HTML: body}, nil
}

func ResetPasswordEmail(to, name, link string, ttl time.Duration) (Message, error) {
	body, err := render("reset_password.html", map[string]interface{}{
		"Name":       name,
		"Link":       link,
		"TTLMinutes": int(ttl.Minutes()),
	})
	if err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: "Reset your Kindness Corner password", HTML: body}, nil
}

func render(name string, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("rendering %s: %w", name, err)
	}
	return buf.String(), nil
}

// LogSender writes messages to the log instead of delivering them. Used when
// SMTP is not configured.
type LogSender struct {
	log *slog.Logger
}

func NewLogSender(log *slog.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	s.log.InfoContext(ctx, "email not delivered, smtp disabled", "to", msg.To, "subject", msg.Subject)
	return nil
}
