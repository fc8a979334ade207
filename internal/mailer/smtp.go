package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/mayurrohokale/Kindness-Corner-backend/internal/metrics"
	"github.com/mayurrohokale/Kindness-Corner-backend/pkg/config"
	gobreaker "github.com/sony/gobreaker/v2"
)

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPSender delivers mail through an SMTP relay. After five consecutive
// failures the breaker opens and sends fail fast for 30 seconds.
type SMTPSender struct {
	addr string
	from string
	auth smtp.Auth
	cb   *gobreaker.CircuitBreaker[struct{}]
	send sendFunc
}

func NewSMTPSender(cfg *config.SMTPConfig) *SMTPSender {
	return &SMTPSender{
		addr: cfg.Addr(),
		from: cfg.From,
		auth: smtp.PlainAuth("", cfg.User, cfg.Password, cfg.Host),
		cb: gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
			Name:        "smtp",
			MaxRequests: 1,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		}),
		send: smtp.SendMail,
	}
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := s.cb.Execute(func() (struct{}, error) {
		return struct{}{}, s.send(s.addr, s.auth, s.from, []string{msg.To}, s.build(msg))
	})
	metrics.RecordEmail(err)
	if err != nil {
		return fmt.Errorf("sending email to %s: %w", msg.To, err)
	}
	return nil
}

func (s *SMTPSender) build(msg Message) []byte {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("From: Kindness Corner <%s>\r\n", s.from))
	b.WriteString(fmt.Sprintf("To: %s\r\n", msg.To))
	b.WriteString(fmt.Sprintf("Subject: %s\r\n", msg.Subject))
	b.WriteString(fmt.Sprintf("Date: %s\r\n", time.Now().UTC().Format(time.RFC1123Z)))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.HTML)
	return []byte(b.String())
}
