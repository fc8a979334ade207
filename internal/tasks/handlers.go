package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/goccy/go-json"
	"github.com/hibiken/asynq"
	"github.com/mayurrohokale/Kindness-Corner-backend/internal/mailer"
)

// Purger removes expired verification codes.
type Purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

type Handler struct {
	mail   mailer.Sender
	purger Purger
	logger *slog.Logger
}

// NewHandler wires task handlers. purger may be nil when codes live in Redis,
// which expires them on its own.
func NewHandler(mail mailer.Sender, purger Purger, logger *slog.Logger) *Handler {
	return &Handler{
		mail:   mail,
		purger: purger,
		logger: logger,
	}
}

func (h *Handler) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeEmailSend, h.HandleEmailSend)
	if h.purger != nil {
		mux.HandleFunc(TypeOTPPurge, h.HandleOTPPurge)
	}
}

func (h *Handler) HandleEmailSend(ctx context.Context, t *asynq.Task) error {
	var payload EmailSendPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}
	if payload.Message.To == "" {
		return fmt.Errorf("email task without recipient: %w", asynq.SkipRetry)
	}

	if err := h.mail.Send(ctx, payload.Message); err != nil {
		h.logger.Warn("email delivery failed", "subject", payload.Message.Subject, "error", err)
		return err
	}

	h.logger.Info("email delivered", "subject", payload.Message.Subject)
	return nil
}

func (h *Handler) HandleOTPPurge(ctx context.Context, _ *asynq.Task) error {
	n, err := h.purger.PurgeExpired(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		h.logger.Info("purged expired verification codes", "count", n)
	}
	return nil
}
