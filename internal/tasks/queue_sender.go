package tasks

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/mayurrohokale/Kindness-Corner-backend/internal/mailer"
)

type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// QueueSender hands messages to the worker instead of talking SMTP inline.
type QueueSender struct {
	client Enqueuer
}

func NewQueueSender(client Enqueuer) *QueueSender {
	return &QueueSender{client: client}
}

func (s *QueueSender) Send(ctx context.Context, msg mailer.Message) error {
	task, err := NewEmailSendTask(msg)
	if err != nil {
		return fmt.Errorf("building email task: %w", err)
	}
	if _, err := s.client.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("enqueueing email: %w", err)
	}
	return nil
}

var (
	_ mailer.Sender = (*QueueSender)(nil)
	_ Enqueuer      = (*asynq.Client)(nil)
)
