package tasks

import (
	"time"

	"github.com/goccy/go-json"
	"github.com/hibiken/asynq"
	"github.com/mayurrohokale/Kindness-Corner-backend/internal/mailer"
	"github.com/mayurrohokale/Kindness-Corner-backend/pkg/queue"
)

// Task type names
const (
	TypeEmailSend = "email:send"
	TypeOTPPurge  = "otp:purge"
)

// EmailSendPayload is a fully rendered message waiting for delivery.
type EmailSendPayload struct {
	Message mailer.Message `json:"message"`
}

func NewEmailSendTask(msg mailer.Message) (*asynq.Task, error) {
	data, err := json.Marshal(EmailSendPayload{Message: msg})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeEmailSend, data,
		asynq.Queue(queue.Critical),
		asynq.MaxRetry(5),
		asynq.Timeout(30*time.Second),
	), nil
}

// NewOTPPurgeTask has no payload; the handler works out the cutoff itself.
func NewOTPPurgeTask() *asynq.Task {
	return asynq.NewTask(TypeOTPPurge, nil, asynq.Queue(queue.Low), asynq.MaxRetry(1))
}
