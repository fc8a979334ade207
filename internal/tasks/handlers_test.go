package tasks

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/hibiken/asynq"
	"github.com/mayurrohokale/Kindness-Corner-backend/internal/mailer"
	"github.com/mayurrohokale/Kindness-Corner-backend/internal/otp"
	"github.com/mayurrohokale/Kindness-Corner-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	sent []mailer.Message
	err  error
}

func (r *recordingSender) Send(_ context.Context, msg mailer.Message) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, msg)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestHandleEmailSend(t *testing.T) {
	sender := &recordingSender{}
	handler := NewHandler(sender, nil, testLogger())

	msg := mailer.Message{To: "a@x.com", Subject: "Hi", HTML: "<p>hi</p>"}
	task, err := NewEmailSendTask(msg)
	require.NoError(t, err)
	assert.Equal(t, TypeEmailSend, task.Type())

	require.NoError(t, handler.HandleEmailSend(context.Background(), task))
	require.Len(t, sender.sent, 1)
	assert.Equal(t, msg, sender.sent[0])
}

func TestHandleEmailSend_InvalidPayload(t *testing.T) {
	handler := NewHandler(&recordingSender{}, nil, testLogger())

	err := handler.HandleEmailSend(context.Background(), asynq.NewTask(TypeEmailSend, []byte("invalid json")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
	assert.Contains(t, err.Error(), "unmarshal payload")

	data, err := json.Marshal(EmailSendPayload{})
	require.NoError(t, err)
	err = handler.HandleEmailSend(context.Background(), asynq.NewTask(TypeEmailSend, data))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestHandleEmailSend_DeliveryErrorRetries(t *testing.T) {
	handler := NewHandler(&recordingSender{err: errors.New("smtp down")}, nil, testLogger())

	task, err := NewEmailSendTask(mailer.Message{To: "a@x.com"})
	require.NoError(t, err)

	err = handler.HandleEmailSend(context.Background(), task)
	require.Error(t, err)
	assert.NotErrorIs(t, err, asynq.SkipRetry)
}

func TestHandleOTPPurge(t *testing.T) {
	db := testutil.SetupTestDB(t)
	clock := testutil.NewClock(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	store := otp.NewDBStore(db, 10*time.Minute).WithClock(clock.Now)
	ctx := testutil.TestContext(t)

	_, err := store.Issue(ctx, "a@x.com")
	require.NoError(t, err)
	clock.Advance(20 * time.Minute)
	code, err := store.Issue(ctx, "b@x.com")
	require.NoError(t, err)

	handler := NewHandler(&recordingSender{}, store, testLogger())
	require.NoError(t, handler.HandleOTPPurge(ctx, NewOTPPurgeTask()))

	var count int64
	require.NoError(t, db.Table("verification_codes").Count(&count).Error)
	assert.Equal(t, int64(1), count)
	assert.NoError(t, store.Consume(ctx, "b@x.com", code))
}

func TestRegisterHandlers(t *testing.T) {
	mux := asynq.NewServeMux()
	NewHandler(&recordingSender{}, nil, testLogger()).RegisterHandlers(mux)

	// Without a purger the purge task has no handler.
	err := mux.ProcessTask(context.Background(), NewOTPPurgeTask())
	assert.Error(t, err)

	task, err := NewEmailSendTask(mailer.Message{To: "a@x.com"})
	require.NoError(t, err)
	assert.NoError(t, mux.ProcessTask(context.Background(), task))
}

type fakeEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{Type: task.Type()}, nil
}

func TestQueueSender_Enqueues(t *testing.T) {
	q := &fakeEnqueuer{}
	sender := NewQueueSender(q)

	require.NoError(t, sender.Send(context.Background(), mailer.Message{To: "a@x.com", Subject: "Hi"}))
	require.Len(t, q.tasks, 1)
	assert.Equal(t, TypeEmailSend, q.tasks[0].Type())

	var payload EmailSendPayload
	require.NoError(t, json.Unmarshal(q.tasks[0].Payload(), &payload))
	assert.Equal(t, "a@x.com", payload.Message.To)
}

func TestQueueSender_EnqueueError(t *testing.T) {
	sender := NewQueueSender(&fakeEnqueuer{err: errors.New("redis down")})
	err := sender.Send(context.Background(), mailer.Message{To: "a@x.com"})
	assert.ErrorContains(t, err, "enqueueing email")
}
