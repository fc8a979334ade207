package otp

import (
	"sync"
	"testing"
	"time"

	"github.com/mayurrohokale/Kindness-Corner-backend/internal/database/models"
	"github.com/mayurrohokale/Kindness-Corner-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDBStore(t *testing.T) (*DBStore, *testutil.Clock) {
	t.Helper()
	clock := testutil.NewClock(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	return NewDBStore(testutil.SetupTestDB(t), 10*time.Minute).WithClock(clock.Now), clock
}

func TestDBStore_IssueAndConsume(t *testing.T) {
	store, _ := newDBStore(t)
	ctx := testutil.TestContext(t)

	code, err := store.Issue(ctx, "a@x.com")
	require.NoError(t, err)

	assert.ErrorIs(t, store.Consume(ctx, "a@x.com", wrongCode(code)), ErrCodeMismatch)
	require.NoError(t, store.Consume(ctx, "a@x.com", code))

	// Single use.
	assert.ErrorIs(t, store.Consume(ctx, "a@x.com", code), ErrCodeNotFound)
}

func TestDBStore_UnknownEmail(t *testing.T) {
	store, _ := newDBStore(t)
	ctx := testutil.TestContext(t)

	assert.ErrorIs(t, store.Consume(ctx, "nobody@x.com", 1234), ErrCodeNotFound)
}

func TestDBStore_LatestCodeWins(t *testing.T) {
	store, clock := newDBStore(t)
	ctx := testutil.TestContext(t)

	first, err := store.Issue(ctx, "a@x.com")
	require.NoError(t, err)
	clock.Advance(time.Minute)
	second, err := store.Issue(ctx, "a@x.com")
	require.NoError(t, err)

	if first != second {
		assert.ErrorIs(t, store.Consume(ctx, "a@x.com", first), ErrCodeMismatch)
	}
	require.NoError(t, store.Consume(ctx, "a@x.com", second))

	// Consuming clears every outstanding code for the email.
	assert.ErrorIs(t, store.Consume(ctx, "a@x.com", first), ErrCodeNotFound)
}

func TestDBStore_Expiry(t *testing.T) {
	store, clock := newDBStore(t)
	ctx := testutil.TestContext(t)

	code, err := store.Issue(ctx, "a@x.com")
	require.NoError(t, err)

	clock.Advance(9 * time.Minute)
	other, err := store.Issue(ctx, "b@x.com")
	require.NoError(t, err)

	clock.Advance(2 * time.Minute)
	assert.ErrorIs(t, store.Consume(ctx, "a@x.com", code), ErrCodeNotFound)
	require.NoError(t, store.Consume(ctx, "b@x.com", other))
}

func TestDBStore_PurgeExpired(t *testing.T) {
	store, clock := newDBStore(t)
	ctx := testutil.TestContext(t)

	_, err := store.Issue(ctx, "old@x.com")
	require.NoError(t, err)
	clock.Advance(15 * time.Minute)
	_, err = store.Issue(ctx, "new@x.com")
	require.NoError(t, err)

	n, err := store.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	var remaining []models.VerificationCode
	require.NoError(t, store.db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, "new@x.com", remaining[0].Email)
}

func TestDBStore_ConcurrentConsume(t *testing.T) {
	store, _ := newDBStore(t)
	ctx := testutil.TestContext(t)

	code, err := store.Issue(ctx, "a@x.com")
	require.NoError(t, err)

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if store.Consume(ctx, "a@x.com", code) == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
}
