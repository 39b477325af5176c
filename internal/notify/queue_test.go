package notify_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })

	return mr, client
}

func newJob(id string, deliverAt time.Time) *notify.Job {
	return &notify.Job{
		ID: id,
		Notification: notify.Notification{
			Kind:      notify.KindOrderStatus,
			Recipient: "buyer@example.com",
			Title:     "title " + id,
			Message:   "message",
		},
		DeliverAt: deliverAt,
	}
}

// queueContract runs the same checks against every Queue implementation
func queueContract(t *testing.T, q notify.Queue) {
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, q.Push(ctx, newJob("later", now.Add(time.Hour))))
	require.NoError(t, q.Push(ctx, newJob("second", now.Add(-time.Minute))))
	require.NoError(t, q.Push(ctx, newJob("first", now.Add(-2*time.Minute))))

	n, err := q.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	due, err := q.PopDue(ctx, now, 10)
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, "first", due[0].ID)
	assert.Equal(t, "second", due[1].ID)
	assert.Equal(t, "title first", due[0].Notification.Title)

	due, err = q.PopDue(ctx, now, 10)
	require.NoError(t, err)
	assert.Empty(t, due)

	due, err = q.PopDue(ctx, now.Add(2*time.Hour), 10)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "later", due[0].ID)

	n, err = q.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestMemoryQueue(t *testing.T) {
	queueContract(t, notify.NewMemoryQueue())
}

func TestRedisQueue(t *testing.T) {
	_, client := setupTestRedis(t)
	queueContract(t, notify.NewRedisQueue(client, &notify.RedisQueueConfig{Key: "test:notifications"}))
}

func TestRedisQueuePopDueRespectsLimit(t *testing.T) {
	_, client := setupTestRedis(t)
	q := notify.NewRedisQueue(client, nil)
	ctx := context.Background()
	past := time.Now().Add(-time.Minute)

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, q.Push(ctx, newJob(id, past)))
	}

	due, err := q.PopDue(ctx, time.Now(), 2)
	require.NoError(t, err)
	assert.Len(t, due, 2)

	n, err := q.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestRedisQueuePushRejectsEmptyID(t *testing.T) {
	_, client := setupTestRedis(t)
	q := notify.NewRedisQueue(client, nil)
	assert.Error(t, q.Push(context.Background(), newJob("", time.Now())))
}

func TestRedisQueuePushFailsWhenServerDown(t *testing.T) {
	mr, client := setupTestRedis(t)
	q := notify.NewRedisQueue(client, &notify.RedisQueueConfig{RetryAttempts: 2, RetryDelay: time.Millisecond})
	mr.Close()

	err := q.Push(context.Background(), newJob("x", time.Now()))
	assert.ErrorContains(t, err, "after 2 attempts")
}
