package notify_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOpenQueueWithoutRedisURL(t *testing.T) {
	queue, closeQueue, err := notify.OpenQueue(context.Background(), "", "", zap.NewNop())
	require.NoError(t, err)
	defer closeQueue()

	assert.IsType(t, &notify.MemoryQueue{}, queue)
}

func TestOpenQueueOnRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	queue, closeQueue, err := notify.OpenQueue(ctx, "redis://"+mr.Addr()+"/0", "test:queue", zap.NewNop())
	require.NoError(t, err)
	defer closeQueue()
	require.IsType(t, &notify.RedisQueue{}, queue)

	require.NoError(t, queue.Push(ctx, newJob("open-1", time.Now())))
	assert.True(t, mr.Exists("test:queue"))
}

func TestOpenQueueErrors(t *testing.T) {
	_, _, err := notify.OpenQueue(context.Background(), "http://not-redis", "k", zap.NewNop())
	assert.Error(t, err)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	_, _, err = notify.OpenQueue(context.Background(), "redis://"+addr+"/0", "k", zap.NewNop())
	assert.Error(t, err)
}

func TestOpenMailer(t *testing.T) {
	mailer, err := notify.OpenMailer(notify.SMTPSettings{}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &notify.LogMailer{}, mailer)

	mailer, err = notify.OpenMailer(notify.SMTPSettings{
		Host: "smtp.example.com",
		Port: 587,
		From: "shop@example.com",
	}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &notify.SMTPMailer{}, mailer)
}
