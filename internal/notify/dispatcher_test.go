package notify_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/somnambulistic-art/Netology-final-diplom/internal/models"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/notify"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// fakeMailer fails the first failures sends, then succeeds
type fakeMailer struct {
	mu       sync.Mutex
	failures int
	sent     []notify.Notification
	calls    int
}

func (m *fakeMailer) Send(_ context.Context, n notify.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.calls <= m.failures {
		return errors.New("smtp: connection refused")
	}
	m.sent = append(m.sent, n)
	return nil
}

func orderNotification() notify.Notification {
	return notify.Notification{
		Kind:      notify.KindOrderStatus,
		Recipient: "buyer@example.com",
		Title:     "Уведомление о смене статуса заказа",
		Message:   "Заказ сформирован.",
	}
}

func TestServiceEnqueueAndDispatch(t *testing.T) {
	db := testutil.NewTestDB(t)
	journal := &notify.DBJournal{DB: db}
	queue := notify.NewMemoryQueue()
	svc := notify.NewService(queue, journal, zap.NewNop())
	mailer := &fakeMailer{}
	dispatcher := notify.NewDispatcher(queue, mailer, journal, zap.NewNop(), notify.DispatcherConfig{})
	ctx := context.Background()

	handle, err := svc.Enqueue(ctx, orderNotification(), 0)
	require.NoError(t, err)
	require.NotEmpty(t, handle.ID)

	var row models.Notification
	require.NoError(t, db.First(&row, "job_id = ?", handle.ID).Error)
	assert.Equal(t, models.NotificationQueued, row.Status)
	assert.Contains(t, string(row.Payload.JSON), "Заказ сформирован.")

	sent, err := dispatcher.DispatchDue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "buyer@example.com", mailer.sent[0].Recipient)

	require.NoError(t, db.First(&row, "job_id = ?", handle.ID).Error)
	assert.Equal(t, models.NotificationSent, row.Status)
	assert.Equal(t, 1, row.Attempts)
}

func TestServiceDelaysDelivery(t *testing.T) {
	queue := notify.NewMemoryQueue()
	svc := notify.NewService(queue, nil, nil)
	mailer := &fakeMailer{}
	dispatcher := notify.NewDispatcher(queue, mailer, nil, nil, notify.DispatcherConfig{})
	ctx := context.Background()

	handle, err := svc.Enqueue(ctx, orderNotification(), 5*time.Minute)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), handle.DeliverAt, 5*time.Second)

	sent, err := dispatcher.DispatchDue(ctx)
	require.NoError(t, err)
	assert.Zero(t, sent)

	n, _ := queue.Len(ctx)
	assert.Equal(t, int64(1), n)
}

func TestServiceRejectsMissingRecipient(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	svc := notify.NewService(notify.NewMemoryQueue(), nil, zap.New(core))

	_, err := svc.Enqueue(context.Background(), notify.Notification{Kind: notify.KindConfirmEmail}, 0)
	assert.ErrorIs(t, err, notify.ErrNoRecipient)
	assert.Equal(t, 1, logs.FilterMessage("notification rejected").Len())
}

func TestServiceLogsQueueFailure(t *testing.T) {
	mr, client := setupTestRedis(t)
	queue := notify.NewRedisQueue(client, &notify.RedisQueueConfig{RetryAttempts: 1})
	core, logs := observer.New(zap.ErrorLevel)
	svc := notify.NewService(queue, nil, zap.New(core))
	mr.Close()

	_, err := svc.Enqueue(context.Background(), orderNotification(), 0)
	assert.Error(t, err)
	assert.Equal(t, 1, logs.FilterMessage("notification enqueue failed").Len())
}

func TestDispatcherRetriesThenSends(t *testing.T) {
	_, client := setupTestRedis(t)
	queue := notify.NewRedisQueue(client, nil)
	svc := notify.NewService(queue, nil, nil)
	mailer := &fakeMailer{failures: 1}
	dispatcher := notify.NewDispatcher(queue, mailer, nil, nil, notify.DispatcherConfig{
		MaxAttempts: 3,
		RetryDelay:  time.Millisecond,
	})
	ctx := context.Background()

	_, err := svc.Enqueue(ctx, orderNotification(), 0)
	require.NoError(t, err)

	sent, err := dispatcher.DispatchDue(ctx)
	require.NoError(t, err)
	assert.Zero(t, sent)

	n, err := queue.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	time.Sleep(20 * time.Millisecond)
	sent, err = dispatcher.DispatchDue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Len(t, mailer.sent, 1)
}

func TestDispatcherDropsAfterMaxAttempts(t *testing.T) {
	db := testutil.NewTestDB(t)
	journal := &notify.DBJournal{DB: db}
	queue := notify.NewMemoryQueue()
	svc := notify.NewService(queue, journal, nil)
	mailer := &fakeMailer{failures: 100}
	core, logs := observer.New(zap.WarnLevel)
	dispatcher := notify.NewDispatcher(queue, mailer, journal, zap.New(core), notify.DispatcherConfig{
		MaxAttempts: 2,
		RetryDelay:  time.Millisecond,
	})
	ctx := context.Background()

	handle, err := svc.Enqueue(ctx, orderNotification(), 0)
	require.NoError(t, err)

	_, err = dispatcher.DispatchDue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessage("notification delivery failed, will retry").Len())

	time.Sleep(20 * time.Millisecond)
	_, err = dispatcher.DispatchDue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessage("notification dropped after final attempt").Len())

	n, _ := queue.Len(ctx)
	assert.Zero(t, n)

	var row models.Notification
	require.NoError(t, db.First(&row, "job_id = ?", handle.ID).Error)
	assert.Equal(t, models.NotificationFailed, row.Status)
	assert.Equal(t, 2, row.Attempts)
	assert.Contains(t, row.LastError, "connection refused")
}

func TestDispatcherRunStopsOnCancel(t *testing.T) {
	queue := notify.NewMemoryQueue()
	mailer := &fakeMailer{}
	dispatcher := notify.NewDispatcher(queue, mailer, nil, nil, notify.DispatcherConfig{PollInterval: 5 * time.Millisecond})
	svc := notify.NewService(queue, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		dispatcher.Run(ctx)
		close(done)
	}()

	_, err := svc.Enqueue(ctx, orderNotification(), 0)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		mailer.mu.Lock()
		defer mailer.mu.Unlock()
		return len(mailer.sent) == 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("dispatcher did not stop")
	}
}

func TestLogMailer(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	m := &notify.LogMailer{Log: zap.New(core)}
	require.NoError(t, m.Send(context.Background(), orderNotification()))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "buyer@example.com", logs.All()[0].ContextMap()["to"])
}
