package notify

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNoRecipient is returned when a notification has no address.
var ErrNoRecipient = errors.New("notification has no recipient")

// Service is the Sink used by the request workflows.
type Service struct {
	queue   Queue
	journal Journal
	log     *zap.Logger
	now     func() time.Time
}

// NewService creates a Sink backed by queue. journal may be nil.
func NewService(queue Queue, journal Journal, log *zap.Logger) *Service {
	if journal == nil {
		journal = NopJournal{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{queue: queue, journal: journal, log: log, now: time.Now}
}

// Enqueue schedules n for delivery after delay. Failures are logged before being returned,
// so callers that treat notifications as fire-and-forget may ignore the error.
func (s *Service) Enqueue(ctx context.Context, n Notification, delay time.Duration) (JobHandle, error) {
	if n.Recipient == "" {
		s.log.Error("notification rejected", zap.String("kind", n.Kind), zap.Error(ErrNoRecipient))
		enqueueErrorsTotal.WithLabelValues(n.Kind).Inc()
		return JobHandle{}, ErrNoRecipient
	}
	if delay < 0 {
		delay = 0
	}

	job := &Job{
		ID:           uuid.NewString(),
		Notification: n,
		DeliverAt:    s.now().Add(delay).UTC(),
	}

	if err := s.journal.Record(ctx, job); err != nil {
		s.log.Warn("notification journal write failed", zap.String("job", job.ID), zap.Error(err))
	}

	if err := s.queue.Push(ctx, job); err != nil {
		s.log.Error("notification enqueue failed",
			zap.String("job", job.ID),
			zap.String("kind", n.Kind),
			zap.String("recipient", n.Recipient),
			zap.Error(err),
		)
		enqueueErrorsTotal.WithLabelValues(n.Kind).Inc()
		if jerr := s.journal.MarkFailed(ctx, job, err); jerr != nil {
			s.log.Warn("notification journal write failed", zap.String("job", job.ID), zap.Error(jerr))
		}
		return JobHandle{}, err
	}

	enqueuedTotal.WithLabelValues(n.Kind).Inc()
	s.log.Debug("notification enqueued",
		zap.String("job", job.ID),
		zap.String("kind", n.Kind),
		zap.Time("deliver_at", job.DeliverAt),
	)

	return JobHandle{ID: job.ID, DeliverAt: job.DeliverAt}, nil
}
