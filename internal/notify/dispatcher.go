package notify

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// DispatcherConfig configures delivery polling and retries.
type DispatcherConfig struct {
	PollInterval time.Duration
	BatchSize    int
	MaxAttempts  int
	// RetryDelay is doubled after every failed attempt
	RetryDelay time.Duration
}

// Dispatcher moves due jobs from a Queue to a Mailer.
type Dispatcher struct {
	queue   Queue
	mailer  Mailer
	journal Journal
	log     *zap.Logger
	config  DispatcherConfig
	now     func() time.Time
}

// NewDispatcher creates a Dispatcher; journal may be nil.
func NewDispatcher(queue Queue, mailer Mailer, journal Journal, log *zap.Logger, config DispatcherConfig) *Dispatcher {
	if config.PollInterval <= 0 {
		config.PollInterval = time.Second
	}
	if config.BatchSize <= 0 {
		config.BatchSize = 50
	}
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 5
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = 30 * time.Second
	}
	if journal == nil {
		journal = NopJournal{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{
		queue:   queue,
		mailer:  mailer,
		journal: journal,
		log:     log,
		config:  config,
		now:     time.Now,
	}
}

// Run polls until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(d.config.PollInterval)
	defer ticker.Stop()

	d.log.Info("notification dispatcher started", zap.Duration("poll", d.config.PollInterval))
	for {
		select {
		case <-ctx.Done():
			d.log.Info("notification dispatcher stopped")
			return
		case <-ticker.C:
			if _, err := d.DispatchDue(ctx); err != nil && ctx.Err() == nil {
				d.log.Error("notification dispatch failed", zap.Error(err))
			}
		}
	}
}

// DispatchDue sends every job due now and returns how many were delivered.
func (d *Dispatcher) DispatchDue(ctx context.Context) (int, error) {
	sent := 0
	for {
		jobs, err := d.queue.PopDue(ctx, d.now(), d.config.BatchSize)
		for _, job := range jobs {
			if d.deliver(ctx, job) {
				sent++
			}
		}
		if err != nil {
			return sent, err
		}
		if len(jobs) < d.config.BatchSize {
			return sent, nil
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, job *Job) bool {
	kind := job.Notification.Kind
	job.Attempts++

	err := d.mailer.Send(ctx, job.Notification)
	if err == nil {
		sentTotal.WithLabelValues(kind).Inc()
		d.journalWrite(job, d.journal.MarkSent(ctx, job))
		d.log.Info("notification sent",
			zap.String("job", job.ID),
			zap.String("kind", kind),
			zap.Int("attempts", job.Attempts),
		)
		return true
	}

	if job.Attempts >= d.config.MaxAttempts {
		failedTotal.WithLabelValues(kind).Inc()
		d.journalWrite(job, d.journal.MarkFailed(ctx, job, err))
		d.log.Error("notification dropped after final attempt",
			zap.String("job", job.ID),
			zap.String("kind", kind),
			zap.String("recipient", job.Notification.Recipient),
			zap.Int("attempts", job.Attempts),
			zap.Error(err),
		)
		return false
	}

	job.DeliverAt = d.now().Add(d.backoff(job.Attempts)).UTC()
	if perr := d.queue.Push(ctx, job); perr != nil {
		failedTotal.WithLabelValues(kind).Inc()
		d.journalWrite(job, d.journal.MarkFailed(ctx, job, perr))
		d.log.Error("notification lost: requeue failed",
			zap.String("job", job.ID),
			zap.String("kind", kind),
			zap.String("recipient", job.Notification.Recipient),
			zap.NamedError("send_error", err),
			zap.Error(perr),
		)
		return false
	}

	retriedTotal.WithLabelValues(kind).Inc()
	d.journalWrite(job, d.journal.MarkRetry(ctx, job, err))
	d.log.Warn("notification delivery failed, will retry",
		zap.String("job", job.ID),
		zap.String("kind", kind),
		zap.Int("attempts", job.Attempts),
		zap.Time("next_attempt", job.DeliverAt),
		zap.Error(err),
	)
	return false
}

// backoff returns RetryDelay * 2^(attempts-1), capped at one day.
func (d *Dispatcher) backoff(attempts int) time.Duration {
	delay := d.config.RetryDelay
	for i := 1; i < attempts && delay < 24*time.Hour; i++ {
		delay *= 2
	}
	return min(delay, 24*time.Hour)
}

func (d *Dispatcher) journalWrite(job *Job, err error) {
	if err != nil {
		d.log.Warn("notification journal write failed", zap.String("job", job.ID), zap.Error(err))
	}
}
