package notify

import (
	"context"

	"github.com/somnambulistic-art/Netology-final-diplom/internal/models"
	"gorm.io/gorm"
)

// Journal records the lifecycle of jobs for operators.
type Journal interface {
	Record(ctx context.Context, job *Job) error
	MarkSent(ctx context.Context, job *Job) error
	MarkRetry(ctx context.Context, job *Job, cause error) error
	MarkFailed(ctx context.Context, job *Job, cause error) error
}

// NopJournal discards every record.
type NopJournal struct{}

func (NopJournal) Record(context.Context, *Job) error            { return nil }
func (NopJournal) MarkSent(context.Context, *Job) error          { return nil }
func (NopJournal) MarkRetry(context.Context, *Job, error) error  { return nil }
func (NopJournal) MarkFailed(context.Context, *Job, error) error { return nil }

// DBJournal stores jobs in the notifications table.
type DBJournal struct {
	DB *gorm.DB
}

// Record inserts a queued row for job.
func (j *DBJournal) Record(ctx context.Context, job *Job) error {
	payload, err := models.NewJSON(job.Notification)
	if err != nil {
		return err
	}
	return j.DB.WithContext(ctx).Create(&models.Notification{
		JobID:        job.ID,
		Kind:         job.Notification.Kind,
		Recipient:    job.Notification.Recipient,
		Title:        job.Notification.Title,
		Message:      job.Notification.Message,
		Status:       models.NotificationQueued,
		DeliverAfter: job.DeliverAt,
		Payload:      payload,
	}).Error
}

// MarkSent flags job as delivered.
func (j *DBJournal) MarkSent(ctx context.Context, job *Job) error {
	return j.update(ctx, job, map[string]interface{}{
		"status":     models.NotificationSent,
		"attempts":   job.Attempts,
		"last_error": "",
	})
}

// MarkRetry stores the failure and the next due time.
func (j *DBJournal) MarkRetry(ctx context.Context, job *Job, cause error) error {
	return j.update(ctx, job, map[string]interface{}{
		"status":        models.NotificationQueued,
		"attempts":      job.Attempts,
		"last_error":    truncate(cause.Error(), 1024),
		"deliver_after": job.DeliverAt,
	})
}

// MarkFailed flags job as undeliverable.
func (j *DBJournal) MarkFailed(ctx context.Context, job *Job, cause error) error {
	return j.update(ctx, job, map[string]interface{}{
		"status":     models.NotificationFailed,
		"attempts":   job.Attempts,
		"last_error": truncate(cause.Error(), 1024),
	})
}

func (j *DBJournal) update(ctx context.Context, job *Job, values map[string]interface{}) error {
	return j.DB.WithContext(ctx).
		Model(&models.Notification{}).
		Where("job_id = ?", job.ID).
		Updates(values).Error
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
