// Package notify delivers transactional email asynchronously.
//
// Callers hand a Notification to a Sink with an optional delay and get a
// JobHandle back. Jobs wait in a Queue until due; a Dispatcher pops due jobs,
// sends them through a Mailer, retries failures with exponential delay and
// logs jobs that exhaust their attempts. A Journal keeps an operator-visible
// record of every job.
package notify

import (
	"context"
	"time"
)

// Notification kinds
const (
	KindConfirmEmail  = "confirm_email"
	KindPasswordReset = "password_reset"
	KindOrderStatus   = "order_status"
)

// Notification is a single email
type Notification struct {
	Kind      string `json:"kind"`
	Recipient string `json:"recipient"`
	Title     string `json:"title"`
	Message   string `json:"message"`
}

// Job is a queued notification
type Job struct {
	ID           string       `json:"id"`
	Notification Notification `json:"notification"`
	DeliverAt    time.Time    `json:"deliver_at"`
	Attempts     int          `json:"attempts"`
}

// JobHandle identifies an enqueued job
type JobHandle struct {
	ID        string
	DeliverAt time.Time
}

// Sink accepts notifications for asynchronous delivery.
type Sink interface {
	Enqueue(ctx context.Context, n Notification, delay time.Duration) (JobHandle, error)
}

// Queue stores jobs until they are due.
type Queue interface {
	Push(ctx context.Context, job *Job) error
	// PopDue removes and returns up to limit jobs due at or before now.
	PopDue(ctx context.Context, now time.Time, limit int) ([]*Job, error)
	Len(ctx context.Context) (int64, error)
}

// Mailer sends one notification.
type Mailer interface {
	Send(ctx context.Context, n Notification) error
}
