package testutil

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/somnambulistic-art/Netology-final-diplom/internal/notify"
)

// Enqueued is a notification captured by RecordingSink
type Enqueued struct {
	Notification notify.Notification
	Delay        time.Duration
}

// RecordingSink is a notify.Sink that remembers what it was given.
type RecordingSink struct {
	mu    sync.Mutex
	items []Enqueued
	// Fail makes every Enqueue return an error
	Fail bool
}

// Enqueue records n.
func (s *RecordingSink) Enqueue(_ context.Context, n notify.Notification, delay time.Duration) (notify.JobHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail {
		return notify.JobHandle{}, errors.New("sink unavailable")
	}
	s.items = append(s.items, Enqueued{Notification: n, Delay: delay})
	return notify.JobHandle{ID: "job", DeliverAt: time.Now().Add(delay)}, nil
}

// Items returns a copy of the recorded notifications.
func (s *RecordingSink) Items() []Enqueued {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Enqueued(nil), s.items...)
}
