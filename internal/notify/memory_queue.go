package notify

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryQueue is an in-process Queue for single-instance deployments without Redis.
// Pending jobs are lost on restart.
type MemoryQueue struct {
	mu   sync.Mutex
	jobs []*Job
}

// NewMemoryQueue creates an empty queue.
func NewMemoryQueue() *MemoryQueue {
	return &MemoryQueue{}
}

// Push adds a copy of job.
func (q *MemoryQueue) Push(_ context.Context, job *Job) error {
	copied := *job
	q.mu.Lock()
	defer q.mu.Unlock()

	i := sort.Search(len(q.jobs), func(i int) bool { return q.jobs[i].DeliverAt.After(copied.DeliverAt) })
	q.jobs = append(q.jobs, nil)
	copy(q.jobs[i+1:], q.jobs[i:])
	q.jobs[i] = &copied
	return nil
}

// PopDue removes up to limit due jobs, earliest first.
func (q *MemoryQueue) PopDue(_ context.Context, now time.Time, limit int) ([]*Job, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := 0
	for n < len(q.jobs) && n < limit && !q.jobs[n].DeliverAt.After(now) {
		n++
	}
	due := make([]*Job, n)
	copy(due, q.jobs[:n])
	q.jobs = q.jobs[n:]
	return due, nil
}

// Len returns the number of pending jobs.
func (q *MemoryQueue) Len(_ context.Context) (int64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return int64(len(q.jobs)), nil
}
