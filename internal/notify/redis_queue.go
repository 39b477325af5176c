package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisQueue keeps jobs in a sorted set scored by due time in unix milliseconds.
// A job belongs to whichever worker's ZREM removes it, so several dispatchers
// can share one queue.
type RedisQueue struct {
	client *redis.Client
	config RedisQueueConfig
}

// RedisQueueConfig configures the Redis queue.
type RedisQueueConfig struct {
	// Key is the sorted set holding pending jobs
	// Default: "marketplace:notifications"
	Key string

	// RetryAttempts is the number of tries for a failed push
	// Default: 3
	RetryAttempts int

	// RetryDelay is the pause between push attempts
	// Default: 100ms
	RetryDelay time.Duration
}

// DefaultRedisQueueConfig returns default configuration.
func DefaultRedisQueueConfig() RedisQueueConfig {
	return RedisQueueConfig{
		Key:           "marketplace:notifications",
		RetryAttempts: 3,
		RetryDelay:    100 * time.Millisecond,
	}
}

// NewRedisQueue creates a queue on an already connected client.
func NewRedisQueue(client *redis.Client, config *RedisQueueConfig) *RedisQueue {
	cfg := DefaultRedisQueueConfig()
	if config != nil {
		if config.Key != "" {
			cfg.Key = config.Key
		}
		if config.RetryAttempts > 0 {
			cfg.RetryAttempts = config.RetryAttempts
		}
		if config.RetryDelay > 0 {
			cfg.RetryDelay = config.RetryDelay
		}
	}
	return &RedisQueue{client: client, config: cfg}
}

// Push adds job to the set, retrying transient errors.
func (q *RedisQueue) Push(ctx context.Context, job *Job) error {
	if job == nil || job.ID == "" {
		return fmt.Errorf("job ID cannot be empty")
	}

	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}

	member := &redis.Z{Score: float64(job.DeliverAt.UnixMilli()), Member: data}

	var lastErr error
	for attempt := 0; attempt < q.config.RetryAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(q.config.RetryDelay):
			}
		}
		if lastErr = q.client.ZAdd(ctx, q.config.Key, member).Err(); lastErr == nil {
			return nil
		}
	}

	return fmt.Errorf("failed to push job after %d attempts: %w", q.config.RetryAttempts, lastErr)
}

// PopDue claims up to limit jobs whose due time has passed.
func (q *RedisQueue) PopDue(ctx context.Context, now time.Time, limit int) ([]*Job, error) {
	members, err := q.client.ZRangeByScore(ctx, q.config.Key, &redis.ZRangeBy{
		Min:   "-inf",
		Max:   strconv.FormatInt(now.UnixMilli(), 10),
		Count: int64(limit),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read due jobs: %w", err)
	}

	jobs := make([]*Job, 0, len(members))
	for _, member := range members {
		removed, err := q.client.ZRem(ctx, q.config.Key, member).Result()
		if err != nil {
			return jobs, fmt.Errorf("failed to claim job: %w", err)
		}
		if removed == 0 {
			// another worker claimed it
			continue
		}

		var job Job
		if err := json.Unmarshal([]byte(member), &job); err != nil {
			return jobs, fmt.Errorf("failed to unmarshal job: %w", err)
		}
		jobs = append(jobs, &job)
	}

	return jobs, nil
}

// Len returns the number of pending jobs.
func (q *RedisQueue) Len(ctx context.Context) (int64, error) {
	return q.client.ZCard(ctx, q.config.Key).Result()
}
