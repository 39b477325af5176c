package notify

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// SMTPSettings is the outgoing mail server; an empty Host selects the LogMailer.
type SMTPSettings struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// OpenQueue returns a RedisQueue when redisURL is set, otherwise a MemoryQueue.
// The returned func releases the Redis client.
func OpenQueue(ctx context.Context, redisURL, key string, log *zap.Logger) (Queue, func(), error) {
	if redisURL == "" {
		log.Warn("REDIS_URL not set, notifications are kept in memory")
		return NewMemoryQueue(), func() {}, nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("redis ping: %w", err)
	}

	log.Info("notification queue on redis", zap.String("addr", opts.Addr), zap.String("key", key))
	return NewRedisQueue(client, &RedisQueueConfig{Key: key}), func() { _ = client.Close() }, nil
}

// OpenMailer returns an SMTPMailer, or a LogMailer when no host is configured.
func OpenMailer(settings SMTPSettings, log *zap.Logger) (Mailer, error) {
	if settings.Host == "" {
		log.Warn("SMTP_HOST not set, mail is written to the log")
		return &LogMailer{Log: log.Named("mail")}, nil
	}
	return NewSMTPMailer(settings.Host, settings.Port, settings.User, settings.Password, settings.From)
}
