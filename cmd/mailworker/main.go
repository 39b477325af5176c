// Command mailworker delivers queued notifications without serving the API.
// Run it next to servers started with RUN_DISPATCHER=false.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/somnambulistic-art/Netology-final-diplom/internal/config"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/database"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/logging"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/notify"
	"go.uber.org/zap"
)

func main() {
	bootLog, _ := zap.NewProduction()

	cfg, err := config.Load()
	if err != nil {
		bootLog.Fatal("failed to load configuration", zap.Error(err))
	}
	if cfg.RedisURL == "" {
		bootLog.Fatal("REDIS_URL is required, an in-memory queue cannot be shared with the server")
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		bootLog.Fatal("failed to build logger", zap.Error(err))
	}
	defer func() { _ = log.Sync() }()

	db, err := database.Connect(cfg, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	queue, closeQueue, err := notify.OpenQueue(ctx, cfg.RedisURL, cfg.NotifyQueueKey, log)
	if err != nil {
		log.Fatal("failed to open notification queue", zap.Error(err))
	}
	defer closeQueue()

	mailer, err := notify.OpenMailer(notify.SMTPSettings{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		User:     cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	}, log)
	if err != nil {
		log.Fatal("failed to configure mailer", zap.Error(err))
	}

	dispatcher := notify.NewDispatcher(queue, mailer, &notify.DBJournal{DB: db}, log.Named("dispatcher"), notify.DispatcherConfig{
		PollInterval: cfg.NotifyPollInterval,
		MaxAttempts:  cfg.NotifyMaxAttempts,
		RetryDelay:   cfg.NotifyRetryDelay,
	})

	log.Info("mail worker started", zap.Duration("poll", cfg.NotifyPollInterval))
	dispatcher.Run(ctx)
	log.Info("mail worker stopped")
}
