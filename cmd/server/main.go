package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/config"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/database"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/handlers"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/logging"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/middleware"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/notify"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/services"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/somnambulistic-art/Netology-final-diplom/docs/api" // Swagger docs
)

// @title Marketplace API
// @version 1.0.0
// @description Retail ordering backend: supplier price lists, catalog, basket and orders
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/somnambulistic-art/Netology-final-diplom

// @host localhost:8000
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey TokenAuth
// @in header
// @name Authorization
// @description "Token <key>" as returned by /user/login

func main() {
	bootLog, _ := zap.NewProduction()

	cfg, err := config.Load()
	if err != nil {
		bootLog.Fatal("failed to load configuration", zap.Error(err))
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

	if err := database.AutoMigrate(db); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	queue, closeQueue, err := notify.OpenQueue(ctx, cfg.RedisURL, cfg.NotifyQueueKey, log)
	if err != nil {
		log.Fatal("failed to open notification queue", zap.Error(err))
	}
	defer closeQueue()

	journal := &notify.DBJournal{DB: db}
	sink := notify.NewService(queue, journal, log.Named("notify"))

	if cfg.RunDispatcher {
		mailer, err := notify.OpenMailer(smtpSettings(cfg), log)
		if err != nil {
			log.Fatal("failed to configure mailer", zap.Error(err))
		}
		dispatcher := notify.NewDispatcher(queue, mailer, journal, log.Named("dispatcher"), notify.DispatcherConfig{
			PollInterval: cfg.NotifyPollInterval,
			MaxAttempts:  cfg.NotifyMaxAttempts,
			RetryDelay:   cfg.NotifyRetryDelay,
		})
		go dispatcher.Run(ctx)
	}

	app := newApp(cfg, db, sink, log)

	// Graceful shutdown
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigs
		log.Info("gracefully shutting down")
		cancel()
		_ = app.Shutdown()
	}()

	log.Info("starting server", zap.String("port", cfg.Port))
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}

	log.Info("server stopped")
}

func newApp(cfg *config.Config, db *gorm.DB, sink notify.Sink, log *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(log),
	})

	// Global middleware
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
			log.Error("panic", zap.String("path", c.Path()), zap.Any("panic", e), zap.Stack("stack"))
		},
	}))
	app.Use(middleware.RequestLogger(log.Named("http")))
	app.Use(compress.New())

	// Prometheus metrics
	prometheus := fiberprometheus.New("marketplace")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Get("/health", func(c *fiber.Ctx) error {
		result := services.HealthCheck(cfg, db, log)
		status := fiber.StatusOK
		if result.Status != "healthy" {
			status = fiber.StatusServiceUnavailable
		}
		return c.Status(status).JSON(result)
	})

	handlers.Register(app, handlers.Deps{
		DB:               db,
		Sink:             sink,
		Fetcher:          &services.HTTPFetcher{Timeout: cfg.ImportTimeout},
		OrderNotifyDelay: cfg.OrderNotifyDelay,
		PasswordResetTTL: cfg.PasswordResetTTL,
		RateLimitMax:     cfg.RateLimitMax,
	})

	// 404 handler
	app.Use(handlers.NotFound)

	return app
}

func smtpSettings(cfg *config.Config) notify.SMTPSettings {
	return notify.SMTPSettings{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		User:     cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	}
}
