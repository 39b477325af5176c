// config.go
//
// A retail marketplace backend: supplier price lists, catalog, basket and orders
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of Netology-final-diplom.
// Netology-final-diplom is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// Netology-final-diplom is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with Netology-final-diplom.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port         string
	RateLimitMax int

	// Database configuration
	DBType            string // mysql, postgres, sqlite, sqlserver
	DBHost            string
	DBPort            string
	DBDatabase        string
	DBUser            string
	DBPassword        string
	DBConnectionLimit int
	DBLogLevel        string

	// Logging
	LogLevel  string
	LogFormat string // json or console

	// Notification queue and dispatcher
	RedisURL           string
	NotifyQueueKey     string
	NotifyPollInterval time.Duration
	NotifyMaxAttempts  int
	NotifyRetryDelay   time.Duration
	OrderNotifyDelay   time.Duration
	RunDispatcher      bool

	// Outgoing mail
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string

	// Catalog import and identity
	ImportTimeout    time.Duration
	PasswordResetTTL time.Duration
}

// Load loads configuration from environment variables.
// If ENV_FILE is set, that file is loaded first without overriding the existing environment.
func Load() (*Config, error) {
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	cfg := &Config{
		Port:               getEnv("PORT", "8000"),
		RateLimitMax:       getEnvAsInt("RATE_LIMIT_MAX", 60),
		DBType:             getEnv("DB_TYPE", "postgres"),
		DBHost:             getEnv("DB_HOST", "localhost"),
		DBPort:             getEnv("DB_PORT", "5432"),
		DBDatabase:         getEnv("DB_DATABASE", ""),
		DBUser:             getEnv("DB_USER", ""),
		DBPassword:         getEnv("DB_PASSWORD", ""),
		DBConnectionLimit:  getEnvAsInt("DB_CONNECTION_LIMIT", 10),
		DBLogLevel:         getEnv("DB_LOG_LEVEL", "warn"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "json"),
		RedisURL:           getEnv("REDIS_URL", ""),
		NotifyQueueKey:     getEnv("NOTIFY_QUEUE_KEY", "marketplace:notifications"),
		NotifyPollInterval: getEnvAsDuration("NOTIFY_POLL_INTERVAL", time.Second),
		NotifyMaxAttempts:  getEnvAsInt("NOTIFY_MAX_ATTEMPTS", 5),
		NotifyRetryDelay:   getEnvAsDuration("NOTIFY_RETRY_DELAY", 30*time.Second),
		OrderNotifyDelay:   getEnvAsDuration("ORDER_NOTIFY_DELAY", 5*time.Minute),
		RunDispatcher:      getEnvAsBool("RUN_DISPATCHER", true),
		SMTPHost:           getEnv("SMTP_HOST", ""),
		SMTPPort:           getEnvAsInt("SMTP_PORT", 587),
		SMTPUser:           getEnv("SMTP_USER", ""),
		SMTPPassword:       getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:           getEnv("SMTP_FROM", ""),
		ImportTimeout:      getEnvAsDuration("IMPORT_TIMEOUT", 30*time.Second),
		PasswordResetTTL:   getEnvAsDuration("PASSWORD_RESET_TTL", 24*time.Hour),
	}

	// Validate required fields
	if cfg.DBDatabase == "" {
		return nil, fmt.Errorf("DB_DATABASE is required")
	}
	if cfg.DBType != "sqlite" && cfg.DBUser == "" {
		return nil, fmt.Errorf("DB_USER is required")
	}
	if cfg.SMTPHost != "" && cfg.SMTPFrom == "" {
		return nil, fmt.Errorf("SMTP_FROM is required when SMTP_HOST is set")
	}
	if cfg.NotifyMaxAttempts < 1 {
		return nil, fmt.Errorf("NOTIFY_MAX_ATTEMPTS must be at least 1")
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration accepts Go duration strings ("90s", "5m").
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
