// health.go
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

package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/config"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// HealthCheckResult represents the result of a health check
type HealthCheckResult struct {
	Status       string            `json:"status"`
	Database     string            `json:"database"`
	Queue        string            `json:"queue"`
	Mail         string            `json:"mail"`
	Details      map[string]string `json:"details,omitempty"`
	ErrorMessage string            `json:"error,omitempty"`
}

func (r *HealthCheckResult) fail(what string, err error) {
	r.Status = "unhealthy"
	if r.ErrorMessage == "" {
		r.ErrorMessage = fmt.Sprintf("%s: %v", what, err)
	} else {
		r.ErrorMessage += fmt.Sprintf("; %s: %v", what, err)
	}
}

// HealthCheck checks the database and, when configured, the Redis queue and the SMTP server
func HealthCheck(cfg *config.Config, db *gorm.DB, log *zap.Logger) HealthCheckResult {
	result := HealthCheckResult{
		Status:  "healthy",
		Details: make(map[string]string),
	}

	// Check database connectivity
	sqlDB, err := db.DB()
	if err != nil {
		result.Database = "error"
		result.Details["database_error"] = err.Error()
		result.fail("Database connection error", err)
		log.Warn("health check failed: database connection", zap.Error(err))
	} else if err := sqlDB.Ping(); err != nil {
		result.Database = "unreachable"
		result.Details["database_ping_error"] = err.Error()
		result.fail("Database ping failed", err)
		log.Warn("health check failed: database ping", zap.Error(err))
	} else {
		result.Database = "ok"
		result.Details["database_type"] = cfg.DBType
		result.Details["database_name"] = cfg.DBDatabase
	}

	if cfg.RedisURL == "" {
		result.Queue = "memory"
	} else if err := pingRedis(cfg.RedisURL, 1500*time.Millisecond); err != nil {
		result.Queue = "unreachable"
		result.Details["queue_error"] = err.Error()
		result.fail("Redis ping failed", err)
		log.Warn("health check failed: redis ping", zap.Error(err))
	} else {
		result.Queue = "ok"
	}

	if cfg.SMTPHost == "" {
		result.Mail = "disabled"
	} else if err := utils.PingSMTP(cfg.SMTPHost, strconv.Itoa(cfg.SMTPPort)); err != nil {
		result.Mail = "unreachable"
		result.Details["mail_error"] = err.Error()
		result.fail("SMTP ping failed", err)
		log.Warn("health check failed: smtp ping", zap.Error(err))
	} else {
		result.Mail = "ok"
		result.Details["mail_host"] = cfg.SMTPHost
	}

	if result.Status == "healthy" {
		log.Debug("health check passed")
	}

	return result
}

// pingRedis sends PING over a short-lived client, so AUTH and TLS from the URL apply
func pingRedis(redisURL string, timeout time.Duration) error {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return err
	}
	opts.DialTimeout = timeout
	opts.ReadTimeout = timeout
	opts.MaxRetries = -1

	client := redis.NewClient(opts)
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return client.Ping(ctx).Err()
}
