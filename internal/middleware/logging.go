package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RequestLogger logs one line per request
func RequestLogger(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("duration", time.Since(start)),
			zap.String("ip", c.IP()),
		}
		if p, ok := PrincipalFrom(c); ok {
			fields = append(fields, zap.Uint64("user_id", p.UserID))
		}
		if err != nil {
			fields = append(fields, zap.Error(err))
		}

		log.Info("request", fields...)
		return err
	}
}
