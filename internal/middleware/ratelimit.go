package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/utils"
)

// RateLimit allows limit requests per minute per caller. Authenticated callers are
// counted by user id, anonymous ones by IP. A limit of zero disables the limit.
func RateLimit(limit int) fiber.Handler {
	if limit <= 0 {
		return func(c *fiber.Ctx) error {
			return c.Next()
		}
	}

	return limiter.New(limiter.Config{
		Max:        limit,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			if p, ok := PrincipalFrom(c); ok {
				return "user:" + strconv.FormatUint(p.UserID, 10)
			}
			return "ip:" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return utils.ErrorResponse(c, "Too many requests", fiber.StatusTooManyRequests)
		},
	})
}
