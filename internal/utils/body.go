package utils

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/types"
)

// ParseBody binds a JSON or form body into out. An empty body leaves out untouched.
func ParseBody(c *fiber.Ctx, out interface{}) error {
	if len(c.Body()) == 0 {
		return nil
	}
	if err := c.BodyParser(out); err != nil {
		return fmt.Errorf("%w: %v", types.ErrBadRequest, err)
	}
	return nil
}
