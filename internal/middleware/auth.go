package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/models"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/services"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/types"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/utils"
	"gorm.io/gorm"
)

const principalKey = "principal"

// Principal is the authenticated caller of a request
type Principal struct {
	UserID uint64
	Email  string
	Type   models.UserType
}

// IsShop reports whether the caller owns a shop account
func (p Principal) IsShop() bool {
	return p.Type == models.UserTypeShop
}

// Authenticate resolves the Authorization header ("Token <key>" or "Bearer <key>") to a
// Principal. Requests without the header pass through anonymously.
func Authenticate(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
		if header == "" {
			return c.Next()
		}

		key, ok := tokenFromHeader(header)
		if !ok {
			return &types.CustomError{
				Code:    fiber.StatusUnauthorized,
				Message: "Invalid token header",
				Type:    "authentication",
			}
		}

		user, err := services.AuthenticateToken(c.UserContext(), db, key)
		if err != nil {
			if errors.Is(err, types.ErrInvalidToken) {
				return &types.CustomError{
					Code:    fiber.StatusUnauthorized,
					Message: utils.MsgInvalidToken,
					Type:    "authentication",
				}
			}
			return err
		}

		c.Locals(principalKey, Principal{UserID: user.ID, Email: user.Email, Type: user.Type})
		return c.Next()
	}
}

func tokenFromHeader(header string) (string, bool) {
	scheme, key, found := strings.Cut(header, " ")
	if !found {
		return "", false
	}
	switch strings.ToLower(scheme) {
	case "token", "bearer":
	default:
		return "", false
	}
	key = strings.TrimSpace(key)
	return key, key != "" && !strings.Contains(key, " ")
}

// PrincipalFrom returns the caller set by Authenticate
func PrincipalFrom(c *fiber.Ctx) (Principal, bool) {
	p, ok := c.Locals(principalKey).(Principal)
	return p, ok
}

// RequireUser rejects anonymous requests
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFrom(c); !ok {
			return &types.CustomError{
				Code:    fiber.StatusForbidden,
				Message: utils.MsgLoginRequired,
				Type:    "authorization.user",
			}
		}
		return c.Next()
	}
}

// RequireShop rejects requests not made by a shop account
func RequireShop() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := PrincipalFrom(c)
		if !ok {
			return &types.CustomError{
				Code:    fiber.StatusForbidden,
				Message: utils.MsgLoginRequired,
				Type:    "authorization.shop",
			}
		}
		if !p.IsShop() {
			return &types.CustomError{
				Code:    fiber.StatusForbidden,
				Message: utils.MsgShopsOnly,
				Type:    "authorization.shop",
			}
		}
		return c.Next()
	}
}
