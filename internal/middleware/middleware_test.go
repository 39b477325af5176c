package middleware_test

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/middleware"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/models"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/testutil"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/types"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
)

func newApp(t *testing.T, db *gorm.DB, log *zap.Logger, guards ...fiber.Handler) *fiber.App {
	t.Helper()
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if ce, ok := err.(*types.CustomError); ok {
				return utils.ErrorResponse(c, ce.Message, ce.Code)
			}
			return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError)
		},
	})
	app.Use(middleware.RequestLogger(log))
	app.Use(middleware.Authenticate(db))
	handlers := append(guards, func(c *fiber.Ctx) error {
		p, ok := middleware.PrincipalFrom(c)
		if !ok {
			return c.SendString("anonymous")
		}
		return c.SendString(string(p.Type))
	})
	app.Get("/", handlers...)
	return app
}

func get(t *testing.T, app *fiber.App, authorization string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest("GET", "/", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	var body map[string]interface{}
	if resp.Header.Get("Content-Type") == fiber.MIMEApplicationJSON {
		testutil.ParseJSON(t, resp, &body)
	}
	return resp.StatusCode, body
}

func TestAuthenticate(t *testing.T) {
	db := testutil.NewTestDB(t)
	user := testutil.CreateUser(t, db, "shop@example.com", "Sup3rSecret!pass", models.UserTypeShop, true)
	token := testutil.CreateAuthToken(t, db, user.ID)
	app := newApp(t, db, zap.NewNop())

	status, _ := get(t, app, "")
	assert.Equal(t, fiber.StatusOK, status)

	status, _ = get(t, app, "Token "+token)
	assert.Equal(t, fiber.StatusOK, status)
	status, _ = get(t, app, "bearer "+token)
	assert.Equal(t, fiber.StatusOK, status)

	status, body := get(t, app, "Token unknown")
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "Invalid token", body["Error"])

	status, _ = get(t, app, "Basic "+token)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	status, _ = get(t, app, token)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestAuthenticateRejectsInactiveUsers(t *testing.T) {
	db := testutil.NewTestDB(t)
	user := testutil.CreateUser(t, db, "sleepy@example.com", "Sup3rSecret!pass", models.UserTypeBuyer, false)
	token := testutil.CreateAuthToken(t, db, user.ID)

	status, _ := get(t, newApp(t, db, zap.NewNop()), "Token "+token)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestRequireShop(t *testing.T) {
	db := testutil.NewTestDB(t)
	shop := testutil.CreateUser(t, db, "shop@example.com", "Sup3rSecret!pass", models.UserTypeShop, true)
	buyer := testutil.CreateUser(t, db, "buyer@example.com", "Sup3rSecret!pass", models.UserTypeBuyer, true)
	app := newApp(t, db, zap.NewNop(), middleware.RequireShop())

	status, body := get(t, app, "")
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "Log in required", body["Error"])

	status, body = get(t, app, "Token "+testutil.CreateAuthToken(t, db, buyer.ID))
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "Только для магазинов", body["Error"])

	status, _ = get(t, app, "Token "+testutil.CreateAuthToken(t, db, shop.ID))
	assert.Equal(t, fiber.StatusOK, status)
}

func TestRequireUser(t *testing.T) {
	db := testutil.NewTestDB(t)
	buyer := testutil.CreateUser(t, db, "buyer@example.com", "Sup3rSecret!pass", models.UserTypeBuyer, true)
	app := newApp(t, db, zap.NewNop(), middleware.RequireUser())

	status, body := get(t, app, "")
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "Log in required", body["Error"])

	status, _ = get(t, app, "Token "+testutil.CreateAuthToken(t, db, buyer.ID))
	assert.Equal(t, fiber.StatusOK, status)
}

func TestRequestLogger(t *testing.T) {
	db := testutil.NewTestDB(t)
	buyer := testutil.CreateUser(t, db, "buyer@example.com", "Sup3rSecret!pass", models.UserTypeBuyer, true)
	core, logs := observer.New(zapcore.InfoLevel)
	app := newApp(t, db, zap.New(core))

	get(t, app, "Token "+testutil.CreateAuthToken(t, db, buyer.ID))

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/", fields["path"])
	assert.Equal(t, int64(fiber.StatusOK), fields["status"])
	assert.Equal(t, buyer.ID, fields["user_id"])
}

func TestRateLimit(t *testing.T) {
	app := fiber.New()
	app.Get("/", middleware.RateLimit(2), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}
	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)

	unlimited := fiber.New()
	unlimited.Get("/", middleware.RateLimit(0), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	for i := 0; i < 5; i++ {
		resp, err := unlimited.Test(httptest.NewRequest("GET", "/", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}
}
