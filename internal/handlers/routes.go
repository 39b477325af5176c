package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/middleware"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/notify"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/services"
	"gorm.io/gorm"
)

// Deps are the collaborators shared by the API handlers
type Deps struct {
	DB               *gorm.DB
	Sink             notify.Sink
	Fetcher          services.PriceListFetcher
	OrderNotifyDelay time.Duration
	PasswordResetTTL time.Duration
	// RateLimitMax is the per-minute budget of each caller; zero disables limiting
	RateLimitMax int
}

// Register mounts the API under /api/v1
func Register(app *fiber.App, deps Deps) {
	userHandler := &UserHandler{DB: deps.DB, Sink: deps.Sink, ResetTTL: deps.PasswordResetTTL}
	contactHandler := &ContactHandler{DB: deps.DB}
	catalogHandler := &CatalogHandler{DB: deps.DB}
	partnerHandler := &PartnerHandler{DB: deps.DB, Fetcher: deps.Fetcher}
	basketHandler := &BasketHandler{DB: deps.DB}
	orderHandler := &OrderHandler{DB: deps.DB, Sink: deps.Sink, NotifyDelay: deps.OrderNotifyDelay}

	api := app.Group("/api/v1", middleware.Authenticate(deps.DB))

	// Anonymous account routes
	anonLimit := middleware.RateLimit(deps.RateLimitMax)
	api.Post("/user/register", anonLimit, userHandler.Register)
	api.Post("/user/register/confirm", anonLimit, userHandler.ConfirmEmail)
	api.Post("/user/login/confirm", anonLimit, userHandler.ConfirmEmail)
	api.Post("/user/login", anonLimit, userHandler.Login)
	api.Post("/user/password_reset", anonLimit, userHandler.RequestPasswordReset)
	api.Post("/user/password_reset/confirm", anonLimit, userHandler.ConfirmPasswordReset)

	// Public catalog
	api.Get("/categories", catalogHandler.Categories)
	api.Get("/shops", catalogHandler.Shops)
	api.Get("/products", catalogHandler.Products)

	userLimit := middleware.RateLimit(deps.RateLimitMax)
	requireUser := middleware.RequireUser()

	api.Get("/user/details", requireUser, userLimit, userHandler.Details)

	api.Get("/user/contact", requireUser, userLimit, contactHandler.List)
	api.Post("/user/contact", requireUser, userLimit, contactHandler.Create)
	api.Put("/user/contact", requireUser, userLimit, contactHandler.Update)
	api.Delete("/user/contact", requireUser, userLimit, contactHandler.Delete)

	api.Get("/basket", requireUser, userLimit, basketHandler.Get)
	api.Post("/basket", requireUser, userLimit, basketHandler.Add)
	api.Put("/basket", requireUser, userLimit, basketHandler.Update)
	api.Delete("/basket", requireUser, userLimit, basketHandler.Delete)

	api.Get("/order", requireUser, userLimit, orderHandler.List)
	api.Post("/order", requireUser, userLimit, orderHandler.Checkout)

	partner := api.Group("/partner", middleware.RequireShop(), userLimit)
	partner.Post("/update", partnerHandler.Update)
	partner.Get("/state", partnerHandler.GetState)
	partner.Post("/state", partnerHandler.SetState)
	partner.Get("/orders", partnerHandler.Orders)
}
