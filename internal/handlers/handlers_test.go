package handlers_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/handlers"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/models"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/services"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/testutil"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const password = "Sup3rSecret!pass"

type testApp struct {
	app  *fiber.App
	db   *gorm.DB
	sink *testutil.RecordingSink
}

// setupApp wires the API against an in-memory database and a recording sink
func setupApp(t *testing.T) *testApp {
	t.Helper()
	db := testutil.NewTestDB(t)
	sink := &testutil.RecordingSink{}

	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler(zap.NewNop())})
	handlers.Register(app, handlers.Deps{
		DB:               db,
		Sink:             sink,
		Fetcher:          &services.HTTPFetcher{Timeout: 5 * time.Second},
		OrderNotifyDelay: 5 * time.Minute,
		PasswordResetTTL: time.Hour,
	})
	app.Use(handlers.NotFound)

	return &testApp{app: app, db: db, sink: sink}
}

func (a *testApp) do(t *testing.T, req *http.Request) *http.Response {
	t.Helper()
	resp, err := a.app.Test(req, -1)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	return resp
}

func (a *testApp) buyer(t *testing.T, email string) (models.User, string) {
	t.Helper()
	user := testutil.CreateUser(t, a.db, email, password, models.UserTypeBuyer, true)
	return user, testutil.CreateAuthToken(t, a.db, user.ID)
}

func TestNotFound(t *testing.T) {
	a := setupApp(t)

	resp := a.do(t, httptest.NewRequest("GET", "/api/v1/nothing", nil))
	testutil.AssertStatus(t, resp, fiber.StatusNotFound)

	var body map[string]interface{}
	testutil.ParseJSON(t, resp, &body)
	if body["Status"] != false || body["Error"] != "[404] Resource Not Found" {
		t.Errorf("Unexpected body: %v", body)
	}
}

func TestAuthentication(t *testing.T) {
	a := setupApp(t)

	resp := a.do(t, testutil.JSONRequest(t, "GET", "/api/v1/basket", nil, ""))
	testutil.AssertStatus(t, resp, fiber.StatusForbidden)
	var body map[string]interface{}
	testutil.ParseJSON(t, resp, &body)
	if body["Error"] != "Log in required" {
		t.Errorf("Expected login required, got %v", body)
	}

	resp = a.do(t, testutil.JSONRequest(t, "GET", "/api/v1/basket", nil, "deadbeef"))
	testutil.AssertStatus(t, resp, fiber.StatusUnauthorized)
	testutil.ParseJSON(t, resp, &body)
	if body["Error"] != "Invalid token" {
		t.Errorf("Expected invalid token, got %v", body)
	}

	_, token := a.buyer(t, "buyer@example.com")
	req := httptest.NewRequest("GET", "/api/v1/basket", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	testutil.AssertStatus(t, a.do(t, req), fiber.StatusOK)

	resp = a.do(t, testutil.JSONRequest(t, "GET", "/api/v1/partner/state", nil, token))
	testutil.AssertStatus(t, resp, fiber.StatusForbidden)
	testutil.ParseJSON(t, resp, &body)
	if body["Error"] != "Только для магазинов" {
		t.Errorf("Expected shops only, got %v", body)
	}

	// public routes stay public
	testutil.AssertStatus(t, a.do(t, httptest.NewRequest("GET", "/api/v1/categories", nil)), fiber.StatusOK)
}

func TestCatalogRoutes(t *testing.T) {
	a := setupApp(t)
	owner := testutil.CreateUser(t, a.db, "shop@example.com", password, models.UserTypeShop, true)
	shop := testutil.CreateShop(t, a.db, owner.ID, "Связной")
	testutil.CreateListing(t, a.db, shop.ID, 1, "Phone", 1, 1000)
	testutil.CreateListing(t, a.db, shop.ID, 2, "Cable", 2, 50)

	var categories []services.CategoryView
	resp := a.do(t, httptest.NewRequest("GET", "/api/v1/categories", nil))
	testutil.AssertStatus(t, resp, fiber.StatusOK)
	testutil.ParseJSON(t, resp, &categories)
	if len(categories) != 2 {
		t.Errorf("Expected 2 categories, got %d", len(categories))
	}

	var shops []services.ShopView
	resp = a.do(t, httptest.NewRequest("GET", "/api/v1/shops", nil))
	testutil.ParseJSON(t, resp, &shops)
	if len(shops) != 1 || shops[0].Name != "Связной" {
		t.Errorf("Unexpected shops: %v", shops)
	}

	var products []map[string]interface{}
	resp = a.do(t, httptest.NewRequest("GET", fmt.Sprintf("/api/v1/products?shop_id=%d&category_id=2", shop.ID), nil))
	testutil.ParseJSON(t, resp, &products)
	if len(products) != 1 {
		t.Fatalf("Expected 1 product, got %d", len(products))
	}
	if products[0]["price"] != float64(50) {
		t.Errorf("Expected numeric price 50, got %v", products[0]["price"])
	}

	resp = a.do(t, httptest.NewRequest("GET", "/api/v1/products?shop_id=abc", nil))
	testutil.ParseJSON(t, resp, &products)
	if len(products) != 2 {
		t.Errorf("Non-numeric filter should be ignored, got %d products", len(products))
	}

	resp = a.do(t, httptest.NewRequest("GET", "/api/v1/products?shop_id=18446744073709551615", nil))
	testutil.AssertStatus(t, resp, fiber.StatusOK)
	testutil.ParseJSON(t, resp, &products)
	if len(products) != 2 {
		t.Errorf("Out-of-range filter should be ignored, got %d products", len(products))
	}
}

func TestFormBodies(t *testing.T) {
	a := setupApp(t)
	_, token := a.buyer(t, "buyer@example.com")

	resp := a.do(t, testutil.FormRequest("POST", "/api/v1/user/contact", url.Values{
		"city":   {"Moscow"},
		"street": {"Arbat"},
		"phone":  {"+79990000000"},
	}, token))
	testutil.AssertStatus(t, resp, fiber.StatusCreated)

	resp = a.do(t, testutil.FormRequest("POST", "/api/v1/user/login", url.Values{
		"email":    {"buyer@example.com"},
		"password": {password},
	}, ""))
	testutil.AssertStatus(t, resp, fiber.StatusOK)

	resp = a.do(t, httptest.NewRequest("POST", "/api/v1/user/login", nil))
	testutil.AssertStatus(t, resp, fiber.StatusUnauthorized)
}
