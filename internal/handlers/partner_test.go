package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/models"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/services"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/testutil"
)

const priceList = `shop: Связной
categories:
  - id: 224
    name: Смартфоны
goods:
  - id: 4216292
    category: 224
    model: apple/iphone/xs-max
    name: Смартфон Apple iPhone XS Max 512GB (золотистый)
    price: 110000
    price_rrc: 116990
    quantity: 14
    parameters:
      "Цвет": золотистый
  - id: 4216313
    category: 224
    model: apple/iphone/xr
    name: Смартфон Apple iPhone XR 256GB (красный)
    price: 65000
    price_rrc: 69990
    quantity: 9
    parameters:
      "Цвет": красный
`

func servePriceList(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/shop1.yaml" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(priceList))
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestPartnerUpdate(t *testing.T) {
	a := setupApp(t)
	base := servePriceList(t)
	owner := testutil.CreateUser(t, a.db, "shop@example.com", password, models.UserTypeShop, true)
	token := testutil.CreateAuthToken(t, a.db, owner.ID)

	var body map[string]interface{}
	for i := 0; i < 2; i++ {
		resp := a.do(t, testutil.JSONRequest(t, "POST", "/api/v1/partner/update",
			map[string]string{"url": base + "/shop1.yaml"}, token))
		testutil.AssertStatus(t, resp, fiber.StatusOK)
		testutil.ParseJSON(t, resp, &body)
		if body["Status"] != true {
			t.Fatalf("Import %d failed: %v", i+1, body)
		}
	}

	var listings int64
	a.db.Model(&models.ProductInfo{}).Count(&listings)
	if listings != 2 {
		t.Errorf("Expected 2 listings after re-import, got %d", listings)
	}

	var products []services.ProductInfoView
	resp := a.do(t, httptest.NewRequest("GET", "/api/v1/products?category_id=224", nil))
	testutil.ParseJSON(t, resp, &products)
	if len(products) != 2 {
		t.Errorf("Expected 2 products in the catalog, got %d", len(products))
	}

	resp = a.do(t, testutil.JSONRequest(t, "POST", "/api/v1/partner/update",
		map[string]string{"url": "not a url"}, token))
	testutil.AssertStatus(t, resp, fiber.StatusUnprocessableEntity)
	testutil.ParseJSON(t, resp, &body)
	if body["Status"] != false || body["Error"] == nil {
		t.Errorf("Unexpected body: %v", body)
	}

	resp = a.do(t, testutil.JSONRequest(t, "POST", "/api/v1/partner/update",
		map[string]string{"url": base + "/missing.yaml"}, token))
	testutil.AssertStatus(t, resp, fiber.StatusBadGateway)

	resp = a.do(t, testutil.JSONRequest(t, "POST", "/api/v1/partner/update", map[string]string{}, token))
	testutil.AssertStatus(t, resp, fiber.StatusBadRequest)

	_, buyerToken := a.buyer(t, "buyer@example.com")
	resp = a.do(t, testutil.JSONRequest(t, "POST", "/api/v1/partner/update",
		map[string]string{"url": base + "/shop1.yaml"}, buyerToken))
	testutil.AssertStatus(t, resp, fiber.StatusForbidden)
}

func TestPartnerStateAndOrders(t *testing.T) {
	a := setupApp(t)
	seedListings(t, a, 1)

	var owner models.User
	if err := a.db.Where("email = ?", "shop@example.com").First(&owner).Error; err != nil {
		t.Fatalf("Shop owner not found: %v", err)
	}
	token := testutil.CreateAuthToken(t, a.db, owner.ID)

	var shop services.ShopView
	resp := a.do(t, testutil.JSONRequest(t, "GET", "/api/v1/partner/state", nil, token))
	testutil.AssertStatus(t, resp, fiber.StatusOK)
	testutil.ParseJSON(t, resp, &shop)
	if !shop.State {
		t.Errorf("Expected an open shop")
	}

	resp = a.do(t, testutil.JSONRequest(t, "POST", "/api/v1/partner/state", map[string]interface{}{"state": false}, token))
	testutil.AssertStatus(t, resp, fiber.StatusOK)
	resp = a.do(t, testutil.JSONRequest(t, "GET", "/api/v1/partner/state", nil, token))
	testutil.ParseJSON(t, resp, &shop)
	if shop.State {
		t.Errorf("Expected a closed shop")
	}

	resp = a.do(t, testutil.JSONRequest(t, "POST", "/api/v1/partner/state", map[string]string{"state": "perhaps"}, token))
	testutil.AssertStatus(t, resp, fiber.StatusUnprocessableEntity)

	resp = a.do(t, testutil.JSONRequest(t, "POST", "/api/v1/partner/state", map[string]string{"state": "on"}, token))
	testutil.AssertStatus(t, resp, fiber.StatusOK)

	buyer, buyerToken := a.buyer(t, "buyer@example.com")
	contact := testutil.CreateContact(t, a.db, buyer.ID)
	a.do(t, testutil.JSONRequest(t, "POST", "/api/v1/basket",
		map[string]string{"items": `[{"product_info": 1, "quantity": 2}]`}, buyerToken))
	var basket models.Order
	if err := a.db.Where("user_id = ?", buyer.ID).First(&basket).Error; err != nil {
		t.Fatalf("Basket not found: %v", err)
	}
	resp = a.do(t, testutil.JSONRequest(t, "POST", "/api/v1/order",
		map[string]interface{}{"id": basket.ID, "contact": contact.ID}, buyerToken))
	testutil.AssertStatus(t, resp, fiber.StatusOK)

	var orders []services.OrderView
	resp = a.do(t, testutil.JSONRequest(t, "GET", "/api/v1/partner/orders", nil, token))
	testutil.AssertStatus(t, resp, fiber.StatusOK)
	testutil.ParseJSON(t, resp, &orders)
	if len(orders) != 1 || orders[0].TotalSum.IntPart() != 200 {
		t.Errorf("Unexpected partner orders: %+v", orders)
	}
}
