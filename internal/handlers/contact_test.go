package handlers_test

import (
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/services"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/testutil"
)

func TestContactRoutes(t *testing.T) {
	a := setupApp(t)
	_, token := a.buyer(t, "buyer@example.com")
	other, _ := a.buyer(t, "other@example.com")
	foreign := testutil.CreateContact(t, a.db, other.ID)

	var body map[string]interface{}
	resp := a.do(t, testutil.JSONRequest(t, "POST", "/api/v1/user/contact", map[string]string{"city": "Moscow"}, token))
	testutil.AssertStatus(t, resp, fiber.StatusUnauthorized)
	testutil.ParseJSON(t, resp, &body)
	if body["Errors"] != "Не указаны все необходимые аргументы" {
		t.Errorf("Unexpected body: %v", body)
	}

	resp = a.do(t, testutil.JSONRequest(t, "POST", "/api/v1/user/contact", map[string]string{
		"city": "Moscow", "street": "Arbat", "house": "10", "phone": "+79990000000",
	}, token))
	testutil.AssertStatus(t, resp, fiber.StatusCreated)

	var contacts []services.ContactView
	resp = a.do(t, testutil.JSONRequest(t, "GET", "/api/v1/user/contact", nil, token))
	testutil.ParseJSON(t, resp, &contacts)
	if len(contacts) != 1 {
		t.Fatalf("Expected 1 contact, got %d", len(contacts))
	}
	id := contacts[0].ID

	resp = a.do(t, testutil.JSONRequest(t, "PUT", "/api/v1/user/contact",
		map[string]interface{}{"id": id, "city": "Kazan"}, token))
	testutil.AssertStatus(t, resp, fiber.StatusOK)

	resp = a.do(t, testutil.JSONRequest(t, "PUT", "/api/v1/user/contact",
		map[string]interface{}{"id": "abc", "city": "Kazan"}, token))
	testutil.AssertStatus(t, resp, fiber.StatusBadRequest)

	resp = a.do(t, testutil.JSONRequest(t, "PUT", "/api/v1/user/contact",
		map[string]interface{}{"id": foreign.ID, "city": "Kazan"}, token))
	testutil.AssertStatus(t, resp, fiber.StatusNotFound)

	resp = a.do(t, testutil.JSONRequest(t, "GET", "/api/v1/user/contact", nil, token))
	testutil.ParseJSON(t, resp, &contacts)
	if contacts[0].City != "Kazan" || contacts[0].Street != "Arbat" {
		t.Errorf("Unexpected contact after update: %+v", contacts[0])
	}

	resp = a.do(t, testutil.JSONRequest(t, "DELETE", "/api/v1/user/contact",
		map[string]string{"items": fmt.Sprintf("%d,%d,x", id, foreign.ID)}, token))
	testutil.AssertStatus(t, resp, fiber.StatusOK)
	testutil.ParseJSON(t, resp, &body)
	if body["Удалено объектов"] != float64(1) {
		t.Errorf("Expected 1 deletion, got %v", body)
	}

	resp = a.do(t, testutil.JSONRequest(t, "DELETE", "/api/v1/user/contact", map[string]string{"items": ""}, token))
	testutil.AssertStatus(t, resp, fiber.StatusBadRequest)
}
