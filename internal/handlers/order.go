package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/notify"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/services"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/types"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/utils"
	"gorm.io/gorm"
)

// OrderHandler handles placed orders and checkout
type OrderHandler struct {
	DB          *gorm.DB
	Sink        notify.Sink
	NotifyDelay time.Duration
}

type checkoutRequest struct {
	ID      types.JSONText `json:"id" form:"id"`
	Contact types.JSONText `json:"contact" form:"contact"`
}

// List handles GET /api/v1/order
// @Summary List placed orders
// @Tags Order
// @Produce json
// @Security TokenAuth
// @Success 200 {array} services.OrderView
// @Failure 403 {object} utils.ErrorResponseStruct
// @Router /order [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	orders, err := services.ListOrders(c.UserContext(), h.DB, principal(c).UserID)
	if err != nil {
		return err
	}
	return c.JSON(orders)
}

// Checkout handles POST /api/v1/order
// @Summary Place the basket as an order
// @Description Moves the basket to state "new" with the given contact and mails the buyer
// @Tags Order
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Security TokenAuth
// @Param body body checkoutRequest true "Basket id and contact id"
// @Success 200 {object} utils.StatusResponseStruct
// @Failure 400 {object} utils.ErrorsResponseStruct
// @Failure 404 {object} utils.ErrorsResponseStruct
// @Router /order [post]
func (h *OrderHandler) Checkout(c *fiber.Ctx) error {
	var in checkoutRequest
	if err := utils.ParseBody(c, &in); err != nil {
		return err
	}

	orderID, ok := parseID(in.ID.String())
	if !ok {
		return types.ErrMissingArguments
	}
	contactID, ok := parseID(in.Contact.String())
	if !ok {
		return types.ErrMissingArguments
	}

	placed, err := services.PlaceOrder(c.UserContext(), h.DB, h.Sink, principal(c).UserID, orderID, contactID, h.NotifyDelay)
	if err != nil {
		return err
	}
	if !placed {
		return utils.ErrorsResponse(c, utils.MsgOrderNotFound, fiber.StatusNotFound)
	}
	return utils.StatusResponse(c, fiber.StatusOK)
}
