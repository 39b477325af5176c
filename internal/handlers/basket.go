package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/services"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/utils"
	"gorm.io/gorm"
)

// BasketHandler handles the caller's basket
type BasketHandler struct {
	DB *gorm.DB
}

// Get handles GET /api/v1/basket
// @Summary Show the basket
// @Tags Basket
// @Produce json
// @Security TokenAuth
// @Success 200 {array} services.OrderView
// @Failure 403 {object} utils.ErrorResponseStruct
// @Router /basket [get]
func (h *BasketHandler) Get(c *fiber.Ctx) error {
	basket, err := services.GetBasket(c.UserContext(), h.DB, principal(c).UserID)
	if err != nil {
		return err
	}
	return c.JSON(basket)
}

// Add handles POST /api/v1/basket
// @Summary Add listings to the basket
// @Description items is a list of {product_info, quantity}, inline or JSON encoded. Invalid entries are skipped.
// @Tags Basket
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Security TokenAuth
// @Param body body itemsRequest true "Items"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorsResponseStruct
// @Failure 409 {object} utils.ErrorsResponseStruct
// @Router /basket [post]
func (h *BasketHandler) Add(c *fiber.Ctx) error {
	var in itemsRequest
	if err := utils.ParseBody(c, &in); err != nil {
		return err
	}

	entries, err := services.ParseItems(in.Items.String())
	if err != nil {
		return err
	}

	created, err := services.AddBasketItems(c.UserContext(), h.DB, principal(c).UserID, entries)
	if err != nil {
		return err
	}
	return utils.CountResponse(c, utils.CreatedKey, int64(created))
}

// Update handles PUT /api/v1/basket
// @Summary Change basket quantities
// @Description items is a list of {id, quantity}; only integer pairs are applied
// @Tags Basket
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Security TokenAuth
// @Param body body itemsRequest true "Items"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorsResponseStruct
// @Router /basket [put]
func (h *BasketHandler) Update(c *fiber.Ctx) error {
	var in itemsRequest
	if err := utils.ParseBody(c, &in); err != nil {
		return err
	}

	entries, err := services.ParseItems(in.Items.String())
	if err != nil {
		return err
	}

	updated, err := services.UpdateBasketItems(c.UserContext(), h.DB, principal(c).UserID, entries)
	if err != nil {
		return err
	}
	return utils.CountResponse(c, utils.UpdatedKey, updated)
}

// Delete handles DELETE /api/v1/basket
// @Summary Remove basket lines
// @Description items is a comma separated list of line ids; non-numeric ids are ignored
// @Tags Basket
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Security TokenAuth
// @Param body body itemsRequest true "Ids"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorsResponseStruct
// @Router /basket [delete]
func (h *BasketHandler) Delete(c *fiber.Ctx) error {
	var in itemsRequest
	if err := utils.ParseBody(c, &in); err != nil {
		return err
	}

	deleted, err := services.DeleteBasketItems(c.UserContext(), h.DB, principal(c).UserID, services.ParseIDList(idList(in.Items)))
	if err != nil {
		return err
	}
	return utils.CountResponse(c, utils.DeletedKey, deleted)
}
