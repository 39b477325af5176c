package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/services"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/types"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/utils"
	"gorm.io/gorm"
)

// PartnerHandler handles shop owner routes
type PartnerHandler struct {
	DB      *gorm.DB
	Fetcher services.PriceListFetcher
}

type updateRequest struct {
	URL string `json:"url" form:"url"`
}

type stateRequest struct {
	State types.JSONText `json:"state" form:"state"`
}

// Update handles POST /api/v1/partner/update
// @Summary Import a price list
// @Description Fetches the YAML or JSON price list at url and replaces the shop's listings with it
// @Tags Partner
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Security TokenAuth
// @Param body body updateRequest true "Price list URL"
// @Success 200 {object} utils.StatusResponseStruct
// @Failure 400 {object} utils.ErrorsResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorsResponseStruct
// @Failure 422 {object} utils.ErrorResponseStruct
// @Failure 502 {object} utils.ErrorResponseStruct
// @Router /partner/update [post]
func (h *PartnerHandler) Update(c *fiber.Ctx) error {
	var in updateRequest
	if err := utils.ParseBody(c, &in); err != nil {
		return err
	}

	result, err := services.ImportPriceList(c.UserContext(), h.DB, h.Fetcher, principal(c).UserID, in.URL)
	var verr *types.ValidationError
	if errors.As(err, &verr) {
		return utils.ErrorResponse(c, verr.Error(), fiber.StatusUnprocessableEntity)
	}
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"Status": true, utils.CreatedKey: result.Created})
}

// GetState handles GET /api/v1/partner/state
// @Summary Show the shop
// @Tags Partner
// @Produce json
// @Security TokenAuth
// @Success 200 {object} services.ShopView
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /partner/state [get]
func (h *PartnerHandler) GetState(c *fiber.Ctx) error {
	shop, err := services.GetShopState(c.UserContext(), h.DB, principal(c).UserID)
	if err != nil {
		return err
	}
	return c.JSON(shop)
}

// SetState handles POST /api/v1/partner/state
// @Summary Open or close the shop for orders
// @Tags Partner
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Security TokenAuth
// @Param body body stateRequest true "State such as on/off or true/false"
// @Success 200 {object} utils.StatusResponseStruct
// @Failure 400 {object} utils.ErrorsResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /partner/state [post]
func (h *PartnerHandler) SetState(c *fiber.Ctx) error {
	var in stateRequest
	if err := utils.ParseBody(c, &in); err != nil {
		return err
	}

	if err := services.SetShopState(c.UserContext(), h.DB, principal(c).UserID, in.State.String()); err != nil {
		return err
	}
	return utils.StatusResponse(c, fiber.StatusOK)
}

// Orders handles GET /api/v1/partner/orders
// @Summary Orders containing the shop's listings
// @Tags Partner
// @Produce json
// @Security TokenAuth
// @Success 200 {array} services.OrderView
// @Failure 403 {object} utils.ErrorResponseStruct
// @Router /partner/orders [get]
func (h *PartnerHandler) Orders(c *fiber.Ctx) error {
	orders, err := services.PartnerOrders(c.UserContext(), h.DB, principal(c).UserID)
	if err != nil {
		return err
	}
	return c.JSON(orders)
}
