package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/services"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/types"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/utils"
	"gorm.io/gorm"
)

// ContactHandler handles the caller's delivery addresses
type ContactHandler struct {
	DB *gorm.DB
}

type contactUpdateRequest struct {
	ID types.JSONText `json:"id" form:"id"`
	services.ContactPatch
}

type itemsRequest struct {
	Items types.JSONText `json:"items" form:"items"`
}

// List handles GET /api/v1/user/contact
// @Summary List contacts
// @Tags Contact
// @Produce json
// @Security TokenAuth
// @Success 200 {array} services.ContactView
// @Failure 403 {object} utils.ErrorResponseStruct
// @Router /user/contact [get]
func (h *ContactHandler) List(c *fiber.Ctx) error {
	contacts, err := services.ListContacts(c.UserContext(), h.DB, principal(c).UserID)
	if err != nil {
		return err
	}
	return c.JSON(contacts)
}

// Create handles POST /api/v1/user/contact
// @Summary Add a contact
// @Tags Contact
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Security TokenAuth
// @Param body body services.ContactInput true "Contact"
// @Success 201 {object} utils.StatusResponseStruct
// @Failure 401 {object} utils.ErrorsResponseStruct
// @Failure 422 {object} utils.ErrorsResponseStruct
// @Router /user/contact [post]
func (h *ContactHandler) Create(c *fiber.Ctx) error {
	var in services.ContactInput
	if err := utils.ParseBody(c, &in); err != nil {
		return err
	}

	_, err := services.CreateContact(c.UserContext(), h.DB, principal(c).UserID, in)
	if errors.Is(err, types.ErrMissingArguments) {
		return utils.ErrorsResponse(c, utils.MsgMissingArguments, fiber.StatusUnauthorized)
	}
	if err != nil {
		return err
	}
	return utils.StatusResponse(c, fiber.StatusCreated)
}

// Update handles PUT /api/v1/user/contact
// @Summary Update a contact
// @Description Changes only the provided fields of the caller's contact
// @Tags Contact
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Security TokenAuth
// @Param body body contactUpdateRequest true "Contact id and fields"
// @Success 200 {object} utils.StatusResponseStruct
// @Failure 400 {object} utils.ErrorsResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /user/contact [put]
func (h *ContactHandler) Update(c *fiber.Ctx) error {
	var in contactUpdateRequest
	if err := utils.ParseBody(c, &in); err != nil {
		return err
	}

	id, ok := parseID(in.ID.String())
	if !ok {
		return types.ErrMissingArguments
	}

	if err := services.UpdateContact(c.UserContext(), h.DB, principal(c).UserID, id, in.ContactPatch); err != nil {
		return err
	}
	return utils.StatusResponse(c, fiber.StatusOK)
}

// Delete handles DELETE /api/v1/user/contact
// @Summary Delete contacts
// @Description items is a comma separated id list; unknown and foreign ids are ignored
// @Tags Contact
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Security TokenAuth
// @Param body body itemsRequest true "Ids"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorsResponseStruct
// @Router /user/contact [delete]
func (h *ContactHandler) Delete(c *fiber.Ctx) error {
	var in itemsRequest
	if err := utils.ParseBody(c, &in); err != nil {
		return err
	}

	deleted, err := services.DeleteContacts(c.UserContext(), h.DB, principal(c).UserID, services.ParseIDList(idList(in.Items)))
	if err != nil {
		return err
	}
	return utils.CountResponse(c, utils.DeletedKey, deleted)
}
