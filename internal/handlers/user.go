package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/notify"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/services"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/types"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/utils"
	"gorm.io/gorm"
)

// UserHandler handles registration, login and account routes
type UserHandler struct {
	DB       *gorm.DB
	Sink     notify.Sink
	ResetTTL time.Duration
}

type confirmRequest struct {
	Email string `json:"email" form:"email"`
	Token string `json:"token" form:"token"`
}

type loginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type resetRequest struct {
	Email string `json:"email" form:"email"`
}

type resetConfirmRequest struct {
	Token    string `json:"token" form:"token"`
	Password string `json:"password" form:"password"`
}

// Register handles POST /api/v1/user/register
// @Summary Register an account
// @Description Creates an inactive account and mails a confirmation token
// @Tags User
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param body body services.RegisterInput true "Account"
// @Success 201 {object} utils.StatusResponseStruct
// @Failure 401 {object} utils.ErrorsResponseStruct
// @Failure 403 {object} utils.ErrorsResponseStruct
// @Failure 422 {object} utils.ErrorsResponseStruct
// @Router /user/register [post]
func (h *UserHandler) Register(c *fiber.Ctx) error {
	var in services.RegisterInput
	if err := utils.ParseBody(c, &in); err != nil {
		return err
	}

	err := services.RegisterUser(c.UserContext(), h.DB, h.Sink, in)
	if errors.Is(err, types.ErrMissingArguments) {
		return utils.ErrorsResponse(c, utils.MsgMissingArguments, fiber.StatusUnauthorized)
	}
	if err != nil {
		return err
	}

	return utils.StatusResponse(c, fiber.StatusCreated)
}

// ConfirmEmail handles POST /api/v1/user/register/confirm
// @Summary Confirm an email address
// @Description Activates the account when the mailed token matches
// @Tags User
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param body body confirmRequest true "Email and token"
// @Success 200 {object} utils.StatusResponseStruct
// @Failure 400 {object} utils.ErrorsResponseStruct
// @Router /user/register/confirm [post]
func (h *UserHandler) ConfirmEmail(c *fiber.Ctx) error {
	var in confirmRequest
	if err := utils.ParseBody(c, &in); err != nil {
		return err
	}

	err := services.ConfirmEmail(c.UserContext(), h.DB, in.Email, in.Token)
	if errors.Is(err, types.ErrInvalidToken) {
		return utils.ErrorsResponse(c, utils.MsgBadConfirmToken, fiber.StatusBadRequest)
	}
	if err != nil {
		return err
	}

	return utils.StatusResponse(c, fiber.StatusOK)
}

// Login handles POST /api/v1/user/login
// @Summary Log in
// @Description Returns the API token of an active account
// @Tags User
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param body body loginRequest true "Credentials"
// @Success 200 {object} utils.TokenResponseStruct
// @Failure 401 {object} utils.ErrorsResponseStruct
// @Failure 403 {object} utils.ErrorsResponseStruct
// @Router /user/login [post]
func (h *UserHandler) Login(c *fiber.Ctx) error {
	var in loginRequest
	if err := utils.ParseBody(c, &in); err != nil {
		return err
	}

	key, err := services.Login(c.UserContext(), h.DB, in.Email, in.Password)
	if errors.Is(err, types.ErrMissingArguments) {
		return utils.ErrorsResponse(c, utils.MsgMissingArguments, fiber.StatusUnauthorized)
	}
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"Status": true, "Token": key})
}

// Details handles GET /api/v1/user/details
// @Summary Account details
// @Tags User
// @Produce json
// @Security TokenAuth
// @Success 200 {object} services.UserView
// @Failure 403 {object} utils.ErrorResponseStruct
// @Router /user/details [get]
func (h *UserHandler) Details(c *fiber.Ctx) error {
	view, err := services.UserDetails(c.UserContext(), h.DB, principal(c).UserID)
	if err != nil {
		return err
	}
	return c.JSON(view)
}

// RequestPasswordReset handles POST /api/v1/user/password_reset
// @Summary Request a password reset
// @Description Mails a reset token to an active account
// @Tags User
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param body body resetRequest true "Email"
// @Success 200 {object} utils.StatusResponseStruct
// @Failure 422 {object} utils.ErrorsResponseStruct
// @Router /user/password_reset [post]
func (h *UserHandler) RequestPasswordReset(c *fiber.Ctx) error {
	var in resetRequest
	if err := utils.ParseBody(c, &in); err != nil {
		return err
	}

	if err := services.RequestPasswordReset(c.UserContext(), h.DB, h.Sink, in.Email); err != nil {
		return err
	}
	return utils.StatusResponse(c, fiber.StatusOK)
}

// ConfirmPasswordReset handles POST /api/v1/user/password_reset/confirm
// @Summary Set a new password
// @Tags User
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param body body resetConfirmRequest true "Token and new password"
// @Success 200 {object} utils.StatusResponseStruct
// @Failure 403 {object} utils.ErrorsResponseStruct
// @Failure 422 {object} utils.ErrorsResponseStruct
// @Router /user/password_reset/confirm [post]
func (h *UserHandler) ConfirmPasswordReset(c *fiber.Ctx) error {
	var in resetConfirmRequest
	if err := utils.ParseBody(c, &in); err != nil {
		return err
	}

	if err := services.ConfirmPasswordReset(c.UserContext(), h.DB, in.Token, in.Password, h.ResetTTL); err != nil {
		return err
	}
	return utils.StatusResponse(c, fiber.StatusOK)
}
