package utils

import (
	"github.com/gofiber/fiber/v2"
)

// Response count keys
const (
	CreatedKey = "Создано объектов"
	UpdatedKey = "Обновлено объектов"
	DeletedKey = "Удалено объектов"
)

// Response messages
const (
	MsgMissingArguments = "Не указаны все необходимые аргументы"
	MsgInvalidArguments = "Неправильно указаны аргументы"
	MsgBadRequest       = "Неверный формат запроса"
	MsgBadConfirmToken  = "Неправильно указан токен или email"
	MsgAuthFailed       = "Не удалось авторизовать"
	MsgOrderNotFound    = "Заказ не найден"
	MsgLoginRequired    = "Log in required"
	MsgShopsOnly        = "Только для магазинов"
	MsgInvalidToken     = "Invalid token"
)

// SuccessResponse sends data as is
func SuccessResponse(c *fiber.Ctx, data interface{}, status int) error {
	return c.Status(status).JSON(data)
}

// StatusResponse sends {"Status": true}
func StatusResponse(c *fiber.Ctx, status int) error {
	return c.Status(status).JSON(fiber.Map{"Status": true})
}

// CountResponse sends {"Status": true, key: count} for a mutation
func CountResponse(c *fiber.Ctx, key string, count int64) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"Status": true, key: count})
}

// ErrorResponse sends {"Status": false, "Error": message}
func ErrorResponse(c *fiber.Ctx, message string, status int) error {
	return c.Status(status).JSON(fiber.Map{"Status": false, "Error": message})
}

// ErrorsResponse sends {"Status": false, "Errors": errs}. errs is a message or a per-field map.
func ErrorsResponse(c *fiber.Ctx, errs interface{}, status int) error {
	return c.Status(status).JSON(fiber.Map{"Status": false, "Errors": errs})
}

// NotFoundResponse sends a 404 with message
func NotFoundResponse(c *fiber.Ctx, message string) error {
	return ErrorResponse(c, message, fiber.StatusNotFound)
}

// StatusResponseStruct documents {"Status": true}
type StatusResponseStruct struct {
	Status bool `json:"Status" example:"true"`
}

// ErrorResponseStruct documents a failure with a single message
type ErrorResponseStruct struct {
	Status bool   `json:"Status" example:"false"`
	Error  string `json:"Error" example:"Не указаны все необходимые аргументы"`
}

// ErrorsResponseStruct documents a failure with a message or a per-field map
type ErrorsResponseStruct struct {
	Status bool        `json:"Status" example:"false"`
	Errors interface{} `json:"Errors"`
}

// TokenResponseStruct documents a successful login
type TokenResponseStruct struct {
	Status bool   `json:"Status" example:"true"`
	Token  string `json:"Token" example:"9944b09199c62bcf9418ad846dd0e4bbdfc6ee4b"`
}
