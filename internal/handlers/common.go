// common.go
//
// A retail marketplace backend: supplier price lists, catalog, basket and orders
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of Netology-final-diplom.
// Netology-final-diplom is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// Netology-final-diplom is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with Netology-final-diplom.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/middleware"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/models"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/types"
	"github.com/somnambulistic-art/Netology-final-diplom/internal/utils"
	"go.uber.org/zap"
)

// ErrorHandler converts errors returned by handlers and middleware into
// {"Status": false, ...} responses. Anything unrecognized is logged and reported as a 500.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var (
			custom   *types.CustomError
			password *types.PasswordError
			fields   *types.ValidationError
			fiberErr *fiber.Error
		)

		switch {
		case errors.As(err, &custom):
			return utils.ErrorResponse(c, custom.Message, custom.Code)
		case errors.As(err, &password):
			return utils.ErrorsResponse(c, fiber.Map{"password": password.Messages}, fiber.StatusForbidden)
		case errors.As(err, &fields):
			return utils.ErrorsResponse(c, fields.Fields, fiber.StatusUnprocessableEntity)
		case errors.Is(err, types.ErrMissingArguments):
			return utils.ErrorsResponse(c, utils.MsgMissingArguments, fiber.StatusBadRequest)
		case errors.Is(err, types.ErrBadRequest):
			return utils.ErrorsResponse(c, utils.MsgBadRequest, fiber.StatusBadRequest)
		case errors.Is(err, types.ErrInvalidArguments):
			return utils.ErrorsResponse(c, utils.MsgInvalidArguments, fiber.StatusBadRequest)
		case errors.Is(err, types.ErrInvalidToken):
			return utils.ErrorResponse(c, utils.MsgInvalidToken, fiber.StatusUnauthorized)
		case errors.Is(err, types.ErrAuthFailed):
			return utils.ErrorsResponse(c, utils.MsgAuthFailed, fiber.StatusForbidden)
		case errors.Is(err, types.ErrForbidden):
			return utils.ErrorResponse(c, utils.MsgShopsOnly, fiber.StatusForbidden)
		case errors.Is(err, types.ErrNotFound):
			return utils.NotFoundResponse(c, "Not found")
		case errors.Is(err, types.ErrIntegrity):
			return utils.ErrorsResponse(c, err.Error(), fiber.StatusConflict)
		case errors.Is(err, types.ErrFetchFailed):
			return utils.ErrorResponse(c, err.Error(), fiber.StatusBadGateway)
		case errors.As(err, &fiberErr):
			return utils.ErrorResponse(c, fmt.Sprintf("[%d] %s", fiberErr.Code, fiberErr.Message), fiberErr.Code)
		}

		log.Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return utils.ErrorResponse(c, "Internal Server Error", fiber.StatusInternalServerError)
	}
}

// NotFound is the fallback for unknown routes
func NotFound(c *fiber.Ctx) error {
	return utils.NotFoundResponse(c, "[404] Resource Not Found")
}

// principal returns the caller; routes using it sit behind RequireUser or RequireShop
func principal(c *fiber.Ctx) middleware.Principal {
	p, _ := middleware.PrincipalFrom(c)
	return p
}

// parseID parses a numeric request value; ok is false for anything that is not a row id
func parseID(text string) (uint64, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(text), 10, 64)
	return id, err == nil && id <= models.MaxRowID
}

// idList accepts "1,2,3" as well as "[1,2,3]"
func idList(text types.JSONText) string {
	return strings.Trim(strings.TrimSpace(text.String()), "[]")
}
