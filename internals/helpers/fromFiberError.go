package helper

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// FromFiberError renders a *fiber.Error returned from a transaction closure.
// Anything else becomes a 500 with the original message.
func FromFiberError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return JsonError(c, fe.Code, fe.Message)
	}
	return JsonError(c, fiber.StatusInternalServerError, err.Error())
}

// ErrorHandler is the app-wide fiber.Config.ErrorHandler.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return JsonError(c, fe.Code, fe.Message)
	}
	return JsonError(c, fiber.StatusInternalServerError, "internal server error")
}
