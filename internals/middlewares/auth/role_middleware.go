package auth

import (
	"github.com/gofiber/fiber/v2"

	"bibliothek_backend/internals/constants"
	helpersAuth "bibliothek_backend/internals/helpers/auth"
)

// OnlyStaff rejects identities whose person type is not staff.
func OnlyStaff(feature string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := helpersAuth.GetIdentity(c)
		if err != nil {
			return err
		}
		if !id.IsStaff() {
			return fiber.NewError(fiber.StatusForbidden, constants.RoleErrorStaff(feature))
		}
		return c.Next()
	}
}

func OnlyPrivileged(feature string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := helpersAuth.GetIdentity(c)
		if err != nil {
			return err
		}
		if !id.IsPrivileged() {
			return fiber.NewError(fiber.StatusForbidden, constants.RoleErrorPrivileged(feature))
		}
		return c.Next()
	}
}
