package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	authRoute "bibliothek_backend/internals/features/users/auth/route"
)

func AuthRoutes(app *fiber.App, db *gorm.DB, requireAuth fiber.Handler) {
	authRoute.AuthRoutes(app, db, requireAuth)
}

func AuthAdminRoutes(admin fiber.Router, db *gorm.DB) {
	authRoute.AuthAdminRoutes(admin, db)
}
