package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	authController "bibliothek_backend/internals/features/users/auth/controller"
	rateLimiter "bibliothek_backend/internals/middlewares"
)

// AuthRoutes mounts /api/auth. requireAuth guards the routes that need a caller.
func AuthRoutes(app *fiber.App, db *gorm.DB, requireAuth fiber.Handler) {
	ctl := authController.NewAuthController(db)

	auth := app.Group("/api/auth")
	auth.Post("/login", rateLimiter.LoginRateLimiter(), ctl.Login)
	auth.Post("/logout", ctl.Logout)
	auth.Get("/me", requireAuth, ctl.Me)
}

// AuthAdminRoutes mounts maintenance endpoints on /api/a.
func AuthAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctl := authController.NewMaintenanceController(db)
	r.Post("/maintenance/cleanup", ctl.RunCleanup)
}
