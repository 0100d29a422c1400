package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"bibliothek_backend/internals/configs"
	helpersAuth "bibliothek_backend/internals/helpers/auth"
	"bibliothek_backend/internals/middlewares"
	authMiddleware "bibliothek_backend/internals/middlewares/auth"
	routeDetails "bibliothek_backend/internals/route/details"
)

var startTime time.Time

// RequireAuth verifies the JWT (Bearer or cookie) and rejects revoked tokens.
func RequireAuth(db *gorm.DB, secret string) fiber.Handler {
	return authMiddleware.AuthJWT(authMiddleware.AuthJWTOpts{
		Secret:              secret,
		AllowCookieFallback: true,
		BlacklistChecker: func(c *fiber.Ctx, raw string) (bool, error) {
			return helpersAuth.IsBlacklisted(c.UserContext(), db, raw, secret)
		},
	})
}

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	startTime = time.Now()
	requireAuth := RequireAuth(db, configs.JWTSecret)

	BaseRoutes(app, db)

	// ===================== AUTH =====================
	log.Println("[INFO] Setting up AuthRoutes...")
	routeDetails.AuthRoutes(app, db, requireAuth)

	// ===================== STAFF (any authenticated staff) =====================
	log.Println("[INFO] Setting up /api/u group...")
	user := app.Group("/api/u",
		middlewares.GlobalRateLimiter(),
		requireAuth,
		authMiddleware.OnlyStaff("the library API"),
	)
	routeDetails.LoansUserRoutes(user, db)
	routeDetails.CatalogUserRoutes(user, db)

	// ===================== PRIVILEGED STAFF =====================
	log.Println("[INFO] Setting up /api/a group...")
	admin := app.Group("/api/a",
		middlewares.GlobalRateLimiter(),
		requireAuth,
		authMiddleware.OnlyPrivileged("administration"),
	)
	routeDetails.AuthAdminRoutes(admin, db)
}
