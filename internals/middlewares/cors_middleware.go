package middlewares

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"bibliothek_backend/internals/configs"
)

// CorsMiddleware allows the origins listed in CORS_ORIGINS with credentials,
// since the web client authenticates with the token cookie.
func CorsMiddleware() fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins:     strings.Join(configs.CORSOrigins, ", "),
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		ExposeHeaders:    "X-Request-ID, X-Response-Time",
		AllowCredentials: true,
	})
}
