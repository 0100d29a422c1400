package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	helper "bibliothek_backend/internals/helpers"
)

func GlobalRateLimiter() fiber.Handler {
	return newIPLimiter(300, time.Minute, "❌ Too many requests. Try again later.")
}

// LoginRateLimiter is stricter to slow down password guessing.
func LoginRateLimiter() fiber.Handler {
	return newIPLimiter(5, time.Minute, "❌ Too many login attempts. Try again in a minute.")
}

func newIPLimiter(max int, window time.Duration, message string) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return helper.JsonError(c, fiber.StatusTooManyRequests, message)
		},
	})
}
