package middlewares

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/utils"
)

const LocRequestID = "request_id"

// RequestContext tags every request with an X-Request-ID and bounds its
// user context by timeout, in line with the DB statement_timeout.
func RequestContext(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(fiber.HeaderXRequestID)
		if id == "" {
			id = utils.UUID()
		}
		c.Set(fiber.HeaderXRequestID, id)
		c.Locals(LocRequestID, id)

		start := time.Now()
		ctx, cancel := context.WithTimeout(c.Context(), timeout)
		defer cancel()
		c.SetUserContext(ctx)

		err := c.Next()
		dur := time.Since(start)
		c.Set("X-Response-Time", dur.String())
		if dur > timeout/2 {
			log.Printf("[REQ][SLOW] id=%s %s %s dur=%s", id, c.Method(), c.OriginalURL(), dur)
		}
		return err
	}
}
