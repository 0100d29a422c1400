package logger

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"bibliothek_backend/internals/helpers/dbtime"
)

func LoggerMiddleware() fiber.Handler {
	return logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   dbtime.LibraryLocation().String(),
		Format:     "[${time}] ${ip} - ${locals:request_id} ${method} ${path} - ${status} - ${latency}\n",
	})
}
