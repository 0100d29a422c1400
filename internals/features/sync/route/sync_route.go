package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	syncController "bibliothek_backend/internals/features/sync/controller"
)

func SyncUserRoutes(r fiber.Router, db *gorm.DB) {
	ctl := syncController.NewSyncController(db)
	r.Get("/sync", ctl.Status)
}
