package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	lookupController "bibliothek_backend/internals/features/catalog/lookups/controller"
	lookupModel "bibliothek_backend/internals/features/catalog/lookups/model"
)

// LookupsUserRoutes mounts /authors, /publishers and /subjects on /api/u.
func LookupsUserRoutes(r fiber.Router, db *gorm.DB) {
	for _, kind := range lookupModel.Kinds {
		ctl := lookupController.NewLookupsController(db, kind)

		g := r.Group("/" + kind.Slug)
		g.Get("/", ctl.List)
		g.Get("/:id", ctl.GetByID)
		g.Post("/", ctl.Create)
		g.Patch("/:id", ctl.Update)
		g.Put("/:id", ctl.Update)
		g.Delete("/:id", ctl.Delete)
	}
}
