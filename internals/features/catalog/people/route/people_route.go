package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	peopleController "bibliothek_backend/internals/features/catalog/people/controller"
)

// PeopleUserRoutes mounts on /api/u. Staff account changes are checked
// for privilege inside the controller.
func PeopleUserRoutes(r fiber.Router, db *gorm.DB) {
	ctl := peopleController.NewPeopleController(db)

	people := r.Group("/people")
	people.Get("/", ctl.List)
	people.Get("/:id", ctl.GetByID)
	people.Post("/", ctl.Create)
	people.Patch("/:id", ctl.Update)
	people.Put("/:id", ctl.Update)
}
