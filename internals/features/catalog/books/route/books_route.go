package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	bookController "bibliothek_backend/internals/features/catalog/books/controller"
)

// BooksUserRoutes mounts on /api/u; every staff member maintains the catalog.
func BooksUserRoutes(r fiber.Router, db *gorm.DB) {
	ctl := bookController.NewBooksController(db)

	books := r.Group("/books")
	books.Get("/", ctl.List)
	books.Get("/:id", ctl.GetByID)
	books.Post("/", ctl.Create)
	books.Patch("/:id", ctl.Update)
	books.Put("/:id", ctl.Update)
	books.Delete("/:id", ctl.Delete)
}
