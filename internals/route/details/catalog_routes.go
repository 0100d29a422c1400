package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	bookRoute "bibliothek_backend/internals/features/catalog/books/route"
	lookupRoute "bibliothek_backend/internals/features/catalog/lookups/route"
	peopleRoute "bibliothek_backend/internals/features/catalog/people/route"
	syncRoute "bibliothek_backend/internals/features/sync/route"
)

func CatalogUserRoutes(user fiber.Router, db *gorm.DB) {
	bookRoute.BooksUserRoutes(user, db)
	peopleRoute.PeopleUserRoutes(user, db)
	lookupRoute.LookupsUserRoutes(user, db)
	syncRoute.SyncUserRoutes(user, db)
}
