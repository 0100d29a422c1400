package details

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	loanRoute "bibliothek_backend/internals/features/loans/route"
)

func LoansUserRoutes(user fiber.Router, db *gorm.DB) {
	loanRoute.LoansUserRoutes(user, db)
}
