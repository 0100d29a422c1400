package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	loanController "bibliothek_backend/internals/features/loans/controller"
	loanService "bibliothek_backend/internals/features/loans/service"
)

// LoansUserRoutes mounts on /api/u. Delete is gated by the engine itself.
func LoansUserRoutes(r fiber.Router, db *gorm.DB) {
	ctl := loanController.NewLoansController(loanService.New(db))

	loans := r.Group("/loans")
	loans.Get("/open", ctl.HasOpenLoan)      // GET    /api/u/loans/open?borrower_id=
	loans.Post("/", ctl.Create)              // POST   /api/u/loans
	loans.Get("/", ctl.List)                 // GET    /api/u/loans
	loans.Get("/:id", ctl.GetByID)           // GET    /api/u/loans/:id
	loans.Post("/:id/return", ctl.Return)    // POST   /api/u/loans/:id/return
	loans.Post("/:id/renew", ctl.Renew)      // POST   /api/u/loans/:id/renew
	loans.Delete("/:id", ctl.Delete)         // DELETE /api/u/loans/:id
}
