package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"bibliothek_backend/internals/features/users/auth/scheduler"
	helper "bibliothek_backend/internals/helpers"
)

type MaintenanceController struct {
	DB  *gorm.DB
	Cfg scheduler.CleanupConfig
}

func NewMaintenanceController(db *gorm.DB) *MaintenanceController {
	return &MaintenanceController{DB: db, Cfg: scheduler.CleanupConfigFromEnv()}
}

// POST /api/a/maintenance/cleanup runs the nightly cleanup now.
func (mc *MaintenanceController) RunCleanup(c *fiber.Ctx) error {
	scheduler.RunCleanup(c.UserContext(), mc.DB, mc.Cfg, time.Now())
	return helper.JsonOK(c, "cleanup finished", nil)
}
