package controller

import (
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	helper "bibliothek_backend/internals/helpers"
)

// SyncTable names a table whose updated_at column drives change detection.
type SyncTable struct {
	Name   string
	Column string
}

var SyncTables = []SyncTable{
	{"authors", "updated_at"},
	{"publishers", "updated_at"},
	{"subjects", "updated_at"},
	{"people", "person_updated_at"},
	{"staff", "staff_updated_at"},
	{"books", "book_updated_at"},
	{"loans", "loan_updated_at"},
	{"loan_books", "loan_book_updated_at"},
}

type TableStatus struct {
	Table     string     `json:"table"      gorm:"-"`
	Rows      int64      `json:"rows"       gorm:"column:row_count"`
	Hash      string     `json:"hash"       gorm:"column:hash"`
	UpdatedAt *time.Time `json:"updated_at" gorm:"column:last_updated"`
}

// statusSQL hashes the ordered updated_at values; an empty table hashes "".
func statusSQL(t SyncTable) string {
	return fmt.Sprintf(`
SELECT COUNT(*) AS row_count,
       MD5(COALESCE(STRING_AGG(%[2]s::text, ',' ORDER BY %[2]s), '')) AS hash,
       MAX(%[2]s) AS last_updated
FROM %[1]s`, t.Name, t.Column)
}

type SyncController struct {
	DB *gorm.DB
}

func NewSyncController(db *gorm.DB) *SyncController {
	return &SyncController{DB: db}
}

/* =========================================================
   GET /api/u/sync
========================================================= */
func (h *SyncController) Status(c *fiber.Ctx) error {
	db := h.DB.WithContext(c.UserContext())
	out := make([]TableStatus, 0, len(SyncTables))
	for _, t := range SyncTables {
		var st TableStatus
		if err := db.Raw(statusSQL(t)).Scan(&st).Error; err != nil {
			log.Printf("[SYNC] %s: %v", t.Name, err)
			return helper.JsonError(c, fiber.StatusInternalServerError, "failed to compute sync status")
		}
		st.Table = t.Name
		out = append(out, st)
	}
	return helper.JsonOK(c, "ok", out)
}
