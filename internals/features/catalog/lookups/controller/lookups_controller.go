package controller

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"bibliothek_backend/internals/features/catalog/lookups/dto"
	"bibliothek_backend/internals/features/catalog/lookups/model"
	helper "bibliothek_backend/internals/helpers"
)

// LookupsController serves one lookup table (authors, publishers or subjects).
type LookupsController struct {
	DB   *gorm.DB
	Kind model.Kind
}

func NewLookupsController(db *gorm.DB, kind model.Kind) *LookupsController {
	return &LookupsController{DB: db, Kind: kind}
}

var validate = helper.NewValidator()

func (h *LookupsController) table(c *fiber.Ctx) *gorm.DB {
	return h.DB.WithContext(c.UserContext()).Table(h.Kind.Table)
}

func (h *LookupsController) find(c *fiber.Ctx, id int64) (*model.LookupModel, error) {
	var m model.LookupModel
	if err := h.table(c).Where("id = ?", id).Take(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (h *LookupsController) storeError(c *fiber.Ctx, err error, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return helper.JsonError(c, fiber.StatusNotFound, h.Kind.Label+" not found")
	}
	if code, _, ok := helper.PGError(err); ok {
		// a foreign key hit on delete means some book still points here
		if code == helper.PGForeignKeyViolation && op == "delete" {
			return helper.JsonErrorCode(c, fiber.StatusConflict, "IN_USE", h.Kind.Label+" is referenced by books")
		}
		if status, msg := helper.MapPGError(err); status < 500 {
			return helper.JsonError(c, status, msg)
		}
	}
	log.Printf("[LOOKUPS][%s][%s] %v", strings.ToUpper(h.Kind.Slug), strings.ToUpper(op), err)
	return helper.JsonError(c, fiber.StatusInternalServerError, "failed to "+op+" "+h.Kind.Label)
}

/* =========================================================
   GET /api/u/{authors|publishers|subjects}?id=&situacao=&q=
========================================================= */
func (h *LookupsController) List(c *fiber.Ctx) error {
	ids, err := helper.QueryInt64List(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	situacao := make([]int, 0, 2)
	for _, v := range helper.QueryValues(c, "situacao") {
		switch v {
		case "0":
			situacao = append(situacao, 0)
		case "1":
			situacao = append(situacao, 1)
		default:
			return helper.JsonError(c, fiber.StatusBadRequest, "situacao must be 0 or 1")
		}
	}
	q := helper.CleanText(c.Query("q"))
	paging := helper.ResolvePaging(c, helper.DefaultPaging)

	scope := func(db *gorm.DB) *gorm.DB {
		if len(ids) > 0 {
			db = db.Where("id IN ?", ids)
		}
		if len(situacao) > 0 {
			db = db.Where("situacao IN ?", situacao)
		}
		if q != "" {
			db = db.Where("name ILIKE ?", "%"+q+"%")
		}
		return db
	}

	var total int64
	if err := h.table(c).Scopes(scope).Count(&total).Error; err != nil {
		return h.storeError(c, err, "list")
	}
	var rows []model.LookupModel
	if err := h.table(c).Scopes(scope).
		Order("name ASC, id ASC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&rows).Error; err != nil {
		return h.storeError(c, err, "list")
	}

	out := make([]dto.LookupResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.ToLookupResponse(h.Kind, &rows[i]))
	}
	pg := helper.BuildPagination(total, paging)
	return helper.JsonList(c, "ok", out, &pg)
}

func (h *LookupsController) GetByID(c *fiber.Ctx) error {
	id, err := helper.ParseInt64Param(c, "id")
	if err != nil {
		return err
	}
	m, err := h.find(c, id)
	if err != nil {
		return h.storeError(c, err, "load")
	}
	return helper.JsonOK(c, "ok", dto.ToLookupResponse(h.Kind, m))
}

func (h *LookupsController) Create(c *fiber.Ctx) error {
	var req dto.CreateLookupRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid payload")
	}
	req.Normalize()
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationFailed(c, err)
	}

	m := req.ToModel()
	if err := h.table(c).Create(m).Error; err != nil {
		return h.storeError(c, err, "create")
	}
	return helper.JsonCreated(c, h.Kind.Label+" created", dto.ToLookupResponse(h.Kind, m))
}

func (h *LookupsController) Update(c *fiber.Ctx) error {
	id, err := helper.ParseInt64Param(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateLookupRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid payload")
	}
	req.Normalize()
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationFailed(c, err)
	}

	changes := req.Changes(time.Now())
	if len(changes) > 0 {
		res := h.table(c).Where("id = ?", id).Updates(changes)
		if res.Error != nil {
			return h.storeError(c, res.Error, "update")
		}
		if res.RowsAffected == 0 {
			return h.storeError(c, gorm.ErrRecordNotFound, "update")
		}
	}
	m, err := h.find(c, id)
	if err != nil {
		return h.storeError(c, err, "update")
	}
	return helper.JsonUpdated(c, h.Kind.Label+" updated", dto.ToLookupResponse(h.Kind, m))
}

func (h *LookupsController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseInt64Param(c, "id")
	if err != nil {
		return err
	}
	m, err := h.find(c, id)
	if err != nil {
		return h.storeError(c, err, "delete")
	}
	if err := h.table(c).Where("id = ?", id).Delete(&model.LookupModel{}).Error; err != nil {
		return h.storeError(c, err, "delete")
	}
	return helper.JsonDeleted(c, h.Kind.Label+" deleted", dto.ToLookupResponse(h.Kind, m))
}
