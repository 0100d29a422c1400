package controller

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bibliothek_backend/internals/constants"
	"bibliothek_backend/internals/features/catalog/people/dto"
	"bibliothek_backend/internals/features/catalog/people/model"
	helper "bibliothek_backend/internals/helpers"
	helpersAuth "bibliothek_backend/internals/helpers/auth"
)

type PeopleController struct {
	DB *gorm.DB
}

func NewPeopleController(db *gorm.DB) *PeopleController {
	return &PeopleController{DB: db}
}

var (
	validate  = helper.NewValidator()
	forUpdate = clause.Locking{Strength: "UPDATE"}

	errStaffAccountRequired = fiber.NewError(fiber.StatusUnprocessableEntity, "staff persons need a staff account")
	errNoStaffAccount       = fiber.NewError(fiber.StatusUnprocessableEntity, "staff account fields given for a non-staff person")
)

type personFilter struct {
	IDs      []int64
	Types    []int64
	Situacao []int64
	Q        string
}

func parsePersonFilter(c *fiber.Ctx) (personFilter, error) {
	var (
		f   personFilter
		err error
	)
	if f.IDs, err = helper.QueryInt64List(c, "id"); err != nil {
		return f, err
	}
	if f.Types, err = helper.QueryInt64List(c, "type"); err != nil {
		return f, err
	}
	for _, t := range f.Types {
		if !constants.IsValidPersonType(int(t)) {
			return f, errors.New("type must be 1, 2 or 3")
		}
	}
	for _, v := range helper.QueryValues(c, "situacao") {
		switch v {
		case "0":
			f.Situacao = append(f.Situacao, 0)
		case "1":
			f.Situacao = append(f.Situacao, 1)
		default:
			return f, errors.New("situacao must be 0 or 1")
		}
	}
	f.Q = helper.CleanText(c.Query("q"))
	return f, nil
}

func (f personFilter) apply(db *gorm.DB) *gorm.DB {
	if len(f.IDs) > 0 {
		db = db.Where("person_id IN ?", f.IDs)
	}
	if len(f.Types) > 0 {
		db = db.Where("person_type IN ?", f.Types)
	}
	if len(f.Situacao) > 0 {
		db = db.Where("person_situacao IN ?", f.Situacao)
	}
	if f.Q != "" {
		like := "%" + f.Q + "%"
		db = db.Where("(person_name ILIKE ? OR person_document ILIKE ?)", like, like)
	}
	return db
}

// staffByPerson loads the staff rows of the given people keyed by person id.
func staffByPerson(db *gorm.DB, personIDs []int64) (map[int64]*model.StaffModel, error) {
	out := make(map[int64]*model.StaffModel, len(personIDs))
	if len(personIDs) == 0 {
		return out, nil
	}
	var rows []model.StaffModel
	if err := db.Where("staff_person_id IN ?", personIDs).Find(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		out[rows[i].StaffPersonID] = &rows[i]
	}
	return out, nil
}

func (h *PeopleController) load(db *gorm.DB, id int64) (*dto.PersonResponse, error) {
	var p model.PersonModel
	if err := db.First(&p, "person_id = ?", id).Error; err != nil {
		return nil, err
	}
	staff, err := staffByPerson(db, []int64{id})
	if err != nil {
		return nil, err
	}
	out := dto.ToPersonResponse(&p, staff[id])
	return &out, nil
}

func writeStoreError(c *fiber.Ctx, err error, fallback string) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return helper.JsonError(c, fe.Code, fe.Message)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return helper.JsonError(c, fiber.StatusNotFound, "person not found")
	}
	if _, _, ok := helper.PGError(err); ok {
		if status, msg := helper.MapPGError(err); status < 500 {
			return helper.JsonError(c, status, msg)
		}
	}
	return helper.JsonError(c, fiber.StatusInternalServerError, fallback)
}

func requirePrivileged(c *fiber.Ctx) error {
	id, err := helpersAuth.GetIdentity(c)
	if err != nil {
		return err
	}
	if !id.IsPrivileged() {
		return fiber.NewError(fiber.StatusForbidden, constants.RoleErrorPrivileged("staff accounts"))
	}
	return nil
}

/* =========================================================
   GET /api/u/people?id=&type=1,3&situacao=1&q=
========================================================= */
func (h *PeopleController) List(c *fiber.Ctx) error {
	f, err := parsePersonFilter(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	paging := helper.ResolvePaging(c, helper.DefaultPaging)
	db := h.DB.WithContext(c.UserContext())

	var total int64
	if err := f.apply(db.Model(&model.PersonModel{})).Count(&total).Error; err != nil {
		log.Printf("[PEOPLE][LIST] count: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to count people")
	}

	var rows []model.PersonModel
	if err := f.apply(db.Model(&model.PersonModel{})).
		Order("person_name ASC, person_id ASC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&rows).Error; err != nil {
		log.Printf("[PEOPLE][LIST] query: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to list people")
	}

	ids := make([]int64, 0, len(rows))
	for _, p := range rows {
		if p.PersonType == constants.PersonStaff {
			ids = append(ids, p.PersonID)
		}
	}
	staff, err := staffByPerson(db, ids)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load staff accounts")
	}

	out := make([]dto.PersonResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.ToPersonResponse(&rows[i], staff[rows[i].PersonID]))
	}
	pg := helper.BuildPagination(total, paging)
	return helper.JsonList(c, "ok", out, &pg)
}

/* =========================================================
   GET /api/u/people/:id
========================================================= */
func (h *PeopleController) GetByID(c *fiber.Ctx) error {
	id, err := helper.ParseInt64Param(c, "id")
	if err != nil {
		return err
	}
	out, err := h.load(h.DB.WithContext(c.UserContext()), id)
	if err != nil {
		return writeStoreError(c, err, "failed to load person")
	}
	return helper.JsonOK(c, "ok", out)
}

/* =========================================================
   POST /api/u/people
   Staff persons (type 2) come with a staff account and need a privileged caller.
========================================================= */
func (h *PeopleController) Create(c *fiber.Ctx) error {
	var req dto.CreatePersonRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid payload")
	}
	req.Normalize()
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationFailed(c, err)
	}
	if req.WantsStaffAccount() {
		if err := requirePrivileged(c); err != nil {
			return err
		}
		if req.PersonType != constants.PersonStaff {
			return writeStoreError(c, errNoStaffAccount, "")
		}
		if req.Staff == nil {
			return writeStoreError(c, errStaffAccountRequired, "")
		}
	}

	var out *dto.PersonResponse
	err := h.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		p := req.ToModel()
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		if req.Staff != nil {
			s, err := req.Staff.ToStaffModel()
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			s.StaffPersonID = p.PersonID
			if err := tx.Omit(clause.Associations).Create(s).Error; err != nil {
				return err
			}
		}
		var err error
		out, err = h.load(tx, p.PersonID)
		return err
	})
	if err != nil {
		log.Printf("[PEOPLE][CREATE] %v", err)
		return writeStoreError(c, err, "failed to create person")
	}
	return helper.JsonCreated(c, "person created", out)
}

/* =========================================================
   PATCH /api/u/people/:id
========================================================= */
func (h *PeopleController) Update(c *fiber.Ctx) error {
	id, err := helper.ParseInt64Param(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdatePersonRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid payload")
	}
	req.Normalize()
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationFailed(c, err)
	}

	var out *dto.PersonResponse
	err = h.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		var p model.PersonModel
		if err := tx.Clauses(forUpdate).First(&p, "person_id = ?", id).Error; err != nil {
			return err
		}
		if req.TouchesStaff(&p) {
			if err := requirePrivileged(c); err != nil {
				return err
			}
		}
		req.ApplyToModel(&p)
		if err := tx.Save(&p).Error; err != nil {
			return err
		}

		if req.Staff != nil {
			if p.PersonType != constants.PersonStaff {
				return errNoStaffAccount
			}
			var s model.StaffModel
			err := tx.Clauses(forUpdate).First(&s, "staff_person_id = ?", p.PersonID).Error
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			if errors.Is(err, gorm.ErrRecordNotFound) {
				if req.Staff.Email == nil || req.Staff.Password == nil {
					return errStaffAccountRequired
				}
				s.StaffPersonID = p.PersonID
			}
			if err := req.Staff.ApplyToModel(&s); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			if err := tx.Omit(clause.Associations).Save(&s).Error; err != nil {
				return err
			}
		}

		var err error
		out, err = h.load(tx, p.PersonID)
		return err
	})
	if err != nil {
		log.Printf("[PEOPLE][UPDATE] id=%d: %v", id, err)
		return writeStoreError(c, err, "failed to update person")
	}
	return helper.JsonUpdated(c, "person updated", out)
}
