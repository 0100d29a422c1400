package controller

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"bibliothek_backend/internals/features/loans/dto"
	"bibliothek_backend/internals/features/loans/model"
	"bibliothek_backend/internals/features/loans/service"
	helper "bibliothek_backend/internals/helpers"
	helpersAuth "bibliothek_backend/internals/helpers/auth"
)

// LoanEngine is what the controller needs from service.Service.
type LoanEngine interface {
	Create(ctx context.Context, who helpersAuth.Identity, in dto.CreateLoanInput) (*dto.LoanView, error)
	List(ctx context.Context, who helpersAuth.Identity, q dto.ListLoansQuery) ([]dto.LoanView, int64, error)
	Get(ctx context.Context, who helpersAuth.Identity, loanID uuid.UUID) (*dto.LoanView, error)
	Return(ctx context.Context, who helpersAuth.Identity, loanID uuid.UUID, in dto.ReturnLoanInput) (*dto.LoanView, error)
	Renew(ctx context.Context, who helpersAuth.Identity, loanID uuid.UUID, in dto.RenewLoanInput) (*dto.LoanView, error)
	Delete(ctx context.Context, who helpersAuth.Identity, loanID uuid.UUID) (*dto.LoanView, error)
	HasOpenLoan(ctx context.Context, who helpersAuth.Identity, borrowerID *int64) (bool, error)
}

type LoansController struct {
	Engine LoanEngine
}

func NewLoansController(engine LoanEngine) *LoansController {
	return &LoansController{Engine: engine}
}

var validate = helper.NewValidator()

// identity never fails here; a missing identity reaches the engine as
// the zero value and comes back as Unauthenticated.
func identity(c *fiber.Ctx) helpersAuth.Identity {
	id, _ := helpersAuth.GetIdentity(c)
	return id
}

func parseLoanID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "loan id must be a uuid")
	}
	return id, nil
}

/* =========================================================
   POST /api/u/loans
========================================================= */
func (h *LoansController) Create(c *fiber.Ctx) error {
	var req dto.CreateLoanRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid payload")
	}
	req.Normalize()
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationFailed(c, err)
	}
	in, err := req.ToInput()
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	view, err := h.Engine.Create(c.UserContext(), identity(c), in)
	if err != nil {
		return writeLoanError(c, err)
	}
	return helper.JsonCreated(c, "loan created", view)
}

/* =========================================================
   GET /api/u/loans
   ?borrower_id=1,2 &book_id=7 &loan_from= &loan_to= &due_from= &due_to=
   &status=pending,overdue (or legacy ?situacao=0,1,2) &page= &per_page=
   &sort_by=loan_date|due_date|created_at|updated_at &sort_order=asc|desc
========================================================= */
func (h *LoansController) List(c *fiber.Ctx) error {
	q, err := parseListQuery(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	rows, total, err := h.Engine.List(c.UserContext(), identity(c), q)
	if err != nil {
		return writeLoanError(c, err)
	}
	pg := helper.BuildPagination(total, q.Paging)
	return helper.JsonList(c, "ok", rows, &pg)
}

func parseListQuery(c *fiber.Ctx) (dto.ListLoansQuery, error) {
	var (
		q   dto.ListLoansQuery
		err error
	)
	if q.BorrowerIDs, err = helper.QueryInt64List(c, "borrower_id"); err != nil {
		return q, err
	}
	if q.BookIDs, err = helper.QueryInt64List(c, "book_id"); err != nil {
		return q, err
	}
	if q.LoanFrom, err = helper.QueryDate(c, "loan_from"); err != nil {
		return q, err
	}
	if q.LoanTo, err = helper.QueryDate(c, "loan_to"); err != nil {
		return q, err
	}
	if q.DueFrom, err = helper.QueryDate(c, "due_from", "return_from"); err != nil {
		return q, err
	}
	if q.DueTo, err = helper.QueryDate(c, "due_to", "return_to"); err != nil {
		return q, err
	}

	raw := append(helper.QueryValues(c, "status"), helper.QueryValues(c, "situacao")...)
	seen := map[model.LoanStatus]bool{}
	for _, r := range raw {
		st, err := model.ParseLoanStatus(r)
		if err != nil {
			return q, err
		}
		if !seen[st] {
			seen[st] = true
			q.Statuses = append(q.Statuses, st)
		}
	}

	q.Paging = helper.ResolvePaging(c, helper.DefaultPaging)
	q.SortBy = strings.ToLower(strings.TrimSpace(c.Query("sort_by", "loan_date")))
	q.SortOrder = helper.ParseSortOrder(c.Query("sort_order"), "desc")
	return q, nil
}

/* =========================================================
   GET /api/u/loans/:id
========================================================= */
func (h *LoansController) GetByID(c *fiber.Ctx) error {
	id, err := parseLoanID(c)
	if err != nil {
		return err
	}
	view, err := h.Engine.Get(c.UserContext(), identity(c), id)
	if err != nil {
		return writeLoanError(c, err)
	}
	return helper.JsonOK(c, "ok", view)
}

/* =========================================================
   POST /api/u/loans/:id/return
========================================================= */
func (h *LoansController) Return(c *fiber.Ctx) error {
	id, err := parseLoanID(c)
	if err != nil {
		return err
	}
	var req dto.ReturnLoanRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if req.IdempotencyKey == nil {
		if k := strings.TrimSpace(c.Get("Idempotency-Key")); k != "" {
			req.IdempotencyKey = &k
		}
	}
	req.Normalize()
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationFailed(c, err)
	}
	in, err := req.ToInput()
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	view, err := h.Engine.Return(c.UserContext(), identity(c), id, in)
	if err != nil {
		return writeLoanError(c, err)
	}
	return helper.JsonUpdated(c, "loan return recorded", view)
}

/* =========================================================
   POST /api/u/loans/:id/renew
========================================================= */
func (h *LoansController) Renew(c *fiber.Ctx) error {
	id, err := parseLoanID(c)
	if err != nil {
		return err
	}
	var req dto.RenewLoanRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid payload")
	}
	req.Normalize()
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationFailed(c, err)
	}
	in, err := req.ToInput()
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	view, err := h.Engine.Renew(c.UserContext(), identity(c), id, in)
	if err != nil {
		return writeLoanError(c, err)
	}
	return helper.JsonUpdated(c, "loan renewed", view)
}

/* =========================================================
   DELETE /api/u/loans/:id   (privileged staff only)
========================================================= */
func (h *LoansController) Delete(c *fiber.Ctx) error {
	id, err := parseLoanID(c)
	if err != nil {
		return err
	}
	view, err := h.Engine.Delete(c.UserContext(), identity(c), id)
	if err != nil {
		return writeLoanError(c, err)
	}
	return helper.JsonDeleted(c, "loan deleted", view)
}

/* =========================================================
   GET /api/u/loans/open?borrower_id=
========================================================= */
func (h *LoansController) HasOpenLoan(c *fiber.Ctx) error {
	borrowerID, err := helper.QueryInt64(c, "borrower_id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	open, err := h.Engine.HasOpenLoan(c.UserContext(), identity(c), borrowerID)
	if err != nil {
		return writeLoanError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.OpenLoanResponse{BorrowerID: borrowerID, HasOpen: open})
}

/* =========================================================
   ERROR MAPPING
========================================================= */

func StatusForKind(k service.Kind) int {
	switch k {
	case service.KindUnauthenticated:
		return fiber.StatusUnauthorized
	case service.KindUnauthorized:
		return fiber.StatusForbidden
	case service.KindValidation:
		return fiber.StatusUnprocessableEntity
	case service.KindConflict:
		return fiber.StatusConflict
	case service.KindNotFound:
		return fiber.StatusNotFound
	case service.KindTimeout:
		return fiber.StatusServiceUnavailable
	}
	return fiber.StatusInternalServerError
}

func writeLoanError(c *fiber.Ctx, err error) error {
	var le *service.LoanError
	if !errors.As(err, &le) {
		return helper.JsonError(c, fiber.StatusInternalServerError, "internal server error")
	}
	status := StatusForKind(le.Kind)
	msg := le.Message
	if le.Kind == service.KindStore {
		msg = "internal server error"
	}
	if le.Retryable() {
		c.Set(fiber.HeaderRetryAfter, "1")
	}

	body := fiber.Map{
		"success":    false,
		"message":    msg,
		"error_code": le.Code,
	}
	if le.BookID > 0 {
		body["book_id"] = le.BookID
	}
	return c.Status(status).JSON(body)
}
