package dto

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"bibliothek_backend/internals/features/loans/model"
	helper "bibliothek_backend/internals/helpers"
)

const DateLayout = "2006-01-02"

/* =========================================================
   REQUESTS
========================================================= */

type LoanLineRequest struct {
	BookID   int64 `json:"book_id"  validate:"required,gt=0"`
	Quantity int   `json:"quantity" validate:"required,gt=0"`
}

type CreateLoanRequest struct {
	BorrowerID int64             `json:"borrower_id" validate:"required,gt=0"`
	StaffID    int64             `json:"staff_id"    validate:"omitempty,gt=0"`
	LoanDate   string            `json:"loan_date"   validate:"required,datetime=2006-01-02"`
	DueDate    string            `json:"due_date"    validate:"required,datetime=2006-01-02"`
	Note       *string           `json:"note"        validate:"omitempty,max=2000"`
	Books      []LoanLineRequest `json:"books"       validate:"required,min=1,dive"`
}

type ReturnLoanRequest struct {
	Note           *string           `json:"note"            validate:"omitempty,max=2000"`
	ReturnedAt     *time.Time        `json:"returned_at"`
	IdempotencyKey *string           `json:"idempotency_key" validate:"omitempty,uuid"`
	Books          []LoanLineRequest `json:"books"           validate:"required,min=1,dive"`
}

type RenewLoanRequest struct {
	DueDate string  `json:"due_date" validate:"required,datetime=2006-01-02"`
	Note    *string `json:"note"     validate:"omitempty,max=2000"`
}

/* =========================================================
   ENGINE INPUTS (normalised)
========================================================= */

type LoanLine struct {
	BookID   int64
	Quantity int
}

type CreateLoanInput struct {
	BorrowerID int64
	StaffID    int64 // 0 = the caller
	LoanDate   time.Time
	DueDate    time.Time
	Note       *string
	Lines      []LoanLine
}

type ReturnLoanInput struct {
	Note           *string
	ReturnedAt     *time.Time
	IdempotencyKey *uuid.UUID
	Lines          []LoanLine
}

type RenewLoanInput struct {
	DueDate time.Time
	Note    *string
}

type ListLoansQuery struct {
	BorrowerIDs []int64
	BookIDs     []int64
	LoanFrom    *time.Time
	LoanTo      *time.Time
	DueFrom     *time.Time
	DueTo       *time.Time
	Statuses    []model.LoanStatus
	Paging      helper.Paging
	SortBy      string // loan_date | due_date | created_at | updated_at
	SortOrder   string // asc | desc
}

// MaxLineQuantity bounds a merged line so it fits the quantity columns.
const MaxLineQuantity = math.MaxInt32

// MergeLines sums quantities of repeated book ids and orders by book id,
// so row locks are always taken in the same order.
func MergeLines(in []LoanLineRequest) ([]LoanLine, error) {
	byBook := make(map[int64]int, len(in))
	for _, l := range in {
		if l.Quantity <= 0 {
			return nil, fmt.Errorf("quantity must be greater than zero")
		}
		if l.Quantity > MaxLineQuantity-byBook[l.BookID] {
			return nil, fmt.Errorf("quantity for book %d exceeds %d", l.BookID, MaxLineQuantity)
		}
		byBook[l.BookID] += l.Quantity
	}
	out := make([]LoanLine, 0, len(byBook))
	for id, q := range byBook {
		out = append(out, LoanLine{BookID: id, Quantity: q})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BookID < out[j].BookID })
	return out, nil
}

func ParseDate(field, raw string) (time.Time, error) {
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be YYYY-MM-DD", field)
	}
	return t, nil
}

func (r *CreateLoanRequest) Normalize() {
	r.Note = helper.CleanTextPtr(r.Note)
}

func (r CreateLoanRequest) ToInput() (CreateLoanInput, error) {
	loanDate, err := ParseDate("loan_date", r.LoanDate)
	if err != nil {
		return CreateLoanInput{}, err
	}
	dueDate, err := ParseDate("due_date", r.DueDate)
	if err != nil {
		return CreateLoanInput{}, err
	}
	lines, err := MergeLines(r.Books)
	if err != nil {
		return CreateLoanInput{}, err
	}
	return CreateLoanInput{
		BorrowerID: r.BorrowerID,
		StaffID:    r.StaffID,
		LoanDate:   loanDate,
		DueDate:    dueDate,
		Note:       r.Note,
		Lines:      lines,
	}, nil
}

func (r *ReturnLoanRequest) Normalize() {
	r.Note = helper.CleanTextPtr(r.Note)
	r.IdempotencyKey = helper.CleanTextPtr(r.IdempotencyKey)
}

func (r ReturnLoanRequest) ToInput() (ReturnLoanInput, error) {
	lines, err := MergeLines(r.Books)
	if err != nil {
		return ReturnLoanInput{}, err
	}
	in := ReturnLoanInput{
		Note:       r.Note,
		ReturnedAt: r.ReturnedAt,
		Lines:      lines,
	}
	if r.IdempotencyKey != nil {
		key, err := uuid.Parse(*r.IdempotencyKey)
		if err != nil {
			return ReturnLoanInput{}, fmt.Errorf("idempotency_key must be a uuid")
		}
		in.IdempotencyKey = &key
	}
	return in, nil
}

func (r *RenewLoanRequest) Normalize() {
	r.Note = helper.CleanTextPtr(r.Note)
}

func (r RenewLoanRequest) ToInput() (RenewLoanInput, error) {
	due, err := ParseDate("due_date", r.DueDate)
	if err != nil {
		return RenewLoanInput{}, err
	}
	return RenewLoanInput{DueDate: due, Note: r.Note}, nil
}

/* =========================================================
   RESPONSES
========================================================= */

type LoanBookView struct {
	BookID           int64  `json:"book_id"`
	Title            string `json:"title"`
	QuantityLent     int    `json:"quantity_lent"`
	QuantityReturned int    `json:"quantity_returned"`
}

type LoanView struct {
	LoanID        uuid.UUID        `json:"loan_id"`
	BorrowerID    int64            `json:"borrower_id"`
	BorrowerName  string           `json:"borrower_name"`
	StaffID       int64            `json:"staff_id"`
	LoanDate      string           `json:"loan_date"`
	DueDate       string           `json:"due_date"`
	ReturnedAt    *time.Time       `json:"returned_at,omitempty"`
	Note          *string          `json:"note,omitempty"`
	UpdatedAt     time.Time        `json:"updated_at"`
	TotalLent     int64            `json:"total_lent"`
	TotalReturned int64            `json:"total_returned"`
	Status        model.LoanStatus `json:"status,omitempty"`
	Books         []LoanBookView   `json:"books"`
}

type OpenLoanResponse struct {
	BorrowerID *int64 `json:"borrower_id,omitempty"`
	HasOpen    bool   `json:"has_open_loan"`
}
