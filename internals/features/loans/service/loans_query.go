package service

import (
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"bibliothek_backend/internals/features/loans/dto"
	loanModel "bibliothek_backend/internals/features/loans/model"
)

const loanSelectSQL = `
SELECT l.loan_id,
       l.loan_borrower_id,
       p.person_name AS borrower_name,
       l.loan_staff_id,
       l.loan_date,
       l.loan_due_date,
       l.loan_returned_at,
       l.loan_note,
       l.loan_updated_at,
       SUM(lb.loan_book_quantity_lent)     AS total_lent,
       SUM(lb.loan_book_quantity_returned) AS total_returned,
       COALESCE(
         JSON_AGG(JSON_BUILD_OBJECT(
           'book_id',           b.book_id,
           'title',             b.book_title,
           'quantity_lent',     lb.loan_book_quantity_lent,
           'quantity_returned', lb.loan_book_quantity_returned
         ) ORDER BY b.book_id) FILTER (WHERE b.book_id IS NOT NULL),
         '[]'::json
       ) AS books
FROM loans l
JOIN people p          ON p.person_id = l.loan_borrower_id
LEFT JOIN loan_books lb ON lb.loan_book_loan_id = l.loan_id
LEFT JOIN books b       ON b.book_id = lb.loan_book_book_id`

type sqlFilter struct {
	cond string
	args []any
}

func loanIDFilter(id uuid.UUID) sqlFilter {
	return sqlFilter{cond: "l.loan_id = ?", args: []any{id}}
}

// buildLoanSQL returns the grouped loan query without ORDER BY / LIMIT.
// The book filter uses EXISTS so the aggregates still cover every line.
func buildLoanSQL(q dto.ListLoansQuery, today time.Time, extra ...sqlFilter) (string, []any) {
	where := make([]string, 0, 8)
	args := make([]any, 0, 8)
	add := func(cond string, a ...any) {
		where = append(where, cond)
		args = append(args, a...)
	}

	for _, f := range extra {
		add(f.cond, f.args...)
	}
	if len(q.BorrowerIDs) > 0 {
		add("l.loan_borrower_id IN ?", q.BorrowerIDs)
	}
	if len(q.BookIDs) > 0 {
		add(`EXISTS (SELECT 1 FROM loan_books fb
		             WHERE fb.loan_book_loan_id = l.loan_id
		               AND fb.loan_book_book_id IN ?)`, q.BookIDs)
	}
	if q.LoanFrom != nil {
		add("l.loan_date >= ?::date", q.LoanFrom.Format(dto.DateLayout))
	}
	if q.LoanTo != nil {
		add("l.loan_date <= ?::date", q.LoanTo.Format(dto.DateLayout))
	}
	if q.DueFrom != nil {
		add("l.loan_due_date >= ?::date", q.DueFrom.Format(dto.DateLayout))
	}
	if q.DueTo != nil {
		add("l.loan_due_date <= ?::date", q.DueTo.Format(dto.DateLayout))
	}

	var b strings.Builder
	b.WriteString(loanSelectSQL)
	if len(where) > 0 {
		b.WriteString("\nWHERE ")
		b.WriteString(strings.Join(where, "\n  AND "))
	}
	b.WriteString("\nGROUP BY l.loan_id, p.person_name")

	if having, hargs := loanModel.StatusHaving(q.Statuses, today); having != "" {
		b.WriteString("\nHAVING ")
		b.WriteString(having)
		args = append(args, hargs...)
	}
	return b.String(), args
}

var sortColumns = map[string]string{
	"loan_date":  "l.loan_date",
	"due_date":   "l.loan_due_date",
	"created_at": "l.loan_created_at",
	"updated_at": "l.loan_updated_at",
}

func orderClause(q dto.ListLoansQuery) string {
	col, ok := sortColumns[q.SortBy]
	if !ok {
		col = sortColumns["loan_date"]
	}
	dir := "DESC"
	if strings.EqualFold(q.SortOrder, "asc") {
		dir = "ASC"
	}
	return col + " " + dir + ", l.loan_id " + dir
}

type loanRow struct {
	LoanID         uuid.UUID      `gorm:"column:loan_id"`
	LoanBorrowerID int64          `gorm:"column:loan_borrower_id"`
	BorrowerName   string         `gorm:"column:borrower_name"`
	LoanStaffID    int64          `gorm:"column:loan_staff_id"`
	LoanDate       time.Time      `gorm:"column:loan_date"`
	LoanDueDate    time.Time      `gorm:"column:loan_due_date"`
	LoanReturnedAt *time.Time     `gorm:"column:loan_returned_at"`
	LoanNote       *string        `gorm:"column:loan_note"`
	LoanUpdatedAt  time.Time      `gorm:"column:loan_updated_at"`
	TotalLent      *int64         `gorm:"column:total_lent"`
	TotalReturned  *int64         `gorm:"column:total_returned"`
	Books          datatypes.JSON `gorm:"column:books"`
}

func (r loanRow) toView(today time.Time) (*dto.LoanView, error) {
	books := make([]dto.LoanBookView, 0)
	if len(r.Books) > 0 {
		if err := sonic.Unmarshal(r.Books, &books); err != nil {
			return nil, err
		}
	}

	var lent, returned int64
	hasLines := r.TotalLent != nil
	if hasLines {
		lent = *r.TotalLent
	}
	if r.TotalReturned != nil {
		returned = *r.TotalReturned
	}

	return &dto.LoanView{
		LoanID:        r.LoanID,
		BorrowerID:    r.LoanBorrowerID,
		BorrowerName:  r.BorrowerName,
		StaffID:       r.LoanStaffID,
		LoanDate:      r.LoanDate.Format(dto.DateLayout),
		DueDate:       r.LoanDueDate.Format(dto.DateLayout),
		ReturnedAt:    r.LoanReturnedAt,
		Note:          r.LoanNote,
		UpdatedAt:     r.LoanUpdatedAt,
		TotalLent:     lent,
		TotalReturned: returned,
		Status:        loanModel.DeriveLoanStatus(lent, returned, hasLines, r.LoanDueDate, today),
		Books:         books,
	}, nil
}
