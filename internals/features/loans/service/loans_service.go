package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bibliothek_backend/internals/configs"
	bookModel "bibliothek_backend/internals/features/catalog/books/model"
	"bibliothek_backend/internals/features/loans/dto"
	loanModel "bibliothek_backend/internals/features/loans/model"
	helpersAuth "bibliothek_backend/internals/helpers/auth"
	"bibliothek_backend/internals/helpers/dbtime"
)

const defaultTimeout = 5 * time.Second

// Service runs every loan operation in one bounded PostgreSQL transaction.
// Book availability is only changed through conditional single-statement
// UPDATEs; loan headers and lines are locked FOR UPDATE before mutation.
type Service struct {
	DB      *gorm.DB
	Now     func() time.Time
	Timeout time.Duration
}

func New(db *gorm.DB) *Service {
	return &Service{DB: db, Now: dbtime.Now, Timeout: configs.LoanTxTimeout}
}

func forUpdate() clause.Expression {
	return clause.Locking{Strength: "UPDATE"}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return dbtime.Now()
}

func (s *Service) today() time.Time { return loanModel.DateOnly(s.now()) }

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	d := s.Timeout
	if d <= 0 {
		d = defaultTimeout
	}
	return context.WithTimeout(ctx, d)
}

/* =========================================================
   CREATE
========================================================= */

func (s *Service) Create(ctx context.Context, who helpersAuth.Identity, in dto.CreateLoanInput) (*dto.LoanView, error) {
	if who.StaffID <= 0 {
		return nil, errUnauthenticated()
	}
	if err := validateCreate(in); err != nil {
		return nil, err
	}
	staffID := in.StaffID
	if staffID == 0 {
		staffID = who.StaffID
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var view *dto.LoanView
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if ok, err := exists(tx, "people", "person_id = ?", in.BorrowerID); err != nil {
			return err
		} else if !ok {
			return errNotFound("BORROWER_NOT_FOUND", "borrower not found")
		}
		if ok, err := exists(tx, "staff", "staff_id = ?", staffID); err != nil {
			return err
		} else if !ok {
			return errNotFound("STAFF_NOT_FOUND", "staff member not found")
		}

		loan := loanModel.LoanModel{
			LoanID:         uuid.New(),
			LoanBorrowerID: in.BorrowerID,
			LoanStaffID:    staffID,
			LoanDate:       in.LoanDate,
			LoanDueDate:    in.DueDate,
			LoanNote:       in.Note,
		}
		if err := tx.Omit(clause.Associations).Create(&loan).Error; err != nil {
			return err
		}

		// lines arrive merged and sorted by book id, so book rows are locked in a fixed order
		for _, l := range in.Lines {
			res := tx.Model(&bookModel.BookModel{}).
				Where("book_id = ? AND book_available_copies >= ?", l.BookID, l.Quantity).
				UpdateColumns(map[string]any{
					"book_available_copies": gorm.Expr("book_available_copies - ?", l.Quantity),
					"book_updated_at":       s.now(),
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				found, err := exists(tx, "books", "book_id = ?", l.BookID)
				if err != nil {
					return err
				}
				if !found {
					return errBookNotFound(l.BookID)
				}
				return errUnavailable(l.BookID, l.Quantity)
			}

			line := loanModel.LoanBookModel{
				LoanBookLoanID:       loan.LoanID,
				LoanBookBookID:       l.BookID,
				LoanBookQuantityLent: l.Quantity,
			}
			if err := tx.Omit(clause.Associations).Create(&line).Error; err != nil {
				return err
			}
		}

		v, err := s.loadView(tx, loan.LoanID)
		if err != nil {
			return err
		}
		view = v
		return nil
	})
	if err != nil {
		return nil, classify(ctx, "CREATE", err)
	}

	log.Printf("[LOAN][CREATE] loan=%s borrower=%d staff=%d lines=%d", view.LoanID, view.BorrowerID, view.StaffID, len(view.Books))
	return view, nil
}

func validateCreate(in dto.CreateLoanInput) error {
	if in.BorrowerID <= 0 {
		return errValidation("borrower_id is required")
	}
	if in.StaffID < 0 {
		return errValidation("staff_id must be positive")
	}
	if in.LoanDate.IsZero() || in.DueDate.IsZero() {
		return errValidation("loan_date and due_date are required")
	}
	if loanModel.DateOnly(in.DueDate).Before(loanModel.DateOnly(in.LoanDate)) {
		return errValidation("due_date must not be before loan_date")
	}
	return validateLines(in.Lines)
}

func validateLines(lines []dto.LoanLine) error {
	if len(lines) == 0 {
		return errValidation("at least one book is required")
	}
	seen := make(map[int64]struct{}, len(lines))
	for _, l := range lines {
		if l.BookID <= 0 {
			return errValidation("book_id must be positive")
		}
		if l.Quantity <= 0 {
			return errValidation("quantity must be greater than zero")
		}
		if _, dup := seen[l.BookID]; dup {
			return errValidation("book ids must be merged before submission")
		}
		seen[l.BookID] = struct{}{}
	}
	return nil
}

/* =========================================================
   LIST / GET
========================================================= */

func (s *Service) List(ctx context.Context, who helpersAuth.Identity, q dto.ListLoansQuery) ([]dto.LoanView, int64, error) {
	if who.StaffID <= 0 {
		return nil, 0, errUnauthenticated()
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	today := s.today()
	base, args := buildLoanSQL(q, today)
	db := s.DB.WithContext(ctx)

	var total int64
	if err := db.Raw("SELECT COUNT(*) FROM ("+base+") AS loans_page", args...).Scan(&total).Error; err != nil {
		return nil, 0, classify(ctx, "LIST", err)
	}

	page := base + " ORDER BY " + orderClause(q)
	pageArgs := append([]any{}, args...)
	if q.Paging.Limit > 0 {
		page += " LIMIT ? OFFSET ?"
		pageArgs = append(pageArgs, q.Paging.Limit, q.Paging.Offset)
	}

	var rows []loanRow
	if err := db.Raw(page, pageArgs...).Scan(&rows).Error; err != nil {
		return nil, 0, classify(ctx, "LIST", err)
	}

	out := make([]dto.LoanView, 0, len(rows))
	for _, r := range rows {
		v, err := r.toView(today)
		if err != nil {
			return nil, 0, classify(ctx, "LIST", err)
		}
		out = append(out, *v)
	}
	return out, total, nil
}

func (s *Service) Get(ctx context.Context, who helpersAuth.Identity, loanID uuid.UUID) (*dto.LoanView, error) {
	if who.StaffID <= 0 {
		return nil, errUnauthenticated()
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	v, err := s.loadView(s.DB.WithContext(ctx), loanID)
	if err != nil {
		return nil, classify(ctx, "GET", err)
	}
	return v, nil
}

func (s *Service) loadView(tx *gorm.DB, loanID uuid.UUID) (*dto.LoanView, error) {
	today := s.today()
	base, args := buildLoanSQL(dto.ListLoansQuery{}, today, loanIDFilter(loanID))

	var rows []loanRow
	if err := tx.Raw(base, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errNotFound("LOAN_NOT_FOUND", "loan not found")
	}
	return rows[0].toView(today)
}

/* =========================================================
   RETURN
========================================================= */

func (s *Service) Return(ctx context.Context, who helpersAuth.Identity, loanID uuid.UUID, in dto.ReturnLoanInput) (*dto.LoanView, error) {
	if who.StaffID <= 0 {
		return nil, errUnauthenticated()
	}
	if err := validateLines(in.Lines); err != nil {
		return nil, err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var (
		view     *dto.LoanView
		replayed bool
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockLoan(tx, loanID); err != nil {
			return err
		}

		if in.IdempotencyKey != nil {
			seen, err := claimReceipt(tx, *in.IdempotencyKey, loanID)
			if err != nil {
				return err
			}
			if seen {
				replayed = true
				v, err := s.loadView(tx, loanID)
				view = v
				return err
			}
		}

		now := s.now()
		for _, l := range in.Lines {
			var line loanModel.LoanBookModel
			err := tx.Clauses(forUpdate()).
				Where("loan_book_loan_id = ? AND loan_book_book_id = ?", loanID, l.BookID).
				Take(&line).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errLineNotInLoan(l.BookID)
			}
			if err != nil {
				return err
			}
			if line.LoanBookQuantityReturned+l.Quantity > line.LoanBookQuantityLent {
				return errOverReturn(l.BookID, line.Outstanding(), l.Quantity)
			}

			if err := tx.Model(&loanModel.LoanBookModel{}).
				Where("loan_book_loan_id = ? AND loan_book_book_id = ?", loanID, l.BookID).
				UpdateColumns(map[string]any{
					"loan_book_quantity_returned": gorm.Expr("loan_book_quantity_returned + ?", l.Quantity),
					"loan_book_updated_at":        now,
				}).Error; err != nil {
				return err
			}
			if err := creditBook(tx, l.BookID, l.Quantity, now); err != nil {
				return err
			}
		}

		lent, returned, err := lineTotals(tx, loanID)
		if err != nil {
			return err
		}
		updates := map[string]any{"loan_updated_at": now}
		if in.Note != nil {
			updates["loan_note"] = *in.Note
		}
		if lent > 0 && returned == lent {
			at := now
			if in.ReturnedAt != nil {
				at = *in.ReturnedAt
			}
			updates["loan_returned_at"] = at
		}
		if err := tx.Model(&loanModel.LoanModel{}).Where("loan_id = ?", loanID).UpdateColumns(updates).Error; err != nil {
			return err
		}

		v, err := s.loadView(tx, loanID)
		view = v
		return err
	})
	if err != nil {
		return nil, classify(ctx, "RETURN", err)
	}

	if replayed {
		log.Printf("[LOAN][RETURN] loan=%s replayed key=%s", loanID, in.IdempotencyKey)
	} else {
		log.Printf("[LOAN][RETURN] loan=%s lines=%d status=%s", loanID, len(in.Lines), view.Status)
	}
	return view, nil
}

// claimReceipt stores key for loanID. It reports true when the key was
// already used for the same loan; a key used for another loan is a Conflict.
func claimReceipt(tx *gorm.DB, key, loanID uuid.UUID) (bool, error) {
	var rc loanModel.LoanReturnReceiptModel
	err := tx.Where("loan_return_receipt_key = ?", key).Take(&rc).Error
	if err == nil {
		if rc.LoanReturnReceiptLoanID == loanID {
			return true, nil
		}
		return false, errConflict("IDEMPOTENCY_KEY_REUSED", "idempotency_key already used for another loan")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	rc = loanModel.LoanReturnReceiptModel{
		LoanReturnReceiptKey:    key,
		LoanReturnReceiptLoanID: loanID,
	}
	return false, tx.Omit(clause.Associations).Create(&rc).Error
}

/* =========================================================
   RENEW
========================================================= */

func (s *Service) Renew(ctx context.Context, who helpersAuth.Identity, loanID uuid.UUID, in dto.RenewLoanInput) (*dto.LoanView, error) {
	if who.StaffID <= 0 {
		return nil, errUnauthenticated()
	}
	if in.DueDate.IsZero() {
		return nil, errValidation("due_date is required")
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var view *dto.LoanView
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		loan, err := lockLoan(tx, loanID)
		if err != nil {
			return err
		}
		if loanModel.DateOnly(in.DueDate).Before(loanModel.DateOnly(loan.LoanDate)) {
			return errValidation("due_date must not be before loan_date")
		}
		lent, returned, err := lineTotals(tx, loanID)
		if err != nil {
			return err
		}
		if lent > 0 && returned == lent {
			return errConflict("LOAN_RETURNED", "loan is already fully returned")
		}

		updates := map[string]any{
			"loan_due_date":   in.DueDate,
			"loan_updated_at": s.now(),
		}
		if in.Note != nil {
			updates["loan_note"] = *in.Note
		}
		if err := tx.Model(&loanModel.LoanModel{}).Where("loan_id = ?", loanID).UpdateColumns(updates).Error; err != nil {
			return err
		}

		v, err := s.loadView(tx, loanID)
		view = v
		return err
	})
	if err != nil {
		return nil, classify(ctx, "RENEW", err)
	}

	log.Printf("[LOAN][RENEW] loan=%s due=%s", loanID, view.DueDate)
	return view, nil
}

/* =========================================================
   DELETE
========================================================= */

// Delete removes a loan and re-credits its outstanding copies.
// Only privileged staff may call it; others fail before any query runs.
func (s *Service) Delete(ctx context.Context, who helpersAuth.Identity, loanID uuid.UUID) (*dto.LoanView, error) {
	if who.StaffID <= 0 {
		return nil, errUnauthenticated()
	}
	if !who.IsPrivileged() {
		return nil, errUnauthorized("only privileged staff may delete loans")
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var view *dto.LoanView
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockLoan(tx, loanID); err != nil {
			return err
		}
		v, err := s.loadView(tx, loanID)
		if err != nil {
			return err
		}
		view = v

		var lines []loanModel.LoanBookModel
		if err := tx.Clauses(forUpdate()).
			Where("loan_book_loan_id = ?", loanID).
			Order("loan_book_book_id").
			Find(&lines).Error; err != nil {
			return err
		}
		now := s.now()
		for _, l := range lines {
			if out := l.Outstanding(); out > 0 {
				if err := creditBook(tx, l.LoanBookBookID, out, now); err != nil {
					return err
				}
			}
		}

		if err := tx.Where("loan_return_receipt_loan_id = ?", loanID).Delete(&loanModel.LoanReturnReceiptModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("loan_book_loan_id = ?", loanID).Delete(&loanModel.LoanBookModel{}).Error; err != nil {
			return err
		}
		return tx.Where("loan_id = ?", loanID).Delete(&loanModel.LoanModel{}).Error
	})
	if err != nil {
		return nil, classify(ctx, "DELETE", err)
	}

	log.Printf("[LOAN][DELETE] loan=%s by staff=%d", loanID, who.StaffID)
	return view, nil
}

/* =========================================================
   OPEN-LOAN PROBE
========================================================= */

// HasOpenLoan reports whether any line still has copies out,
// restricted to borrowerID when given.
func (s *Service) HasOpenLoan(ctx context.Context, who helpersAuth.Identity, borrowerID *int64) (bool, error) {
	if who.StaffID <= 0 {
		return false, errUnauthenticated()
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	sql := `
		SELECT EXISTS (
		  SELECT 1
		  FROM loan_books lb
		  JOIN loans l ON l.loan_id = lb.loan_book_loan_id
		  WHERE lb.loan_book_quantity_returned <> lb.loan_book_quantity_lent`
	args := []any{}
	if borrowerID != nil {
		sql += ` AND l.loan_borrower_id = ?`
		args = append(args, *borrowerID)
	}
	sql += `)`

	var open bool
	if err := s.DB.WithContext(ctx).Raw(sql, args...).Scan(&open).Error; err != nil {
		return false, classify(ctx, "OPEN", err)
	}
	return open, nil
}

/* =========================================================
   TX HELPERS
========================================================= */

func lockLoan(tx *gorm.DB, loanID uuid.UUID) (*loanModel.LoanModel, error) {
	var loan loanModel.LoanModel
	err := tx.Clauses(forUpdate()).Where("loan_id = ?", loanID).Take(&loan).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errNotFound("LOAN_NOT_FOUND", "loan not found")
	}
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

func lineTotals(tx *gorm.DB, loanID uuid.UUID) (lent, returned int64, err error) {
	var t struct {
		Lent     int64
		Returned int64
	}
	err = tx.Raw(`
		SELECT COALESCE(SUM(loan_book_quantity_lent), 0)     AS lent,
		       COALESCE(SUM(loan_book_quantity_returned), 0) AS returned
		FROM loan_books
		WHERE loan_book_loan_id = ?
	`, loanID).Scan(&t).Error
	return t.Lent, t.Returned, err
}

// creditBook gives copies back; the CHECK constraint rejects going above total.
func creditBook(tx *gorm.DB, bookID int64, qty int, now time.Time) error {
	res := tx.Model(&bookModel.BookModel{}).
		Where("book_id = ?", bookID).
		UpdateColumns(map[string]any{
			"book_available_copies": gorm.Expr("book_available_copies + ?", qty),
			"book_updated_at":       now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errBookNotFound(bookID)
	}
	return nil
}

func exists(tx *gorm.DB, table, where string, args ...any) (bool, error) {
	var ok bool
	err := tx.Raw("SELECT EXISTS (SELECT 1 FROM "+table+" WHERE "+where+")", args...).Scan(&ok).Error
	return ok, err
}
