package model

import (
	"time"

	"github.com/google/uuid"

	bookModel "bibliothek_backend/internals/features/catalog/books/model"
	peopleModel "bibliothek_backend/internals/features/catalog/people/model"
)

type LoanModel struct {
	LoanID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey;column:loan_id" json:"loan_id"`
	LoanBorrowerID int64      `gorm:"not null;index;column:loan_borrower_id"                         json:"loan_borrower_id"`
	LoanStaffID    int64      `gorm:"not null;index;column:loan_staff_id"                            json:"loan_staff_id"`
	LoanDate       time.Time  `gorm:"type:date;not null;index;column:loan_date"                      json:"loan_date"`
	LoanDueDate    time.Time  `gorm:"type:date;not null;index;column:loan_due_date;check:chk_loan_due_date,loan_due_date >= loan_date" json:"loan_due_date"`
	LoanReturnedAt *time.Time `gorm:"type:timestamptz;column:loan_returned_at"                       json:"loan_returned_at,omitempty"`
	LoanNote       *string    `gorm:"type:text;column:loan_note"                                     json:"loan_note,omitempty"`

	LoanCreatedAt time.Time `gorm:"column:loan_created_at;autoCreateTime" json:"loan_created_at"`
	LoanUpdatedAt time.Time `gorm:"column:loan_updated_at;autoUpdateTime" json:"loan_updated_at"`

	Borrower peopleModel.PersonModel `gorm:"foreignKey:LoanBorrowerID;references:PersonID;constraint:OnDelete:RESTRICT" json:"-"`
	Staff    peopleModel.StaffModel  `gorm:"foreignKey:LoanStaffID;references:StaffID;constraint:OnDelete:RESTRICT"     json:"-"`
	Lines    []LoanBookModel         `gorm:"foreignKey:LoanBookLoanID;references:LoanID;constraint:OnDelete:CASCADE"    json:"-"`
}

func (LoanModel) TableName() string { return "loans" }

// LoanBookModel is one line of a loan; (loan, book) is unique.
type LoanBookModel struct {
	LoanBookLoanID           uuid.UUID `gorm:"type:uuid;primaryKey;column:loan_book_loan_id"        json:"loan_book_loan_id"`
	LoanBookBookID           int64     `gorm:"primaryKey;index;column:loan_book_book_id"            json:"loan_book_book_id"`
	LoanBookQuantityLent     int       `gorm:"not null;column:loan_book_quantity_lent;check:chk_loan_book_quantity_lent,loan_book_quantity_lent > 0" json:"loan_book_quantity_lent"`
	LoanBookQuantityReturned int       `gorm:"not null;default:0;column:loan_book_quantity_returned;check:chk_loan_book_quantity_returned,loan_book_quantity_returned BETWEEN 0 AND loan_book_quantity_lent" json:"loan_book_quantity_returned"`

	LoanBookUpdatedAt time.Time `gorm:"column:loan_book_updated_at;autoUpdateTime" json:"loan_book_updated_at"`

	Book bookModel.BookModel `gorm:"foreignKey:LoanBookBookID;references:BookID;constraint:OnDelete:RESTRICT" json:"-"`
}

func (LoanBookModel) TableName() string { return "loan_books" }

func (l LoanBookModel) Outstanding() int {
	return l.LoanBookQuantityLent - l.LoanBookQuantityReturned
}

// LoanReturnReceiptModel remembers idempotency keys of applied returns.
type LoanReturnReceiptModel struct {
	LoanReturnReceiptKey       uuid.UUID `gorm:"type:uuid;primaryKey;column:loan_return_receipt_key" json:"loan_return_receipt_key"`
	LoanReturnReceiptLoanID    uuid.UUID `gorm:"type:uuid;not null;index;column:loan_return_receipt_loan_id" json:"loan_return_receipt_loan_id"`
	LoanReturnReceiptCreatedAt time.Time `gorm:"column:loan_return_receipt_created_at;autoCreateTime;index" json:"loan_return_receipt_created_at"`

	Loan LoanModel `gorm:"foreignKey:LoanReturnReceiptLoanID;references:LoanID;constraint:OnDelete:CASCADE" json:"-"`
}

func (LoanReturnReceiptModel) TableName() string { return "loan_return_receipts" }
