package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	helper "bibliothek_backend/internals/helpers"
)

type Kind string

const (
	KindUnauthenticated Kind = "unauthenticated"
	KindUnauthorized    Kind = "unauthorized"
	KindValidation      Kind = "validation"
	KindConflict        Kind = "conflict"
	KindNotFound        Kind = "not_found"
	KindTimeout         Kind = "timeout"
	KindStore           Kind = "store"
)

// LoanError is returned by every Service method after its transaction rolled back.
type LoanError struct {
	Kind    Kind
	Code    string // machine code, e.g. BOOK_UNAVAILABLE
	Message string
	BookID  int64 // set when a specific book caused the failure
	Err     error
}

func (e *LoanError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *LoanError) Unwrap() error { return e.Err }

// Retryable reports whether the same call may succeed later unchanged.
func (e *LoanError) Retryable() bool { return e.Kind == KindTimeout }

func kindOf(err error) Kind {
	var le *LoanError
	if errors.As(err, &le) {
		return le.Kind
	}
	if err == nil {
		return ""
	}
	return KindStore
}

func errUnauthenticated() *LoanError {
	return &LoanError{Kind: KindUnauthenticated, Code: "UNAUTHENTICATED", Message: "identity required"}
}

func errUnauthorized(msg string) *LoanError {
	return &LoanError{Kind: KindUnauthorized, Code: "UNAUTHORIZED", Message: msg}
}

func errValidation(msg string) *LoanError {
	return &LoanError{Kind: KindValidation, Code: "VALIDATION_ERROR", Message: msg}
}

func errNotFound(code, msg string) *LoanError {
	return &LoanError{Kind: KindNotFound, Code: code, Message: msg}
}

func errBookNotFound(bookID int64) *LoanError {
	return &LoanError{Kind: KindNotFound, Code: "BOOK_NOT_FOUND", BookID: bookID,
		Message: fmt.Sprintf("book %d not found", bookID)}
}

func errUnavailable(bookID int64, requested int) *LoanError {
	return &LoanError{Kind: KindConflict, Code: "BOOK_UNAVAILABLE", BookID: bookID,
		Message: fmt.Sprintf("book %d does not have %d copies available", bookID, requested)}
}

func errLineNotInLoan(bookID int64) *LoanError {
	return &LoanError{Kind: KindNotFound, Code: "LOAN_LINE_NOT_FOUND", BookID: bookID,
		Message: fmt.Sprintf("book %d is not part of this loan", bookID)}
}

func errOverReturn(bookID int64, outstanding, requested int) *LoanError {
	return &LoanError{Kind: KindConflict, Code: "OVER_RETURN", BookID: bookID,
		Message: fmt.Sprintf("book %d has %d outstanding copies, cannot return %d", bookID, outstanding, requested)}
}

func errConflict(code, msg string) *LoanError {
	return &LoanError{Kind: KindConflict, Code: code, Message: msg}
}

// classify turns any failure into a *LoanError. ctx is the deadline-bound context.
func classify(ctx context.Context, op string, err error) error {
	if err == nil {
		return nil
	}
	var le *LoanError
	if errors.As(err, &le) {
		return le
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		log.Printf("[LOAN][%s] timeout: %v", op, err)
		return &LoanError{Kind: KindTimeout, Code: "TIMEOUT", Message: "operation timed out, retry later", Err: err}
	}
	if code, constraint, ok := helper.PGError(err); ok {
		switch code {
		case helper.PGForeignKeyViolation:
			return &LoanError{Kind: KindNotFound, Code: "REFERENCE_NOT_FOUND", Message: "referenced record not found (" + constraint + ")", Err: err}
		case helper.PGUniqueViolation:
			return &LoanError{Kind: KindConflict, Code: "DUPLICATE", Message: "duplicate record (" + constraint + ")", Err: err}
		case helper.PGCheckViolation:
			return &LoanError{Kind: KindConflict, Code: "CONSTRAINT_VIOLATION", Message: "constraint violated (" + constraint + ")", Err: err}
		case helper.PGQueryCanceled:
			return &LoanError{Kind: KindTimeout, Code: "TIMEOUT", Message: "statement timed out, retry later", Err: err}
		}
	}
	log.Printf("[LOAN][%s] store error: %v", op, err)
	return &LoanError{Kind: KindStore, Code: "STORE_ERROR", Message: "storage failure", Err: err}
}
