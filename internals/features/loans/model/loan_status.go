package model

import (
	"fmt"
	"strings"
	"time"
)

// LoanStatus is derived from line quantities and the due date, never stored.
type LoanStatus string

const (
	LoanStatusPending  LoanStatus = "pending"
	LoanStatusOverdue  LoanStatus = "overdue"
	LoanStatusReturned LoanStatus = "returned"
)

// Legacy numeric codes still sent by older clients as ?situacao=.
var legacyStatusCodes = map[string]LoanStatus{
	"0": LoanStatusOverdue,
	"1": LoanStatusPending,
	"2": LoanStatusReturned,
}

func ParseLoanStatus(raw string) (LoanStatus, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if s, ok := legacyStatusCodes[v]; ok {
		return s, nil
	}
	switch LoanStatus(v) {
	case LoanStatusPending, LoanStatusOverdue, LoanStatusReturned:
		return LoanStatus(v), nil
	}
	return "", fmt.Errorf("unknown loan status %q", raw)
}

const (
	sumLent     = "SUM(lb.loan_book_quantity_lent)"
	sumReturned = "SUM(lb.loan_book_quantity_returned)"
)

// StatusPredicate returns the HAVING fragment for s over the aliases
// l (loans) and lb (loan_books). Each fragment takes today as its only
// argument, except Returned which takes none. A loan without lines has
// NULL sums and therefore matches no status.
func StatusPredicate(s LoanStatus, today time.Time) (string, []any) {
	day := today.Format("2006-01-02")
	switch s {
	case LoanStatusReturned:
		return sumReturned + " = " + sumLent, nil
	case LoanStatusOverdue:
		return sumReturned + " < " + sumLent + " AND ?::date > l.loan_due_date", []any{day}
	case LoanStatusPending:
		return sumReturned + " < " + sumLent + " AND ?::date <= l.loan_due_date", []any{day}
	}
	return "FALSE", nil
}

// StatusHaving ORs the predicates of every requested status.
func StatusHaving(statuses []LoanStatus, today time.Time) (string, []any) {
	if len(statuses) == 0 {
		return "", nil
	}
	parts := make([]string, 0, len(statuses))
	args := make([]any, 0, len(statuses))
	for _, s := range statuses {
		frag, a := StatusPredicate(s, today)
		parts = append(parts, "("+frag+")")
		args = append(args, a...)
	}
	return strings.Join(parts, " OR "), args
}

// DeriveLoanStatus mirrors StatusPredicate in Go. hasLines=false yields "".
func DeriveLoanStatus(lent, returned int64, hasLines bool, due, today time.Time) LoanStatus {
	if !hasLines {
		return ""
	}
	if returned == lent {
		return LoanStatusReturned
	}
	if DateOnly(today).After(DateOnly(due)) {
		return LoanStatusOverdue
	}
	return LoanStatusPending
}

// DateOnly drops the clock part, keeping the calendar date as seen in t's location.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
