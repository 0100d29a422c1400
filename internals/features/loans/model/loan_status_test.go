package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestDeriveLoanStatus(t *testing.T) {
	today := day("2024-02-01")

	tests := []struct {
		name     string
		lent     int64
		returned int64
		hasLines bool
		due      time.Time
		want     LoanStatus
	}{
		{"fully returned", 3, 3, true, day("2024-01-15"), LoanStatusReturned},
		{"partial past due", 3, 1, true, day("2024-01-15"), LoanStatusOverdue},
		{"partial future due", 3, 1, true, day("2024-03-01"), LoanStatusPending},
		{"due today is pending", 2, 0, true, today, LoanStatusPending},
		{"returned even when late", 2, 2, true, day("2023-01-01"), LoanStatusReturned},
		{"no lines", 0, 0, false, day("2024-03-01"), ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := DeriveLoanStatus(tc.lent, tc.returned, tc.hasLines, tc.due, today)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDeriveLoanStatus_IgnoresClockTime(t *testing.T) {
	due := day("2024-01-15")
	lateEvening := time.Date(2024, 1, 15, 23, 59, 0, 0, time.Local)
	assert.Equal(t, LoanStatusPending, DeriveLoanStatus(1, 0, true, due, lateEvening))

	nextMorning := time.Date(2024, 1, 16, 0, 1, 0, 0, time.Local)
	assert.Equal(t, LoanStatusOverdue, DeriveLoanStatus(1, 0, true, due, nextMorning))
}

func TestParseLoanStatus(t *testing.T) {
	for raw, want := range map[string]LoanStatus{
		"pending":   LoanStatusPending,
		" Overdue ": LoanStatusOverdue,
		"RETURNED":  LoanStatusReturned,
		"0":         LoanStatusOverdue,
		"1":         LoanStatusPending,
		"2":         LoanStatusReturned,
	} {
		got, err := ParseLoanStatus(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	_, err := ParseLoanStatus("lost")
	assert.Error(t, err)
}

func TestStatusHaving(t *testing.T) {
	today := day("2024-02-01")

	sql, args := StatusHaving(nil, today)
	assert.Empty(t, sql)
	assert.Empty(t, args)

	sql, args = StatusHaving([]LoanStatus{LoanStatusReturned}, today)
	assert.Equal(t, "(SUM(lb.loan_book_quantity_returned) = SUM(lb.loan_book_quantity_lent))", sql)
	assert.Empty(t, args)

	sql, args = StatusHaving([]LoanStatus{LoanStatusPending, LoanStatusOverdue}, today)
	assert.Contains(t, sql, "?::date <= l.loan_due_date")
	assert.Contains(t, sql, "?::date > l.loan_due_date")
	assert.Contains(t, sql, ") OR (")
	assert.Equal(t, []any{"2024-02-01", "2024-02-01"}, args)
}
