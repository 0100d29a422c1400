package dto

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeLines(t *testing.T) {
	got, err := MergeLines([]LoanLineRequest{
		{BookID: 9, Quantity: 1},
		{BookID: 7, Quantity: 2},
		{BookID: 9, Quantity: 3},
	})
	require.NoError(t, err)
	assert.Equal(t, []LoanLine{
		{BookID: 7, Quantity: 2},
		{BookID: 9, Quantity: 4},
	}, got)
}

func TestMergeLines_QuantityOverflow(t *testing.T) {
	_, err := MergeLines([]LoanLineRequest{
		{BookID: 7, Quantity: math.MaxInt},
		{BookID: 7, Quantity: math.MaxInt},
	})
	assert.Error(t, err)

	_, err = MergeLines([]LoanLineRequest{
		{BookID: 7, Quantity: MaxLineQuantity},
		{BookID: 7, Quantity: 1},
	})
	assert.Error(t, err)

	got, err := MergeLines([]LoanLineRequest{
		{BookID: 7, Quantity: MaxLineQuantity - 1},
		{BookID: 7, Quantity: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, []LoanLine{{BookID: 7, Quantity: MaxLineQuantity}}, got)

	_, err = MergeLines([]LoanLineRequest{{BookID: 7, Quantity: 0}})
	assert.Error(t, err)
}

func TestReturnLoanRequest_OverflowRejected(t *testing.T) {
	req := ReturnLoanRequest{Books: []LoanLineRequest{
		{BookID: 7, Quantity: math.MaxInt},
		{BookID: 7, Quantity: 2},
	}}
	_, err := req.ToInput()
	assert.Error(t, err)
}

func TestCreateLoanRequest_ToInput(t *testing.T) {
	note := "  café  "
	req := CreateLoanRequest{
		BorrowerID: 10,
		StaffID:    5,
		LoanDate:   "2024-01-01",
		DueDate:    "2024-01-15",
		Note:       &note,
		Books:      []LoanLineRequest{{BookID: 7, Quantity: 2}},
	}
	req.Normalize()

	in, err := req.ToInput()
	require.NoError(t, err)
	assert.Equal(t, int64(10), in.BorrowerID)
	assert.Equal(t, int64(5), in.StaffID)
	assert.Equal(t, "2024-01-01", in.LoanDate.Format(DateLayout))
	assert.Equal(t, "2024-01-15", in.DueDate.Format(DateLayout))
	require.NotNil(t, in.Note)
	assert.Equal(t, "café", *in.Note)
	assert.Equal(t, []LoanLine{{BookID: 7, Quantity: 2}}, in.Lines)
}

func TestCreateLoanRequest_BadDate(t *testing.T) {
	req := CreateLoanRequest{BorrowerID: 1, LoanDate: "01/01/2024", DueDate: "2024-01-15"}
	_, err := req.ToInput()
	assert.EqualError(t, err, "loan_date must be YYYY-MM-DD")
}

func TestReturnLoanRequest_ToInput(t *testing.T) {
	blank := "   "
	req := ReturnLoanRequest{IdempotencyKey: &blank, Books: []LoanLineRequest{{BookID: 7, Quantity: 1}}}
	req.Normalize()
	in, err := req.ToInput()
	require.NoError(t, err)
	assert.Nil(t, in.IdempotencyKey)

	key := "7d1c5d8e-2d7a-4b8e-9a51-3f9a3b7c1e20"
	req = ReturnLoanRequest{IdempotencyKey: &key, Books: []LoanLineRequest{{BookID: 7, Quantity: 1}}}
	in, err = req.ToInput()
	require.NoError(t, err)
	require.NotNil(t, in.IdempotencyKey)
	assert.Equal(t, key, in.IdempotencyKey.String())

	bad := "not-a-key"
	req = ReturnLoanRequest{IdempotencyKey: &bad}
	_, err = req.ToInput()
	assert.Error(t, err)
}

func TestRenewLoanRequest_ToInput(t *testing.T) {
	in, err := RenewLoanRequest{DueDate: "2024-02-01"}.ToInput()
	require.NoError(t, err)
	assert.Equal(t, "2024-02-01", in.DueDate.Format(DateLayout))
	assert.Nil(t, in.Note)
}
