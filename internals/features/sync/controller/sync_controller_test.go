package controller

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusSQL(t *testing.T) {
	sql := statusSQL(SyncTable{Name: "books", Column: "book_updated_at"})
	assert.Contains(t, sql, "STRING_AGG(book_updated_at::text, ',' ORDER BY book_updated_at)")
	assert.Contains(t, sql, "MAX(book_updated_at)")
	assert.Contains(t, sql, "FROM books")
}

func TestSyncTables_CoverCatalogAndLoans(t *testing.T) {
	names := map[string]bool{}
	for _, st := range SyncTables {
		assert.NotEmpty(t, st.Column)
		names[st.Name] = true
	}
	for _, want := range []string{"books", "people", "loans", "loan_books", "authors", "publishers", "subjects"} {
		assert.True(t, names[want], want)
	}
}
