package controller

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	helper "bibliothek_backend/internals/helpers"
)

func TestBuildBookWhere_Empty(t *testing.T) {
	where, args := buildBookWhere(bookFilter{})
	assert.Equal(t, "", where)
	assert.Empty(t, args)
}

func TestBuildBookWhere_AllFilters(t *testing.T) {
	pub, subj, author := int64(2), int64(3), int64(4)
	where, args := buildBookWhere(bookFilter{
		IDs:         []int64{1, 5},
		Situacao:    []int64{1},
		PublisherID: &pub,
		SubjectID:   &subj,
		AuthorID:    &author,
		Q:           "assis",
	})

	assert.Contains(t, where, "b.book_id IN ?")
	assert.Contains(t, where, "b.book_situacao IN ?")
	assert.Contains(t, where, "b.book_publisher_id = ?")
	assert.Contains(t, where, "b.book_subject_id = ?")
	assert.Contains(t, where, "fa.book_author_author_id = ?")
	assert.Contains(t, where, "ILIKE")
	assert.Equal(t, []any{[]int64{1, 5}, []int64{1}, pub, subj, author, "%assis%", "%assis%"}, args)
}

func filterApp() *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: helper.ErrorHandler})
	app.Get("/f", func(c *fiber.Ctx) error {
		f, err := parseBookFilter(c)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
		}
		return c.JSON(f)
	})
	return app
}

func TestParseBookFilter(t *testing.T) {
	app := filterApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/f?id=1,2&id=3&situacao=0&q=%20Machado%20&author_id=9", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	for _, bad := range []string{"/f?situacao=2", "/f?id=x", "/f?publisher_id=-1"} {
		resp, err := app.Test(httptest.NewRequest("GET", bad, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, bad)
	}
}

func TestGetByID_RejectsBadID(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: helper.ErrorHandler})
	ctl := NewBooksController(nil)
	app.Get("/books/:id", ctl.GetByID)

	resp, err := app.Test(httptest.NewRequest("GET", "/books/abc", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestCreate_ValidationRunsBeforeStore(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: helper.ErrorHandler})
	ctl := NewBooksController(nil)
	app.Post("/books", ctl.Create)

	req := httptest.NewRequest("POST", "/books", strings.NewReader(`{"book_title":"","book_total_copies":-2}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}
