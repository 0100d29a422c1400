package controller

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bibliothek_backend/internals/features/catalog/books/dto"
	"bibliothek_backend/internals/features/catalog/books/model"
	helper "bibliothek_backend/internals/helpers"
)

type BooksController struct {
	DB *gorm.DB
}

func NewBooksController(db *gorm.DB) *BooksController {
	return &BooksController{DB: db}
}

var (
	validate  = helper.NewValidator()
	forUpdate = clause.Locking{Strength: "UPDATE"}

	errCopiesOnLoan = errors.New("copies on loan exceed the new total")
	errBookInLoans  = errors.New("book has loan lines")
)

// bookRow is a book plus its aggregated author ids.
type bookRow struct {
	model.BookModel `gorm:"embedded"`
	AuthorIDs       pq.Int64Array `gorm:"column:author_ids"`
}

const bookSelectSQL = `
SELECT b.*,
       COALESCE(ARRAY_AGG(ba.book_author_author_id ORDER BY ba.book_author_author_id)
                FILTER (WHERE ba.book_author_author_id IS NOT NULL), '{}') AS author_ids
FROM books b
LEFT JOIN book_authors ba ON ba.book_author_book_id = b.book_id`

type bookFilter struct {
	IDs         []int64
	Situacao    []int64
	PublisherID *int64
	SubjectID   *int64
	AuthorID    *int64
	Q           string
}

// buildBookWhere returns the WHERE clause (possibly empty) and its args.
func buildBookWhere(f bookFilter) (string, []any) {
	where := make([]string, 0, 6)
	args := make([]any, 0, 6)
	if len(f.IDs) > 0 {
		where = append(where, "b.book_id IN ?")
		args = append(args, f.IDs)
	}
	if len(f.Situacao) > 0 {
		where = append(where, "b.book_situacao IN ?")
		args = append(args, f.Situacao)
	}
	if f.PublisherID != nil {
		where = append(where, "b.book_publisher_id = ?")
		args = append(args, *f.PublisherID)
	}
	if f.SubjectID != nil {
		where = append(where, "b.book_subject_id = ?")
		args = append(args, *f.SubjectID)
	}
	if f.AuthorID != nil {
		where = append(where, `EXISTS (SELECT 1 FROM book_authors fa
		     WHERE fa.book_author_book_id = b.book_id AND fa.book_author_author_id = ?)`)
		args = append(args, *f.AuthorID)
	}
	if f.Q != "" {
		where = append(where, "(b.book_title ILIKE ? OR b.book_isbn ILIKE ?)")
		like := "%" + f.Q + "%"
		args = append(args, like, like)
	}
	if len(where) == 0 {
		return "", args
	}
	return "\nWHERE " + strings.Join(where, "\n  AND "), args
}

func parseBookFilter(c *fiber.Ctx) (bookFilter, error) {
	var (
		f   bookFilter
		err error
	)
	if f.IDs, err = helper.QueryInt64List(c, "id"); err != nil {
		return f, err
	}
	if f.PublisherID, err = helper.QueryInt64(c, "publisher_id"); err != nil {
		return f, err
	}
	if f.SubjectID, err = helper.QueryInt64(c, "subject_id"); err != nil {
		return f, err
	}
	if f.AuthorID, err = helper.QueryInt64(c, "author_id"); err != nil {
		return f, err
	}
	for _, v := range helper.QueryValues(c, "situacao") {
		switch v {
		case "0":
			f.Situacao = append(f.Situacao, 0)
		case "1":
			f.Situacao = append(f.Situacao, 1)
		default:
			return f, errors.New("situacao must be 0 or 1")
		}
	}
	f.Q = helper.CleanText(c.Query("q"))
	return f, nil
}

func (h *BooksController) findBook(db *gorm.DB, id int64) (*dto.BookResponse, error) {
	var row bookRow
	res := db.Raw(bookSelectSQL+"\nWHERE b.book_id = ?\nGROUP BY b.book_id", id).Scan(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	out := dto.ToBookResponse(&row.BookModel, row.AuthorIDs)
	return &out, nil
}

func replaceAuthors(tx *gorm.DB, bookID int64, authorIDs []int64) error {
	if err := tx.Where("book_author_book_id = ?", bookID).Delete(&model.BookAuthorModel{}).Error; err != nil {
		return err
	}
	if len(authorIDs) == 0 {
		return nil
	}
	links := make([]model.BookAuthorModel, 0, len(authorIDs))
	for _, a := range authorIDs {
		links = append(links, model.BookAuthorModel{BookAuthorBookID: bookID, BookAuthorAuthorID: a})
	}
	return tx.Omit(clause.Associations).Create(&links).Error
}

func writeStoreError(c *fiber.Ctx, err error, fallback string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return helper.JsonError(c, fiber.StatusNotFound, "book not found")
	}
	if _, _, ok := helper.PGError(err); ok {
		status, msg := helper.MapPGError(err)
		if status < 500 {
			return helper.JsonError(c, status, msg)
		}
	}
	return helper.JsonError(c, fiber.StatusInternalServerError, fallback)
}

/* =========================================================
   GET /api/u/books?id=1,2&situacao=1&q=&publisher_id=&subject_id=&author_id=
========================================================= */
func (h *BooksController) List(c *fiber.Ctx) error {
	f, err := parseBookFilter(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	paging := helper.ResolvePaging(c, helper.DefaultPaging)
	where, args := buildBookWhere(f)
	ctx := c.UserContext()

	var total int64
	if err := h.DB.WithContext(ctx).
		Raw("SELECT COUNT(*) FROM books b"+where, args...).
		Scan(&total).Error; err != nil {
		log.Printf("[BOOKS][LIST] count: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to count books")
	}

	var rows []bookRow
	sql := bookSelectSQL + where + "\nGROUP BY b.book_id\nORDER BY b.book_title ASC, b.book_id ASC\nLIMIT ? OFFSET ?"
	if err := h.DB.WithContext(ctx).
		Raw(sql, append(args, paging.Limit, paging.Offset)...).
		Scan(&rows).Error; err != nil {
		log.Printf("[BOOKS][LIST] query: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to list books")
	}

	out := make([]dto.BookResponse, 0, len(rows))
	for i := range rows {
		out = append(out, dto.ToBookResponse(&rows[i].BookModel, rows[i].AuthorIDs))
	}
	pg := helper.BuildPagination(total, paging)
	return helper.JsonList(c, "ok", out, &pg)
}

/* =========================================================
   GET /api/u/books/:id
========================================================= */
func (h *BooksController) GetByID(c *fiber.Ctx) error {
	id, err := helper.ParseInt64Param(c, "id")
	if err != nil {
		return err
	}
	book, err := h.findBook(h.DB.WithContext(c.UserContext()), id)
	if err != nil {
		return writeStoreError(c, err, "failed to load book")
	}
	return helper.JsonOK(c, "ok", book)
}

/* =========================================================
   POST /api/u/books
========================================================= */
func (h *BooksController) Create(c *fiber.Ctx) error {
	var req dto.CreateBookRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid payload")
	}
	req.Normalize()
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationFailed(c, err)
	}

	var out *dto.BookResponse
	err := h.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		m := req.ToModel()
		if err := tx.Omit(clause.Associations).Create(m).Error; err != nil {
			return err
		}
		if err := replaceAuthors(tx, m.BookID, req.AuthorIDs); err != nil {
			return err
		}
		var err error
		out, err = h.findBook(tx, m.BookID)
		return err
	})
	if err != nil {
		log.Printf("[BOOKS][CREATE] %v", err)
		return writeStoreError(c, err, "failed to create book")
	}
	return helper.JsonCreated(c, "book created", out)
}

/* =========================================================
   PATCH /api/u/books/:id
========================================================= */
func (h *BooksController) Update(c *fiber.Ctx) error {
	id, err := helper.ParseInt64Param(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateBookRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid payload")
	}
	req.Normalize()
	if err := validate.Struct(&req); err != nil {
		return helper.ValidationFailed(c, err)
	}

	var out *dto.BookResponse
	err = h.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		var m model.BookModel
		if err := tx.Clauses(forUpdate).First(&m, "book_id = ?", id).Error; err != nil {
			return err
		}
		req.ApplyToModel(&m)
		if req.BookTotalCopies != nil && *req.BookTotalCopies != m.BookTotalCopies {
			available, ok := dto.ResizeCopies(m.BookTotalCopies, m.BookAvailableCopies, *req.BookTotalCopies)
			if !ok {
				return errCopiesOnLoan
			}
			m.BookTotalCopies = *req.BookTotalCopies
			m.BookAvailableCopies = available
		}
		if err := tx.Omit(clause.Associations).Save(&m).Error; err != nil {
			return err
		}
		if req.AuthorIDs != nil {
			if err := replaceAuthors(tx, m.BookID, *req.AuthorIDs); err != nil {
				return err
			}
		}
		var err error
		out, err = h.findBook(tx, m.BookID)
		return err
	})
	if errors.Is(err, errCopiesOnLoan) {
		return helper.JsonErrorCode(c, fiber.StatusConflict, "COPIES_ON_LOAN", err.Error())
	}
	if err != nil {
		log.Printf("[BOOKS][UPDATE] id=%d: %v", id, err)
		return writeStoreError(c, err, "failed to update book")
	}
	return helper.JsonUpdated(c, "book updated", out)
}

/* =========================================================
   DELETE /api/u/books/:id
========================================================= */
func (h *BooksController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseInt64Param(c, "id")
	if err != nil {
		return err
	}

	var out *dto.BookResponse
	err = h.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		var m model.BookModel
		if err := tx.Clauses(forUpdate).First(&m, "book_id = ?", id).Error; err != nil {
			return err
		}
		var lines int64
		if err := tx.Table("loan_books").Where("loan_book_book_id = ?", id).Count(&lines).Error; err != nil {
			return err
		}
		if lines > 0 {
			return errBookInLoans
		}
		resp := dto.ToBookResponse(&m, nil)
		out = &resp
		if err := tx.Where("book_author_book_id = ?", id).Delete(&model.BookAuthorModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.BookModel{}, "book_id = ?", id).Error
	})
	if errors.Is(err, errBookInLoans) {
		return helper.JsonErrorCode(c, fiber.StatusConflict, "BOOK_IN_LOANS", "book is referenced by loans")
	}
	if err != nil {
		log.Printf("[BOOKS][DELETE] id=%d: %v", id, err)
		return writeStoreError(c, err, "failed to delete book")
	}
	return helper.JsonDeleted(c, "book deleted", out)
}
