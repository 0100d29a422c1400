package dto

import (
	"sort"
	"time"

	"github.com/lib/pq"

	"bibliothek_backend/internals/constants"
	"bibliothek_backend/internals/features/catalog/books/model"
	helper "bibliothek_backend/internals/helpers"
)

/* =========================================================
   REQUESTS
========================================================= */

type CreateBookRequest struct {
	BookTitle       string  `json:"book_title"        validate:"required,max=500"`
	BookISBN        *string `json:"book_isbn"         validate:"omitempty,max=32"`
	BookEdition     *string `json:"book_edition"      validate:"omitempty,max=100"`
	BookYear        *int    `json:"book_year"         validate:"omitempty,gte=0,lte=3000"`
	BookLocation    *string `json:"book_location"     validate:"omitempty,max=200"`
	BookNote        *string `json:"book_note"         validate:"omitempty,max=2000"`
	BookPublisherID *int64  `json:"book_publisher_id" validate:"omitempty,gt=0"`
	BookSubjectID   *int64  `json:"book_subject_id"   validate:"omitempty,gt=0"`
	BookTotalCopies int     `json:"book_total_copies" validate:"gte=0,lte=100000"`
	BookSituacao    *int    `json:"book_situacao"     validate:"omitempty,oneof=0 1"`
	AuthorIDs       []int64 `json:"author_ids"        validate:"omitempty,dive,gt=0"`
}

func (r *CreateBookRequest) Normalize() {
	r.BookTitle = helper.CleanText(r.BookTitle)
	r.BookISBN = helper.CleanTextPtr(r.BookISBN)
	r.BookEdition = helper.CleanTextPtr(r.BookEdition)
	r.BookLocation = helper.CleanTextPtr(r.BookLocation)
	r.BookNote = helper.CleanTextPtr(r.BookNote)
	r.AuthorIDs = UniqueIDs(r.AuthorIDs)
}

// ToModel starts a new book with every copy available.
func (r CreateBookRequest) ToModel() *model.BookModel {
	situacao := constants.SituacaoActive
	if r.BookSituacao != nil {
		situacao = *r.BookSituacao
	}
	return &model.BookModel{
		BookTitle:           r.BookTitle,
		BookISBN:            r.BookISBN,
		BookEdition:         r.BookEdition,
		BookYear:            r.BookYear,
		BookLocation:        r.BookLocation,
		BookNote:            r.BookNote,
		BookPublisherID:     r.BookPublisherID,
		BookSubjectID:       r.BookSubjectID,
		BookTotalCopies:     r.BookTotalCopies,
		BookAvailableCopies: r.BookTotalCopies,
		BookSituacao:        situacao,
	}
}

// UpdateBookRequest is a partial update; nil fields stay unchanged.
type UpdateBookRequest struct {
	BookTitle       *string  `json:"book_title"        validate:"omitempty,min=1,max=500"`
	BookISBN        *string  `json:"book_isbn"         validate:"omitempty,max=32"`
	BookEdition     *string  `json:"book_edition"      validate:"omitempty,max=100"`
	BookYear        *int     `json:"book_year"         validate:"omitempty,gte=0,lte=3000"`
	BookLocation    *string  `json:"book_location"     validate:"omitempty,max=200"`
	BookNote        *string  `json:"book_note"         validate:"omitempty,max=2000"`
	BookPublisherID *int64   `json:"book_publisher_id" validate:"omitempty,gt=0"`
	BookSubjectID   *int64   `json:"book_subject_id"   validate:"omitempty,gt=0"`
	BookTotalCopies *int     `json:"book_total_copies" validate:"omitempty,gte=0,lte=100000"`
	BookSituacao    *int     `json:"book_situacao"     validate:"omitempty,oneof=0 1"`
	AuthorIDs       *[]int64 `json:"author_ids"`
}

func (r *UpdateBookRequest) Normalize() {
	if r.BookTitle != nil {
		v := helper.CleanText(*r.BookTitle)
		r.BookTitle = &v
	}
	r.BookISBN = helper.CleanTextPtr(r.BookISBN)
	r.BookEdition = helper.CleanTextPtr(r.BookEdition)
	r.BookLocation = helper.CleanTextPtr(r.BookLocation)
	r.BookNote = helper.CleanTextPtr(r.BookNote)
	if r.AuthorIDs != nil {
		ids := UniqueIDs(*r.AuthorIDs)
		r.AuthorIDs = &ids
	}
}

// ApplyToModel copies the set fields. Total copies are handled by the
// caller because they move availability too.
func (r UpdateBookRequest) ApplyToModel(m *model.BookModel) {
	if r.BookTitle != nil {
		m.BookTitle = *r.BookTitle
	}
	if r.BookISBN != nil {
		m.BookISBN = r.BookISBN
	}
	if r.BookEdition != nil {
		m.BookEdition = r.BookEdition
	}
	if r.BookYear != nil {
		m.BookYear = r.BookYear
	}
	if r.BookLocation != nil {
		m.BookLocation = r.BookLocation
	}
	if r.BookNote != nil {
		m.BookNote = r.BookNote
	}
	if r.BookPublisherID != nil {
		m.BookPublisherID = r.BookPublisherID
	}
	if r.BookSubjectID != nil {
		m.BookSubjectID = r.BookSubjectID
	}
	if r.BookSituacao != nil {
		m.BookSituacao = *r.BookSituacao
	}
}

// ResizeCopies moves available by the same delta as total.
// ok=false when copies on loan would exceed the new total.
func ResizeCopies(total, available, newTotal int) (newAvailable int, ok bool) {
	newAvailable = available + (newTotal - total)
	return newAvailable, newAvailable >= 0
}

func UniqueIDs(in []int64) []int64 {
	if len(in) == 0 {
		return []int64{}
	}
	seen := make(map[int64]struct{}, len(in))
	out := make([]int64, 0, len(in))
	for _, id := range in {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

/* =========================================================
   RESPONSES
========================================================= */

type BookResponse struct {
	BookID              int64         `json:"book_id"`
	BookTitle           string        `json:"book_title"`
	BookISBN            *string       `json:"book_isbn,omitempty"`
	BookEdition         *string       `json:"book_edition,omitempty"`
	BookYear            *int          `json:"book_year,omitempty"`
	BookLocation        *string       `json:"book_location,omitempty"`
	BookNote            *string       `json:"book_note,omitempty"`
	BookPublisherID     *int64        `json:"book_publisher_id,omitempty"`
	BookSubjectID       *int64        `json:"book_subject_id,omitempty"`
	BookTotalCopies     int           `json:"book_total_copies"`
	BookAvailableCopies int           `json:"book_available_copies"`
	BookOnLoan          int           `json:"book_on_loan"`
	BookSituacao        int           `json:"book_situacao"`
	AuthorIDs           pq.Int64Array `json:"author_ids"`
	BookUpdatedAt       time.Time     `json:"book_updated_at"`
}

func ToBookResponse(m *model.BookModel, authorIDs []int64) BookResponse {
	if authorIDs == nil {
		authorIDs = []int64{}
	}
	return BookResponse{
		BookID:              m.BookID,
		BookTitle:           m.BookTitle,
		BookISBN:            m.BookISBN,
		BookEdition:         m.BookEdition,
		BookYear:            m.BookYear,
		BookLocation:        m.BookLocation,
		BookNote:            m.BookNote,
		BookPublisherID:     m.BookPublisherID,
		BookSubjectID:       m.BookSubjectID,
		BookTotalCopies:     m.BookTotalCopies,
		BookAvailableCopies: m.BookAvailableCopies,
		BookOnLoan:          m.BookTotalCopies - m.BookAvailableCopies,
		BookSituacao:        m.BookSituacao,
		AuthorIDs:           pq.Int64Array(authorIDs),
		BookUpdatedAt:       m.BookUpdatedAt,
	}
}
