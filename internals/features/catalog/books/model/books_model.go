package model

import (
	"time"

	lookupModel "bibliothek_backend/internals/features/catalog/lookups/model"
)

type BookModel struct {
	BookID          int64   `gorm:"primaryKey;autoIncrement;column:book_id"          json:"book_id"`
	BookTitle       string  `gorm:"type:text;not null;column:book_title"             json:"book_title"`
	BookISBN        *string `gorm:"type:text;index;column:book_isbn"                 json:"book_isbn,omitempty"`
	BookEdition     *string `gorm:"type:text;column:book_edition"                    json:"book_edition,omitempty"`
	BookYear        *int    `gorm:"column:book_year"                                 json:"book_year,omitempty"`
	BookLocation    *string `gorm:"type:text;column:book_location"                   json:"book_location,omitempty"`
	BookNote        *string `gorm:"type:text;column:book_note"                       json:"book_note,omitempty"`
	BookPublisherID *int64  `gorm:"index;column:book_publisher_id"                   json:"book_publisher_id,omitempty"`
	BookSubjectID   *int64  `gorm:"index;column:book_subject_id"                     json:"book_subject_id,omitempty"`

	BookTotalCopies     int `gorm:"not null;default:0;column:book_total_copies;check:chk_book_total_copies,book_total_copies >= 0"                                                json:"book_total_copies"`
	BookAvailableCopies int `gorm:"not null;default:0;column:book_available_copies;check:chk_book_available_copies,book_available_copies BETWEEN 0 AND book_total_copies" json:"book_available_copies"`

	BookSituacao int `gorm:"type:smallint;not null;default:1;column:book_situacao" json:"book_situacao"`

	BookCreatedAt time.Time `gorm:"column:book_created_at;autoCreateTime" json:"book_created_at"`
	BookUpdatedAt time.Time `gorm:"column:book_updated_at;autoUpdateTime" json:"book_updated_at"`

	Publisher *lookupModel.PublisherModel `gorm:"foreignKey:BookPublisherID;references:ID;constraint:OnDelete:SET NULL" json:"-"`
	Subject   *lookupModel.SubjectModel   `gorm:"foreignKey:BookSubjectID;references:ID;constraint:OnDelete:SET NULL"   json:"-"`
}

func (BookModel) TableName() string { return "books" }

type BookAuthorModel struct {
	BookAuthorBookID   int64 `gorm:"primaryKey;column:book_author_book_id"           json:"book_author_book_id"`
	BookAuthorAuthorID int64 `gorm:"primaryKey;index;column:book_author_author_id"   json:"book_author_author_id"`

	Book   BookModel               `gorm:"foreignKey:BookAuthorBookID;references:BookID;constraint:OnDelete:CASCADE"   json:"-"`
	Author lookupModel.AuthorModel `gorm:"foreignKey:BookAuthorAuthorID;references:ID;constraint:OnDelete:RESTRICT" json:"-"`
}

func (BookAuthorModel) TableName() string { return "book_authors" }
