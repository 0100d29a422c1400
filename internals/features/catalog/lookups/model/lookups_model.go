package model

import "time"

// LookupModel is the shared shape of authors, publishers and subjects.
type LookupModel struct {
	ID       int64   `gorm:"primaryKey;autoIncrement;column:id"           json:"id"`
	Name     string  `gorm:"type:text;not null;column:name"               json:"name"`
	Note     *string `gorm:"type:text;column:note"                        json:"note,omitempty"`
	Situacao int     `gorm:"type:smallint;not null;default:1;column:situacao" json:"situacao"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

type AuthorModel struct{ LookupModel }

func (AuthorModel) TableName() string { return "authors" }

type PublisherModel struct{ LookupModel }

func (PublisherModel) TableName() string { return "publishers" }

type SubjectModel struct{ LookupModel }

func (SubjectModel) TableName() string { return "subjects" }

// Kind binds a route segment to its table.
type Kind struct {
	Slug  string
	Table string
	Label string
}

var (
	Authors    = Kind{Slug: "authors", Table: "authors", Label: "author"}
	Publishers = Kind{Slug: "publishers", Table: "publishers", Label: "publisher"}
	Subjects   = Kind{Slug: "subjects", Table: "subjects", Label: "subject"}
)

var Kinds = []Kind{Authors, Publishers, Subjects}
