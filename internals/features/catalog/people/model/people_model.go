package model

import "time"

type PersonModel struct {
	PersonID       int64   `gorm:"primaryKey;autoIncrement;column:person_id"                                                  json:"person_id"`
	PersonName     string  `gorm:"type:text;not null;column:person_name"                                                      json:"person_name"`
	PersonDocument *string `gorm:"type:text;uniqueIndex:uq_people_document;column:person_document"                           json:"person_document,omitempty"`
	PersonContact  *string `gorm:"type:text;column:person_contact"                                                            json:"person_contact,omitempty"`
	PersonNote     *string `gorm:"type:text;column:person_note"                                                               json:"person_note,omitempty"`
	PersonType     int     `gorm:"type:smallint;not null;index;column:person_type;check:chk_person_type,person_type IN (1,2,3)" json:"person_type"`
	PersonSituacao int     `gorm:"type:smallint;not null;default:1;column:person_situacao"                                    json:"person_situacao"`

	PersonCreatedAt time.Time `gorm:"column:person_created_at;autoCreateTime" json:"person_created_at"`
	PersonUpdatedAt time.Time `gorm:"column:person_updated_at;autoUpdateTime" json:"person_updated_at"`
}

func (PersonModel) TableName() string { return "people" }

// StaffModel carries the login data of a person with person_type = staff.
type StaffModel struct {
	StaffID           int64      `gorm:"primaryKey;autoIncrement;column:staff_id"                          json:"staff_id"`
	StaffPersonID     int64      `gorm:"not null;uniqueIndex:uq_staff_person;column:staff_person_id"       json:"staff_person_id"`
	StaffEmail        string     `gorm:"type:text;not null;uniqueIndex:uq_staff_email;column:staff_email" json:"staff_email"`
	StaffPasswordHash string     `gorm:"type:text;not null;column:staff_password_hash"                     json:"-"`
	StaffPrivilege    int        `gorm:"not null;default:0;column:staff_privilege"                         json:"staff_privilege"`
	StaffHiredAt      *time.Time `gorm:"type:date;column:staff_hired_at"                                   json:"staff_hired_at,omitempty"`

	StaffCreatedAt time.Time `gorm:"column:staff_created_at;autoCreateTime" json:"staff_created_at"`
	StaffUpdatedAt time.Time `gorm:"column:staff_updated_at;autoUpdateTime" json:"staff_updated_at"`

	Person PersonModel `gorm:"foreignKey:StaffPersonID;references:PersonID;constraint:OnDelete:RESTRICT" json:"-"`
}

func (StaffModel) TableName() string { return "staff" }
