package dto

import (
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"bibliothek_backend/internals/constants"
	"bibliothek_backend/internals/features/catalog/people/model"
	helper "bibliothek_backend/internals/helpers"
)

const DateLayout = "2006-01-02"

/* =========================================================
   REQUESTS
========================================================= */

// StaffAccountRequest is the login side of a staff person.
type StaffAccountRequest struct {
	Email     string  `json:"staff_email"     validate:"required,email,max=254"`
	Password  string  `json:"staff_password"  validate:"required,min=8,max=72"`
	Privilege int     `json:"staff_privilege" validate:"gte=0,lte=10000"`
	HiredAt   *string `json:"staff_hired_at"  validate:"omitempty,datetime=2006-01-02"`
}

type CreatePersonRequest struct {
	PersonName     string               `json:"person_name"     validate:"required,max=300"`
	PersonDocument *string              `json:"person_document" validate:"omitempty,max=64"`
	PersonContact  *string              `json:"person_contact"  validate:"omitempty,max=300"`
	PersonNote     *string              `json:"person_note"     validate:"omitempty,max=2000"`
	PersonType     int                  `json:"person_type"     validate:"required,oneof=1 2 3"`
	PersonSituacao *int                 `json:"person_situacao" validate:"omitempty,oneof=0 1"`
	Staff          *StaffAccountRequest `json:"staff"           validate:"omitempty"`
}

func (r *CreatePersonRequest) Normalize() {
	r.PersonName = helper.CleanText(r.PersonName)
	r.PersonDocument = helper.CleanTextPtr(r.PersonDocument)
	r.PersonContact = helper.CleanTextPtr(r.PersonContact)
	r.PersonNote = helper.CleanTextPtr(r.PersonNote)
	if r.Staff != nil {
		r.Staff.Email = strings.ToLower(strings.TrimSpace(r.Staff.Email))
	}
}

// WantsStaffAccount reports whether the request touches staff data,
// which only privileged staff may do.
func (r CreatePersonRequest) WantsStaffAccount() bool {
	return r.Staff != nil || r.PersonType == constants.PersonStaff
}

func (r CreatePersonRequest) ToModel() *model.PersonModel {
	situacao := constants.SituacaoActive
	if r.PersonSituacao != nil {
		situacao = *r.PersonSituacao
	}
	return &model.PersonModel{
		PersonName:     r.PersonName,
		PersonDocument: r.PersonDocument,
		PersonContact:  r.PersonContact,
		PersonNote:     r.PersonNote,
		PersonType:     r.PersonType,
		PersonSituacao: situacao,
	}
}

// ToStaffModel hashes the password; the caller sets StaffPersonID.
func (r StaffAccountRequest) ToStaffModel() (*model.StaffModel, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(r.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	hired, err := parseDatePtr(r.HiredAt)
	if err != nil {
		return nil, err
	}
	return &model.StaffModel{
		StaffEmail:        r.Email,
		StaffPasswordHash: string(hash),
		StaffPrivilege:    r.Privilege,
		StaffHiredAt:      hired,
	}, nil
}

type UpdateStaffRequest struct {
	Email     *string `json:"staff_email"     validate:"omitempty,email,max=254"`
	Password  *string `json:"staff_password"  validate:"omitempty,min=8,max=72"`
	Privilege *int    `json:"staff_privilege" validate:"omitempty,gte=0,lte=10000"`
	HiredAt   *string `json:"staff_hired_at"  validate:"omitempty,datetime=2006-01-02"`
}

type UpdatePersonRequest struct {
	PersonName     *string             `json:"person_name"     validate:"omitempty,min=1,max=300"`
	PersonDocument *string             `json:"person_document" validate:"omitempty,max=64"`
	PersonContact  *string             `json:"person_contact"  validate:"omitempty,max=300"`
	PersonNote     *string             `json:"person_note"     validate:"omitempty,max=2000"`
	PersonType     *int                `json:"person_type"     validate:"omitempty,oneof=1 2 3"`
	PersonSituacao *int                `json:"person_situacao" validate:"omitempty,oneof=0 1"`
	Staff          *UpdateStaffRequest `json:"staff"           validate:"omitempty"`
}

func (r *UpdatePersonRequest) Normalize() {
	if r.PersonName != nil {
		v := helper.CleanText(*r.PersonName)
		r.PersonName = &v
	}
	r.PersonDocument = helper.CleanTextPtr(r.PersonDocument)
	r.PersonContact = helper.CleanTextPtr(r.PersonContact)
	r.PersonNote = helper.CleanTextPtr(r.PersonNote)
	if r.Staff != nil && r.Staff.Email != nil {
		v := strings.ToLower(strings.TrimSpace(*r.Staff.Email))
		r.Staff.Email = &v
	}
}

// TouchesStaff is true when the change needs a privileged caller:
// staff account fields, or moving a person into or out of the staff type.
func (r UpdatePersonRequest) TouchesStaff(current *model.PersonModel) bool {
	if r.Staff != nil {
		return true
	}
	if r.PersonType != nil && *r.PersonType != current.PersonType {
		return *r.PersonType == constants.PersonStaff || current.PersonType == constants.PersonStaff
	}
	return false
}

func (r UpdatePersonRequest) ApplyToModel(m *model.PersonModel) {
	if r.PersonName != nil {
		m.PersonName = *r.PersonName
	}
	if r.PersonDocument != nil {
		m.PersonDocument = r.PersonDocument
	}
	if r.PersonContact != nil {
		m.PersonContact = r.PersonContact
	}
	if r.PersonNote != nil {
		m.PersonNote = r.PersonNote
	}
	if r.PersonType != nil {
		m.PersonType = *r.PersonType
	}
	if r.PersonSituacao != nil {
		m.PersonSituacao = *r.PersonSituacao
	}
}

func (r UpdateStaffRequest) ApplyToModel(m *model.StaffModel) error {
	if r.Email != nil {
		m.StaffEmail = *r.Email
	}
	if r.Privilege != nil {
		m.StaffPrivilege = *r.Privilege
	}
	if r.HiredAt != nil {
		hired, err := parseDatePtr(r.HiredAt)
		if err != nil {
			return err
		}
		m.StaffHiredAt = hired
	}
	if r.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*r.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		m.StaffPasswordHash = string(hash)
	}
	return nil
}

func parseDatePtr(s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, strings.TrimSpace(*s))
	if err != nil {
		return nil, err
	}
	return &t, nil
}

/* =========================================================
   RESPONSES
========================================================= */

type StaffResponse struct {
	StaffID        int64   `json:"staff_id"`
	StaffEmail     string  `json:"staff_email"`
	StaffPrivilege int     `json:"staff_privilege"`
	StaffHiredAt   *string `json:"staff_hired_at,omitempty"`
}

type PersonResponse struct {
	PersonID        int64          `json:"person_id"`
	PersonName      string         `json:"person_name"`
	PersonDocument  *string        `json:"person_document,omitempty"`
	PersonContact   *string        `json:"person_contact,omitempty"`
	PersonNote      *string        `json:"person_note,omitempty"`
	PersonType      int            `json:"person_type"`
	PersonTypeName  string         `json:"person_type_name"`
	PersonSituacao  int            `json:"person_situacao"`
	PersonUpdatedAt time.Time      `json:"person_updated_at"`
	Staff           *StaffResponse `json:"staff,omitempty"`
}

func ToPersonResponse(p *model.PersonModel, s *model.StaffModel) PersonResponse {
	out := PersonResponse{
		PersonID:        p.PersonID,
		PersonName:      p.PersonName,
		PersonDocument:  p.PersonDocument,
		PersonContact:   p.PersonContact,
		PersonNote:      p.PersonNote,
		PersonType:      p.PersonType,
		PersonTypeName:  constants.PersonTypeName(p.PersonType),
		PersonSituacao:  p.PersonSituacao,
		PersonUpdatedAt: p.PersonUpdatedAt,
	}
	if s != nil {
		sr := &StaffResponse{
			StaffID:        s.StaffID,
			StaffEmail:     s.StaffEmail,
			StaffPrivilege: s.StaffPrivilege,
		}
		if s.StaffHiredAt != nil {
			d := s.StaffHiredAt.Format(DateLayout)
			sr.StaffHiredAt = &d
		}
		out.Staff = sr
	}
	return out
}
