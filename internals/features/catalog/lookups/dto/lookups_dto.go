package dto

import (
	"time"

	"bibliothek_backend/internals/constants"
	"bibliothek_backend/internals/features/catalog/lookups/model"
	helper "bibliothek_backend/internals/helpers"
)

type CreateLookupRequest struct {
	Name     string  `json:"name"     validate:"required,max=300"`
	Note     *string `json:"note"     validate:"omitempty,max=2000"`
	Situacao *int    `json:"situacao" validate:"omitempty,oneof=0 1"`
}

func (r *CreateLookupRequest) Normalize() {
	r.Name = helper.CleanText(r.Name)
	r.Note = helper.CleanTextPtr(r.Note)
}

func (r CreateLookupRequest) ToModel() *model.LookupModel {
	situacao := constants.SituacaoActive
	if r.Situacao != nil {
		situacao = *r.Situacao
	}
	return &model.LookupModel{Name: r.Name, Note: r.Note, Situacao: situacao}
}

type UpdateLookupRequest struct {
	Name     *string `json:"name"     validate:"omitempty,min=1,max=300"`
	Note     *string `json:"note"     validate:"omitempty,max=2000"`
	Situacao *int    `json:"situacao" validate:"omitempty,oneof=0 1"`
}

func (r *UpdateLookupRequest) Normalize() {
	if r.Name != nil {
		v := helper.CleanText(*r.Name)
		r.Name = &v
	}
	r.Note = helper.CleanTextPtr(r.Note)
}

// Changes returns the column map for a partial update.
func (r UpdateLookupRequest) Changes(now time.Time) map[string]any {
	out := map[string]any{}
	if r.Name != nil {
		out["name"] = *r.Name
	}
	if r.Note != nil {
		out["note"] = *r.Note
	}
	if r.Situacao != nil {
		out["situacao"] = *r.Situacao
	}
	if len(out) > 0 {
		out["updated_at"] = now
	}
	return out
}

type LookupResponse struct {
	ID        int64     `json:"id"`
	Kind      string    `json:"kind"`
	Name      string    `json:"name"`
	Note      *string   `json:"note,omitempty"`
	Situacao  int       `json:"situacao"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ToLookupResponse(kind model.Kind, m *model.LookupModel) LookupResponse {
	return LookupResponse{
		ID:        m.ID,
		Kind:      kind.Label,
		Name:      m.Name,
		Note:      m.Note,
		Situacao:  m.Situacao,
		UpdatedAt: m.UpdatedAt,
	}
}
