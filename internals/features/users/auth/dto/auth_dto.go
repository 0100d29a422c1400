package dto

import (
	"strings"
	"time"

	"bibliothek_backend/internals/constants"
	"bibliothek_backend/internals/features/users/auth/repository"
)

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,max=72"`
}

func (r *LoginRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

type MeResponse struct {
	StaffID      int64  `json:"staff_id"`
	PersonID     int64  `json:"person_id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PersonType   int    `json:"person_type"`
	Privilege    int    `json:"privilege"`
	IsPrivileged bool   `json:"is_privileged"`
}

func ToMeResponse(a *repository.StaffAccount) MeResponse {
	return MeResponse{
		StaffID:      a.StaffID,
		PersonID:     a.StaffPersonID,
		Name:         a.PersonName,
		Email:        a.StaffEmail,
		PersonType:   a.PersonType,
		Privilege:    a.StaffPrivilege,
		IsPrivileged: a.PersonType == constants.PersonStaff && a.StaffPrivilege >= constants.PrivilegeAdmin,
	}
}

type LoginResponse struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expires_at"`
	Staff     MeResponse `json:"staff"`
}
