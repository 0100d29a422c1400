package constants

import "fmt"

// Person types (people.person_type).
const (
	PersonStudent   = 1
	PersonStaff     = 2
	PersonProfessor = 3
)

// Record situation flag shared by catalog tables.
const (
	SituacaoInactive = 0
	SituacaoActive   = 1
)

// PrivilegeAdmin is the lowest privilege level allowed to delete loans
// and manage staff accounts.
const PrivilegeAdmin = 999

var PersonTypes = []int{PersonStudent, PersonStaff, PersonProfessor}

func IsValidPersonType(t int) bool {
	for _, v := range PersonTypes {
		if v == t {
			return true
		}
	}
	return false
}

func PersonTypeName(t int) string {
	switch t {
	case PersonStudent:
		return "student"
	case PersonStaff:
		return "staff"
	case PersonProfessor:
		return "professor"
	}
	return "unknown"
}

const (
	ErrOnlyStaffCanAccess      = "❌ Only staff members may access %s."
	ErrOnlyPrivilegedCanAccess = "❌ Only privileged staff may access %s."
)

func RoleErrorStaff(feature string) string {
	return fmt.Sprintf(ErrOnlyStaffCanAccess, feature)
}

func RoleErrorPrivileged(feature string) string {
	return fmt.Sprintf(ErrOnlyPrivilegedCanAccess, feature)
}
