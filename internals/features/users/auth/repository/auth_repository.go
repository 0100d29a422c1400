package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"
)

// StaffAccount is a staff row joined with its person.
type StaffAccount struct {
	StaffID           int64  `gorm:"column:staff_id"`
	StaffPersonID     int64  `gorm:"column:staff_person_id"`
	StaffEmail        string `gorm:"column:staff_email"`
	StaffPasswordHash string `gorm:"column:staff_password_hash"`
	StaffPrivilege    int    `gorm:"column:staff_privilege"`
	PersonName        string `gorm:"column:person_name"`
	PersonType        int    `gorm:"column:person_type"`
	PersonSituacao    int    `gorm:"column:person_situacao"`
}

const staffAccountSQL = `
SELECT s.staff_id, s.staff_person_id, s.staff_email, s.staff_password_hash, s.staff_privilege,
       p.person_name, p.person_type, p.person_situacao
FROM staff s
JOIN people p ON p.person_id = s.staff_person_id`

func findOne(ctx context.Context, db *gorm.DB, where string, arg any) (*StaffAccount, error) {
	var acc StaffAccount
	res := db.WithContext(ctx).Raw(staffAccountSQL+"\nWHERE "+where+"\nLIMIT 1", arg).Scan(&acc)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &acc, nil
}

func FindStaffByEmail(ctx context.Context, db *gorm.DB, email string) (*StaffAccount, error) {
	return findOne(ctx, db, "LOWER(s.staff_email) = ?", strings.ToLower(strings.TrimSpace(email)))
}

func FindStaffByID(ctx context.Context, db *gorm.DB, staffID int64) (*StaffAccount, error) {
	return findOne(ctx, db, "s.staff_id = ?", staffID)
}
