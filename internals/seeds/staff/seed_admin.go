package staff

import (
	"errors"
	"log"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bibliothek_backend/internals/configs"
	"bibliothek_backend/internals/constants"
	peopleDTO "bibliothek_backend/internals/features/catalog/people/dto"
	peopleModel "bibliothek_backend/internals/features/catalog/people/model"
)

type AdminSeed struct {
	Name     string
	Email    string
	Password string
}

// AdminSeedFromEnv reads SEED_ADMIN_*; ok=false when email or password is missing.
func AdminSeedFromEnv() (AdminSeed, bool) {
	s := AdminSeed{
		Name:     strings.TrimSpace(configs.GetEnv("SEED_ADMIN_NAME", "Administrator")),
		Email:    strings.ToLower(strings.TrimSpace(configs.GetEnv("SEED_ADMIN_EMAIL"))),
		Password: configs.GetEnv("SEED_ADMIN_PASSWORD"),
	}
	return s, s.Email != "" && len(s.Password) >= 8
}

// SeedAdmin creates the first privileged staff account. Staff accounts can
// only be created by privileged staff, so an empty database needs this once.
func SeedAdmin(db *gorm.DB, s AdminSeed) error {
	var count int64
	if err := db.Model(&peopleModel.StaffModel{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("ℹ️ staff already present, admin seed skipped.")
		return nil
	}
	if s.Email == "" {
		return errors.New("admin seed needs an email")
	}

	return db.Transaction(func(tx *gorm.DB) error {
		person := peopleModel.PersonModel{
			PersonName:     s.Name,
			PersonType:     constants.PersonStaff,
			PersonSituacao: constants.SituacaoActive,
		}
		if err := tx.Create(&person).Error; err != nil {
			return err
		}
		staff, err := peopleDTO.StaffAccountRequest{
			Email:     s.Email,
			Password:  s.Password,
			Privilege: constants.PrivilegeAdmin,
		}.ToStaffModel()
		if err != nil {
			return err
		}
		staff.StaffPersonID = person.PersonID
		if err := tx.Omit(clause.Associations).Create(staff).Error; err != nil {
			return err
		}
		log.Printf("✅ admin staff %s seeded (staff_id=%d)", s.Email, staff.StaffID)
		return nil
	})
}
