package database

import (
	"log"

	"gorm.io/gorm"

	bookModel "bibliothek_backend/internals/features/catalog/books/model"
	lookupModel "bibliothek_backend/internals/features/catalog/lookups/model"
	peopleModel "bibliothek_backend/internals/features/catalog/people/model"
	loanModel "bibliothek_backend/internals/features/loans/model"
	authModel "bibliothek_backend/internals/features/users/auth/model"
)

// Models in dependency order; AutoMigrate creates FKs and CHECK constraints from tags.
func Models() []any {
	return []any{
		&lookupModel.AuthorModel{},
		&lookupModel.PublisherModel{},
		&lookupModel.SubjectModel{},
		&peopleModel.PersonModel{},
		&peopleModel.StaffModel{},
		&bookModel.BookModel{},
		&bookModel.BookAuthorModel{},
		&loanModel.LoanModel{},
		&loanModel.LoanBookModel{},
		&loanModel.LoanReturnReceiptModel{},
		&authModel.TokenBlacklistModel{},
	}
}

func Migrate(db *gorm.DB) error {
	log.Println("🧱 Running migrations...")
	if err := db.AutoMigrate(Models()...); err != nil {
		return err
	}
	log.Println("✅ Migrations done.")
	return nil
}
