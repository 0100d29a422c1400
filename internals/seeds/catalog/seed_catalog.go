package catalog

import (
	"errors"
	"log"
	"os"

	"github.com/bytedance/sonic"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	bookDTO "bibliothek_backend/internals/features/catalog/books/dto"
	bookModel "bibliothek_backend/internals/features/catalog/books/model"
	lookupModel "bibliothek_backend/internals/features/catalog/lookups/model"
	helper "bibliothek_backend/internals/helpers"
)

type BookSeed struct {
	Title     string   `json:"title"`
	ISBN      *string  `json:"isbn"`
	Year      *int     `json:"year"`
	Copies    int      `json:"copies"`
	Authors   []string `json:"authors"`
	Publisher *string  `json:"publisher"`
	Subject   *string  `json:"subject"`
}

type CatalogSeed struct {
	Books []BookSeed `json:"books"`
}

func ParseCatalogSeed(raw []byte) (*CatalogSeed, error) {
	var s CatalogSeed
	if err := sonic.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	for i := range s.Books {
		s.Books[i].Title = helper.CleanText(s.Books[i].Title)
	}
	return &s, nil
}

// lookupID finds a lookup row by name or inserts it.
func lookupID(tx *gorm.DB, kind lookupModel.Kind, name string) (int64, error) {
	name = helper.CleanText(name)
	var m lookupModel.LookupModel
	err := tx.Table(kind.Table).Where("name = ?", name).Take(&m).Error
	if err == nil {
		return m.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}
	m = lookupModel.LookupModel{Name: name, Situacao: 1}
	if err := tx.Table(kind.Table).Create(&m).Error; err != nil {
		return 0, err
	}
	return m.ID, nil
}

// SeedCatalogFromJSON inserts books that are not present yet (matched by title).
func SeedCatalogFromJSON(db *gorm.DB, filePath string) {
	log.Println("📥 Reading catalog seed:", filePath)
	raw, err := os.ReadFile(filePath)
	if err != nil {
		log.Printf("❌ catalog seed not readable: %v", err)
		return
	}
	seed, err := ParseCatalogSeed(raw)
	if err != nil {
		log.Printf("❌ catalog seed is not valid JSON: %v", err)
		return
	}

	inserted := 0
	for _, b := range seed.Books {
		err := db.Transaction(func(tx *gorm.DB) error {
			var n int64
			if err := tx.Model(&bookModel.BookModel{}).Where("book_title = ?", b.Title).Count(&n).Error; err != nil {
				return err
			}
			if n > 0 {
				return nil
			}

			req := bookDTO.CreateBookRequest{BookTitle: b.Title, BookISBN: b.ISBN, BookYear: b.Year, BookTotalCopies: b.Copies}
			if b.Publisher != nil {
				id, err := lookupID(tx, lookupModel.Publishers, *b.Publisher)
				if err != nil {
					return err
				}
				req.BookPublisherID = &id
			}
			if b.Subject != nil {
				id, err := lookupID(tx, lookupModel.Subjects, *b.Subject)
				if err != nil {
					return err
				}
				req.BookSubjectID = &id
			}
			for _, a := range b.Authors {
				id, err := lookupID(tx, lookupModel.Authors, a)
				if err != nil {
					return err
				}
				req.AuthorIDs = append(req.AuthorIDs, id)
			}
			req.Normalize()

			m := req.ToModel()
			if err := tx.Omit(clause.Associations).Create(m).Error; err != nil {
				return err
			}
			for _, a := range req.AuthorIDs {
				link := bookModel.BookAuthorModel{BookAuthorBookID: m.BookID, BookAuthorAuthorID: a}
				if err := tx.Omit(clause.Associations).Create(&link).Error; err != nil {
					return err
				}
			}
			inserted++
			return nil
		})
		if err != nil {
			log.Printf("❌ seeding %q failed: %v", b.Title, err)
		}
	}
	log.Printf("✅ catalog seed done, %d books inserted", inserted)
}
