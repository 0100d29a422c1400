package seeds

import (
	"log"

	"gorm.io/gorm"

	catalog "bibliothek_backend/internals/seeds/catalog"
	staff "bibliothek_backend/internals/seeds/staff"
)

func RunAllSeeds(db *gorm.DB) {
	//* Staff
	if s, ok := staff.AdminSeedFromEnv(); ok {
		if err := staff.SeedAdmin(db, s); err != nil {
			log.Printf("❌ admin seed failed: %v", err)
		}
	} else {
		log.Println("ℹ️ SEED_ADMIN_EMAIL / SEED_ADMIN_PASSWORD not set, admin seed skipped.")
	}

	//* Catalog
	catalog.SeedCatalogFromJSON(db, "internals/seeds/catalog/data_catalog.json")
}
