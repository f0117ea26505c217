package models

import (
	"log"

	"bitbucket.org/mmdatafocus/insurance_backend/config"
	"gorm.io/gorm"
)

// MigrateTable migrates the global DB and exits the process on failure.
func MigrateTable() {
	if err := Migrate(config.GetDB()); err != nil {
		log.Fatal(err)
	}
}

// Migrate creates or alters every table, including the unique indexes
// on policy_number, product name and client email.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Client{},
		&Policy{}, &Claim{},
		&Product{},
		&Commission{},
	)
}
