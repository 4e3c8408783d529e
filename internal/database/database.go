package database

import (
	"log"

	"github.com/campuspulse/campus-events-api/internal/config"
	"github.com/campuspulse/campus-events-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func Connect(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := Migrate(db); err != nil {
		log.Fatalf("Failed to auto migrate: %v", err)
	}

	return db
}

// Migrate creates the six entity tables with their unique and
// foreign-key indexes. Also used by tests against in-memory sqlite.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.College{},
		&models.Student{},
		&models.Event{},
		&models.Registration{},
		&models.Attendance{},
		&models.Feedback{},
	)
}
