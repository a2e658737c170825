package database

import (
	"log"

	"gorm.io/gorm"

	"github.com/sweetappleplus/gamified-task-manager-backend/models"
)

// Migrate runs AutoMigrate for every entity the service persists. Intended
// for development; production schema changes are managed out of band.
func Migrate(db *gorm.DB) error {
	log.Println("[database] running auto-migration")
	return db.AutoMigrate(
		&models.User{},
		&models.TaskCategory{},
		&models.Task{},
		&models.TaskSubmission{},
		&models.LedgerEntry{},
		&models.BonusConfig{},
		&models.Notification{},
	)
}
