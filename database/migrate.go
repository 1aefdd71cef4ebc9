package database

import (
	"slowork_backend/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate creates or updates the schema for every model.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.JobCategory{},
		&models.Job{},
		&models.Application{},
		&models.WorkSubmission{},
		&models.SubmissionFile{},
		&models.Review{},
		&models.Notification{},
	)
}
