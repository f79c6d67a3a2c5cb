package initializers

import (
	"log"

	"github.com/Cloud-Net-Park/Gravel/models"

	"gorm.io/gorm"
)

// Migrate creates or updates the backend tables
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.FitProfile{},
	)
	if err != nil {
		log.Printf("Failed to migrate database schema: %v", err)
		return err
	}

	log.Println("Database migrations completed")
	return nil
}
