package database

import (
	"fmt"
	"log"

	"avoidxray/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Connect establishes a connection to the PostgreSQL database
func Connect(dsn string) error {
	var err error

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Error),
		DisableForeignKeyConstraintWhenMigrating: true,
	})

	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Println("Database connection established successfully")
	return nil
}

// AutoMigrate runs automatic migrations for all models
func AutoMigrate() error {
	// Core models first so catalog and gallery rows can reference users
	coreModels := []interface{}{
		&models.User{},
		&models.Camera{},
		&models.FilmStock{},
	}

	for _, model := range coreModels {
		if err := DB.AutoMigrate(model); err != nil {
			log.Printf("Warning: migration issue for %T: %v", model, err)
		}
	}

	// Gallery models
	galleryModels := []interface{}{
		&models.Photo{},
		&models.Like{},
		&models.Album{},
		&models.AlbumPhoto{},
	}

	for _, model := range galleryModels {
		if err := DB.AutoMigrate(model); err != nil {
			log.Printf("Warning: migration issue for %T: %v", model, err)
		}
	}

	// Moderation models
	if err := DB.AutoMigrate(&models.ModerationSubmission{}); err != nil {
		log.Printf("Warning: migration issue for %T: %v", &models.ModerationSubmission{}, err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}
