package database

import (
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/vitaltrack/backend/config"
	"github.com/vitaltrack/backend/internal/models"
)

// New opens the Postgres connection and migrates the schema.
func New(cfg *config.Config) (*gorm.DB, error) {
	log.Printf("Connecting to database at %s:%s as user %s", cfg.DBHost, cfg.DBPort, cfg.DBUser)

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Printf("Successfully connected to database")
	return db, nil
}

// Migrate creates or updates all application tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Workout{},
		&models.Meal{},
		&models.SleepRecord{},
		&models.WaterIntake{},
		&models.WeightLog{},
		&models.Goal{},
		&models.ActivityLog{},
	)
}
