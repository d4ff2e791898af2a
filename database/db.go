package database

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"devradar/models"
)

// DB wraps the gorm handle and exposes the stores the service uses.
type DB struct {
	gorm *gorm.DB
}

// Open connects to the database at path and runs migrations.
func Open(path string) (*DB, error) {
	gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", path, err)
	}

	if err := gdb.AutoMigrate(
		&models.Signal{},
		&models.ContributionOpportunity{},
		&models.Resource{},
	); err != nil {
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	return &DB{gorm: gdb}, nil
}

// Gorm returns the underlying gorm handle.
func (db *DB) Gorm() *gorm.DB {
	return db.gorm
}
