package database

import (
	"fmt"
	"sync/atomic"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"estatify/server/internal/models"
)

// MigrateSchema creates the listings table and its indexes
func MigrateSchema(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Listing{}); err != nil {
		return fmt.Errorf("failed to migrate listings table: %w", err)
	}

	// External ids are only unique within a source, and only when present
	err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_listings_source_external_id
		ON listings(source, external_id)
		WHERE external_id <> '';
	`).Error
	if err != nil {
		return fmt.Errorf("failed to create external id index: %w", err)
	}

	// Create spatial index on coordinates
	err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_listings_coordinates
		ON listings(latitude, longitude);
	`).Error
	if err != nil {
		return fmt.Errorf("failed to create coordinates index: %w", err)
	}

	return nil
}

var testDBCounter atomic.Int64

// NewTestDB opens a private in-memory database. Every call gets its own
// database so tests do not share state.
func NewTestDB() (*gorm.DB, error) {
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", testDBCounter.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// A single connection keeps the in-memory database alive
	sqlDB.SetMaxOpenConns(1)

	return db, nil
}
