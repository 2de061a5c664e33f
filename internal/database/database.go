package database

import (
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"estatify/server/internal/models"
)

// ErrDuplicateListing is returned when a listing with the same source and
// external id is already stored.
var ErrDuplicateListing = errors.New("listing already exists")

type Database struct {
	db *gorm.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, err
	}

	return &Database{db: db}, nil
}

// NewFromGorm wraps an already opened connection
func NewFromGorm(db *gorm.DB) *Database {
	return &Database{db: db}
}

func (d *Database) GetDB() *gorm.DB {
	return d.db
}

func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (d *Database) RunMigrations() error {
	return MigrateSchema(d.db)
}

// InsertListing stores a new listing and sets its id and timestamps
func (d *Database) InsertListing(listing *models.Listing) error {
	if err := d.db.Create(listing).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s/%s", ErrDuplicateListing, listing.Source, listing.ExternalID)
		}
		return fmt.Errorf("failed to insert listing: %w", err)
	}
	return nil
}

// GetListing returns nil without an error when the listing does not exist
func (d *Database) GetListing(id int64) (*models.Listing, error) {
	var listing models.Listing
	err := d.db.First(&listing, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query listing %d: %w", id, err)
	}
	return &listing, nil
}

// QueryListings returns the listings matching every set field of the
// filter, newest first.
func (d *Database) QueryListings(filter models.ListingFilter) ([]models.Listing, error) {
	query := d.db.Model(&models.Listing{})

	if filter.City != "" {
		query = query.Where("city LIKE ?", "%"+filter.City+"%")
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", *filter.MaxPrice)
	}
	if filter.MinSize != nil {
		query = query.Where("size >= ?", *filter.MinSize)
	}
	if filter.MaxSize != nil {
		query = query.Where("size <= ?", *filter.MaxSize)
	}
	if filter.PropertyType != "" {
		query = query.Where("property_type = ?", filter.PropertyType)
	}
	if filter.MinROI != nil {
		query = query.Where("roi >= ?", *filter.MinROI)
	}

	listings := []models.Listing{}
	if err := query.Order("created_at DESC").Order("id DESC").Find(&listings).Error; err != nil {
		return nil, fmt.Errorf("failed to query listings: %w", err)
	}
	return listings, nil
}

// AllListings returns the whole collection in insertion order
func (d *Database) AllListings() ([]models.Listing, error) {
	listings := []models.Listing{}
	if err := d.db.Order("id").Find(&listings).Error; err != nil {
		return nil, fmt.Errorf("failed to load listings: %w", err)
	}
	return listings, nil
}

// TopListingsByReturn returns the listings with the best ROI, ties broken by
// rental yield. A maxPrice of zero or less disables the price cap.
func (d *Database) TopListingsByReturn(maxPrice float64, limit int) ([]models.Listing, error) {
	query := d.db.Model(&models.Listing{})
	if maxPrice > 0 {
		query = query.Where("price <= ?", maxPrice)
	}

	listings := []models.Listing{}
	err := query.
		Order("roi DESC").
		Order("rental_yield DESC").
		Order("id").
		Limit(limit).
		Find(&listings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query top listings: %w", err)
	}
	return listings, nil
}

// SampleListings returns up to limit listings
func (d *Database) SampleListings(limit int) ([]models.Listing, error) {
	listings := []models.Listing{}
	if err := d.db.Order("id").Limit(limit).Find(&listings).Error; err != nil {
		return nil, fmt.Errorf("failed to sample listings: %w", err)
	}
	return listings, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrConstraint &&
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
