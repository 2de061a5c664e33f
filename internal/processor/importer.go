package processor

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"estatify/server/config"
	"estatify/server/internal/database"
	"estatify/server/internal/finance"
	"estatify/server/internal/models"
)

// ListingStore persists a single listing
type ListingStore interface {
	InsertListing(listing *models.Listing) error
}

// ListingFetcher pulls raw listings from a named source
type ListingFetcher interface {
	Fetch(ctx context.Context, source, city string) ([]models.Listing, error)
}

// ImportResult counts what happened to the fetched listings
type ImportResult struct {
	Source  string `json:"source"`
	City    string `json:"city"`
	Fetched int    `json:"fetched"`
	Saved   int    `json:"saved"`
	Skipped int    `json:"skipped"`
	Failed  int    `json:"failed"`
}

// Importer enriches listings with their derived metrics and stores them
type Importer struct {
	store      ListingStore
	fetcher    ListingFetcher
	calculator *finance.Calculator
	config     *config.Config
	logger     *logrus.Logger
}

// NewImporter creates a new importer instance
func NewImporter(store ListingStore, fetcher ListingFetcher, calculator *finance.Calculator, config *config.Config, logger *logrus.Logger) *Importer {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	return &Importer{
		store:      store,
		fetcher:    fetcher,
		calculator: calculator,
		config:     config,
		logger:     logger,
	}
}

// Save enriches a single listing and stores it. The stored copy is returned.
func (p *Importer) Save(listing models.Listing) (*models.Listing, error) {
	enriched := p.calculator.Enrich(listing)
	if err := p.store.InsertListing(&enriched); err != nil {
		return nil, err
	}
	return &enriched, nil
}

// Import fetches listings from a source and stores them in batches. Every
// row is written on its own: duplicates are skipped, other failures are
// counted and do not stop the import.
func (p *Importer) Import(ctx context.Context, source, city string) (*ImportResult, error) {
	log := p.logger.WithFields(logrus.Fields{
		"source": source,
		"city":   config.NormalizeCity(city),
	})

	listings, err := p.fetcher.Fetch(ctx, source, city)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listings: %w", err)
	}

	result := &ImportResult{Source: source, City: city, Fetched: len(listings)}
	for i, batch := range splitBatches(listings, p.config.Import.BatchSize) {
		if err := ctx.Err(); err != nil {
			log.WithError(err).Warn("Import interrupted")
			return result, err
		}
		p.processBatch(batch, result, log)
		log.Debugf("Processed batch %d with %d listings", i+1, len(batch))
	}

	log.WithFields(logrus.Fields{
		"fetched": result.Fetched,
		"saved":   result.Saved,
		"skipped": result.Skipped,
		"failed":  result.Failed,
	}).Info("Import completed")

	return result, nil
}

func (p *Importer) processBatch(batch []models.Listing, result *ImportResult, log *logrus.Entry) {
	for _, raw := range batch {
		_, err := p.Save(raw)
		switch {
		case err == nil:
			result.Saved++
		case errors.Is(err, database.ErrDuplicateListing):
			result.Skipped++
			log.WithField("external_id", raw.ExternalID).Debug("Skipping duplicate listing")
		default:
			result.Failed++
			log.WithError(err).WithField("external_id", raw.ExternalID).Error("Failed to save listing")
		}
	}
}

func splitBatches(listings []models.Listing, size int) [][]models.Listing {
	if size <= 0 {
		size = len(listings)
	}

	var batches [][]models.Listing
	for start := 0; start < len(listings); start += size {
		end := start + size
		if end > len(listings) {
			end = len(listings)
		}
		batches = append(batches, listings[start:end])
	}
	return batches
}
