package processor

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"estatify/server/internal/database"
	"estatify/server/internal/finance"
	"estatify/server/internal/models"
	"estatify/server/internal/sources"
)

func setupTestDatabase(t testing.TB) *database.Database {
	db, err := database.NewTestDB()
	require.NoError(t, err)

	err = database.MigrateSchema(db)
	require.NoError(t, err)

	return database.NewFromGorm(db)
}

func TestImportIntegration(t *testing.T) {
	db := setupTestDatabase(t)
	registry := sources.NewRegistry(time.Second, quietLogger(),
		sources.NewImmoscoutFeed(rand.New(rand.NewSource(11))),
		sources.NewImmonetFeed(rand.New(rand.NewSource(12))),
	)

	cfg := testConfig(3)
	calculator := finance.NewCalculator(cfg.Assumptions)
	importer := NewImporter(db, registry, calculator, cfg, quietLogger())

	result, err := importer.Import(context.Background(), sources.SourceAll, "Leipzig")
	require.NoError(t, err)
	assert.Equal(t, result.Fetched, result.Saved)
	assert.Zero(t, result.Failed)

	stored, err := db.QueryListings(models.ListingFilter{City: "Leipzig"})
	require.NoError(t, err)
	require.Len(t, stored, result.Saved)

	// Stored derived metrics match a fresh recomputation
	for _, l := range stored {
		recomputed := calculator.Enrich(l)
		assert.Equal(t, *recomputed.ROI, *l.ROI)
		assert.Equal(t, *recomputed.RentalYield, *l.RentalYield)
		assert.Equal(t, *recomputed.PricePerSqm, *l.PricePerSqm)
		assert.Equal(t, l.Size*8, l.EstimatedRent)
	}
}

func TestImportSkipsAlreadyStoredListings(t *testing.T) {
	db := setupTestDatabase(t)
	fetcher := &MockFetcher{}
	fetcher.On("Fetch", mock.Anything, "immoscout", "Berlin").Return(rawListings(4), nil)

	importer := newTestImporter(db, fetcher, 2)

	first, err := importer.Import(context.Background(), "immoscout", "Berlin")
	require.NoError(t, err)
	assert.Equal(t, 4, first.Saved)

	second, err := importer.Import(context.Background(), "immoscout", "Berlin")
	require.NoError(t, err)
	assert.Equal(t, 0, second.Saved)
	assert.Equal(t, 4, second.Skipped)

	all, err := db.AllListings()
	require.NoError(t, err)
	assert.Len(t, all, 4)
}
