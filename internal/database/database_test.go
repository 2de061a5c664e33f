package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estatify/server/internal/models"
)

func ptr(v float64) *float64 {
	return &v
}

func setupTestDatabase(t *testing.T) *Database {
	db, err := NewTestDB()
	require.NoError(t, err)
	require.NoError(t, MigrateSchema(db))

	d := NewFromGorm(db)
	t.Cleanup(func() { d.Close() })
	return d
}

func newListing(title, city string, price, size float64, roi float64) *models.Listing {
	return &models.Listing{
		Title:         title,
		City:          city,
		Latitude:      52.52,
		Longitude:     13.40,
		Price:         price,
		Size:          size,
		PropertyType:  models.PropertyTypeApartment,
		EstimatedRent: size * 12,
		PricePerSqm:   ptr(price / size),
		RentalYield:   ptr(roi + 0.5),
		ROI:           ptr(roi),
	}
}

func TestInsertAndGetListing(t *testing.T) {
	d := setupTestDatabase(t)

	listing := newListing("Altbau", "Berlin", 300000, 80, 4.36)
	listing.Condition = models.ConditionGood
	require.NoError(t, d.InsertListing(listing))
	assert.NotZero(t, listing.ID)
	assert.False(t, listing.CreatedAt.IsZero())

	stored, err := d.GetListing(listing.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "Altbau", stored.Title)
	assert.Equal(t, models.ConditionGood, stored.Condition)
	require.NotNil(t, stored.ROI)
	assert.Equal(t, 4.36, *stored.ROI)
	assert.Nil(t, stored.Rooms)
}

func TestGetListingNotFound(t *testing.T) {
	d := setupTestDatabase(t)

	listing, err := d.GetListing(42)
	assert.NoError(t, err)
	assert.Nil(t, listing)
}

func TestInsertListingDuplicate(t *testing.T) {
	d := setupTestDatabase(t)

	first := newListing("One", "Berlin", 300000, 80, 4)
	first.Source = "Immoscout24"
	first.ExternalID = "IS24-abc"
	require.NoError(t, d.InsertListing(first))

	second := newListing("Two", "Berlin", 310000, 82, 4)
	second.Source = "Immoscout24"
	second.ExternalID = "IS24-abc"
	err := d.InsertListing(second)
	assert.ErrorIs(t, err, ErrDuplicateListing)

	// The same external id from another source is a different listing
	third := newListing("Three", "Berlin", 320000, 84, 4)
	third.Source = "Immonet"
	third.ExternalID = "IS24-abc"
	assert.NoError(t, d.InsertListing(third))

	// Listings without an external id never collide
	assert.NoError(t, d.InsertListing(newListing("Four", "Berlin", 1, 1, 1)))
	assert.NoError(t, d.InsertListing(newListing("Five", "Berlin", 1, 1, 1)))
}

func TestQueryListings(t *testing.T) {
	d := setupTestDatabase(t)

	fixtures := []*models.Listing{
		newListing("Berlin small", "Berlin", 200000, 50, 3),
		newListing("Berlin large", "Berlin", 600000, 150, 5),
		newListing("Hamburg", "Hamburg", 400000, 90, 7),
		newListing("Frankfurt am Main", "Frankfurt am Main", 500000, 100, 2),
	}
	fixtures[1].PropertyType = models.PropertyTypeHouse
	for _, l := range fixtures {
		require.NoError(t, d.InsertListing(l))
	}

	titles := func(listings []models.Listing) []string {
		result := make([]string, len(listings))
		for i, l := range listings {
			result[i] = l.Title
		}
		return result
	}

	tests := []struct {
		name     string
		filter   models.ListingFilter
		expected []string
	}{
		{
			name:     "No filter returns newest first",
			filter:   models.ListingFilter{},
			expected: []string{"Frankfurt am Main", "Hamburg", "Berlin large", "Berlin small"},
		},
		{
			name:     "City substring",
			filter:   models.ListingFilter{City: "Frankfurt"},
			expected: []string{"Frankfurt am Main"},
		},
		{
			name:     "Price range",
			filter:   models.ListingFilter{MinPrice: ptr(300000), MaxPrice: ptr(500000)},
			expected: []string{"Frankfurt am Main", "Hamburg"},
		},
		{
			name:     "Size range",
			filter:   models.ListingFilter{MinSize: ptr(90), MaxSize: ptr(150)},
			expected: []string{"Frankfurt am Main", "Hamburg", "Berlin large"},
		},
		{
			name:     "Property type",
			filter:   models.ListingFilter{PropertyType: models.PropertyTypeHouse},
			expected: []string{"Berlin large"},
		},
		{
			name:     "Minimum ROI",
			filter:   models.ListingFilter{MinROI: ptr(5)},
			expected: []string{"Hamburg", "Berlin large"},
		},
		{
			name:     "Conjunction",
			filter:   models.ListingFilter{City: "Berlin", MinROI: ptr(4)},
			expected: []string{"Berlin large"},
		},
		{
			name:     "No match",
			filter:   models.ListingFilter{City: "Leipzig"},
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			listings, err := d.QueryListings(tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, titles(listings))
		})
	}
}

func TestQueryListingsOrdersByCreationTime(t *testing.T) {
	d := setupTestDatabase(t)

	older := newListing("Older", "Berlin", 1, 1, 1)
	older.CreatedAt = time.Now().Add(-time.Hour)
	newer := newListing("Newer", "Berlin", 1, 1, 1)

	// Inserted newest first, returned by creation time
	require.NoError(t, d.InsertListing(newer))
	require.NoError(t, d.InsertListing(older))

	listings, err := d.QueryListings(models.ListingFilter{})
	require.NoError(t, err)
	require.Len(t, listings, 2)
	assert.Equal(t, "Newer", listings[0].Title)
	assert.Equal(t, "Older", listings[1].Title)
}

func TestTopListingsByReturn(t *testing.T) {
	d := setupTestDatabase(t)

	cheapLow := newListing("Cheap low", "Berlin", 150000, 50, 3)
	cheapHigh := newListing("Cheap high", "Berlin", 180000, 50, 6)
	expensive := newListing("Expensive", "Berlin", 900000, 200, 9)
	tie := newListing("Tie", "Berlin", 170000, 50, 6)
	tie.RentalYield = ptr(9)
	unknown := newListing("Unknown", "Berlin", 100000, 50, 0)
	unknown.ROI = nil
	for _, l := range []*models.Listing{cheapLow, cheapHigh, expensive, tie, unknown} {
		require.NoError(t, d.InsertListing(l))
	}

	listings, err := d.TopListingsByReturn(0, 5)
	require.NoError(t, err)
	require.Len(t, listings, 5)
	assert.Equal(t, "Expensive", listings[0].Title)
	assert.Equal(t, "Tie", listings[1].Title)
	assert.Equal(t, "Cheap high", listings[2].Title)
	assert.Equal(t, "Unknown", listings[4].Title)

	capped, err := d.TopListingsByReturn(200000, 2)
	require.NoError(t, err)
	require.Len(t, capped, 2)
	assert.Equal(t, "Tie", capped[0].Title)
	assert.Equal(t, "Cheap high", capped[1].Title)
}

func TestAllAndSampleListings(t *testing.T) {
	d := setupTestDatabase(t)

	empty, err := d.AllListings()
	require.NoError(t, err)
	assert.Empty(t, empty)

	for i := 0; i < 12; i++ {
		require.NoError(t, d.InsertListing(newListing("Listing", "Berlin", 250000, 70, 4)))
	}

	all, err := d.AllListings()
	require.NoError(t, err)
	assert.Len(t, all, 12)

	sample, err := d.SampleListings(10)
	require.NoError(t, err)
	assert.Len(t, sample, 10)
}
