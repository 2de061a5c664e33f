package processor

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func BenchmarkImport(b *testing.B) {
	batchSizes := []int{10, 50, 100}
	listingCounts := []int{100, 1000}

	for _, batchSize := range batchSizes {
		for _, listingCount := range listingCounts {
			b.Run(fmt.Sprintf("BatchSize_%d_Listings_%d", batchSize, listingCount), func(b *testing.B) {
				db := setupTestDatabase(b)
				listings := rawListings(listingCount)
				for i := range listings {
					// External ids must be unique per run
					listings[i].ExternalID = ""
				}

				fetcher := &MockFetcher{}
				fetcher.On("Fetch", mock.Anything, "immoscout", "Berlin").Return(listings, nil)
				importer := newTestImporter(db, fetcher, batchSize)

				b.ResetTimer()
				for i := 0; i < b.N; i++ {
					b.StopTimer()
					db.GetDB().Exec("DELETE FROM listings")
					b.StartTimer()

					result, err := importer.Import(context.Background(), "immoscout", "Berlin")
					require.NoError(b, err)
					require.Equal(b, listingCount, result.Saved)
				}
				b.ReportMetric(float64(listingCount), "listings/op")
			})
		}
	}
}
