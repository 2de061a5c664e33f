package finance

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estatify/server/config"
	"estatify/server/internal/models"
)

func newTestCalculator() *Calculator {
	return NewCalculator(config.DefaultAssumptions())
}

func TestRound(t *testing.T) {
	tests := []struct {
		value    float64
		places   int32
		expected float64
	}{
		{4.363636, 2, 4.36},
		{4.365, 2, 4.37},
		{-4.365, 2, -4.37},
		{2.25, 1, 2.3},
		{2.5, 0, 3},
		{-2.5, 0, -3},
		{1.005, 2, 1.01},
		{0, 2, 0},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%v_%d", tt.value, tt.places), func(t *testing.T) {
			assert.Equal(t, tt.expected, Round(tt.value, tt.places))
		})
	}
}

func TestPricePerArea(t *testing.T) {
	assert.Equal(t, 3333.33, PricePerArea(250000, 75))
	assert.Equal(t, 0.0, PricePerArea(0, 75))
	assert.Equal(t, 0.0, PricePerArea(250000, 0))
	assert.Equal(t, 0.0, PricePerArea(-1, 10))

	// price per area times size gives back the price within rounding
	for _, price := range []float64{99999, 250000, 312345.67, 1250000} {
		for _, size := range []float64{17, 42.5, 75, 133.3} {
			assert.InDelta(t, price, PricePerArea(price, size)*size, 0.01*size,
				"price=%v size=%v", price, size)
		}
	}
}

func TestRentalYield(t *testing.T) {
	assert.Equal(t, 4.8, RentalYield(14400, 300000))
	assert.Equal(t, 0.0, RentalYield(0, 100000))
	assert.Equal(t, 0.0, RentalYield(12000, 0))
	assert.Equal(t, 3.33, RentalYield(10000, 300000))
}

func TestAcquisitionROI(t *testing.T) {
	calc := newTestCalculator()

	listing := &models.Listing{Price: 300000, EstimatedRent: 1200}
	// 14400 / (300000 + 30000) * 100 = 4.3636...
	assert.Equal(t, 4.36, calc.AcquisitionROI(listing))

	assert.Equal(t, 0.0, calc.AcquisitionROI(&models.Listing{Price: 300000}))
	assert.Equal(t, 0.0, calc.AcquisitionROI(&models.Listing{EstimatedRent: 1200}))
}

func TestAcquisitionROIUsesAssumptions(t *testing.T) {
	assumptions := config.DefaultAssumptions()
	assumptions.AcquisitionCostRate = 0
	calc := NewCalculator(assumptions)

	listing := &models.Listing{Price: 300000, EstimatedRent: 1200}
	assert.Equal(t, 4.8, calc.AcquisitionROI(listing))
}

func TestEstimateMonthlyRent(t *testing.T) {
	calc := newTestCalculator()

	tests := []struct {
		city     string
		size     float64
		expected float64
	}{
		{"Berlin", 80, 960},
		{"München", 55.5, 999},
		{"Leipzig", 100, 800},
		{"Rostock", 80, 800},
		{"Berlin", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.city, func(t *testing.T) {
			listing := &models.Listing{City: tt.city, Size: tt.size}
			assert.Equal(t, tt.expected, calc.EstimateMonthlyRent(listing))
		})
	}
}

func TestBreakEvenYears(t *testing.T) {
	calc := newTestCalculator()

	years, ok := calc.BreakEvenYears(&models.Listing{Price: 300000, EstimatedRent: 1200})
	require.True(t, ok)
	// 330000 / 14400 = 22.916...
	assert.Equal(t, 22.9, years)

	_, ok = calc.BreakEvenYears(&models.Listing{Price: 300000})
	assert.False(t, ok)

	_, ok = calc.BreakEvenYears(&models.Listing{EstimatedRent: 900})
	assert.False(t, ok)
}

func TestEnrich(t *testing.T) {
	calc := newTestCalculator()

	raw := models.Listing{City: "Berlin", Price: 240000, Size: 80}
	enriched := calc.Enrich(raw)

	assert.Equal(t, 960.0, enriched.EstimatedRent)
	require.NotNil(t, enriched.PricePerSqm)
	require.NotNil(t, enriched.RentalYield)
	require.NotNil(t, enriched.ROI)
	assert.Equal(t, 3000.0, *enriched.PricePerSqm)
	assert.Equal(t, 4.8, *enriched.RentalYield)
	// 11520 / 264000 * 100 = 4.3636...
	assert.Equal(t, 4.36, *enriched.ROI)

	// The raw listing is left untouched
	assert.Nil(t, raw.ROI)
	assert.Zero(t, raw.EstimatedRent)
}

func TestEnrichKeepsSuppliedRent(t *testing.T) {
	calc := newTestCalculator()

	enriched := calc.Enrich(models.Listing{City: "Berlin", Price: 300000, Size: 80, EstimatedRent: 1200})
	assert.Equal(t, 1200.0, enriched.EstimatedRent)
	assert.Equal(t, 4.36, *enriched.ROI)
}

func TestEnrichIsIdempotent(t *testing.T) {
	calc := newTestCalculator()

	listings := []models.Listing{
		{City: "München", Price: 512345, Size: 67},
		{City: "Köln", Price: 199000, Size: 45.5, EstimatedRent: 730},
		{City: "Rostock", Price: 0, Size: 70},
	}

	for _, raw := range listings {
		once := calc.Enrich(raw)
		twice := calc.Enrich(once)
		assert.Equal(t, once, twice, "listing in %s drifted", raw.City)
	}
}

func TestMetrics(t *testing.T) {
	calc := newTestCalculator()

	m := calc.Metrics(models.Listing{City: "Berlin", Price: 300000, Size: 100, EstimatedRent: 1200})
	assert.Equal(t, 3000.0, m.PricePerSqm)
	assert.Equal(t, 4.8, m.RentalYield)
	assert.Equal(t, 4.36, m.ROI)
	assert.Equal(t, 14400.0, m.AnnualRent)
	assert.Equal(t, 30000.0, m.AcquisitionCost)
	assert.Equal(t, 330000.0, m.TotalInvestment)
	require.NotNil(t, m.BreakEvenYears)
	assert.Equal(t, 22.9, *m.BreakEvenYears)

	m = calc.Metrics(models.Listing{City: "Berlin"})
	assert.Nil(t, m.BreakEvenYears)
	assert.Zero(t, m.ROI)
}
