// Package finance implements the per-listing investment formulas: derived
// metrics, scores and financing projections.
package finance

import (
	"estatify/server/config"
	"estatify/server/internal/models"
)

// Calculator applies the formulas under a fixed set of policy assumptions
type Calculator struct {
	assumptions config.Assumptions
}

func NewCalculator(assumptions config.Assumptions) *Calculator {
	return &Calculator{assumptions: assumptions}
}

func (c *Calculator) Assumptions() config.Assumptions {
	return c.assumptions
}

// PricePerArea returns price / size rounded to 2 decimals, or 0 when either
// input is not positive.
func PricePerArea(price, size float64) float64 {
	if price <= 0 || size <= 0 {
		return 0
	}
	return Round(price/size, 2)
}

// RentalYield returns annualRent / price as a percentage rounded to 2
// decimals, or 0 when either input is not positive.
func RentalYield(annualRent, price float64) float64 {
	if annualRent <= 0 || price <= 0 {
		return 0
	}
	return Round(annualRent/price*100, 2)
}

// TotalInvestment is the purchase price plus acquisition costs
func (c *Calculator) TotalInvestment(price float64) float64 {
	return price + c.AcquisitionCost(price)
}

func (c *Calculator) AcquisitionCost(price float64) float64 {
	return price * c.assumptions.AcquisitionCostRate
}

// AcquisitionROI is the annual rent over the total investment (price plus
// acquisition costs), without operating expenses.
func (c *Calculator) AcquisitionROI(l *models.Listing) float64 {
	if l.EstimatedRent <= 0 || l.Price <= 0 {
		return 0
	}
	annualRent := l.EstimatedRent * 12
	return Round(annualRent/c.TotalInvestment(l.Price)*100, 2)
}

// EstimateMonthlyRent derives a monthly rent from the listing size and the
// rent rate of its city.
func (c *Calculator) EstimateMonthlyRent(l *models.Listing) float64 {
	if l.Size <= 0 {
		return 0
	}
	return Round(l.Size*config.RentPerSqm(l.City), 2)
}

// BreakEvenYears returns the number of years of rent needed to recover the
// total investment. The second result is false when rent or price is unknown.
func (c *Calculator) BreakEvenYears(l *models.Listing) (float64, bool) {
	if l.EstimatedRent <= 0 || l.Price <= 0 {
		return 0, false
	}
	annualRent := l.EstimatedRent * 12
	return Round(c.TotalInvestment(l.Price)/annualRent, 1), true
}

// Enrich returns a copy of the listing with the estimated rent filled in (if
// missing) and every derived metric recomputed from the raw fields.
func (c *Calculator) Enrich(l models.Listing) models.Listing {
	if l.EstimatedRent <= 0 {
		l.EstimatedRent = c.EstimateMonthlyRent(&l)
	}

	pricePerSqm := PricePerArea(l.Price, l.Size)
	rentalYield := RentalYield(l.EstimatedRent*12, l.Price)
	roi := c.AcquisitionROI(&l)

	l.PricePerSqm = &pricePerSqm
	l.RentalYield = &rentalYield
	l.ROI = &roi
	return l
}

// Metrics is the per-listing view of every derived figure
type Metrics struct {
	PricePerSqm     float64  `json:"pricePerSqm"`
	RentalYield     float64  `json:"rentalYield"`
	ROI             float64  `json:"roi"`
	EstimatedRent   float64  `json:"estimatedRent"`
	AnnualRent      float64  `json:"annualRent"`
	AcquisitionCost float64  `json:"acquisitionCost"`
	TotalInvestment float64  `json:"totalInvestment"`
	BreakEvenYears  *float64 `json:"breakEvenYears"`
}

func (c *Calculator) Metrics(l models.Listing) Metrics {
	enriched := c.Enrich(l)
	m := Metrics{
		PricePerSqm:     *enriched.PricePerSqm,
		RentalYield:     *enriched.RentalYield,
		ROI:             *enriched.ROI,
		EstimatedRent:   enriched.EstimatedRent,
		AnnualRent:      Round(enriched.EstimatedRent*12, 2),
		AcquisitionCost: Round(c.AcquisitionCost(enriched.Price), 2),
		TotalInvestment: Round(c.TotalInvestment(enriched.Price), 2),
	}
	if years, ok := c.BreakEvenYears(&enriched); ok {
		m.BreakEvenYears = &years
	}
	return m
}
