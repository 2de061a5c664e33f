// Package market computes collection-level summaries over listings. Every
// function is stateless and works on the slice it is given.
package market

import (
	"math"
	"sort"

	"estatify/server/internal/models"
)

const (
	priceTrendLimit       = 10
	topCitiesLimit        = 5
	minComparisonListings = 3
)

// bucket is a half-open range [min, max) with a display label
type bucket struct {
	label string
	min   float64
	max   float64
}

func (b bucket) contains(v float64) bool {
	return v >= b.min && v < b.max
}

var roiBuckets = []bucket{
	{label: "0-3%", min: math.Inf(-1), max: 3},
	{label: "3-5%", min: 3, max: 5},
	{label: "5-7%", min: 5, max: 7},
	{label: "7-10%", min: 7, max: 10},
	{label: "10%+", min: 10, max: math.Inf(1)},
}

var priceBuckets = []bucket{
	{label: "<200k", min: math.Inf(-1), max: 200000},
	{label: "200k-400k", min: 200000, max: 400000},
	{label: "400k-600k", min: 400000, max: 600000},
	{label: "600k-800k", min: 600000, max: 800000},
	{label: "800k+", min: 800000, max: math.Inf(1)},
}

// mean accumulates an average over known values only
type mean struct {
	sum   float64
	count int
}

func (m *mean) add(v float64) {
	m.sum += v
	m.count++
}

func (m *mean) addKnown(v *float64) {
	if v != nil {
		m.add(*v)
	}
}

// value returns nil when nothing was added
func (m mean) value() *float64 {
	if m.count == 0 {
		return nil
	}
	avg := m.sum / float64(m.count)
	return &avg
}

// group is a run of listings sharing a key, in first-seen order
type group struct {
	key      string
	listings []models.Listing
}

func groupBy(listings []models.Listing, key func(l *models.Listing) string) []group {
	index := make(map[string]int)
	var groups []group
	for _, l := range listings {
		k := key(&l)
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, group{key: k})
		}
		groups[i].listings = append(groups[i].listings, l)
	}
	return groups
}

func byCity(l *models.Listing) string {
	return l.City
}

func countBuckets(buckets []bucket, values []float64) []bucketCount {
	counts := make([]int, len(buckets))
	for _, v := range values {
		for i, b := range buckets {
			if b.contains(v) {
				counts[i]++
				break
			}
		}
	}

	// Buckets are declared in ascending order; empty buckets are omitted
	result := make([]bucketCount, 0, len(buckets))
	for i, b := range buckets {
		if counts[i] > 0 {
			result = append(result, bucketCount{label: b.label, count: counts[i]})
		}
	}
	return result
}

type bucketCount struct {
	label string
	count int
}

// PriceTrends groups listings by city. Without a city filter the ten cities
// with the most listings are returned, largest first; with a filter only the
// matching city is returned.
func PriceTrends(listings []models.Listing, city string) []models.PriceTrend {
	if city != "" {
		filtered := make([]models.Listing, 0, len(listings))
		for _, l := range listings {
			if l.City == city {
				filtered = append(filtered, l)
			}
		}
		listings = filtered
	}

	groups := groupBy(listings, byCity)
	trends := make([]models.PriceTrend, 0, len(groups))
	for _, g := range groups {
		var pricePerSqm, price mean
		for _, l := range g.listings {
			pricePerSqm.addKnown(l.PricePerSqm)
			price.add(l.Price)
		}
		trends = append(trends, models.PriceTrend{
			City:           g.key,
			AvgPricePerSqm: pricePerSqm.value(),
			AvgPrice:       price.value(),
			PropertyCount:  len(g.listings),
		})
	}

	if city != "" {
		return trends
	}

	sort.SliceStable(trends, func(i, j int) bool {
		return trends[i].PropertyCount > trends[j].PropertyCount
	})
	if len(trends) > priceTrendLimit {
		trends = trends[:priceTrendLimit]
	}
	return trends
}

// ROIDistribution counts listings with a known ROI per fixed ROI range,
// lowest range first.
func ROIDistribution(listings []models.Listing) []models.ROIBucket {
	values := make([]float64, 0, len(listings))
	for _, l := range listings {
		if l.ROI != nil {
			values = append(values, *l.ROI)
		}
	}

	counts := countBuckets(roiBuckets, values)
	distribution := make([]models.ROIBucket, len(counts))
	for i, c := range counts {
		distribution[i] = models.ROIBucket{ROIRange: c.label, Count: c.count}
	}
	return distribution
}

// PropertyTypeBreakdown groups listings by property type, most common first
func PropertyTypeBreakdown(listings []models.Listing) []models.PropertyTypeSummary {
	groups := groupBy(listings, func(l *models.Listing) string { return l.PropertyType })

	summaries := make([]models.PropertyTypeSummary, 0, len(groups))
	for _, g := range groups {
		var price, roi mean
		for _, l := range g.listings {
			price.add(l.Price)
			roi.addKnown(l.ROI)
		}
		summaries = append(summaries, models.PropertyTypeSummary{
			PropertyType: g.key,
			Count:        len(g.listings),
			AvgPrice:     price.value(),
			AvgROI:       roi.value(),
		})
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].Count > summaries[j].Count
	})
	return summaries
}

// Overview summarises the whole collection in one result
func Overview(listings []models.Listing) models.MarketOverview {
	var price, roi, rentalYield mean
	prices := make([]float64, 0, len(listings))
	for _, l := range listings {
		price.add(l.Price)
		roi.addKnown(l.ROI)
		rentalYield.addKnown(l.RentalYield)
		prices = append(prices, l.Price)
	}

	cities := groupBy(listings, byCity)
	sort.SliceStable(cities, func(i, j int) bool {
		return len(cities[i].listings) > len(cities[j].listings)
	})
	if len(cities) > topCitiesLimit {
		cities = cities[:topCitiesLimit]
	}
	topCities := make([]models.CityCount, len(cities))
	for i, g := range cities {
		topCities[i] = models.CityCount{City: g.key, Count: len(g.listings)}
	}

	counts := countBuckets(priceBuckets, prices)
	priceRanges := make([]models.PriceRangeCount, len(counts))
	for i, c := range counts {
		priceRanges[i] = models.PriceRangeCount{PriceRange: c.label, Count: c.count}
	}

	return models.MarketOverview{
		TotalProperties: len(listings),
		AvgPrice:        price.value(),
		AvgROI:          roi.value(),
		AvgRentalYield:  rentalYield.value(),
		TopCities:       topCities,
		PriceRanges:     priceRanges,
	}
}

// CityComparison compares cities with at least three listings, highest
// average ROI first. Cities without any known ROI sort last.
func CityComparison(listings []models.Listing) []models.CityComparison {
	groups := groupBy(listings, byCity)

	comparison := make([]models.CityComparison, 0, len(groups))
	for _, g := range groups {
		if len(g.listings) < minComparisonListings {
			continue
		}

		var price, pricePerSqm, size, roi, rentalYield mean
		minPrice, maxPrice := math.Inf(1), math.Inf(-1)
		for _, l := range g.listings {
			price.add(l.Price)
			size.add(l.Size)
			pricePerSqm.addKnown(l.PricePerSqm)
			roi.addKnown(l.ROI)
			rentalYield.addKnown(l.RentalYield)
			minPrice = math.Min(minPrice, l.Price)
			maxPrice = math.Max(maxPrice, l.Price)
		}

		comparison = append(comparison, models.CityComparison{
			City:           g.key,
			PropertyCount:  len(g.listings),
			AvgPrice:       price.value(),
			AvgPricePerSqm: pricePerSqm.value(),
			AvgSize:        size.value(),
			AvgROI:         roi.value(),
			AvgRentalYield: rentalYield.value(),
			MinPrice:       &minPrice,
			MaxPrice:       &maxPrice,
		})
	}

	sort.SliceStable(comparison, func(i, j int) bool {
		a, b := comparison[i].AvgROI, comparison[j].AvgROI
		if a == nil || b == nil {
			return a != nil && b == nil
		}
		return *a > *b
	})
	return comparison
}

// Stats returns the flat averages of the whole collection
func Stats(listings []models.Listing) models.ListingStats {
	var price, pricePerSqm, roi, rentalYield mean
	for _, l := range listings {
		price.add(l.Price)
		pricePerSqm.addKnown(l.PricePerSqm)
		roi.addKnown(l.ROI)
		rentalYield.addKnown(l.RentalYield)
	}

	return models.ListingStats{
		TotalProperties: len(listings),
		AvgPrice:        price.value(),
		AvgPricePerSqm:  pricePerSqm.value(),
		AvgROI:          roi.value(),
		AvgRentalYield:  rentalYield.value(),
	}
}
