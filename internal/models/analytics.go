package models

// PriceTrend summarises listings of one city
type PriceTrend struct {
	City           string   `json:"city"`
	AvgPricePerSqm *float64 `json:"avgPricePerSqm"`
	AvgPrice       *float64 `json:"avgPrice"`
	PropertyCount  int      `json:"propertyCount"`
}

// ROIBucket counts listings whose ROI falls in the labelled range
type ROIBucket struct {
	ROIRange string `json:"roiRange"`
	Count    int    `json:"count"`
}

type PropertyTypeSummary struct {
	PropertyType string   `json:"propertyType"`
	Count        int      `json:"count"`
	AvgPrice     *float64 `json:"avgPrice"`
	AvgROI       *float64 `json:"avgRoi"`
}

type CityCount struct {
	City  string `json:"city"`
	Count int    `json:"count"`
}

type PriceRangeCount struct {
	PriceRange string `json:"priceRange"`
	Count      int    `json:"count"`
}

type MarketOverview struct {
	TotalProperties int               `json:"totalProperties"`
	AvgPrice        *float64          `json:"avgPrice"`
	AvgROI          *float64          `json:"avgRoi"`
	AvgRentalYield  *float64          `json:"avgRentalYield"`
	TopCities       []CityCount       `json:"topCities"`
	PriceRanges     []PriceRangeCount `json:"priceRanges"`
}

type CityComparison struct {
	City           string   `json:"city"`
	PropertyCount  int      `json:"propertyCount"`
	AvgPrice       *float64 `json:"avgPrice"`
	AvgPricePerSqm *float64 `json:"avgPricePerSqm"`
	AvgSize        *float64 `json:"avgSize"`
	AvgROI         *float64 `json:"avgRoi"`
	AvgRentalYield *float64 `json:"avgRentalYield"`
	MinPrice       *float64 `json:"minPrice"`
	MaxPrice       *float64 `json:"maxPrice"`
}

// ListingStats is the flat overview of the whole listing collection
type ListingStats struct {
	TotalProperties int      `json:"totalProperties"`
	AvgPrice        *float64 `json:"avgPrice"`
	AvgPricePerSqm  *float64 `json:"avgPricePerSqm"`
	AvgROI          *float64 `json:"avgRoi"`
	AvgRentalYield  *float64 `json:"avgRentalYield"`
}
