package models

import "time"

type Condition string

const (
	ConditionExcellent Condition = "excellent"
	ConditionGood      Condition = "good"
	ConditionFair      Condition = "fair"
	ConditionPoor      Condition = "poor"
)

const (
	PropertyTypeHouse     = "house"
	PropertyTypeApartment = "apartment"
)

// Listing is a property for sale. PricePerSqm, RentalYield and ROI are
// derived from Price, Size and EstimatedRent and must be recomputed whenever
// those change.
type Listing struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	Title        string    `gorm:"not null" json:"title"`
	Address      string    `json:"address"`
	City         string    `gorm:"not null;index" json:"city"`
	PostalCode   string    `json:"postalCode"`
	Latitude     float64   `gorm:"not null" json:"latitude"`
	Longitude    float64   `gorm:"not null" json:"longitude"`
	Price        float64   `gorm:"not null" json:"price"`
	Size         float64   `gorm:"not null" json:"size"`
	Rooms        *int      `json:"rooms"`
	PropertyType string    `gorm:"not null;index" json:"propertyType"`
	YearBuilt    *int      `json:"yearBuilt"`
	Condition    Condition `json:"condition"`

	CurrentRent   *float64 `json:"currentRent"`
	EstimatedRent float64  `json:"estimatedRent"`

	RentalYield *float64 `json:"rentalYield"`
	PricePerSqm *float64 `json:"pricePerSqm"`
	ROI         *float64 `gorm:"column:roi" json:"roi"`

	ImageURL    string    `json:"imageUrl"`
	Description string    `json:"description"`
	Source      string    `json:"source"`
	ExternalID  string    `json:"externalId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ListingFilter is a conjunction of optional listing criteria
type ListingFilter struct {
	City         string   `form:"city"`
	MinPrice     *float64 `form:"minPrice"`
	MaxPrice     *float64 `form:"maxPrice"`
	MinSize      *float64 `form:"minSize"`
	MaxSize      *float64 `form:"maxSize"`
	PropertyType string   `form:"propertyType"`
	MinROI       *float64 `form:"minRoi"`
}

// Value helpers treat unknown derived metrics as zero

func (l *Listing) ROIValue() float64 {
	return valueOf(l.ROI)
}

func (l *Listing) RentalYieldValue() float64 {
	return valueOf(l.RentalYield)
}

func (l *Listing) PricePerSqmValue() float64 {
	return valueOf(l.PricePerSqm)
}

func valueOf(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
