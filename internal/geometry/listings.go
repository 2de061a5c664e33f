// Package geometry turns listings into GeoJSON for the map views.
package geometry

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"estatify/server/internal/models"
)

var ErrInvalidBounds = errors.New("invalid bounding box")

// ListingPoint returns the location of a listing as lon/lat
func ListingPoint(l *models.Listing) orb.Point {
	return orb.Point{l.Longitude, l.Latitude}
}

// ListingFeatures converts listings into a collection of point features
func ListingFeatures(listings []models.Listing) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for i := range listings {
		l := &listings[i]

		feature := geojson.NewFeature(ListingPoint(l))
		feature.ID = l.ID
		feature.Properties = geojson.Properties{
			"id":            l.ID,
			"title":         l.Title,
			"city":          l.City,
			"price":         l.Price,
			"size":          l.Size,
			"property_type": l.PropertyType,
			"roi":           l.ROI,
			"rental_yield":  l.RentalYield,
		}
		fc.Append(feature)
	}
	return fc
}

// ParseBounds parses "minLng,minLat,maxLng,maxLat"
func ParseBounds(value string) (orb.Bound, error) {
	parts := strings.Split(value, ",")
	if len(parts) != 4 {
		return orb.Bound{}, fmt.Errorf("%w: expected 4 comma separated values, got %d", ErrInvalidBounds, len(parts))
	}

	var coords [4]float64
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return orb.Bound{}, fmt.Errorf("%w: %q is not a number", ErrInvalidBounds, part)
		}
		coords[i] = v
	}

	bound := orb.Bound{
		Min: orb.Point{coords[0], coords[1]},
		Max: orb.Point{coords[2], coords[3]},
	}
	if bound.Min.Lon() > bound.Max.Lon() || bound.Min.Lat() > bound.Max.Lat() {
		return orb.Bound{}, fmt.Errorf("%w: minimum exceeds maximum", ErrInvalidBounds)
	}
	if bound.Min.Lat() < -90 || bound.Max.Lat() > 90 || bound.Min.Lon() < -180 || bound.Max.Lon() > 180 {
		return orb.Bound{}, fmt.Errorf("%w: coordinates out of range", ErrInvalidBounds)
	}
	return bound, nil
}

// WithinBounds keeps the listings located inside the bound, edges included
func WithinBounds(listings []models.Listing, bound orb.Bound) []models.Listing {
	result := make([]models.Listing, 0, len(listings))
	for i := range listings {
		if bound.Contains(ListingPoint(&listings[i])) {
			result = append(result, listings[i])
		}
	}
	return result
}
