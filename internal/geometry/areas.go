package geometry

import (
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"estatify/server/internal/models"
)

// A hull needs at least three distinct points
const minHullPoints = 3

// CityAreas outlines the market area of every city as the convex hull of its
// listing locations. Cities with fewer than three distinct locations are
// left out. Features are ordered by city name.
func CityAreas(listings []models.Listing) *geojson.FeatureCollection {
	pointsByCity := make(map[string][]orb.Point)
	pricesByCity := make(map[string][]float64)
	for i := range listings {
		l := &listings[i]
		pointsByCity[l.City] = append(pointsByCity[l.City], ListingPoint(l))
		if l.PricePerSqm != nil {
			pricesByCity[l.City] = append(pricesByCity[l.City], *l.PricePerSqm)
		}
	}

	cities := make([]string, 0, len(pointsByCity))
	for city := range pointsByCity {
		cities = append(cities, city)
	}
	sort.Strings(cities)

	fc := geojson.NewFeatureCollection()
	for _, city := range cities {
		points := pointsByCity[city]
		hull := convexHull(points)
		if hull == nil {
			continue
		}

		feature := geojson.NewFeature(orb.Polygon{hull})
		feature.Properties = geojson.Properties{
			"city":          city,
			"listing_count": len(points),
			"hull_type":     "convex",
		}
		if prices := pricesByCity[city]; len(prices) > 0 {
			var sum float64
			for _, p := range prices {
				sum += p
			}
			feature.Properties["avg_price_per_sqm"] = sum / float64(len(prices))
		}
		fc.Append(feature)
	}
	return fc
}

func cross(o, a, b orb.Point) float64 {
	return (a[0]-o[0])*(b[1]-o[1]) - (a[1]-o[1])*(b[0]-o[0])
}

// convexHull returns the closed counter-clockwise hull of the points, or nil
// when the points do not span an area.
func convexHull(points []orb.Point) orb.Ring {
	sorted := make([]orb.Point, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i][0] != sorted[j][0] {
			return sorted[i][0] < sorted[j][0]
		}
		return sorted[i][1] < sorted[j][1]
	})

	// Drop duplicate locations
	unique := sorted[:0]
	for _, p := range sorted {
		if len(unique) == 0 || !p.Equal(unique[len(unique)-1]) {
			unique = append(unique, p)
		}
	}
	if len(unique) < minHullPoints {
		return nil
	}

	// Monotone chain: lower hull left to right, upper hull right to left
	hull := make([]orb.Point, 0, 2*len(unique))
	for _, p := range unique {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(unique) - 2; i >= 0; i-- {
		p := unique[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}

	// Collinear points leave a degenerate ring
	if len(hull) < minHullPoints+1 {
		return nil
	}
	return orb.Ring(hull)
}
