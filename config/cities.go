package config

import (
	"regexp"
	"sort"
	"strings"

	"github.com/paulmach/orb"
)

// CityTier classifies a city for location scoring
type CityTier int

const (
	TierOther CityTier = iota
	TierSecondary
	TierMetro
)

func (t CityTier) String() string {
	switch t {
	case TierMetro:
		return "tier1"
	case TierSecondary:
		return "tier2"
	default:
		return "other"
	}
}

// City represents an entry of the city catalogue
type City struct {
	Name string `json:"name"`
	// Center is the city centre as (lng, lat)
	Center orb.Point `json:"center"`
	// RentPerSqm is the monthly rent in €/m² used to estimate rents
	RentPerSqm float64  `json:"rent_per_sqm"`
	Tier       CityTier `json:"tier"`
}

const (
	// DefaultRentPerSqm applies to cities missing from the catalogue
	DefaultRentPerSqm = 10.0

	// DefaultCity is used by the listing sources when no city is requested
	// and as coordinate fallback for unknown cities
	DefaultCity = "Berlin"
)

var cityCatalogue = []City{
	{Name: "Berlin", Center: orb.Point{13.404954, 52.520008}, RentPerSqm: 12, Tier: TierMetro},
	{Name: "München", Center: orb.Point{11.581981, 48.135125}, RentPerSqm: 18, Tier: TierMetro},
	{Name: "Hamburg", Center: orb.Point{9.993682, 53.551086}, RentPerSqm: 14, Tier: TierMetro},
	{Name: "Frankfurt", Center: orb.Point{8.682127, 50.110924}, RentPerSqm: 15, Tier: TierMetro},
	{Name: "Köln", Center: orb.Point{6.960279, 50.937531}, RentPerSqm: 11, Tier: TierMetro},
	{Name: "Stuttgart", Center: orb.Point{9.182932, 48.775846}, RentPerSqm: 13, Tier: TierSecondary},
	{Name: "Düsseldorf", Center: orb.Point{6.773456, 51.227741}, RentPerSqm: 12, Tier: TierSecondary},
	{Name: "Dortmund", Center: orb.Point{7.465298, 51.513587}, RentPerSqm: DefaultRentPerSqm, Tier: TierSecondary},
	{Name: "Leipzig", Center: orb.Point{12.373075, 51.339695}, RentPerSqm: 8, Tier: TierSecondary},
	{Name: "Dresden", Center: orb.Point{13.737262, 51.050407}, RentPerSqm: 9, Tier: TierSecondary},
}

var citiesByKey = func() map[string]City {
	m := make(map[string]City, len(cityCatalogue))
	for _, c := range cityCatalogue {
		m[strings.ToLower(c.Name)] = c
	}
	return m
}()

// GetCityByName returns the catalogue entry for a city, matching case-insensitively
func GetCityByName(name string) (City, bool) {
	c, ok := citiesByKey[strings.ToLower(strings.TrimSpace(name))]
	return c, ok
}

// GetCityNames returns the catalogue city names sorted alphabetically
func GetCityNames() []string {
	names := make([]string, len(cityCatalogue))
	for i, city := range cityCatalogue {
		names[i] = city.Name
	}
	sort.Strings(names)
	return names
}

// RentPerSqm returns the rent rate for a city, or DefaultRentPerSqm
func RentPerSqm(city string) float64 {
	if c, ok := GetCityByName(city); ok {
		return c.RentPerSqm
	}
	return DefaultRentPerSqm
}

// TierOf returns the location tier of a city; unknown cities are TierOther
func TierOf(city string) CityTier {
	if c, ok := GetCityByName(city); ok {
		return c.Tier
	}
	return TierOther
}

// CenterOf returns the centre of a city, falling back to DefaultCity
func CenterOf(city string) orb.Point {
	if c, ok := GetCityByName(city); ok {
		return c.Center
	}
	c, _ := GetCityByName(DefaultCity)
	return c.Center
}

var nonSlug = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// NormalizeCity turns a city name into a lowercase, hyphen separated slug
func NormalizeCity(city string) string {
	slug := nonSlug.ReplaceAllString(strings.ToLower(city), "-")
	return strings.Trim(slug, "-")
}
