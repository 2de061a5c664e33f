package sources

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"estatify/server/config"
	"estatify/server/internal/models"
)

var streetNames = []string{
	"Hauptstraße", "Bahnhofstraße", "Gartenstraße", "Schulstraße",
	"Kirchstraße", "Marktplatz", "Berliner Straße", "Mühlenweg",
	"Alte Gasse", "Neuer Weg", "Lindenallee", "Rosenweg",
}

var mockConditions = []models.Condition{
	models.ConditionExcellent,
	models.ConditionGood,
	models.ConditionFair,
}

// Coordinates are spread over ±coordinateJitter degrees around the city centre
const coordinateJitter = 0.05

// intRange is the half-open range [min, min+spread)
type intRange struct {
	min    int
	spread int
}

func (r intRange) draw(rng *rand.Rand) int {
	return r.min + rng.Intn(r.spread)
}

// profile describes the listings a mock feed produces
type profile struct {
	name        string
	label       string
	idPrefix    string
	count       intRange
	size        intRange
	pricePerSqm intRange
	roomDivisor int
	houseShare  float64
	yearBuilt   intRange
	houseNumber intRange
	title       func(rooms int, city string) string
	description func(rooms, size int, city string) string
}

var immoscoutProfile = profile{
	name:        "immoscout",
	label:       "Immoscout24",
	idPrefix:    "IS24-",
	count:       intRange{3, 5},
	size:        intRange{40, 100},
	pricePerSqm: intRange{2500, 3000},
	roomDivisor: 25,
	houseShare:  0.3,
	yearBuilt:   intRange{1970, 50},
	houseNumber: intRange{1, 100},
	title: func(rooms int, city string) string {
		return fmt.Sprintf("%d-Zimmer Wohnung in %s", rooms, city)
	},
	description: func(rooms, size int, city string) string {
		return fmt.Sprintf("Schöne %d-Zimmer Wohnung in %s mit %dm² Wohnfläche.", rooms, city, size)
	},
}

var immonetProfile = profile{
	name:        "immonet",
	label:       "Immonet",
	idPrefix:    "IN-",
	count:       intRange{2, 4},
	size:        intRange{50, 120},
	pricePerSqm: intRange{3000, 2500},
	roomDivisor: 30,
	houseShare:  0.4,
	yearBuilt:   intRange{1980, 40},
	houseNumber: intRange{1, 150},
	title: func(rooms int, city string) string {
		return fmt.Sprintf("Attraktive Eigentumswohnung - %d Zimmer", rooms)
	},
	description: func(rooms, size int, city string) string {
		return fmt.Sprintf("Moderne Immobilie in gefragter Lage von %s.", city)
	},
}

// MockFeed generates plausible raw listings for a city. It stands in for a
// real listing portal and never performs network calls.
type MockFeed struct {
	profile profile

	mu  sync.Mutex
	rng *rand.Rand
}

// NewImmoscoutFeed returns the Immoscout24 mock feed. A nil rng seeds one
// from the clock.
func NewImmoscoutFeed(rng *rand.Rand) *MockFeed {
	return newMockFeed(immoscoutProfile, rng)
}

// NewImmonetFeed returns the Immonet mock feed. A nil rng seeds one from the
// clock.
func NewImmonetFeed(rng *rand.Rand) *MockFeed {
	return newMockFeed(immonetProfile, rng)
}

func newMockFeed(p profile, rng *rand.Rand) *MockFeed {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &MockFeed{profile: p, rng: rng}
}

func (f *MockFeed) Name() string {
	return f.profile.name
}

// Fetch returns raw listings without derived metrics
func (f *MockFeed) Fetch(ctx context.Context, city string) ([]models.Listing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	city = canonicalCity(city)
	center := config.CenterOf(city)

	f.mu.Lock()
	defer f.mu.Unlock()

	p := f.profile
	count := p.count.draw(f.rng)
	listings := make([]models.Listing, 0, count)

	for i := 0; i < count; i++ {
		size := p.size.draw(f.rng)
		pricePerSqm := p.pricePerSqm.draw(f.rng)
		rooms := size/p.roomDivisor + 1
		yearBuilt := p.yearBuilt.draw(f.rng)

		propertyType := models.PropertyTypeApartment
		if f.rng.Float64() < p.houseShare {
			propertyType = models.PropertyTypeHouse
		}

		id, err := uuid.NewRandomFromReader(f.rng)
		if err != nil {
			return nil, fmt.Errorf("failed to generate external id: %w", err)
		}
		externalID := p.idPrefix + strings.ReplaceAll(id.String(), "-", "")[:9]

		listings = append(listings, models.Listing{
			Title:        p.title(rooms, city),
			Address:      fmt.Sprintf("%s %d", streetNames[f.rng.Intn(len(streetNames))], p.houseNumber.draw(f.rng)),
			City:         city,
			PostalCode:   fmt.Sprintf("%d", 10000+f.rng.Intn(90000)),
			Latitude:     center.Lat() + (f.rng.Float64()*2-1)*coordinateJitter,
			Longitude:    center.Lon() + (f.rng.Float64()*2-1)*coordinateJitter,
			Price:        float64(size * pricePerSqm),
			Size:         float64(size),
			Rooms:        &rooms,
			PropertyType: propertyType,
			YearBuilt:    &yearBuilt,
			Condition:    mockConditions[f.rng.Intn(len(mockConditions))],
			ImageURL:     fmt.Sprintf("https://picsum.photos/seed/%s/800/600", externalID),
			Description:  p.description(rooms, size, city),
			Source:       p.label,
			ExternalID:   externalID,
		})
	}

	return listings, nil
}

// canonicalCity maps known cities to their catalogue spelling and defaults
// an empty name to the default city.
func canonicalCity(city string) string {
	city = strings.TrimSpace(city)
	if city == "" {
		return config.DefaultCity
	}
	if c, ok := config.GetCityByName(city); ok {
		return c.Name
	}
	return city
}
