// Package provider implements the map providers: a deterministic synthetic
// engine, identity-rewriting aliases, and the registry that holds them.
package provider

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/couchcryptid/maps-api-service/internal/domain"
)

// Engine produces repeatable synthetic geocoding results without any I/O.
// The same input always yields the same output.
type Engine struct{}

// NewEngine creates the canonical mock provider.
func NewEngine() *Engine {
	return &Engine{}
}

func (e *Engine) ID() domain.ProviderID { return domain.ProviderMock }

// Geocode places every address in a small box around southern California and
// fills missing address segments from fixed tables.
func (e *Engine) Geocode(_ context.Context, address string) (domain.GeocodingResult, error) {
	if address == "" {
		return domain.GeocodingResult{}, domain.InvalidInput("Address is required")
	}

	h := addressHash(address)
	coord := domain.Coordinate{
		Latitude:  34 + float64(h%10)/10,
		Longitude: -118 - float64(h%15)/10,
	}

	parts := strings.Split(address, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	street := segment(parts, 0, streetNames[h%int64(len(streetNames))]+" St")
	city := segment(parts, 1, cityNames[h%int64(len(cityNames))])
	state := segment(parts, 2, stateCodes[h%int64(len(stateCodes))])

	streetNumber := strconv.FormatInt(h%1000, 10)
	postal := strconv.FormatInt(10000+h%90000, 10)

	return domain.GeocodingResult{
		Coordinates: coord,
		Address:     buildAddress(streetNumber, street, city, state, postal),
		ProviderID:  domain.ProviderMock,
	}, nil
}

// ReverseGeocode derives an address from the coordinate magnitudes and echoes
// the input coordinate.
func (e *Engine) ReverseGeocode(_ context.Context, c domain.Coordinate) (domain.ReverseGeocodingResult, error) {
	if err := domain.ValidateCoordinate(c); err != nil {
		return domain.ReverseGeocodingResult{}, err
	}

	lat, lng := c.Latitude, c.Longitude
	street := streetNames[floorIndex(lng*10, len(streetNames))] + " St"
	city := cityNames[floorIndex(lat*lng*100, len(cityNames))]
	state := stateCodes[floorIndex(lat*10, len(stateCodes))]

	streetNumber := strconv.FormatInt(int64(math.Floor(math.Abs(lat)*100)), 10)
	postal := strconv.FormatInt(int64(math.Floor(10000+math.Abs(lng)*10000)), 10)

	return domain.ReverseGeocodingResult{
		Coordinates: c,
		Address:     buildAddress(streetNumber, street, city, state, postal),
		ProviderID:  domain.ProviderMock,
	}, nil
}

// CalculateDistance returns the haversine distance rounded to the meter and a
// duration that scales linearly with it.
func (e *Engine) CalculateDistance(_ context.Context, origin, destination domain.Coordinate) (domain.DistanceResult, error) {
	if err := domain.ValidateCoordinate(origin); err != nil {
		return domain.DistanceResult{}, err
	}
	if err := domain.ValidateCoordinate(destination); err != nil {
		return domain.DistanceResult{}, err
	}

	d := haversineMeters(origin, destination)
	return domain.DistanceResult{
		Distance:    domain.Measure{Value: math.Round(d), Unit: domain.UnitMeters},
		Duration:    domain.Measure{Value: math.Round(d * secondsPerMeter), Unit: domain.UnitSeconds},
		Origin:      origin,
		Destination: destination,
		ProviderID:  domain.ProviderMock,
	}, nil
}

// segment returns parts[i] unless it is absent or blank.
func segment(parts []string, i int, fallback string) string {
	if i < len(parts) && parts[i] != "" {
		return parts[i]
	}
	return fallback
}

// floorIndex maps floor(|v|) onto a table of length n.
func floorIndex(v float64, n int) int {
	return int(int64(math.Floor(math.Abs(v))) % int64(n))
}

func buildAddress(number, street, city, state, postal string) domain.AddressComponents {
	return domain.AddressComponents{
		StreetNumber:     number,
		Street:           street,
		City:             city,
		State:            state,
		Country:          country,
		PostalCode:       postal,
		FormattedAddress: fmt.Sprintf("%s %s, %s, %s %s, USA", number, street, city, state, postal),
	}
}
