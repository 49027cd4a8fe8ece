// Package fixture records lookup results to JSON files and checks a service
// against them. Because every provider is deterministic, a fixture generated
// once must reproduce exactly.
package fixture

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/go-cmp/cmp"

	"github.com/couchcryptid/maps-api-service/internal/domain"
)

// Service is the lookup surface fixtures are generated from and verified against.
type Service interface {
	Geocode(ctx context.Context, address, provider string) (domain.GeocodingResult, error)
	ReverseGeocode(ctx context.Context, in domain.CoordinateInput, provider string) (domain.ReverseGeocodingResult, error)
	CalculateDistance(ctx context.Context, origin, destination *domain.CoordinateInput, provider string) (domain.DistanceResult, error)
}

// Fixture is a set of recorded lookups.
type Fixture struct {
	Geocode        []GeocodeCase  `json:"geocode"`
	ReverseGeocode []ReverseCase  `json:"reverse_geocode"`
	Distance       []DistanceCase `json:"distance"`
}

type GeocodeCase struct {
	Provider string                 `json:"provider"`
	Address  string                 `json:"address"`
	Result   domain.GeocodingResult `json:"result"`
}

type ReverseCase struct {
	Provider   string                        `json:"provider"`
	Coordinate domain.Coordinate             `json:"coordinate"`
	Result     domain.ReverseGeocodingResult `json:"result"`
}

type DistanceCase struct {
	Provider    string                `json:"provider"`
	Origin      domain.Coordinate     `json:"origin"`
	Destination domain.Coordinate     `json:"destination"`
	Result      domain.DistanceResult `json:"result"`
}

// Mismatch describes one case whose recomputed result differs from the record.
type Mismatch struct {
	Operation domain.Operation
	Index     int
	Provider  string
	Diff      string
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s[%d] provider=%s:\n%s", m.Operation, m.Index, m.Provider, m.Diff)
}

// DefaultAddresses are the sample inputs used when none are supplied.
var DefaultAddresses = []string{
	"123 Main St",
	"1600 Amphitheatre Pkwy, Mountain View",
	"123 Main Street, San Francisco, CA",
	", , ",
	"Rue de Rivoli, Paris",
}

// DefaultPoints are the sample coordinates used when none are supplied.
var DefaultPoints = []domain.Coordinate{
	{Latitude: 37.7749, Longitude: -122.4194},
	{Latitude: 34.0522, Longitude: -118.2437},
	{Latitude: 40.7128, Longitude: -74.006},
	{Latitude: 51.5074, Longitude: -0.1278},
	{Latitude: -33.8688, Longitude: 151.2093},
	{Latitude: 0, Longitude: 0},
}

// Len is the number of recorded cases.
func (f *Fixture) Len() int {
	return len(f.Geocode) + len(f.ReverseGeocode) + len(f.Distance)
}

// Generate runs every address and point through each provider. Distances are
// taken between consecutive points.
func Generate(ctx context.Context, svc Service, providers []string, addresses []string, points []domain.Coordinate) (*Fixture, error) {
	f := &Fixture{}
	for _, p := range providers {
		for _, addr := range addresses {
			res, err := svc.Geocode(ctx, addr, p)
			if err != nil {
				return nil, fmt.Errorf("generate geocode %q via %s: %w", addr, p, err)
			}
			f.Geocode = append(f.Geocode, GeocodeCase{Provider: p, Address: addr, Result: res})
		}
		for _, c := range points {
			res, err := svc.ReverseGeocode(ctx, toInput(c), p)
			if err != nil {
				return nil, fmt.Errorf("generate reverse geocode %v via %s: %w", c, p, err)
			}
			f.ReverseGeocode = append(f.ReverseGeocode, ReverseCase{Provider: p, Coordinate: c, Result: res})
		}
		for i := 0; i+1 < len(points); i++ {
			o, d := toInput(points[i]), toInput(points[i+1])
			res, err := svc.CalculateDistance(ctx, &o, &d, p)
			if err != nil {
				return nil, fmt.Errorf("generate distance %d via %s: %w", i, p, err)
			}
			f.Distance = append(f.Distance, DistanceCase{
				Provider: p, Origin: points[i], Destination: points[i+1], Result: res,
			})
		}
	}
	return f, nil
}

// Verify recomputes every case. progress, if non-nil, is called once per case.
func Verify(ctx context.Context, svc Service, f *Fixture, progress func()) []Mismatch {
	var out []Mismatch
	step := func() {
		if progress != nil {
			progress()
		}
	}

	for i, tc := range f.Geocode {
		got, err := svc.Geocode(ctx, tc.Address, tc.Provider)
		if m, bad := compare(domain.OpGeocode, i, tc.Provider, tc.Result, got, err); bad {
			out = append(out, m)
		}
		step()
	}
	for i, tc := range f.ReverseGeocode {
		got, err := svc.ReverseGeocode(ctx, toInput(tc.Coordinate), tc.Provider)
		if m, bad := compare(domain.OpReverseGeocode, i, tc.Provider, tc.Result, got, err); bad {
			out = append(out, m)
		}
		step()
	}
	for i, tc := range f.Distance {
		o, d := toInput(tc.Origin), toInput(tc.Destination)
		got, err := svc.CalculateDistance(ctx, &o, &d, tc.Provider)
		if m, bad := compare(domain.OpDistance, i, tc.Provider, tc.Result, got, err); bad {
			out = append(out, m)
		}
		step()
	}
	return out
}

func compare[T any](op domain.Operation, i int, provider string, want, got T, err error) (Mismatch, bool) {
	m := Mismatch{Operation: op, Index: i, Provider: provider}
	if err != nil {
		m.Diff = "error: " + err.Error()
		return m, true
	}
	if diff := cmp.Diff(want, got); diff != "" {
		m.Diff = diff
		return m, true
	}
	return m, false
}

func toInput(c domain.Coordinate) domain.CoordinateInput {
	return domain.NewCoordinateInput(c.Latitude, c.Longitude)
}

// Load reads a fixture from a JSON file.
func Load(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return &f, nil
}

// Write stores a fixture as indented JSON.
func Write(path string, f *Fixture) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal fixture: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write fixture %s: %w", path, err)
	}
	return nil
}
