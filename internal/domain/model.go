package domain

// ProviderID identifies which map provider produced a result.
type ProviderID string

const (
	ProviderMock   ProviderID = "mock"
	ProviderGoogle ProviderID = "google"
	ProviderTomTom ProviderID = "tomtom"
)

// Coordinate is a WGS-84 latitude/longitude pair in decimal degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// AddressComponents is a structured postal address. FormattedAddress is always set.
type AddressComponents struct {
	StreetNumber     string `json:"streetNumber,omitempty"`
	Street           string `json:"street,omitempty"`
	City             string `json:"city,omitempty"`
	District         string `json:"district,omitempty"`
	State            string `json:"state,omitempty"`
	Country          string `json:"country,omitempty"`
	PostalCode       string `json:"postalCode,omitempty"`
	FormattedAddress string `json:"formattedAddress"`
}

// GeocodingResult is the outcome of resolving an address to a coordinate.
type GeocodingResult struct {
	Coordinates Coordinate        `json:"coordinates"`
	Address     AddressComponents `json:"address"`
	ProviderID  ProviderID        `json:"provider"`
}

// ReverseGeocodingResult is the outcome of resolving a coordinate to an address.
// Coordinates always echo the request.
type ReverseGeocodingResult struct {
	Coordinates Coordinate        `json:"coordinates"`
	Address     AddressComponents `json:"address"`
	ProviderID  ProviderID        `json:"provider"`
}

// Measure is a scalar value with its unit.
type Measure struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

const (
	UnitMeters  = "meters"
	UnitSeconds = "seconds"
)

// DistanceResult holds the great-circle distance and estimated travel time
// between two coordinates.
type DistanceResult struct {
	Distance    Measure    `json:"distance"`
	Duration    Measure    `json:"duration"`
	Origin      Coordinate `json:"origin"`
	Destination Coordinate `json:"destination"`
	ProviderID  ProviderID `json:"provider"`
}
