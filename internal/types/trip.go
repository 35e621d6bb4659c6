package types

import (
	"errors"
	"time"
)

var (
	// ErrDestinationNotFound is returned when the destination cannot be geocoded.
	// It is the only failure GenerateTrip surfaces to callers.
	ErrDestinationNotFound = errors.New("destination not found")

	// ErrShareNotFound is returned for unknown or expired share codes.
	ErrShareNotFound = errors.New("trip not found or expired")
)

// DefaultDurationHint is attached to every discovered place.
const DefaultDurationHint = "1-2 hours"

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Place is a single stop in the itinerary. Identity is the trimmed,
// case-insensitive name.
type Place struct {
	Name         string   `json:"placeName"`
	Category     string   `json:"category"`
	Description  string   `json:"description"`
	DurationHint string   `json:"duration"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	ImageURL     string   `json:"imageUrl,omitempty"`
	Rating       float64  `json:"rating,omitempty"`
	History      string   `json:"history,omitempty"`
}

// HasCoordinates reports whether both latitude and longitude are set.
func (p Place) HasCoordinates() bool {
	return p.Latitude != nil && p.Longitude != nil
}

type Day struct {
	DayNumber int     `json:"dayNumber"`
	Places    []Place `json:"places"`
}

type CityInfo struct {
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// RouteGeometry is the GeoJSON LineString returned by the routing engine.
type RouteGeometry struct {
	Type        string      `json:"type"`
	Coordinates [][]float64 `json:"coordinates"`
}

type Trip struct {
	Destination   string         `json:"destination"`
	Days          int            `json:"days"`
	CityInfo      CityInfo       `json:"cityInfo"`
	Itinerary     []Day          `json:"itinerary"`
	RouteGeometry *RouteGeometry `json:"routeGeometry"`
}

// DiscoveredSpot is what a discovery provider proposes before enrichment.
// Lat/Lon are nil when the provider has no per-place coordinates.
type DiscoveredSpot struct {
	Name        string
	Category    string
	Description string
	Lat         *float64
	Lon         *float64
	Rating      float64
}

// SharedTrip is a trip stored under a share code.
type SharedTrip struct {
	Code      string    `json:"code"`
	Trip      Trip      `json:"trip"`
	CreatedAt time.Time `json:"createdAt"`
}

type ShareTripRequest struct {
	Trip *Trip `json:"trip"`
}

type ShareTripResponse struct {
	Code      string `json:"code"`
	ExpiresIn string `json:"expiresIn"`
}

// PlanTripRequest is the validated input of the plan endpoint.
type PlanTripRequest struct {
	Destination string
	Days        int
	Preferences []string
}
