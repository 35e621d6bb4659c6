package types

// DestinationCandidate is a single hit from the destination search.
type DestinationCandidate struct {
	Name      string  `json:"name"`
	FullName  string  `json:"fullName"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	State     string  `json:"state,omitempty"`
	Type      string  `json:"type"`
}

// NearbySpot is a named OSM feature found around a coordinate.
type NearbySpot struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
}

// EncyclopediaEntry is the summary of an encyclopedia page.
type EncyclopediaEntry struct {
	Title    string `json:"title"`
	Extract  string `json:"extract"`
	ImageURL string `json:"imageUrl,omitempty"`
	PageURL  string `json:"pageUrl"`
}

// PlaceInfo is the detail bundle returned by the place-info endpoint.
type PlaceInfo struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	ImageURL    *string `json:"imageUrl"`
	PageURL     *string `json:"pageUrl"`
	Source      *string `json:"source"`
}

type PopularDestination struct {
	Name        string `json:"name"`
	State       string `json:"state"`
	Days        int    `json:"days"`
	Spots       int    `json:"spots"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
}
