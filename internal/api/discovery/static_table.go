package discovery

import (
	"context"
	"strings"

	"github.com/FACorreiaa/trip-planner-aggregator/internal/types"
)

type curatedPlace struct {
	name        string
	category    string
	description string
	lat, lon    float64
	rating      float64
}

// StaticTable serves hand-curated places for a few well-known destinations.
type StaticTable struct {
	entries map[string][]curatedPlace
}

var _ Provider = (*StaticTable)(nil)

func NewStaticTable() *StaticTable {
	return &StaticTable{entries: curatedPlaces}
}

func (s *StaticTable) Name() string { return "static_table" }

// Discover looks the destination up by its lowercase name. Preferences are
// ignored.
func (s *StaticTable) Discover(_ context.Context, destination string, _ []string) ([]types.DiscoveredSpot, error) {
	places := s.entries[strings.ToLower(strings.TrimSpace(destination))]
	out := make([]types.DiscoveredSpot, 0, len(places))
	for _, p := range places {
		lat, lon := p.lat, p.lon
		out = append(out, types.DiscoveredSpot{
			Name:        p.name,
			Category:    p.category,
			Description: p.description,
			Lat:         &lat,
			Lon:         &lon,
			Rating:      p.rating,
		})
	}
	return out, nil
}

var curatedPlaces = map[string][]curatedPlace{
	"jaipur": {
		{"Hawa Mahal", "Heritage", "The Palace of Winds", 26.9239, 75.8267, 4.5},
		{"Amber Fort", "Heritage", "Magnificent hilltop fort", 26.9855, 75.8513, 4.6},
		{"City Palace", "Heritage", "Royal palace complex", 26.9258, 75.8237, 4.4},
		{"Jantar Mantar", "Heritage", "Astronomical observatory", 26.9248, 75.8246, 4.3},
		{"Nahargarh Fort", "Heritage", "Scenic fort with city views", 26.9373, 75.8154, 4.4},
		{"Jal Mahal", "Attraction", "Water palace in Man Sagar Lake", 26.9533, 75.8463, 4.2},
	},
	"manali": {
		{"Hadimba Temple", "Temple", "Ancient temple in cedar forest", 32.2432, 77.1689, 4.5},
		{"Solang Valley", "Nature", "Adventure sports destination", 32.3150, 77.1575, 4.6},
		{"Rohtang Pass", "Nature", "High mountain pass", 32.3725, 77.2475, 4.7},
		{"Old Manali", "Attraction", "Charming village area", 32.2558, 77.1878, 4.4},
		{"Vashisht Hot Springs", "Attraction", "Natural thermal springs", 32.2638, 77.1783, 4.3},
	},
	"goa": {
		{"Baga Beach", "Nature", "Popular beach destination", 15.5553, 73.7514, 4.3},
		{"Basilica of Bom Jesus", "Heritage", "UNESCO World Heritage church", 15.5009, 73.9116, 4.6},
		{"Fort Aguada", "Heritage", "17th-century Portuguese fort", 15.4922, 73.7736, 4.4},
		{"Dudhsagar Falls", "Nature", "Spectacular waterfall", 15.3144, 74.3143, 4.7},
		{"Anjuna Beach", "Nature", "Famous for flea market", 15.5735, 73.7419, 4.2},
	},
	"udaipur": {
		{"City Palace", "Heritage", "Majestic palace complex", 24.5764, 73.6901, 4.6},
		{"Lake Pichola", "Nature", "Beautiful artificial lake", 24.5719, 73.6807, 4.5},
		{"Jag Mandir", "Heritage", "Island palace on Lake Pichola", 24.5676, 73.6830, 4.4},
		{"Fateh Sagar Lake", "Nature", "Scenic lake with islands", 24.6031, 73.6803, 4.3},
	},
	"kasol": {
		{"Kheerganga Trek", "Nature", "Beautiful mountain trek", 32.0292, 77.4917, 4.7},
		{"Manikaran Sahib", "Temple", "Sacred Sikh pilgrimage site", 32.0275, 77.3458, 4.6},
		{"Tosh Village", "Attraction", "Scenic hippie village", 32.0350, 77.4450, 4.5},
		{"Chalal Trek", "Nature", "Short nature trek", 32.0150, 77.3250, 4.4},
	},
	"chennai": {
		{"Marina Beach", "Nature", "Second longest urban beach in the world", 13.0475, 80.2824, 4.5},
		{"Kapaleeshwarar Temple", "Temple", "Ancient Shiva temple built in Dravidian style", 13.0334, 80.2705, 4.7},
		{"San Thome Basilica", "Heritage", "Historic minor basilica built over Saint Thomas tomb", 13.0315, 80.2785, 4.6},
		{"Fort St. George", "Heritage", "First English fortress in India, now a museum", 13.0792, 80.2868, 4.3},
		{"Guindy National Park", "Nature", "Protected area with diverse flora and fauna", 13.0067, 80.2206, 4.4},
		{"Government Museum", "Museum", "Second oldest museum in India", 13.0706, 80.2562, 4.5},
	},
}
