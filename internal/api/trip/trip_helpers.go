package trip

import (
	"slices"
	"strconv"
	"strings"

	"github.com/FACorreiaa/trip-planner-aggregator/internal/types"
)

// cacheKey is lower(destination)-days-sorted,preferences. The caller's slice is
// not reordered.
func cacheKey(destination string, days int, preferences []string) string {
	prefs := slices.Clone(preferences)
	slices.Sort(prefs)
	return strings.ToLower(destination) + "-" + strconv.Itoa(days) + "-" + strings.Join(prefs, ",")
}

// dedupeSpots keeps the first spot for each trimmed, lowercased name.
func dedupeSpots(spots []types.DiscoveredSpot) []types.DiscoveredSpot {
	seen := make(map[string]struct{}, len(spots))
	out := make([]types.DiscoveredSpot, 0, len(spots))
	for _, s := range spots {
		key := strings.ToLower(strings.TrimSpace(s.Name))
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}

// spotsToPlaces falls back to the destination's coordinates for spots the
// provider did not locate.
func spotsToPlaces(spots []types.DiscoveredSpot, destination types.Coordinates) []types.Place {
	places := make([]types.Place, len(spots))
	for i, s := range spots {
		lat, lon := destination.Latitude, destination.Longitude
		if s.Lat != nil && s.Lon != nil {
			lat, lon = *s.Lat, *s.Lon
		}
		places[i] = types.Place{
			Name:         s.Name,
			Category:     s.Category,
			DurationHint: types.DefaultDurationHint,
			Latitude:     &lat,
			Longitude:    &lon,
			Rating:       s.Rating,
		}
	}
	return places
}

// bucketDays slices places into contiguous chunks of ceil(len/days), at least
// one per day. Empty days are omitted.
func bucketDays(places []types.Place, days int) []types.Day {
	if days < 1 {
		days = 1
	}
	perDay := (len(places) + days - 1) / days
	if perDay < 1 {
		perDay = 1
	}

	itinerary := make([]types.Day, 0, days)
	for day := 1; day <= days; day++ {
		start := (day - 1) * perDay
		if start >= len(places) {
			break
		}
		end := min(start+perDay, len(places))
		itinerary = append(itinerary, types.Day{DayNumber: day, Places: places[start:end:end]})
	}
	return itinerary
}

// routePoints returns [lon, lat] pairs for places with both coordinates, in
// order.
func routePoints(places []types.Place) [][2]float64 {
	points := make([][2]float64, 0, len(places))
	for _, p := range places {
		if p.HasCoordinates() {
			points = append(points, [2]float64{*p.Longitude, *p.Latitude})
		}
	}
	return points
}
