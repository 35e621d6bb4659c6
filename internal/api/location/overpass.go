package location

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/trip-planner-aggregator/internal/api"
	"github.com/FACorreiaa/trip-planner-aggregator/internal/types"
)

const (
	nearbyRadiusMeters = 50000
	maxNearbySpots     = 40
)

var overpassSelectors = []string{
	`["tourism"~"attraction|museum|viewpoint|zoo|theme_park"]["name"]`,
	`["historic"~"monument|memorial|castle|fort|ruins"]["name"]`,
	`["amenity"="place_of_worship"]["name"]`,
}

type overpassResponse struct {
	Elements []struct {
		Lat    float64           `json:"lat"`
		Lon    float64           `json:"lon"`
		Center *struct {
			Lat float64 `json:"lat"`
			Lon float64 `json:"lon"`
		} `json:"center"`
		Tags map[string]string `json:"tags"`
	} `json:"elements"`
}

// NearbyTouristSpots returns up to 40 uniquely named OSM attractions within
// 50 km of the point.
func (s *ServiceImpl) NearbyTouristSpots(ctx context.Context, lat, lon float64) ([]types.NearbySpot, error) {
	ctx, span := otel.Tracer("LocationService").Start(ctx, "NearbyTouristSpots", trace.WithAttributes(
		attribute.Float64("lat", lat),
		attribute.Float64("lon", lon),
	))
	defer span.End()

	var resp overpassResponse
	rawURL := s.overpassURL + "?" + url.Values{"data": {buildOverpassQuery(lat, lon)}}.Encode()
	if err := api.GetJSON(ctx, s.httpClient, s.overpassTTL, rawURL, http.Header{}, &resp); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "overpass request failed")
		return nil, fmt.Errorf("overpass: %w", err)
	}

	seen := make(map[string]struct{})
	spots := make([]types.NearbySpot, 0, maxNearbySpots)
	for _, el := range resp.Elements {
		name := el.Tags["name"]
		if len(name) <= 3 {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		spotLat, spotLon := el.Lat, el.Lon
		if spotLat == 0 && spotLon == 0 && el.Center != nil {
			spotLat, spotLon = el.Center.Lat, el.Center.Lon
		}
		if spotLat == 0 || spotLon == 0 {
			continue
		}
		seen[name] = struct{}{}
		spots = append(spots, types.NearbySpot{
			Name:     name,
			Category: categoryFromTags(el.Tags),
			Lat:      spotLat,
			Lon:      spotLon,
		})
		if len(spots) == maxNearbySpots {
			break
		}
	}

	span.SetAttributes(attribute.Int("results.count", len(spots)))
	span.SetStatus(codes.Ok, "nearby spots fetched")
	return spots, nil
}

func buildOverpassQuery(lat, lon float64) string {
	var b strings.Builder
	b.WriteString("[out:json][timeout:25];(")
	around := fmt.Sprintf("(around:%d,%f,%f);", nearbyRadiusMeters, lat, lon)
	for _, sel := range overpassSelectors {
		for _, kind := range []string{"node", "way", "relation"} {
			b.WriteString(kind)
			b.WriteString(sel)
			b.WriteString(around)
		}
	}
	b.WriteString(");out center;")
	return b.String()
}

func categoryFromTags(tags map[string]string) string {
	switch {
	case tags["tourism"] == "museum":
		return "Museum"
	case tags["tourism"] == "viewpoint":
		return "Viewpoint"
	case tags["historic"] != "":
		return "Heritage"
	case tags["religion"] != "" || tags["amenity"] == "place_of_worship":
		return "Temple"
	case tags["leisure"] == "park" || tags["leisure"] == "garden":
		return "Nature"
	default:
		return "Attraction"
	}
}
