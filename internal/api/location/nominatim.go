package location

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/trip-planner-aggregator/internal/api"
	"github.com/FACorreiaa/trip-planner-aggregator/internal/types"
)

type nominatimResult struct {
	PlaceID     int64  `json:"place_id"`
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	Type        string `json:"type"`
	Address     *struct {
		City    string `json:"city"`
		Town    string `json:"town"`
		Village string `json:"village"`
		State   string `json:"state"`
	} `json:"address"`
}

// GetCoordinates geocodes placeName, scoped to India.
func (s *ServiceImpl) GetCoordinates(ctx context.Context, placeName string) (*types.Coordinates, error) {
	ctx, span := otel.Tracer("LocationService").Start(ctx, "GetCoordinates", trace.WithAttributes(
		attribute.String("place.name", placeName),
	))
	defer span.End()

	params := url.Values{}
	params.Set("q", placeName+", India")
	params.Set("format", "json")
	params.Set("limit", "1")

	var results []nominatimResult
	if err := s.search(ctx, params, &results); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "geocoding failed")
		return nil, fmt.Errorf("geocode %q: %w", placeName, err)
	}
	if len(results) == 0 {
		span.SetStatus(codes.Error, "no results")
		return nil, fmt.Errorf("geocode %q: %w", placeName, ErrNoResults)
	}

	lat, errLat := strconv.ParseFloat(results[0].Lat, 64)
	lon, errLon := strconv.ParseFloat(results[0].Lon, 64)
	if errLat != nil || errLon != nil {
		err := fmt.Errorf("geocode %q: bad coordinates %q,%q", placeName, results[0].Lat, results[0].Lon)
		span.RecordError(err)
		span.SetStatus(codes.Error, "bad coordinates")
		return nil, err
	}

	s.logger.DebugContext(ctx, "Resolved coordinates",
		slog.String("place", placeName), slog.Float64("lat", lat), slog.Float64("lon", lon))
	span.SetStatus(codes.Ok, "coordinates resolved")
	return &types.Coordinates{Latitude: lat, Longitude: lon}, nil
}

// SearchLocations returns up to eight Indian destinations matching query.
func (s *ServiceImpl) SearchLocations(ctx context.Context, query string) ([]types.DestinationCandidate, error) {
	ctx, span := otel.Tracer("LocationService").Start(ctx, "SearchLocations", trace.WithAttributes(
		attribute.String("query", query),
	))
	defer span.End()

	params := url.Values{}
	params.Set("q", query+", India")
	params.Set("format", "json")
	params.Set("addressdetails", "1")
	params.Set("limit", "8")
	params.Set("countrycodes", "in")

	var results []nominatimResult
	if err := s.search(ctx, params, &results); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "search failed")
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	candidates := make([]types.DestinationCandidate, 0, len(results))
	for _, r := range results {
		lat, errLat := strconv.ParseFloat(r.Lat, 64)
		lon, errLon := strconv.ParseFloat(r.Lon, 64)
		if errLat != nil || errLon != nil {
			continue
		}
		c := types.DestinationCandidate{
			Name:      extractCityName(r),
			FullName:  r.DisplayName,
			Latitude:  lat,
			Longitude: lon,
			Type:      r.Type,
		}
		if r.Address != nil {
			c.State = r.Address.State
		}
		candidates = append(candidates, c)
	}
	span.SetAttributes(attribute.Int("results.count", len(candidates)))
	span.SetStatus(codes.Ok, "search completed")
	return candidates, nil
}

func (s *ServiceImpl) search(ctx context.Context, params url.Values, out any) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}
	header := http.Header{}
	if s.userAgent != "" {
		header.Set("User-Agent", s.userAgent)
	}
	return api.GetJSON(ctx, s.httpClient, s.timeout, s.nominatimURL+"/search?"+params.Encode(), header, out)
}

func extractCityName(r nominatimResult) string {
	if r.Address != nil {
		switch {
		case r.Address.City != "":
			return r.Address.City
		case r.Address.Town != "":
			return r.Address.Town
		case r.Address.Village != "":
			return r.Address.Village
		}
	}
	name, _, _ := strings.Cut(r.DisplayName, ",")
	return strings.TrimSpace(name)
}
