package discovery

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	generativeAI "github.com/FACorreiaa/trip-planner-aggregator/internal/api/generative_ai"
	"github.com/FACorreiaa/trip-planner-aggregator/internal/types"
)

// Geocoder is the slice of location.Service this package needs.
type Geocoder interface {
	GetCoordinates(ctx context.Context, placeName string) (*types.Coordinates, error)
}

const geocodeConcurrency = 4

// GeocodedAIDiscovery asks an LLM for place names only, then geocodes each
// one. Places that fail to geocode are dropped.
type GeocodedAIDiscovery struct {
	logger    *slog.Logger
	generator generativeAI.TextGenerator
	geocoder  Geocoder
}

var _ Provider = (*GeocodedAIDiscovery)(nil)

func NewGeocodedAIDiscovery(logger *slog.Logger, generator generativeAI.TextGenerator, geocoder Geocoder) *GeocodedAIDiscovery {
	return &GeocodedAIDiscovery{logger: logger, generator: generator, geocoder: geocoder}
}

func (d *GeocodedAIDiscovery) Name() string { return "geocoded_ai_discovery" }

func (d *GeocodedAIDiscovery) Discover(ctx context.Context, destination string, _ []string) ([]types.DiscoveredSpot, error) {
	text, err := d.generator.GenerateText(ctx, getGeocodedDiscoveryPrompt(destination), generativeAI.GenerateOptions{
		SystemPrompt: geocodedSystemPrompt,
	})
	if err != nil {
		return nil, fmt.Errorf("geocoded discovery: %w", err)
	}
	parsed, err := parseSpots(text)
	if err != nil {
		return nil, fmt.Errorf("geocoded discovery: %w", err)
	}
	candidates := toDiscovered(parsed)

	resolved := make([]*types.DiscoveredSpot, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(geocodeConcurrency)
	for i := range candidates {
		i := i // per-iteration copy for goroutine (pre-Go 1.22 loop semantics)
		spot := candidates[i]
		g.Go(func() error {
			coords, err := d.geocoder.GetCoordinates(gctx, spot.Name+", "+destination)
			if err != nil || coords == nil {
				d.logger.DebugContext(gctx, "Dropping place that failed to geocode",
					slog.String("place", spot.Name), slog.Any("error", err))
				return nil
			}
			lat, lon := coords.Latitude, coords.Longitude
			spot.Lat, spot.Lon = &lat, &lon
			resolved[i] = &spot
			return nil
		})
	}
	_ = g.Wait()

	out := make([]types.DiscoveredSpot, 0, len(resolved))
	for _, s := range resolved {
		if s != nil {
			out = append(out, *s)
		}
	}
	d.logger.InfoContext(ctx, "Geocoded discovery resolved places",
		slog.String("destination", destination),
		slog.Int("proposed", len(candidates)),
		slog.Int("resolved", len(out)))
	return out, nil
}
