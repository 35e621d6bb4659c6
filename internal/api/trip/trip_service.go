package trip

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/FACorreiaa/trip-planner-aggregator/app/observability/metrics"
	"github.com/FACorreiaa/trip-planner-aggregator/internal/api/discovery"
	"github.com/FACorreiaa/trip-planner-aggregator/internal/api/location"
	"github.com/FACorreiaa/trip-planner-aggregator/internal/api/routing"
	"github.com/FACorreiaa/trip-planner-aggregator/internal/api/wikipedia"
	"github.com/FACorreiaa/trip-planner-aggregator/internal/types"
)

const (
	enrichConcurrency   = 8
	placeholderImageURL = "https://via.placeholder.com/400x300?text="
)

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	GenerateTrip(ctx context.Context, destination string, days int, preferences []string) (*types.Trip, error)
	SearchDestinations(ctx context.Context, query string) ([]types.DestinationCandidate, error)
	GetPlaceInfo(ctx context.Context, name, city string) (*types.PlaceInfo, error)
	GetPopularDestinations(ctx context.Context) ([]types.PopularDestination, error)
	NearbySpots(ctx context.Context, lat, lon float64) ([]types.NearbySpot, error)
	CreateShareCode(ctx context.Context, trip *types.Trip) (string, error)
	GetTripByShareCode(ctx context.Context, code string) (*types.Trip, error)
}

// ImageFinder searches stock photos and reports which provider answered.
type ImageFinder interface {
	Find(ctx context.Context, placeName, city string) (imageURL, source string, err error)
}

// ContextWriter writes a short historical blurb for a place.
type ContextWriter interface {
	GetLocationContext(ctx context.Context, locationName string) (string, error)
}

// Providers are the external collaborators. Discovery is tried in order; the
// first provider returning at least one place wins.
type Providers struct {
	Location     location.Service
	Discovery    []discovery.Provider
	Encyclopedia wikipedia.Service
	Images       ImageFinder
	Routing      routing.Service
	Context      ContextWriter
}

type ServiceImpl struct {
	logger    *slog.Logger
	providers Providers
	cache     *Cache
	shares    *ShareStore
	metrics   *metrics.AppMetrics
}

func NewServiceImpl(logger *slog.Logger, providers Providers, cache *Cache, shares *ShareStore, m *metrics.AppMetrics) *ServiceImpl {
	return &ServiceImpl{
		logger:    logger,
		providers: providers,
		cache:     cache,
		shares:    shares,
		metrics:   m,
	}
}

// GenerateTrip builds a day-by-day itinerary. Only an unresolvable destination
// is an error; every other provider failure degrades the result. Provider
// calls are not cancelled when the caller goes away so the result still lands
// in the cache.
func (s *ServiceImpl) GenerateTrip(ctx context.Context, destination string, days int, preferences []string) (*types.Trip, error) {
	ctx, span := otel.Tracer("TripService").Start(ctx, "GenerateTrip", trace.WithAttributes(
		attribute.String("destination", destination),
		attribute.Int("days", days),
		attribute.StringSlice("preferences", preferences),
	))
	defer span.End()

	l := s.logger.With(slog.String("destination", destination), slog.Int("days", days))

	key := cacheKey(destination, days, preferences)
	if cached, ok := s.cache.Get(key); ok {
		l.DebugContext(ctx, "Trip cache hit", slog.String("key", key))
		s.metrics.CacheHit(ctx)
		span.SetAttributes(attribute.Bool("cache.hit", true))
		span.SetStatus(codes.Ok, "served from cache")
		return cached, nil
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	ctx = context.WithoutCancel(ctx)
	start := time.Now()

	coords, err := s.providers.Location.GetCoordinates(ctx, destination)
	if err != nil || coords == nil {
		l.WarnContext(ctx, "Could not resolve destination", slog.Any("error", err))
		span.RecordError(types.ErrDestinationNotFound)
		span.SetStatus(codes.Error, "destination not found")
		return nil, fmt.Errorf("%w: %s", types.ErrDestinationNotFound, destination)
	}

	spots := s.discover(ctx, l, destination, preferences)
	places := spotsToPlaces(spots, *coords)
	span.SetAttributes(attribute.Int("places.count", len(places)))

	var cityInfo types.CityInfo
	g := new(errgroup.Group)
	g.Go(func() error {
		s.enrichPlaces(ctx, places, destination)
		return nil
	})
	g.Go(func() error {
		cityInfo = s.cityInfo(ctx, destination)
		return nil
	})
	_ = g.Wait()

	trip := &types.Trip{
		Destination:   destination,
		Days:          days,
		CityInfo:      cityInfo,
		Itinerary:     bucketDays(places, days),
		RouteGeometry: s.routeGeometry(ctx, l, places),
	}

	s.cache.Put(key, trip)
	elapsed := time.Since(start)
	s.metrics.TripGenerated(ctx, elapsed.Seconds())

	l.InfoContext(ctx, "Trip generated",
		slog.Int("places", len(places)),
		slog.Int("itinerary_days", len(trip.Itinerary)),
		slog.Bool("route", trip.RouteGeometry != nil),
		slog.Duration("elapsed", elapsed))
	span.SetStatus(codes.Ok, "trip generated")
	return trip, nil
}

// discover runs the discovery providers in order until one yields places.
// Zero places after every provider is not an error.
func (s *ServiceImpl) discover(ctx context.Context, l *slog.Logger, destination string, preferences []string) []types.DiscoveredSpot {
	for _, p := range s.providers.Discovery {
		spots, err := p.Discover(ctx, destination, preferences)
		if err != nil {
			l.WarnContext(ctx, "Discovery provider failed", slog.String("provider", p.Name()), slog.Any("error", err))
			s.metrics.ProviderFailed(ctx, p.Name())
			continue
		}
		unique := dedupeSpots(spots)
		if len(unique) > 0 {
			l.InfoContext(ctx, "Discovery provider succeeded",
				slog.String("provider", p.Name()),
				slog.Int("returned", len(spots)),
				slog.Int("unique", len(unique)))
			return unique
		}
		l.DebugContext(ctx, "Discovery provider returned nothing", slog.String("provider", p.Name()))
	}
	l.WarnContext(ctx, "No places found after every discovery provider")
	return nil
}

// enrichPlaces fills ImageURL in place. Order is untouched.
func (s *ServiceImpl) enrichPlaces(ctx context.Context, places []types.Place, destination string) {
	g := new(errgroup.Group)
	g.SetLimit(enrichConcurrency)
	for i := range places {
		i := i // per-iteration copy for goroutine (pre-Go 1.22 loop semantics)
		g.Go(func() error {
			places[i].ImageURL = s.placeImage(ctx, places[i].Name, destination)
			return nil
		})
	}
	_ = g.Wait()
}

func (s *ServiceImpl) placeImage(ctx context.Context, name, destination string) string {
	entry, err := s.providers.Encyclopedia.GetPlaceInfo(ctx, name, destination)
	if err == nil && entry != nil && entry.ImageURL != "" {
		return entry.ImageURL
	}
	if err != nil && !errors.Is(err, wikipedia.ErrPageNotFound) {
		s.metrics.ProviderFailed(ctx, "wikipedia")
	}

	imageURL, _, err := s.providers.Images.Find(ctx, name, destination)
	if err != nil {
		s.logger.DebugContext(ctx, "No image for place", slog.String("place", name))
		return ""
	}
	return imageURL
}

func (s *ServiceImpl) cityInfo(ctx context.Context, destination string) types.CityInfo {
	entry, err := s.providers.Encyclopedia.GetCityInfo(ctx, destination)
	if err != nil || entry == nil {
		s.logger.DebugContext(ctx, "City lookup failed, using template", slog.String("destination", destination), slog.Any("error", err))
		return types.CityInfo{Description: fmt.Sprintf("Explore %s, India.", destination)}
	}
	return types.CityInfo{Description: entry.Extract, ImageURL: entry.ImageURL}
}

func (s *ServiceImpl) routeGeometry(ctx context.Context, l *slog.Logger, places []types.Place) *types.RouteGeometry {
	points := routePoints(places)
	if len(points) < 2 {
		return nil
	}
	geometry, err := s.providers.Routing.GetRoute(ctx, points)
	if err != nil {
		l.WarnContext(ctx, "Route geometry unavailable", slog.Any("error", err))
		s.metrics.ProviderFailed(ctx, "routing")
		return nil
	}
	return geometry
}

func (s *ServiceImpl) SearchDestinations(ctx context.Context, query string) ([]types.DestinationCandidate, error) {
	ctx, span := otel.Tracer("TripService").Start(ctx, "SearchDestinations", trace.WithAttributes(
		attribute.String("query", query),
	))
	defer span.End()

	results, err := s.providers.Location.SearchLocations(ctx, query)
	if err != nil {
		s.logger.WarnContext(ctx, "Destination search failed", slog.String("query", query), slog.Any("error", err))
		s.metrics.ProviderFailed(ctx, "nominatim")
		span.RecordError(err)
		span.SetStatus(codes.Error, "search failed")
		return []types.DestinationCandidate{}, nil
	}
	span.SetStatus(codes.Ok, "search completed")
	return results, nil
}

// GetPlaceInfo combines the encyclopedia entry, a stock photo when the entry
// has no image, and an AI-written historical note.
func (s *ServiceImpl) GetPlaceInfo(ctx context.Context, name, city string) (*types.PlaceInfo, error) {
	ctx, span := otel.Tracer("TripService").Start(ctx, "GetPlaceInfo", trace.WithAttributes(
		attribute.String("place.name", name),
		attribute.String("city", city),
	))
	defer span.End()

	info := &types.PlaceInfo{Title: name}

	entry, err := s.providers.Encyclopedia.GetPlaceInfo(ctx, name, city)
	if err != nil {
		s.logger.DebugContext(ctx, "No encyclopedia entry", slog.String("place", name), slog.Any("error", err))
	} else if entry != nil {
		if entry.Title != "" {
			info.Title = entry.Title
		}
		info.Description = entry.Extract
		if entry.PageURL != "" {
			info.PageURL = &entry.PageURL
		}
		if entry.ImageURL != "" {
			imageURL, source := entry.ImageURL, "wikipedia"
			info.ImageURL, info.Source = &imageURL, &source
		}
	}

	if info.ImageURL == nil {
		if imageURL, source, err := s.providers.Images.Find(ctx, name, city); err == nil {
			info.ImageURL, info.Source = &imageURL, &source
		}
	}

	locationName := name
	if city != "" {
		locationName = name + ", " + city
	}
	if note, err := s.providers.Context.GetLocationContext(ctx, locationName); err != nil {
		s.logger.DebugContext(ctx, "No AI context", slog.String("place", locationName), slog.Any("error", err))
	} else if note != "" {
		if info.Description == "" {
			info.Description = note
		} else {
			info.Description += "\n\n" + note
		}
	}

	span.SetAttributes(attribute.Bool("has.image", info.ImageURL != nil))
	span.SetStatus(codes.Ok, "place info gathered")
	return info, nil
}

var popularDestinations = []types.PopularDestination{
	{Name: "Jaipur", State: "Rajasthan", Days: 3, Spots: 15, Description: "The Pink City"},
	{Name: "Udaipur", State: "Rajasthan", Days: 2, Spots: 12, Description: "City of Lakes"},
	{Name: "Goa", State: "Goa", Days: 4, Spots: 20, Description: "Beach Paradise"},
	{Name: "Varanasi", State: "Uttar Pradesh", Days: 2, Spots: 10, Description: "Spiritual Capital"},
	{Name: "Rishikesh", State: "Uttarakhand", Days: 3, Spots: 12, Description: "Yoga Capital"},
	{Name: "Manali", State: "Himachal Pradesh", Days: 4, Spots: 14, Description: "Hill Station"},
	{Name: "Kerala", State: "Kerala", Days: 5, Spots: 18, Description: "Backwaters & Nature"},
	{Name: "Agra", State: "Uttar Pradesh", Days: 1, Spots: 8, Description: "Home of Taj Mahal"},
	{Name: "Mumbai", State: "Maharashtra", Days: 3, Spots: 22, Description: "City of Dreams"},
	{Name: "Hampi", State: "Karnataka", Days: 2, Spots: 15, Description: "Ancient Ruins"},
	{Name: "Leh", State: "Ladakh", Days: 5, Spots: 16, Description: "Mountain Paradise"},
	{Name: "Mysore", State: "Karnataka", Days: 2, Spots: 10, Description: "Palace City"},
}

func (s *ServiceImpl) GetPopularDestinations(ctx context.Context) ([]types.PopularDestination, error) {
	ctx, span := otel.Tracer("TripService").Start(ctx, "GetPopularDestinations")
	defer span.End()

	out := make([]types.PopularDestination, len(popularDestinations))
	copy(out, popularDestinations)

	g := new(errgroup.Group)
	g.SetLimit(enrichConcurrency)
	for i := range out {
		i := i // per-iteration copy for goroutine (pre-Go 1.22 loop semantics)
		g.Go(func() error {
			out[i].ImageURL = placeholderImageURL + url.QueryEscape(out[i].Name)
			entry, err := s.providers.Encyclopedia.GetPlaceInfo(ctx, out[i].Name, "")
			if err == nil && entry != nil && entry.ImageURL != "" {
				out[i].ImageURL = entry.ImageURL
			}
			return nil
		})
	}
	_ = g.Wait()

	span.SetStatus(codes.Ok, "popular destinations listed")
	return out, nil
}

func (s *ServiceImpl) NearbySpots(ctx context.Context, lat, lon float64) ([]types.NearbySpot, error) {
	spots, err := s.providers.Location.NearbyTouristSpots(ctx, lat, lon)
	if err != nil {
		s.logger.WarnContext(ctx, "Nearby search failed", slog.Any("error", err))
		s.metrics.ProviderFailed(ctx, "overpass")
		return []types.NearbySpot{}, nil
	}
	return spots, nil
}

func (s *ServiceImpl) CreateShareCode(ctx context.Context, trip *types.Trip) (string, error) {
	ctx, span := otel.Tracer("TripService").Start(ctx, "CreateShareCode")
	defer span.End()

	if trip == nil {
		return "", errors.New("trip is required")
	}
	code, err := s.shares.Create(*trip)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to create share code", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "share failed")
		return "", fmt.Errorf("failed to create share code: %w", err)
	}

	s.metrics.ShareCreated(ctx)
	s.logger.InfoContext(ctx, "Created share code", slog.String("code", code), slog.String("destination", trip.Destination))
	span.SetAttributes(attribute.String("share.code", code))
	span.SetStatus(codes.Ok, "share code created")
	return code, nil
}

func (s *ServiceImpl) GetTripByShareCode(ctx context.Context, code string) (*types.Trip, error) {
	shared, ok := s.shares.Get(code)
	if !ok {
		s.logger.DebugContext(ctx, "Share code missed", slog.String("code", code))
		return nil, types.ErrShareNotFound
	}
	trip := shared.Trip
	return &trip, nil
}
