package container

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/FACorreiaa/trip-planner-aggregator/app/observability/metrics"
	"github.com/FACorreiaa/trip-planner-aggregator/config"
	"github.com/FACorreiaa/trip-planner-aggregator/internal/api"
	"github.com/FACorreiaa/trip-planner-aggregator/internal/api/auth"
	"github.com/FACorreiaa/trip-planner-aggregator/internal/api/discovery"
	generativeAI "github.com/FACorreiaa/trip-planner-aggregator/internal/api/generative_ai"
	"github.com/FACorreiaa/trip-planner-aggregator/internal/api/images"
	"github.com/FACorreiaa/trip-planner-aggregator/internal/api/location"
	"github.com/FACorreiaa/trip-planner-aggregator/internal/api/routing"
	"github.com/FACorreiaa/trip-planner-aggregator/internal/api/trip"
	"github.com/FACorreiaa/trip-planner-aggregator/internal/api/wikipedia"
)

// Container holds all application dependencies
type Container struct {
	Config       *config.Config
	Logger       *slog.Logger
	TripService  *trip.ServiceImpl
	TripHandler  *trip.Handler
	Authenticate func(http.Handler) http.Handler
	cache        *trip.Cache
}

// NewContainer builds every provider client and the trip service from cfg.
// Providers without an API key are still wired and fail soft at call time.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if cfg.Auth.Supabase.Enabled && cfg.Auth.Supabase.SecretKey == "" {
		return nil, errors.New("auth.supabase.jwtSecret is required when auth is enabled")
	}

	httpClient := api.NewHTTPClient()
	p := cfg.Providers

	primaryLLM, err := generativeAI.NewTextGenerator(ctx, p.LLM.Primary, httpClient)
	if err != nil {
		return nil, fmt.Errorf("primary llm: %w", err)
	}
	secondaryLLM, err := generativeAI.NewTextGenerator(ctx, p.LLM.Secondary, httpClient)
	if err != nil {
		return nil, fmt.Errorf("secondary llm: %w", err)
	}

	locationService := location.NewLocationService(logger, httpClient, p.Nominatim, p.Overpass)

	discoveryChain := []discovery.Provider{
		discovery.NewAIDiscovery(logger, primaryLLM),
		discovery.NewStaticTable(),
		discovery.NewGeocodedAIDiscovery(logger, secondaryLLM, locationService),
	}

	imageChain := images.NewChain(logger,
		images.NewPixabayClient(httpClient, p.Pixabay),
		images.NewUnsplashClient(httpClient, p.Unsplash),
	)

	tripCache := trip.NewCache(cfg.Trip.CacheTTL, cfg.Trip.CacheSweepInterval)
	shareStore := trip.NewShareStore(cfg.Trip.ShareTTL)

	tripService := trip.NewServiceImpl(logger, trip.Providers{
		Location:     locationService,
		Discovery:    discoveryChain,
		Encyclopedia: wikipedia.NewWikipediaService(logger, httpClient, p.Wikipedia),
		Images:       imageChain,
		Routing:      routing.NewRoutingService(logger, httpClient, p.OSRM),
		Context:      discovery.NewContextWriter(primaryLLM),
	}, tripCache, shareStore, metrics.Get())

	return &Container{
		Config:       cfg,
		Logger:       logger,
		TripService:  tripService,
		TripHandler:  trip.NewHandler(tripService, logger),
		Authenticate: auth.Authenticate(logger, cfg.Auth.Supabase),
		cache:        tripCache,
	}, nil
}

// Close releases all resources held by the container
func (c *Container) Close() {
	if c.cache != nil {
		c.cache.Close()
	}
}
