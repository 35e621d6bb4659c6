package location

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/FACorreiaa/trip-planner-aggregator/config"
	"github.com/FACorreiaa/trip-planner-aggregator/internal/api"
	"github.com/FACorreiaa/trip-planner-aggregator/internal/types"
)

// ErrNoResults is returned when a lookup succeeds but matches nothing.
var ErrNoResults = errors.New("location: no results")

// Service resolves place names and nearby points of interest.
type Service interface {
	GetCoordinates(ctx context.Context, placeName string) (*types.Coordinates, error)
	SearchLocations(ctx context.Context, query string) ([]types.DestinationCandidate, error)
	NearbyTouristSpots(ctx context.Context, lat, lon float64) ([]types.NearbySpot, error)
}

type ServiceImpl struct {
	logger       *slog.Logger
	httpClient   *http.Client
	nominatimURL string
	userAgent    string
	timeout      time.Duration
	limiter      *rate.Limiter
	overpassURL  string
	overpassTTL  time.Duration
}

var _ Service = (*ServiceImpl)(nil)

func NewLocationService(logger *slog.Logger, httpClient *http.Client, nominatim, overpass config.ProviderConfig) *ServiceImpl {
	if httpClient == nil {
		httpClient = api.NewHTTPClient()
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if nominatim.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(nominatim.RateLimit), 1)
	}
	timeout := nominatim.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	overpassTimeout := overpass.Timeout
	if overpassTimeout <= 0 {
		overpassTimeout = 30 * time.Second
	}
	return &ServiceImpl{
		logger:       logger,
		httpClient:   httpClient,
		nominatimURL: strings.TrimRight(nominatim.BaseURL, "/"),
		userAgent:    nominatim.UserAgent,
		timeout:      timeout,
		limiter:      limiter,
		overpassURL:  overpass.BaseURL,
		overpassTTL:  overpassTimeout,
	}
}
