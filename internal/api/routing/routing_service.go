package routing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/trip-planner-aggregator/config"
	"github.com/FACorreiaa/trip-planner-aggregator/internal/api"
	"github.com/FACorreiaa/trip-planner-aggregator/internal/types"
)

var errNoRoute = errors.New("routing: no route")

// Service fetches a driving route through an ordered list of points.
type Service interface {
	// GetRoute takes [lon, lat] pairs. It returns nil without calling the
	// engine when fewer than two points are given.
	GetRoute(ctx context.Context, points [][2]float64) (*types.RouteGeometry, error)
}

type ServiceImpl struct {
	logger     *slog.Logger
	httpClient *http.Client
	baseURL    string
	timeout    time.Duration
}

var _ Service = (*ServiceImpl)(nil)

func NewRoutingService(logger *slog.Logger, httpClient *http.Client, cfg config.ProviderConfig) *ServiceImpl {
	if httpClient == nil {
		httpClient = api.NewHTTPClient()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &ServiceImpl{
		logger:     logger,
		httpClient: httpClient,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		timeout:    timeout,
	}
}

type osrmResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64             `json:"distance"`
		Duration float64             `json:"duration"`
		Geometry types.RouteGeometry `json:"geometry"`
	} `json:"routes"`
}

func (s *ServiceImpl) GetRoute(ctx context.Context, points [][2]float64) (*types.RouteGeometry, error) {
	if len(points) < 2 {
		return nil, nil
	}

	ctx, span := otel.Tracer("RoutingService").Start(ctx, "GetRoute", trace.WithAttributes(
		attribute.Int("points.count", len(points)),
	))
	defer span.End()

	pairs := make([]string, len(points))
	for i, p := range points {
		pairs[i] = strconv.FormatFloat(p[0], 'f', -1, 64) + "," + strconv.FormatFloat(p[1], 'f', -1, 64)
	}
	rawURL := fmt.Sprintf("%s/%s?overview=full&geometries=geojson", s.baseURL, strings.Join(pairs, ";"))

	var resp osrmResponse
	if err := api.GetJSON(ctx, s.httpClient, s.timeout, rawURL, nil, &resp); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "osrm request failed")
		return nil, fmt.Errorf("osrm route: %w", err)
	}
	if len(resp.Routes) == 0 {
		span.SetStatus(codes.Error, "no route")
		return nil, errNoRoute
	}

	best := resp.Routes[0]
	s.logger.DebugContext(ctx, "Fetched route",
		slog.Int("points", len(points)),
		slog.Float64("distance_m", best.Distance),
		slog.Float64("duration_s", best.Duration))
	span.SetStatus(codes.Ok, "route fetched")
	return &best.Geometry, nil
}
