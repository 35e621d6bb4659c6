package wikipedia

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/trip-planner-aggregator/config"
	"github.com/FACorreiaa/trip-planner-aggregator/internal/api"
	"github.com/FACorreiaa/trip-planner-aggregator/internal/types"
)

// ErrPageNotFound is returned when neither the title nor the search fallback
// finds a page.
var ErrPageNotFound = errors.New("wikipedia: page not found")

type Service interface {
	// GetPlaceInfo looks the place up by title, then falls back to a full
	// text search scoped by city.
	GetPlaceInfo(ctx context.Context, placeName, city string) (*types.EncyclopediaEntry, error)
	GetCityInfo(ctx context.Context, city string) (*types.EncyclopediaEntry, error)
}

type ServiceImpl struct {
	logger     *slog.Logger
	httpClient *http.Client
	apiURL     string
	userAgent  string
	timeout    time.Duration
}

var _ Service = (*ServiceImpl)(nil)

func NewWikipediaService(logger *slog.Logger, httpClient *http.Client, cfg config.ProviderConfig) *ServiceImpl {
	if httpClient == nil {
		httpClient = api.NewHTTPClient()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &ServiceImpl{
		logger:     logger,
		httpClient: httpClient,
		apiURL:     cfg.BaseURL,
		userAgent:  cfg.UserAgent,
		timeout:    timeout,
	}
}

type imageSource struct {
	Source string `json:"source"`
}

type searchHit struct {
	Title string `json:"title"`
}

type page struct {
	Title     string       `json:"title"`
	Missing   bool         `json:"missing"`
	Invalid   bool         `json:"invalid"`
	Extract   string       `json:"extract"`
	FullURL   string       `json:"fullurl"`
	Original  *imageSource `json:"original"`
	Thumbnail *imageSource `json:"thumbnail"`
}

type queryResponse struct {
	Query struct {
		Pages  []page      `json:"pages"`
		Search []searchHit `json:"search"`
	} `json:"query"`
}

func (s *ServiceImpl) GetCityInfo(ctx context.Context, city string) (*types.EncyclopediaEntry, error) {
	return s.GetPlaceInfo(ctx, city, "")
}

func (s *ServiceImpl) GetPlaceInfo(ctx context.Context, placeName, city string) (*types.EncyclopediaEntry, error) {
	ctx, span := otel.Tracer("WikipediaService").Start(ctx, "GetPlaceInfo", trace.WithAttributes(
		attribute.String("place.name", placeName),
		attribute.String("city", city),
	))
	defer span.End()

	entry, err := s.pageByTitle(ctx, placeName)
	if errors.Is(err, ErrPageNotFound) {
		searchQuery := placeName + " India"
		if city != "" {
			searchQuery = placeName + " " + city + " India"
		}
		entry, err = s.searchAndGet(ctx, searchQuery)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "lookup failed")
		return nil, fmt.Errorf("wikipedia %q: %w", placeName, err)
	}

	span.SetAttributes(attribute.Bool("has.image", entry.ImageURL != ""))
	span.SetStatus(codes.Ok, "page found")
	return entry, nil
}

func (s *ServiceImpl) pageByTitle(ctx context.Context, title string) (*types.EncyclopediaEntry, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("titles", title)
	params.Set("prop", "extracts|pageimages|info")
	params.Set("exintro", "1")
	params.Set("explaintext", "1")
	params.Set("piprop", "original|thumbnail")
	params.Set("pithumbsize", "500")
	params.Set("inprop", "url")

	var resp queryResponse
	if err := s.query(ctx, params, &resp); err != nil {
		return nil, err
	}
	if len(resp.Query.Pages) == 0 {
		return nil, ErrPageNotFound
	}
	p := resp.Query.Pages[0]
	if p.Missing || p.Invalid {
		return nil, ErrPageNotFound
	}

	entry := &types.EncyclopediaEntry{Title: p.Title, Extract: p.Extract, PageURL: p.FullURL}
	switch {
	case p.Original != nil && p.Original.Source != "":
		entry.ImageURL = p.Original.Source
	case p.Thumbnail != nil:
		entry.ImageURL = p.Thumbnail.Source
	}
	return entry, nil
}

func (s *ServiceImpl) searchAndGet(ctx context.Context, searchQuery string) (*types.EncyclopediaEntry, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("list", "search")
	params.Set("srsearch", searchQuery)
	params.Set("srlimit", "1")

	var resp queryResponse
	if err := s.query(ctx, params, &resp); err != nil {
		return nil, err
	}
	if len(resp.Query.Search) == 0 {
		return nil, ErrPageNotFound
	}
	s.logger.DebugContext(ctx, "Wikipedia title miss, using search hit",
		slog.String("query", searchQuery), slog.String("title", resp.Query.Search[0].Title))
	return s.pageByTitle(ctx, resp.Query.Search[0].Title)
}

func (s *ServiceImpl) query(ctx context.Context, params url.Values, out any) error {
	params.Set("format", "json")
	params.Set("formatversion", "2")
	header := http.Header{}
	if s.userAgent != "" {
		header.Set("User-Agent", s.userAgent)
	}
	return api.GetJSON(ctx, s.httpClient, s.timeout, s.apiURL+"?"+params.Encode(), header, out)
}
