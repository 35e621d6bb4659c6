package images

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/trip-planner-aggregator/config"
	"github.com/FACorreiaa/trip-planner-aggregator/internal/api"
)

type UnsplashClient struct {
	httpClient *http.Client
	baseURL    string
	accessKey  string
	timeout    time.Duration
}

var _ Searcher = (*UnsplashClient)(nil)

func NewUnsplashClient(httpClient *http.Client, cfg config.ProviderConfig) *UnsplashClient {
	if httpClient == nil {
		httpClient = api.NewHTTPClient()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &UnsplashClient{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		accessKey:  strings.TrimSpace(cfg.APIKey),
		timeout:    timeout,
	}
}

func (u *UnsplashClient) Name() string { return "unsplash" }

type unsplashResponse struct {
	Results []struct {
		URLs struct {
			Regular string `json:"regular"`
		} `json:"urls"`
	} `json:"results"`
}

func (u *UnsplashClient) SearchPlaceImage(ctx context.Context, placeName, city string) (string, error) {
	if u.accessKey == "" {
		return "", ErrNotConfigured
	}

	ctx, span := otel.Tracer("ImageSearch").Start(ctx, "Unsplash.SearchPlaceImage", trace.WithAttributes(
		attribute.String("place.name", placeName),
	))
	defer span.End()

	params := url.Values{}
	params.Set("query", searchQuery(placeName, city))
	params.Set("per_page", "1")
	params.Set("orientation", "landscape")

	header := http.Header{}
	header.Set("Authorization", "Client-ID "+u.accessKey)

	var resp unsplashResponse
	if err := api.GetJSON(ctx, u.httpClient, u.timeout, u.baseURL+"/search/photos?"+params.Encode(), header, &resp); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "unsplash request failed")
		return "", fmt.Errorf("unsplash: %w", err)
	}
	if len(resp.Results) == 0 || resp.Results[0].URLs.Regular == "" {
		span.SetStatus(codes.Ok, "no results")
		return "", ErrNoImage
	}
	span.SetStatus(codes.Ok, "image found")
	return resp.Results[0].URLs.Regular, nil
}
