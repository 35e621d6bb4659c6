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

type PixabayClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	timeout    time.Duration
}

var _ Searcher = (*PixabayClient)(nil)

func NewPixabayClient(httpClient *http.Client, cfg config.ProviderConfig) *PixabayClient {
	if httpClient == nil {
		httpClient = api.NewHTTPClient()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &PixabayClient{
		httpClient: httpClient,
		baseURL:    cfg.BaseURL,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		timeout:    timeout,
	}
}

func (p *PixabayClient) Name() string { return "pixabay" }

type pixabayResponse struct {
	Hits []struct {
		LargeImageURL string `json:"largeImageURL"`
		WebformatURL  string `json:"webformatURL"`
	} `json:"hits"`
}

func (p *PixabayClient) SearchPlaceImage(ctx context.Context, placeName, city string) (string, error) {
	if p.apiKey == "" {
		return "", ErrNotConfigured
	}

	ctx, span := otel.Tracer("ImageSearch").Start(ctx, "Pixabay.SearchPlaceImage", trace.WithAttributes(
		attribute.String("place.name", placeName),
	))
	defer span.End()

	params := url.Values{}
	params.Set("key", p.apiKey)
	params.Set("q", searchQuery(placeName, city))
	params.Set("image_type", "photo")
	params.Set("category", "places,travel,buildings")
	params.Set("per_page", "3")
	params.Set("safesearch", "true")

	var resp pixabayResponse
	if err := api.GetJSON(ctx, p.httpClient, p.timeout, p.baseURL+"?"+params.Encode(), nil, &resp); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "pixabay request failed")
		return "", fmt.Errorf("pixabay: %w", err)
	}
	if len(resp.Hits) == 0 {
		span.SetStatus(codes.Ok, "no hits")
		return "", ErrNoImage
	}

	imageURL := resp.Hits[0].LargeImageURL
	if imageURL == "" {
		imageURL = resp.Hits[0].WebformatURL
	}
	if imageURL == "" {
		return "", ErrNoImage
	}
	span.SetStatus(codes.Ok, "image found")
	return imageURL, nil
}
