package images

import (
	"context"
	"errors"
	"log/slog"
)

var (
	// ErrNoImage is returned when a search succeeds but has no usable hit.
	ErrNoImage = errors.New("images: no image")
	// ErrNotConfigured is returned by a searcher without an API key.
	ErrNotConfigured = errors.New("images: api key not configured")
)

// Searcher finds a stock photo for a place.
type Searcher interface {
	Name() string
	SearchPlaceImage(ctx context.Context, placeName, city string) (string, error)
}

// Chain tries each searcher in order and returns the first image found.
type Chain struct {
	logger    *slog.Logger
	searchers []Searcher
}

var _ Searcher = (*Chain)(nil)

func NewChain(logger *slog.Logger, searchers ...Searcher) *Chain {
	return &Chain{logger: logger, searchers: searchers}
}

func (c *Chain) Name() string { return "chain" }

func (c *Chain) SearchPlaceImage(ctx context.Context, placeName, city string) (string, error) {
	imageURL, _, err := c.Find(ctx, placeName, city)
	return imageURL, err
}

// Find also reports which searcher produced the image.
func (c *Chain) Find(ctx context.Context, placeName, city string) (imageURL, source string, err error) {
	for _, s := range c.searchers {
		found, err := s.SearchPlaceImage(ctx, placeName, city)
		if err == nil && found != "" {
			return found, s.Name(), nil
		}
		if err != nil && !errors.Is(err, ErrNotConfigured) && !errors.Is(err, ErrNoImage) {
			c.logger.DebugContext(ctx, "Image search failed",
				slog.String("provider", s.Name()),
				slog.String("place", placeName),
				slog.Any("error", err))
		}
	}
	return "", "", ErrNoImage
}

func searchQuery(placeName, city string) string {
	if city == "" {
		return placeName + " India"
	}
	return placeName + " " + city + " India"
}
