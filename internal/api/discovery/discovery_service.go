package discovery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	generativeAI "github.com/FACorreiaa/trip-planner-aggregator/internal/api/generative_ai"
	"github.com/FACorreiaa/trip-planner-aggregator/internal/types"
)

// Provider proposes candidate places for a destination. An empty result with
// a nil error means the provider had nothing to offer.
type Provider interface {
	Name() string
	Discover(ctx context.Context, destination string, preferences []string) ([]types.DiscoveredSpot, error)
}

type llmSpot struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// parseSpots accepts either a bare JSON array or an object with a "places"
// array, optionally wrapped in markdown fences.
func parseSpots(raw string) ([]llmSpot, error) {
	cleaned := generativeAI.CleanJSONResponse(raw)
	if cleaned == "" {
		return nil, errors.New("empty response")
	}

	var spots []llmSpot
	if cleaned[0] == '[' {
		if err := json.Unmarshal([]byte(cleaned), &spots); err != nil {
			return nil, fmt.Errorf("parse spot array: %w", err)
		}
		return spots, nil
	}

	var wrapped struct {
		Places []llmSpot `json:"places"`
	}
	if err := json.Unmarshal([]byte(cleaned), &wrapped); err != nil {
		return nil, fmt.Errorf("parse spot object: %w", err)
	}
	return wrapped.Places, nil
}

func toDiscovered(spots []llmSpot) []types.DiscoveredSpot {
	out := make([]types.DiscoveredSpot, 0, len(spots))
	for _, s := range spots {
		if strings.TrimSpace(s.Name) == "" {
			continue
		}
		out = append(out, types.DiscoveredSpot{
			Name:        s.Name,
			Category:    s.Category,
			Description: s.Description,
		})
	}
	return out
}

// AIDiscovery asks an LLM for up to 40 curated places.
type AIDiscovery struct {
	logger    *slog.Logger
	generator generativeAI.TextGenerator
}

var _ Provider = (*AIDiscovery)(nil)

func NewAIDiscovery(logger *slog.Logger, generator generativeAI.TextGenerator) *AIDiscovery {
	return &AIDiscovery{logger: logger, generator: generator}
}

func (d *AIDiscovery) Name() string { return "ai_discovery" }

func (d *AIDiscovery) Discover(ctx context.Context, destination string, preferences []string) ([]types.DiscoveredSpot, error) {
	text, err := d.generator.GenerateText(ctx, getAIDiscoveryPrompt(destination, preferences), generativeAI.GenerateOptions{
		SystemPrompt: aiDiscoverySystemPrompt,
	})
	if err != nil {
		return nil, fmt.Errorf("ai discovery: %w", err)
	}

	spots, err := parseSpots(text)
	if err != nil {
		return nil, fmt.Errorf("ai discovery: %w", err)
	}

	d.logger.InfoContext(ctx, "AI discovery returned places",
		slog.String("destination", destination), slog.Int("count", len(spots)))
	return toDiscovered(spots), nil
}
