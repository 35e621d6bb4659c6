package discovery

import (
	"context"
	"fmt"
	"time"

	generativeAI "github.com/FACorreiaa/trip-planner-aggregator/internal/api/generative_ai"
)

// ContextWriter produces a short historical and cultural blurb for a place.
type ContextWriter struct {
	generator generativeAI.TextGenerator
}

func NewContextWriter(generator generativeAI.TextGenerator) *ContextWriter {
	return &ContextWriter{generator: generator}
}

func (w *ContextWriter) GetLocationContext(ctx context.Context, locationName string) (string, error) {
	temperature := float32(0.7)
	text, err := w.generator.GenerateText(ctx, getLocationContextPrompt(locationName), generativeAI.GenerateOptions{
		SystemPrompt: historianSystemPrompt,
		Temperature:  &temperature,
		MaxTokens:    250,
		Timeout:      8 * time.Second,
	})
	if err != nil {
		return "", fmt.Errorf("location context: %w", err)
	}
	return text, nil
}
