package generativeAI

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/FACorreiaa/trip-planner-aggregator/config"
)

// ErrNotConfigured is returned by a generator that has no API key.
var ErrNotConfigured = errors.New("text generator not configured")

// GenerateOptions tunes a single completion. Zero values fall back to the
// generator's configured defaults.
type GenerateOptions struct {
	SystemPrompt string
	Temperature  *float32
	MaxTokens    int
	Timeout      time.Duration
}

// TextGenerator produces a single text completion for a prompt.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
}

// NewTextGenerator builds the backend named by cfg.Backend.
func NewTextGenerator(ctx context.Context, cfg config.LLMConfig, httpClient *http.Client) (TextGenerator, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", "openai":
		return NewChatCompletionsClient(cfg, httpClient)
	case "gemini":
		return NewGeminiClient(ctx, cfg, httpClient)
	default:
		return nil, fmt.Errorf("unknown llm backend %q", cfg.Backend)
	}
}

// CleanJSONResponse strips markdown fences and any prose around the first JSON
// object or array in an LLM response.
func CleanJSONResponse(response string) string {
	response = strings.TrimSpace(response)

	if strings.HasPrefix(response, "```json") {
		response = strings.TrimPrefix(response, "```json")
	} else if strings.HasPrefix(response, "```") {
		response = strings.TrimPrefix(response, "```")
	}
	response = strings.TrimSuffix(strings.TrimSpace(response), "```")
	response = strings.TrimSpace(response)

	start := strings.IndexAny(response, "{[")
	if start == -1 {
		return response
	}
	closer := "}"
	if response[start] == '[' {
		closer = "]"
	}
	end := strings.LastIndex(response, closer)
	if end <= start {
		return response
	}
	return strings.TrimSpace(response[start : end+1])
}

func temperatureOr(opts GenerateOptions, fallback float32) float32 {
	if opts.Temperature != nil {
		return *opts.Temperature
	}
	return fallback
}

func intOr(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}

func durationOr(v, fallback time.Duration) time.Duration {
	if v > 0 {
		return v
	}
	return fallback
}
