package generativeAI

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"

	"github.com/FACorreiaa/trip-planner-aggregator/config"
)

const defaultGeminiModel = "gemini-2.0-flash"

// GeminiClient generates text with the Gemini API.
type GeminiClient struct {
	client      *genai.Client
	model       string
	temperature float32
	maxTokens   int
	timeout     time.Duration
}

var _ TextGenerator = (*GeminiClient)(nil)

// NewGeminiClient returns a client that reports ErrNotConfigured on every
// call when no API key is set.
func NewGeminiClient(ctx context.Context, cfg config.LLMConfig, httpClient *http.Client) (*GeminiClient, error) {
	ctx, span := otel.Tracer("GenerativeAI").Start(ctx, "NewGeminiClient")
	defer span.End()

	g := &GeminiClient{
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   intOr(cfg.MaxTokens, 2000),
		timeout:     durationOr(cfg.Timeout, 30*time.Second),
	}
	if g.model == "" {
		g.model = defaultGeminiModel
	}

	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		span.SetStatus(codes.Ok, "gemini disabled, api key not set")
		return g, nil
	}

	clientCfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create Gemini client")
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	g.client = client

	span.SetStatus(codes.Ok, "AI client created successfully")
	return g, nil
}

func (g *GeminiClient) GenerateText(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	ctx, span := otel.Tracer("GenerativeAI").Start(ctx, "Gemini.GenerateText", trace.WithAttributes(
		attribute.String("model", g.model),
		attribute.Int("prompt.length", len(prompt)),
	))
	defer span.End()

	if g.client == nil {
		span.SetStatus(codes.Error, "api key not set")
		return "", ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, durationOr(opts.Timeout, g.timeout))
	defer cancel()

	genCfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(temperatureOr(opts, g.temperature)),
		MaxOutputTokens: int32(intOr(opts.MaxTokens, g.maxTokens)),
	}
	if opts.SystemPrompt != "" {
		genCfg.SystemInstruction = genai.NewContentFromText(opts.SystemPrompt, genai.RoleUser)
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), genCfg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to generate content")
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		err := errors.New("gemini: empty response")
		span.RecordError(err)
		span.SetStatus(codes.Error, "empty response")
		return "", err
	}
	span.SetAttributes(attribute.Int("response.length", len(text)))
	span.SetStatus(codes.Ok, "Content generated successfully")
	return text, nil
}
