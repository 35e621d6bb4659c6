package generativeAI

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/trip-planner-aggregator/config"
	"github.com/FACorreiaa/trip-planner-aggregator/internal/api"
)

// ChatCompletionsClient talks to any OpenAI-compatible /chat/completions API.
type ChatCompletionsClient struct {
	baseURL     string
	apiKey      string
	model       string
	temperature float32
	maxTokens   int
	timeout     time.Duration
	httpClient  *http.Client
}

var _ TextGenerator = (*ChatCompletionsClient)(nil)

func NewChatCompletionsClient(cfg config.LLMConfig, httpClient *http.Client) (*ChatCompletionsClient, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("chat completions: baseURL required")
	}
	if httpClient == nil {
		httpClient = api.NewHTTPClient()
	}
	return &ChatCompletionsClient{
		baseURL:     baseURL,
		apiKey:      strings.TrimSpace(cfg.APIKey),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   intOr(cfg.MaxTokens, 2000),
		timeout:     durationOr(cfg.Timeout, 30*time.Second),
		httpClient:  httpClient,
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *ChatCompletionsClient) GenerateText(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	ctx, span := otel.Tracer("GenerativeAI").Start(ctx, "ChatCompletions.GenerateText", trace.WithAttributes(
		attribute.String("model", c.model),
		attribute.Int("prompt.length", len(prompt)),
	))
	defer span.End()

	if c.apiKey == "" {
		span.SetStatus(codes.Error, "api key not set")
		return "", ErrNotConfigured
	}

	messages := make([]chatMessage, 0, 2)
	if opts.SystemPrompt != "" {
		messages = append(messages, chatMessage{Role: "system", Content: opts.SystemPrompt})
	}
	messages = append(messages, chatMessage{Role: "user", Content: prompt})

	body, err := json.Marshal(chatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: temperatureOr(opts, c.temperature),
		MaxTokens:   intOr(opts.MaxTokens, c.maxTokens),
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	var resp chatCompletionResponse
	if err := api.DoJSON(ctx, c.httpClient, durationOr(opts.Timeout, c.timeout), req, &resp); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "chat completion failed")
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		err := errors.New("chat completion: no choices")
		span.RecordError(err)
		span.SetStatus(codes.Error, "empty response")
		return "", err
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	span.SetAttributes(attribute.Int("response.length", len(text)))
	span.SetStatus(codes.Ok, "completion generated")
	return text, nil
}
