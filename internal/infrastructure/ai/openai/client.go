// Package openai adapts the OpenAI chat completions API to the AIService
// port: vision-based ingredient detection and recipe generation.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/fridgechef/api/internal/domain/recipe"
	"github.com/fridgechef/api/internal/infrastructure/ai"
	"github.com/fridgechef/api/internal/infrastructure/config"
	"github.com/fridgechef/api/internal/ports/outbound"
	"github.com/fridgechef/api/pkg/errors"
)

const defaultBaseURL = "https://api.openai.com/v1"

// Client implements the AIService interface using the OpenAI API.
type Client struct {
	apiKey      string
	model       string
	baseURL     string
	maxTokens   int
	temperature float64
	client      *http.Client
	limiter     *rate.Limiter
	logger      *zap.Logger
}

// NewClient creates a new OpenAI client. A missing API key is allowed at
// construction time; both operations then fail as provider-unavailable.
func NewClient(cfg config.AIConfig, logger *zap.Logger) *Client {
	rpm := cfg.RequestsPerMin
	if rpm <= 0 {
		rpm = 20
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &Client{
		apiKey:      cfg.OpenAIKey,
		model:       cfg.OpenAIModel,
		baseURL:     defaultBaseURL,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		client:      &http.Client{Timeout: timeout},
		limiter:     rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), rpm),
		logger:      logger.Named("openai"),
	}
}

// OpenAI API structures

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

// contentPart is one element of a multimodal user message.
type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatCompletionResponse struct {
	Choices []choice `json:"choices"`
	Usage   usage    `json:"usage"`
}

type choice struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	FinishReason string `json:"finish_reason"`
}

type usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// DetectIngredients sends the photo to the vision model and decodes the
// canonical detection schema from the reply.
func (c *Client) DetectIngredients(ctx context.Context, imageBase64 string) (*outbound.DetectionResult, error) {
	content, err := c.complete(ctx, ai.DetectionSystemPrompt, []contentPart{
		{Type: "text", Text: ai.BuildDetectionPrompt()},
		{Type: "image_url", ImageURL: &imageURL{URL: "data:image/jpeg;base64," + imageBase64}},
	})
	if err != nil {
		return nil, err
	}
	return ai.DecodeDetection(content)
}

// GenerateRecipes asks the model for recipes from the ingredient names and
// decodes the canonical recipe schema from the reply.
func (c *Client) GenerateRecipes(ctx context.Context, names []string, params recipe.GenerationParameters) ([]outbound.GeneratedRecipe, error) {
	content, err := c.complete(ctx, ai.GenerationSystemPrompt, []contentPart{
		{Type: "text", Text: ai.BuildGenerationPrompt(names, params)},
	})
	if err != nil {
		return nil, err
	}
	return ai.DecodeRecipes(content)
}

func (c *Client) complete(ctx context.Context, systemPrompt string, parts []contentPart) (string, error) {
	if c.apiKey == "" {
		return "", errors.NewProviderUnavailableError("openai")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", errors.NewProviderUnavailableError("openai").WithCause(err)
	}

	reqBody := chatCompletionRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: parts},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", errors.NewInternalError("failed to marshal request").WithCause(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(jsonBody))
	if err != nil {
		return "", errors.NewInternalError("failed to create request").WithCause(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("openai request failed", zap.Error(err))
		return "", errors.NewProviderUnavailableError("openai").WithCause(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.NewProviderUnavailableError("openai").WithCause(err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("openai returned an error status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body))
		return "", errors.NewProviderUnavailableError("openai").
			WithMetadata("status", resp.StatusCode)
	}

	var chatResp chatCompletionResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", errors.NewMalformedProviderResponseError(err)
	}
	if len(chatResp.Choices) == 0 {
		return "", errors.NewMalformedProviderResponseError(fmt.Errorf("no choices in response"))
	}

	c.logger.Debug("openai call completed",
		zap.Int("prompt_tokens", chatResp.Usage.PromptTokens),
		zap.Int("completion_tokens", chatResp.Usage.CompletionTokens))

	return chatResp.Choices[0].Message.Content, nil
}
