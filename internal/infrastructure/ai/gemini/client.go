// Package gemini adapts the Google Gemini generateContent API to the
// AIService port. Responses are normalized to the same canonical schemas as
// every other provider.
package gemini

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

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Client implements the AIService interface using the Gemini API.
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

// NewClient creates a new Gemini client. A missing API key is allowed at
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
		apiKey:      cfg.GeminiKey,
		model:       cfg.GeminiModel,
		baseURL:     defaultBaseURL,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		client:      &http.Client{Timeout: timeout},
		limiter:     rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), rpm),
		logger:      logger.Named("gemini"),
	}
}

// Gemini API structures

type generateRequest struct {
	SystemInstruction *content         `json:"system_instruction,omitempty"`
	Contents          []content        `json:"contents"`
	GenerationConfig  generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
}

// DetectIngredients sends the photo to the model and decodes the canonical
// detection schema from the reply.
func (c *Client) DetectIngredients(ctx context.Context, imageBase64 string) (*outbound.DetectionResult, error) {
	text, err := c.generate(ctx, ai.DetectionSystemPrompt, []part{
		{Text: ai.BuildDetectionPrompt()},
		{InlineData: &inlineData{MimeType: "image/jpeg", Data: imageBase64}},
	})
	if err != nil {
		return nil, err
	}
	return ai.DecodeDetection(text)
}

// GenerateRecipes asks the model for recipes from the ingredient names and
// decodes the canonical recipe schema from the reply.
func (c *Client) GenerateRecipes(ctx context.Context, names []string, params recipe.GenerationParameters) ([]outbound.GeneratedRecipe, error) {
	text, err := c.generate(ctx, ai.GenerationSystemPrompt, []part{
		{Text: ai.BuildGenerationPrompt(names, params)},
	})
	if err != nil {
		return nil, err
	}
	return ai.DecodeRecipes(text)
}

func (c *Client) generate(ctx context.Context, systemPrompt string, parts []part) (string, error) {
	if c.apiKey == "" {
		return "", errors.NewProviderUnavailableError("gemini")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", errors.NewProviderUnavailableError("gemini").WithCause(err)
	}

	reqBody := generateRequest{
		SystemInstruction: &content{Parts: []part{{Text: systemPrompt}}},
		Contents:          []content{{Parts: parts}},
		GenerationConfig: generationConfig{
			Temperature:     c.temperature,
			MaxOutputTokens: c.maxTokens,
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", errors.NewInternalError("failed to marshal request").WithCause(err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return "", errors.NewInternalError("failed to create request").WithCause(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("gemini request failed", zap.Error(err))
		return "", errors.NewProviderUnavailableError("gemini").WithCause(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.NewProviderUnavailableError("gemini").WithCause(err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("gemini returned an error status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body))
		return "", errors.NewProviderUnavailableError("gemini").
			WithMetadata("status", resp.StatusCode)
	}

	var genResp generateResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return "", errors.NewMalformedProviderResponseError(err)
	}
	if len(genResp.Candidates) == 0 || len(genResp.Candidates[0].Content.Parts) == 0 {
		return "", errors.NewMalformedProviderResponseError(fmt.Errorf("no candidates in response"))
	}

	return genResp.Candidates[0].Content.Parts[0].Text, nil
}
