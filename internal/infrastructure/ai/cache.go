package ai

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fridgechef/api/internal/domain/recipe"
	"github.com/fridgechef/api/internal/ports/outbound"
)

// CachedService decorates an AIService with response caching. Identical
// inputs produce the same key: detection is keyed on the photo hash,
// generation on the ingredient names plus every generation parameter. Cache
// failures are logged and ignored; the provider result always wins.
type CachedService struct {
	inner  outbound.AIService
	cache  outbound.CacheRepository
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedService wraps inner with a response cache.
func NewCachedService(inner outbound.AIService, cache outbound.CacheRepository, ttl time.Duration, logger *zap.Logger) *CachedService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &CachedService{
		inner:  inner,
		cache:  cache,
		ttl:    ttl,
		logger: logger.Named("ai-cache"),
	}
}

// DetectIngredients serves a cached detection for a previously seen photo.
func (s *CachedService) DetectIngredients(ctx context.Context, imageBase64 string) (*outbound.DetectionResult, error) {
	key := cacheKey("detect", imageBase64)

	if data, err := s.cache.Get(ctx, key); err == nil && data != nil {
		var cached outbound.DetectionResult
		if err := json.Unmarshal(data, &cached); err == nil {
			s.logger.Debug("detection cache hit", zap.String("key", key))
			return &cached, nil
		}
	}

	result, err := s.inner.DetectIngredients(ctx, imageBase64)
	if err != nil {
		return nil, err
	}
	s.store(ctx, key, result)
	return result, nil
}

// GenerateRecipes serves a cached generation for a previously seen request.
func (s *CachedService) GenerateRecipes(ctx context.Context, names []string, params recipe.GenerationParameters) ([]outbound.GeneratedRecipe, error) {
	key := cacheKey("generate", fmt.Sprintf("%s|%s|%s|%t",
		strings.Join(names, ","), params.RecipeType, params.CuisineStyle, params.AllowExtraIngredients))

	if data, err := s.cache.Get(ctx, key); err == nil && data != nil {
		var cached []outbound.GeneratedRecipe
		if err := json.Unmarshal(data, &cached); err == nil && len(cached) > 0 {
			s.logger.Debug("generation cache hit", zap.String("key", key))
			return cached, nil
		}
	}

	recipes, err := s.inner.GenerateRecipes(ctx, names, params)
	if err != nil {
		return nil, err
	}
	s.store(ctx, key, recipes)
	return recipes, nil
}

func (s *CachedService) store(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
		s.logger.Debug("failed to store AI response in cache", zap.Error(err))
	}
}

func cacheKey(operation, input string) string {
	sum := sha256.Sum256([]byte(input))
	return "ai:" + operation + ":" + hex.EncodeToString(sum[:])
}
