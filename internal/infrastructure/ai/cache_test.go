package ai

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fridgechef/api/internal/domain/recipe"
	"github.com/fridgechef/api/internal/ports/outbound"
	"github.com/fridgechef/api/pkg/logger"
)

type memoryCache struct {
	data map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string][]byte)}
}

func (m *memoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	return m.data[key], nil
}

func (m *memoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.data[key] = value
	return nil
}

func (m *memoryCache) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *memoryCache) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := m.data[key]
	return ok, nil
}

type countingAIService struct {
	detectCalls   int
	generateCalls int
}

func (c *countingAIService) DetectIngredients(ctx context.Context, imageBase64 string) (*outbound.DetectionResult, error) {
	c.detectCalls++
	return &outbound.DetectionResult{
		Ingredients: []outbound.DetectedIngredient{{Name: "tomato", Confidence: 0.9, Category: "produce"}},
	}, nil
}

func (c *countingAIService) GenerateRecipes(ctx context.Context, names []string, params recipe.GenerationParameters) ([]outbound.GeneratedRecipe, error) {
	c.generateCalls++
	return []outbound.GeneratedRecipe{{
		Title:        "Tomato Soup",
		Servings:     2,
		Ingredients:  []outbound.GeneratedIngredient{{Name: "tomato", IsAvailable: true}},
		Instructions: []string{"cook"},
	}}, nil
}

func TestCachedServiceDetect(t *testing.T) {
	inner := &countingAIService{}
	svc := NewCachedService(inner, newMemoryCache(), time.Hour, logger.NewNop())

	first, err := svc.DetectIngredients(context.Background(), "photo-a")
	require.NoError(t, err)

	second, err := svc.DetectIngredients(context.Background(), "photo-a")
	require.NoError(t, err)

	assert.Equal(t, 1, inner.detectCalls, "second identical photo should hit the cache")
	assert.Equal(t, first, second)

	_, err = svc.DetectIngredients(context.Background(), "photo-b")
	require.NoError(t, err)
	assert.Equal(t, 2, inner.detectCalls, "a different photo misses the cache")
}

func TestCachedServiceGenerate(t *testing.T) {
	inner := &countingAIService{}
	svc := NewCachedService(inner, newMemoryCache(), time.Hour, logger.NewNop())
	params := recipe.DefaultGenerationParameters()

	_, err := svc.GenerateRecipes(context.Background(), []string{"tomato"}, params)
	require.NoError(t, err)
	_, err = svc.GenerateRecipes(context.Background(), []string{"tomato"}, params)
	require.NoError(t, err)
	assert.Equal(t, 1, inner.generateCalls)

	// Any parameter change is a different key.
	params.AllowExtraIngredients = true
	_, err = svc.GenerateRecipes(context.Background(), []string{"tomato"}, params)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.generateCalls)
}
