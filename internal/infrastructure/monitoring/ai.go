package monitoring

import (
	"context"
	"time"

	"github.com/fridgechef/api/internal/domain/recipe"
	"github.com/fridgechef/api/internal/ports/outbound"
)

// InstrumentedAIService decorates an AI service with request metrics.
type InstrumentedAIService struct {
	inner   outbound.AIService
	metrics *MetricsCollector
}

// NewInstrumentedAIService wraps an AI service with metrics recording.
func NewInstrumentedAIService(inner outbound.AIService, metrics *MetricsCollector) outbound.AIService {
	return &InstrumentedAIService{
		inner:   inner,
		metrics: metrics,
	}
}

func (s *InstrumentedAIService) DetectIngredients(ctx context.Context, imageBase64 string) (*outbound.DetectionResult, error) {
	start := time.Now()
	result, err := s.inner.DetectIngredients(ctx, imageBase64)
	s.metrics.RecordAIRequest("detect", statusLabel(err), time.Since(start))
	return result, err
}

func (s *InstrumentedAIService) GenerateRecipes(ctx context.Context, names []string, params recipe.GenerationParameters) ([]outbound.GeneratedRecipe, error) {
	start := time.Now()
	result, err := s.inner.GenerateRecipes(ctx, names, params)
	s.metrics.RecordAIRequest("generate", statusLabel(err), time.Since(start))
	return result, err
}

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
