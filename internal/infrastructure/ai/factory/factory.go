// Package factory selects and assembles the configured AI provider.
package factory

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/fridgechef/api/internal/infrastructure/ai"
	"github.com/fridgechef/api/internal/infrastructure/ai/gemini"
	"github.com/fridgechef/api/internal/infrastructure/ai/openai"
	"github.com/fridgechef/api/internal/infrastructure/config"
	"github.com/fridgechef/api/internal/ports/outbound"
)

// NewAIService builds the AIService for the configured provider, wrapped
// with response caching when enabled.
func NewAIService(cfg config.AIConfig, cache outbound.CacheRepository, logger *zap.Logger) (outbound.AIService, error) {
	var service outbound.AIService
	switch cfg.Provider {
	case "openai":
		service = openai.NewClient(cfg, logger)
	case "gemini":
		service = gemini.NewClient(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.Provider)
	}

	logger.Info("AI provider configured", zap.String("provider", cfg.Provider))

	if cfg.EnableCache && cache != nil {
		service = ai.NewCachedService(service, cache, cfg.CacheTTL, logger)
	}
	return service, nil
}
