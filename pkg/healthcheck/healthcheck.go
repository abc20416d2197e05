// Package healthcheck provides health and readiness check functionality
// following the Health Check API pattern for cloud-native applications.
package healthcheck

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Status represents the health status of the service or a single check.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
	StatusDegraded  Status = "degraded"
)

// Check is the outcome of a single dependency probe.
type Check struct {
	Name        string        `json:"name"`
	Status      Status        `json:"status"`
	Message     string        `json:"message,omitempty"`
	LastChecked time.Time     `json:"last_checked"`
	Duration    time.Duration `json:"duration_ms"`
}

// Response aggregates all checks.
type Response struct {
	Status        Status        `json:"status"`
	Version       string        `json:"version"`
	Timestamp     time.Time     `json:"timestamp"`
	Checks        []Check       `json:"checks"`
	TotalDuration time.Duration `json:"total_duration_ms"`
}

// CheckFunc probes one dependency. A nil error means healthy.
type CheckFunc func(ctx context.Context) error

// HealthCheck runs registered probes and caches the aggregate briefly so
// aggressive orchestrator polling does not hammer dependencies.
type HealthCheck struct {
	version  string
	logger   *zap.Logger
	mu       sync.RWMutex
	checkers map[string]CheckFunc
	cache    *Response
	cacheTTL time.Duration
}

// New creates a health check registry.
func New(version string, logger *zap.Logger) *HealthCheck {
	return &HealthCheck{
		version:  version,
		logger:   logger,
		checkers: make(map[string]CheckFunc),
		cacheTTL: 5 * time.Second,
	}
}

// Register adds a named probe.
func (h *HealthCheck) Register(name string, fn CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checkers[name] = fn
}

// SetCacheTTL overrides how long an aggregate result is reused.
func (h *HealthCheck) SetCacheTTL(ttl time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.cacheTTL = ttl
}

// Check runs all probes concurrently and aggregates their status.
func (h *HealthCheck) Check(ctx context.Context) Response {
	h.mu.RLock()
	if h.cache != nil && time.Since(h.cache.Timestamp) < h.cacheTTL {
		cached := *h.cache
		h.mu.RUnlock()
		return cached
	}
	checkers := make(map[string]CheckFunc, len(h.checkers))
	for name, fn := range h.checkers {
		checkers[name] = fn
	}
	h.mu.RUnlock()

	start := time.Now()
	response := Response{
		Version:   h.version,
		Timestamp: start,
		Status:    StatusHealthy,
		Checks:    []Check{},
	}

	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var wg sync.WaitGroup
	results := make(chan Check, len(checkers))

	for name, fn := range checkers {
		wg.Add(1)
		go func(name string, fn CheckFunc) {
			defer wg.Done()
			probeStart := time.Now()
			check := Check{
				Name:        name,
				Status:      StatusHealthy,
				LastChecked: probeStart,
			}
			if err := fn(checkCtx); err != nil {
				check.Status = StatusUnhealthy
				check.Message = err.Error()
			}
			check.Duration = time.Since(probeStart) / time.Millisecond
			results <- check
		}(name, fn)
	}

	wg.Wait()
	close(results)

	unhealthy := 0
	for check := range results {
		response.Checks = append(response.Checks, check)
		if check.Status == StatusUnhealthy {
			unhealthy++
			h.logger.Warn("health check failed",
				zap.String("check", check.Name),
				zap.String("message", check.Message),
			)
		}
	}

	switch {
	case unhealthy == 0:
	case unhealthy < len(response.Checks):
		response.Status = StatusDegraded
	default:
		response.Status = StatusUnhealthy
	}
	response.TotalDuration = time.Since(start) / time.Millisecond

	h.mu.Lock()
	h.cache = &response
	h.mu.Unlock()

	return response
}

// Handler serves the full health report.
func (h *HealthCheck) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := h.Check(r.Context())

		statusCode := http.StatusOK
		if response.Status == StatusUnhealthy {
			statusCode = http.StatusServiceUnavailable
		}
		writeJSON(w, statusCode, response)
	}
}

// LivenessHandler answers liveness probes. Responding at all means alive.
func (h *HealthCheck) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":    "alive",
			"timestamp": time.Now(),
		})
	}
}

// ReadinessHandler answers readiness probes. Ready only when every probe
// passes.
func (h *HealthCheck) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := h.Check(r.Context())

		if response.Status != StatusHealthy {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{
				"status": "not_ready",
				"checks": response.Checks,
			})
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"status":    "ready",
			"timestamp": time.Now(),
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
