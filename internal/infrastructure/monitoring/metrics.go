// Package monitoring provides Prometheus metrics collection.
package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector registers and records the service metrics.
type MetricsCollector struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpActiveRequests  prometheus.Gauge

	aiRequestsTotal   *prometheus.CounterVec
	aiRequestDuration *prometheus.HistogramVec

	recipesGeneratedTotal prometheus.Counter
	recipesSavedTotal     prometheus.Counter
	shoppingListsTotal    prometheus.Counter
	usersRegisteredTotal  prometheus.Counter
}

// NewMetricsCollector creates the metrics collector on the default registry.
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		httpRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		httpRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status_code"},
		),
		httpActiveRequests: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_active_requests",
				Help: "Number of in-flight HTTP requests",
			},
		),
		aiRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ai_requests_total",
				Help: "Total number of AI provider requests",
			},
			[]string{"operation", "status"},
		),
		aiRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ai_request_duration_seconds",
				Help:    "AI provider request duration in seconds",
				Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60},
			},
			[]string{"operation"},
		),
		recipesGeneratedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "recipes_generated_total",
				Help: "Total number of recipes produced by generation",
			},
		),
		recipesSavedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "recipes_saved_total",
				Help: "Total number of recipes saved",
			},
		),
		shoppingListsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "shopping_lists_created_total",
				Help: "Total number of shopping lists created",
			},
		),
		usersRegisteredTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "users_registered_total",
				Help: "Total number of registered users",
			},
		),
	}
}

// Middleware records request count, duration and in-flight gauge. Paths are
// reported as route patterns so ids do not explode cardinality.
func (m *MetricsCollector) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			m.httpActiveRequests.Inc()
			defer m.httpActiveRequests.Dec()

			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			path := r.URL.Path
			if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
				if pattern := routeCtx.RoutePattern(); pattern != "" {
					path = pattern
				}
			}

			status := strconv.Itoa(ww.Status())
			m.httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
			m.httpRequestDuration.WithLabelValues(r.Method, path, status).Observe(time.Since(start).Seconds())
		})
	}
}

// RecordAIRequest records one AI provider round trip.
func (m *MetricsCollector) RecordAIRequest(operation, status string, duration time.Duration) {
	m.aiRequestsTotal.WithLabelValues(operation, status).Inc()
	m.aiRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordRecipesGenerated counts recipes produced by one generation.
func (m *MetricsCollector) RecordRecipesGenerated(count int) {
	m.recipesGeneratedTotal.Add(float64(count))
}

// RecordRecipeSaved counts one saved recipe.
func (m *MetricsCollector) RecordRecipeSaved() {
	m.recipesSavedTotal.Inc()
}

// RecordShoppingListCreated counts one created shopping list.
func (m *MetricsCollector) RecordShoppingListCreated() {
	m.shoppingListsTotal.Inc()
}

// RecordUserRegistered counts one registration.
func (m *MetricsCollector) RecordUserRegistered() {
	m.usersRegisteredTotal.Inc()
}

// Handler serves the Prometheus scrape endpoint.
func (m *MetricsCollector) Handler() http.Handler {
	return promhttp.Handler()
}
