// Package apiserver provides the JSON API HTTP server.
package apiserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/fridgechef/api/internal/infrastructure/config"
	"github.com/fridgechef/api/internal/infrastructure/http/handlers"
	"github.com/fridgechef/api/internal/infrastructure/http/middleware"
	"github.com/fridgechef/api/internal/infrastructure/monitoring"
	"github.com/fridgechef/api/internal/infrastructure/security"
	"github.com/fridgechef/api/internal/ports/inbound"
	"github.com/fridgechef/api/pkg/healthcheck"
)

// Server is the JSON API HTTP server.
type Server struct {
	config *config.Config
	logger *zap.Logger
	server *http.Server
	router *chi.Mux
}

// Services bundles the application services the server drives.
type Services struct {
	Scans    inbound.ScanService
	Recipes  inbound.RecipeService
	Shopping inbound.ShoppingService
	Users    inbound.UserService
}

// New creates the API server with all routes configured.
func New(
	cfg *config.Config,
	logger *zap.Logger,
	services Services,
	tokens *security.TokenService,
	metrics *monitoring.MetricsCollector,
	health *healthcheck.HealthCheck,
) *Server {
	s := &Server{
		config: cfg,
		logger: logger,
	}

	s.router = s.setupRoutes(services, tokens, metrics, health)
	s.server = &http.Server{
		Addr:           fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:        s.router,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	return s
}

func (s *Server) setupRoutes(
	services Services,
	tokens *security.TokenService,
	metrics *monitoring.MetricsCollector,
	health *healthcheck.HealthCheck,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(s.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Security())
	r.Use(middleware.CORS(s.config))
	r.Use(middleware.RateLimit(s.config.RateLimit))
	r.Use(metrics.Middleware())
	r.Use(chimiddleware.Timeout(90 * time.Second))
	r.Use(chimiddleware.Compress(5))

	r.Get("/health", health.Handler())
	r.Get("/health/live", health.LivenessHandler())
	r.Get("/health/ready", health.ReadinessHandler())
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		s.setupAPIV1Routes(r, services, tokens, metrics)
	})

	return r
}

func (s *Server) setupAPIV1Routes(
	r chi.Router,
	services Services,
	tokens *security.TokenService,
	metrics *monitoring.MetricsCollector,
) {
	authH := handlers.NewAuthHandlers(services.Users, metrics, s.logger)
	scanH := handlers.NewScanHandlers(services.Scans, s.config.Server.MaxPhotoBytes, s.logger)
	recipeH := handlers.NewRecipeHandlers(services.Recipes, services.Scans, metrics, s.logger)
	shoppingH := handlers.NewShoppingHandlers(services.Shopping, metrics, s.logger)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authH.Register)
		r.Post("/login", authH.Login)
	})

	r.Route("/scan", func(r chi.Router) {
		r.Use(middleware.Authenticate(tokens, s.logger))
		r.Post("/photo", scanH.DetectFromPhoto)
		r.Get("/candidates", scanH.Candidates)
		r.Post("/candidates", scanH.AddManual)
		r.Delete("/candidates", scanH.Clear)
		r.Post("/candidates/select-all", scanH.SelectAll)
		r.Post("/candidates/{id}/toggle", scanH.ToggleSelection)
		r.Delete("/candidates/{id}", scanH.RemoveCandidate)
	})

	r.Route("/recipes", func(r chi.Router) {
		r.Use(middleware.Authenticate(tokens, s.logger))
		r.Post("/generate", recipeH.Generate)
		r.Get("/generated", recipeH.Generated)
		r.Delete("/generated", recipeH.ClearGenerated)
		r.Get("/saved", recipeH.Saved)
		r.Get("/{id}", recipeH.Get)
		r.Put("/{id}", recipeH.Update)
		r.Delete("/{id}", recipeH.Delete)
		r.Post("/{id}/save", recipeH.Save)
		r.Delete("/{id}/save", recipeH.Unsave)
	})

	r.Route("/shopping-lists", func(r chi.Router) {
		r.Use(middleware.Authenticate(tokens, s.logger))
		r.Get("/", shoppingH.List)
		r.Post("/", shoppingH.Create)
		r.Delete("/{id}", shoppingH.Delete)
		r.Post("/{id}/items/{itemId}/toggle", shoppingH.ToggleItem)
	})
}

// Router exposes the configured router, mainly for tests.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start begins serving requests. It blocks until the listener fails or the
// server shuts down.
func (s *Server) Start() error {
	s.logger.Info("starting API server", zap.String("address", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")
	return s.server.Shutdown(ctx)
}
