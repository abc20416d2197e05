// Package container provides dependency injection using Uber FX.
package container

import (
	"context"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/fridgechef/api/internal/application/ingredient"
	"github.com/fridgechef/api/internal/application/recipe"
	"github.com/fridgechef/api/internal/application/shopping"
	"github.com/fridgechef/api/internal/application/user"
	"github.com/fridgechef/api/internal/infrastructure/ai/factory"
	"github.com/fridgechef/api/internal/infrastructure/config"
	"github.com/fridgechef/api/internal/infrastructure/http/apiserver"
	"github.com/fridgechef/api/internal/infrastructure/monitoring"
	gormrepo "github.com/fridgechef/api/internal/infrastructure/persistence/gorm"
	"github.com/fridgechef/api/internal/infrastructure/persistence/memory"
	"github.com/fridgechef/api/internal/infrastructure/persistence/migrations"
	"github.com/fridgechef/api/internal/infrastructure/persistence/postgres"
	redisrepo "github.com/fridgechef/api/internal/infrastructure/persistence/redis"
	"github.com/fridgechef/api/internal/infrastructure/persistence/sqlite"
	"github.com/fridgechef/api/internal/infrastructure/security"
	"github.com/fridgechef/api/internal/ports/inbound"
	"github.com/fridgechef/api/internal/ports/outbound"
	"github.com/fridgechef/api/pkg/healthcheck"
	"github.com/fridgechef/api/pkg/logger"
)

// Module assembles the whole application graph.
var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	MetricsModule,
	DatabaseModule,
	CacheModule,
	AIModule,
	SecurityModule,
	RepositoryModule,
	ServiceModule,
	HealthModule,
	HTTPModule,
	LifecycleModule,
)

// ConfigModule provides configuration.
var ConfigModule = fx.Provide(
	func() (*config.Config, error) {
		return config.Load("")
	},
)

// LoggerModule provides structured logging.
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, error) {
		return logger.New(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.App.Debug,
		})
	},
)

// MetricsModule provides the Prometheus collector.
var MetricsModule = fx.Provide(
	monitoring.NewMetricsCollector,
)

// DatabaseModule provides the GORM database connection. Postgres is the
// production driver; anything else falls back to SQLite so the service runs
// without external infrastructure.
var DatabaseModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
		if cfg.Database.Driver == "postgres" {
			cm, err := postgres.NewConnectionManager(cfg, log)
			if err != nil {
				return nil, fmt.Errorf("failed to connect to postgres: %w", err)
			}

			if cfg.Database.AutoMigrate {
				migrator, err := migrations.New(cm.GetSQLDB(), log)
				if err != nil {
					return nil, err
				}
				defer migrator.Close()
				if err := migrator.Up(); err != nil {
					return nil, err
				}
			}

			return cm.GetDB(), nil
		}

		logLevel := gormLogger.Silent
		if cfg.App.Debug {
			logLevel = gormLogger.Info
		}

		dbPath := ":memory:"
		if cfg.Database.Database != "" {
			dbPath = cfg.Database.Database + ".db"
		}

		db, err := sqlite.SetupDatabase(dbPath, logLevel)
		if err != nil {
			return nil, fmt.Errorf("failed to setup sqlite database: %w", err)
		}

		log.Info("connected to sqlite database", zap.String("path", dbPath))
		return db, nil
	},
)

// CacheModule provides the cache repository. Redis when configured, with an
// in-process fallback so caching never blocks startup.
var CacheModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) outbound.CacheRepository {
		if cfg.Redis.Host != "" {
			client, err := redisrepo.NewClient(cfg.Redis)
			if err == nil {
				log.Info("connected to redis",
					zap.String("host", cfg.Redis.Host),
					zap.Int("port", cfg.Redis.Port),
				)
				return redisrepo.NewCacheRepository(client, log)
			}
			log.Warn("redis unavailable, using in-memory cache", zap.Error(err))
		}
		return memory.NewCacheRepository()
	},
)

// AIModule provides the AI service: the configured provider adapter, cached,
// then instrumented.
var AIModule = fx.Provide(
	func(
		cfg *config.Config,
		cache outbound.CacheRepository,
		metrics *monitoring.MetricsCollector,
		log *zap.Logger,
	) (outbound.AIService, error) {
		svc, err := factory.NewAIService(cfg.AI, cache, log)
		if err != nil {
			return nil, err
		}
		return monitoring.NewInstrumentedAIService(svc, metrics), nil
	},
)

// SecurityModule provides token issuance and validation.
var SecurityModule = fx.Provide(
	func(cfg *config.Config) *security.TokenService {
		return security.NewTokenService(cfg.Auth)
	},
	func(tokens *security.TokenService) user.TokenIssuer {
		return tokens
	},
)

// RepositoryModule provides the GORM repositories.
var RepositoryModule = fx.Provide(
	gormrepo.NewRecipeRepository,
	gormrepo.NewShoppingListRepository,
	gormrepo.NewUserRepository,
)

// ServiceModule provides the application services behind their inbound
// ports.
var ServiceModule = fx.Provide(
	ingredient.NewService,
	recipe.NewService,
	shopping.NewService,
	user.NewService,

	func(s *ingredient.Service) inbound.ScanService { return s },
	func(s *recipe.Service) inbound.RecipeService { return s },
	func(s *recipe.Service) shopping.RecipeResolver { return s },
	func(s *shopping.Service) inbound.ShoppingService { return s },
	func(s *user.Service) inbound.UserService { return s },
)

// HealthModule provides the health check registry with database and cache
// probes.
var HealthModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger, db *gorm.DB, cache outbound.CacheRepository) *healthcheck.HealthCheck {
		hc := healthcheck.New(cfg.App.Version, log)

		hc.Register("database", func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		})

		hc.Register("cache", func(ctx context.Context) error {
			_, err := cache.Exists(ctx, "healthcheck:probe")
			return err
		})

		return hc
	},
)

// HTTPModule provides the API server.
var HTTPModule = fx.Provide(
	func(
		scans inbound.ScanService,
		recipes inbound.RecipeService,
		lists inbound.ShoppingService,
		users inbound.UserService,
	) apiserver.Services {
		return apiserver.Services{
			Scans:    scans,
			Recipes:  recipes,
			Shopping: lists,
			Users:    users,
		}
	},
	apiserver.New,
)

// LifecycleModule starts and stops the HTTP server with the fx app.
var LifecycleModule = fx.Invoke(RegisterLifecycleHooks)

// RegisterLifecycleHooks wires startup and shutdown.
func RegisterLifecycleHooks(
	lc fx.Lifecycle,
	cfg *config.Config,
	log *zap.Logger,
	db *gorm.DB,
	server *apiserver.Server,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("starting application",
				zap.String("name", cfg.App.Name),
				zap.String("version", cfg.App.Version),
				zap.String("environment", cfg.App.Environment),
			)

			go func() {
				if err := server.Start(); err != nil {
					log.Fatal("HTTP server failed", zap.Error(err))
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down application")

			if err := server.Shutdown(ctx); err != nil {
				log.Error("failed to shutdown HTTP server", zap.Error(err))
			}

			if sqlDB, err := db.DB(); err == nil {
				if err := sqlDB.Close(); err != nil {
					log.Error("failed to close database connection", zap.Error(err))
				}
			}

			_ = log.Sync()
			return nil
		},
	})
}
