// Package main is the entry point for the FridgeChef web frontend. It
// serves the HTMX UI and talks to the recipe backend API for recognition,
// generation and persistence.
package main

import (
	"context"
	"fmt"
	"net/http"

	recipeapp "github.com/fridgechef/fridgechef/internal/application/recipe"
	"github.com/fridgechef/fridgechef/internal/application/scan"
	"github.com/fridgechef/fridgechef/internal/infrastructure/backend"
	"github.com/fridgechef/fridgechef/internal/infrastructure/cache"
	"github.com/fridgechef/fridgechef/internal/infrastructure/config"
	"github.com/fridgechef/fridgechef/internal/infrastructure/http/webserver"
	"github.com/fridgechef/fridgechef/internal/infrastructure/monitoring"
	"github.com/fridgechef/fridgechef/pkg/healthcheck"
	"github.com/fridgechef/fridgechef/pkg/logger"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func main() {
	app := fx.New(
		fx.NopLogger,

		fx.Provide(func() (*config.Config, error) {
			return config.Load("")
		}),

		fx.Provide(func(cfg *config.Config) (*zap.Logger, error) {
			return logger.New(logger.Config{
				Level:       cfg.App.LogLevel,
				Format:      cfg.App.LogFormat,
				Development: cfg.App.Debug,
			})
		}),

		fx.Provide(monitoring.NewMetricsCollector),

		// Backend client, wrapped with canned responses in mock mode
		fx.Provide(func(cfg *config.Config, log *zap.Logger, metrics *monitoring.MetricsCollector) backend.Client {
			api := backend.NewAPIClient(cfg, log, metrics)
			if cfg.Backend.MockMode {
				log.Info("Mock backend mode enabled: recognition and generation use canned data")
				return backend.NewMockClient(api, cfg, log)
			}
			return api
		}),

		// Session persistence is optional: without Redis, sessions are
		// memory-only and logins do not survive a restart.
		fx.Provide(func(cfg *config.Config, log *zap.Logger) *cache.SessionCache {
			if !cfg.Redis.Enabled {
				return nil
			}
			client, err := cache.NewRedisClient(&cfg.Redis, log)
			if err != nil {
				log.Warn("Redis unavailable, sessions are memory-only", zap.Error(err))
				return nil
			}
			return cache.NewSessionCache(client, cfg.Session.TTL, log)
		}),

		fx.Provide(webserver.NewSessionStore),
		fx.Provide(scan.NewService),
		fx.Provide(recipeapp.NewChef),

		fx.Provide(func(cfg *config.Config, log *zap.Logger) *healthcheck.HealthCheck {
			return healthcheck.New(cfg.App.Version, log)
		}),

		fx.Provide(webserver.NewWebServer),

		fx.Invoke(registerHealthChecks),
		fx.Invoke(registerLifecycleHooks),
	)

	app.Run()
}

func registerHealthChecks(hc *healthcheck.HealthCheck, client backend.Client, cfg *config.Config) {
	hc.Register("backend", healthcheck.CheckerFunc(func(ctx context.Context) healthcheck.Check {
		return healthcheck.RunChecker(ctx, "backend", func(ctx context.Context) (healthcheck.Status, string) {
			if client.Ping(ctx) {
				return healthcheck.StatusHealthy, "backend reachable"
			}
			return healthcheck.StatusUnhealthy, "backend not reachable at " + cfg.Backend.BaseURL
		})
	}))
}

func registerLifecycleHooks(
	lc fx.Lifecycle,
	cfg *config.Config,
	log *zap.Logger,
	server *webserver.WebServer,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Starting FridgeChef web frontend",
				zap.Int("port", cfg.Server.Port),
				zap.String("environment", cfg.App.Environment),
				zap.String("backend_url", cfg.Backend.BaseURL),
				zap.Bool("mock_mode", cfg.Backend.MockMode),
			)
			fmt.Printf("FridgeChef %s listening on http://%s:%d\n",
				cfg.App.Version, cfg.Server.Host, cfg.Server.Port)

			go func() {
				if err := server.Start(); err != nil && err != http.ErrServerClosed {
					log.Fatal("Web server failed to start", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return server.Shutdown(ctx)
		},
	})
}
