// Package app assembles the application: storage, services, HTTP
// surface and background jobs, under one lifecycle.
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/cafeops/orderdesk/internal/app/httpapi"
	"github.com/cafeops/orderdesk/internal/app/services/analytics"
	"github.com/cafeops/orderdesk/internal/app/services/catalog"
	"github.com/cafeops/orderdesk/internal/app/services/health"
	"github.com/cafeops/orderdesk/internal/app/services/orders"
	"github.com/cafeops/orderdesk/internal/app/storage"
	"github.com/cafeops/orderdesk/internal/app/storage/memory"
	"github.com/cafeops/orderdesk/internal/app/storage/postgres"
	"github.com/cafeops/orderdesk/internal/app/storage/rediscache"
	"github.com/cafeops/orderdesk/internal/app/system"
	"github.com/cafeops/orderdesk/internal/config"
	"github.com/cafeops/orderdesk/internal/middleware"
	"github.com/cafeops/orderdesk/pkg/logger"
)

// Application owns every long-lived component of the process.
type Application struct {
	cfg     *config.Config
	log     *logger.Logger
	manager *system.Manager

	db    *sqlx.DB
	cache *rediscache.Cache

	server *http.Server
}

// New wires the application from configuration. Nothing starts running
// until Start is called.
func New(cfg *config.Config) (*Application, error) {
	log := logger.New(cfg.Logging)

	app := &Application{
		cfg:     cfg,
		log:     log.WithField("component", "app"),
		manager: system.NewManager(),
	}

	var menuStore storage.MenuStore
	var orderStore storage.OrderStore
	if cfg.Database.DSN != "" {
		db, err := postgres.Open(cfg.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := postgres.Migrate(db); err != nil {
			db.Close()
			return nil, err
		}
		store := postgres.New(db)
		app.db = db
		menuStore, orderStore = store, store
		app.log.Info("using postgres storage")
	} else {
		store := memory.New()
		menuStore, orderStore = store, store
		app.log.Warn("no database configured, using in-memory storage")
	}

	catalogSvc := catalog.New(menuStore, log.WithField("component", "catalog"))
	orderSvc := orders.New(menuStore, orderStore, log.WithField("component", "orders"))
	analyticsSvc := analytics.New(orderStore, log.WithField("component", "analytics"))

	if cfg.Redis.Addr != "" {
		cache, err := rediscache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.TTL, log.WithField("component", "rediscache"))
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		app.cache = cache
		analyticsSvc.WithCache(cache)
		app.log.Info("analytics cache enabled")
	}

	if cfg.Reporter.Enabled {
		reporter := analytics.NewReporter(analyticsSvc, log.WithField("component", "reporter")).
			WithSchedule(cfg.Reporter.Schedule)
		if err := app.manager.Register(reporter); err != nil {
			return nil, err
		}
	}

	handler := httpapi.NewHandler(
		catalogSvc,
		orderSvc,
		analyticsSvc,
		health.NewService(),
		log.WithField("component", "httpapi"),
	)
	app.server = &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      app.buildChain(handler.Router(), log),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return app, nil
}

// buildChain wraps the router with the transport middleware. Order
// matters: metrics observe everything, auth runs before the rate
// limiter so throttling keys on the authenticated user.
func (a *Application) buildChain(router http.Handler, log *logger.Logger) http.Handler {
	handler := router
	if a.cfg.RateLimit.Enabled {
		handler = middleware.NewRateLimiter(
			a.cfg.RateLimit.RequestsPerSecond,
			a.cfg.RateLimit.Burst,
			log.WithField("component", "ratelimit"),
		).Handler(handler)
	}
	handler = middleware.NewAuthMiddleware(
		a.cfg.Auth.Secret,
		log.WithField("component", "auth"),
		[]string{"/healthz", "/metrics"},
	).Handler(handler)
	handler = middleware.NewCORSMiddleware(a.cfg.CORS.AllowedOrigins).Handler(handler)
	handler = middleware.NewMetricsMiddleware(log.WithField("component", "http")).Handler(handler)
	return handler
}

// Start launches background services and the HTTP listener, then blocks
// until ctx is cancelled or the listener fails.
func (a *Application) Start(ctx context.Context) error {
	if err := a.manager.Start(ctx); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.WithField("addr", a.server.Addr).Info("http server listening")
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}
}

// Stop shuts everything down in reverse start order.
func (a *Application) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	var firstErr error
	if err := a.server.Shutdown(ctx); err != nil {
		firstErr = fmt.Errorf("shutdown http server: %w", err)
	}
	if err := a.manager.Stop(ctx); err != nil && firstErr == nil {
		firstErr = err
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	a.log.Info("application stopped")
	return firstErr
}
