// Package main is the entry point for the task board service. It wires all
// dependencies using samber/do v2, starts the HTTP server, and handles
// graceful shutdown on SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/do/v2"

	adapthttp "github.com/jsamuelsen11/taskboard-service/internal/adapters/http"
	"github.com/jsamuelsen11/taskboard-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen11/taskboard-service/internal/adapters/http/middleware"

	rediscache "github.com/jsamuelsen11/taskboard-service/internal/adapters/cache/redis"
	"github.com/jsamuelsen11/taskboard-service/internal/adapters/store/memory"
	"github.com/jsamuelsen11/taskboard-service/internal/adapters/store/postgres"
	"github.com/jsamuelsen11/taskboard-service/internal/app"
	"github.com/jsamuelsen11/taskboard-service/internal/platform/config"
	"github.com/jsamuelsen11/taskboard-service/internal/platform/health"
	"github.com/jsamuelsen11/taskboard-service/internal/platform/logging"
	"github.com/jsamuelsen11/taskboard-service/internal/platform/telemetry"
	"github.com/jsamuelsen11/taskboard-service/internal/ports"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const (
	serverShutdownTimeout = 15 * time.Second
	otelShutdownTimeout   = 5 * time.Second
	migrateTimeout        = 30 * time.Second
	readinessCheckTimeout = 2 * time.Second
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	profile := os.Getenv("APP_PROFILE")
	if profile == "" {
		return errors.New("APP_PROFILE environment variable is required (e.g. local, dev, qa, prod)")
	}

	// Bootstrap: config, logger, telemetry.
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)

	ctx := context.Background()
	otel, err := initTelemetry(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	// DI container.
	injector := do.New()

	do.ProvideValue(injector, cfg)
	do.ProvideValue(injector, logger)
	do.ProvideValue(injector, otel.metrics)

	registerDependencies(injector, cfg, logger)

	// Resolve the server (eagerly wires the full graph).
	server, err := do.Invoke[*adapthttp.Server](injector)
	if err != nil {
		return fmt.Errorf("resolving server: %w", err)
	}

	// Register health checkers after the graph is wired.
	be := do.MustInvoke[*backend](injector)
	registry := do.MustInvoke[ports.HealthRegistry](injector)
	for _, c := range be.checkers {
		registry.Register(c)
	}

	logger.Info("store ready",
		slog.String("driver", cfg.Store.Driver),
		slog.Bool("cache", cfg.Cache.Enabled),
	)

	// Start server in background.
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	// Wait for shutdown signal or server error.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	case err := <-serverErr:
		_ = be.Close()
		return fmt.Errorf("server failed: %w", err)
	}

	// Graceful shutdown: drain HTTP requests.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
	}

	// Wait for Start() goroutine to return.
	<-serverErr

	if err := be.Close(); err != nil {
		logger.Error("store shutdown error", slog.Any("error", err))
	}

	// Flush telemetry.
	otelCtx, otelCancel := context.WithTimeout(context.Background(), otelShutdownTimeout)
	defer otelCancel()

	if err := otel.Shutdown(otelCtx); err != nil {
		logger.Error("telemetry shutdown error", slog.Any("error", err))
	}

	logger.Info("shutdown complete")
	return nil
}

// otelProviders bundles OpenTelemetry provider lifecycle. All fields are nil
// when telemetry is disabled.
type otelProviders struct {
	tracer  *sdktrace.TracerProvider
	meter   *sdkmetric.MeterProvider
	metrics *telemetry.Metrics
}

// Shutdown flushes both providers. Nil-safe.
func (o *otelProviders) Shutdown(ctx context.Context) error {
	var errs []error
	if o.tracer != nil {
		if err := o.tracer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}
	}
	if o.meter != nil {
		if err := o.meter.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter shutdown: %w", err))
		}
	}
	return errors.Join(errs...)
}

func initTelemetry(ctx context.Context, cfg *config.Config) (*otelProviders, error) {
	if !cfg.Telemetry.Enabled {
		return &otelProviders{}, nil
	}

	tp, err := telemetry.InitTracer(ctx,
		cfg.Telemetry.ServiceName,
		cfg.Telemetry.Exporter,
		cfg.Telemetry.Endpoint,
	)
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	mp, err := telemetry.InitMeter(ctx,
		cfg.Telemetry.ServiceName,
		cfg.Telemetry.Exporter,
		cfg.Telemetry.Endpoint,
	)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, fmt.Errorf("init meter: %w", err)
	}

	metrics, err := telemetry.NewMetrics(mp, cfg.Telemetry.ServiceName)
	if err != nil {
		_ = tp.Shutdown(ctx)
		_ = mp.Shutdown(ctx)
		return nil, fmt.Errorf("creating metrics: %w", err)
	}

	return &otelProviders{
		tracer:  tp,
		meter:   mp,
		metrics: metrics,
	}, nil
}

// backend is the configured persistence stack: the store the services use,
// the components to report on readiness, and the resources to release.
type backend struct {
	store    ports.Store
	checkers []ports.HealthChecker
	closers  []func() error
}

// Close releases resources in reverse order of acquisition.
func (b *backend) Close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	b.closers = nil
	return errors.Join(errs...)
}

func openBackend(cfg *config.Config, metrics *telemetry.Metrics, logger *slog.Logger) (*backend, error) {
	be := &backend{}

	switch cfg.Store.Driver {
	case config.DriverPostgres:
		pg, err := postgres.Open(&cfg.Store, metrics, logger)
		if err != nil {
			return nil, err
		}
		be.closers = append(be.closers, pg.Close)

		ctx, cancel := context.WithTimeout(context.Background(), migrateTimeout)
		defer cancel()
		if err := pg.Migrate(ctx); err != nil {
			_ = be.Close()
			return nil, err
		}
		be.store = pg
		be.checkers = append(be.checkers, pg)
	default:
		be.store = memory.New()
	}

	if cfg.Cache.Enabled {
		client := rediscache.NewClient(&cfg.Cache)
		be.closers = append(be.closers, client.Close)

		cached := rediscache.New(be.store, client, cfg.Cache.TTL, logger)
		be.store = cached
		be.checkers = append(be.checkers, cached)
	}

	return be, nil
}

func registerDependencies(injector *do.RootScope, cfg *config.Config, logger *slog.Logger) {
	do.Provide(injector, func(i do.Injector) (*backend, error) {
		metrics := do.MustInvoke[*telemetry.Metrics](i)
		return openBackend(cfg, metrics, logger)
	})

	do.Provide(injector, func(i do.Injector) (ports.Store, error) {
		return do.MustInvoke[*backend](i).store, nil
	})

	do.Provide(injector, func(i do.Injector) (*app.UserService, error) {
		return app.NewUserService(do.MustInvoke[ports.Store](i), logger), nil
	})

	do.Provide(injector, func(i do.Injector) (ports.ProjectService, error) {
		store := do.MustInvoke[ports.Store](i)
		metrics := do.MustInvoke[*telemetry.Metrics](i)
		return app.NewProjectService(store, metrics, logger), nil
	})

	do.Provide(injector, func(i do.Injector) (ports.BoardService, error) {
		return app.NewBoardService(do.MustInvoke[ports.Store](i), logger), nil
	})

	do.Provide(injector, func(i do.Injector) (ports.ColumnService, error) {
		return app.NewColumnService(do.MustInvoke[ports.Store](i), logger), nil
	})

	do.Provide(injector, func(i do.Injector) (ports.CardService, error) {
		return app.NewCardService(do.MustInvoke[ports.Store](i), logger), nil
	})

	do.Provide(injector, func(_ do.Injector) (ports.HealthRegistry, error) {
		return health.New(health.WithCheckTimeout(readinessCheckTimeout)), nil
	})

	do.Provide(injector, func(i do.Injector) (adapthttp.Handlers, error) {
		return adapthttp.Handlers{
			Users:    handlers.NewUserHandler(do.MustInvoke[*app.UserService](i)),
			Projects: handlers.NewProjectHandler(do.MustInvoke[ports.ProjectService](i)),
			Boards: handlers.NewBoardHandler(
				do.MustInvoke[ports.BoardService](i),
				do.MustInvoke[ports.ColumnService](i),
			),
			Cards:  handlers.NewCardHandler(do.MustInvoke[ports.CardService](i)),
			Health: handlers.NewHealthHandler(do.MustInvoke[ports.HealthRegistry](i), rediscache.CheckerName),
		}, nil
	})

	do.Provide(injector, func(_ do.Injector) (*middleware.TokenVerifier, error) {
		return middleware.NewTokenVerifier(&cfg.Auth), nil
	})

	do.Provide(injector, func(i do.Injector) (nethttp.Handler, error) {
		h := do.MustInvoke[adapthttp.Handlers](i)
		verifier := do.MustInvoke[*middleware.TokenVerifier](i)
		users := do.MustInvoke[*app.UserService](i)
		metrics := do.MustInvoke[*telemetry.Metrics](i)

		return adapthttp.NewRouter(h,
			[]func(nethttp.Handler) nethttp.Handler{middleware.Identity(verifier, users)},
			middleware.Recovery(logger),
			middleware.RequestID(),
			middleware.CorrelationID(),
			middleware.OpenTelemetry(metrics),
			middleware.Logging(logger),
			middleware.Timeout(cfg.Server.WriteTimeout),
		), nil
	})

	do.Provide(injector, func(i do.Injector) (*adapthttp.Server, error) {
		handler := do.MustInvoke[nethttp.Handler](i)
		return adapthttp.NewServer(cfg.Server, handler, logger), nil
	})
}
