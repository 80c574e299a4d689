// Package main is the entry point for the reconciler. It wires all
// dependencies using samber/do v2, starts the engine and the HTTP server, and
// shuts them down in order on SIGINT/SIGTERM.
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

	adapthttp "github.com/jsamuelsen11/resource-reconciler/internal/adapters/http"
	"github.com/jsamuelsen11/resource-reconciler/internal/adapters/http/handlers"
	"github.com/jsamuelsen11/resource-reconciler/internal/adapters/http/middleware"

	"github.com/jsamuelsen11/resource-reconciler/internal/adapters/journal"
	"github.com/jsamuelsen11/resource-reconciler/internal/adapters/journal/memory"
	"github.com/jsamuelsen11/resource-reconciler/internal/adapters/journal/postgres"
	"github.com/jsamuelsen11/resource-reconciler/internal/adapters/journal/sqlite"
	"github.com/jsamuelsen11/resource-reconciler/internal/adapters/publish/kafka"
	"github.com/jsamuelsen11/resource-reconciler/internal/adapters/publish/redis"
	"github.com/jsamuelsen11/resource-reconciler/internal/adapters/publish/webhook"
	"github.com/jsamuelsen11/resource-reconciler/internal/app"
	"github.com/jsamuelsen11/resource-reconciler/internal/app/engine"
	"github.com/jsamuelsen11/resource-reconciler/internal/domain/declaration"
	"github.com/jsamuelsen11/resource-reconciler/internal/platform/backoff"
	"github.com/jsamuelsen11/resource-reconciler/internal/platform/config"
	"github.com/jsamuelsen11/resource-reconciler/internal/platform/health"
	"github.com/jsamuelsen11/resource-reconciler/internal/platform/httpclient"
	"github.com/jsamuelsen11/resource-reconciler/internal/platform/logging"
	"github.com/jsamuelsen11/resource-reconciler/internal/platform/telemetry"
	"github.com/jsamuelsen11/resource-reconciler/internal/ports"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const (
	startupTimeout        = 30 * time.Second
	serverShutdownTimeout = 15 * time.Second
	engineDrainTimeout    = 30 * time.Second
	otelShutdownTimeout   = 5 * time.Second
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
		return errors.New("APP_PROFILE environment variable is required (e.g. local, test, prod)")
	}

	// Bootstrap: config, logger, telemetry.
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	slog.SetDefault(logger)

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

	// Resolve the server (eagerly wires the full graph, opening the journal
	// and connecting the publishers).
	server, err := do.Invoke[*adapthttp.Server](injector)
	if err != nil {
		_ = otel.Shutdown(ctx)
		return fmt.Errorf("resolving server: %w", err)
	}

	eventLog := do.MustInvoke[*journal.Breaker](injector)
	listeners := do.MustInvoke[[]ports.EventListener](injector)
	eng := do.MustInvoke[*engine.Engine](injector)
	declarations := do.MustInvoke[*app.DeclarationService](injector)

	// Register health checkers after the graph is wired.
	registry := do.MustInvoke[ports.HealthRegistry](injector)
	registry.Register(eng)
	registry.Register(eventLog)
	for _, l := range listeners {
		if hc, ok := l.(ports.HealthChecker); ok {
			registry.Register(hc)
		}
	}

	if _, err := server.Listen(ctx); err != nil {
		closeAll(logger, listeners, eventLog)
		_ = otel.Shutdown(ctx)
		return err
	}
	eng.Start(ctx)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Serve(context.Background())
	}()

	// Wait for shutdown signal or server error.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	case err := <-serverErr:
		runErr = fmt.Errorf("server failed: %w", err)
	}

	// Graceful shutdown: stop taking requests first.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", logging.Err(err))
	}
	if runErr == nil {
		<-serverErr
	}

	// Let dispatched child commands reach the engine, then drain its workers.
	drainCtx, drainCancel := context.WithTimeout(context.Background(), engineDrainTimeout)
	defer drainCancel()

	if err := declarations.Drain(drainCtx); err != nil {
		logger.Error("declaration drain error", logging.Err(err))
	}
	if err := eng.Shutdown(drainCtx); err != nil {
		logger.Error("engine shutdown error", logging.Err(err))
	}

	// Nothing appends past this point.
	closeAll(logger, listeners, eventLog)

	// Flush telemetry.
	otelCtx, otelCancel := context.WithTimeout(context.Background(), otelShutdownTimeout)
	defer otelCancel()

	if err := otel.Shutdown(otelCtx); err != nil {
		logger.Error("telemetry shutdown error", logging.Err(err))
	}

	logger.Info("shutdown complete")
	return runErr
}

// closeAll closes every publisher and then the journal.
func closeAll(logger *slog.Logger, listeners []ports.EventListener, eventLog *journal.Breaker) {
	for _, l := range listeners {
		c, ok := l.(interface{ Close() error })
		if !ok {
			continue
		}
		if err := c.Close(); err != nil {
			logger.Error("publisher close error", slog.String("publisher", l.Name()), logging.Err(err))
		}
	}
	if err := eventLog.Close(); err != nil {
		logger.Error("journal close error", logging.Err(err))
	}
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

// openJournal opens the event log selected by cfg.Journal.Driver.
func openJournal(ctx context.Context, cfg config.JournalConfig) (ports.EventLog, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		return sqlite.Open(ctx, cfg.DSN)
	case config.DriverPostgres:
		return postgres.Open(ctx, cfg.DSN, cfg.MaxOpenConns)
	default:
		return memory.New(), nil
	}
}

// openPublishers connects every backend listed in cfg.Backends, closing the
// ones already opened if a later one fails.
func openPublishers(
	ctx context.Context,
	cfg config.PublishConfig,
	metrics *telemetry.Metrics,
	logger *slog.Logger,
) ([]ports.EventListener, error) {
	var listeners []ports.EventListener
	fail := func(err error) ([]ports.EventListener, error) {
		for _, l := range listeners {
			if c, ok := l.(interface{ Close() error }); ok {
				_ = c.Close()
			}
		}
		return nil, err
	}

	for _, backend := range cfg.Backends {
		switch backend {
		case config.BackendRedis:
			p, err := redis.New(ctx, redis.Config{URL: cfg.Redis.URL, Stream: cfg.Redis.Stream, MaxLen: cfg.Redis.MaxLen})
			if err != nil {
				return fail(fmt.Errorf("redis publisher: %w", err))
			}
			listeners = append(listeners, p)
		case config.BackendKafka:
			p, err := kafka.New(kafka.Config{Brokers: cfg.Kafka.Brokers, Topic: cfg.Kafka.Topic})
			if err != nil {
				return fail(fmt.Errorf("kafka publisher: %w", err))
			}
			listeners = append(listeners, p)
		case config.BackendWebhook:
			client := httpclient.New(&cfg.Webhook.Client, config.BackendWebhook, metrics, logger)
			listeners = append(listeners, webhook.New(client, cfg.Webhook.URL))
		}
		logger.Info("event publisher enabled", slog.String("publisher", backend))
	}
	return listeners, nil
}

func registerDependencies(injector *do.RootScope, cfg *config.Config, logger *slog.Logger) {
	do.Provide(injector, func(_ do.Injector) (*journal.Breaker, error) {
		ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
		defer cancel()

		log, err := openJournal(ctx, cfg.Journal)
		if err != nil {
			return nil, fmt.Errorf("opening %s journal: %w", cfg.Journal.Driver, err)
		}
		logger.Info("journal opened", slog.String("driver", cfg.Journal.Driver))

		cb := cfg.Journal.CircuitBreaker
		return journal.NewBreaker(log, journal.BreakerSettings{
			MaxFailures:   cb.MaxFailures,
			Timeout:       cb.Timeout,
			HalfOpenLimit: cb.HalfOpenLimit,
		}, logger), nil
	})

	do.Provide(injector, func(i do.Injector) ([]ports.EventListener, error) {
		ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
		defer cancel()

		metrics := do.MustInvoke[*telemetry.Metrics](i)
		return openPublishers(ctx, cfg.Publish, metrics, logger)
	})

	do.Provide(injector, func(i do.Injector) (*engine.Engine, error) {
		eventLog := do.MustInvoke[*journal.Breaker](i)
		listeners := do.MustInvoke[[]ports.EventListener](i)
		metrics := do.MustInvoke[*telemetry.Metrics](i)

		retry := cfg.Engine.Retry
		return engine.New(eventLog,
			engine.WithLogger(logger),
			engine.WithMetrics(metrics),
			engine.WithListeners(listeners...),
			engine.WithMailboxSize(cfg.Engine.MailboxSize),
			engine.WithConflictRetries(cfg.Engine.ConflictRetries, backoff.Policy{
				Initial:    retry.InitialInterval,
				Max:        retry.MaxInterval,
				Multiplier: retry.Multiplier,
			}),
			engine.WithCommandTimeout(cfg.Engine.CommandTimeout),
		), nil
	})

	do.Provide(injector, func(i do.Injector) (ports.BoundaryService, error) {
		return app.NewBoundaryService(do.MustInvoke[*engine.Engine](i), logger), nil
	})

	do.Provide(injector, func(i do.Injector) (ports.ProjectService, error) {
		return app.NewProjectService(do.MustInvoke[*engine.Engine](i), logger), nil
	})

	do.Provide(injector, func(i do.Injector) (ports.ReleaseService, error) {
		return app.NewReleaseService(do.MustInvoke[*engine.Engine](i), logger), nil
	})

	do.Provide(injector, func(i do.Injector) (*app.DeclarationService, error) {
		return app.NewDeclarationService(
			do.MustInvoke[*engine.Engine](i),
			do.MustInvoke[ports.BoundaryService](i),
			do.MustInvoke[ports.ProjectService](i),
			do.MustInvoke[ports.ReleaseService](i),
			app.DeclarationOptions{
				ExpectedVersion: cfg.Engine.ExpectedVersion,
				UnknownKinds:    declaration.UnknownPolicy(cfg.Engine.UnknownKinds),
				DispatchMode:    app.DispatchMode(cfg.Engine.DispatchMode),
				DispatchWorkers: cfg.Engine.DispatchWorkers,
			},
			do.MustInvoke[*telemetry.Metrics](i),
			logger,
		), nil
	})

	do.Provide(injector, func(_ do.Injector) (ports.HealthRegistry, error) {
		return health.New(health.WithCheckTimeout(readinessCheckTimeout)), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.DeclarationHandler, error) {
		svc := do.MustInvoke[*app.DeclarationService](i)
		return handlers.NewDeclarationHandler(svc, cfg.Server.MaxBodyBytes), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.ReleaseHandler, error) {
		svc := do.MustInvoke[ports.ReleaseService](i)
		return handlers.NewReleaseHandler(svc, cfg.Server.MaxBodyBytes), nil
	})

	do.Provide(injector, func(i do.Injector) (*handlers.HealthHandler, error) {
		registry := do.MustInvoke[ports.HealthRegistry](i)
		return handlers.NewHealthHandler(registry), nil
	})

	do.Provide(injector, func(i do.Injector) (nethttp.Handler, error) {
		declH := do.MustInvoke[*handlers.DeclarationHandler](i)
		relH := do.MustInvoke[*handlers.ReleaseHandler](i)
		healthH := do.MustInvoke[*handlers.HealthHandler](i)
		metrics := do.MustInvoke[*telemetry.Metrics](i)

		return adapthttp.NewRouter(declH, relH, healthH,
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
