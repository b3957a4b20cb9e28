package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"

	"github.com/Brasil-Rental-Karts/brk-backend-sub002/api"
	apihandlers "github.com/Brasil-Rental-Karts/brk-backend-sub002/api/handlers"
	"github.com/Brasil-Rental-Karts/brk-backend-sub002/app/eventbus"
	"github.com/Brasil-Rental-Karts/brk-backend-sub002/app/modules/classification"
	"github.com/Brasil-Rental-Karts/brk-backend-sub002/config"
	"github.com/Brasil-Rental-Karts/brk-backend-sub002/db/bundb"
)

// App wires configuration, database, event bus, the classification module and
// the HTTP surface together.
type App struct {
	Config               *config.Config
	Logger               *slog.Logger
	Registry             *prometheus.Registry
	EventBus             eventbus.EventBus
	WatermillRouter      *message.Router
	ClassificationModule *classification.Module

	dbService     *bundb.DBService
	httpServer    *http.Server
	metricsServer *http.Server
	wg            sync.WaitGroup
}

// NewApp initializes the application with the necessary services and configuration.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	dbService, err := bundb.NewBunDBService(ctx, cfg.Postgres, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database service: %w", err)
	}

	eventBus, err := eventbus.NewEventBus(ctx, cfg.NATS.URL, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize event bus: %w", err)
	}

	if err := eventbus.InitializeStreams(ctx, eventBus); err != nil {
		return nil, fmt.Errorf("failed to initialize streams: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	watermillRouter, err := message.NewRouter(message.RouterConfig{}, watermill.NewSlogLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create watermill router: %w", err)
	}

	tracer := otel.Tracer("classification")

	module, err := classification.NewClassificationModule(
		ctx,
		cfg,
		logger,
		tracer,
		dbService.GetDB(),
		eventBus,
		watermillRouter,
		registry,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize classification module: %w", err)
	}

	apiHandler := apihandlers.NewClassificationHandler(module.ClassificationService, module.QueueService, logger)
	httpServer := &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           api.NewRouter(apiHandler, registry),
		ReadHeaderTimeout: 10 * time.Second,
	}

	var metricsServer *http.Server
	if cfg.Observability.MetricsAddress != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		metricsServer = &http.Server{
			Addr:              cfg.Observability.MetricsAddress,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		}
	}

	return &App{
		Config:               cfg,
		Logger:               logger,
		Registry:             registry,
		EventBus:             eventBus,
		WatermillRouter:      watermillRouter,
		ClassificationModule: module,
		dbService:            dbService,
		httpServer:           httpServer,
		metricsServer:        metricsServer,
	}, nil
}

// DB returns the database service.
func (a *App) DB() *bundb.DBService {
	return a.dbService
}

// Run starts the watermill router, the queue workers and the HTTP servers,
// then blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := a.WatermillRouter.Run(ctx); err != nil {
			a.Logger.Error("Watermill router stopped", slog.Any("error", err))
		}
	}()

	select {
	case <-a.WatermillRouter.Running():
	case <-ctx.Done():
		return ctx.Err()
	}
	a.Logger.Info("Watermill router running")

	a.wg.Add(1)
	go a.ClassificationModule.Run(ctx, &a.wg)

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.Logger.Info("Starting HTTP server", slog.String("address", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.Error("HTTP server stopped", slog.Any("error", err))
		}
	}()

	if a.metricsServer != nil {
		a.wg.Add(1)
		go func() {
			defer a.wg.Done()
			a.Logger.Info("Starting metrics server", slog.String("address", a.metricsServer.Addr))
			if err := a.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.Logger.Error("Metrics server stopped", slog.Any("error", err))
			}
		}()
	}

	<-ctx.Done()
	return nil
}

// Close shuts down the HTTP servers, the classification module, the router,
// the event bus and the database, in that order.
func (a *App) Close() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	var errs []error

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("http server shutdown: %w", err))
	}
	if a.metricsServer != nil {
		if err := a.metricsServer.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}
	if err := a.ClassificationModule.Close(); err != nil {
		errs = append(errs, fmt.Errorf("classification module close: %w", err))
	}
	if err := a.WatermillRouter.Close(); err != nil {
		errs = append(errs, fmt.Errorf("watermill router close: %w", err))
	}
	if err := a.EventBus.Close(); err != nil {
		errs = append(errs, fmt.Errorf("event bus close: %w", err))
	}
	if err := a.dbService.Close(); err != nil {
		errs = append(errs, fmt.Errorf("database close: %w", err))
	}

	a.wg.Wait()
	return errors.Join(errs...)
}
