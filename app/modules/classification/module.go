package classification

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"

	"github.com/Brasil-Rental-Karts/brk-backend-sub002/app/eventbus"
	classificationservice "github.com/Brasil-Rental-Karts/brk-backend-sub002/app/modules/classification/application"
	classificationmetrics "github.com/Brasil-Rental-Karts/brk-backend-sub002/app/modules/classification/infrastructure/metrics"
	classificationqueue "github.com/Brasil-Rental-Karts/brk-backend-sub002/app/modules/classification/infrastructure/queue"
	classificationdb "github.com/Brasil-Rental-Karts/brk-backend-sub002/app/modules/classification/infrastructure/repositories"
	classificationrouter "github.com/Brasil-Rental-Karts/brk-backend-sub002/app/modules/classification/infrastructure/router"
	"github.com/Brasil-Rental-Karts/brk-backend-sub002/config"
)

// Module bundles the classification service, its queue, and its router.
type Module struct {
	EventBus              eventbus.EventBus
	ClassificationService classificationservice.Service
	QueueService          classificationqueue.QueueService
	ClassificationRouter  *classificationrouter.ClassificationRouter
	Metrics               *classificationmetrics.ClassificationMetrics
	logger                *slog.Logger
	config                *config.Config
	cancelFunc            context.CancelFunc
	queue                 *classificationqueue.Service
}

// NewClassificationModule wires repository, service, queue, and router together.
func NewClassificationModule(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	tracer trace.Tracer,
	db *bun.DB,
	eventBus eventbus.EventBus,
	router *message.Router,
	registry *prometheus.Registry,
) (*Module, error) {
	logger.InfoContext(ctx, "classification.NewClassificationModule called")

	moduleMetrics := classificationmetrics.NewClassificationMetrics(registry)

	repo := classificationdb.NewRepository(db)
	service := classificationservice.NewClassificationService(repo, eventBus, logger, moduleMetrics, tracer, db)

	queue, err := classificationqueue.NewService(ctx, db, logger, cfg.Postgres.DSN, moduleMetrics.Queue(), eventBus, service)
	if err != nil {
		return nil, fmt.Errorf("failed to create classification queue service: %w", err)
	}

	classificationRouter := classificationrouter.NewClassificationRouter(logger, router, eventBus, eventBus, tracer, registry)
	if err := classificationRouter.Configure(ctx, service, queue, moduleMetrics); err != nil {
		return nil, fmt.Errorf("failed to configure classification router: %w", err)
	}

	return &Module{
		EventBus:              eventBus,
		ClassificationService: service,
		QueueService:          queue,
		ClassificationRouter:  classificationRouter,
		Metrics:               moduleMetrics,
		logger:                logger,
		config:                cfg,
		queue:                 queue,
	}, nil
}

// Run starts the queue workers and blocks until the context is canceled.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	m.logger.InfoContext(ctx, "Starting classification module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	if err := m.queue.Start(ctx); err != nil {
		m.logger.ErrorContext(ctx, "Failed to start classification queue", slog.Any("error", err))
		return
	}

	<-ctx.Done()
	m.logger.Info("Classification module goroutine stopped")
}

// Close stops the queue workers and cancels the module context.
func (m *Module) Close() error {
	m.logger.Info("Stopping classification module")

	if m.cancelFunc != nil {
		m.cancelFunc()
	}

	if err := m.queue.Stop(context.Background()); err != nil {
		m.logger.Error("Failed to stop classification queue", slog.Any("error", err))
		return err
	}

	m.logger.Info("Classification module stopped")
	return nil
}
