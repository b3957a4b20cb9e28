package classificationhandlers

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace/noop"

	classificationservice "github.com/Brasil-Rental-Karts/brk-backend-sub002/app/modules/classification/application"
	classificationdomain "github.com/Brasil-Rental-Karts/brk-backend-sub002/app/modules/classification/domain"
	classificationevents "github.com/Brasil-Rental-Karts/brk-backend-sub002/app/modules/classification/events"
	classificationqueue "github.com/Brasil-Rental-Karts/brk-backend-sub002/app/modules/classification/infrastructure/queue"
)

// fakeService stubs the scope-resolution methods the handlers exercise.
type fakeService struct {
	classificationservice.Service

	resolveStageScopeFunc     func(ctx context.Context, stageID, categoryID, competitorID uuid.UUID) (classificationdomain.Scope, error)
	scopesForStageFunc        func(ctx context.Context, stageID uuid.UUID) ([]classificationdomain.Scope, error)
	scopesForPenaltyFunc      func(ctx context.Context, payload classificationevents.PenaltyChangedPayloadV1) ([]classificationdomain.Scope, error)
	scopesForChampionshipFunc func(ctx context.Context, championshipID uuid.UUID) ([]classificationdomain.Scope, error)
}

func (f *fakeService) ResolveStageScope(ctx context.Context, stageID, categoryID, competitorID uuid.UUID) (classificationdomain.Scope, error) {
	return f.resolveStageScopeFunc(ctx, stageID, categoryID, competitorID)
}

func (f *fakeService) ScopesForStage(ctx context.Context, stageID uuid.UUID) ([]classificationdomain.Scope, error) {
	return f.scopesForStageFunc(ctx, stageID)
}

func (f *fakeService) ScopesForPenalty(ctx context.Context, payload classificationevents.PenaltyChangedPayloadV1) ([]classificationdomain.Scope, error) {
	return f.scopesForPenaltyFunc(ctx, payload)
}

func (f *fakeService) ScopesForChampionship(ctx context.Context, championshipID uuid.UUID) ([]classificationdomain.Scope, error) {
	return f.scopesForChampionshipFunc(ctx, championshipID)
}

// fakeQueue records what the handlers enqueue.
type fakeQueue struct {
	enqueued []classificationdomain.Scope
	batches  [][]classificationdomain.Scope

	enqueueErr error
}

var _ classificationqueue.QueueService = (*fakeQueue)(nil)

func (f *fakeQueue) EnqueueRecompute(ctx context.Context, scope classificationdomain.Scope) error {
	if f.enqueueErr != nil {
		return f.enqueueErr
	}
	f.enqueued = append(f.enqueued, scope)
	return nil
}

func (f *fakeQueue) EnqueueRecomputeBatch(ctx context.Context, scopes []classificationdomain.Scope) (int, error) {
	if f.enqueueErr != nil {
		return 0, f.enqueueErr
	}
	f.batches = append(f.batches, scopes)
	f.enqueued = append(f.enqueued, scopes...)
	return len(scopes), nil
}

func (f *fakeQueue) GetScheduledJobs(ctx context.Context, scope classificationdomain.Scope) ([]classificationqueue.JobInfo, error) {
	return nil, nil
}

func (f *fakeQueue) HealthCheck(ctx context.Context) error { return nil }
func (f *fakeQueue) Start(ctx context.Context) error       { return nil }
func (f *fakeQueue) Stop(ctx context.Context) error        { return nil }

// noopHandlerMetrics satisfies Metrics for tests.
type noopHandlerMetrics struct{}

func (noopHandlerMetrics) RecordHandlerAttempt(context.Context, string)                 {}
func (noopHandlerMetrics) RecordHandlerSuccess(context.Context, string)                 {}
func (noopHandlerMetrics) RecordHandlerFailure(context.Context, string)                 {}
func (noopHandlerMetrics) RecordHandlerDuration(context.Context, string, time.Duration) {}

func newTestHandlers(service *fakeService, queue *fakeQueue) *ClassificationHandlers {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tracer := noop.NewTracerProvider().Tracer("test")
	return NewClassificationHandlers(service, queue, logger, tracer, noopHandlerMetrics{})
}

func testScope() classificationdomain.Scope {
	return classificationdomain.Scope{
		CompetitorID: classificationdomain.CompetitorID(uuid.New()),
		CategoryID:   classificationdomain.CategoryID(uuid.New()),
		SeasonID:     classificationdomain.SeasonID(uuid.New()),
	}
}
