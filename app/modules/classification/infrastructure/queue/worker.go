package classificationqueue

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/riverqueue/river"

	"github.com/Brasil-Rental-Karts/brk-backend-sub002/app/eventbus"
	classificationservice "github.com/Brasil-Rental-Karts/brk-backend-sub002/app/modules/classification/application"
	classificationevents "github.com/Brasil-Rental-Karts/brk-backend-sub002/app/modules/classification/events"
)

// RecomputeWorker executes recompute jobs against the classification service.
type RecomputeWorker struct {
	river.WorkerDefaults[RecomputeJobArgs]

	logger   *slog.Logger
	service  classificationservice.Service
	eventBus eventbus.EventBus
}

// NewRecomputeWorker creates a worker bound to the classification service.
func NewRecomputeWorker(logger *slog.Logger, service classificationservice.Service, eventBus eventbus.EventBus) *RecomputeWorker {
	return &RecomputeWorker{
		logger:   logger,
		service:  service,
		eventBus: eventBus,
	}
}

// Work runs one recompute. Infrastructure errors are returned so River
// retries with backoff; configuration failures cancel the job, since retrying
// cannot fix championship setup.
func (w *RecomputeWorker) Work(ctx context.Context, job *river.Job[RecomputeJobArgs]) error {
	scope := job.Args.Scope

	result, err := w.service.Recompute(ctx, scope)
	if err != nil {
		w.logger.ErrorContext(ctx, "Recompute job failed",
			slog.String("scope", scope.Key()),
			slog.Int("attempt", job.Attempt),
			slog.Any("error", err),
		)
		return err
	}

	if result.IsFailure() {
		w.publishFailed(ctx, *result.Failure)
		return river.JobCancel(errors.New(result.Failure.Reason))
	}
	return nil
}

func (w *RecomputeWorker) publishFailed(ctx context.Context, payload classificationevents.RecomputeFailedPayloadV1) {
	if w.eventBus == nil {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		w.logger.ErrorContext(ctx, "Failed to marshal recompute-failed payload", slog.Any("error", err))
		return
	}
	msg := message.NewMessage(watermill.NewUUID(), body)
	if err := w.eventBus.Publish(classificationevents.ClassificationRecomputeFailedV1, msg); err != nil {
		w.logger.ErrorContext(ctx, "Failed to publish recompute-failed event",
			slog.String("scope", payload.Scope.Key()),
			slog.Any("error", err),
		)
	}
}
