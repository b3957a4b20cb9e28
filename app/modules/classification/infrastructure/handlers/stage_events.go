package classificationhandlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	classificationevents "github.com/Brasil-Rental-Karts/brk-backend-sub002/app/modules/classification/events"
)

// HandleStageResultUpserted queues a recompute for the competitor whose
// battery result was submitted or edited. The payload is advisory
// (at-least-once delivery, possibly truncated); when the competitor is
// missing the handler falls back to everyone who raced at the stage.
func (h *ClassificationHandlers) HandleStageResultUpserted(ctx context.Context, payload *classificationevents.StageResultUpsertedPayloadV1) ([]Result, error) {
	if payload == nil {
		return nil, errors.New("payload is nil")
	}
	return nil, h.enqueueForStageEvent(ctx, payload.StageID, payload.CategoryID, payload.CompetitorID)
}

// HandleLapTimesRecorded queues a recompute after lap times are recorded or
// edited. Lap changes can reassign the fastest-lap bonus, so the whole stage
// falls back to a full fan-out when the competitor is missing.
func (h *ClassificationHandlers) HandleLapTimesRecorded(ctx context.Context, payload *classificationevents.LapTimesRecordedPayloadV1) ([]Result, error) {
	if payload == nil {
		return nil, errors.New("payload is nil")
	}
	return nil, h.enqueueForStageEvent(ctx, payload.StageID, payload.CategoryID, payload.CompetitorID)
}

func (h *ClassificationHandlers) enqueueForStageEvent(ctx context.Context, stageID, categoryID, competitorID uuid.UUID) error {
	if stageID == uuid.Nil {
		return errors.New("event carries no stage id")
	}

	if competitorID == uuid.Nil || categoryID == uuid.Nil {
		h.logger.WarnContext(ctx, "Event payload incomplete, falling back to stage fan-out",
			slog.String("stage_id", stageID.String()),
		)
		scopes, err := h.service.ScopesForStage(ctx, stageID)
		if err != nil {
			return fmt.Errorf("stage fan-out: %w", err)
		}
		return h.enqueueScopes(ctx, scopes)
	}

	scope, err := h.service.ResolveStageScope(ctx, stageID, categoryID, competitorID)
	if err != nil {
		return fmt.Errorf("resolve scope: %w", err)
	}
	return h.queue.EnqueueRecompute(ctx, scope)
}
