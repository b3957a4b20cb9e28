package classificationhandlers

import (
	"context"
	"errors"

	"github.com/google/uuid"

	classificationdomain "github.com/Brasil-Rental-Karts/brk-backend-sub002/app/modules/classification/domain"
	classificationevents "github.com/Brasil-Rental-Karts/brk-backend-sub002/app/modules/classification/events"
)

// HandleRecomputeRequested queues an explicitly requested recompute. The
// stewards' UI and the HTTP surface both publish this event.
func (h *ClassificationHandlers) HandleRecomputeRequested(ctx context.Context, payload *classificationevents.RecomputeRequestedPayloadV1) ([]Result, error) {
	if payload == nil {
		return nil, errors.New("payload is nil")
	}
	scope := payload.Scope
	if uuid.UUID(scope.CompetitorID) == uuid.Nil ||
		uuid.UUID(scope.CategoryID) == uuid.Nil ||
		uuid.UUID(scope.SeasonID) == uuid.Nil {
		return nil, errors.New("recompute request carries an incomplete scope")
	}
	return nil, h.queue.EnqueueRecompute(ctx, classificationdomain.Scope{
		CompetitorID: scope.CompetitorID,
		CategoryID:   scope.CategoryID,
		SeasonID:     scope.SeasonID,
	})
}
