package classificationhandlers

import (
	"context"
	"errors"
	"fmt"

	classificationevents "github.com/Brasil-Rental-Karts/brk-backend-sub002/app/modules/classification/events"
)

// HandlePenaltyChanged queues recomputes for every scope a penalty change
// touches. Creation, application, reversion and appeal all land here; the
// recompute re-reads penalty state, so the handler does not care which
// transition happened.
func (h *ClassificationHandlers) HandlePenaltyChanged(ctx context.Context, payload *classificationevents.PenaltyChangedPayloadV1) ([]Result, error) {
	if payload == nil {
		return nil, errors.New("payload is nil")
	}

	scopes, err := h.service.ScopesForPenalty(ctx, *payload)
	if err != nil {
		return nil, fmt.Errorf("penalty scopes: %w", err)
	}
	return nil, h.enqueueScopes(ctx, scopes)
}
