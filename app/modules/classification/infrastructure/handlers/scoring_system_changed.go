package classificationhandlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	classificationevents "github.com/Brasil-Rental-Karts/brk-backend-sub002/app/modules/classification/events"
)

// HandleScoringSystemChanged queues recomputes for every scope in the
// championship. An edited points table invalidates everything computed under
// it, and scopes on other scoring systems come out unchanged anyway since
// recomputation is idempotent.
func (h *ClassificationHandlers) HandleScoringSystemChanged(ctx context.Context, payload *classificationevents.ScoringSystemChangedPayloadV1) ([]Result, error) {
	if payload == nil {
		return nil, errors.New("payload is nil")
	}

	scopes, err := h.service.ScopesForChampionship(ctx, payload.ChampionshipID)
	if err != nil {
		return nil, fmt.Errorf("championship scopes: %w", err)
	}

	h.logger.InfoContext(ctx, "Scoring system changed, fanning out recomputes",
		slog.String("championship_id", payload.ChampionshipID.String()),
		slog.String("scoring_system_id", payload.ScoringSystemID.String()),
		slog.Int("scopes", len(scopes)),
	)
	return nil, h.enqueueScopes(ctx, scopes)
}
