package classificationhandlers

import (
	"context"

	classificationevents "github.com/Brasil-Rental-Karts/brk-backend-sub002/app/modules/classification/events"
)

// Handlers defines the set of classification event handlers.
type Handlers interface {
	HandleStageResultUpserted(ctx context.Context, payload *classificationevents.StageResultUpsertedPayloadV1) ([]Result, error)
	HandleLapTimesRecorded(ctx context.Context, payload *classificationevents.LapTimesRecordedPayloadV1) ([]Result, error)
	HandlePenaltyChanged(ctx context.Context, payload *classificationevents.PenaltyChangedPayloadV1) ([]Result, error)
	HandleScoringSystemChanged(ctx context.Context, payload *classificationevents.ScoringSystemChangedPayloadV1) ([]Result, error)
	HandleRecomputeRequested(ctx context.Context, payload *classificationevents.RecomputeRequestedPayloadV1) ([]Result, error)
}
