package eventbus

import (
	"context"

	classificationevents "github.com/Brasil-Rental-Karts/brk-backend-sub002/app/modules/classification/events"
)

// Stream names. Inbound change notifications and the engine's own output live
// on separate streams so retention can differ.
const (
	ResultsStream        = "results"
	ClassificationStream = "classification"
)

// InitializeStreams provisions the JetStream streams the application uses.
// Called once during startup, before the router subscribes.
func InitializeStreams(ctx context.Context, eb EventBus) error {
	if err := eb.CreateStream(ctx, ResultsStream,
		classificationevents.StageResultUpsertedV1,
		classificationevents.LapTimesRecordedV1,
		classificationevents.PenaltyChangedV1,
		classificationevents.ScoringSystemChangedV1,
		classificationevents.ClassificationRecomputeRequestedV1,
	); err != nil {
		return err
	}
	return eb.CreateStream(ctx, ClassificationStream,
		classificationevents.ClassificationRecomputedV1,
		classificationevents.ClassificationRecomputeFailedV1,
	)
}
