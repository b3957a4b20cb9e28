package classificationhandlers

import (
	"github.com/ThreeDotsLabs/watermill/message"

	classificationevents "github.com/Brasil-Rental-Karts/brk-backend-sub002/app/modules/classification/events"
)

// HandlerFuncs returns the wrapped watermill handlers keyed by the topic each
// one subscribes to.
func (h *ClassificationHandlers) HandlerFuncs() map[string]message.HandlerFunc {
	return map[string]message.HandlerFunc{
		classificationevents.StageResultUpsertedV1:              wrapHandler(h, "HandleStageResultUpserted", h.HandleStageResultUpserted),
		classificationevents.LapTimesRecordedV1:                 wrapHandler(h, "HandleLapTimesRecorded", h.HandleLapTimesRecorded),
		classificationevents.PenaltyChangedV1:                   wrapHandler(h, "HandlePenaltyChanged", h.HandlePenaltyChanged),
		classificationevents.ScoringSystemChangedV1:             wrapHandler(h, "HandleScoringSystemChanged", h.HandleScoringSystemChanged),
		classificationevents.ClassificationRecomputeRequestedV1: wrapHandler(h, "HandleRecomputeRequested", h.HandleRecomputeRequested),
	}
}
