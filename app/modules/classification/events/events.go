package classificationevents

import (
	"time"

	"github.com/google/uuid"

	classificationdomain "github.com/Brasil-Rental-Karts/brk-backend-sub002/app/modules/classification/domain"
)

// Topics the engine subscribes to (the change-notification feed from the CRUD
// surfaces) and the topics it publishes after recomputation. Delivery is
// at-least-once; payloads are advisory, handlers re-read authoritative state.
const (
	StageResultUpsertedV1  = "stage.result.upserted.v1"
	LapTimesRecordedV1     = "stage.laptimes.recorded.v1"
	PenaltyChangedV1       = "penalty.changed.v1"
	ScoringSystemChangedV1 = "scoring.system.changed.v1"

	ClassificationRecomputeRequestedV1 = "classification.recompute.requested.v1"
	ClassificationRecomputedV1         = "classification.recomputed.v1"
	ClassificationRecomputeFailedV1    = "classification.recompute.failed.v1"
)

// StageResultUpsertedPayloadV1 signals a submitted or edited battery result.
type StageResultUpsertedPayloadV1 struct {
	StageID      uuid.UUID `json:"stage_id"`
	CategoryID   uuid.UUID `json:"category_id"`
	BatteryID    uuid.UUID `json:"battery_id"`
	CompetitorID uuid.UUID `json:"competitor_id"`
}

// LapTimesRecordedPayloadV1 signals new or edited lap-time records.
type LapTimesRecordedPayloadV1 struct {
	StageID      uuid.UUID `json:"stage_id"`
	CategoryID   uuid.UUID `json:"category_id"`
	BatteryID    uuid.UUID `json:"battery_id"`
	CompetitorID uuid.UUID `json:"competitor_id"`
}

// PenaltyChangedPayloadV1 signals a penalty created, applied, reverted or
// appealed. Nil scope fields mean the penalty covers the whole championship.
type PenaltyChangedPayloadV1 struct {
	PenaltyID      uuid.UUID  `json:"penalty_id"`
	ChampionshipID uuid.UUID  `json:"championship_id"`
	CompetitorID   uuid.UUID  `json:"competitor_id"`
	SeasonID       *uuid.UUID `json:"season_id,omitempty"`
	StageID        *uuid.UUID `json:"stage_id,omitempty"`
	CategoryID     *uuid.UUID `json:"category_id,omitempty"`
}

// ScoringSystemChangedPayloadV1 signals an administrative correction of a
// scoring system; everything computed under it must be recomputed.
type ScoringSystemChangedPayloadV1 struct {
	ScoringSystemID uuid.UUID `json:"scoring_system_id"`
	ChampionshipID  uuid.UUID `json:"championship_id"`
}

// RecomputeRequestedPayloadV1 is an explicit recompute request for one scope.
type RecomputeRequestedPayloadV1 struct {
	Scope classificationdomain.Scope `json:"scope"`
}

// RecomputedPayloadV1 is published after a successful recompute.
type RecomputedPayloadV1 struct {
	Scope            classificationdomain.Scope `json:"scope"`
	TotalPoints      int                        `json:"total_points"`
	TotalStages      int                        `json:"total_stages"`
	LastCalculatedAt time.Time                  `json:"last_calculated_at"`
}

// RecomputeFailedPayloadV1 is published when a recompute cannot complete.
type RecomputeFailedPayloadV1 struct {
	Scope  classificationdomain.Scope `json:"scope"`
	Reason string                     `json:"reason"`
}
