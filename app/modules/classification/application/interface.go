package classificationservice

import (
	"context"

	"github.com/google/uuid"

	classificationdomain "github.com/Brasil-Rental-Karts/brk-backend-sub002/app/modules/classification/domain"
	classificationevents "github.com/Brasil-Rental-Karts/brk-backend-sub002/app/modules/classification/events"
	"github.com/Brasil-Rental-Karts/brk-backend-sub002/app/shared/results"
)

// RecomputeResult is the outcome of a single-scope recompute.
type RecomputeResult = results.OperationResult[classificationevents.RecomputedPayloadV1, classificationevents.RecomputeFailedPayloadV1]

// Service is the application boundary of the classification engine. Recompute
// is called by queue workers; the scope helpers are called by event handlers
// to turn change notifications into the set of affected scopes; the read
// methods back the HTTP surface.
type Service interface {
	Recompute(ctx context.Context, scope classificationdomain.Scope) (RecomputeResult, error)

	ResolveStageScope(ctx context.Context, stageID, categoryID, competitorID uuid.UUID) (classificationdomain.Scope, error)
	ScopesForStage(ctx context.Context, stageID uuid.UUID) ([]classificationdomain.Scope, error)
	ScopesForPenalty(ctx context.Context, payload classificationevents.PenaltyChangedPayloadV1) ([]classificationdomain.Scope, error)
	ScopesForChampionship(ctx context.Context, championshipID uuid.UUID) ([]classificationdomain.Scope, error)

	GetClassification(ctx context.Context, scope classificationdomain.Scope) (*classificationdomain.Classification, error)
	Explain(ctx context.Context, scope classificationdomain.Scope) (*classificationdomain.SeasonResult, error)
	ListSeasonStandings(ctx context.Context, seasonID, categoryID uuid.UUID) ([]classificationdomain.Classification, error)
	ExportSeasonStandings(ctx context.Context, seasonID, categoryID uuid.UUID) ([]byte, error)
}
