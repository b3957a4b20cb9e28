package classificationdb

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	classificationdomain "github.com/Brasil-Rental-Karts/brk-backend-sub002/app/modules/classification/domain"
)

// Repository is the storage boundary of the classification engine. Read
// methods cover entities owned by external CRUD surfaces; the only writes the
// engine performs are classification upserts. Every method accepts a bun.IDB
// so callers can run several of them inside one transaction; nil falls back
// to the repository's own connection.
type Repository interface {
	// Read models owned by collaborators.
	GetSeason(ctx context.Context, db bun.IDB, seasonID uuid.UUID) (*Season, error)
	GetStage(ctx context.Context, db bun.IDB, stageID uuid.UUID) (*Stage, error)
	GetCategory(ctx context.Context, db bun.IDB, categoryID uuid.UUID) (*Category, error)
	GetScoringSystem(ctx context.Context, db bun.IDB, scoringSystemID uuid.UUID) (*ScoringSystem, error)
	GetDefaultScoringSystem(ctx context.Context, db bun.IDB, championshipID uuid.UUID) (*ScoringSystem, error)
	ListStagesForSeason(ctx context.Context, db bun.IDB, seasonID uuid.UUID) ([]Stage, error)
	ListBatteriesForStages(ctx context.Context, db bun.IDB, stageIDs []uuid.UUID, categoryID uuid.UUID) ([]Battery, error)
	ListResultsForSeasonCategory(ctx context.Context, db bun.IDB, seasonID, categoryID uuid.UUID) ([]StageResult, error)
	ListLapTimesForSeasonCategory(ctx context.Context, db bun.IDB, seasonID, categoryID uuid.UUID) ([]LapTime, error)
	ListAppliedPenalties(ctx context.Context, db bun.IDB, championshipID uuid.UUID) ([]Penalty, error)

	// Scope enumeration for recomputation fan-out.
	ListScopesForChampionship(ctx context.Context, db bun.IDB, championshipID uuid.UUID) ([]classificationdomain.Scope, error)
	ListScopesForStage(ctx context.Context, db bun.IDB, stageID uuid.UUID) ([]classificationdomain.Scope, error)

	// Engine-owned derived rows.
	UpsertClassification(ctx context.Context, db bun.IDB, row *ChampionshipClassification) error
	GetClassification(ctx context.Context, db bun.IDB, competitorID, categoryID, seasonID uuid.UUID) (*ChampionshipClassification, error)
	ListClassificationsForSeasonCategory(ctx context.Context, db bun.IDB, seasonID, categoryID uuid.UUID) ([]ChampionshipClassification, error)
}
