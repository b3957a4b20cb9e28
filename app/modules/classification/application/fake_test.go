package classificationservice

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	classificationdomain "github.com/Brasil-Rental-Karts/brk-backend-sub002/app/modules/classification/domain"
	classificationdb "github.com/Brasil-Rental-Karts/brk-backend-sub002/app/modules/classification/infrastructure/repositories"
)

// ------------------------
// Fake Classification Repo
// ------------------------

// FakeRepository provides a programmable stub for the classificationdb.Repository interface.
type FakeRepository struct {
	trace []string

	GetSeasonFunc                 func(ctx context.Context, db bun.IDB, seasonID uuid.UUID) (*classificationdb.Season, error)
	GetStageFunc                  func(ctx context.Context, db bun.IDB, stageID uuid.UUID) (*classificationdb.Stage, error)
	GetCategoryFunc               func(ctx context.Context, db bun.IDB, categoryID uuid.UUID) (*classificationdb.Category, error)
	GetScoringSystemFunc          func(ctx context.Context, db bun.IDB, scoringSystemID uuid.UUID) (*classificationdb.ScoringSystem, error)
	GetDefaultScoringSystemFunc   func(ctx context.Context, db bun.IDB, championshipID uuid.UUID) (*classificationdb.ScoringSystem, error)
	ListStagesForSeasonFunc       func(ctx context.Context, db bun.IDB, seasonID uuid.UUID) ([]classificationdb.Stage, error)
	ListBatteriesForStagesFunc    func(ctx context.Context, db bun.IDB, stageIDs []uuid.UUID, categoryID uuid.UUID) ([]classificationdb.Battery, error)
	ListResultsFunc               func(ctx context.Context, db bun.IDB, seasonID, categoryID uuid.UUID) ([]classificationdb.StageResult, error)
	ListLapTimesFunc              func(ctx context.Context, db bun.IDB, seasonID, categoryID uuid.UUID) ([]classificationdb.LapTime, error)
	ListAppliedPenaltiesFunc      func(ctx context.Context, db bun.IDB, championshipID uuid.UUID) ([]classificationdb.Penalty, error)
	ListScopesForChampionshipFunc func(ctx context.Context, db bun.IDB, championshipID uuid.UUID) ([]classificationdomain.Scope, error)
	ListScopesForStageFunc        func(ctx context.Context, db bun.IDB, stageID uuid.UUID) ([]classificationdomain.Scope, error)
	UpsertClassificationFunc      func(ctx context.Context, db bun.IDB, row *classificationdb.ChampionshipClassification) error
	GetClassificationFunc         func(ctx context.Context, db bun.IDB, competitorID, categoryID, seasonID uuid.UUID) (*classificationdb.ChampionshipClassification, error)
	ListClassificationsFunc       func(ctx context.Context, db bun.IDB, seasonID, categoryID uuid.UUID) ([]classificationdb.ChampionshipClassification, error)

	// LastUpserted captures the most recent classification write.
	LastUpserted *classificationdb.ChampionshipClassification
}

// NewFakeRepository initializes a new FakeRepository with an empty trace.
func NewFakeRepository() *FakeRepository {
	return &FakeRepository{trace: []string{}}
}

// Trace returns the sequence of method calls made to the fake.
func (f *FakeRepository) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeRepository) record(step string) {
	f.trace = append(f.trace, step)
}

// --- Repository Interface Implementation ---

func (f *FakeRepository) GetSeason(ctx context.Context, db bun.IDB, seasonID uuid.UUID) (*classificationdb.Season, error) {
	f.record("GetSeason")
	if f.GetSeasonFunc != nil {
		return f.GetSeasonFunc(ctx, db, seasonID)
	}
	return nil, classificationdb.ErrNotFound
}

func (f *FakeRepository) GetStage(ctx context.Context, db bun.IDB, stageID uuid.UUID) (*classificationdb.Stage, error) {
	f.record("GetStage")
	if f.GetStageFunc != nil {
		return f.GetStageFunc(ctx, db, stageID)
	}
	return nil, classificationdb.ErrNotFound
}

func (f *FakeRepository) GetCategory(ctx context.Context, db bun.IDB, categoryID uuid.UUID) (*classificationdb.Category, error) {
	f.record("GetCategory")
	if f.GetCategoryFunc != nil {
		return f.GetCategoryFunc(ctx, db, categoryID)
	}
	return nil, classificationdb.ErrNotFound
}

func (f *FakeRepository) GetScoringSystem(ctx context.Context, db bun.IDB, scoringSystemID uuid.UUID) (*classificationdb.ScoringSystem, error) {
	f.record("GetScoringSystem")
	if f.GetScoringSystemFunc != nil {
		return f.GetScoringSystemFunc(ctx, db, scoringSystemID)
	}
	return nil, classificationdb.ErrScoringSystemNotFound
}

func (f *FakeRepository) GetDefaultScoringSystem(ctx context.Context, db bun.IDB, championshipID uuid.UUID) (*classificationdb.ScoringSystem, error) {
	f.record("GetDefaultScoringSystem")
	if f.GetDefaultScoringSystemFunc != nil {
		return f.GetDefaultScoringSystemFunc(ctx, db, championshipID)
	}
	return nil, classificationdb.ErrScoringSystemNotFound
}

func (f *FakeRepository) ListStagesForSeason(ctx context.Context, db bun.IDB, seasonID uuid.UUID) ([]classificationdb.Stage, error) {
	f.record("ListStagesForSeason")
	if f.ListStagesForSeasonFunc != nil {
		return f.ListStagesForSeasonFunc(ctx, db, seasonID)
	}
	return nil, nil
}

func (f *FakeRepository) ListBatteriesForStages(ctx context.Context, db bun.IDB, stageIDs []uuid.UUID, categoryID uuid.UUID) ([]classificationdb.Battery, error) {
	f.record("ListBatteriesForStages")
	if f.ListBatteriesForStagesFunc != nil {
		return f.ListBatteriesForStagesFunc(ctx, db, stageIDs, categoryID)
	}
	return nil, nil
}

func (f *FakeRepository) ListResultsForSeasonCategory(ctx context.Context, db bun.IDB, seasonID, categoryID uuid.UUID) ([]classificationdb.StageResult, error) {
	f.record("ListResultsForSeasonCategory")
	if f.ListResultsFunc != nil {
		return f.ListResultsFunc(ctx, db, seasonID, categoryID)
	}
	return nil, nil
}

func (f *FakeRepository) ListLapTimesForSeasonCategory(ctx context.Context, db bun.IDB, seasonID, categoryID uuid.UUID) ([]classificationdb.LapTime, error) {
	f.record("ListLapTimesForSeasonCategory")
	if f.ListLapTimesFunc != nil {
		return f.ListLapTimesFunc(ctx, db, seasonID, categoryID)
	}
	return nil, nil
}

func (f *FakeRepository) ListAppliedPenalties(ctx context.Context, db bun.IDB, championshipID uuid.UUID) ([]classificationdb.Penalty, error) {
	f.record("ListAppliedPenalties")
	if f.ListAppliedPenaltiesFunc != nil {
		return f.ListAppliedPenaltiesFunc(ctx, db, championshipID)
	}
	return nil, nil
}

func (f *FakeRepository) ListScopesForChampionship(ctx context.Context, db bun.IDB, championshipID uuid.UUID) ([]classificationdomain.Scope, error) {
	f.record("ListScopesForChampionship")
	if f.ListScopesForChampionshipFunc != nil {
		return f.ListScopesForChampionshipFunc(ctx, db, championshipID)
	}
	return nil, nil
}

func (f *FakeRepository) ListScopesForStage(ctx context.Context, db bun.IDB, stageID uuid.UUID) ([]classificationdomain.Scope, error) {
	f.record("ListScopesForStage")
	if f.ListScopesForStageFunc != nil {
		return f.ListScopesForStageFunc(ctx, db, stageID)
	}
	return nil, nil
}

func (f *FakeRepository) UpsertClassification(ctx context.Context, db bun.IDB, row *classificationdb.ChampionshipClassification) error {
	f.record("UpsertClassification")
	f.LastUpserted = row
	if f.UpsertClassificationFunc != nil {
		return f.UpsertClassificationFunc(ctx, db, row)
	}
	return nil
}

func (f *FakeRepository) GetClassification(ctx context.Context, db bun.IDB, competitorID, categoryID, seasonID uuid.UUID) (*classificationdb.ChampionshipClassification, error) {
	f.record("GetClassification")
	if f.GetClassificationFunc != nil {
		return f.GetClassificationFunc(ctx, db, competitorID, categoryID, seasonID)
	}
	return nil, classificationdb.ErrNotFound
}

func (f *FakeRepository) ListClassificationsForSeasonCategory(ctx context.Context, db bun.IDB, seasonID, categoryID uuid.UUID) ([]classificationdb.ChampionshipClassification, error) {
	f.record("ListClassificationsForSeasonCategory")
	if f.ListClassificationsFunc != nil {
		return f.ListClassificationsFunc(ctx, db, seasonID, categoryID)
	}
	return nil, nil
}

// Ensure the fake actually satisfies the interface.
var _ classificationdb.Repository = (*FakeRepository)(nil)
