package classificationdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	classificationdomain "github.com/Brasil-Rental-Karts/brk-backend-sub002/app/modules/classification/domain"
)

// Impl implements Repository over a bun connection.
type Impl struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Impl {
	return &Impl{db: db}
}

var _ Repository = (*Impl)(nil)

func (r *Impl) GetSeason(ctx context.Context, db bun.IDB, seasonID uuid.UUID) (*Season, error) {
	if db == nil {
		db = r.db
	}
	season := new(Season)
	err := db.NewSelect().Model(season).Where("sn.id = ?", seasonID).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("classificationdb.GetSeason: %w", err)
	}
	return season, nil
}

func (r *Impl) GetStage(ctx context.Context, db bun.IDB, stageID uuid.UUID) (*Stage, error) {
	if db == nil {
		db = r.db
	}
	stage := new(Stage)
	err := db.NewSelect().Model(stage).Where("st.id = ?", stageID).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("classificationdb.GetStage: %w", err)
	}
	return stage, nil
}

func (r *Impl) GetCategory(ctx context.Context, db bun.IDB, categoryID uuid.UUID) (*Category, error) {
	if db == nil {
		db = r.db
	}
	category := new(Category)
	err := db.NewSelect().Model(category).Where("cat.id = ?", categoryID).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("classificationdb.GetCategory: %w", err)
	}
	return category, nil
}

func (r *Impl) GetScoringSystem(ctx context.Context, db bun.IDB, scoringSystemID uuid.UUID) (*ScoringSystem, error) {
	if db == nil {
		db = r.db
	}
	system := new(ScoringSystem)
	err := db.NewSelect().Model(system).Where("ss.id = ?", scoringSystemID).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrScoringSystemNotFound
		}
		return nil, fmt.Errorf("classificationdb.GetScoringSystem: %w", err)
	}
	return system, nil
}

func (r *Impl) GetDefaultScoringSystem(ctx context.Context, db bun.IDB, championshipID uuid.UUID) (*ScoringSystem, error) {
	if db == nil {
		db = r.db
	}
	system := new(ScoringSystem)
	err := db.NewSelect().Model(system).
		Where("ss.championship_id = ?", championshipID).
		Where("ss.is_default = TRUE").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrScoringSystemNotFound
		}
		return nil, fmt.Errorf("classificationdb.GetDefaultScoringSystem: %w", err)
	}
	return system, nil
}

func (r *Impl) ListStagesForSeason(ctx context.Context, db bun.IDB, seasonID uuid.UUID) ([]Stage, error) {
	if db == nil {
		db = r.db
	}
	var stages []Stage
	err := db.NewSelect().Model(&stages).
		Where("st.season_id = ?", seasonID).
		Order("st.scheduled_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("classificationdb.ListStagesForSeason: %w", err)
	}
	return stages, nil
}

func (r *Impl) ListBatteriesForStages(ctx context.Context, db bun.IDB, stageIDs []uuid.UUID, categoryID uuid.UUID) ([]Battery, error) {
	if len(stageIDs) == 0 {
		return nil, nil
	}
	if db == nil {
		db = r.db
	}
	var batteries []Battery
	err := db.NewSelect().Model(&batteries).
		Where("bt.stage_id IN (?)", bun.In(stageIDs)).
		Where("bt.category_id = ?", categoryID).
		Order("bt.stage_id ASC", "bt.battery_order ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("classificationdb.ListBatteriesForStages: %w", err)
	}
	return batteries, nil
}

func (r *Impl) ListResultsForSeasonCategory(ctx context.Context, db bun.IDB, seasonID, categoryID uuid.UUID) ([]StageResult, error) {
	if db == nil {
		db = r.db
	}
	var results []StageResult
	err := db.NewSelect().Model(&results).
		Join("JOIN stages AS st ON st.id = sr.stage_id").
		Where("st.season_id = ?", seasonID).
		Where("sr.category_id = ?", categoryID).
		Order("sr.stage_id ASC", "sr.battery_id ASC", "sr.position ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("classificationdb.ListResultsForSeasonCategory: %w", err)
	}
	return results, nil
}

func (r *Impl) ListLapTimesForSeasonCategory(ctx context.Context, db bun.IDB, seasonID, categoryID uuid.UUID) ([]LapTime, error) {
	if db == nil {
		db = r.db
	}
	var lapTimes []LapTime
	err := db.NewSelect().Model(&lapTimes).
		Join("JOIN stages AS st ON st.id = lt.stage_id").
		Where("st.season_id = ?", seasonID).
		Where("lt.category_id = ?", categoryID).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("classificationdb.ListLapTimesForSeasonCategory: %w", err)
	}
	return lapTimes, nil
}

// ListAppliedPenalties loads every applied penalty of the championship. A
// penalty on one competitor re-ranks the battery for everyone in it, so the
// recompute of any scope needs the full set.
func (r *Impl) ListAppliedPenalties(ctx context.Context, db bun.IDB, championshipID uuid.UUID) ([]Penalty, error) {
	if db == nil {
		db = r.db
	}
	var penalties []Penalty
	err := db.NewSelect().Model(&penalties).
		Where("pn.championship_id = ?", championshipID).
		Where("pn.status = ?", string(classificationdomain.PenaltyStatusApplied)).
		Order("pn.created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("classificationdb.ListAppliedPenalties: %w", err)
	}
	return penalties, nil
}

func (r *Impl) ListScopesForChampionship(ctx context.Context, db bun.IDB, championshipID uuid.UUID) ([]classificationdomain.Scope, error) {
	if db == nil {
		db = r.db
	}
	var rows []struct {
		CompetitorID uuid.UUID `bun:"competitor_id"`
		CategoryID   uuid.UUID `bun:"category_id"`
		SeasonID     uuid.UUID `bun:"season_id"`
	}
	err := db.NewSelect().
		TableExpr("stage_results AS sr").
		ColumnExpr("DISTINCT sr.competitor_id, sr.category_id, st.season_id").
		Join("JOIN stages AS st ON st.id = sr.stage_id").
		Join("JOIN seasons AS sn ON sn.id = st.season_id").
		Where("sn.championship_id = ?", championshipID).
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("classificationdb.ListScopesForChampionship: %w", err)
	}
	return scopesFromRows(rows), nil
}

func (r *Impl) ListScopesForStage(ctx context.Context, db bun.IDB, stageID uuid.UUID) ([]classificationdomain.Scope, error) {
	if db == nil {
		db = r.db
	}
	var rows []struct {
		CompetitorID uuid.UUID `bun:"competitor_id"`
		CategoryID   uuid.UUID `bun:"category_id"`
		SeasonID     uuid.UUID `bun:"season_id"`
	}
	err := db.NewSelect().
		TableExpr("stage_results AS sr").
		ColumnExpr("DISTINCT sr.competitor_id, sr.category_id, st.season_id").
		Join("JOIN stages AS st ON st.id = sr.stage_id").
		Where("sr.stage_id = ?", stageID).
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("classificationdb.ListScopesForStage: %w", err)
	}
	return scopesFromRows(rows), nil
}

func scopesFromRows(rows []struct {
	CompetitorID uuid.UUID `bun:"competitor_id"`
	CategoryID   uuid.UUID `bun:"category_id"`
	SeasonID     uuid.UUID `bun:"season_id"`
}) []classificationdomain.Scope {
	scopes := make([]classificationdomain.Scope, 0, len(rows))
	for _, row := range rows {
		scopes = append(scopes, classificationdomain.Scope{
			CompetitorID: classificationdomain.CompetitorID(row.CompetitorID),
			CategoryID:   classificationdomain.CategoryID(row.CategoryID),
			SeasonID:     classificationdomain.SeasonID(row.SeasonID),
		})
	}
	return scopes
}
