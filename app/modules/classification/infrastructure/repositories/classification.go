package classificationdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// UpsertClassification fully replaces the row for the scope; the unique
// (competitor, category, season) constraint makes the write idempotent.
func (r *Impl) UpsertClassification(ctx context.Context, db bun.IDB, row *ChampionshipClassification) error {
	if db == nil {
		db = r.db
	}
	_, err := db.NewInsert().Model(row).
		On("CONFLICT (competitor_id, category_id, season_id) DO UPDATE").
		Set("championship_id = EXCLUDED.championship_id").
		Set("total_points = EXCLUDED.total_points").
		Set("total_stages = EXCLUDED.total_stages").
		Set("wins = EXCLUDED.wins").
		Set("podiums = EXCLUDED.podiums").
		Set("pole_positions = EXCLUDED.pole_positions").
		Set("fastest_laps = EXCLUDED.fastest_laps").
		Set("best_position = EXCLUDED.best_position").
		Set("average_position = EXCLUDED.average_position").
		Set("last_calculated_at = EXCLUDED.last_calculated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("classificationdb.UpsertClassification: %w", err)
	}
	return nil
}

func (r *Impl) GetClassification(ctx context.Context, db bun.IDB, competitorID, categoryID, seasonID uuid.UUID) (*ChampionshipClassification, error) {
	if db == nil {
		db = r.db
	}
	row := new(ChampionshipClassification)
	err := db.NewSelect().Model(row).
		Where("cc.competitor_id = ?", competitorID).
		Where("cc.category_id = ?", categoryID).
		Where("cc.season_id = ?", seasonID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("classificationdb.GetClassification: %w", err)
	}
	return row, nil
}

// ListClassificationsForSeasonCategory returns the season standings for one
// category, best first.
func (r *Impl) ListClassificationsForSeasonCategory(ctx context.Context, db bun.IDB, seasonID, categoryID uuid.UUID) ([]ChampionshipClassification, error) {
	if db == nil {
		db = r.db
	}
	var rows []ChampionshipClassification
	err := db.NewSelect().Model(&rows).
		Where("cc.season_id = ?", seasonID).
		Where("cc.category_id = ?", categoryID).
		Order("cc.total_points DESC", "cc.wins DESC", "cc.best_position ASC NULLS LAST", "cc.competitor_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("classificationdb.ListClassificationsForSeasonCategory: %w", err)
	}
	return rows, nil
}
