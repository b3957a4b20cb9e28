package classificationmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Adding indices for classification module...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE INDEX IF NOT EXISTS idx_championship_classifications_season_category
				ON championship_classifications(season_id, category_id, total_points DESC);
			`); err != nil {
				return fmt.Errorf("failed to add season/category index: %w", err)
			}
			if _, err := tx.ExecContext(ctx, `
				CREATE INDEX IF NOT EXISTS idx_championship_classifications_championship
				ON championship_classifications(championship_id);
			`); err != nil {
				return fmt.Errorf("failed to add championship index: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Rolling back indices for classification module...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				DROP INDEX IF EXISTS idx_championship_classifications_season_category;
			`); err != nil {
				return fmt.Errorf("failed to drop season/category index: %w", err)
			}
			if _, err := tx.ExecContext(ctx, `
				DROP INDEX IF EXISTS idx_championship_classifications_championship;
			`); err != nil {
				return fmt.Errorf("failed to drop championship index: %w", err)
			}
			return nil
		})
	})
}
