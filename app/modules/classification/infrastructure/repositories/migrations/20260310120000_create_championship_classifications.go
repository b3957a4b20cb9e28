package classificationmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	classificationdb "github.com/Brasil-Rental-Karts/brk-backend-sub002/app/modules/classification/infrastructure/repositories"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating championship_classifications table...")

		if _, err := db.NewCreateTable().
			Model((*classificationdb.ChampionshipClassification)(nil)).
			IfNotExists().
			Exec(ctx); err != nil {
			return err
		}

		_, err := db.ExecContext(ctx, `
			CREATE UNIQUE INDEX IF NOT EXISTS uq_championship_classifications_scope
			ON championship_classifications(competitor_id, category_id, season_id);
		`)
		return err
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping championship_classifications table...")

		if _, err := db.NewDropTable().
			Model((*classificationdb.ChampionshipClassification)(nil)).
			IfExists().
			Exec(ctx); err != nil {
			return err
		}
		return nil
	})
}
