package bundb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	classificationdb "github.com/Brasil-Rental-Karts/brk-backend-sub002/app/modules/classification/infrastructure/repositories"
	"github.com/Brasil-Rental-Karts/brk-backend-sub002/config"
)

// DBService holds the bun connection and the repositories built on it.
type DBService struct {
	ClassificationDB classificationdb.Repository
	db               *bun.DB
}

// GetDB returns the underlying database connection pool.
func (dbService *DBService) GetDB() *bun.DB {
	return dbService.db
}

// Close closes the underlying connection pool.
func (dbService *DBService) Close() error {
	return dbService.db.Close()
}

// NewBunDBService initializes a new DBService with the provided Postgres configuration.
func NewBunDBService(ctx context.Context, cfg config.PostgresConfig, logger *slog.Logger) (*DBService, error) {
	sqldb, err := pgConn(ctx, cfg.DSN)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to connect to PostgreSQL", slog.Any("error", err))
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := bun.NewDB(sqldb, pgdialect.New())
	db.RegisterModel(
		(*classificationdb.Season)(nil),
		(*classificationdb.Category)(nil),
		(*classificationdb.ScoringSystem)(nil),
		(*classificationdb.Stage)(nil),
		(*classificationdb.Battery)(nil),
		(*classificationdb.StageResult)(nil),
		(*classificationdb.LapTime)(nil),
		(*classificationdb.Penalty)(nil),
		(*classificationdb.ChampionshipClassification)(nil),
	)

	logger.InfoContext(ctx, "Database service initialized")

	return &DBService{
		ClassificationDB: classificationdb.NewRepository(db),
		db:               db,
	}, nil
}

func pgConn(ctx context.Context, dsn string) (*sql.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))

	if err := sqldb.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return sqldb, nil
}
