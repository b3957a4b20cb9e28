package classificationservice

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace/noop"

	classificationdomain "github.com/Brasil-Rental-Karts/brk-backend-sub002/app/modules/classification/domain"
	classificationdb "github.com/Brasil-Rental-Karts/brk-backend-sub002/app/modules/classification/infrastructure/repositories"
)

// newTestService builds a service over the fake repo with telemetry disabled
// and a fixed clock, so recomputed rows are comparable across runs.
func newTestService(repo *FakeRepository) *ClassificationService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tracer := noop.NewTracerProvider().Tracer("test")
	svc := NewClassificationService(repo, nil, logger, NoOpMetrics{}, tracer, nil)
	svc.now = func() time.Time { return time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

// seasonFixture wires the fake repo with a single-season setup the tests
// extend: one championship, one category on the default scoring system, and
// any number of stages each holding one battery.
type seasonFixture struct {
	repo *FakeRepository

	championshipID uuid.UUID
	seasonID       uuid.UUID
	categoryID     uuid.UUID
	competitorA    uuid.UUID
	competitorB    uuid.UUID

	system    classificationdb.ScoringSystem
	stages    []classificationdb.Stage
	batteries []classificationdb.Battery
	results   []classificationdb.StageResult
	lapTimes  []classificationdb.LapTime
	penalties []classificationdb.Penalty
}

func newSeasonFixture() *seasonFixture {
	f := &seasonFixture{
		repo:           NewFakeRepository(),
		championshipID: uuid.New(),
		seasonID:       uuid.New(),
		categoryID:     uuid.New(),
		competitorA:    uuid.New(),
		competitorB:    uuid.New(),
	}
	f.system = classificationdb.ScoringSystem{
		ID:             uuid.New(),
		ChampionshipID: f.championshipID,
		Name:           "Default",
		Positions: []classificationdb.PositionPoints{
			{Position: 1, Points: 25},
			{Position: 2, Points: 18},
			{Position: 3, Points: 15},
		},
		PolePositionBonus: 1,
		FastestLapBonus:   1,
		DiscardMode:       string(classificationdomain.DiscardModeNone),
		IsDefault:         true,
	}

	f.repo.GetSeasonFunc = func(ctx context.Context, db bun.IDB, seasonID uuid.UUID) (*classificationdb.Season, error) {
		if seasonID != f.seasonID {
			return nil, classificationdb.ErrNotFound
		}
		return &classificationdb.Season{ID: f.seasonID, ChampionshipID: f.championshipID, Name: "2026"}, nil
	}
	f.repo.GetCategoryFunc = func(ctx context.Context, db bun.IDB, categoryID uuid.UUID) (*classificationdb.Category, error) {
		if categoryID != f.categoryID {
			return nil, classificationdb.ErrNotFound
		}
		return &classificationdb.Category{ID: f.categoryID, SeasonID: f.seasonID, Name: "Light"}, nil
	}
	f.repo.GetDefaultScoringSystemFunc = func(ctx context.Context, db bun.IDB, championshipID uuid.UUID) (*classificationdb.ScoringSystem, error) {
		system := f.system
		return &system, nil
	}
	f.repo.ListStagesForSeasonFunc = func(ctx context.Context, db bun.IDB, seasonID uuid.UUID) ([]classificationdb.Stage, error) {
		return f.stages, nil
	}
	f.repo.ListBatteriesForStagesFunc = func(ctx context.Context, db bun.IDB, stageIDs []uuid.UUID, categoryID uuid.UUID) ([]classificationdb.Battery, error) {
		return f.batteries, nil
	}
	f.repo.ListResultsFunc = func(ctx context.Context, db bun.IDB, seasonID, categoryID uuid.UUID) ([]classificationdb.StageResult, error) {
		return f.results, nil
	}
	f.repo.ListLapTimesFunc = func(ctx context.Context, db bun.IDB, seasonID, categoryID uuid.UUID) ([]classificationdb.LapTime, error) {
		return f.lapTimes, nil
	}
	f.repo.ListAppliedPenaltiesFunc = func(ctx context.Context, db bun.IDB, championshipID uuid.UUID) ([]classificationdb.Penalty, error) {
		return f.penalties, nil
	}
	return f
}

// addStage appends a stage with a single battery where competitor A finishes
// first with pole and the fastest lap, and competitor B finishes second.
func (f *seasonFixture) addStage(day int) (stageID, batteryID uuid.UUID) {
	stageID = uuid.New()
	batteryID = uuid.New()
	f.stages = append(f.stages, classificationdb.Stage{
		ID:          stageID,
		SeasonID:    f.seasonID,
		Name:        gofakeit.City(),
		ScheduledAt: time.Date(2026, 3, day, 10, 0, 0, 0, time.UTC),
	})
	f.batteries = append(f.batteries, classificationdb.Battery{
		ID:         batteryID,
		StageID:    stageID,
		CategoryID: f.categoryID,
	})
	f.results = append(f.results,
		classificationdb.StageResult{
			ID: uuid.New(), StageID: stageID, CategoryID: f.categoryID, BatteryID: batteryID,
			CompetitorID: f.competitorA, Position: 1, TotalTimeMs: 600_000, PolePosition: true,
		},
		classificationdb.StageResult{
			ID: uuid.New(), StageID: stageID, CategoryID: f.categoryID, BatteryID: batteryID,
			CompetitorID: f.competitorB, Position: 2, TotalTimeMs: 601_000,
		},
	)
	f.lapTimes = append(f.lapTimes,
		classificationdb.LapTime{
			ID: uuid.New(), StageID: stageID, CategoryID: f.categoryID, BatteryID: batteryID,
			CompetitorID: f.competitorA,
			Laps: []classificationdomain.LapEntry{
				{LapNumber: 1, TimeMs: 60_000},
				{LapNumber: 2, TimeMs: 59_500},
			},
		},
		classificationdb.LapTime{
			ID: uuid.New(), StageID: stageID, CategoryID: f.categoryID, BatteryID: batteryID,
			CompetitorID: f.competitorB,
			Laps: []classificationdomain.LapEntry{
				{LapNumber: 1, TimeMs: 60_200},
				{LapNumber: 2, TimeMs: 60_100},
			},
		},
	)
	return stageID, batteryID
}

func (f *seasonFixture) scopeA() classificationdomain.Scope {
	return classificationdomain.Scope{
		CompetitorID: classificationdomain.CompetitorID(f.competitorA),
		CategoryID:   classificationdomain.CategoryID(f.categoryID),
		SeasonID:     classificationdomain.SeasonID(f.seasonID),
	}
}

func (f *seasonFixture) scopeB() classificationdomain.Scope {
	return classificationdomain.Scope{
		CompetitorID: classificationdomain.CompetitorID(f.competitorB),
		CategoryID:   classificationdomain.CategoryID(f.categoryID),
		SeasonID:     classificationdomain.SeasonID(f.seasonID),
	}
}
