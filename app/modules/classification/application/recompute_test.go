package classificationservice

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	classificationdomain "github.com/Brasil-Rental-Karts/brk-backend-sub002/app/modules/classification/domain"
	classificationdb "github.com/Brasil-Rental-Karts/brk-backend-sub002/app/modules/classification/infrastructure/repositories"
)

func TestRecompute_SingleStage(t *testing.T) {
	fixture := newSeasonFixture()
	fixture.addStage(1)
	svc := newTestService(fixture.repo)

	result, err := svc.Recompute(context.Background(), fixture.scopeA())
	if err != nil {
		t.Fatalf("Recompute returned error: %v", err)
	}
	if !result.IsSuccess() {
		t.Fatalf("expected success, got failure: %+v", result.Failure)
	}

	row := fixture.repo.LastUpserted
	if row == nil {
		t.Fatal("expected a classification upsert")
	}
	// P1 (25) plus pole and fastest-lap bonuses.
	if row.TotalPoints != 27 {
		t.Errorf("TotalPoints = %d, want 27", row.TotalPoints)
	}
	if row.TotalStages != 1 || row.Wins != 1 || row.Podiums != 1 || row.PolePositions != 1 || row.FastestLaps != 1 {
		t.Errorf("stats = stages %d wins %d podiums %d poles %d fastest %d, want all 1",
			row.TotalStages, row.Wins, row.Podiums, row.PolePositions, row.FastestLaps)
	}
	if row.BestPosition == nil || *row.BestPosition != 1 {
		t.Errorf("BestPosition = %v, want 1", row.BestPosition)
	}
	if row.ChampionshipID != fixture.championshipID {
		t.Errorf("ChampionshipID = %s, want %s", row.ChampionshipID, fixture.championshipID)
	}
	if result.Success.TotalPoints != 27 {
		t.Errorf("payload TotalPoints = %d, want 27", result.Success.TotalPoints)
	}
}

func TestRecompute_RivalPenaltyReRanksScope(t *testing.T) {
	// A disqualification on competitor A promotes competitor B, so B's
	// recompute must see A's penalty even though it names only A.
	fixture := newSeasonFixture()
	stageID, batteryID := fixture.addStage(1)
	fixture.penalties = append(fixture.penalties, classificationdb.Penalty{
		ID:             uuid.New(),
		ChampionshipID: fixture.championshipID,
		StageID:        &stageID,
		CategoryID:     &fixture.categoryID,
		BatteryID:      &batteryID,
		CompetitorID:   fixture.competitorA,
		Type:           string(classificationdomain.PenaltyTypeDisqualification),
		Status:         string(classificationdomain.PenaltyStatusApplied),
	})
	svc := newTestService(fixture.repo)

	result, err := svc.Recompute(context.Background(), fixture.scopeB())
	if err != nil {
		t.Fatalf("Recompute returned error: %v", err)
	}
	if !result.IsSuccess() {
		t.Fatalf("expected success, got failure: %+v", result.Failure)
	}

	row := fixture.repo.LastUpserted
	if row == nil {
		t.Fatal("expected a classification upsert")
	}
	if row.TotalPoints != 25 {
		t.Errorf("TotalPoints = %d, want 25 after promotion to 1st", row.TotalPoints)
	}
	if row.Wins != 1 {
		t.Errorf("Wins = %d, want 1 after promotion to 1st", row.Wins)
	}
	if row.BestPosition == nil || *row.BestPosition != 1 {
		t.Errorf("BestPosition = %v, want 1", row.BestPosition)
	}
}

func TestRecompute_Idempotent(t *testing.T) {
	fixture := newSeasonFixture()
	fixture.addStage(1)
	fixture.addStage(8)
	svc := newTestService(fixture.repo)

	if _, err := svc.Recompute(context.Background(), fixture.scopeA()); err != nil {
		t.Fatalf("first Recompute: %v", err)
	}
	first := *fixture.repo.LastUpserted

	if _, err := svc.Recompute(context.Background(), fixture.scopeA()); err != nil {
		t.Fatalf("second Recompute: %v", err)
	}
	second := *fixture.repo.LastUpserted

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("recompute not idempotent (-first +second):\n%s", diff)
	}
}

func TestRecompute_NoScoringSystem(t *testing.T) {
	fixture := newSeasonFixture()
	fixture.addStage(1)
	fixture.repo.GetDefaultScoringSystemFunc = nil
	svc := newTestService(fixture.repo)

	result, err := svc.Recompute(context.Background(), fixture.scopeA())
	if err != nil {
		t.Fatalf("configuration problems must come back as failure payloads, got error: %v", err)
	}
	if !result.IsFailure() {
		t.Fatal("expected failure result")
	}
	if !strings.Contains(result.Failure.Reason, "no scoring system") {
		t.Errorf("Reason = %q, want mention of missing scoring system", result.Failure.Reason)
	}
	if fixture.repo.LastUpserted != nil {
		t.Error("failed recompute must not overwrite the stored row")
	}

	// Configuration errors are not worth retrying; the gather runs once.
	attempts := 0
	for _, step := range fixture.repo.Trace() {
		if step == "GetDefaultScoringSystem" {
			attempts++
		}
	}
	if attempts != 1 {
		t.Errorf("scoring system resolved %d times, want 1", attempts)
	}
}

func TestRecompute_UnknownScope(t *testing.T) {
	fixture := newSeasonFixture()
	svc := newTestService(fixture.repo)

	scope := fixture.scopeA()
	scope.SeasonID = classificationdomain.SeasonID(uuid.New())

	result, err := svc.Recompute(context.Background(), scope)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsFailure() {
		t.Fatal("expected failure result for unknown season")
	}
}

func TestRecompute_RetriesStorageErrorOnce(t *testing.T) {
	fixture := newSeasonFixture()
	fixture.addStage(1)

	calls := 0
	fixture.repo.ListStagesForSeasonFunc = func(ctx context.Context, db bun.IDB, seasonID uuid.UUID) ([]classificationdb.Stage, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("connection reset")
		}
		return fixture.stages, nil
	}
	svc := newTestService(fixture.repo)

	result, err := svc.Recompute(context.Background(), fixture.scopeA())
	if err != nil {
		t.Fatalf("expected retry to recover, got error: %v", err)
	}
	if !result.IsSuccess() {
		t.Fatalf("expected success after retry, got %+v", result.Failure)
	}
	if calls != 2 {
		t.Errorf("ListStagesForSeason called %d times, want 2", calls)
	}
}

func TestRecompute_PersistentStorageErrorSurfaces(t *testing.T) {
	fixture := newSeasonFixture()
	fixture.addStage(1)
	fixture.repo.ListStagesForSeasonFunc = func(ctx context.Context, db bun.IDB, seasonID uuid.UUID) ([]classificationdb.Stage, error) {
		return nil, errors.New("connection reset")
	}
	svc := newTestService(fixture.repo)

	if _, err := svc.Recompute(context.Background(), fixture.scopeA()); err == nil {
		t.Fatal("expected storage error to surface so the job queue can back off")
	}
}

func TestRecompute_DropsResultsForUnknownBattery(t *testing.T) {
	fixture := newSeasonFixture()
	stageID, _ := fixture.addStage(1)
	fixture.results = append(fixture.results, classificationdb.StageResult{
		ID: uuid.New(), StageID: stageID, CategoryID: fixture.categoryID, BatteryID: uuid.New(),
		CompetitorID: fixture.competitorA, Position: 1,
	})
	svc := newTestService(fixture.repo)

	result, err := svc.Recompute(context.Background(), fixture.scopeA())
	if err != nil {
		t.Fatalf("Recompute returned error: %v", err)
	}
	if !result.IsSuccess() {
		t.Fatalf("expected success, got %+v", result.Failure)
	}
	if fixture.repo.LastUpserted.TotalPoints != 27 {
		t.Errorf("TotalPoints = %d, want 27 (stray row dropped)", fixture.repo.LastUpserted.TotalPoints)
	}
}

func TestExplain_ReturnsBreakdownWithoutWriting(t *testing.T) {
	fixture := newSeasonFixture()
	fixture.addStage(1)
	fixture.addStage(8)
	svc := newTestService(fixture.repo)

	explained, err := svc.Explain(context.Background(), fixture.scopeA())
	if err != nil {
		t.Fatalf("Explain returned error: %v", err)
	}
	if len(explained.Stages) != 2 {
		t.Fatalf("got %d stage breakdowns, want 2", len(explained.Stages))
	}
	if explained.Classification.TotalPoints != 54 {
		t.Errorf("TotalPoints = %d, want 54", explained.Classification.TotalPoints)
	}
	for _, step := range fixture.repo.Trace() {
		if step == "UpsertClassification" {
			t.Fatal("Explain must not write")
		}
	}
}
