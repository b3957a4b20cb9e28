package classificationservice

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/xuri/excelize/v2"

	classificationdb "github.com/Brasil-Rental-Karts/brk-backend-sub002/app/modules/classification/infrastructure/repositories"
)

func TestExportSeasonStandings(t *testing.T) {
	repo := NewFakeRepository()
	best := 1
	repo.ListClassificationsFunc = func(ctx context.Context, db bun.IDB, seasonID, categoryID uuid.UUID) ([]classificationdb.ChampionshipClassification, error) {
		return []classificationdb.ChampionshipClassification{
			{CompetitorID: uuid.New(), TotalPoints: 53, TotalStages: 3, Wins: 1, Podiums: 2, BestPosition: &best, AveragePosition: 2.33},
			{CompetitorID: uuid.New(), TotalPoints: 41, TotalStages: 3},
		}, nil
	}
	svc := newTestService(repo)

	data, err := svc.ExportSeasonStandings(context.Background(), uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("ExportSeasonStandings returned error: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("exported bytes are not a valid workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Standings")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header plus 2 standings", len(rows))
	}
	if rows[0][0] != "Pos" || rows[0][2] != "Points" {
		t.Errorf("header = %v, want Pos/.../Points layout", rows[0])
	}
	if rows[1][0] != "1" || rows[1][2] != "53" {
		t.Errorf("first standing row = %v, want rank 1 with 53 points", rows[1])
	}
	if rows[2][0] != "2" || rows[2][2] != "41" {
		t.Errorf("second standing row = %v, want rank 2 with 41 points", rows[2])
	}
}

func TestExportSeasonStandings_Empty(t *testing.T) {
	svc := newTestService(NewFakeRepository())

	data, err := svc.ExportSeasonStandings(context.Background(), uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("ExportSeasonStandings returned error: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("exported bytes are not a valid workbook: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows("Standings")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("got %d rows, want header only", len(rows))
	}
}
