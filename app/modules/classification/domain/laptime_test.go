package classificationdomain

import (
	"testing"

	"github.com/google/uuid"
)

func lapRecord(c CompetitorID, times ...int64) LapTimeRecord {
	laps := make([]LapEntry, len(times))
	for i, ms := range times {
		laps[i] = LapEntry{LapNumber: i + 1, TimeMs: ms}
	}
	return LapTimeRecord{CompetitorID: c, Laps: laps}
}

func TestAnalyzeLapTimes_BestAndFastest(t *testing.T) {
	a, b := CompetitorID(uuid.New()), CompetitorID(uuid.New())

	analysis := AnalyzeLapTimes([]LapTimeRecord{
		lapRecord(a, 61000, 59500, 60200),
		lapRecord(b, 60100, 59900, 61500),
	})

	if best := analysis.BestByCompetitor[a]; best.TimeMs != 59500 || best.LapNumber != 2 {
		t.Errorf("best lap for a = %+v, want 59500 on lap 2", best)
	}
	if total := analysis.TotalByCompetitor[b]; total != 181500 {
		t.Errorf("total for b = %d, want 181500", total)
	}
	if analysis.FastestLap == nil || analysis.FastestLap.CompetitorID != a {
		t.Fatalf("fastest lap holder = %+v, want competitor a", analysis.FastestLap)
	}
}

func TestAnalyzeLapTimes_TieBreak(t *testing.T) {
	// Two competitors with the identical best time: earliest lap number wins,
	// then the lower competitor id.
	a, b := CompetitorID(uuid.New()), CompetitorID(uuid.New())

	analysis := AnalyzeLapTimes([]LapTimeRecord{
		lapRecord(a, 61000, 59500), // best on lap 2
		lapRecord(b, 59500, 61000), // best on lap 1
	})
	if analysis.FastestLap.CompetitorID != b {
		t.Errorf("earlier lap number should win the tie, got %s", analysis.FastestLap.CompetitorID)
	}

	// Same time, same lap number: deterministic id tie-break.
	analysis = AnalyzeLapTimes([]LapTimeRecord{
		lapRecord(a, 59500),
		lapRecord(b, 59500),
	})
	want := a
	if b.String() < a.String() {
		want = b
	}
	if analysis.FastestLap.CompetitorID != want {
		t.Errorf("id tie-break: got %s, want %s", analysis.FastestLap.CompetitorID, want)
	}
}

func TestAnalyzeLapTimes_NoData(t *testing.T) {
	a := CompetitorID(uuid.New())

	analysis := AnalyzeLapTimes([]LapTimeRecord{{CompetitorID: a}})
	if analysis.FastestLap != nil {
		t.Error("empty record must not produce a fastest lap")
	}
	if _, ok := analysis.BestByCompetitor[a]; ok {
		t.Error("empty record must be treated as no data")
	}
}

func TestAnalyzeLapTimes_InvalidRecordSkipped(t *testing.T) {
	a, b := CompetitorID(uuid.New()), CompetitorID(uuid.New())

	broken := LapTimeRecord{CompetitorID: a, Laps: []LapEntry{
		{LapNumber: 2, TimeMs: 60000},
		{LapNumber: 1, TimeMs: 59000}, // out of order
	}}

	analysis := AnalyzeLapTimes([]LapTimeRecord{broken, lapRecord(b, 61000)})
	if analysis.FastestLap == nil || analysis.FastestLap.CompetitorID != b {
		t.Error("invalid record should be skipped, not abort the battery")
	}
}

func TestLapTimeRecord_Validate(t *testing.T) {
	tests := []struct {
		name    string
		laps    []LapEntry
		wantErr bool
	}{
		{"valid", []LapEntry{{1, 60000}, {2, 59000}}, false},
		{"empty", nil, false},
		{"duplicate lap number", []LapEntry{{1, 60000}, {1, 59000}}, true},
		{"decreasing lap number", []LapEntry{{2, 60000}, {1, 59000}}, true},
		{"non-positive time", []LapEntry{{1, 0}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := LapTimeRecord{Laps: tt.laps}.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
