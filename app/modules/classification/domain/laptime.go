package classificationdomain

// BestLap is one competitor's best single lap in a battery.
type BestLap struct {
	CompetitorID CompetitorID
	LapNumber    int
	TimeMs       int64
}

// LapAnalysis is the pure outcome of analyzing all lap-time records for one
// (stage, category, battery).
type LapAnalysis struct {
	BestByCompetitor  map[CompetitorID]BestLap
	TotalByCompetitor map[CompetitorID]int64
	FastestLap        *BestLap
}

// AnalyzeLapTimes computes each competitor's best lap, total race time and the
// battery's fastest-lap holder. Records that fail the lap-number invariant or
// carry no laps are treated as "no data" and skipped; the competitor simply
// cannot win the fastest-lap bonus.
func AnalyzeLapTimes(records []LapTimeRecord) LapAnalysis {
	analysis := LapAnalysis{
		BestByCompetitor:  make(map[CompetitorID]BestLap, len(records)),
		TotalByCompetitor: make(map[CompetitorID]int64, len(records)),
	}

	for _, record := range records {
		if len(record.Laps) == 0 || record.Validate() != nil {
			continue
		}
		best := BestLap{CompetitorID: record.CompetitorID}
		var total int64
		for _, lap := range record.Laps {
			total += lap.TimeMs
			if best.TimeMs == 0 || lap.TimeMs < best.TimeMs {
				best.LapNumber = lap.LapNumber
				best.TimeMs = lap.TimeMs
			}
		}
		analysis.BestByCompetitor[record.CompetitorID] = best
		analysis.TotalByCompetitor[record.CompetitorID] = total

		if analysis.FastestLap == nil || lessLap(best, *analysis.FastestLap) {
			fastest := best
			analysis.FastestLap = &fastest
		}
	}
	return analysis
}

// lessLap is the single place the fastest-lap tie-break rule lives: lower
// time, then earlier lap number, then competitor id. The upstream rule beyond
// "earliest lap, then id" is unspecified, so keep any revision here.
func lessLap(a, b BestLap) bool {
	if a.TimeMs != b.TimeMs {
		return a.TimeMs < b.TimeMs
	}
	if a.LapNumber != b.LapNumber {
		return a.LapNumber < b.LapNumber
	}
	return a.CompetitorID.String() < b.CompetitorID.String()
}
