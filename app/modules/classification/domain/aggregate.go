package classificationdomain

import (
	"math"
	"sort"
	"time"
)

// BatteryInput carries everything the engine needs for one battery of one
// stage: the raw finishing order, the lap-time records and the penalties that
// may cover it. Penalties may be scoped wider than the battery; AppliesTo
// filters them.
type BatteryInput struct {
	Battery Battery
	Results []RaceResult
	Laps    []LapTimeRecord
}

// StageInput is one stage of the season as seen by a single category.
type StageInput struct {
	Stage     Stage
	Batteries []BatteryInput
}

// SeasonInput is the full input for recomputing one scope. Everything the
// resulting classification depends on is in here, which is what keeps
// recomputation idempotent.
type SeasonInput struct {
	Scope          Scope
	ChampionshipID ChampionshipID
	ScoringSystem  ScoringSystem
	Stages         []StageInput
	Penalties      []Penalty
	Now            time.Time
}

// BatteryBreakdown is the competitor's scored outcome for one battery.
type BatteryBreakdown struct {
	BatteryID        BatteryID
	Position         int
	Points           int
	Scored           bool
	Disqualified     bool
	PolePosition     bool
	FastestLap       bool
	AppliedPenalties []PenaltyID
}

// StageBreakdown is the competitor's outcome for one stage, with the
// per-battery detail retained for audit display.
type StageBreakdown struct {
	StageID      StageID
	StageName    string
	Date         time.Time
	Batteries    []BatteryBreakdown
	Points       int
	BestPosition int
	Scored       bool
	Counted      bool
}

// SeasonResult pairs the classification row with its full explanation.
type SeasonResult struct {
	Classification Classification
	Stages         []StageBreakdown
}

// ComputeSeason runs the whole pipeline for one scope: penalty resolution and
// lap analysis per battery, scoring, discard selection across the season, and
// the final fold into a Classification. Pure function of its input; calling
// it twice with the same input yields identical output.
func ComputeSeason(in SeasonInput) SeasonResult {
	stages := make([]StageBreakdown, 0, len(in.Stages))
	for _, stage := range in.Stages {
		if breakdown, ok := computeStage(in, stage); ok {
			stages = append(stages, breakdown)
		}
	}
	sort.SliceStable(stages, func(i, j int) bool {
		return stages[i].Date.Before(stages[j].Date)
	})

	entries := make([]StageEntry, 0, len(stages))
	for _, s := range stages {
		if s.Scored {
			entries = append(entries, StageEntry{StageID: s.StageID, Date: s.Date, Points: s.Points})
		}
	}
	selection := SelectDiscards(entries, in.ScoringSystem.DiscardMode, in.ScoringSystem.DiscardCount)
	countedStages := make(map[StageID]bool, len(selection.Counted))
	for _, e := range selection.Counted {
		countedStages[e.StageID] = true
	}

	classification := Classification{
		CompetitorID:     in.Scope.CompetitorID,
		CategoryID:       in.Scope.CategoryID,
		SeasonID:         in.Scope.SeasonID,
		ChampionshipID:   in.ChampionshipID,
		LastCalculatedAt: in.Now,
	}

	var positionSum, positionCount int
	for i := range stages {
		s := &stages[i]
		s.Counted = s.Scored && countedStages[s.StageID]

		// Wins, podiums, poles and fastest laps happened on track and stay
		// tallied even when the stage's points are discarded.
		for _, b := range s.Batteries {
			if !b.Scored {
				continue
			}
			if b.Position == 1 {
				classification.Wins++
			}
			if b.Position <= 3 {
				classification.Podiums++
			}
			if b.PolePosition {
				classification.PolePositions++
			}
			if b.FastestLap {
				classification.FastestLaps++
			}
		}

		if !s.Counted {
			continue
		}
		classification.TotalPoints += s.Points
		classification.TotalStages++
		positionSum += s.BestPosition
		positionCount++
		if classification.BestPosition == nil || s.BestPosition < *classification.BestPosition {
			best := s.BestPosition
			classification.BestPosition = &best
		}
	}
	if positionCount > 0 {
		mean := float64(positionSum) / float64(positionCount)
		classification.AveragePosition = math.Round(mean*100) / 100
	}

	return SeasonResult{Classification: classification, Stages: stages}
}

// computeStage scores one stage for the scope's competitor. It returns false
// when the competitor has no result in any battery of the stage ("did not
// participate"), which excludes the stage from the season entirely.
func computeStage(in SeasonInput, stage StageInput) (StageBreakdown, bool) {
	breakdown := StageBreakdown{
		StageID:   stage.Stage.ID,
		StageName: stage.Stage.Name,
		Date:      stage.Stage.ScheduledAt,
	}

	participated := false
	for _, battery := range stage.Batteries {
		line, ok := computeBattery(in, stage.Stage, battery)
		if !ok {
			continue
		}
		participated = true
		breakdown.Batteries = append(breakdown.Batteries, line)
		breakdown.Points += line.Points
		if line.Scored {
			breakdown.Scored = true
			if breakdown.BestPosition == 0 || line.Position < breakdown.BestPosition {
				breakdown.BestPosition = line.Position
			}
		}
	}
	return breakdown, participated
}

// computeBattery resolves penalties and lap analysis for one battery and
// scores the scope's competitor in it.
func computeBattery(in SeasonInput, stage Stage, battery BatteryInput) (BatteryBreakdown, bool) {
	lines := ResolvePenalties(stage.SeasonID, stage.ID, battery.Battery.CategoryID, battery.Battery.ID, battery.Results, in.Penalties)
	var line *RaceLine
	for i := range lines {
		if lines[i].CompetitorID == in.Scope.CompetitorID {
			line = &lines[i]
			break
		}
	}
	if line == nil {
		return BatteryBreakdown{}, false
	}

	analysis := AnalyzeLapTimes(battery.Laps)
	fastestLap := analysis.FastestLap != nil && analysis.FastestLap.CompetitorID == in.Scope.CompetitorID

	out := BatteryBreakdown{
		BatteryID:        battery.Battery.ID,
		Position:         line.Position,
		Scored:           line.Scored,
		Disqualified:     line.Disqualified,
		PolePosition:     line.PolePosition,
		FastestLap:       fastestLap,
		AppliedPenalties: line.AppliedPenalties,
	}

	switch {
	case line.Disqualified && in.ScoringSystem.BonusOnDisqualification:
		out.Points = in.ScoringSystem.BonusPoints(line.PolePosition, fastestLap)
	case line.Disqualified:
		out.Points = 0
		out.PolePosition = false
		out.FastestLap = false
	default:
		out.Points = in.ScoringSystem.Points(line.Position, line.PolePosition, fastestLap)
	}
	return out, true
}
