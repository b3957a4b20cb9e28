package classificationdomain

import (
	"sort"
)

// RaceLine is one competitor's entry in a battery's resolved order.
type RaceLine struct {
	CompetitorID     CompetitorID
	OriginalPosition int
	Position         int
	TotalTimeMs      int64
	AdjustedTimeMs   int64
	PolePosition     bool
	Scored           bool
	Disqualified     bool
	AppliedPenalties []PenaltyID
}

// ResolvePenalties applies the applied penalties covering one
// (stage, category, battery) to its raw finishing order and returns the final
// ranked list. Disqualification short-circuits every other penalty for that
// competitor; otherwise time penalties apply before position penalties, each
// in penalty-creation order. Disqualified competitors are appended after all
// classified ones in original run order, unscored.
func ResolvePenalties(seasonID SeasonID, stageID StageID, categoryID CategoryID, batteryID BatteryID, results []RaceResult, penalties []Penalty) []RaceLine {
	lines := make([]RaceLine, 0, len(results))
	for _, r := range results {
		lines = append(lines, RaceLine{
			CompetitorID:     r.CompetitorID,
			OriginalPosition: r.Position,
			Position:         r.Position,
			TotalTimeMs:      r.TotalTimeMs,
			AdjustedTimeMs:   r.TotalTimeMs,
			PolePosition:     r.PolePosition,
			Scored:           true,
		})
	}
	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].OriginalPosition < lines[j].OriginalPosition
	})

	active := make([]Penalty, 0, len(penalties))
	for _, p := range penalties {
		if p.AppliesTo(seasonID, stageID, categoryID, batteryID) {
			active = append(active, p)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].CreatedAt.Before(active[j].CreatedAt)
	})

	disqualified := map[CompetitorID][]PenaltyID{}
	for _, p := range active {
		if p.Type == PenaltyTypeDisqualification {
			disqualified[p.CompetitorID] = append(disqualified[p.CompetitorID], p.ID)
		}
	}

	var classified, excluded []RaceLine
	for _, line := range lines {
		if ids, ok := disqualified[line.CompetitorID]; ok {
			line.Scored = false
			line.Disqualified = true
			line.AppliedPenalties = append(line.AppliedPenalties, ids...)
			excluded = append(excluded, line)
			continue
		}
		classified = append(classified, line)
	}

	classified = applyTimePenalties(classified, active, disqualified)
	classified = applyPositionPenalties(classified, active, disqualified)

	for i := range classified {
		classified[i].Position = i + 1
	}
	pos := len(classified)
	for i := range excluded {
		pos++
		excluded[i].Position = pos
	}
	return append(classified, excluded...)
}

// applyTimePenalties adds penalty seconds to each affected competitor's
// elapsed time and re-sorts ascending by adjusted time. The sort is stable, so
// exact ties keep the original finishing order. Entries with no recorded time
// keep their relative order after all timed entries; a time penalty on an
// untimed entry is recorded but cannot adjust a time that was never taken.
func applyTimePenalties(classified []RaceLine, active []Penalty, disqualified map[CompetitorID][]PenaltyID) []RaceLine {
	applied := false
	for _, p := range active {
		if p.Type != PenaltyTypeTime {
			continue
		}
		if _, dsq := disqualified[p.CompetitorID]; dsq {
			continue
		}
		for i := range classified {
			if classified[i].CompetitorID == p.CompetitorID {
				classified[i].AppliedPenalties = append(classified[i].AppliedPenalties, p.ID)
				if classified[i].TotalTimeMs > 0 {
					classified[i].AdjustedTimeMs += int64(p.TimePenaltySeconds) * 1000
					applied = true
				}
				break
			}
		}
	}
	if !applied {
		return classified
	}
	sort.SliceStable(classified, func(i, j int) bool {
		ti, tj := classified[i].AdjustedTimeMs, classified[j].AdjustedTimeMs
		if ti <= 0 || tj <= 0 {
			// untimed entries sink behind timed ones
			return ti > 0 && tj <= 0
		}
		return ti < tj
	})
	return classified
}

// applyPositionPenalties demotes each affected competitor by N slots, clamped
// to the field size; everyone between the old and new slot moves up by one.
func applyPositionPenalties(classified []RaceLine, active []Penalty, disqualified map[CompetitorID][]PenaltyID) []RaceLine {
	for _, p := range active {
		if p.Type != PenaltyTypePosition || p.PositionPenalty <= 0 {
			continue
		}
		if _, dsq := disqualified[p.CompetitorID]; dsq {
			continue
		}
		idx := -1
		for i := range classified {
			if classified[i].CompetitorID == p.CompetitorID {
				idx = i
				break
			}
		}
		if idx < 0 {
			continue
		}
		target := idx + p.PositionPenalty
		if target > len(classified)-1 {
			target = len(classified) - 1
		}
		line := classified[idx]
		line.AppliedPenalties = append(line.AppliedPenalties, p.ID)
		classified = append(classified[:idx], classified[idx+1:]...)
		classified = append(classified[:target], append([]RaceLine{line}, classified[target:]...)...)
	}
	return classified
}
