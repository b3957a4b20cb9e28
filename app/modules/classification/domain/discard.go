package classificationdomain

import (
	"sort"
	"time"
)

// StageEntry is one stage's contribution to a competitor's season total,
// prior to discard selection.
type StageEntry struct {
	StageID StageID
	Date    time.Time
	Points  int
}

// DiscardSelection splits a competitor's season entries into the subset that
// counts toward the total and the subset dropped by the discard policy. The
// discarded entries are kept for audit display, never summed.
type DiscardSelection struct {
	Counted   []StageEntry
	Discarded []StageEntry
}

// SelectDiscards applies the scoring system's discard policy to a
// competitor's scored stage entries (one per stage actually contributing).
// worst_n drops the lowest point totals, best_n the highest; ties drop the
// chronologically earlier stage first. At least one entry always survives: if
// the discard count covers everything, only the single highest-scoring entry
// is kept.
func SelectDiscards(entries []StageEntry, mode DiscardMode, count int) DiscardSelection {
	counted := make([]StageEntry, len(entries))
	copy(counted, entries)
	sort.SliceStable(counted, func(i, j int) bool {
		return counted[i].Date.Before(counted[j].Date)
	})

	switch mode {
	case DiscardModeWorstN, DiscardModeBestN:
	default:
		// none, and custom until a custom policy exists upstream
		return DiscardSelection{Counted: counted}
	}
	if count <= 0 || len(counted) == 0 {
		return DiscardSelection{Counted: counted}
	}

	if count >= len(counted) {
		keep := bestEntryIndex(counted)
		selection := DiscardSelection{Counted: []StageEntry{counted[keep]}}
		for i, e := range counted {
			if i != keep {
				selection.Discarded = append(selection.Discarded, e)
			}
		}
		return selection
	}

	// Rank candidates worst-first (or best-first), earlier stage winning ties.
	order := make([]int, len(counted))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		pa, pb := counted[order[a]].Points, counted[order[b]].Points
		if pa != pb {
			if mode == DiscardModeWorstN {
				return pa < pb
			}
			return pa > pb
		}
		return counted[order[a]].Date.Before(counted[order[b]].Date)
	})

	drop := make(map[int]bool, count)
	for _, idx := range order[:count] {
		drop[idx] = true
	}

	var selection DiscardSelection
	for i, e := range counted {
		if drop[i] {
			selection.Discarded = append(selection.Discarded, e)
		} else {
			selection.Counted = append(selection.Counted, e)
		}
	}
	return selection
}

// bestEntryIndex picks the survivor when the discard count covers the whole
// season. Entries arrive in chronological order; a point tie keeps the later
// stage, matching the rule that ties drop the earlier stage first.
func bestEntryIndex(entries []StageEntry) int {
	best := 0
	for i, e := range entries {
		if e.Points >= entries[best].Points {
			best = i
		}
	}
	return best
}
