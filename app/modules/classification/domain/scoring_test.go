package classificationdomain

import "testing"

func TestScoringSystem_Points(t *testing.T) {
	system := ScoringSystem{
		PointsByPosition:  map[int]int{1: 25, 2: 18, 3: 15},
		PolePositionBonus: 1,
		FastestLapBonus:   1,
	}

	tests := []struct {
		name         string
		position     int
		isPole       bool
		isFastestLap bool
		want         int
	}{
		{"winner with pole and fastest lap", 1, true, true, 27},
		{"winner alone", 1, false, false, 25},
		{"second place", 2, false, false, 18},
		{"unlisted position scores zero", 7, false, false, 0},
		{"unlisted position keeps bonuses", 7, true, true, 2},
		{"fastest lap only", 3, false, true, 16},
		{"zero position yields bonuses only", 0, true, false, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := system.Points(tt.position, tt.isPole, tt.isFastestLap)
			if got != tt.want {
				t.Errorf("Points(%d, %v, %v) = %d, want %d", tt.position, tt.isPole, tt.isFastestLap, got, tt.want)
			}
		})
	}
}

func TestScoringSystem_BonusPoints(t *testing.T) {
	system := ScoringSystem{
		PointsByPosition:  map[int]int{1: 25},
		PolePositionBonus: 2,
		FastestLapBonus:   3,
	}
	if got := system.BonusPoints(true, true); got != 5 {
		t.Errorf("BonusPoints(true, true) = %d, want 5", got)
	}
	if got := system.BonusPoints(false, false); got != 0 {
		t.Errorf("BonusPoints(false, false) = %d, want 0", got)
	}
}
