package classificationdomain

// Points returns the points earned for a finishing position plus bonuses.
// position is the 1-based rank after penalty adjustment; positions not listed
// in the table score zero. Bonuses are additive and independent of position.
func (s ScoringSystem) Points(position int, isPole, isFastestLap bool) int {
	points := 0
	if position > 0 {
		points = s.PointsByPosition[position]
	}
	if isPole {
		points += s.PolePositionBonus
	}
	if isFastestLap {
		points += s.FastestLapBonus
	}
	return points
}

// BonusPoints returns only the pole/fastest-lap bonus portion. Used for
// disqualified competitors when the policy retains bonuses on DSQ.
func (s ScoringSystem) BonusPoints(isPole, isFastestLap bool) int {
	return s.Points(0, isPole, isFastestLap)
}
