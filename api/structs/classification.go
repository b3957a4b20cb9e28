package structs

import (
	"time"

	classificationdomain "github.com/Brasil-Rental-Karts/brk-backend-sub002/app/modules/classification/domain"
)

// Classification is the JSON shape of one standings row.
type Classification struct {
	CompetitorID     string    `json:"competitor_id"`
	CategoryID       string    `json:"category_id"`
	SeasonID         string    `json:"season_id"`
	ChampionshipID   string    `json:"championship_id"`
	TotalPoints      int       `json:"total_points"`
	TotalStages      int       `json:"total_stages"`
	Wins             int       `json:"wins"`
	Podiums          int       `json:"podiums"`
	PolePositions    int       `json:"pole_positions"`
	FastestLaps      int       `json:"fastest_laps"`
	BestPosition     *int      `json:"best_position"`
	AveragePosition  float64   `json:"average_position"`
	LastCalculatedAt time.Time `json:"last_calculated_at"`
}

// BatteryBreakdown is the per-battery audit detail inside an explanation.
type BatteryBreakdown struct {
	BatteryID        string   `json:"battery_id"`
	Position         int      `json:"position"`
	Points           int      `json:"points"`
	Scored           bool     `json:"scored"`
	Disqualified     bool     `json:"disqualified"`
	PolePosition     bool     `json:"pole_position"`
	FastestLap       bool     `json:"fastest_lap"`
	AppliedPenalties []string `json:"applied_penalties"`
}

// StageBreakdown is the per-stage audit detail inside an explanation.
type StageBreakdown struct {
	StageID      string             `json:"stage_id"`
	StageName    string             `json:"stage_name"`
	Date         time.Time          `json:"date"`
	Batteries    []BatteryBreakdown `json:"batteries"`
	Points       int                `json:"points"`
	BestPosition int                `json:"best_position"`
	Scored       bool               `json:"scored"`
	Counted      bool               `json:"counted"`
}

// Explanation pairs a standings row with the stage-by-stage breakdown that
// produced it.
type Explanation struct {
	Classification Classification   `json:"classification"`
	Stages         []StageBreakdown `json:"stages"`
}

// RecomputeRequest identifies the scope to recompute.
type RecomputeRequest struct {
	SeasonID     string `json:"season_id"`
	CategoryID   string `json:"category_id"`
	CompetitorID string `json:"competitor_id"`
}

// RecomputeResponse reports how many recompute jobs were enqueued.
type RecomputeResponse struct {
	Enqueued int `json:"enqueued"`
}

// FromClassification maps a domain classification to its JSON shape.
func FromClassification(c classificationdomain.Classification) Classification {
	return Classification{
		CompetitorID:     c.CompetitorID.String(),
		CategoryID:       c.CategoryID.String(),
		SeasonID:         c.SeasonID.String(),
		ChampionshipID:   c.ChampionshipID.String(),
		TotalPoints:      c.TotalPoints,
		TotalStages:      c.TotalStages,
		Wins:             c.Wins,
		Podiums:          c.Podiums,
		PolePositions:    c.PolePositions,
		FastestLaps:      c.FastestLaps,
		BestPosition:     c.BestPosition,
		AveragePosition:  c.AveragePosition,
		LastCalculatedAt: c.LastCalculatedAt,
	}
}

// FromSeasonResult maps a domain explanation to its JSON shape.
func FromSeasonResult(r classificationdomain.SeasonResult) Explanation {
	stages := make([]StageBreakdown, 0, len(r.Stages))
	for _, stage := range r.Stages {
		batteries := make([]BatteryBreakdown, 0, len(stage.Batteries))
		for _, battery := range stage.Batteries {
			penalties := make([]string, 0, len(battery.AppliedPenalties))
			for _, id := range battery.AppliedPenalties {
				penalties = append(penalties, id.String())
			}
			batteries = append(batteries, BatteryBreakdown{
				BatteryID:        battery.BatteryID.String(),
				Position:         battery.Position,
				Points:           battery.Points,
				Scored:           battery.Scored,
				Disqualified:     battery.Disqualified,
				PolePosition:     battery.PolePosition,
				FastestLap:       battery.FastestLap,
				AppliedPenalties: penalties,
			})
		}
		stages = append(stages, StageBreakdown{
			StageID:      stage.StageID.String(),
			StageName:    stage.StageName,
			Date:         stage.Date,
			Batteries:    batteries,
			Points:       stage.Points,
			BestPosition: stage.BestPosition,
			Scored:       stage.Scored,
			Counted:      stage.Counted,
		})
	}
	return Explanation{
		Classification: FromClassification(r.Classification),
		Stages:         stages,
	}
}
