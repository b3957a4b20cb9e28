package classificationdb

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	classificationdomain "github.com/Brasil-Rental-Karts/brk-backend-sub002/app/modules/classification/domain"
)

// Season is a read model owned by the seasons CRUD surface.
type Season struct {
	bun.BaseModel `bun:"table:seasons,alias:sn"`

	ID             uuid.UUID `bun:"id,pk,type:uuid"`
	ChampionshipID uuid.UUID `bun:"championship_id,type:uuid,notnull"`
	Name           string    `bun:"name,notnull"`
}

// Category is a read model. ScoringSystemID overrides the championship
// default when set.
type Category struct {
	bun.BaseModel `bun:"table:categories,alias:cat"`

	ID              uuid.UUID  `bun:"id,pk,type:uuid"`
	SeasonID        uuid.UUID  `bun:"season_id,type:uuid,notnull"`
	Name            string     `bun:"name,notnull"`
	ScoringSystemID *uuid.UUID `bun:"scoring_system_id,type:uuid"`
}

// PositionPoints is one row of a scoring system's position table.
type PositionPoints struct {
	Position int `json:"position"`
	Points   int `json:"points"`
}

// ScoringSystem is a read model owned by championship staff.
type ScoringSystem struct {
	bun.BaseModel `bun:"table:scoring_systems,alias:ss"`

	ID                      uuid.UUID        `bun:"id,pk,type:uuid"`
	ChampionshipID          uuid.UUID        `bun:"championship_id,type:uuid,notnull"`
	Name                    string           `bun:"name,notnull"`
	Positions               []PositionPoints `bun:"positions,type:jsonb,notnull"`
	PolePositionBonus       int              `bun:"pole_position_bonus,notnull,default:0"`
	FastestLapBonus         int              `bun:"fastest_lap_bonus,notnull,default:0"`
	DiscardMode             string           `bun:"discard_mode,notnull,default:'none'"`
	DiscardCount            int              `bun:"discard_count,notnull,default:0"`
	BonusOnDisqualification bool             `bun:"bonus_on_disqualification,notnull,default:false"`
	IsDefault               bool             `bun:"is_default,notnull,default:false"`
}

// ToDomain converts the stored policy into the engine's value type.
func (s *ScoringSystem) ToDomain() classificationdomain.ScoringSystem {
	points := make(map[int]int, len(s.Positions))
	for _, p := range s.Positions {
		points[p.Position] = p.Points
	}
	return classificationdomain.ScoringSystem{
		ID:                      classificationdomain.ScoringSystemID(s.ID),
		ChampionshipID:          classificationdomain.ChampionshipID(s.ChampionshipID),
		Name:                    s.Name,
		PointsByPosition:        points,
		PolePositionBonus:       s.PolePositionBonus,
		FastestLapBonus:         s.FastestLapBonus,
		DiscardMode:             classificationdomain.DiscardMode(s.DiscardMode),
		DiscardCount:            s.DiscardCount,
		BonusOnDisqualification: s.BonusOnDisqualification,
		IsDefault:               s.IsDefault,
	}
}

// Stage is a read model.
type Stage struct {
	bun.BaseModel `bun:"table:stages,alias:st"`

	ID          uuid.UUID `bun:"id,pk,type:uuid"`
	SeasonID    uuid.UUID `bun:"season_id,type:uuid,notnull"`
	Name        string    `bun:"name,notnull"`
	ScheduledAt time.Time `bun:"scheduled_at,notnull"`
}

// Battery is a read model: one heat of one category at a stage.
type Battery struct {
	bun.BaseModel `bun:"table:batteries,alias:bt"`

	ID           uuid.UUID `bun:"id,pk,type:uuid"`
	StageID      uuid.UUID `bun:"stage_id,type:uuid,notnull"`
	CategoryID   uuid.UUID `bun:"category_id,type:uuid,notnull"`
	BatteryOrder int       `bun:"battery_order,notnull,default:1"`
}

func (b *Battery) ToDomain() classificationdomain.Battery {
	return classificationdomain.Battery{
		ID:         classificationdomain.BatteryID(b.ID),
		StageID:    classificationdomain.StageID(b.StageID),
		CategoryID: classificationdomain.CategoryID(b.CategoryID),
		Order:      b.BatteryOrder,
	}
}

// StageResult is a read model: the raw finishing record submitted per battery.
type StageResult struct {
	bun.BaseModel `bun:"table:stage_results,alias:sr"`

	ID           uuid.UUID `bun:"id,pk,type:uuid"`
	StageID      uuid.UUID `bun:"stage_id,type:uuid,notnull"`
	CategoryID   uuid.UUID `bun:"category_id,type:uuid,notnull"`
	BatteryID    uuid.UUID `bun:"battery_id,type:uuid,notnull"`
	CompetitorID uuid.UUID `bun:"competitor_id,type:uuid,notnull"`
	Position     int       `bun:"position,notnull"`
	TotalTimeMs  int64     `bun:"total_time_ms,notnull,default:0"`
	PolePosition bool      `bun:"pole_position,notnull,default:false"`
}

func (r *StageResult) ToDomain() classificationdomain.RaceResult {
	return classificationdomain.RaceResult{
		CompetitorID: classificationdomain.CompetitorID(r.CompetitorID),
		StageID:      classificationdomain.StageID(r.StageID),
		CategoryID:   classificationdomain.CategoryID(r.CategoryID),
		BatteryID:    classificationdomain.BatteryID(r.BatteryID),
		Position:     r.Position,
		TotalTimeMs:  r.TotalTimeMs,
		PolePosition: r.PolePosition,
	}
}

// LapTime is a read model: one record per (competitor, stage, category,
// battery) holding the ordered lap sequence as jsonb.
type LapTime struct {
	bun.BaseModel `bun:"table:lap_times,alias:lt"`

	ID           uuid.UUID                       `bun:"id,pk,type:uuid"`
	StageID      uuid.UUID                       `bun:"stage_id,type:uuid,notnull"`
	CategoryID   uuid.UUID                       `bun:"category_id,type:uuid,notnull"`
	BatteryID    uuid.UUID                       `bun:"battery_id,type:uuid,notnull"`
	CompetitorID uuid.UUID                       `bun:"competitor_id,type:uuid,notnull"`
	Laps         []classificationdomain.LapEntry `bun:"laps,type:jsonb,notnull"`
}

func (l *LapTime) ToDomain() classificationdomain.LapTimeRecord {
	return classificationdomain.LapTimeRecord{
		CompetitorID: classificationdomain.CompetitorID(l.CompetitorID),
		StageID:      classificationdomain.StageID(l.StageID),
		CategoryID:   classificationdomain.CategoryID(l.CategoryID),
		BatteryID:    classificationdomain.BatteryID(l.BatteryID),
		Laps:         l.Laps,
	}
}

// Penalty is a read model owned by championship staff.
type Penalty struct {
	bun.BaseModel `bun:"table:penalties,alias:pn"`

	ID                 uuid.UUID  `bun:"id,pk,type:uuid"`
	ChampionshipID     uuid.UUID  `bun:"championship_id,type:uuid,notnull"`
	SeasonID           *uuid.UUID `bun:"season_id,type:uuid"`
	StageID            *uuid.UUID `bun:"stage_id,type:uuid"`
	CategoryID         *uuid.UUID `bun:"category_id,type:uuid"`
	BatteryID          *uuid.UUID `bun:"battery_id,type:uuid"`
	CompetitorID       uuid.UUID  `bun:"competitor_id,type:uuid,notnull"`
	Type               string     `bun:"type,notnull"`
	Status             string     `bun:"status,notnull"`
	TimePenaltySeconds int        `bun:"time_penalty_seconds,notnull,default:0"`
	PositionPenalty    int        `bun:"position_penalty,notnull,default:0"`
	IsImported         bool       `bun:"is_imported,notnull,default:false"`
	CreatedAt          time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

func (p *Penalty) ToDomain() classificationdomain.Penalty {
	out := classificationdomain.Penalty{
		ID:                 classificationdomain.PenaltyID(p.ID),
		ChampionshipID:     classificationdomain.ChampionshipID(p.ChampionshipID),
		CompetitorID:       classificationdomain.CompetitorID(p.CompetitorID),
		Type:               classificationdomain.PenaltyType(p.Type),
		Status:             classificationdomain.PenaltyStatus(p.Status),
		TimePenaltySeconds: p.TimePenaltySeconds,
		PositionPenalty:    p.PositionPenalty,
		IsImported:         p.IsImported,
		CreatedAt:          p.CreatedAt,
	}
	if p.SeasonID != nil {
		id := classificationdomain.SeasonID(*p.SeasonID)
		out.SeasonID = &id
	}
	if p.StageID != nil {
		id := classificationdomain.StageID(*p.StageID)
		out.StageID = &id
	}
	if p.CategoryID != nil {
		id := classificationdomain.CategoryID(*p.CategoryID)
		out.CategoryID = &id
	}
	if p.BatteryID != nil {
		id := classificationdomain.BatteryID(*p.BatteryID)
		out.BatteryID = &id
	}
	return out
}

// ChampionshipClassification is the engine-owned derived aggregate, one row
// per (competitor, category, season), upserted on every recompute.
type ChampionshipClassification struct {
	bun.BaseModel `bun:"table:championship_classifications,alias:cc"`

	ID               int64     `bun:"id,pk,autoincrement"`
	CompetitorID     uuid.UUID `bun:"competitor_id,type:uuid,notnull"`
	CategoryID       uuid.UUID `bun:"category_id,type:uuid,notnull"`
	SeasonID         uuid.UUID `bun:"season_id,type:uuid,notnull"`
	ChampionshipID   uuid.UUID `bun:"championship_id,type:uuid,notnull"`
	TotalPoints      int       `bun:"total_points,notnull,default:0"`
	TotalStages      int       `bun:"total_stages,notnull,default:0"`
	Wins             int       `bun:"wins,notnull,default:0"`
	Podiums          int       `bun:"podiums,notnull,default:0"`
	PolePositions    int       `bun:"pole_positions,notnull,default:0"`
	FastestLaps      int       `bun:"fastest_laps,notnull,default:0"`
	BestPosition     *int      `bun:"best_position"`
	AveragePosition  float64   `bun:"average_position,notnull,default:0"`
	LastCalculatedAt time.Time `bun:"last_calculated_at,notnull"`
}

func (c *ChampionshipClassification) ToDomain() classificationdomain.Classification {
	return classificationdomain.Classification{
		CompetitorID:     classificationdomain.CompetitorID(c.CompetitorID),
		CategoryID:       classificationdomain.CategoryID(c.CategoryID),
		SeasonID:         classificationdomain.SeasonID(c.SeasonID),
		ChampionshipID:   classificationdomain.ChampionshipID(c.ChampionshipID),
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

// FromClassification maps the computed domain value onto the storage model.
func FromClassification(c classificationdomain.Classification) *ChampionshipClassification {
	return &ChampionshipClassification{
		CompetitorID:     uuid.UUID(c.CompetitorID),
		CategoryID:       uuid.UUID(c.CategoryID),
		SeasonID:         uuid.UUID(c.SeasonID),
		ChampionshipID:   uuid.UUID(c.ChampionshipID),
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
