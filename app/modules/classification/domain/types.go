package classificationdomain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Typed identifiers for the entities the engine reads and writes.
type (
	ChampionshipID  uuid.UUID
	SeasonID        uuid.UUID
	CategoryID      uuid.UUID
	StageID         uuid.UUID
	BatteryID       uuid.UUID
	CompetitorID    uuid.UUID
	ScoringSystemID uuid.UUID
	PenaltyID       uuid.UUID
)

func (id ChampionshipID) String() string  { return uuid.UUID(id).String() }
func (id SeasonID) String() string        { return uuid.UUID(id).String() }
func (id CategoryID) String() string      { return uuid.UUID(id).String() }
func (id StageID) String() string         { return uuid.UUID(id).String() }
func (id BatteryID) String() string       { return uuid.UUID(id).String() }
func (id CompetitorID) String() string    { return uuid.UUID(id).String() }
func (id ScoringSystemID) String() string { return uuid.UUID(id).String() }
func (id PenaltyID) String() string       { return uuid.UUID(id).String() }

// Scope identifies the (competitor, category, season) tuple a classification
// row and a recomputation job are keyed by.
type Scope struct {
	CompetitorID CompetitorID `json:"competitor_id"`
	CategoryID   CategoryID   `json:"category_id"`
	SeasonID     SeasonID     `json:"season_id"`
}

// Key returns a stable string form of the scope, used for job de-duplication
// and per-scope locking.
func (s Scope) Key() string {
	return fmt.Sprintf("%s:%s:%s", s.CompetitorID, s.CategoryID, s.SeasonID)
}

// PenaltyType enumerates the closed set of penalty kinds.
type PenaltyType string

const (
	PenaltyTypeDisqualification PenaltyType = "disqualification"
	PenaltyTypeTime             PenaltyType = "time_penalty"
	PenaltyTypePosition         PenaltyType = "position_penalty"
	PenaltyTypeWarning          PenaltyType = "warning"
)

// Valid reports whether the value is one of the known penalty types.
func (t PenaltyType) Valid() bool {
	switch t {
	case PenaltyTypeDisqualification, PenaltyTypeTime, PenaltyTypePosition, PenaltyTypeWarning:
		return true
	}
	return false
}

// PenaltyStatus enumerates the lifecycle states of a penalty. Only applied
// penalties affect scoring.
type PenaltyStatus string

const (
	PenaltyStatusApplied    PenaltyStatus = "applied"
	PenaltyStatusNotApplied PenaltyStatus = "not_applied"
	PenaltyStatusAppealed   PenaltyStatus = "appealed"
)

func (s PenaltyStatus) Valid() bool {
	switch s {
	case PenaltyStatusApplied, PenaltyStatusNotApplied, PenaltyStatusAppealed:
		return true
	}
	return false
}

// DiscardMode enumerates the discard policies a scoring system can carry.
type DiscardMode string

const (
	DiscardModeNone   DiscardMode = "none"
	DiscardModeBestN  DiscardMode = "best_n"
	DiscardModeWorstN DiscardMode = "worst_n"
	// DiscardModeCustom is accepted in stored data but no custom policy is
	// defined upstream yet; it resolves to DiscardModeNone.
	DiscardModeCustom DiscardMode = "custom"
)

func (m DiscardMode) Valid() bool {
	switch m {
	case DiscardModeNone, DiscardModeBestN, DiscardModeWorstN, DiscardModeCustom:
		return true
	}
	return false
}

// ScoringSystem maps finishing positions to points for one championship.
// Points are integers end to end; rounding happened when the policy was
// defined, never during aggregation.
type ScoringSystem struct {
	ID                ScoringSystemID
	ChampionshipID    ChampionshipID
	Name              string
	PointsByPosition  map[int]int
	PolePositionBonus int
	FastestLapBonus   int
	DiscardMode       DiscardMode
	DiscardCount      int
	// BonusOnDisqualification controls whether pole/fastest-lap bonuses are
	// retained by a competitor who is disqualified in the same battery.
	BonusOnDisqualification bool
	IsDefault               bool
}

// Penalty targets a competitor within a championship; season, stage, category
// and battery narrow the scope, nil means "any".
type Penalty struct {
	ID                 PenaltyID
	ChampionshipID     ChampionshipID
	SeasonID           *SeasonID
	StageID            *StageID
	CategoryID         *CategoryID
	BatteryID          *BatteryID
	CompetitorID       CompetitorID
	Type               PenaltyType
	Status             PenaltyStatus
	TimePenaltySeconds int
	PositionPenalty    int
	IsImported         bool
	CreatedAt          time.Time
}

// AppliesTo reports whether the penalty covers the given battery scope. A
// penalty with no effect on scoring (status != applied, or warnings) never
// applies.
func (p Penalty) AppliesTo(seasonID SeasonID, stageID StageID, categoryID CategoryID, batteryID BatteryID) bool {
	if p.Status != PenaltyStatusApplied {
		return false
	}
	if p.SeasonID != nil && *p.SeasonID != seasonID {
		return false
	}
	if p.StageID != nil && *p.StageID != stageID {
		return false
	}
	if p.CategoryID != nil && *p.CategoryID != categoryID {
		return false
	}
	if p.BatteryID != nil && *p.BatteryID != batteryID {
		return false
	}
	return true
}

// Battery is a single heat within a category at a stage.
type Battery struct {
	ID         BatteryID
	StageID    StageID
	CategoryID CategoryID
	Order      int
}

// Stage is one race event within a season.
type Stage struct {
	ID          StageID
	SeasonID    SeasonID
	Name        string
	ScheduledAt time.Time
	Batteries   []Battery
}

// RaceResult is the raw finishing record for one competitor in one battery.
// TotalTimeMs is the recorded elapsed race time; zero means not recorded.
type RaceResult struct {
	CompetitorID CompetitorID
	StageID      StageID
	CategoryID   CategoryID
	BatteryID    BatteryID
	Position     int
	TotalTimeMs  int64
	PolePosition bool
}

// LapEntry is one timed lap inside a LapTimeRecord.
type LapEntry struct {
	LapNumber int   `json:"lap_number"`
	TimeMs    int64 `json:"time_ms"`
}

// LapTimeRecord holds the ordered lap sequence for one competitor in one
// battery. Lap numbers must be unique and monotonically increasing.
type LapTimeRecord struct {
	CompetitorID CompetitorID
	StageID      StageID
	CategoryID   CategoryID
	BatteryID    BatteryID
	Laps         []LapEntry
}

// Validate checks the lap-number invariant.
func (r LapTimeRecord) Validate() error {
	prev := 0
	for _, lap := range r.Laps {
		if lap.LapNumber <= prev {
			return fmt.Errorf("lap numbers must be unique and increasing: got %d after %d", lap.LapNumber, prev)
		}
		if lap.TimeMs <= 0 {
			return fmt.Errorf("lap %d has non-positive time %dms", lap.LapNumber, lap.TimeMs)
		}
		prev = lap.LapNumber
	}
	return nil
}

// Classification is the derived per-scope aggregate. It is always fully
// recomputable from results, penalties and the scoring system; nothing edits
// it by hand.
type Classification struct {
	CompetitorID     CompetitorID
	CategoryID       CategoryID
	SeasonID         SeasonID
	ChampionshipID   ChampionshipID
	TotalPoints      int
	TotalStages      int
	Wins             int
	Podiums          int
	PolePositions    int
	FastestLaps      int
	BestPosition     *int
	AveragePosition  float64
	LastCalculatedAt time.Time
}
