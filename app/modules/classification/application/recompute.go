package classificationservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	classificationdomain "github.com/Brasil-Rental-Karts/brk-backend-sub002/app/modules/classification/domain"
	classificationevents "github.com/Brasil-Rental-Karts/brk-backend-sub002/app/modules/classification/events"
	classificationdb "github.com/Brasil-Rental-Karts/brk-backend-sub002/app/modules/classification/infrastructure/repositories"
	"github.com/Brasil-Rental-Karts/brk-backend-sub002/app/shared/results"
)

// Recompute rebuilds the classification for one scope from scratch and
// upserts the row. Configuration problems come back as a failure payload and
// are not retried; storage errors get one immediate retry here and otherwise
// surface to the caller so the job queue can back off.
func (s *ClassificationService) Recompute(ctx context.Context, scope classificationdomain.Scope) (RecomputeResult, error) {
	return withTelemetry(s, ctx, "RecomputeClassification", scope, func(ctx context.Context) (RecomputeResult, error) {
		unlock := s.locks.Lock(scope.Key())
		defer unlock()

		result, err := s.recomputeOnce(ctx, scope)
		if err != nil && !IsConfigurationError(err) && ctx.Err() == nil {
			s.logger.WarnContext(ctx, "Retrying recompute after storage error",
				slog.String("scope", scope.Key()),
				slog.Any("error", err),
			)
			result, err = s.recomputeOnce(ctx, scope)
		}
		if err != nil {
			if IsConfigurationError(err) {
				return results.Fail[classificationevents.RecomputedPayloadV1](classificationevents.RecomputeFailedPayloadV1{
					Scope:  scope,
					Reason: err.Error(),
				}), nil
			}
			return RecomputeResult{}, err
		}

		s.publishRecomputed(ctx, *result.Success)
		return result, nil
	})
}

// recomputeOnce gathers inputs, computes and writes inside one transaction,
// so the written row always reflects a consistent snapshot.
func (s *ClassificationService) recomputeOnce(ctx context.Context, scope classificationdomain.Scope) (RecomputeResult, error) {
	return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (RecomputeResult, error) {
		input, err := s.gatherSeasonInput(ctx, db, scope)
		if err != nil {
			return RecomputeResult{}, err
		}

		computed := classificationdomain.ComputeSeason(*input)
		s.metrics.RecordRecomputeStages(ctx, scope, computed.Classification.TotalStages)

		if err := s.repo.UpsertClassification(ctx, db, classificationdb.FromClassification(computed.Classification)); err != nil {
			return RecomputeResult{}, err
		}

		return results.Ok[classificationevents.RecomputedPayloadV1, classificationevents.RecomputeFailedPayloadV1](classificationevents.RecomputedPayloadV1{
			Scope:            scope,
			TotalPoints:      computed.Classification.TotalPoints,
			TotalStages:      computed.Classification.TotalStages,
			LastCalculatedAt: computed.Classification.LastCalculatedAt,
		}), nil
	})
}

// gatherSeasonInput loads everything the computation depends on. Rows that
// reference batteries missing from the stage setup are logged and dropped
// rather than failing the whole recompute.
func (s *ClassificationService) gatherSeasonInput(ctx context.Context, db bun.IDB, scope classificationdomain.Scope) (*classificationdomain.SeasonInput, error) {
	season, err := s.repo.GetSeason(ctx, db, uuid.UUID(scope.SeasonID))
	if err != nil {
		if errors.Is(err, classificationdb.ErrNotFound) {
			return nil, &ConfigurationError{Scope: scope, Err: ErrUnknownScope}
		}
		return nil, err
	}

	category, err := s.repo.GetCategory(ctx, db, uuid.UUID(scope.CategoryID))
	if err != nil {
		if errors.Is(err, classificationdb.ErrNotFound) {
			return nil, &ConfigurationError{Scope: scope, Err: ErrUnknownScope}
		}
		return nil, err
	}

	system, err := s.resolveScoringSystem(ctx, db, scope, season, category)
	if err != nil {
		return nil, err
	}

	stages, err := s.repo.ListStagesForSeason(ctx, db, season.ID)
	if err != nil {
		return nil, err
	}
	stageIDs := make([]uuid.UUID, len(stages))
	for i, st := range stages {
		stageIDs[i] = st.ID
	}

	batteries, err := s.repo.ListBatteriesForStages(ctx, db, stageIDs, category.ID)
	if err != nil {
		return nil, err
	}
	stageResults, err := s.repo.ListResultsForSeasonCategory(ctx, db, season.ID, category.ID)
	if err != nil {
		return nil, err
	}
	lapTimes, err := s.repo.ListLapTimesForSeasonCategory(ctx, db, season.ID, category.ID)
	if err != nil {
		return nil, err
	}
	// The full championship set, not just this competitor's penalties. A
	// disqualification or time penalty on a rival shifts this scope's
	// positions too.
	penalties, err := s.repo.ListAppliedPenalties(ctx, db, season.ChampionshipID)
	if err != nil {
		return nil, err
	}

	input := &classificationdomain.SeasonInput{
		Scope:          scope,
		ChampionshipID: classificationdomain.ChampionshipID(season.ChampionshipID),
		ScoringSystem:  system.ToDomain(),
		Stages:         s.assembleStages(ctx, scope, stages, batteries, stageResults, lapTimes),
		Now:            s.now(),
	}
	input.Penalties = make([]classificationdomain.Penalty, len(penalties))
	for i := range penalties {
		input.Penalties[i] = penalties[i].ToDomain()
	}
	return input, nil
}

// resolveScoringSystem picks the category's override when set, otherwise the
// championship default.
func (s *ClassificationService) resolveScoringSystem(
	ctx context.Context,
	db bun.IDB,
	scope classificationdomain.Scope,
	season *classificationdb.Season,
	category *classificationdb.Category,
) (*classificationdb.ScoringSystem, error) {
	var system *classificationdb.ScoringSystem
	var err error
	if category.ScoringSystemID != nil {
		system, err = s.repo.GetScoringSystem(ctx, db, *category.ScoringSystemID)
	} else {
		system, err = s.repo.GetDefaultScoringSystem(ctx, db, season.ChampionshipID)
	}
	if err != nil {
		if errors.Is(err, classificationdb.ErrScoringSystemNotFound) {
			return nil, &ConfigurationError{Scope: scope, Err: ErrNoScoringSystem}
		}
		return nil, err
	}
	switch classificationdomain.DiscardMode(system.DiscardMode) {
	case classificationdomain.DiscardModeNone, classificationdomain.DiscardModeWorstN, classificationdomain.DiscardModeBestN:
	default:
		s.logger.WarnContext(ctx, "Unrecognized discard mode, treating as none",
			slog.String("discard_mode", system.DiscardMode),
			slog.String("scoring_system_id", system.ID.String()),
		)
	}
	return system, nil
}

func (s *ClassificationService) assembleStages(
	ctx context.Context,
	scope classificationdomain.Scope,
	stages []classificationdb.Stage,
	batteries []classificationdb.Battery,
	stageResults []classificationdb.StageResult,
	lapTimes []classificationdb.LapTime,
) []classificationdomain.StageInput {
	known := make(map[uuid.UUID]bool, len(batteries))
	for _, b := range batteries {
		known[b.ID] = true
	}

	resultsByBattery := make(map[uuid.UUID][]classificationdomain.RaceResult)
	for i := range stageResults {
		r := &stageResults[i]
		if !known[r.BatteryID] {
			s.logger.WarnContext(ctx, "Dropping result for battery not in stage setup",
				slog.String("scope", scope.Key()),
				slog.String("battery_id", r.BatteryID.String()),
				slog.String("stage_id", r.StageID.String()),
			)
			continue
		}
		resultsByBattery[r.BatteryID] = append(resultsByBattery[r.BatteryID], r.ToDomain())
	}

	lapsByBattery := make(map[uuid.UUID][]classificationdomain.LapTimeRecord)
	for i := range lapTimes {
		l := &lapTimes[i]
		if !known[l.BatteryID] {
			s.logger.WarnContext(ctx, "Dropping lap times for battery not in stage setup",
				slog.String("scope", scope.Key()),
				slog.String("battery_id", l.BatteryID.String()),
				slog.String("stage_id", l.StageID.String()),
			)
			continue
		}
		lapsByBattery[l.BatteryID] = append(lapsByBattery[l.BatteryID], l.ToDomain())
	}

	batteriesByStage := make(map[uuid.UUID][]classificationdomain.BatteryInput)
	for i := range batteries {
		b := &batteries[i]
		batteriesByStage[b.StageID] = append(batteriesByStage[b.StageID], classificationdomain.BatteryInput{
			Battery: b.ToDomain(),
			Results: resultsByBattery[b.ID],
			Laps:    lapsByBattery[b.ID],
		})
	}

	out := make([]classificationdomain.StageInput, 0, len(stages))
	for _, st := range stages {
		out = append(out, classificationdomain.StageInput{
			Stage: classificationdomain.Stage{
				ID:          classificationdomain.StageID(st.ID),
				SeasonID:    classificationdomain.SeasonID(st.SeasonID),
				Name:        st.Name,
				ScheduledAt: st.ScheduledAt,
			},
			Batteries: batteriesByStage[st.ID],
		})
	}
	return out
}

// publishRecomputed announces the fresh classification. Publish failures do
// not fail the recompute; the row is already written.
func (s *ClassificationService) publishRecomputed(ctx context.Context, payload classificationevents.RecomputedPayloadV1) {
	if s.EventBus == nil {
		return
	}
	body, err := json.Marshal(payload)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to marshal recomputed payload", slog.Any("error", err))
		return
	}
	msg := message.NewMessage(watermill.NewUUID(), body)
	if err := s.EventBus.Publish(classificationevents.ClassificationRecomputedV1, msg); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish recomputed event",
			slog.String("scope", payload.Scope.Key()),
			slog.Any("error", fmt.Errorf("publish: %w", err)),
		)
	}
}
