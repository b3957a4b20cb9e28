package classificationservice

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	classificationdomain "github.com/Brasil-Rental-Karts/brk-backend-sub002/app/modules/classification/domain"
	classificationevents "github.com/Brasil-Rental-Karts/brk-backend-sub002/app/modules/classification/events"
)

// ResolveStageScope turns the identifiers carried by a stage-level event into
// a full scope by looking up the stage's season.
func (s *ClassificationService) ResolveStageScope(ctx context.Context, stageID, categoryID, competitorID uuid.UUID) (classificationdomain.Scope, error) {
	stage, err := s.repo.GetStage(ctx, nil, stageID)
	if err != nil {
		return classificationdomain.Scope{}, fmt.Errorf("ResolveStageScope: %w", err)
	}
	return classificationdomain.Scope{
		CompetitorID: classificationdomain.CompetitorID(competitorID),
		CategoryID:   classificationdomain.CategoryID(categoryID),
		SeasonID:     classificationdomain.SeasonID(stage.SeasonID),
	}, nil
}

// ScopesForStage lists every scope with a result at the stage. Used when a
// stage-level event arrives without a usable competitor, so the engine falls
// back to recomputing everyone who raced there.
func (s *ClassificationService) ScopesForStage(ctx context.Context, stageID uuid.UUID) ([]classificationdomain.Scope, error) {
	scopes, err := s.repo.ListScopesForStage(ctx, nil, stageID)
	if err != nil {
		return nil, fmt.Errorf("ScopesForStage: %w", err)
	}
	return scopes, nil
}

// ScopesForPenalty lists the scopes a penalty change touches. The penalty
// re-ranks the whole field it applies to, not just the penalized competitor,
// so stage-scoped penalties fan out over everyone who raced at the stage and
// wider penalties over the whole championship, narrowed by whichever scope
// fields the penalty carries.
func (s *ClassificationService) ScopesForPenalty(ctx context.Context, payload classificationevents.PenaltyChangedPayloadV1) ([]classificationdomain.Scope, error) {
	var all []classificationdomain.Scope
	var err error
	if payload.StageID != nil {
		all, err = s.repo.ListScopesForStage(ctx, nil, *payload.StageID)
	} else {
		all, err = s.repo.ListScopesForChampionship(ctx, nil, payload.ChampionshipID)
	}
	if err != nil {
		return nil, fmt.Errorf("ScopesForPenalty: %w", err)
	}

	scopes := make([]classificationdomain.Scope, 0, len(all))
	for _, sc := range all {
		if payload.SeasonID != nil && sc.SeasonID != classificationdomain.SeasonID(*payload.SeasonID) {
			continue
		}
		if payload.CategoryID != nil && sc.CategoryID != classificationdomain.CategoryID(*payload.CategoryID) {
			continue
		}
		scopes = append(scopes, sc)
	}
	return scopes, nil
}

// ScopesForChampionship lists every scope with at least one submitted result.
// Used for the wide fan-out after a scoring system changes.
func (s *ClassificationService) ScopesForChampionship(ctx context.Context, championshipID uuid.UUID) ([]classificationdomain.Scope, error) {
	scopes, err := s.repo.ListScopesForChampionship(ctx, nil, championshipID)
	if err != nil {
		return nil, fmt.Errorf("ScopesForChampionship: %w", err)
	}
	return scopes, nil
}
