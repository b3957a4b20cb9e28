package classificationservice

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	classificationdomain "github.com/Brasil-Rental-Karts/brk-backend-sub002/app/modules/classification/domain"
	"github.com/Brasil-Rental-Karts/brk-backend-sub002/app/shared/results"
)

// GetClassification reads the stored row for one scope.
func (s *ClassificationService) GetClassification(ctx context.Context, scope classificationdomain.Scope) (*classificationdomain.Classification, error) {
	row, err := s.repo.GetClassification(ctx, nil, uuid.UUID(scope.CompetitorID), uuid.UUID(scope.CategoryID), uuid.UUID(scope.SeasonID))
	if err != nil {
		return nil, fmt.Errorf("GetClassification: %w", err)
	}
	c := row.ToDomain()
	return &c, nil
}

// ListSeasonStandings reads the stored standings of one category, ordered by
// points, wins and best position.
func (s *ClassificationService) ListSeasonStandings(ctx context.Context, seasonID, categoryID uuid.UUID) ([]classificationdomain.Classification, error) {
	rows, err := s.repo.ListClassificationsForSeasonCategory(ctx, nil, seasonID, categoryID)
	if err != nil {
		return nil, fmt.Errorf("ListSeasonStandings: %w", err)
	}
	out := make([]classificationdomain.Classification, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

// Explain recomputes one scope in memory and returns the full stage-level
// breakdown without touching the stored row. Stewards use it to audit how a
// total came to be.
func (s *ClassificationService) Explain(ctx context.Context, scope classificationdomain.Scope) (*classificationdomain.SeasonResult, error) {
	result, err := withTelemetry(s, ctx, "ExplainClassification", scope, func(ctx context.Context) (results.OperationResult[classificationdomain.SeasonResult, struct{}], error) {
		input, err := s.gatherSeasonInput(ctx, nil, scope)
		if err != nil {
			return results.OperationResult[classificationdomain.SeasonResult, struct{}]{}, err
		}
		return results.Ok[classificationdomain.SeasonResult, struct{}](classificationdomain.ComputeSeason(*input)), nil
	})
	if err != nil {
		return nil, err
	}
	return result.Success, nil
}
