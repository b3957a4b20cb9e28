package classificationservice

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

var standingsHeader = []string{
	"Pos", "Competitor", "Points", "Stages", "Wins", "Podiums",
	"Poles", "Fastest Laps", "Best", "Average",
}

// ExportSeasonStandings renders the stored standings of one category as an
// xlsx workbook.
func (s *ClassificationService) ExportSeasonStandings(ctx context.Context, seasonID, categoryID uuid.UUID) ([]byte, error) {
	standings, err := s.ListSeasonStandings(ctx, seasonID, categoryID)
	if err != nil {
		return nil, fmt.Errorf("ExportSeasonStandings: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Standings"
	f.SetSheetName("Sheet1", sheet)

	for col, title := range standingsHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("ExportSeasonStandings: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return nil, fmt.Errorf("ExportSeasonStandings: %w", err)
		}
	}

	for i, c := range standings {
		best := ""
		if c.BestPosition != nil {
			best = fmt.Sprintf("%d", *c.BestPosition)
		}
		row := []interface{}{
			i + 1,
			c.CompetitorID.String(),
			c.TotalPoints,
			c.TotalStages,
			c.Wins,
			c.Podiums,
			c.PolePositions,
			c.FastestLaps,
			best,
			c.AveragePosition,
		}
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, fmt.Errorf("ExportSeasonStandings: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, fmt.Errorf("ExportSeasonStandings: %w", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("ExportSeasonStandings: %w", err)
	}
	return buf.Bytes(), nil
}
