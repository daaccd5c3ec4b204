package scoreservice

import (
	"context"
	"fmt"
	"time"

	scoredb "github.com/Black-And-White-Club/meishu/app/modules/score/infrastructure/repositories"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "Scores"

var exportHeader = []any{"ID", "Username", "Score", "Scored At (UTC)", "Pending"}

// ExportScores renders the filtered score list as an XLSX workbook.
func (s *ScoreService) ExportScores(ctx context.Context, filter scoredb.FilterSpec) ([]byte, error) {
	scores, err := s.ListScores(ctx, filter)
	if err != nil {
		return nil, err
	}

	data, err := buildWorkbook(scores)
	if err != nil {
		return nil, fmt.Errorf("failed to build score workbook: %w", err)
	}
	return data, nil
}

func buildWorkbook(scores []scoredb.Score) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), exportSheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return nil, err
	}

	for i, score := range scores {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []any{
			score.ID,
			score.DisplayName(),
			score.Score,
			score.ScoredAt.UTC().Format(time.RFC3339),
			score.Pending,
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
