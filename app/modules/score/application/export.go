package scoreservice

import (
	"fmt"

	scoredomain "github.com/Black-And-White-Club/leaderboard-scores/app/modules/score/domain"
	"github.com/xuri/excelize/v2"
)

// LeaderboardSheet is the worksheet holding the exported rows.
const LeaderboardSheet = "Leaderboard"

var exportHeader = []any{"Rank", "Score", "Username", "Created", "Misc"}

// GenerateLeaderboardWorkbook writes the leaderboard as an xlsx workbook with
// a header row followed by one row per score. Misc is written as JSON text.
func GenerateLeaderboardWorkbook(game string, views []scoredomain.ScoreView) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", LeaderboardSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetDocProps(&excelize.DocProperties{
		Title:   game + " leaderboard",
		Creator: "leaderboard-scores",
	}); err != nil {
		return nil, fmt.Errorf("set doc props: %w", err)
	}

	if err := f.SetSheetRow(LeaderboardSheet, "A1", &exportHeader); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	for i, v := range views {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		misc := ""
		if v.Misc != nil {
			misc = string(v.Misc)
		}
		row := []any{i + 1, v.Score, v.Username, v.CreatedTime, misc}
		if err := f.SetSheetRow(LeaderboardSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
