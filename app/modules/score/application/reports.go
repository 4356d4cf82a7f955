package scoreservice

import (
	"context"
	"encoding/json"
	"fmt"

	scoredomain "github.com/Black-And-White-Club/leaderboard-scores/app/modules/score/domain"
	"github.com/Black-And-White-Club/leaderboard-scores/pkg/results"
)

type renderFunc func(game string, views []scoredomain.ScoreView) ([]byte, error)

// ExportLeaderboard renders what GetScores would return for event as an
// xlsx workbook.
func (s *ScoreService) ExportLeaderboard(ctx context.Context, event json.RawMessage) (ReportResult, error) {
	return s.renderReport(ctx, "ExportLeaderboard", event, GenerateLeaderboardWorkbook)
}

// LeaderboardChart renders what GetScores would return for event as a PNG.
func (s *ScoreService) LeaderboardChart(ctx context.Context, event json.RawMessage) (ReportResult, error) {
	return s.renderReport(ctx, "LeaderboardChart", event, func(game string, views []scoredomain.ScoreView) ([]byte, error) {
		return GenerateLeaderboardChart(game, views, s.opts.Palette)
	})
}

func (s *ScoreService) renderReport(ctx context.Context, operationName string, event json.RawMessage, render renderFunc) (ReportResult, error) {
	return withTelemetry(s, ctx, operationName, func(ctx context.Context) (ReportResult, error) {
		req, verr := scoredomain.DecodeReadRequest(event, s.opts.DefaultLimit)
		if verr != nil {
			return rejectRequest[[]byte](s, ctx, event, verr), nil
		}

		board, err := s.GetScores(ctx, event)
		if err != nil {
			return ReportResult{}, err
		}

		data, err := render(req.Game, *board.Success)
		if err != nil {
			return ReportResult{}, fmt.Errorf("render %s leaderboard: %w", req.Game, err)
		}
		return results.SuccessResult[[]byte, scoredomain.ValidationError](data), nil
	})
}
