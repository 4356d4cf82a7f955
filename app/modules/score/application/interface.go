package scoreservice

import (
	"context"
	"encoding/json"

	scoredomain "github.com/Black-And-White-Club/leaderboard-scores/app/modules/score/domain"
	"github.com/Black-And-White-Club/leaderboard-scores/pkg/results"
)

// LeaderboardResult is either the ordered leaderboard or the first
// validation failure of the request.
type LeaderboardResult = results.OperationResult[[]scoredomain.ScoreView, scoredomain.ValidationError]

// ReportResult is either a rendered report or the first validation failure
// of the read request it was built from.
type ReportResult = results.OperationResult[[]byte, scoredomain.ValidationError]

// Service defines the leaderboard operations. Events are the raw invocation
// payloads; a non-nil error is always a storage or rendering failure.
type Service interface {
	// GetScores returns up to limit highest scores for a game.
	GetScores(ctx context.Context, event json.RawMessage) (LeaderboardResult, error)

	// PostScore stores one score and returns the game's full leaderboard.
	PostScore(ctx context.Context, event json.RawMessage) (LeaderboardResult, error)

	// ExportLeaderboard renders the GetScores result as an xlsx workbook.
	ExportLeaderboard(ctx context.Context, event json.RawMessage) (ReportResult, error)

	// LeaderboardChart renders the GetScores result as a PNG bar chart.
	LeaderboardChart(ctx context.Context, event json.RawMessage) (ReportResult, error)
}
