package scoreservice

import (
	"context"
	"encoding/json"
	"log/slog"

	scoredomain "github.com/Black-And-White-Club/leaderboard-scores/app/modules/score/domain"
	scoredb "github.com/Black-And-White-Club/leaderboard-scores/app/modules/score/infrastructure/repositories"
	"github.com/Black-And-White-Club/leaderboard-scores/pkg/results"
	"github.com/uptrace/bun"
)

// GetScores returns at most limit scores for the requested game, highest
// first. A limit of zero yields an empty leaderboard.
func (s *ScoreService) GetScores(ctx context.Context, event json.RawMessage) (LeaderboardResult, error) {
	return withTelemetry(s, ctx, "GetScores", func(ctx context.Context) (LeaderboardResult, error) {
		req, verr := scoredomain.DecodeReadRequest(event, s.opts.DefaultLimit)
		if verr != nil {
			return rejectRequest[[]scoredomain.ScoreView](s, ctx, event, verr), nil
		}

		var rows []scoredb.Score
		err := s.timedQuery(ctx, "get_top_scores", func(ctx context.Context) error {
			var err error
			rows, err = s.repo.GetTopScores(ctx, nil, req.Game, req.Limit)
			return err
		})
		if err != nil {
			return LeaderboardResult{}, &StorageError{Op: "get top scores", Err: err}
		}

		views := s.toViews(rows)
		s.metrics.RecordScoresReturned(ctx, "GetScores", len(views))
		s.logger.DebugContext(ctx, "Fetched leaderboard",
			slog.String("game", req.Game),
			slog.Int("limit", req.Limit),
			slog.Int("count", len(views)),
		)
		return results.SuccessResult[[]scoredomain.ScoreView, scoredomain.ValidationError](views), nil
	})
}

// PostScore inserts a score and returns every score recorded for its game,
// the new one included. The insert is committed before the leaderboard is
// read back.
func (s *ScoreService) PostScore(ctx context.Context, event json.RawMessage) (LeaderboardResult, error) {
	return withTelemetry(s, ctx, "PostScore", func(ctx context.Context) (LeaderboardResult, error) {
		req, verr := scoredomain.DecodeWriteRequest(event)
		if verr != nil {
			return rejectRequest[[]scoredomain.ScoreView](s, ctx, event, verr), nil
		}

		row := &scoredb.Score{
			Game:     req.Game,
			Score:    req.Score,
			Username: req.Username,
			Misc:     req.MiscText(),
		}
		err := s.runInTx(ctx, func(ctx context.Context, db bun.IDB) error {
			return s.timedQuery(ctx, "insert_score", func(ctx context.Context) error {
				return s.repo.InsertScore(ctx, db, row)
			})
		})
		if err != nil {
			return LeaderboardResult{}, &StorageError{Op: "insert score", Err: err}
		}

		var rows []scoredb.Score
		err = s.timedQuery(ctx, "get_all_scores", func(ctx context.Context) error {
			var err error
			rows, err = s.repo.GetAllScores(ctx, nil, req.Game)
			return err
		})
		if err != nil {
			return LeaderboardResult{}, &StorageError{Op: "get all scores", Err: err}
		}

		views := s.toViews(rows)
		s.metrics.RecordScoresReturned(ctx, "PostScore", len(views))
		s.logger.InfoContext(ctx, "Recorded score",
			slog.String("game", req.Game),
			slog.Int64("score", req.Score),
			slog.String("username", req.Username),
		)
		return results.SuccessResult[[]scoredomain.ScoreView, scoredomain.ValidationError](views), nil
	})
}
