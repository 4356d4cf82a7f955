package scorehandlers

import (
	"context"
	"encoding/json"

	scoreservice "github.com/Black-And-White-Club/leaderboard-scores/app/modules/score/application"
	scoredomain "github.com/Black-And-White-Club/leaderboard-scores/app/modules/score/domain"
	"github.com/Black-And-White-Club/leaderboard-scores/pkg/results"
)

// ------------------------
// Fake Service
// ------------------------

type FakeService struct {
	trace  []string
	events []json.RawMessage

	GetScoresFunc         func(ctx context.Context, event json.RawMessage) (scoreservice.LeaderboardResult, error)
	PostScoreFunc         func(ctx context.Context, event json.RawMessage) (scoreservice.LeaderboardResult, error)
	ExportLeaderboardFunc func(ctx context.Context, event json.RawMessage) (scoreservice.ReportResult, error)
	LeaderboardChartFunc  func(ctx context.Context, event json.RawMessage) (scoreservice.ReportResult, error)
}

func (f *FakeService) record(step string, event json.RawMessage) {
	f.trace = append(f.trace, step)
	f.events = append(f.events, event)
}

func (f *FakeService) GetScores(ctx context.Context, event json.RawMessage) (scoreservice.LeaderboardResult, error) {
	f.record("GetScores", event)
	if f.GetScoresFunc != nil {
		return f.GetScoresFunc(ctx, event)
	}
	return success(), nil
}

func (f *FakeService) PostScore(ctx context.Context, event json.RawMessage) (scoreservice.LeaderboardResult, error) {
	f.record("PostScore", event)
	if f.PostScoreFunc != nil {
		return f.PostScoreFunc(ctx, event)
	}
	return success(), nil
}

func (f *FakeService) ExportLeaderboard(ctx context.Context, event json.RawMessage) (scoreservice.ReportResult, error) {
	f.record("ExportLeaderboard", event)
	if f.ExportLeaderboardFunc != nil {
		return f.ExportLeaderboardFunc(ctx, event)
	}
	return results.SuccessResult[[]byte, scoredomain.ValidationError]([]byte("xlsx")), nil
}

func (f *FakeService) LeaderboardChart(ctx context.Context, event json.RawMessage) (scoreservice.ReportResult, error) {
	f.record("LeaderboardChart", event)
	if f.LeaderboardChartFunc != nil {
		return f.LeaderboardChartFunc(ctx, event)
	}
	return results.SuccessResult[[]byte, scoredomain.ValidationError]([]byte("png")), nil
}

// --- Accessors for assertions ---

func (f *FakeService) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

// LastEvent returns the event passed on the most recent call.
func (f *FakeService) LastEvent() json.RawMessage {
	if len(f.events) == 0 {
		return nil
	}
	return f.events[len(f.events)-1]
}

var _ scoreservice.Service = (*FakeService)(nil)

func success(views ...scoredomain.ScoreView) scoreservice.LeaderboardResult {
	if views == nil {
		views = []scoredomain.ScoreView{}
	}
	return results.SuccessResult[[]scoredomain.ScoreView, scoredomain.ValidationError](views)
}

func failure(path, reason string) scoreservice.LeaderboardResult {
	return results.FailureResult[[]scoredomain.ScoreView](scoredomain.ValidationError{Path: path, Reason: reason})
}
