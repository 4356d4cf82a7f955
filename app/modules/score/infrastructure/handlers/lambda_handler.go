package scorehandlers

import (
	"context"
	"encoding/json"

	scoreservice "github.com/Black-And-White-Club/leaderboard-scores/app/modules/score/application"
	scoredomain "github.com/Black-And-White-Club/leaderboard-scores/app/modules/score/domain"
	"github.com/aws/aws-lambda-go/lambdacontext"
)

// HandleGetScoresLambda is the read function's handler.
func (h *ScoreHandlers) HandleGetScoresLambda(ctx context.Context, event json.RawMessage) ([]scoredomain.ScoreView, error) {
	ctx, span := h.tracer.Start(lambdaContext(ctx), "ScoreHandlers.HandleGetScoresLambda")
	defer span.End()

	return lambdaResponse(h.service.GetScores(ctx, event))
}

// HandlePostScoreLambda is the write function's handler.
func (h *ScoreHandlers) HandlePostScoreLambda(ctx context.Context, event json.RawMessage) ([]scoredomain.ScoreView, error) {
	ctx, span := h.tracer.Start(lambdaContext(ctx), "ScoreHandlers.HandlePostScoreLambda")
	defer span.End()

	return lambdaResponse(h.service.PostScore(ctx, event))
}

func lambdaContext(ctx context.Context) context.Context {
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		return scoreservice.WithRequestID(ctx, lc.AwsRequestID)
	}
	return ctx
}

// lambdaResponse fails the invocation for bad requests too; the runtime
// reports the error message, which starts with "bad request:".
func lambdaResponse(res scoreservice.LeaderboardResult, err error) ([]scoredomain.ScoreView, error) {
	if err != nil {
		return nil, err
	}
	if res.IsFailure() {
		return nil, res.Failure
	}
	return *res.Success, nil
}
