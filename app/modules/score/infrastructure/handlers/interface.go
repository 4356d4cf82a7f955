package scorehandlers

import (
	"context"
	"encoding/json"
	"net/http"

	scoredomain "github.com/Black-And-White-Club/leaderboard-scores/app/modules/score/domain"
	"github.com/nats-io/nats.go"
)

// Handlers adapts the score service to each transport it is served on.
type Handlers interface {
	// Lambda entry points. The event is the raw invocation payload.
	HandleGetScoresLambda(ctx context.Context, event json.RawMessage) ([]scoredomain.ScoreView, error)
	HandlePostScoreLambda(ctx context.Context, event json.RawMessage) ([]scoredomain.ScoreView, error)

	// HTTP
	HandleHTTPGetScores(w http.ResponseWriter, r *http.Request)
	HandleHTTPPostScore(w http.ResponseWriter, r *http.Request)
	HandleHTTPExport(w http.ResponseWriter, r *http.Request)
	HandleHTTPChart(w http.ResponseWriter, r *http.Request)

	// NATS request-reply
	HandleNATSGetScores(msg *nats.Msg)
	HandleNATSPostScore(msg *nats.Msg)
}
