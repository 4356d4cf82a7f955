package scorehandlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	scoreservice "github.com/Black-And-White-Club/leaderboard-scores/app/modules/score/application"
	"github.com/nats-io/nats.go"
)

const (
	// RequestIDHeader is read from NATS message headers when present.
	RequestIDHeader = "Request-Id"

	natsHandlerTimeout = 30 * time.Second
)

type leaderboardOp func(ctx context.Context, event json.RawMessage) (scoreservice.LeaderboardResult, error)

// HandleNATSGetScores answers a read request. The message payload is the
// raw read event.
func (h *ScoreHandlers) HandleNATSGetScores(msg *nats.Msg) {
	h.respond(msg, "ScoreHandlers.HandleNATSGetScores", h.service.GetScores)
}

// HandleNATSPostScore answers a write request. The message payload is the
// raw write event.
func (h *ScoreHandlers) HandleNATSPostScore(msg *nats.Msg) {
	h.respond(msg, "ScoreHandlers.HandleNATSPostScore", h.service.PostScore)
}

func (h *ScoreHandlers) respond(msg *nats.Msg, spanName string, op leaderboardOp) {
	ctx, cancel := context.WithTimeout(context.Background(), natsHandlerTimeout)
	defer cancel()
	if id := msg.Header.Get(RequestIDHeader); id != "" {
		ctx = scoreservice.WithRequestID(ctx, id)
	}
	ctx, span := h.tracer.Start(ctx, spanName)
	defer span.End()

	reply := h.process(ctx, msg.Data, op)

	if msg.Reply == "" {
		h.logger.WarnContext(ctx, "Request has no reply subject",
			slog.String("subject", msg.Subject),
		)
		return
	}
	if err := msg.Respond(reply); err != nil {
		h.logger.ErrorContext(ctx, "Failed to send reply",
			slog.String("subject", msg.Subject),
			slog.Any("error", err),
		)
	}
}

// process runs op and encodes its outcome as a reply payload.
func (h *ScoreHandlers) process(ctx context.Context, data []byte, op leaderboardOp) []byte {
	res, err := op(ctx, data)

	var reply any
	switch {
	case err != nil:
		reply = serverReply(err)
	case res.IsFailure():
		reply = validationReply(res.Failure)
	default:
		reply = ScoresReply{Scores: *res.Success}
	}

	payload, err := json.Marshal(reply)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to encode reply", slog.Any("error", err))
		payload, _ = json.Marshal(serverReply(err))
	}
	return payload
}
