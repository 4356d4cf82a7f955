package scorehandlers

import (
	"errors"

	scoreservice "github.com/Black-And-White-Club/leaderboard-scores/app/modules/score/application"
	scoredomain "github.com/Black-And-White-Club/leaderboard-scores/app/modules/score/domain"
)

// Error kinds carried in an error reply.
const (
	KindValidation = "validation"
	KindStorage    = "storage"
	KindInternal   = "internal"
)

// ErrorBody describes why a request produced no leaderboard.
type ErrorBody struct {
	Kind    string `json:"kind"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// ScoresReply is the HTTP and NATS success payload.
type ScoresReply struct {
	Scores []scoredomain.ScoreView `json:"scores"`
}

// ErrorReply is the HTTP and NATS failure payload.
type ErrorReply struct {
	Error ErrorBody `json:"error"`
}

func validationReply(verr *scoredomain.ValidationError) ErrorReply {
	return ErrorReply{Error: ErrorBody{
		Kind:    KindValidation,
		Field:   verr.Path,
		Message: verr.Error(),
	}}
}

// serverReply hides the cause; it is logged by the service.
func serverReply(err error) ErrorReply {
	if errors.Is(err, scoreservice.ErrStorage) {
		return ErrorReply{Error: ErrorBody{Kind: KindStorage, Message: "storage unavailable"}}
	}
	return ErrorReply{Error: ErrorBody{Kind: KindInternal, Message: "internal error"}}
}
