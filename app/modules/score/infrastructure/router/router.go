package scorerouter

import (
	scorehandlers "github.com/Black-And-White-Club/leaderboard-scores/app/modules/score/infrastructure/handlers"
	"github.com/nats-io/nats.go"
)

const (
	// GetScoresSubject carries read events.
	GetScoresSubject = "scores.get.v1"

	// PostScoreSubject carries write events.
	PostScoreSubject = "scores.post.v1"

	// QueueGroup is the default queue group name for load balancing.
	QueueGroup = "scores"
)

// NATSRouter manages the request-reply subscriptions of the score module.
type NATSRouter struct {
	handlers   scorehandlers.Handlers
	nc         *nats.Conn
	queueGroup string
	getSub     *nats.Subscription
	postSub    *nats.Subscription
}

// NewNATSRouter creates a new score router. An empty queueGroup uses QueueGroup.
func NewNATSRouter(handlers scorehandlers.Handlers, nc *nats.Conn, queueGroup string) *NATSRouter {
	if queueGroup == "" {
		queueGroup = QueueGroup
	}
	return &NATSRouter{
		handlers:   handlers,
		nc:         nc,
		queueGroup: queueGroup,
	}
}

// Start subscribes to both score subjects in the queue group.
func (r *NATSRouter) Start() error {
	var err error

	r.getSub, err = r.nc.QueueSubscribe(GetScoresSubject, r.queueGroup, r.handlers.HandleNATSGetScores)
	if err != nil {
		return err
	}

	r.postSub, err = r.nc.QueueSubscribe(PostScoreSubject, r.queueGroup, r.handlers.HandleNATSPostScore)
	if err != nil {
		// Clean up the read subscription if the write one fails
		r.getSub.Unsubscribe()
		r.getSub = nil
		return err
	}

	return r.nc.Flush()
}

// Stop drains both subscriptions so in-flight requests are answered.
func (r *NATSRouter) Stop() error {
	var firstErr error

	if r.getSub != nil {
		if err := r.getSub.Drain(); err != nil {
			firstErr = err
		}
	}

	if r.postSub != nil {
		if err := r.postSub.Drain(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
