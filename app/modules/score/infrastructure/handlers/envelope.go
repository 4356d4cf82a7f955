package scorehandlers

import (
	"encoding/json"
	"net/url"

	scoredomain "github.com/Black-And-White-Club/leaderboard-scores/app/modules/score/domain"
)

// readEvent keeps the first value of each query key. Keys in overrides
// (path parameters) win over the query.
func readEvent(query url.Values, overrides map[string]string) json.RawMessage {
	qs := make(map[string]string, len(query)+len(overrides))
	for key, values := range query {
		if len(values) > 0 {
			qs[key] = values[0]
		}
	}
	for key, value := range overrides {
		qs[key] = value
	}
	return scoredomain.NewReadEvent(qs)
}
