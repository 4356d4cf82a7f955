package scoredomain

import (
	"encoding/json"
	"slices"
)

// NewReadEvent builds a read event around querystring values, matching what
// the API Gateway mapping template delivers.
func NewReadEvent(querystring map[string]string) json.RawMessage {
	if querystring == nil {
		querystring = map[string]string{}
	}
	event, _ := json.Marshal(map[string]any{
		"params": map[string]any{"querystring": querystring},
	})
	return event
}

// NewWriteEvent places a request body under BodyKey. A body that is not JSON
// is carried as a string so validation reports it as not an object.
func NewWriteEvent(body []byte) json.RawMessage {
	var inner json.RawMessage
	if json.Valid(body) {
		inner = slices.Clone(body)
	} else {
		inner, _ = json.Marshal(string(body))
	}
	event, _ := json.Marshal(map[string]json.RawMessage{BodyKey: inner})
	return event
}
