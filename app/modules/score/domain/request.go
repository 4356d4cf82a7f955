package scoredomain

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// ReadRequest is a validated ScoreReader request.
type ReadRequest struct {
	Game  string
	Limit int
}

// WriteRequest is a validated ScoreWriter request. Misc is nil when the
// caller did not send it.
type WriteRequest struct {
	Game     string
	Score    int64
	Username string
	Misc     json.RawMessage
}

// MiscText returns the text stored in the misc column, or nil for NULL.
func (r WriteRequest) MiscText() *string {
	if r.Misc == nil {
		return nil
	}
	s := string(r.Misc)
	return &s
}

// Body keys accepted for a write event. The second is what an API Gateway
// mapping template produces.
const (
	BodyKey        = "body"
	BodyMappingKey = "body-json"
)

// DecodeReadRequest validates a read event of the shape
// {"params":{"querystring":{"game":"...","limit":"..."}}}. The first
// violation wins.
func DecodeReadRequest(event []byte, defaultLimit int) (ReadRequest, *ValidationError) {
	root, verr := decodeObject("event", event)
	if verr != nil {
		return ReadRequest{}, verr
	}

	params, verr := root.obj("params")
	if verr != nil {
		return ReadRequest{}, verr
	}
	qs, verr := params.obj("querystring")
	if verr != nil {
		return ReadRequest{}, verr
	}
	game, verr := qs.identifier("game")
	if verr != nil {
		return ReadRequest{}, verr
	}

	req := ReadRequest{Game: game, Limit: defaultLimit}
	if qs.has("limit") {
		limit, verr := qs.limit("limit")
		if verr != nil {
			return ReadRequest{}, verr
		}
		req.Limit = limit
	}
	return req, nil
}

// DecodeWriteRequest validates a write event of the shape
// {"body":{"game":"...","score":1,"username":"...","misc":...}}.
func DecodeWriteRequest(event []byte) (WriteRequest, *ValidationError) {
	root, verr := decodeObject("event", event)
	if verr != nil {
		return WriteRequest{}, verr
	}

	key := BodyKey
	if !root.has(BodyKey) && root.has(BodyMappingKey) {
		key = BodyMappingKey
	}
	body, verr := root.obj(key)
	if verr != nil {
		return WriteRequest{}, verr
	}

	var req WriteRequest
	if req.Game, verr = body.identifier("game"); verr != nil {
		return WriteRequest{}, verr
	}
	if req.Score, verr = body.integer("score"); verr != nil {
		return WriteRequest{}, verr
	}
	if req.Username, verr = body.str("username"); verr != nil {
		return WriteRequest{}, verr
	}
	if body.has("misc") {
		if req.Misc, verr = body.rawValue("misc"); verr != nil {
			return WriteRequest{}, verr
		}
	}
	return req, nil
}

// object is a JSON object positioned at path within the event.
type object struct {
	path   string
	fields map[string]json.RawMessage
}

func decodeObject(path string, raw []byte) (object, *ValidationError) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return object{}, &ValidationError{Path: path, Reason: ReasonNotObject}
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return object{}, &ValidationError{Path: path, Reason: ReasonInvalidJSON}
	}
	return object{path: path, fields: fields}, nil
}

func (o object) child(key string) string {
	if o.path == "event" {
		return key
	}
	return o.path + "." + key
}

func (o object) has(key string) bool {
	_, ok := o.fields[key]
	return ok
}

func (o object) lookup(key string) (json.RawMessage, *ValidationError) {
	raw, ok := o.fields[key]
	if !ok {
		return nil, &ValidationError{Path: o.child(key), Reason: ReasonMissing}
	}
	return bytes.TrimSpace(raw), nil
}

func (o object) obj(key string) (object, *ValidationError) {
	raw, verr := o.lookup(key)
	if verr != nil {
		return object{}, verr
	}
	return decodeObject(o.child(key), raw)
}

func (o object) str(key string) (string, *ValidationError) {
	raw, verr := o.lookup(key)
	if verr != nil {
		return "", verr
	}
	var s string
	if len(raw) == 0 || raw[0] != '"' || json.Unmarshal(raw, &s) != nil {
		return "", &ValidationError{Path: o.child(key), Reason: ReasonNotString}
	}
	return s, nil
}

// identifier is a string that must not be empty.
func (o object) identifier(key string) (string, *ValidationError) {
	s, verr := o.str(key)
	if verr != nil {
		return "", verr
	}
	if s == "" {
		return "", &ValidationError{Path: o.child(key), Reason: ReasonEmpty}
	}
	return s, nil
}

// integer accepts only a JSON integer literal. Quoted numbers, fractions,
// exponents and booleans are rejected.
func (o object) integer(key string) (int64, *ValidationError) {
	raw, verr := o.lookup(key)
	if verr != nil {
		return 0, verr
	}
	n, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return 0, &ValidationError{Path: o.child(key), Reason: ReasonNotInt, Value: string(raw)}
	}
	return n, nil
}

// limit accepts a numeric string (surrounding whitespace allowed) or a JSON
// integer, and rejects negatives.
func (o object) limit(key string) (int, *ValidationError) {
	raw, verr := o.lookup(key)
	if verr != nil {
		return 0, verr
	}

	text := string(raw)
	if len(raw) > 0 && raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return 0, &ValidationError{Path: o.child(key), Reason: ReasonNotInt, Value: string(raw)}
		}
	}

	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, &ValidationError{Path: o.child(key), Reason: ReasonNotInt, Value: text}
	}
	if n < 0 {
		return 0, &ValidationError{Path: o.child(key), Reason: ReasonNegative, Value: text}
	}
	return n, nil
}

// rawValue returns the compacted raw value.
func (o object) rawValue(key string) (json.RawMessage, *ValidationError) {
	raw, verr := o.lookup(key)
	if verr != nil {
		return nil, verr
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return nil, &ValidationError{Path: o.child(key), Reason: ReasonInvalidJSON}
	}
	return json.RawMessage(buf.Bytes()), nil
}
