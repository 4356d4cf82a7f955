package scoredomain

import "fmt"

// Reasons reported by ValidationError.
const (
	ReasonMissing     = "missing"
	ReasonNotObject   = "is not an object"
	ReasonNotString   = "is not a string"
	ReasonEmpty       = "is empty"
	ReasonNotInt      = "is not an int"
	ReasonNegative    = "can't be < 0"
	ReasonInvalidJSON = "is not valid JSON"
)

// ValidationError names the first field of a request that failed validation.
// Path is dotted from the top of the event, e.g. "params.querystring.game";
// the event itself is "event".
type ValidationError struct {
	Path   string `json:"field"`
	Reason string `json:"reason"`
	Value  string `json:"value,omitempty"`
}

func (e *ValidationError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("bad request: %s '%s' %s", e.Path, e.Value, e.Reason)
	}
	return fmt.Sprintf("bad request: %s %s", e.Path, e.Reason)
}
