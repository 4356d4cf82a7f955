package scoredomain

import (
	"encoding/json"
	"time"
)

// ScoreView is one leaderboard entry as returned to callers.
type ScoreView struct {
	Score       int64           `json:"score"`
	Username    string          `json:"username"`
	CreatedTime string          `json:"created_time"`
	Misc        json.RawMessage `json:"misc"`
}

// NewScoreView shapes a stored row for a response, rendering created_time in loc.
func NewScoreView(score int64, username string, createdTime time.Time, misc *string, loc *time.Location) ScoreView {
	return ScoreView{
		Score:       score,
		Username:    username,
		CreatedTime: FormatCreatedTime(createdTime, loc),
		Misc:        MiscFromText(misc),
	}
}

// FormatCreatedTime renders t as "2006-01-02 15:04:05[.ffffff]-07:00" in loc.
// Microseconds are printed only when non-zero.
func FormatCreatedTime(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	t = t.In(loc)
	if t.Nanosecond()/int(time.Microsecond) == 0 {
		return t.Format("2006-01-02 15:04:05-07:00")
	}
	return t.Format("2006-01-02 15:04:05.000000-07:00")
}

// MiscFromText turns stored misc text back into JSON. Text that is not valid
// JSON is passed through as a JSON string; NULL stays nil and encodes as null.
func MiscFromText(text *string) json.RawMessage {
	if text == nil {
		return nil
	}
	if json.Valid([]byte(*text)) {
		return json.RawMessage(*text)
	}
	quoted, err := json.Marshal(*text)
	if err != nil {
		return nil
	}
	return quoted
}
