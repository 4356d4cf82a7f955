package scoredb

import (
	"time"

	"github.com/uptrace/bun"
)

// Score is one row of the scores table. CreatedTime is filled by the
// database default on insert; Misc holds JSON text or NULL.
type Score struct {
	bun.BaseModel `bun:"table:scores,alias:s"`

	Game        string    `bun:"game,notnull"`
	Score       int64     `bun:"score,notnull"`
	Username    string    `bun:"username,notnull"`
	CreatedTime time.Time `bun:"created_time,type:timestamptz,nullzero,notnull,default:current_timestamp"`
	Misc        *string   `bun:"misc,type:text"`
}
