package scoredb

import (
	"context"

	"github.com/uptrace/bun"
)

// Repository defines the contract for score persistence.
// Every method takes the bun.IDB to run on so callers can pass a transaction;
// a nil db means the repository's own connection.
type Repository interface {
	// InsertScore writes one row. created_time is left to the database.
	InsertScore(ctx context.Context, db bun.IDB, score *Score) error

	// GetTopScores returns up to limit rows for game, highest score first.
	GetTopScores(ctx context.Context, db bun.IDB, game string, limit int) ([]Score, error)

	// GetAllScores returns every row for game, highest score first.
	GetAllScores(ctx context.Context, db bun.IDB, game string) ([]Score, error)
}
