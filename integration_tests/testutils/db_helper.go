package testutils

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	scoredb "github.com/Black-And-White-Club/leaderboard-scores/app/modules/score/infrastructure/repositories"
)

// TruncateScores empties the scores table between tests.
func TruncateScores(ctx context.Context, db bun.IDB) error {
	if _, err := db.NewTruncateTable().Model((*scoredb.Score)(nil)).Exec(ctx); err != nil {
		return fmt.Errorf("failed to truncate scores: %w", err)
	}
	return nil
}

// InsertScoreAt writes a row with an explicit created_time, which the
// repository never does.
func InsertScoreAt(ctx context.Context, db bun.IDB, row scoredb.Score, at time.Time) error {
	row.CreatedTime = at
	_, err := db.NewInsert().Model(&row).Exec(ctx)
	return err
}

// CountScores returns the number of rows stored for game.
func CountScores(ctx context.Context, db bun.IDB, game string) (int, error) {
	return db.NewSelect().Model((*scoredb.Score)(nil)).Where("game = ?", game).Count(ctx)
}
