package scoredb

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// Impl implements Repository using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new score repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func (r *Impl) InsertScore(ctx context.Context, db bun.IDB, score *Score) error {
	db = r.resolveDB(db)

	res, err := db.NewInsert().
		Model(score).
		Column("game", "score", "username", "misc").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("scoredb.InsertScore: game %s: %w", score.Game, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("scoredb.InsertScore: rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("scoredb.InsertScore: game %s: %w", score.Game, ErrNoRowsAffected)
	}
	return nil
}

func (r *Impl) GetTopScores(ctx context.Context, db bun.IDB, game string, limit int) ([]Score, error) {
	scores := []Score{}
	// bun drops LIMIT 0 from the query, which would return every row.
	if limit <= 0 {
		return scores, nil
	}
	err := r.leaderboardQuery(r.resolveDB(db), &scores, game).
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("scoredb.GetTopScores: game %s: %w", game, err)
	}
	return scores, nil
}

func (r *Impl) GetAllScores(ctx context.Context, db bun.IDB, game string) ([]Score, error) {
	scores := []Score{}
	err := r.leaderboardQuery(r.resolveDB(db), &scores, game).Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("scoredb.GetAllScores: game %s: %w", game, err)
	}
	return scores, nil
}

// leaderboardQuery selects the response columns for game ordered by score.
// Ties keep the table's natural order.
func (r *Impl) leaderboardQuery(db bun.IDB, dest *[]Score, game string) *bun.SelectQuery {
	return db.NewSelect().
		Model(dest).
		Column("score", "username", "created_time", "misc").
		Where("game = ?", game).
		OrderExpr("score DESC")
}
