package scoreservice

import (
	"context"

	scoredb "github.com/Black-And-White-Club/leaderboard-scores/app/modules/score/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Score Repo
// ------------------------

// FakeScoreRepository provides a programmable stub for the scoredb.Repository interface.
type FakeScoreRepository struct {
	trace []string

	InsertScoreFunc  func(ctx context.Context, db bun.IDB, score *scoredb.Score) error
	GetTopScoresFunc func(ctx context.Context, db bun.IDB, game string, limit int) ([]scoredb.Score, error)
	GetAllScoresFunc func(ctx context.Context, db bun.IDB, game string) ([]scoredb.Score, error)

	Inserted []scoredb.Score
}

// NewFakeScoreRepository initializes a new FakeScoreRepository with an empty trace.
func NewFakeScoreRepository() *FakeScoreRepository {
	return &FakeScoreRepository{
		trace: []string{},
	}
}

func (f *FakeScoreRepository) record(step string) {
	f.trace = append(f.trace, step)
}

// --- Repository Interface Implementation ---

func (f *FakeScoreRepository) InsertScore(ctx context.Context, db bun.IDB, score *scoredb.Score) error {
	f.record("InsertScore")
	f.Inserted = append(f.Inserted, *score)
	if f.InsertScoreFunc != nil {
		return f.InsertScoreFunc(ctx, db, score)
	}
	return nil
}

func (f *FakeScoreRepository) GetTopScores(ctx context.Context, db bun.IDB, game string, limit int) ([]scoredb.Score, error) {
	f.record("GetTopScores")
	if f.GetTopScoresFunc != nil {
		return f.GetTopScoresFunc(ctx, db, game, limit)
	}
	return []scoredb.Score{}, nil
}

func (f *FakeScoreRepository) GetAllScores(ctx context.Context, db bun.IDB, game string) ([]scoredb.Score, error) {
	f.record("GetAllScores")
	if f.GetAllScoresFunc != nil {
		return f.GetAllScoresFunc(ctx, db, game)
	}
	return []scoredb.Score{}, nil
}

// --- Accessors for assertions ---

// Trace returns the sequence of method calls made to the fake.
func (f *FakeScoreRepository) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

// Ensure the fake actually satisfies the interface
var _ scoredb.Repository = (*FakeScoreRepository)(nil)
