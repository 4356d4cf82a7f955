package scoreservice

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	scoredomain "github.com/Black-And-White-Club/leaderboard-scores/app/modules/score/domain"
	scoredb "github.com/Black-And-White-Club/leaderboard-scores/app/modules/score/infrastructure/repositories"
	"github.com/Black-And-White-Club/leaderboard-scores/internal/metrics/scoremetrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace/noop"
)

var created = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestService(repo *FakeScoreRepository) *ScoreService {
	return NewScoreService(
		repo,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		scoremetrics.NoOpMetrics{},
		noop.NewTracerProvider().Tracer("test"),
		nil,
		Options{DefaultLimit: 100, Location: time.UTC},
	)
}

func ptrString(s string) *string { return &s }

// board simulates the scores table for one or more games: rows come back
// ordered by score, highest first, ties in insertion order.
type board struct {
	rows []scoredb.Score
}

func (b *board) insert(_ context.Context, _ bun.IDB, s *scoredb.Score) error {
	row := *s
	row.CreatedTime = created.Add(time.Duration(len(b.rows)) * time.Second)
	b.rows = append(b.rows, row)
	return nil
}

func (b *board) top(game string, limit int) []scoredb.Score {
	out := []scoredb.Score{}
	for _, r := range b.rows {
		if r.Game == game {
			out = append(out, r)
		}
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Score > out[j-1].Score; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (b *board) wire(f *FakeScoreRepository) {
	f.InsertScoreFunc = b.insert
	f.GetTopScoresFunc = func(_ context.Context, _ bun.IDB, game string, limit int) ([]scoredb.Score, error) {
		return b.top(game, limit), nil
	}
	f.GetAllScoresFunc = func(_ context.Context, _ bun.IDB, game string) ([]scoredb.Score, error) {
		return b.top(game, -1), nil
	}
}

func readEvent(qs string) json.RawMessage {
	return json.RawMessage(`{"params":{"querystring":` + qs + `}}`)
}

func TestGetScores(t *testing.T) {
	seeded := func(f *FakeScoreRepository) {
		b := &board{}
		for _, s := range []scoredb.Score{
			{Game: "chess", Score: 50, Username: "ann"},
			{Game: "chess", Score: 90, Username: "bob", Misc: ptrString(`{"level":3}`)},
			{Game: "chess", Score: 70, Username: "cy"},
			{Game: "go", Score: 999, Username: "zed"},
		} {
			_ = b.insert(context.Background(), nil, &s)
		}
		b.wire(f)
	}

	tests := []struct {
		name      string
		setupRepo func(*FakeScoreRepository)
		event     json.RawMessage
		verify    func(t *testing.T, res LeaderboardResult, err error, f *FakeScoreRepository)
	}{
		{
			name:      "highest first and truncated to limit",
			setupRepo: seeded,
			event:     readEvent(`{"game":"chess","limit":"2"}`),
			verify: func(t *testing.T, res LeaderboardResult, err error, f *FakeScoreRepository) {
				require.NoError(t, err)
				require.True(t, res.IsSuccess())
				views := *res.Success
				require.Len(t, views, 2)
				assert.Equal(t, int64(90), views[0].Score)
				assert.Equal(t, "bob", views[0].Username)
				assert.JSONEq(t, `{"level":3}`, string(views[0].Misc))
				assert.Equal(t, int64(70), views[1].Score)
				assert.Nil(t, views[1].Misc)
				assert.Equal(t, "2024-05-01 12:00:02+00:00", views[1].CreatedTime)
			},
		},
		{
			name:      "default limit is passed to the repository",
			setupRepo: func(f *FakeScoreRepository) {},
			event:     readEvent(`{"game":"chess"}`),
			verify: func(t *testing.T, res LeaderboardResult, err error, f *FakeScoreRepository) {
				require.NoError(t, err)
				require.True(t, res.IsSuccess())
				assert.Empty(t, *res.Success)
				assert.Equal(t, []string{"GetTopScores"}, f.Trace())
			},
		},
		{
			name:      "other games are excluded",
			setupRepo: seeded,
			event:     readEvent(`{"game":"go"}`),
			verify: func(t *testing.T, res LeaderboardResult, err error, f *FakeScoreRepository) {
				require.NoError(t, err)
				require.Len(t, *res.Success, 1)
				assert.Equal(t, "zed", (*res.Success)[0].Username)
			},
		},
		{
			name:      "unknown game is an empty leaderboard",
			setupRepo: seeded,
			event:     readEvent(`{"game":"checkers"}`),
			verify: func(t *testing.T, res LeaderboardResult, err error, f *FakeScoreRepository) {
				require.NoError(t, err)
				require.True(t, res.IsSuccess())
				assert.Empty(t, *res.Success)
			},
		},
		{
			name:      "bad request never reaches the repository",
			setupRepo: seeded,
			event:     readEvent(`{"game":"chess","limit":"-1"}`),
			verify: func(t *testing.T, res LeaderboardResult, err error, f *FakeScoreRepository) {
				require.NoError(t, err)
				require.True(t, res.IsFailure())
				assert.Equal(t, "params.querystring.limit", res.Failure.Path)
				assert.Equal(t, scoredomain.ReasonNegative, res.Failure.Reason)
				assert.Empty(t, f.Trace())
			},
		},
		{
			name: "storage failure is an error, not a result",
			setupRepo: func(f *FakeScoreRepository) {
				f.GetTopScoresFunc = func(context.Context, bun.IDB, string, int) ([]scoredb.Score, error) {
					return nil, errors.New("connection refused")
				}
			},
			event: readEvent(`{"game":"chess"}`),
			verify: func(t *testing.T, res LeaderboardResult, err error, f *FakeScoreRepository) {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrStorage)
				assert.ErrorContains(t, err, "connection refused")
				assert.False(t, res.IsSuccess())
				assert.False(t, res.IsFailure())
			},
		},
		{
			name: "panic is recovered into an error",
			setupRepo: func(f *FakeScoreRepository) {
				f.GetTopScoresFunc = func(context.Context, bun.IDB, string, int) ([]scoredb.Score, error) {
					panic("boom")
				}
			},
			event: readEvent(`{"game":"chess"}`),
			verify: func(t *testing.T, res LeaderboardResult, err error, f *FakeScoreRepository) {
				assert.ErrorContains(t, err, "panic in GetScores")
				assert.False(t, res.IsSuccess())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewFakeScoreRepository()
			tt.setupRepo(repo)
			svc := newTestService(repo)

			res, err := svc.GetScores(context.Background(), tt.event)
			tt.verify(t, res, err, repo)
		})
	}
}

func TestGetScores_LimitForwarded(t *testing.T) {
	repo := NewFakeScoreRepository()
	var gotGame string
	var gotLimit int
	repo.GetTopScoresFunc = func(_ context.Context, _ bun.IDB, game string, limit int) ([]scoredb.Score, error) {
		gotGame, gotLimit = game, limit
		return []scoredb.Score{}, nil
	}
	svc := newTestService(repo)

	_, err := svc.GetScores(context.Background(), readEvent(`{"game":"chess"}`))
	require.NoError(t, err)
	assert.Equal(t, "chess", gotGame)
	assert.Equal(t, 100, gotLimit)

	_, err = svc.GetScores(context.Background(), readEvent(`{"game":"chess","limit":"0"}`))
	require.NoError(t, err)
	assert.Equal(t, 0, gotLimit)
}

func TestPostScore(t *testing.T) {
	tests := []struct {
		name      string
		setupRepo func(*FakeScoreRepository, *board)
		events    []string
		verify    func(t *testing.T, res LeaderboardResult, err error, f *FakeScoreRepository)
	}{
		{
			name:   "first score for a game",
			events: []string{`{"body":{"game":"chess","score":50,"username":"ann"}}`},
			verify: func(t *testing.T, res LeaderboardResult, err error, f *FakeScoreRepository) {
				require.NoError(t, err)
				require.True(t, res.IsSuccess())
				require.Len(t, *res.Success, 1)
				assert.Equal(t, int64(50), (*res.Success)[0].Score)
				assert.Equal(t, "ann", (*res.Success)[0].Username)
				assert.Equal(t, []string{"InsertScore", "GetAllScores"}, f.Trace())
			},
		},
		{
			name: "leaderboard includes the new score in order",
			events: []string{
				`{"body":{"game":"chess","score":50,"username":"ann"}}`,
				`{"body":{"game":"chess","score":90,"username":"bob","misc":{"level":3}}}`,
			},
			verify: func(t *testing.T, res LeaderboardResult, err error, f *FakeScoreRepository) {
				require.NoError(t, err)
				views := *res.Success
				require.Len(t, views, 2)
				assert.Equal(t, "bob", views[0].Username)
				assert.JSONEq(t, `{"level":3}`, string(views[0].Misc))
				assert.Equal(t, "ann", views[1].Username)
				require.Len(t, f.Inserted, 2)
				require.NotNil(t, f.Inserted[1].Misc)
				assert.Equal(t, `{"level":3}`, *f.Inserted[1].Misc)
				assert.Nil(t, f.Inserted[0].Misc)
			},
		},
		{
			name: "write returns the whole leaderboard, unbounded",
			setupRepo: func(f *FakeScoreRepository, b *board) {
				for i := range 150 {
					_ = b.insert(context.Background(), nil, &scoredb.Score{Game: "chess", Score: int64(i)})
				}
			},
			events: []string{`{"body":{"game":"chess","score":7,"username":"ann"}}`},
			verify: func(t *testing.T, res LeaderboardResult, err error, f *FakeScoreRepository) {
				require.NoError(t, err)
				assert.Len(t, *res.Success, 151)
			},
		},
		{
			name:   "mapping template body is accepted",
			events: []string{`{"body-json":{"game":"go","score":-3,"username":""}}`},
			verify: func(t *testing.T, res LeaderboardResult, err error, f *FakeScoreRepository) {
				require.NoError(t, err)
				require.Len(t, *res.Success, 1)
				assert.Equal(t, int64(-3), (*res.Success)[0].Score)
				assert.Equal(t, "", (*res.Success)[0].Username)
			},
		},
		{
			name:   "score as string is rejected without a write",
			events: []string{`{"body":{"game":"chess","score":"100","username":"ann"}}`},
			verify: func(t *testing.T, res LeaderboardResult, err error, f *FakeScoreRepository) {
				require.NoError(t, err)
				require.True(t, res.IsFailure())
				assert.Equal(t, "body.score", res.Failure.Path)
				assert.Empty(t, f.Trace())
			},
		},
		{
			name: "insert failure skips the read",
			setupRepo: func(f *FakeScoreRepository, b *board) {
				f.InsertScoreFunc = func(context.Context, bun.IDB, *scoredb.Score) error {
					return errors.New("disk full")
				}
			},
			events: []string{`{"body":{"game":"chess","score":1,"username":"ann"}}`},
			verify: func(t *testing.T, res LeaderboardResult, err error, f *FakeScoreRepository) {
				assert.ErrorIs(t, err, ErrStorage)
				var serr *StorageError
				require.ErrorAs(t, err, &serr)
				assert.Equal(t, "insert score", serr.Op)
				assert.Equal(t, []string{"InsertScore"}, f.Trace())
			},
		},
		{
			name: "read back failure is a storage error",
			setupRepo: func(f *FakeScoreRepository, b *board) {
				f.GetAllScoresFunc = func(context.Context, bun.IDB, string) ([]scoredb.Score, error) {
					return nil, errors.New("timeout")
				}
			},
			events: []string{`{"body":{"game":"chess","score":1,"username":"ann"}}`},
			verify: func(t *testing.T, res LeaderboardResult, err error, f *FakeScoreRepository) {
				assert.ErrorIs(t, err, ErrStorage)
				assert.Equal(t, []string{"InsertScore", "GetAllScores"}, f.Trace())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewFakeScoreRepository()
			b := &board{}
			b.wire(repo)
			if tt.setupRepo != nil {
				tt.setupRepo(repo, b)
			}
			svc := newTestService(repo)

			var (
				res LeaderboardResult
				err error
			)
			for _, ev := range tt.events {
				res, err = svc.PostScore(context.Background(), json.RawMessage(ev))
			}
			tt.verify(t, res, err, repo)
		})
	}
}

func TestPostScore_ThenGetScores(t *testing.T) {
	repo := NewFakeScoreRepository()
	(&board{}).wire(repo)
	svc := newTestService(repo)
	ctx := context.Background()

	for _, ev := range []string{
		`{"body":{"game":"chess","score":50,"username":"ann"}}`,
		`{"body":{"game":"chess","score":90,"username":"bob"}}`,
		`{"body":{"game":"chess","score":70,"username":"cy"}}`,
	} {
		_, err := svc.PostScore(ctx, json.RawMessage(ev))
		require.NoError(t, err)
	}

	res, err := svc.GetScores(ctx, readEvent(`{"game":"chess","limit":"2"}`))
	require.NoError(t, err)
	require.Len(t, *res.Success, 2)
	assert.Equal(t, []int64{90, 70}, []int64{(*res.Success)[0].Score, (*res.Success)[1].Score})
}

func TestStorageError(t *testing.T) {
	cause := errors.New("connection reset")
	err := error(&StorageError{Op: "get top scores", Err: cause})

	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "get top scores: connection reset", err.Error())
}

func TestRequestID(t *testing.T) {
	ctx := WithRequestID(context.Background(), "abc-123")
	assert.Equal(t, "abc-123", RequestID(ctx))

	generated := RequestID(context.Background())
	assert.Len(t, generated, 36)
	assert.NotEqual(t, generated, RequestID(context.Background()))
}
