package scoreserviceintegrationtests

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.opentelemetry.io/otel/trace/noop"

	scoreservice "github.com/Black-And-White-Club/leaderboard-scores/app/modules/score/application"
	scoredomain "github.com/Black-And-White-Club/leaderboard-scores/app/modules/score/domain"
	scoredb "github.com/Black-And-White-Club/leaderboard-scores/app/modules/score/infrastructure/repositories"
	"github.com/Black-And-White-Club/leaderboard-scores/integration_tests/testutils"
	"github.com/Black-And-White-Club/leaderboard-scores/internal/metrics/scoremetrics"
)

var createdTimePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}(\.\d{6})?\+00:00$`)

type TestDeps struct {
	Env     *testutils.TestEnvironment
	Service scoreservice.Service
}

func SetupTestScoreService(t *testing.T) TestDeps {
	t.Helper()

	env := testutils.GetOrCreateTestEnv(t)
	if err := testutils.TruncateScores(env.Ctx, env.DB); err != nil {
		t.Fatalf("Failed to truncate score tables: %v", err)
	}

	service := scoreservice.NewScoreService(
		scoredb.NewRepository(env.DB),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		scoremetrics.NoOpMetrics{},
		noop.NewTracerProvider().Tracer("test_score_service"),
		env.DB,
		scoreservice.Options{DefaultLimit: 100, Location: time.UTC},
	)

	return TestDeps{Env: env, Service: service}
}

func readEvent(t *testing.T, qs map[string]string) json.RawMessage {
	t.Helper()
	return scoredomain.NewReadEvent(qs)
}

func TestPostScore_ReturnsFullLeaderboard(t *testing.T) {
	deps := SetupTestScoreService(t)
	bodies := testutils.NewTestDataGenerator(42).GenerateScores("chess", 5)

	var last []scoredomain.ScoreView
	for i, body := range bodies {
		res, err := deps.Service.PostScore(deps.Env.Ctx, testutils.WriteEvent(body))
		require.NoError(t, err)
		require.True(t, res.IsSuccess(), "post %d failed: %v", i, res.Failure)
		last = *res.Success
		assert.Len(t, last, i+1)
	}

	for i := 1; i < len(last); i++ {
		assert.Greater(t, last[i-1].Score, last[i].Score)
	}
	posted := map[string]bool{}
	for _, b := range bodies {
		posted[b.Username] = true
	}
	for _, v := range last {
		assert.Regexp(t, createdTimePattern, v.CreatedTime)
		assert.True(t, posted[v.Username], "unexpected username %q", v.Username)
	}
}

func TestPostScore_ThenGetScores(t *testing.T) {
	deps := SetupTestScoreService(t)
	ctx := deps.Env.Ctx

	posts := []string{
		`{"body":{"game":"chess","score":50,"username":"ann"}}`,
		`{"body":{"game":"chess","score":90,"username":"bob","misc":{"moves":[1,2]}}}`,
		`{"body":{"game":"chess","score":70,"username":"cy","misc":null}}`,
		`{"body":{"game":"go","score":10,"username":"dee"}}`,
	}
	for _, p := range posts {
		res, err := deps.Service.PostScore(ctx, json.RawMessage(p))
		require.NoError(t, err)
		require.True(t, res.IsSuccess())
	}

	tests := []struct {
		name  string
		qs    map[string]string
		users []string
	}{
		{name: "default limit", qs: map[string]string{"game": "chess"}, users: []string{"bob", "cy", "ann"}},
		{name: "limit two", qs: map[string]string{"game": "chess", "limit": "2"}, users: []string{"bob", "cy"}},
		{name: "limit zero", qs: map[string]string{"game": "chess", "limit": "0"}, users: []string{}},
		{name: "other game", qs: map[string]string{"game": "go"}, users: []string{"dee"}},
		{name: "unknown game", qs: map[string]string{"game": "poker"}, users: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := deps.Service.GetScores(ctx, readEvent(t, tt.qs))
			require.NoError(t, err)
			require.True(t, res.IsSuccess())

			users := []string{}
			for _, v := range *res.Success {
				users = append(users, v.Username)
			}
			assert.Equal(t, tt.users, users)
		})
	}

	res, err := deps.Service.GetScores(ctx, readEvent(t, map[string]string{"game": "chess", "limit": "1"}))
	require.NoError(t, err)
	require.Len(t, *res.Success, 1)
	assert.JSONEq(t, `{"moves":[1,2]}`, string((*res.Success)[0].Misc))
}

func TestPostScore_RejectsInvalidBody(t *testing.T) {
	deps := SetupTestScoreService(t)

	res, err := deps.Service.PostScore(deps.Env.Ctx, json.RawMessage(`{"body":{"game":"chess","score":"100","username":"ann"}}`))
	require.NoError(t, err)
	require.True(t, res.IsFailure())
	assert.Equal(t, "body.score", res.Failure.Path)

	n, err := testutils.CountScores(deps.Env.Ctx, deps.Env.DB, "chess")
	require.NoError(t, err)
	assert.Zero(t, n, "a rejected body must not be stored")
}

func TestGetScores_MiscStoredAsText(t *testing.T) {
	deps := SetupTestScoreService(t)
	ctx := deps.Env.Ctx

	require.NoError(t, testutils.InsertScoreAt(ctx, deps.Env.DB, scoredb.Score{
		Game: "chess", Score: 1, Username: "legacy", Misc: ptr("not json"),
	}, time.Date(2024, 3, 9, 14, 5, 6, 120000000, time.UTC)))

	res, err := deps.Service.GetScores(ctx, readEvent(t, map[string]string{"game": "chess"}))
	require.NoError(t, err)
	require.Len(t, *res.Success, 1)

	view := (*res.Success)[0]
	assert.Equal(t, "2024-03-09 14:05:06.120000+00:00", view.CreatedTime)
	assert.JSONEq(t, `"not json"`, string(view.Misc))
}

func TestExportLeaderboard_FromDatabase(t *testing.T) {
	deps := SetupTestScoreService(t)
	ctx := deps.Env.Ctx

	for _, body := range testutils.NewTestDataGenerator(9).GenerateScores("tetris", 4) {
		res, err := deps.Service.PostScore(ctx, testutils.WriteEvent(body))
		require.NoError(t, err)
		require.True(t, res.IsSuccess())
	}

	res, err := deps.Service.ExportLeaderboard(ctx, readEvent(t, map[string]string{"game": "tetris"}))
	require.NoError(t, err)
	require.True(t, res.IsSuccess())

	f, err := excelize.OpenReader(bytes.NewReader(*res.Success))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(scoreservice.LeaderboardSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 5)
}

func ptr(s string) *string { return &s }
