package testutils

import (
	"encoding/json"

	"github.com/brianvoe/gofakeit/v7"
)

// ScoreBody is a write body as a client would send it.
type ScoreBody struct {
	Game     string         `json:"game"`
	Score    int64          `json:"score"`
	Username string         `json:"username"`
	Misc     map[string]any `json:"misc,omitempty"`
}

// TestDataGenerator produces reproducible score submissions.
type TestDataGenerator struct {
	faker *gofakeit.Faker
}

func NewTestDataGenerator(seed uint64) *TestDataGenerator {
	return &TestDataGenerator{faker: gofakeit.New(seed)}
}

// GenerateScores returns n bodies for game with distinct scores.
func (g *TestDataGenerator) GenerateScores(game string, n int) []ScoreBody {
	used := make(map[int64]bool, n)
	out := make([]ScoreBody, 0, n)
	for len(out) < n {
		score := int64(g.faker.IntRange(-500, 5000))
		if used[score] {
			continue
		}
		used[score] = true
		out = append(out, ScoreBody{
			Game:     game,
			Score:    score,
			Username: g.faker.Username(),
			Misc: map[string]any{
				"country": g.faker.CountryAbr(),
				"moves":   g.faker.IntRange(1, 200),
			},
		})
	}
	return out
}

// WriteEvent wraps body in the write envelope.
func WriteEvent(body ScoreBody) json.RawMessage {
	raw, err := json.Marshal(map[string]any{"body": body})
	if err != nil {
		panic(err)
	}
	return raw
}
