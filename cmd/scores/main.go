// Command scores runs the leaderboard service locally: as a long-lived
// HTTP and NATS server, or as one-shot invocations against the database.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/Black-And-White-Club/leaderboard-scores/app"
	scoredomain "github.com/Black-And-White-Club/leaderboard-scores/app/modules/score/domain"
	"github.com/Black-And-White-Club/leaderboard-scores/config"
	scoresjwt "github.com/Black-And-White-Club/leaderboard-scores/pkg/jwt"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/urfave/cli/v2"
)

func main() {
	cliApp := &cli.App{
		Name:  "scores",
		Usage: "leaderboard score service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Value:   app.DefaultConfigPath,
				Usage:   "path to the configuration file",
				EnvVars: []string{"CONFIG_PATH"},
			},
			&cli.StringFlag{
				Name:  "env-file",
				Value: ".env",
				Usage: "dotenv file exported before the configuration is read",
			},
		},
		Before: func(c *cli.Context) error {
			return config.LoadDotEnv(c.String("env-file"))
		},
		Commands: []*cli.Command{
			serveCommand(),
			invokeCommand(),
			exportCommand(),
			seedCommand(),
			tokenCommand(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "serve the score API over HTTP and NATS",
		Action: func(c *cli.Context) error {
			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			application, err := app.Bootstrap(ctx, c.String("config"), app.Options{HTTP: true, NATS: true})
			if err != nil {
				return err
			}

			runErr := application.Run(ctx)
			if err := application.Observability.Shutdown(context.WithoutCancel(ctx)); err != nil {
				application.Observability.Logger.Error("Failed to flush telemetry", "error", err)
			}
			return runErr
		},
	}
}

func invokeCommand() *cli.Command {
	eventFlag := &cli.StringFlag{
		Name:    "event",
		Aliases: []string{"e"},
		Usage:   "file holding the event JSON; - or empty reads stdin",
	}

	invoke := func(post bool) cli.ActionFunc {
		return func(c *cli.Context) error {
			event, err := readEvent(c.String("event"))
			if err != nil {
				return err
			}
			return withApp(c, func(ctx context.Context, application *app.App) error {
				handlers := application.ScoreModule.Handlers()
				var (
					views []scoredomain.ScoreView
					err   error
				)
				if post {
					views, err = handlers.HandlePostScoreLambda(ctx, event)
				} else {
					views, err = handlers.HandleGetScoresLambda(ctx, event)
				}
				if err != nil {
					return cli.Exit(err.Error(), 1)
				}
				return printJSON(c.App.Writer, views)
			})
		}
	}

	return &cli.Command{
		Name:  "invoke",
		Usage: "run one handler invocation with a raw event",
		Subcommands: []*cli.Command{
			{Name: "get", Usage: "invoke the read handler", Flags: []cli.Flag{eventFlag}, Action: invoke(false)},
			{Name: "post", Usage: "invoke the write handler", Flags: []cli.Flag{eventFlag}, Action: invoke(true)},
		},
	}
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "write a game's leaderboard as an xlsx workbook or png chart",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "game", Required: true},
			&cli.IntFlag{Name: "limit", Value: -1, Usage: "entries to include; the configured default when unset"},
			&cli.StringFlag{Name: "out", Required: true, Usage: "output file; .png renders a chart"},
		},
		Action: func(c *cli.Context) error {
			qs := map[string]string{"game": c.String("game")}
			if c.Int("limit") >= 0 {
				qs["limit"] = strconv.Itoa(c.Int("limit"))
			}
			event := scoredomain.NewReadEvent(qs)

			return withApp(c, func(ctx context.Context, application *app.App) error {
				svc := application.ScoreModule.Service()
				render := svc.ExportLeaderboard
				if filepath.Ext(c.String("out")) == ".png" {
					render = svc.LeaderboardChart
				}

				res, err := render(ctx, event)
				if err != nil {
					return err
				}
				if res.IsFailure() {
					return cli.Exit(res.Failure.Error(), 1)
				}
				if err := os.WriteFile(c.String("out"), *res.Success, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", c.String("out"), err)
				}
				fmt.Fprintf(c.App.Writer, "wrote %s (%d bytes)\n", c.String("out"), len(*res.Success))
				return nil
			})
		},
	}
}

func seedCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "record random scores for a game",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "game", Required: true},
			&cli.IntFlag{Name: "count", Value: 25},
			&cli.Uint64Flag{Name: "seed", Usage: "random seed for reproducible data"},
		},
		Action: func(c *cli.Context) error {
			faker := gofakeit.New(c.Uint64("seed"))
			return withApp(c, func(ctx context.Context, application *app.App) error {
				svc := application.ScoreModule.Service()
				for range c.Int("count") {
					body, err := json.Marshal(fakeScore(faker, c.String("game")))
					if err != nil {
						return err
					}
					res, err := svc.PostScore(ctx, scoredomain.NewWriteEvent(body))
					if err != nil {
						return err
					}
					if res.IsFailure() {
						return res.Failure
					}
				}
				fmt.Fprintf(c.App.Writer, "recorded %d scores for %s\n", c.Int("count"), c.String("game"))
				return nil
			})
		},
	}
}

func tokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "mint a bearer token for the write endpoint",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "subject", Value: "scores-cli"},
			&cli.DurationFlag{Name: "ttl", Value: 24 * time.Hour},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.LoadConfig(c.String("config"))
			if err != nil {
				return err
			}
			if cfg.HTTP.JWTSecret == "" {
				return cli.Exit("http.jwt_secret is not configured", 1)
			}
			token, err := scoresjwt.NewService(cfg.HTTP.JWTSecret).GenerateToken(c.String("subject"), c.Duration("ttl"))
			if err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, token)
			return nil
		},
	}
}

type seedScore struct {
	Game     string         `json:"game"`
	Score    int            `json:"score"`
	Username string         `json:"username"`
	Misc     map[string]any `json:"misc"`
}

func fakeScore(faker *gofakeit.Faker, game string) seedScore {
	return seedScore{
		Game:     game,
		Score:    faker.IntRange(0, 10000),
		Username: faker.Username(),
		Misc: map[string]any{
			"country": faker.CountryAbr(),
			"level":   faker.IntRange(1, 50),
		},
	}
}

func withApp(c *cli.Context, fn func(ctx context.Context, application *app.App) error) error {
	application, err := app.Bootstrap(c.Context, c.String("config"), app.Options{})
	if err != nil {
		return err
	}
	defer application.Shutdown(context.WithoutCancel(c.Context))
	return fn(c.Context, application)
}

func readEvent(path string) (json.RawMessage, error) {
	var (
		data []byte
		err  error
	)
	if path == "" || path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read event: %w", err)
	}
	if !json.Valid(data) {
		return nil, errors.New("event is not valid JSON")
	}
	return data, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
