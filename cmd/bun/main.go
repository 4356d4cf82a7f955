package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	scoremigrations "github.com/Black-And-White-Club/leaderboard-scores/app/modules/score/infrastructure/repositories/migrations"
	"github.com/Black-And-White-Club/leaderboard-scores/config"
	"github.com/Black-And-White-Club/leaderboard-scores/db/bundb"
	"github.com/Black-And-White-Club/leaderboard-scores/internal/observability"
	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v2"
)

func main() {
	cliApp := &cli.App{
		Name:  "bun",
		Usage: "manage the scores schema",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Value:   "config.yaml",
				Usage:   "path to the configuration file",
				EnvVars: []string{"CONFIG_PATH"},
			},
		},
		Commands: []*cli.Command{
			newDBCommand(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// withMigrator connects using the loaded configuration and hands fn the
// score migrator.
func withMigrator(c *cli.Context, fn func(ctx context.Context, m *migrate.Migrator) error) error {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger := observability.NewLogger(os.Stderr, cfg.Observability.LogLevel, cfg.Observability.Environment)

	dbService, err := bundb.NewBunDBService(c.Context, cfg.Postgres, logger)
	if err != nil {
		return err
	}
	defer dbService.Close()

	return fn(c.Context, migrate.NewMigrator(dbService.GetDB(), scoremigrations.Migrations))
}

func newDBCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "database migrations",
		Subcommands: []*cli.Command{
			{
				Name:  "init",
				Usage: "create migration tables",
				Action: func(c *cli.Context) error {
					return withMigrator(c, func(ctx context.Context, m *migrate.Migrator) error {
						return m.Init(ctx)
					})
				},
			},
			{
				Name:  "migrate",
				Usage: "migrate database",
				Action: func(c *cli.Context) error {
					return withMigrator(c, func(ctx context.Context, m *migrate.Migrator) error {
						if err := m.Init(ctx); err != nil {
							return err
						}
						if err := m.Lock(ctx); err != nil {
							return err
						}
						defer m.Unlock(ctx)

						group, err := m.Migrate(ctx)
						if err != nil {
							return err
						}
						if group.IsZero() {
							fmt.Println("No new migrations to run")
						} else {
							fmt.Printf("Migrated to %s\n", group)
						}
						return nil
					})
				},
			},
			{
				Name:  "rollback",
				Usage: "rollback the last migration group",
				Action: func(c *cli.Context) error {
					return withMigrator(c, func(ctx context.Context, m *migrate.Migrator) error {
						if err := m.Lock(ctx); err != nil {
							return err
						}
						defer m.Unlock(ctx)

						group, err := m.Rollback(ctx)
						if err != nil {
							return err
						}
						if group.IsZero() {
							fmt.Println("No groups to roll back")
						} else {
							fmt.Printf("Rolled back %s\n", group)
						}
						return nil
					})
				},
			},
			{
				Name:      "create_go",
				Usage:     "create Go migration",
				ArgsUsage: "NAME...",
				Action: func(c *cli.Context) error {
					return withMigrator(c, func(ctx context.Context, m *migrate.Migrator) error {
						mf, err := m.CreateGoMigration(ctx, strings.Join(c.Args().Slice(), "_"))
						if err != nil {
							return err
						}
						fmt.Printf("Created migration %s (%s)\n", mf.Name, mf.Path)
						return nil
					})
				},
			},
			{
				Name:  "status",
				Usage: "print migrations status",
				Action: func(c *cli.Context) error {
					return withMigrator(c, func(ctx context.Context, m *migrate.Migrator) error {
						ms, err := m.MigrationsWithStatus(ctx)
						if err != nil {
							return err
						}
						fmt.Printf("Migrations: %s\n", ms)
						fmt.Printf("Applied: %s\n", ms.Applied())
						fmt.Printf("Unapplied: %s\n", ms.Unapplied())
						return nil
					})
				},
			},
		},
	}
}
