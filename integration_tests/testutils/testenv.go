package testutils

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"

	scoremigrations "github.com/Black-And-White-Club/leaderboard-scores/app/modules/score/infrastructure/repositories/migrations"
	"github.com/Black-And-White-Club/leaderboard-scores/config"
	"github.com/Black-And-White-Club/leaderboard-scores/db/bundb"
	"github.com/Black-And-White-Club/leaderboard-scores/integration_tests/containers"
	"github.com/Black-And-White-Club/leaderboard-scores/internal/natsconn"
)

// TestEnvironment holds all resources needed for integration testing
type TestEnvironment struct {
	Ctx           context.Context
	CancelContext context.CancelFunc
	PgContainer   *postgres.PostgresContainer
	NatsContainer testcontainers.Container
	DBService     *bundb.DBService
	DB            *bun.DB
	NatsConn      *nats.Conn
	Config        *config.Config
	Logger        *slog.Logger
}

var (
	envOnce   sync.Once
	sharedEnv *TestEnvironment
	envErr    error
)

// GetOrCreateTestEnv returns the environment shared by every test in the
// package, starting the containers on first use. Tests are skipped in -short mode.
func GetOrCreateTestEnv(t *testing.T) *TestEnvironment {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	envOnce.Do(func() {
		sharedEnv, envErr = NewTestEnvironment()
	})
	if envErr != nil {
		t.Fatalf("Failed to set up test environment: %v", envErr)
	}
	return sharedEnv
}

// ShutdownTestEnv tears down the shared environment if one was created.
func ShutdownTestEnv() {
	if sharedEnv != nil {
		sharedEnv.Cleanup()
	}
}

// NewTestEnvironment creates a new test environment with Postgres and NATS containers
func NewTestEnvironment() (*TestEnvironment, error) {
	ctx, cancel := context.WithCancel(context.Background())

	env := &TestEnvironment{
		Ctx:           ctx,
		CancelContext: cancel,
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	if err := env.setupContainers(ctx); err != nil {
		env.Cleanup()
		return nil, err
	}
	return env, nil
}

func (env *TestEnvironment) setupContainers(ctx context.Context) error {
	pgContainer, pgConnStr, err := containers.SetupPostgresContainer(ctx)
	if err != nil {
		return fmt.Errorf("failed to setup postgres container: %w", err)
	}
	env.PgContainer = pgContainer

	natsContainer, natsURL, err := containers.SetupNatsContainer(ctx)
	if err != nil {
		return fmt.Errorf("failed to setup nats container: %w", err)
	}
	env.NatsContainer = natsContainer

	env.Config = &config.Config{
		Postgres: config.PostgresConfig{DSN: pgConnStr, ConnectTimeout: 10 * time.Second},
		NATS:     config.NATSConfig{URL: natsURL, QueueGroup: config.DefaultQueueGroup},
		Scores:   config.ScoresConfig{DefaultLimit: config.DefaultLimit, DisplayTimezone: "UTC"},
	}

	dbService, err := bundb.NewBunDBService(ctx, env.Config.Postgres, env.Logger)
	if err != nil {
		return fmt.Errorf("failed to create DB service: %w", err)
	}
	env.DBService = dbService
	env.DB = dbService.GetDB()

	if err := RunMigrations(ctx, env.DB); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	natsConn, err := natsconn.Connect(env.Config.NATS, "scores-integration-tests", env.Logger)
	if err != nil {
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}
	env.NatsConn = natsConn

	return nil
}

// RunMigrations applies the score migrations.
func RunMigrations(ctx context.Context, db *bun.DB) error {
	migrator := migrate.NewMigrator(db, scoremigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		return fmt.Errorf("failed to initialize migration tables: %w", err)
	}
	group, err := migrator.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("failed to apply score migrations: %w", err)
	}
	log.Printf("Migrated to %s", group)
	return nil
}

// Cleanup tears down all resources created for testing
func (env *TestEnvironment) Cleanup() {
	if env.CancelContext != nil {
		env.CancelContext()
	}
	if env.NatsConn != nil {
		env.NatsConn.Close()
	}
	if env.DBService != nil {
		if err := env.DBService.Close(); err != nil {
			log.Printf("Error closing DB: %v", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if env.NatsContainer != nil {
		if err := env.NatsContainer.Terminate(ctx); err != nil {
			log.Printf("Error terminating NATS container: %v", err)
		}
	}
	if env.PgContainer != nil {
		if err := env.PgContainer.Terminate(ctx); err != nil {
			log.Printf("Error terminating Postgres container: %v", err)
		}
	}
}
