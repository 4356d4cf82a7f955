package bundb

import (
	"context"
	"crypto/tls"
	"database/sql"
	"fmt"
	"log/slog"
	"net"
	"strconv"

	scoredb "github.com/Black-And-White-Club/leaderboard-scores/app/modules/score/infrastructure/repositories"
	"github.com/Black-And-White-Club/leaderboard-scores/config"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// DBService holds the shared connection and the repositories built on it.
type DBService struct {
	ScoreDB scoredb.Repository
	db      *bun.DB
}

// GetDB returns the underlying database connection pool.
func (dbService *DBService) GetDB() *bun.DB {
	return dbService.db
}

// Close releases the connection pool.
func (dbService *DBService) Close() error {
	return dbService.db.Close()
}

// NewBunDBService opens the pool and verifies it within the configured
// connect timeout. A database that cannot be reached is an error.
func NewBunDBService(ctx context.Context, cfg config.PostgresConfig, logger *slog.Logger) (*DBService, error) {
	logger.InfoContext(ctx, "Connecting to database",
		slog.String("host", cfg.Host),
		slog.String("database", cfg.Database),
		slog.Bool("dsn", cfg.DSN != ""),
	)

	sqldb, err := pgConn(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := bunDB(sqldb)
	db.RegisterModel((*scoredb.Score)(nil))

	return &DBService{
		ScoreDB: scoredb.NewRepository(db),
		db:      db,
	}, nil
}

// bunDB returns a new bun.DB for given sql.DB connection pool.
func bunDB(sqldb *sql.DB) *bun.DB {
	return bun.NewDB(sqldb, pgdialect.New())
}

func pgConn(ctx context.Context, cfg config.PostgresConfig) (*sql.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(connectorOptions(cfg)...))

	pingCtx := ctx
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}
	if err := sqldb.PingContext(pingCtx); err != nil {
		sqldb.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return sqldb, nil
}

func connectorOptions(cfg config.PostgresConfig) []pgdriver.Option {
	var opts []pgdriver.Option
	if cfg.DSN != "" {
		opts = append(opts, pgdriver.WithDSN(cfg.DSN))
	} else {
		opts = append(opts,
			pgdriver.WithAddr(net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))),
			pgdriver.WithUser(cfg.User),
			pgdriver.WithPassword(cfg.Password),
			pgdriver.WithDatabase(cfg.Database),
		)
		switch cfg.SSLMode {
		case "disable":
			opts = append(opts, pgdriver.WithInsecure(true))
		case "verify-full":
			opts = append(opts, pgdriver.WithTLSConfig(&tls.Config{ServerName: cfg.Host}))
		}
	}
	if cfg.ConnectTimeout > 0 {
		opts = append(opts, pgdriver.WithDialTimeout(cfg.ConnectTimeout))
	}
	opts = append(opts, pgdriver.WithApplicationName(config.DefaultServiceName))
	return opts
}
