// Package natsconn opens the NATS connection used for request-reply.
package natsconn

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/leaderboard-scores/config"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nkeys"
)

const (
	connectTimeout = 10 * time.Second
	reconnectWait  = 2 * time.Second
)

// Connect dials cfg.URL. With a seed configured the connection
// authenticates as that user nkey.
func Connect(cfg config.NATSConfig, name string, logger *slog.Logger) (*nats.Conn, error) {
	opts := []nats.Option{
		nats.Name(name),
		nats.Timeout(connectTimeout),
		nats.ReconnectWait(reconnectWait),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("NATS disconnected", slog.Any("error", err))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected", slog.String("url", nc.ConnectedUrl()))
		}),
	}

	if cfg.NKeySeed != "" {
		opt, err := nkeyOption(cfg.NKeySeed)
		if err != nil {
			return nil, err
		}
		opts = append(opts, opt)
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	logger.Info("Connected to NATS", slog.String("url", nc.ConnectedUrl()))
	return nc, nil
}

func nkeyOption(seed string) (nats.Option, error) {
	kp, err := nkeys.FromSeed([]byte(seed))
	if err != nil {
		return nil, fmt.Errorf("failed to parse nkey seed: %w", err)
	}
	pub, err := kp.PublicKey()
	if err != nil {
		return nil, fmt.Errorf("failed to derive nkey public key: %w", err)
	}
	return nats.Nkey(pub, kp.Sign), nil
}
