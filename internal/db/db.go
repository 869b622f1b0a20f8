// Package db stores the skill vocabulary in PostgreSQL.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/jonathan/resume-analyzer/internal/logger"
)

// DefaultConnectTimeout bounds how long Connect keeps retrying the first ping.
const DefaultConnectTimeout = 15 * time.Second

// DB wraps a PostgreSQL connection pool.
type DB struct {
	pool *pgxpool.Pool
	log  *zap.Logger
}

// Connect opens a pool and pings it, retrying with exponential backoff for up
// to DefaultConnectTimeout so a database that is still starting is tolerated.
func Connect(ctx context.Context, databaseURL string, log *zap.Logger) (*DB, error) {
	log = logger.OrNop(log)
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid database URL: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	expo := backoff.NewExponentialBackOff()
	expo.MaxElapsedTime = DefaultConnectTimeout
	ping := func() error { return pool.Ping(ctx) }
	notify := func(err error, wait time.Duration) {
		log.Warn("database not ready, retrying", zap.Duration("wait", wait), zap.Error(err))
	}
	if err := backoff.RetryNotify(ping, backoff.WithContext(expo, ctx), notify); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Debug("connected to database", zap.String("host", cfg.ConnConfig.Host), zap.String("database", cfg.ConnConfig.Database))
	return &DB{pool: pool, log: log}, nil
}

// Close closes the connection pool.
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// Ping checks that the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}
