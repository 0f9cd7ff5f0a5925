// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package postgres manages the PostgreSQL connection pool and the
// transaction helper used by the relation store.
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// # Pool Options

// Options sizes the pool. Zero values keep the defaults below.
type Options struct {
	DSN      string
	MaxConns int32
	MinConns int32

	// StatementTimeout is sent as the statement_timeout runtime parameter,
	// so a runaway listing query is cancelled server side.
	StatementTimeout time.Duration

	// ApplicationName shows up in pg_stat_activity.
	ApplicationName string
}

const (
	defaultMaxConns   = 25
	defaultMinConns   = 2
	maxConnLifetime   = time.Hour
	maxConnIdleTime   = 10 * time.Minute
	healthCheckPeriod = time.Minute
	connectTimeout    = 5 * time.Second
	pingTimeout       = 2 * time.Second
)

/*
NewPool opens the pool described by options and pings it once.

Returns:
  - *pgxpool.Pool: A pool that answered the ping
  - error: Invalid DSN or unreachable database
*/
func NewPool(ctx context.Context, options Options, logger *slog.Logger) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(options.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres: invalid DSN: %w", err)
	}

	config.MaxConns = orDefault(options.MaxConns, defaultMaxConns)
	config.MinConns = min(orDefault(options.MinConns, defaultMinConns), config.MaxConns)
	config.MaxConnLifetime = maxConnLifetime
	config.MaxConnIdleTime = maxConnIdleTime
	config.HealthCheckPeriod = healthCheckPeriod
	config.ConnConfig.ConnectTimeout = connectTimeout

	runtime := config.ConnConfig.RuntimeParams
	if options.StatementTimeout > 0 {
		runtime["statement_timeout"] = strconv.FormatInt(options.StatementTimeout.Milliseconds(), 10)
	}
	if options.ApplicationName != "" {
		runtime["application_name"] = options.ApplicationName
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("postgres: create pool: %w", err)
	}

	if err := Ping(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("postgres_connected",
		slog.String("host", config.ConnConfig.Host),
		slog.String("database", config.ConnConfig.Database),
		slog.Int("max_conns", int(config.MaxConns)),
		slog.Duration("statement_timeout", options.StatementTimeout),
	)

	return pool, nil
}

func orDefault(value, fallback int32) int32 {
	if value > 0 {
		return value
	}
	return fallback
}

// Ping verifies that the PostgreSQL connection pool is healthy.
func Ping(ctx context.Context, pool *pgxpool.Pool) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		return fmt.Errorf("postgres: ping failed: %w", err)
	}

	return nil
}

// # Transactions

/*
WithTx runs fn inside a read-committed transaction.

Row locks taken by fn (SELECT ... FOR UPDATE) are held until commit, which is
what makes owner checks and playlist sequence edits atomic. The error from fn
is returned unchanged so domain errors reach the caller intact.
*/
func WithTx(ctx context.Context, pool *pgxpool.Pool, fn func(tx pgx.Tx) error) error {
	return pgx.BeginTxFunc(ctx, pool, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, fn)
}
