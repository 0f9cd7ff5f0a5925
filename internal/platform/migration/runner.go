// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package migration applies the relational schema with golang-migrate.

Migrations run at startup, before the server accepts traffic. The schema
(users.account plus the media and social tables) lives under data/migrations
as numbered up/down SQL pairs. A dirty version stops startup: it means a
previous run died half way and someone has to look at the database.
*/
package migration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// lockTimeout bounds the wait for the advisory lock held by another replica.
const lockTimeout = 15 * time.Second

// Status reports the schema version before and after a run.
type Status struct {
	From    uint
	To      uint
	Changed bool
}

/*
RunUp applies every pending up migration.

Cancelling ctx asks golang-migrate to stop after the migration in flight, so a
startup deadline never leaves a half-applied file behind.

Parameters:
  - ctx: Startup deadline
  - dsn: postgres:// URL of the target database
  - path: Directory holding the migration files

Returns:
  - Status: Versions before and after the run
  - error: Dirty schema, a failed migration, or cancellation
*/
func RunUp(ctx context.Context, dsn, path string, logger *slog.Logger) (Status, error) {
	migrator, err := migrate.New("file://"+path, ToPgx5DSN(dsn))
	if err != nil {
		return Status{}, fmt.Errorf("migration: open %s: %w", path, err)
	}
	defer closeMigrator(migrator, logger)

	migrator.Log = &slogBridge{logger: logger}
	migrator.LockTimeout = lockTimeout

	from, dirty, err := migrator.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return Status{}, fmt.Errorf("migration: read version: %w", err)
	}
	if dirty {
		return Status{From: from}, fmt.Errorf("migration: schema is dirty at version %d", from)
	}

	done := make(chan error, 1)
	go func() { done <- migrator.Up() }()

	select {
	case err = <-done:
	case <-ctx.Done():
		migrator.GracefulStop <- true
		err = <-done
		if err == nil || errors.Is(err, migrate.ErrNoChange) {
			err = ctx.Err()
		}
	}

	switch {
	case errors.Is(err, migrate.ErrNoChange):
		logger.Info("schema_up_to_date", slog.Uint64("version", uint64(from)))
		return Status{From: from, To: from}, nil
	case err != nil:
		return Status{From: from}, fmt.Errorf("migration: up from version %d: %w", from, err)
	}

	to, _, _ := migrator.Version()
	logger.Info("schema_migrated", slog.Uint64("from_version", uint64(from)), slog.Uint64("to_version", uint64(to)))

	return Status{From: from, To: to, Changed: to != from}, nil
}

// ToPgx5DSN rewrites postgres:// and postgresql:// URLs to the pgx5:// scheme
// golang-migrate registers for the pgx/v5 driver. Other inputs are returned as is.
func ToPgx5DSN(dsn string) string {
	for _, prefix := range []string{"postgres://", "postgresql://"} {
		if rest, found := strings.CutPrefix(dsn, prefix); found {
			return "pgx5://" + rest
		}
	}
	return dsn
}

func closeMigrator(migrator *migrate.Migrate, logger *slog.Logger) {
	sourceErr, databaseErr := migrator.Close()
	if err := errors.Join(sourceErr, databaseErr); err != nil {
		logger.Warn("migration_close_failed", slog.Any("error", err))
	}
}

// slogBridge routes golang-migrate progress lines to debug logs.
type slogBridge struct {
	logger *slog.Logger
}

func (bridge *slogBridge) Printf(format string, args ...any) {
	bridge.logger.Debug("migrate", slog.String("line", strings.TrimSpace(fmt.Sprintf(format, args...))))
}

func (bridge *slogBridge) Verbose() bool {
	return bridge.logger.Enabled(context.Background(), slog.LevelDebug)
}
