// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
//
// Both store implementations (postgres and memory) report missing rows and
// uniqueness violations with the same sentinels, so services never inspect
// driver errors directly.
package dberr

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/vidora/internal/platform/apperr"
)

var (
	// ErrNotFound is returned when a queried row doesn't exist.
	ErrNotFound = errors.New("dberr: record not found")

	// ErrDuplicate is returned when an insert hits a unique constraint.
	ErrDuplicate = errors.New("dberr: duplicate record")
)

// Wrap inspects a database error and classifies it.
//
//   - pgx.ErrNoRows → [ErrNotFound]
//   - unique_violation → [ErrDuplicate]
//   - foreign_key_violation → [ErrNotFound] (the referenced row is gone)
//   - deadline exceeded / query_canceled → retryable [apperr.Timeout]
//   - anything else → [apperr.Internal]
//
// The action is recorded in the cause for server-side logs.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return apperr.Timeout(fmt.Errorf("%s: %w", action, err))
	}

	var pgError *pgconn.PgError
	if errors.As(err, &pgError) {
		switch pgError.Code {
		case pgerrcode.UniqueViolation:
			return ErrDuplicate
		case pgerrcode.ForeignKeyViolation:
			return ErrNotFound
		case pgerrcode.QueryCanceled:
			return apperr.Timeout(fmt.Errorf("%s: %w", action, err))
		}
	}

	if pgconn.Timeout(err) {
		return apperr.Timeout(fmt.Errorf("%s: %w", action, err))
	}

	return apperr.Internal(fmt.Errorf("%s: %w", action, err))
}

// NotFoundAs converts [ErrNotFound] into a typed 404 for the named resource and
// passes every other error through unchanged.
func NotFoundAs(err error, resource string) error {
	if errors.Is(err, ErrNotFound) {
		return apperr.NotFound(resource)
	}
	return err
}
