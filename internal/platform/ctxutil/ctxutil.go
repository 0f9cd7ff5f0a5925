// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package ctxutil reads and writes the per-request values the middleware chain
establishes: where the request came from, who sent it, and the logger bound
to it.
*/
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/taibuivan/vidora/internal/platform/ctxkey"
	"github.com/taibuivan/vidora/internal/platform/sec"
)

// # Request Origin

// Origin describes the transport side of a request.
type Origin struct {
	RequestID string
	ClientIP  string
	UserAgent string
}

// WithOrigin attaches origin to ctx.
func WithOrigin(ctx context.Context, origin Origin) context.Context {
	return context.WithValue(ctx, ctxkey.KeyOrigin, origin)
}

// OriginOf returns the origin recorded for ctx, or the zero Origin.
func OriginOf(ctx context.Context) Origin {
	origin, _ := ctx.Value(ctxkey.KeyOrigin).(Origin)
	return origin
}

// # Identity

// WithClaims attaches verified token claims to ctx.
func WithClaims(ctx context.Context, claims *sec.AuthClaims) context.Context {
	return context.WithValue(ctx, ctxkey.KeyClaims, claims)
}

// Claims returns the verified token claims, or nil for anonymous requests.
func Claims(ctx context.Context) *sec.AuthClaims {
	claims, _ := ctx.Value(ctxkey.KeyClaims).(*sec.AuthClaims)
	return claims
}

/*
Viewer identifies who is watching, for view de-duplication.

Returns:
  - string: The user id when authenticated, else a fingerprint of client
    address and user agent; "" when neither is known
*/
func Viewer(ctx context.Context) string {
	if claims := Claims(ctx); claims != nil {
		return claims.UserID
	}

	origin := OriginOf(ctx)
	if origin.ClientIP == "" && origin.UserAgent == "" {
		return ""
	}
	return sec.Fingerprint(origin.ClientIP, origin.UserAgent)
}

// # Structured Logging

// WithLogger attaches the request-scoped logger to ctx.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// GetLogger returns the request-scoped logger, falling back to slog.Default.
func GetLogger(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(ctxkey.KeyLogger).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}
