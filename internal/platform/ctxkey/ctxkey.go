// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxkey defines the typed context keys shared by middleware and
// request helpers.
package ctxkey

type key uint8

const (
	// KeyOrigin holds the request's [ctxutil.Origin]: correlation id, client
	// address and user agent.
	KeyOrigin key = iota + 1

	// KeyClaims holds the verified bearer token claims.
	KeyClaims

	// KeyLogger holds the per-request *slog.Logger.
	KeyLogger
)
