// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Content Limits: Maximum lengths of user-supplied text.
  - Relation Toggling: Retry bound of the toggle loop.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "vidora-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	DefaultRateLimitRPS      = 100.0
	DefaultRateLimitBurst    = 150
	WriteRateLimitRPS        = 10.0
	WriteRateLimitBurst      = 30
	RateLimitCleanupInterval = 1 * time.Minute
	RateLimitClientTTL       = 3 * time.Minute
)

// # Content Limits

const (
	MaxVideoTitleLength       = 200
	MaxVideoDescriptionLength = 5000
	MaxCommentLength          = 1000
	MaxTweetLength            = 280
	MaxPlaylistNameLength     = 150
	MaxPlaylistDescLength     = 1000
	MaxSearchQueryLength      = 100
)

// # Relation Toggling

const (
	// ToggleMaxAttempts bounds how often a toggle re-runs after losing an insert race.
	ToggleMaxAttempts = 5
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
	HeaderAuthorization = "Authorization"
)

// # JSON Field Identifiers

const (
	FieldStatus = "status"
	FieldChecks = "checks"
)

// # Redis Prefixes

const (
	RedisPrefixView = "vidora:view:"
)
