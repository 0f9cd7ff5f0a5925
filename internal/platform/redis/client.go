// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package redis provides a managed client for volatile data storage.

Vidora keeps one kind of volatile state here: the view de-duplication window,
a short-lived marker per (video, viewer) that stops refreshes from inflating
view counts. Losing it only means a view may be counted twice, so the client
is tuned for short deadlines rather than durability.
*/
package redis

import (
	stdctx "context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// # Client Options

// Options tunes the client beyond what the URL carries.
type Options struct {
	// URL is a redis:// or rediss:// connection string.
	URL string

	// PoolSize caps open connections. Zero keeps the library default.
	PoolSize int

	// OperationTimeout bounds each read and write. A view mark that misses it
	// is counted without de-duplication.
	OperationTimeout time.Duration
}

const (
	dialTimeout             = 3 * time.Second
	defaultOperationTimeout = 500 * time.Millisecond
	pingTimeout             = 2 * time.Second
	keySeparator            = ":"
)

// NewClient builds a client from options and checks that the server answers.
func NewClient(context stdctx.Context, options Options, logger *slog.Logger) (*redis.Client, error) {
	parsed, err := redis.ParseURL(options.URL)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid URL: %w", err)
	}

	timeout := options.OperationTimeout
	if timeout <= 0 {
		timeout = defaultOperationTimeout
	}

	parsed.DialTimeout = dialTimeout
	parsed.ReadTimeout = timeout
	parsed.WriteTimeout = timeout
	parsed.ContextTimeoutEnabled = true
	if options.PoolSize > 0 {
		parsed.PoolSize = options.PoolSize
	}

	client := redis.NewClient(parsed)

	if err := Ping(context, client); err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Info("redis_connected",
		slog.String("addr", parsed.Addr),
		slog.Int("db", parsed.DB),
		slog.Duration("operation_timeout", timeout),
	)

	return client, nil
}

// Ping verifies that the Redis client is healthy.
func Ping(context stdctx.Context, client *redis.Client) error {
	pingCtx, cancel := stdctx.WithTimeout(context, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("redis: ping failed: %w", err)
	}

	return nil
}

// Key joins a namespace and its parts with ":". Empty parts are kept so a key
// never shifts its positions.
func Key(namespace string, parts ...string) string {
	return strings.Join(append([]string{strings.TrimSuffix(namespace, keySeparator)}, parts...), keySeparator)
}
