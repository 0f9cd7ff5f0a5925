// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Vidora HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Load the token verifier and, when configured, the object store.
//  7. Wire domain services and HTTP handlers.
//  8. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/taibuivan/vidora/internal/api"
	"github.com/taibuivan/vidora/internal/core/comment"
	"github.com/taibuivan/vidora/internal/core/dashboard"
	"github.com/taibuivan/vidora/internal/core/like"
	"github.com/taibuivan/vidora/internal/core/playlist"
	"github.com/taibuivan/vidora/internal/core/store/pgstore"
	"github.com/taibuivan/vidora/internal/core/subscription"
	"github.com/taibuivan/vidora/internal/core/toggle"
	"github.com/taibuivan/vidora/internal/core/tweet"
	"github.com/taibuivan/vidora/internal/core/video"
	"github.com/taibuivan/vidora/internal/platform/config"
	"github.com/taibuivan/vidora/internal/platform/constants"
	"github.com/taibuivan/vidora/internal/platform/migration"
	"github.com/taibuivan/vidora/internal/platform/objectstore"
	"github.com/taibuivan/vidora/internal/platform/postgres"
	redisstore "github.com/taibuivan/vidora/internal/platform/redis"
	"github.com/taibuivan/vidora/internal/platform/sec"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Startup deadline so misconfiguration fails fast instead of hanging.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := postgres.NewPool(startupCtx, postgres.Options{
		DSN:              cfg.DatabaseURL,
		MaxConns:         cfg.DatabaseMaxConns,
		StatementTimeout: cfg.StatementTimeout,
		ApplicationName:  constants.AppName,
	}, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, redisstore.Options{
		URL:              cfg.RedisURL,
		PoolSize:         cfg.RedisPoolSize,
		OperationTimeout: cfg.RedisOpTimeout,
	}, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	schema, err := migration.RunUp(startupCtx, cfg.DatabaseURL, cfg.MigrationPath, log)
	must(log, err, "run migrations")
	log.Info("schema_ready", slog.Uint64("version", uint64(schema.To)), slog.Bool("changed", schema.Changed))

	// ── 6. Boundary Services ──────────────────────────────────────────────
	verifier, err := sec.NewTokenVerifier(cfg.JWTPubKeyPath, cfg.JWTIssuer)
	must(log, err, "load token verifier")

	health := api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error { return postgres.Ping(ctx, pool) },
		CheckCache:    func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) },
	}

	// Without object storage, publish requests carry URLs directly.
	var media video.MediaResolver
	if cfg.HasObjectStore() {
		resolver, err := objectstore.New(objectstore.Options{
			Endpoint:      cfg.S3Endpoint,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			Bucket:        cfg.S3Bucket,
			UseSSL:        cfg.S3UseSSL,
			PublicBaseURL: cfg.S3PublicBaseURL,
		}, log)
		must(log, err, "connect to object store")
		media = resolver
		health.CheckObjectStore = resolver.Ping
	}

	liveness, readiness := api.NewHealthHandlers(health, log)

	// ── 7. Domain Wiring ──────────────────────────────────────────────────
	relationStore := pgstore.New(pool)
	engine := toggle.NewEngine(relationStore, toggle.StoreTargets{Store: relationStore})

	videoService := video.NewService(relationStore, video.NewRedisViews(rdb, cfg.ViewWindow), log)
	commentService := comment.NewService(relationStore, log)
	likeService := like.NewService(engine, relationStore)
	subscriptionService := subscription.NewService(engine, relationStore)
	tweetService := tweet.NewService(relationStore, log)
	playlistService := playlist.NewService(relationStore, log)
	dashboardService := dashboard.NewService(relationStore)

	handlers := api.Handlers{
		Liveness:     liveness,
		Readiness:    readiness,
		Video:        video.NewHandler(videoService, media),
		Comment:      comment.NewHandler(commentService),
		Like:         like.NewHandler(likeService),
		Subscription: subscription.NewHandler(subscriptionService),
		Tweet:        tweet.NewHandler(tweetService),
		Playlist:     playlist.NewHandler(playlistService),
		Dashboard:    dashboard.NewHandler(dashboardService),
	}

	// ── 8. HTTP Server ────────────────────────────────────────────────────
	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, verifier, handlers)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("app", constants.AppName))
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned and
// handled explicitly.
func must(log *slog.Logger, err error, step string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("step", step),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
