// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct. In development a local '.env' file is loaded first via 'godotenv';
variables already present in the environment always win.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// # Configuration Schema

// Config holds all runtime configuration for the Vidora API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL      string        `env:"DATABASE_URL,required"`
	DatabaseMaxConns int32         `env:"DATABASE_MAX_CONNS" envDefault:"25"`
	StatementTimeout time.Duration `env:"DATABASE_STATEMENT_TIMEOUT" envDefault:"15s"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Store (Redis), used for the view de-duplication window.
	RedisURL       string        `env:"REDIS_URL,required"`
	RedisPoolSize  int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	RedisOpTimeout time.Duration `env:"REDIS_OP_TIMEOUT" envDefault:"500ms"`
	ViewWindow     time.Duration `env:"VIEW_WINDOW" envDefault:"30m"`

	// Identity: tokens are issued elsewhere, this service only verifies them.
	JWTPubKeyPath string `env:"JWT_PUBLIC_KEY_PATH,required"`
	JWTIssuer     string `env:"JWT_ISSUER" envDefault:"vidora.app"`

	// Object Storage (MinIO / S3-compatible), used to resolve uploaded media.
	S3Endpoint      string `env:"S3_ENDPOINT"`
	S3AccessKey     string `env:"S3_ACCESS_KEY"`
	S3SecretKey     string `env:"S3_SECRET_KEY"`
	S3Bucket        string `env:"S3_BUCKET" envDefault:"media"`
	S3UseSSL        bool   `env:"S3_USE_SSL" envDefault:"false"`
	S3PublicBaseURL string `env:"S3_PUBLIC_BASE_URL"`

	// Cross-Origin Resource Sharing
	AllowedOriginSuffix string `env:"ALLOWED_ORIGIN_SUFFIX" envDefault:"vidora.app"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// A missing .env is the normal case outside local development
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: failed to read .env file: %w", err)
	}

	cfg := &Config{}

	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// HasObjectStore reports whether media resolution against object storage is configured.
func (c *Config) HasObjectStore() bool {
	return c.S3Endpoint != "" && c.S3Bucket != ""
}

// OriginSuffix implements the CORS policy lookup.
func (c *Config) OriginSuffix() string {
	return c.AllowedOriginSuffix
}

// Port returns the listen port of the HTTP server.
func (c *Config) Port() string {
	return c.ServerPort
}
