// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package objectstore resolves uploaded media against S3-compatible storage.

Uploads go straight from the client to the bucket. The API only receives the
object key, confirms the object exists and derives its public URL and
metadata; it never streams media itself.
*/
package objectstore

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/taibuivan/vidora/internal/platform/apperr"
	"github.com/taibuivan/vidora/internal/platform/validate"
)

// MsgMediaNotFound is returned when a key names no uploaded object.
const MsgMediaNotFound = "Uploaded media not found"

// durationMetadata is the user metadata key carrying a video's length in seconds.
const durationMetadata = "Duration"

const pingTimeout = 2 * time.Second

// Media is an uploaded object resolved to its public form.
type Media struct {
	URL      string
	Duration float64
}

// Options configures the storage client.
type Options struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	UseSSL        bool
	PublicBaseURL string
}

// Resolver stats objects in one bucket.
type Resolver struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

// New connects a [Resolver] to the configured bucket.
func New(options Options, logger *slog.Logger) (*Resolver, error) {
	client, err := minio.New(options.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(options.AccessKey, options.SecretKey, ""),
		Secure: options.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("objectstore: failed to create client: %w", err)
	}

	baseURL := options.PublicBaseURL
	if baseURL == "" {
		scheme := "http"
		if options.UseSSL {
			scheme = "https"
		}
		baseURL = fmt.Sprintf("%s://%s/%s", scheme, options.Endpoint, options.Bucket)
	}

	logger.Info("object store configured",
		slog.String("endpoint", options.Endpoint),
		slog.String("bucket", options.Bucket),
	)

	return &Resolver{client: client, bucket: options.Bucket, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Resolve stats the object under key and returns its public URL and duration.
func (resolver *Resolver) Resolve(context context.Context, key string) (Media, error) {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if key == "" {
		return Media{}, validate.RequiredError("video_key", MsgMediaNotFound)
	}

	info, err := resolver.client.StatObject(context, resolver.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).StatusCode == http.StatusNotFound {
			return Media{}, apperr.ValidationError(MsgMediaNotFound)
		}
		return Media{}, apperr.Internal(fmt.Errorf("objectstore: stat %s: %w", key, err))
	}

	return Media{
		URL:      PublicURL(resolver.baseURL, key),
		Duration: ParseDuration(info.UserMetadata[durationMetadata]),
	}, nil
}

// Ping checks that the bucket is reachable.
func (resolver *Resolver) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	exists, err := resolver.client.BucketExists(pingCtx, resolver.bucket)
	if err != nil {
		return fmt.Errorf("objectstore: ping failed: %w", err)
	}
	if !exists {
		return fmt.Errorf("objectstore: bucket %q does not exist", resolver.bucket)
	}
	return nil
}

// PublicURL joins the public base URL and an object key.
func PublicURL(baseURL, key string) string {
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(key, "/")
}

// ParseDuration reads a duration in seconds. Missing or malformed metadata
// yields zero.
func ParseDuration(raw string) float64 {
	seconds, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || seconds < 0 {
		return 0
	}
	return seconds
}
