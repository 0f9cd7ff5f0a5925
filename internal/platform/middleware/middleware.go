// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package middleware provides the cross-cutting HTTP processing chain.

Standard Stack:

  - Trace: RequestID records the request origin for correlation and viewer identity.
  - Log: structured request logging (slog) with a per-request child logger.
  - Guard: per-client rate limiting with separate read and write budgets, CORS.
  - Safe: panic recovery.
  - Identity: bearer-token authentication (see authz.go).
*/
package middleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/taibuivan/vidora/internal/platform/apperr"
	"github.com/taibuivan/vidora/internal/platform/constants"
	"github.com/taibuivan/vidora/internal/platform/ctxutil"
	"github.com/taibuivan/vidora/internal/platform/respond"
	"github.com/taibuivan/vidora/pkg/uuid"
)

// # Request Tracing

// RequestID attaches a correlation ID to every request and records its origin.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			requestID := request.Header.Get(constants.HeaderXRequestID)
			if requestID == "" {
				requestID = uuid.New()
			}

			ctx := ctxutil.WithOrigin(request.Context(), ctxutil.Origin{
				RequestID: requestID,
				ClientIP:  RealIP(request),
				UserAgent: request.UserAgent(),
			})
			writer.Header().Set(constants.HeaderXRequestID, requestID)

			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// # Activity Logging

type responseRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (recorder *responseRecorder) WriteHeader(code int) {
	recorder.status = code
	recorder.ResponseWriter.WriteHeader(code)
}

func (recorder *responseRecorder) Write(body []byte) (int, error) {
	written, err := recorder.ResponseWriter.Write(body)
	recorder.bytes += written
	return written, err
}

// StructuredLogger logs every request and injects a request-scoped logger.
// 5xx responses log at error, 4xx at warn, everything else at info.
func StructuredLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			startTime := time.Now()

			origin := ctxutil.OriginOf(request.Context())
			requestLogger := logger.With(
				slog.String("request_id", origin.RequestID),
				slog.String("method", request.Method),
				slog.String("path", request.URL.Path),
				slog.String("ip", origin.ClientIP),
			)

			ctx := ctxutil.WithLogger(request.Context(), requestLogger)
			recorder := &responseRecorder{ResponseWriter: writer, status: http.StatusOK}

			next.ServeHTTP(recorder, request.WithContext(ctx))

			level := slog.LevelInfo
			switch {
			case recorder.status >= http.StatusInternalServerError:
				level = slog.LevelError
			case recorder.status >= http.StatusBadRequest:
				level = slog.LevelWarn
			}

			requestLogger.Log(ctx, level, "http_request_finished",
				slog.Int("status", recorder.status),
				slog.Int("bytes", recorder.bytes),
				slog.Int64("latency_ms", time.Since(startTime).Milliseconds()),
				slog.String("user_agent", origin.UserAgent),
			)
		})
	}
}

// # Rate Limiting

// RateBudget is a token bucket shape.
type RateBudget struct {
	PerSecond float64
	Burst     int
}

// RatePolicy gives reads and writes separate budgets, so a client hammering
// like or subscribe toggles is throttled long before its browsing is.
type RatePolicy struct {
	Read  RateBudget
	Write RateBudget
}

// DefaultRatePolicy is the production policy.
var DefaultRatePolicy = RatePolicy{
	Read:  RateBudget{PerSecond: constants.DefaultRateLimitRPS, Burst: constants.DefaultRateLimitBurst},
	Write: RateBudget{PerSecond: constants.WriteRateLimitRPS, Burst: constants.WriteRateLimitBurst},
}

type clientBuckets struct {
	read     *rate.Limiter
	write    *rate.Limiter
	lastSeen time.Time
}

type rateLimiter struct {
	mutex   sync.Mutex
	policy  RatePolicy
	clients map[string]*clientBuckets
}

func (limiter *rateLimiter) allow(client string, isWrite bool) bool {
	limiter.mutex.Lock()
	defer limiter.mutex.Unlock()

	buckets, found := limiter.clients[client]
	if !found {
		buckets = &clientBuckets{
			read:  rate.NewLimiter(rate.Limit(limiter.policy.Read.PerSecond), limiter.policy.Read.Burst),
			write: rate.NewLimiter(rate.Limit(limiter.policy.Write.PerSecond), limiter.policy.Write.Burst),
		}
		limiter.clients[client] = buckets
	}
	buckets.lastSeen = time.Now()

	if isWrite {
		return buckets.write.Allow()
	}
	return buckets.read.Allow()
}

func (limiter *rateLimiter) sweep(now time.Time) {
	limiter.mutex.Lock()
	defer limiter.mutex.Unlock()

	for client, buckets := range limiter.clients {
		if now.Sub(buckets.lastSeen) > constants.RateLimitClientTTL {
			delete(limiter.clients, client)
		}
	}
}

// RateLimit throttles each client address under policy. Idle clients are
// swept until context is cancelled.
func RateLimit(context context.Context, policy RatePolicy) func(http.Handler) http.Handler {
	limiter := &rateLimiter{policy: policy, clients: make(map[string]*clientBuckets)}

	go func() {
		ticker := time.NewTicker(constants.RateLimitCleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case now := <-ticker.C:
				limiter.sweep(now)
			case <-context.Done():
				return
			}
		}
	}()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			client := ctxutil.OriginOf(request.Context()).ClientIP
			if client == "" {
				client = RealIP(request)
			}

			if !limiter.allow(client, isWrite(request.Method)) {
				respond.Error(writer, request, apperr.RateLimited("Rate limit exceeded"))
				return
			}
			next.ServeHTTP(writer, request)
		})
	}
}

func isWrite(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return false
	}
	return true
}

// # Reliability & Safety

// PanicRecovery turns a panic into a logged 500 response.
func PanicRecovery() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			defer func() {
				recovered := recover()
				if recovered == nil {
					return
				}
				if recovered == http.ErrAbortHandler {
					panic(recovered)
				}

				ctxutil.GetLogger(request.Context()).ErrorContext(request.Context(), "panic_recovered",
					slog.Any("error", recovered),
					slog.String("stack", string(debug.Stack())),
				)
				respond.Error(writer, request, apperr.Internal(nil))
			}()

			next.ServeHTTP(writer, request)
		})
	}
}

// # Cross-Origin Resource Sharing

// AppConfig defines the behavior needed by the CORS middleware.
type AppConfig interface {
	IsDevelopment() bool
	OriginSuffix() string
}

const (
	corsAllowMethods  = "GET, POST, PATCH, DELETE, OPTIONS"
	corsAllowHeaders  = "Accept, Content-Type, Content-Length, Authorization, X-Request-ID"
	corsExposeHeaders = "Content-Length, X-Request-ID"
	corsMaxAge        = "300"
)

// CORS allows any origin in development and origins under the configured
// domain suffix otherwise. Preflight requests end here with 204.
func CORS(cfg AppConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			origin := request.Header.Get(constants.HeaderOrigin)
			if origin == "" {
				next.ServeHTTP(writer, request)
				return
			}

			header := writer.Header()
			header.Add("Vary", constants.HeaderOrigin)

			if cfg.IsDevelopment() || strings.HasSuffix(origin, cfg.OriginSuffix()) {
				header.Set("Access-Control-Allow-Origin", origin)
				header.Set("Access-Control-Allow-Methods", corsAllowMethods)
				header.Set("Access-Control-Allow-Headers", corsAllowHeaders)
				header.Set("Access-Control-Expose-Headers", corsExposeHeaders)
				header.Set("Access-Control-Allow-Credentials", "true")
				header.Set("Access-Control-Max-Age", corsMaxAge)
			}

			if request.Method == http.MethodOptions {
				writer.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// # Middleware Helpers

// RealIP extracts the client address, preferring X-Real-IP, then the first
// X-Forwarded-For hop, then the socket peer.
func RealIP(request *http.Request) string {
	if ip := strings.TrimSpace(request.Header.Get(constants.HeaderXRealIP)); ip != "" {
		return ip
	}

	if forwarded := request.Header.Get(constants.HeaderXForwardedFor); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}

	host, _, err := net.SplitHostPort(request.RemoteAddr)
	if err != nil {
		return request.RemoteAddr
	}
	return host
}
