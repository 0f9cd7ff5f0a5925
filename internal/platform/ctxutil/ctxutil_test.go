// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ctxutil_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/vidora/internal/platform/ctxutil"
	"github.com/taibuivan/vidora/internal/platform/sec"
)

/*
TestViewer covers the three identities a watch request can have: a verified
user, an anonymous client, and a context the middleware never touched.
*/
func TestViewer(t *testing.T) {
	origin := ctxutil.Origin{RequestID: "r1", ClientIP: "203.0.113.7", UserAgent: "curl/8"}

	tests := []struct {
		name string
		ctx  context.Context
		want string
	}{
		{
			name: "authenticated user wins over origin",
			ctx:  ctxutil.WithClaims(ctxutil.WithOrigin(context.Background(), origin), &sec.AuthClaims{UserID: "u1"}),
			want: "u1",
		},
		{
			name: "anonymous client is fingerprinted",
			ctx:  ctxutil.WithOrigin(context.Background(), origin),
			want: sec.Fingerprint("203.0.113.7", "curl/8"),
		},
		{
			name: "bare context",
			ctx:  context.Background(),
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ctxutil.Viewer(tt.ctx))
		})
	}
}

func TestFingerprint_Separator(t *testing.T) {
	assert.NotEqual(t, sec.Fingerprint("ab", "c"), sec.Fingerprint("a", "bc"))
	assert.Len(t, sec.Fingerprint("x"), 32)
}

func TestOriginOf(t *testing.T) {
	assert.Equal(t, ctxutil.Origin{}, ctxutil.OriginOf(context.Background()))

	origin := ctxutil.Origin{RequestID: "r1", ClientIP: "198.51.100.2"}
	assert.Equal(t, origin, ctxutil.OriginOf(ctxutil.WithOrigin(context.Background(), origin)))
}

func TestGetLogger(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, slog.Default(), ctxutil.GetLogger(ctx))

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	assert.Equal(t, logger, ctxutil.GetLogger(ctxutil.WithLogger(ctx, logger)))
	assert.Nil(t, ctxutil.Claims(ctx))
}
