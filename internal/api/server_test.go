// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/vidora/internal/api"
	"github.com/taibuivan/vidora/internal/core/comment"
	"github.com/taibuivan/vidora/internal/core/coretest"
	"github.com/taibuivan/vidora/internal/core/dashboard"
	"github.com/taibuivan/vidora/internal/core/like"
	"github.com/taibuivan/vidora/internal/core/model"
	"github.com/taibuivan/vidora/internal/core/playlist"
	"github.com/taibuivan/vidora/internal/core/subscription"
	"github.com/taibuivan/vidora/internal/core/toggle"
	"github.com/taibuivan/vidora/internal/core/tweet"
	"github.com/taibuivan/vidora/internal/core/video"
	"github.com/taibuivan/vidora/internal/platform/sec"
)

// tokenVerifier accepts the username of a fixture actor as its token.
type tokenVerifier map[string]*model.Actor

func (verifier tokenVerifier) VerifyToken(token string) (*sec.AuthClaims, error) {
	actor, ok := verifier[token]
	if !ok {
		return nil, errors.New("unknown token")
	}
	return &sec.AuthClaims{UserID: actor.ID, Username: actor.Username}, nil
}

type testConfig struct{}

func (testConfig) IsDevelopment() bool  { return true }
func (testConfig) OriginSuffix() string { return "vidora.app" }

type onceViews struct {
	mutex sync.Mutex
	seen  map[string]bool
}

func (views *onceViews) Mark(_ context.Context, videoID, viewer string) (bool, error) {
	views.mutex.Lock()
	defer views.mutex.Unlock()

	key := video.ViewKey(videoID, viewer)
	if views.seen[key] {
		return false, nil
	}
	views.seen[key] = true
	return true, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
	Data    json.RawMessage `json:"data"`
}

type client struct {
	t      *testing.T
	router http.Handler
}

func (c client) do(method, path, token string, body any) (int, envelope) {
	c.t.Helper()

	var payload bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&payload).Encode(body))
	}

	request := httptest.NewRequest(method, path, &payload)
	request.Header.Set("Content-Type", "application/json")
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	c.router.ServeHTTP(recorder, request)

	var decoded envelope
	require.NoError(c.t, json.Unmarshal(recorder.Body.Bytes(), &decoded), recorder.Body.String())
	return recorder.Code, decoded
}

func newRouter(t *testing.T) (*coretest.Fixture, client) {
	t.Helper()

	f := coretest.New(t)
	logger := coretest.Logger()
	engine := toggle.NewEngine(f.Store, toggle.StoreTargets{Store: f.Store})

	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{}, logger)
	handlers := api.Handlers{
		Liveness:     liveness,
		Readiness:    readiness,
		Video:        video.NewHandler(video.NewService(f.Store, &onceViews{seen: map[string]bool{}}, logger), nil),
		Comment:      comment.NewHandler(comment.NewService(f.Store, logger)),
		Like:         like.NewHandler(like.NewService(engine, f.Store)),
		Subscription: subscription.NewHandler(subscription.NewService(engine, f.Store)),
		Tweet:        tweet.NewHandler(tweet.NewService(f.Store, logger)),
		Playlist:     playlist.NewHandler(playlist.NewService(f.Store, logger)),
		Dashboard:    dashboard.NewHandler(dashboard.NewService(f.Store)),
	}

	verifier := tokenVerifier{"alice": f.Alice, "bob": f.Bob, "carol": f.Carol}
	router := api.NewRouter(t.Context(), testConfig{}, logger, verifier, handlers)
	return f, client{t: t, router: router}
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var value T
	require.NoError(t, json.Unmarshal(raw, &value))
	return value
}

/*
TestRouter_Journey drives one video through the public surface: publish,
feed, likes, comments, subscriptions, watch page and the owner dashboard.
*/
func TestRouter_Journey(t *testing.T) {
	f, c := newRouter(t)

	status, body := c.do(http.MethodPost, "/api/v1/videos", "alice", map[string]any{
		"title":       "Intro",
		"description": "first upload",
		"video_url":   "https://cdn.test/intro.mp4",
		"thumbnail":   "https://cdn.test/intro.jpg",
		"duration":    12.5,
	})
	require.Equal(t, http.StatusCreated, status, body.Error)
	videoID := decode[model.Video](t, body.Data).ID

	status, body = c.do(http.MethodGet, "/api/v1/videos?query=intro", "", nil)
	require.Equal(t, http.StatusOK, status)
	feed := decode[struct {
		Items []video.Card `json:"items"`
	}](t, body.Data)
	require.Len(t, feed.Items, 1)
	assert.Equal(t, "alice", feed.Items[0].Author.Username)

	status, body = c.do(http.MethodPost, "/api/v1/likes/toggle/v/"+videoID, "bob", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Video liked successfully", body.Message)
	assert.Equal(t, map[string]bool{"is_liked": true}, decode[map[string]bool](t, body.Data))

	status, _ = c.do(http.MethodPost, "/api/v1/likes/toggle/v/"+videoID, "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = c.do(http.MethodPost, "/api/v1/comments/"+videoID, "bob", map[string]string{"content": "great"})
	require.Equal(t, http.StatusCreated, status)

	status, body = c.do(http.MethodPost, "/api/v1/subscriptions/c/"+f.Alice.ID, "bob", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Subscribed successfully", body.Message)

	status, body = c.do(http.MethodPost, "/api/v1/subscriptions/c/"+f.Alice.ID, "alice", nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, toggle.MsgSelfSubscription, body.Error)

	status, body = c.do(http.MethodGet, "/api/v1/videos/"+videoID, "", nil)
	require.Equal(t, http.StatusOK, status)
	detail := decode[video.Detail](t, body.Data)
	assert.Equal(t, int64(1), detail.Views)
	assert.Equal(t, 1, detail.LikesCount)
	assert.Equal(t, 1, detail.CommentsCount)
	assert.Equal(t, 1, detail.Author.SubscribersCount)
	assert.False(t, detail.IsLiked)

	status, body = c.do(http.MethodGet, "/api/v1/dashboard/stats", "alice", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, dashboard.Stats{TotalVideos: 1, TotalViews: 1, TotalSubscribers: 1, TotalLikes: 1}, decode[dashboard.Stats](t, body.Data))

	status, body = c.do(http.MethodDelete, "/api/v1/videos/"+videoID, "bob", nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, video.MsgForbiddenDelete, body.Error)
}

// TestRouter_Boundary covers envelope shapes for rejected requests.
func TestRouter_Boundary(t *testing.T) {
	_, c := newRouter(t)

	tests := []struct {
		name       string
		method     string
		path       string
		token      string
		wantStatus int
		wantError  string
	}{
		{name: "dashboard limit above channel maximum", method: http.MethodGet, path: "/api/v1/dashboard/videos?limit=51", token: "alice", wantStatus: http.StatusBadRequest, wantError: "Invalid pagination parameters"},
		{name: "feed with malformed page", method: http.MethodGet, path: "/api/v1/videos?page=zero", wantStatus: http.StatusBadRequest, wantError: "Invalid pagination parameters"},
		{name: "malformed video id", method: http.MethodGet, path: "/api/v1/videos/not-a-uuid", wantStatus: http.StatusBadRequest, wantError: "Invalid video ID"},
		{name: "anonymous dashboard", method: http.MethodGet, path: "/api/v1/dashboard/stats", wantStatus: http.StatusUnauthorized, wantError: "Authentication required"},
		{name: "unknown token", method: http.MethodGet, path: "/api/v1/videos", token: "mallory", wantStatus: http.StatusUnauthorized, wantError: "Invalid or expired token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := c.do(tt.method, tt.path, tt.token, nil)
			assert.Equal(t, tt.wantStatus, status)
			assert.False(t, body.Success)
			assert.Equal(t, tt.wantError, body.Error)
		})
	}

	status, body := c.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, body.Success)
}
