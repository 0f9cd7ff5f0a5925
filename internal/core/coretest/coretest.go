// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package coretest provides fixtures shared by the domain service tests.
package coretest

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/taibuivan/vidora/internal/core/model"
	"github.com/taibuivan/vidora/internal/core/store/memory"
	"github.com/taibuivan/vidora/pkg/uuid"
)

// Fixture is a memory store seeded with three accounts.
type Fixture struct {
	Store *memory.Store
	Alice *model.Actor
	Bob   *model.Actor
	Carol *model.Actor
}

// New seeds a fresh store.
func New(t *testing.T) *Fixture {
	t.Helper()

	fixture := &Fixture{Store: memory.New()}
	fixture.Alice = fixture.User("alice")
	fixture.Bob = fixture.User("bob")
	fixture.Carol = fixture.User("carol")
	return fixture
}

// User seeds an account and returns it as an actor.
func (fixture *Fixture) User(username string) *model.Actor {
	actor := &model.Actor{ID: uuid.New(), Username: username}
	fixture.Store.PutUser(model.User{
		ID:       actor.ID,
		Username: username,
		FullName: username + " (full)",
		Avatar:   "https://cdn.test/" + username + ".png",
	})
	return actor
}

// Video seeds a video owned by author and returns its id.
func (fixture *Fixture) Video(t *testing.T, author *model.Actor, title string, published bool) string {
	t.Helper()

	id := uuid.New()
	require.NoError(t, fixture.Store.CreateVideo(context.Background(), &model.Video{
		ID:           id,
		AuthorID:     author.ID,
		Title:        title,
		Description:  "about " + title,
		VideoURL:     "https://cdn.test/" + id + ".mp4",
		ThumbnailURL: "https://cdn.test/" + id + ".jpg",
		IsPublished:  published,
	}))
	return id
}

// Logger discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
