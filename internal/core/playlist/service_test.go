// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package playlist_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/vidora/internal/core/coretest"
	"github.com/taibuivan/vidora/internal/core/model"
	"github.com/taibuivan/vidora/internal/core/playlist"
	"github.com/taibuivan/vidora/internal/core/store"
	"github.com/taibuivan/vidora/internal/core/store/memory"
	"github.com/taibuivan/vidora/internal/platform/apperr"
	"github.com/taibuivan/vidora/pkg/pagination"
	"github.com/taibuivan/vidora/pkg/pointer"
	"github.com/taibuivan/vidora/pkg/uuid"
)

var firstPage = pagination.Params{Page: 1, Limit: 10}

func newService(t *testing.T) (*coretest.Fixture, *playlist.Service, *model.Playlist) {
	t.Helper()

	f := coretest.New(t)
	service := playlist.NewService(f.Store, coretest.Logger())
	created, err := service.Create(context.Background(), f.Alice, "  Favourites ", " best of ")
	require.NoError(t, err)
	return f, service, created
}

// TestService_Create verifies trimming and the required fields.
func TestService_Create(t *testing.T) {
	ctx := context.Background()
	f, service, created := newService(t)

	assert.Equal(t, "Favourites", created.Name)
	assert.Equal(t, "best of", created.Description)
	assert.Empty(t, created.VideoIDs)

	tests := []struct {
		name        string
		actor       *model.Actor
		title, desc string
		wantCode    string
		wantMsg     string
	}{
		{name: "anonymous", actor: nil, title: "a", desc: "b", wantCode: apperr.CodeUnauthorized},
		{name: "blank name", actor: f.Bob, title: "  ", desc: "b", wantCode: apperr.CodeValidation, wantMsg: playlist.MsgNameRequired},
		{name: "blank description", actor: f.Bob, title: "a", desc: "", wantCode: apperr.CodeValidation, wantMsg: playlist.MsgDescriptionRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Create(ctx, tt.actor, tt.title, tt.desc)
			require.Error(t, err)
			assert.True(t, apperr.HasCode(err, tt.wantCode), "got %v", err)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, err.Error())
			}
		})
	}
}

/*
TestService_Membership verifies the sequence semantics: append order,
duplicate rejection, removal of absent ids and order preservation.
*/
func TestService_Membership(t *testing.T) {
	ctx := context.Background()
	f, service, created := newService(t)

	first := f.Video(t, f.Bob, "first", true)
	second := f.Video(t, f.Bob, "second", true)
	third := f.Video(t, f.Alice, "third", true)

	for _, id := range []string{first, second, third} {
		_, err := service.AddVideo(ctx, f.Alice, id, created.ID)
		require.NoError(t, err)
	}

	_, err := service.AddVideo(ctx, f.Alice, second, created.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeConflict))
	assert.Equal(t, playlist.MsgVideoExists, err.Error())

	updated, err := service.RemoveVideo(ctx, f.Alice, second, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{first, third}, updated.VideoIDs)

	_, err = service.RemoveVideo(ctx, f.Alice, second, created.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeConflict))
	assert.Equal(t, playlist.MsgVideoAbsent, err.Error())

	tests := []struct {
		name     string
		call     func() error
		wantCode string
	}{
		{name: "add by non owner", call: func() error { _, err := service.AddVideo(ctx, f.Bob, second, created.ID); return err }, wantCode: apperr.CodeForbidden},
		{name: "remove by non owner", call: func() error { _, err := service.RemoveVideo(ctx, f.Bob, first, created.ID); return err }, wantCode: apperr.CodeForbidden},
		{name: "add missing video", call: func() error { _, err := service.AddVideo(ctx, f.Alice, uuid.New(), created.ID); return err }, wantCode: apperr.CodeNotFound},
		{name: "add to missing playlist", call: func() error { _, err := service.AddVideo(ctx, f.Alice, second, uuid.New()); return err }, wantCode: apperr.CodeNotFound},
		{name: "malformed playlist id", call: func() error { _, err := service.AddVideo(ctx, f.Alice, second, "nope"); return err }, wantCode: apperr.CodeValidation},
		{name: "anonymous remove", call: func() error { _, err := service.RemoveVideo(ctx, nil, first, created.ID); return err }, wantCode: apperr.CodeUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			assert.True(t, apperr.HasCode(err, tt.wantCode), "got %v", err)
		})
	}
}

/*
TestService_IdentifierCase verifies that ids differing only in letter case name
the same video and playlist, so membership stays unique.
*/
func TestService_IdentifierCase(t *testing.T) {
	ctx := context.Background()
	f, service, created := newService(t)
	first := f.Video(t, f.Bob, "first", true)
	second := f.Video(t, f.Bob, "second", true)

	_, err := service.AddVideo(ctx, f.Alice, first, created.ID)
	require.NoError(t, err)

	_, err = service.AddVideo(ctx, f.Alice, strings.ToUpper(first), strings.ToUpper(created.ID))
	assert.True(t, apperr.HasCode(err, apperr.CodeConflict), "got %v", err)

	updated, err := service.AddVideo(ctx, f.Alice, strings.ToUpper(second), created.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{first, second}, updated.VideoIDs)

	updated, err = service.RemoveVideo(ctx, f.Alice, strings.ToUpper(first), created.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{second}, updated.VideoIDs)
}

// deletingStore deletes the video right before the playlist edit locks it, as
// a concurrent delete that commits first would.
type deletingStore struct {
	*memory.Store
}

func (deleting deletingStore) MutatePlaylistWithVideo(ctx context.Context, id, videoID string, mutate store.PlaylistVideoMutate) (*model.Playlist, error) {
	if err := deleting.DeleteVideo(ctx, videoID, func(*model.Video) error { return nil }); err != nil {
		return nil, err
	}
	return deleting.Store.MutatePlaylistWithVideo(ctx, id, videoID, mutate)
}

// TestService_AddVideoDeletedDuringEdit verifies that a video deleted after the
// early lookup is never appended.
func TestService_AddVideoDeletedDuringEdit(t *testing.T) {
	ctx := context.Background()
	f := coretest.New(t)
	service := playlist.NewService(deletingStore{Store: f.Store}, coretest.Logger())

	created, err := service.Create(ctx, f.Alice, "mix", "late night")
	require.NoError(t, err)
	videoID := f.Video(t, f.Bob, "short lived", true)

	_, err = service.AddVideo(ctx, f.Alice, videoID, created.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound), "got %v", err)

	stored, err := f.Store.FindPlaylist(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.VideoIDs)
}

// TestService_ConcurrentAdds verifies that only one of many racing adds wins.
func TestService_ConcurrentAdds(t *testing.T) {
	ctx := context.Background()
	f, service, created := newService(t)
	videoID := f.Video(t, f.Bob, "popular", true)

	const workers = 8
	var (
		wg        sync.WaitGroup
		mutex     sync.Mutex
		succeeded int
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := service.AddVideo(ctx, f.Alice, videoID, created.ID); err == nil {
				mutex.Lock()
				succeeded++
				mutex.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)

	stored, err := f.Store.FindPlaylist(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{videoID}, stored.VideoIDs)
}

/*
TestService_Get verifies sequence order, the embedded authors and that other
authors' unpublished videos are hidden while still counted.
*/
func TestService_Get(t *testing.T) {
	ctx := context.Background()
	f, service, created := newService(t)

	second := f.Video(t, f.Bob, "second", true)
	draft := f.Video(t, f.Bob, "draft", true)
	first := f.Video(t, f.Carol, "first", true)

	for _, id := range []string{first, draft, second} {
		_, err := service.AddVideo(ctx, f.Alice, id, created.ID)
		require.NoError(t, err)
	}

	_, err := f.Store.MutateVideo(ctx, draft, func(current *model.Video) error {
		current.IsPublished = false
		return nil
	})
	require.NoError(t, err)

	detail, err := service.Get(ctx, f.Alice, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", detail.Owner.Username)
	assert.Equal(t, 3, detail.TotalVideos)
	require.Len(t, detail.Videos, 2)
	assert.Equal(t, first, detail.Videos[0].ID)
	assert.Equal(t, "carol", detail.Videos[0].Author.Username)
	assert.Equal(t, second, detail.Videos[1].ID)

	// The author of the draft still sees it
	detail, err = service.Get(ctx, f.Bob, created.ID)
	require.NoError(t, err)
	assert.Len(t, detail.Videos, 3)

	_, err = service.Get(ctx, nil, uuid.New())
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

// TestService_ListUpdateDelete covers the remaining owner operations.
func TestService_ListUpdateDelete(t *testing.T) {
	ctx := context.Background()
	f, service, created := newService(t)

	_, err := service.Create(ctx, f.Alice, "Later", "watch later")
	require.NoError(t, err)
	videoID := f.Video(t, f.Bob, "clip", true)
	_, err = service.AddVideo(ctx, f.Alice, videoID, created.ID)
	require.NoError(t, err)

	page, err := service.ListByUser(ctx, f.Alice.ID, firstPage)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "Later", page.Items[0].Name)
	assert.Equal(t, 1, page.Items[1].TotalVideos)
	assert.Equal(t, "alice", page.Items[1].Owner.Username)

	_, err = service.ListByUser(ctx, uuid.New(), firstPage)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))

	_, err = service.Update(ctx, f.Alice, created.ID, playlist.UpdateInput{Name: pointer.To("  ")})
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))

	updated, err := service.Update(ctx, f.Alice, created.ID, playlist.UpdateInput{Description: pointer.To(" renamed ")})
	require.NoError(t, err)
	assert.Equal(t, "Favourites", updated.Name)
	assert.Equal(t, "renamed", updated.Description)
	assert.Equal(t, []string{videoID}, updated.VideoIDs)

	_, err = service.Update(ctx, f.Bob, created.ID, playlist.UpdateInput{Name: pointer.To("mine")})
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))

	err = service.Delete(ctx, f.Bob, created.ID)
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))

	require.NoError(t, service.Delete(ctx, f.Alice, created.ID))

	_, err = f.Store.FindVideo(ctx, videoID)
	require.NoError(t, err)
}
