// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tweet_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/vidora/internal/core/coretest"
	"github.com/taibuivan/vidora/internal/core/model"
	"github.com/taibuivan/vidora/internal/core/tweet"
	"github.com/taibuivan/vidora/internal/platform/apperr"
	"github.com/taibuivan/vidora/pkg/pagination"
	"github.com/taibuivan/vidora/pkg/uuid"
)

var firstPage = pagination.Params{Page: 1, Limit: 10}

/*
TestService_Timeline verifies that a user's tweets are listed newest first
under their profile, with like counts and the viewer's like flag.
*/
func TestService_Timeline(t *testing.T) {
	ctx := context.Background()
	f := coretest.New(t)
	service := tweet.NewService(f.Store, coretest.Logger())

	older, err := service.Create(ctx, f.Alice, "hello world")
	require.NoError(t, err)
	_, err = service.Create(ctx, f.Alice, "second post")
	require.NoError(t, err)
	_, err = service.Create(ctx, f.Bob, "not alice")
	require.NoError(t, err)

	require.NoError(t, f.Store.InsertRelation(ctx, model.Relation{Kind: model.RelationTweetLike, ActorID: f.Bob.ID, TargetID: older.ID}))

	timeline, err := service.ListByUser(ctx, f.Bob, f.Alice.ID, firstPage)
	require.NoError(t, err)
	assert.Equal(t, "alice", timeline.User.Username)
	require.Len(t, timeline.Tweets.Items, 2)
	assert.Equal(t, 2, timeline.Tweets.Pagination.TotalItems)
	assert.Equal(t, "second post", timeline.Tweets.Items[0].Content)
	assert.Equal(t, older.ID, timeline.Tweets.Items[1].ID)
	assert.Equal(t, 1, timeline.Tweets.Items[1].LikesCount)
	assert.True(t, timeline.Tweets.Items[1].IsLiked)

	timeline, err = service.ListByUser(ctx, nil, f.Alice.ID, firstPage)
	require.NoError(t, err)
	assert.False(t, timeline.Tweets.Items[1].IsLiked)
}

// TestService_Preconditions covers validation, lookups and ownership.
func TestService_Preconditions(t *testing.T) {
	ctx := context.Background()
	f := coretest.New(t)
	service := tweet.NewService(f.Store, coretest.Logger())

	existing, err := service.Create(ctx, f.Alice, "mine")
	require.NoError(t, err)

	tests := []struct {
		name     string
		call     func() error
		wantCode string
	}{
		{name: "anonymous create", call: func() error { _, err := service.Create(ctx, nil, "x"); return err }, wantCode: apperr.CodeUnauthorized},
		{name: "blank content", call: func() error { _, err := service.Create(ctx, f.Alice, " \n "); return err }, wantCode: apperr.CodeValidation},
		{name: "oversized content", call: func() error { _, err := service.Create(ctx, f.Alice, strings.Repeat("a", 281)); return err }, wantCode: apperr.CodeValidation},
		{name: "unknown user", call: func() error { _, err := service.ListByUser(ctx, nil, uuid.New(), firstPage); return err }, wantCode: apperr.CodeNotFound},
		{name: "malformed user id", call: func() error { _, err := service.ListByUser(ctx, nil, "abc", firstPage); return err }, wantCode: apperr.CodeValidation},
		{name: "oversized page", call: func() error {
			_, err := service.ListByUser(ctx, nil, f.Alice.ID, pagination.Params{Page: 1, Limit: 101})
			return err
		}, wantCode: apperr.CodeValidation},
		{name: "update by other user", call: func() error { _, err := service.Update(ctx, f.Bob, existing.ID, "edit"); return err }, wantCode: apperr.CodeForbidden},
		{name: "delete by other user", call: func() error { _, err := service.Delete(ctx, f.Bob, existing.ID); return err }, wantCode: apperr.CodeForbidden},
		{name: "delete missing", call: func() error { _, err := service.Delete(ctx, f.Alice, uuid.New()); return err }, wantCode: apperr.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			assert.True(t, apperr.HasCode(err, tt.wantCode), "got %v", err)
		})
	}
}

// TestService_UpdateAndDelete verifies owner edits and the returned deleted state.
func TestService_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	f := coretest.New(t)
	service := tweet.NewService(f.Store, coretest.Logger())

	created, err := service.Create(ctx, f.Alice, "draft")
	require.NoError(t, err)

	updated, err := service.Update(ctx, f.Alice, created.ID, "  final  ")
	require.NoError(t, err)
	assert.Equal(t, "final", updated.Content)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	require.NoError(t, f.Store.InsertRelation(ctx, model.Relation{Kind: model.RelationTweetLike, ActorID: f.Bob.ID, TargetID: created.ID}))

	deleted, err := service.Delete(ctx, f.Alice, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "final", deleted.Content)

	count, err := f.Store.CountRelations(ctx, model.RelationTweetLike, created.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	_, err = f.Store.FindTweet(ctx, created.ID)
	assert.Error(t, err)
}
