// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/vidora/internal/core/comment"
	"github.com/taibuivan/vidora/internal/core/coretest"
	"github.com/taibuivan/vidora/internal/core/model"
	"github.com/taibuivan/vidora/internal/platform/apperr"
	"github.com/taibuivan/vidora/pkg/pagination"
	"github.com/taibuivan/vidora/pkg/uuid"
)

var firstPage = pagination.Params{Page: 1, Limit: 10}

/*
TestService_AddAndList verifies that comments are listed newest first with
their owner, like count and the actor-scoped like flag.
*/
func TestService_AddAndList(t *testing.T) {
	ctx := context.Background()
	f := coretest.New(t)
	service := comment.NewService(f.Store, coretest.Logger())
	videoID := f.Video(t, f.Alice, "intro", true)

	first, err := service.Add(ctx, f.Bob, videoID, "  first!  ")
	require.NoError(t, err)
	assert.Equal(t, "first!", first.Content)

	_, err = service.Add(ctx, f.Carol, videoID, "second")
	require.NoError(t, err)

	require.NoError(t, f.Store.InsertRelation(ctx, model.Relation{Kind: model.RelationCommentLike, ActorID: f.Alice.ID, TargetID: first.ID}))

	page, err := service.List(ctx, f.Alice, videoID, firstPage)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "second", page.Items[0].Content)
	assert.Equal(t, "carol", page.Items[0].Owner.Username)
	assert.Equal(t, first.ID, page.Items[1].ID)
	assert.Equal(t, 1, page.Items[1].LikesCount)
	assert.True(t, page.Items[1].IsLiked)

	page, err = service.List(ctx, nil, videoID, firstPage)
	require.NoError(t, err)
	assert.False(t, page.Items[1].IsLiked)
}

// TestService_Preconditions covers validation, visibility and ownership.
func TestService_Preconditions(t *testing.T) {
	ctx := context.Background()
	f := coretest.New(t)
	service := comment.NewService(f.Store, coretest.Logger())
	videoID := f.Video(t, f.Alice, "intro", true)
	draftID := f.Video(t, f.Alice, "draft", false)

	existing, err := service.Add(ctx, f.Bob, videoID, "hello")
	require.NoError(t, err)

	tests := []struct {
		name     string
		call     func() error
		wantCode string
	}{
		{name: "anonymous add", call: func() error { _, err := service.Add(ctx, nil, videoID, "x"); return err }, wantCode: apperr.CodeUnauthorized},
		{name: "blank content", call: func() error { _, err := service.Add(ctx, f.Bob, videoID, "   "); return err }, wantCode: apperr.CodeValidation},
		{name: "oversized content", call: func() error { _, err := service.Add(ctx, f.Bob, videoID, strings.Repeat("a", 1001)); return err }, wantCode: apperr.CodeValidation},
		{name: "missing video", call: func() error { _, err := service.Add(ctx, f.Bob, uuid.New(), "x"); return err }, wantCode: apperr.CodeNotFound},
		{name: "hidden video", call: func() error { _, err := service.Add(ctx, f.Bob, draftID, "x"); return err }, wantCode: apperr.CodeNotFound},
		{name: "list hidden video", call: func() error { _, err := service.List(ctx, f.Bob, draftID, firstPage); return err }, wantCode: apperr.CodeNotFound},
		{name: "update by other user", call: func() error { _, err := service.Update(ctx, f.Carol, existing.ID, "edit"); return err }, wantCode: apperr.CodeForbidden},
		{name: "update missing", call: func() error { _, err := service.Update(ctx, f.Bob, uuid.New(), "edit"); return err }, wantCode: apperr.CodeNotFound},
		{name: "delete by other user", call: func() error { return service.Delete(ctx, f.Alice, existing.ID) }, wantCode: apperr.CodeForbidden},
		{name: "delete malformed id", call: func() error { return service.Delete(ctx, f.Bob, "nope") }, wantCode: apperr.CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			assert.True(t, apperr.HasCode(err, tt.wantCode), "got %v", err)
		})
	}

	// The author may comment on their own draft
	_, err = service.Add(ctx, f.Alice, draftID, "note to self")
	require.NoError(t, err)
}

// TestService_DeleteRemovesLikes verifies the comment's likes go with it.
func TestService_DeleteRemovesLikes(t *testing.T) {
	ctx := context.Background()
	f := coretest.New(t)
	service := comment.NewService(f.Store, coretest.Logger())
	videoID := f.Video(t, f.Alice, "intro", true)

	created, err := service.Add(ctx, f.Bob, videoID, "hello")
	require.NoError(t, err)
	require.NoError(t, f.Store.InsertRelation(ctx, model.Relation{Kind: model.RelationCommentLike, ActorID: f.Alice.ID, TargetID: created.ID}))

	updated, err := service.Update(ctx, f.Bob, created.ID, "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)

	require.NoError(t, service.Delete(ctx, f.Bob, created.ID))

	count, err := f.Store.CountRelations(ctx, model.RelationCommentLike, created.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}
