// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dashboard_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/vidora/internal/core/coretest"
	"github.com/taibuivan/vidora/internal/core/dashboard"
	"github.com/taibuivan/vidora/internal/core/model"
	"github.com/taibuivan/vidora/internal/platform/apperr"
	"github.com/taibuivan/vidora/pkg/pagination"
	"github.com/taibuivan/vidora/pkg/uuid"
)

func relate(t *testing.T, f *coretest.Fixture, kind model.RelationKind, actor *model.Actor, targetID string) {
	t.Helper()
	require.NoError(t, f.Store.InsertRelation(context.Background(), model.Relation{Kind: kind, ActorID: actor.ID, TargetID: targetID}))
}

/*
TestService_ChannelStats verifies each aggregate against a seeded channel:
views summed over all videos, likes counted on the channel's videos only.
*/
func TestService_ChannelStats(t *testing.T) {
	ctx := context.Background()
	f := coretest.New(t)
	service := dashboard.NewService(f.Store)

	published := f.Video(t, f.Alice, "published", true)
	draft := f.Video(t, f.Alice, "draft", false)
	other := f.Video(t, f.Bob, "bob's", true)

	require.NoError(t, f.Store.IncrementViews(ctx, published))
	require.NoError(t, f.Store.IncrementViews(ctx, published))
	require.NoError(t, f.Store.IncrementViews(ctx, draft))

	relate(t, f, model.RelationVideoLike, f.Bob, published)
	relate(t, f, model.RelationVideoLike, f.Carol, published)
	relate(t, f, model.RelationVideoLike, f.Alice, other)
	relate(t, f, model.RelationSubscription, f.Bob, f.Alice.ID)
	relate(t, f, model.RelationSubscription, f.Alice, f.Carol.ID)

	comment := &model.Comment{ID: uuid.New(), VideoID: published, OwnerUserID: f.Bob.ID, Content: "nice"}
	require.NoError(t, f.Store.CreateComment(ctx, comment))
	relate(t, f, model.RelationCommentLike, f.Carol, comment.ID)

	stats, err := service.ChannelStats(ctx, f.Alice)
	require.NoError(t, err)
	assert.Equal(t, dashboard.Stats{
		TotalVideos:        2,
		TotalViews:         3,
		TotalSubscribers:   1,
		TotalLikes:         2,
		TotalSubscriptions: 1,
	}, *stats)

	_, err = service.ChannelStats(ctx, nil)
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))
}

// TestService_ChannelVideos verifies the owner's listing and its paging policy.
func TestService_ChannelVideos(t *testing.T) {
	ctx := context.Background()
	f := coretest.New(t)
	service := dashboard.NewService(f.Store)

	published := f.Video(t, f.Alice, "published", true)
	draft := f.Video(t, f.Alice, "draft", false)
	f.Video(t, f.Bob, "not mine", true)

	relate(t, f, model.RelationVideoLike, f.Bob, published)
	require.NoError(t, f.Store.CreateComment(ctx, &model.Comment{ID: uuid.New(), VideoID: published, OwnerUserID: f.Bob.ID, Content: "hi"}))

	page, err := service.ChannelVideos(ctx, f.Alice, "", "", pagination.Params{Page: 1, Limit: 50})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, draft, page.Items[0].ID)
	assert.False(t, page.Items[0].IsPublished)
	assert.Equal(t, published, page.Items[1].ID)
	assert.Equal(t, 1, page.Items[1].LikesCount)
	assert.Equal(t, 1, page.Items[1].CommentsCount)

	page, err = service.ChannelVideos(ctx, f.Alice, "title", "asc", pagination.Params{Page: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "draft", page.Items[0].Title)
	assert.True(t, page.Pagination.HasNextPage)

	tests := []struct {
		name   string
		sortBy string
		page   pagination.Params
	}{
		{name: "limit over channel maximum", page: pagination.Params{Page: 1, Limit: 51}},
		{name: "page zero", page: pagination.Params{Page: 0, Limit: 10}},
		{name: "unsortable field", sortBy: "description", page: pagination.Params{Page: 1, Limit: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.ChannelVideos(ctx, f.Alice, tt.sortBy, "", tt.page)
			assert.True(t, apperr.HasCode(err, apperr.CodeValidation), "got %v", err)
		})
	}
}
