// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dashboard serves the channel owner's statistics and video list.
package dashboard

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/taibuivan/vidora/internal/core/guard"
	"github.com/taibuivan/vidora/internal/core/model"
	"github.com/taibuivan/vidora/internal/core/readmodel"
	"github.com/taibuivan/vidora/internal/core/store"
	"github.com/taibuivan/vidora/internal/platform/apperr"
	"github.com/taibuivan/vidora/internal/platform/validate"
	"github.com/taibuivan/vidora/pkg/pagination"
)

// MsgInvalidSort is returned for a sort field or direction outside the whitelist.
const MsgInvalidSort = "Invalid sort parameters"

// Stats are the channel aggregates, computed at read time.
type Stats struct {
	TotalVideos        int   `json:"total_videos"`
	TotalViews         int64 `json:"total_views"`
	TotalSubscribers   int   `json:"total_subscribers"`
	TotalLikes         int   `json:"total_likes"`
	TotalSubscriptions int   `json:"total_subscriptions"`
}

// ChannelVideo is one of the owner's videos, published or not.
type ChannelVideo struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	VideoURL      string    `json:"video_url"`
	Thumbnail     string    `json:"thumbnail"`
	Duration      float64   `json:"duration"`
	Views         int64     `json:"views"`
	IsPublished   bool      `json:"is_published"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	LikesCount    int       `json:"likes_count"`
	CommentsCount int       `json:"comments_count"`
}

var channelVideoFields = append(append([]string{}, readmodel.VideoCardFields...), readmodel.FieldUpdatedAt)

// Service reads channel dashboards.
type Service struct {
	store store.Store
}

// NewService constructs a new [Service].
func NewService(store store.Store) *Service {
	return &Service{store: store}
}

/*
ChannelStats returns the actor's channel aggregates.

Description: The five aggregates are independent reads and run concurrently;
the first failure cancels the rest.

Returns:
  - *Stats: The aggregates
  - error: 401 when anonymous, or a storage failure
*/
func (service *Service) ChannelStats(context context.Context, actor *model.Actor) (*Stats, error) {
	if err := guard.RequireActor(actor); err != nil {
		return nil, err
	}

	var stats Stats
	group, groupContext := errgroup.WithContext(context)

	group.Go(func() (err error) {
		stats.TotalVideos, err = service.store.CountVideosByAuthor(groupContext, actor.ID)
		return err
	})
	group.Go(func() (err error) {
		stats.TotalViews, err = service.store.SumViewsByAuthor(groupContext, actor.ID)
		return err
	})
	group.Go(func() (err error) {
		stats.TotalSubscribers, err = service.store.CountSubscribers(groupContext, actor.ID)
		return err
	})
	group.Go(func() (err error) {
		stats.TotalLikes, err = service.store.CountLikesOnAuthorVideos(groupContext, actor.ID)
		return err
	})
	group.Go(func() (err error) {
		stats.TotalSubscriptions, err = service.store.CountSubscriptions(groupContext, actor.ID)
		return err
	})

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return &stats, nil
}

// ChannelVideos returns a page of the actor's own videos, unpublished included.
func (service *Service) ChannelVideos(context context.Context, actor *model.Actor, sortBy, sortType string, page pagination.Params) (*readmodel.Page[ChannelVideo], error) {
	if err := guard.RequireActor(actor); err != nil {
		return nil, err
	}
	if err := validate.Page(page, pagination.Channel); err != nil {
		return nil, err
	}

	order, ok := readmodel.Sorted(readmodel.Videos, sortBy, sortType)
	if !ok {
		return nil, apperr.ValidationError(MsgInvalidSort)
	}

	return readmodel.Run[ChannelVideo](context, service.store, readmodel.Spec{
		From:    readmodel.Videos,
		Match:   []readmodel.Condition{readmodel.Eq(readmodel.FieldAuthorID, actor.ID)},
		Project: channelVideoFields,
		Derived: []readmodel.Derived{
			readmodel.LikeCount("likes_count", model.TargetVideo),
			readmodel.CountOf("comments_count", readmodel.Comments, readmodel.FieldVideoID),
		},
		Sort: order,
		Page: page,
	})
}
