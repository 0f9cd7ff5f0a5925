// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package like exposes likes on videos, comments and tweets.

Likes are plain relation rows flipped by the toggle engine. The liked-videos
listing only shows videos the actor can still see.
*/
package like

import (
	"context"
	"time"

	"github.com/taibuivan/vidora/internal/core/guard"
	"github.com/taibuivan/vidora/internal/core/model"
	"github.com/taibuivan/vidora/internal/core/readmodel"
	"github.com/taibuivan/vidora/internal/core/toggle"
	"github.com/taibuivan/vidora/internal/core/video"
	"github.com/taibuivan/vidora/internal/platform/validate"
	"github.com/taibuivan/vidora/pkg/pagination"
	"github.com/taibuivan/vidora/pkg/slice"
)

// LikedVideo is one entry of the actor's liked-videos listing.
type LikedVideo struct {
	Video   *video.Card `json:"video"`
	LikedAt time.Time   `json:"liked_at"`
}

// likeRow is the stored shape of a liked-videos document.
type likeRow struct {
	Video     *video.Card `json:"video"`
	CreatedAt time.Time   `json:"created_at"`
}

// Service handles likes.
type Service struct {
	engine *toggle.Engine
	reader readmodel.Executor
}

// NewService constructs a new [Service].
func NewService(engine *toggle.Engine, reader readmodel.Executor) *Service {
	return &Service{engine: engine, reader: reader}
}

// ToggleVideo likes or unlikes a visible video. It reports whether the like now exists.
func (service *Service) ToggleVideo(context context.Context, actor *model.Actor, videoID string) (bool, error) {
	result, err := service.engine.Toggle(context, model.RelationVideoLike, actor, videoID)
	return result.Active, err
}

// ToggleComment likes or unlikes a comment.
func (service *Service) ToggleComment(context context.Context, actor *model.Actor, commentID string) (bool, error) {
	result, err := service.engine.Toggle(context, model.RelationCommentLike, actor, commentID)
	return result.Active, err
}

// ToggleTweet likes or unlikes a tweet.
func (service *Service) ToggleTweet(context context.Context, actor *model.Actor, tweetID string) (bool, error) {
	result, err := service.engine.Toggle(context, model.RelationTweetLike, actor, tweetID)
	return result.Active, err
}

/*
LikedVideos returns the videos the actor likes, most recently liked first.

Description: Likes pointing at videos that no longer exist, or that the actor
can no longer see, are left out of both the items and the total.

Returns:
  - *readmodel.Page[LikedVideo]: Items plus pagination metadata
  - error: 401 when anonymous, 400 on bad paging
*/
func (service *Service) LikedVideos(context context.Context, actor *model.Actor, page pagination.Params) (*readmodel.Page[LikedVideo], error) {
	if err := guard.RequireActor(actor); err != nil {
		return nil, err
	}
	if err := validate.Page(page, pagination.General); err != nil {
		return nil, err
	}

	rows, err := readmodel.Run[likeRow](context, service.reader, readmodel.Spec{
		From: readmodel.Likes,
		Match: []readmodel.Condition{
			readmodel.Eq(readmodel.FieldLikedBy, actor.ID),
			readmodel.Eq(readmodel.FieldTargetKind, string(model.TargetVideo)),
		},
		Project: []string{readmodel.FieldCreatedAt},
		Joins: []readmodel.Join{{
			As:         "video",
			From:       readmodel.Videos,
			LocalField: readmodel.FieldTargetID,
			Project:    readmodel.VideoCardFields,
			Match:      []readmodel.Condition{readmodel.VisibleVideos(actor)},
			Joins:      []readmodel.Join{readmodel.UserJoin("author", readmodel.FieldAuthorID)},
			Derived:    []readmodel.Derived{readmodel.LikeCount("likes_count", model.TargetVideo)},
			Required:   true,
		}},
		Sort: readmodel.NewestFirst,
		Page: page,
	})
	if err != nil {
		return nil, err
	}

	return &readmodel.Page[LikedVideo]{
		Items: slice.Map(rows.Items, func(row likeRow) LikedVideo {
			return LikedVideo{Video: row.Video, LikedAt: row.CreatedAt}
		}),
		Pagination: rows.Pagination,
	}, nil
}
