// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package comment manages the comment thread under each video.

A thread is readable whenever its video is visible to the caller; writing
requires authentication, and edits are owner-only.
*/
package comment

import (
	"context"
	"log/slog"
	"time"

	"github.com/taibuivan/vidora/internal/core/guard"
	"github.com/taibuivan/vidora/internal/core/model"
	"github.com/taibuivan/vidora/internal/core/readmodel"
	"github.com/taibuivan/vidora/internal/core/store"
	"github.com/taibuivan/vidora/internal/platform/apperr"
	"github.com/taibuivan/vidora/internal/platform/constants"
	"github.com/taibuivan/vidora/internal/platform/dberr"
	"github.com/taibuivan/vidora/internal/platform/validate"
	"github.com/taibuivan/vidora/pkg/pagination"
	"github.com/taibuivan/vidora/pkg/uuid"
)

const (
	MsgContentRequired = "Comment content is required"
	MsgForbiddenUpdate = "You can only update your own comments"
	MsgForbiddenDelete = "You can only delete your own comments"
)

const (
	FieldContent   = "content"
	FieldVideoID   = "video_id"
	FieldCommentID = "comment_id"
)

// Item is a comment as shown in a thread.
type Item struct {
	ID         string             `json:"id"`
	VideoID    string             `json:"video_id"`
	Content    string             `json:"content"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
	Owner      *model.UserSummary `json:"owner"`
	LikesCount int                `json:"likes_count"`
	IsLiked    bool               `json:"is_liked"`
}

// Service handles comment threads.
type Service struct {
	store  store.Store
	logger *slog.Logger
}

// NewService constructs a new [Service].
func NewService(store store.Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// # Thread Lookups

// List returns a page of the thread under a visible video, newest first.
func (service *Service) List(context context.Context, actor *model.Actor, videoID string, page pagination.Params) (*readmodel.Page[Item], error) {
	if err := validate.Page(page, pagination.General); err != nil {
		return nil, err
	}
	videoID, err := service.requireVisibleVideo(context, actor, videoID)
	if err != nil {
		return nil, err
	}

	return readmodel.Run[Item](context, service.store, readmodel.Spec{
		From:  readmodel.Comments,
		Match: []readmodel.Condition{readmodel.Eq(readmodel.FieldVideoID, videoID)},
		Project: []string{
			readmodel.FieldID, readmodel.FieldVideoID, readmodel.FieldContent,
			readmodel.FieldCreatedAt, readmodel.FieldUpdatedAt,
		},
		Joins: []readmodel.Join{readmodel.UserJoin("owner", readmodel.FieldOwnerID)},
		Derived: append(
			[]readmodel.Derived{readmodel.LikeCount("likes_count", model.TargetComment)},
			readmodel.LikedBy("is_liked", model.TargetComment, actor)...,
		),
		Sort: readmodel.NewestFirst,
		Page: page,
	})
}

// requireVisibleVideo returns the canonical id of a video the actor can see.
func (service *Service) requireVisibleVideo(context context.Context, actor *model.Actor, videoID string) (string, error) {
	videoID, err := validate.ID(FieldVideoID, "video", videoID)
	if err != nil {
		return "", err
	}

	video, err := service.store.FindVideo(context, videoID)
	if err != nil {
		return "", dberr.NotFoundAs(err, "Video")
	}
	if !video.VisibleTo(actor) {
		return "", apperr.NotFound("Video")
	}
	return video.ID, nil
}

// # Thread Management

/*
Add posts a comment under a visible video.

Returns:
  - *model.Comment: The stored comment
  - error: 400 on empty or oversized content, 401, 404 when the video is missing
*/
func (service *Service) Add(context context.Context, actor *model.Actor, videoID, content string) (*model.Comment, error) {
	if err := guard.RequireActor(actor); err != nil {
		return nil, err
	}

	content, err := validate.Text(FieldContent, content, constants.MaxCommentLength, MsgContentRequired)
	if err != nil {
		return nil, err
	}

	videoID, err = service.requireVisibleVideo(context, actor, videoID)
	if err != nil {
		return nil, err
	}

	comment := &model.Comment{
		ID:          uuid.New(),
		VideoID:     videoID,
		OwnerUserID: actor.ID,
		Content:     content,
	}

	// The video may vanish between the check and the insert
	if err := service.store.CreateComment(context, comment); err != nil {
		return nil, dberr.NotFoundAs(err, "Video")
	}

	service.logger.Info("comment_added",
		slog.String("comment_id", comment.ID),
		slog.String("video_id", videoID),
	)

	return comment, nil
}

// Update replaces the content of the actor's comment.
func (service *Service) Update(context context.Context, actor *model.Actor, commentID, content string) (*model.Comment, error) {
	commentID, err := validate.ID(FieldCommentID, "comment", commentID)
	if err != nil {
		return nil, err
	}
	if err := guard.RequireActor(actor); err != nil {
		return nil, err
	}

	content, err = validate.Text(FieldContent, content, constants.MaxCommentLength, MsgContentRequired)
	if err != nil {
		return nil, err
	}

	comment, err := service.store.MutateComment(context, commentID, func(current *model.Comment) error {
		if err := guard.Authorize(actor, current, MsgForbiddenUpdate); err != nil {
			return err
		}
		current.Content = content
		return nil
	})
	if err != nil {
		return nil, dberr.NotFoundAs(err, "Comment")
	}

	return comment, nil
}

// Delete removes the actor's comment and its likes.
func (service *Service) Delete(context context.Context, actor *model.Actor, commentID string) error {
	commentID, err := validate.ID(FieldCommentID, "comment", commentID)
	if err != nil {
		return err
	}
	if err := guard.RequireActor(actor); err != nil {
		return err
	}

	if err := service.store.DeleteComment(context, commentID, guard.Owner[model.Comment](actor, MsgForbiddenDelete)); err != nil {
		return dberr.NotFoundAs(err, "Comment")
	}

	service.logger.Info("comment_deleted", slog.String("comment_id", commentID))
	return nil
}
