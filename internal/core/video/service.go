// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package video

import (
	"context"
	"log/slog"

	"github.com/taibuivan/vidora/internal/core/guard"
	"github.com/taibuivan/vidora/internal/core/model"
	"github.com/taibuivan/vidora/internal/core/readmodel"
	"github.com/taibuivan/vidora/internal/core/store"
	"github.com/taibuivan/vidora/internal/platform/apperr"
	"github.com/taibuivan/vidora/internal/platform/constants"
	"github.com/taibuivan/vidora/internal/platform/ctxutil"
	"github.com/taibuivan/vidora/internal/platform/dberr"
	"github.com/taibuivan/vidora/internal/platform/validate"
	"github.com/taibuivan/vidora/pkg/pagination"
	"github.com/taibuivan/vidora/pkg/textnorm"
	"github.com/taibuivan/vidora/pkg/uuid"
)

// # Service Layer

// Service orchestrates the video lifecycle and the read models around it.
type Service struct {
	store  store.Store
	views  ViewRegistry
	logger *slog.Logger
}

// NewService constructs a new [Service].
func NewService(store store.Store, views ViewRegistry, logger *slog.Logger) *Service {
	return &Service{store: store, views: views, logger: logger}
}

// # Video Lookups

/*
List returns a page of the public feed.

Description: Only published videos are listed. The optional query matches
title or description as a case-insensitive substring; the sort field is
whitelisted and ties are broken by id in the same direction.

Parameters:
  - context: context.Context
  - filter: Filter (Search, author and sort criteria)
  - page: pagination.Params

Returns:
  - *readmodel.Page[Card]: Items plus pagination metadata
  - error: Validation or storage errors
*/
func (service *Service) List(context context.Context, filter Filter, page pagination.Params) (*readmodel.Page[Card], error) {
	if err := validate.Page(page, pagination.General); err != nil {
		return nil, err
	}

	order, ok := readmodel.Sorted(readmodel.Videos, filter.SortBy, filter.SortType)
	if !ok {
		return nil, apperr.ValidationError(MsgInvalidSort)
	}

	match := []readmodel.Condition{readmodel.Eq(readmodel.FieldIsPublished, true)}

	if query := textnorm.Clean(filter.Query); query != "" {
		validator := &validate.Validator{}
		if err := validator.MaxLen(FieldQuery, query, constants.MaxSearchQueryLength).Err(); err != nil {
			return nil, err
		}
		match = append(match, readmodel.Search(query, readmodel.FieldTitle, readmodel.FieldDescription))
	}

	if filter.AuthorID != "" {
		authorID, err := validate.ID(FieldUserID, "user", filter.AuthorID)
		if err != nil {
			return nil, err
		}
		match = append(match, readmodel.Eq(readmodel.FieldAuthorID, authorID))
	}

	return readmodel.Run[Card](context, service.store, readmodel.Spec{
		From:    readmodel.Videos,
		Match:   match,
		Project: readmodel.VideoCardFields,
		Joins:   []readmodel.Join{readmodel.UserJoin("author", readmodel.FieldAuthorID)},
		Derived: []readmodel.Derived{readmodel.LikeCount("likes_count", model.TargetVideo)},
		Sort:    order,
		Page:    page,
	})
}

/*
Get returns the watch page of a video and counts the view.

Description: An unpublished video is reported as missing unless the actor is
its author. The view is counted once per viewer inside the registry window; a
registry failure is logged and the view is counted anyway.

Parameters:
  - context: context.Context
  - actor: *model.Actor (nil when anonymous)
  - videoID: string
  - viewer: string (Stable identity of the viewer for de-duplication)

Returns:
  - *Detail: The hydrated watch page
  - error: 400 on a malformed id, 404 when missing or hidden
*/
func (service *Service) Get(context context.Context, actor *model.Actor, videoID, viewer string) (*Detail, error) {
	video, err := service.visible(context, actor, videoID)
	if err != nil {
		return nil, err
	}

	service.countView(context, video.ID, viewer)

	detail, err := readmodel.First[Detail](context, service.store, readmodel.Spec{
		From:  readmodel.Videos,
		Match: []readmodel.Condition{readmodel.Eq(readmodel.FieldID, video.ID)},
		Joins: []readmodel.Join{{
			As:         "author",
			From:       readmodel.Users,
			LocalField: readmodel.FieldAuthorID,
			Project:    readmodel.UserSummaryFields,
			Derived: []readmodel.Derived{
				readmodel.CountOf("subscribers_count", readmodel.Subscriptions, readmodel.FieldChannelID),
			},
		}},
		Derived: append([]readmodel.Derived{
			readmodel.LikeCount("likes_count", model.TargetVideo),
			readmodel.CountOf("comments_count", readmodel.Comments, readmodel.FieldVideoID),
		}, readmodel.LikedBy("is_liked", model.TargetVideo, actor)...),
	})
	if err != nil {
		return nil, dberr.NotFoundAs(err, "Video")
	}

	return detail, nil
}

// visible loads a video the actor is allowed to see.
func (service *Service) visible(context context.Context, actor *model.Actor, videoID string) (*model.Video, error) {
	videoID, err := validate.ID(FieldVideoID, "video", videoID)
	if err != nil {
		return nil, err
	}

	video, err := service.store.FindVideo(context, videoID)
	if err != nil {
		return nil, dberr.NotFoundAs(err, "Video")
	}

	if !video.VisibleTo(actor) {
		return nil, apperr.NotFound("Video")
	}

	return video, nil
}

func (service *Service) countView(context context.Context, videoID, viewer string) {
	logger := ctxutil.GetLogger(context)

	first, err := service.views.Mark(context, videoID, viewer)
	if err != nil {
		logger.Warn("view_registry_unavailable", slog.String("video_id", videoID), slog.Any("error", err))
		first = true
	}
	if !first {
		return
	}

	if err := service.store.IncrementViews(context, videoID); err != nil {
		logger.Warn("view_increment_failed", slog.String("video_id", videoID), slog.Any("error", err))
	}
}

// # Video Management

/*
Publish creates a published video owned by the actor.

Parameters:
  - context: context.Context
  - actor: *model.Actor
  - input: PublishInput

Returns:
  - *model.Video: The stored video
  - error: 401 when anonymous, 400 on invalid input
*/
func (service *Service) Publish(context context.Context, actor *model.Actor, input PublishInput) (*model.Video, error) {
	if err := guard.RequireActor(actor); err != nil {
		return nil, err
	}

	title, err := validate.Text(FieldTitle, input.Title, constants.MaxVideoTitleLength, MsgTitleRequired)
	if err != nil {
		return nil, err
	}
	if input.VideoURL == "" {
		return nil, validate.RequiredError(FieldVideoURL, MsgMediaRequired)
	}

	description := textnorm.Clean(input.Description)

	validator := &validate.Validator{}
	validator.MaxLen(FieldDescription, description, constants.MaxVideoDescriptionLength)
	validator.Required(FieldThumbnail, input.ThumbnailURL)
	validator.Custom(FieldDuration, input.Duration < 0, "Must not be negative")
	if err := validator.Err(); err != nil {
		return nil, err
	}

	video := &model.Video{
		ID:           uuid.New(),
		AuthorID:     actor.ID,
		Title:        title,
		Description:  description,
		VideoURL:     input.VideoURL,
		ThumbnailURL: input.ThumbnailURL,
		Duration:     input.Duration,
		IsPublished:  true,
	}

	if err := service.store.CreateVideo(context, video); err != nil {
		return nil, err
	}

	service.logger.Info("video_published",
		slog.String("video_id", video.ID),
		slog.String("author_id", actor.ID),
	)

	return video, nil
}

/*
Update edits title, description or thumbnail of the actor's video.

Description: A field is replaced when it is present and non-blank after
trimming; at least one field must qualify. Ownership is checked against the
locked row.

Returns:
  - *model.Video: The updated video
  - error: 400, 401, 403 or 404
*/
func (service *Service) Update(context context.Context, actor *model.Actor, videoID string, input UpdateInput) (*model.Video, error) {
	videoID, err := validate.ID(FieldVideoID, "video", videoID)
	if err != nil {
		return nil, err
	}
	if err := guard.RequireActor(actor); err != nil {
		return nil, err
	}

	title, hasTitle := textnorm.CleanPtr(input.Title)
	description, hasDescription := textnorm.CleanPtr(input.Description)
	thumbnail, hasThumbnail := textnorm.CleanPtr(input.ThumbnailURL)

	if !hasTitle && !hasDescription && !hasThumbnail {
		return nil, apperr.ValidationError(MsgNothingToUpdate)
	}

	validator := &validate.Validator{}
	validator.MaxLen(FieldTitle, title, constants.MaxVideoTitleLength)
	validator.MaxLen(FieldDescription, description, constants.MaxVideoDescriptionLength)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	video, err := service.store.MutateVideo(context, videoID, func(current *model.Video) error {
		if err := guard.Authorize(actor, current, MsgForbiddenUpdate); err != nil {
			return err
		}
		if hasTitle {
			current.Title = title
		}
		if hasDescription {
			current.Description = description
		}
		if hasThumbnail {
			current.ThumbnailURL = thumbnail
		}
		return nil
	})
	if err != nil {
		return nil, dberr.NotFoundAs(err, "Video")
	}

	service.logger.Info("video_updated", slog.String("video_id", videoID))

	return video, nil
}

/*
Delete removes the actor's video together with its likes, comments, comment
likes and playlist entries, atomically.
*/
func (service *Service) Delete(context context.Context, actor *model.Actor, videoID string) error {
	videoID, err := validate.ID(FieldVideoID, "video", videoID)
	if err != nil {
		return err
	}
	if err := guard.RequireActor(actor); err != nil {
		return err
	}

	if err := service.store.DeleteVideo(context, videoID, guard.Owner[model.Video](actor, MsgForbiddenDelete)); err != nil {
		return dberr.NotFoundAs(err, "Video")
	}

	service.logger.Info("video_deleted", slog.String("video_id", videoID), slog.String("author_id", actor.ID))

	return nil
}

// TogglePublish flips the publication state of the actor's video.
func (service *Service) TogglePublish(context context.Context, actor *model.Actor, videoID string) (*model.Video, error) {
	videoID, err := validate.ID(FieldVideoID, "video", videoID)
	if err != nil {
		return nil, err
	}
	if err := guard.RequireActor(actor); err != nil {
		return nil, err
	}

	video, err := service.store.MutateVideo(context, videoID, func(current *model.Video) error {
		if err := guard.Authorize(actor, current, MsgForbiddenModify); err != nil {
			return err
		}
		current.IsPublished = !current.IsPublished
		return nil
	})
	if err != nil {
		return nil, dberr.NotFoundAs(err, "Video")
	}

	service.logger.Info("video_publication_toggled",
		slog.String("video_id", videoID),
		slog.Bool("is_published", video.IsPublished),
	)

	return video, nil
}
