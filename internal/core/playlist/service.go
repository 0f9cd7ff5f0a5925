// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package playlist

import (
	"context"
	"log/slog"

	"github.com/taibuivan/vidora/internal/core/guard"
	"github.com/taibuivan/vidora/internal/core/model"
	"github.com/taibuivan/vidora/internal/core/readmodel"
	"github.com/taibuivan/vidora/internal/core/store"
	"github.com/taibuivan/vidora/internal/platform/apperr"
	"github.com/taibuivan/vidora/internal/platform/constants"
	"github.com/taibuivan/vidora/internal/platform/dberr"
	"github.com/taibuivan/vidora/internal/platform/validate"
	"github.com/taibuivan/vidora/pkg/pagination"
	"github.com/taibuivan/vidora/pkg/slice"
	"github.com/taibuivan/vidora/pkg/textnorm"
	"github.com/taibuivan/vidora/pkg/uuid"
)

// # Service Layer

// Service orchestrates playlists and their membership.
type Service struct {
	store  store.Store
	logger *slog.Logger
}

// NewService constructs a new [Service].
func NewService(store store.Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

var summaryFields = []string{
	readmodel.FieldID, readmodel.FieldName, readmodel.FieldDescription,
	readmodel.FieldCreatedAt, readmodel.FieldUpdatedAt,
}

// # Playlist Lookups

// ListByUser returns a page of the user's playlists, newest first.
func (service *Service) ListByUser(context context.Context, userID string, page pagination.Params) (*readmodel.Page[Summary], error) {
	userID, err := validate.ID(FieldUserID, "user", userID)
	if err != nil {
		return nil, err
	}
	if err := validate.Page(page, pagination.General); err != nil {
		return nil, err
	}
	if _, err := service.store.FindUser(context, userID); err != nil {
		return nil, dberr.NotFoundAs(err, "User")
	}

	return readmodel.Run[Summary](context, service.store, readmodel.Spec{
		From:    readmodel.Playlists,
		Match:   []readmodel.Condition{readmodel.Eq(readmodel.FieldOwnerID, userID)},
		Project: summaryFields,
		Joins:   []readmodel.Join{readmodel.UserJoin("owner", readmodel.FieldOwnerID)},
		Derived: []readmodel.Derived{readmodel.LengthOf("total_videos", readmodel.FieldVideoIDs)},
		Sort:    readmodel.NewestFirst,
		Page:    page,
	})
}

/*
Get returns a playlist with its videos in sequence order.

Description: Videos the actor cannot see are left out of the videos array.
total_videos is the length of the stored sequence.

Returns:
  - *Detail: The hydrated playlist
  - error: 400 on a malformed id, 404 when missing
*/
func (service *Service) Get(context context.Context, actor *model.Actor, playlistID string) (*Detail, error) {
	playlistID, err := validate.ID(FieldPlaylistID, "playlist", playlistID)
	if err != nil {
		return nil, err
	}

	detail, err := readmodel.First[Detail](context, service.store, readmodel.Spec{
		From:    readmodel.Playlists,
		Match:   []readmodel.Condition{readmodel.Eq(readmodel.FieldID, playlistID)},
		Project: summaryFields,
		Joins: []readmodel.Join{
			readmodel.UserJoin("owner", readmodel.FieldOwnerID),
			{
				As:         "videos",
				From:       readmodel.Videos,
				LocalField: readmodel.FieldVideoIDs,
				Project:    readmodel.VideoCardFields,
				Match:      []readmodel.Condition{readmodel.VisibleVideos(actor)},
				Joins:      []readmodel.Join{readmodel.UserJoin("author", readmodel.FieldAuthorID)},
				Derived:    []readmodel.Derived{readmodel.LikeCount("likes_count", model.TargetVideo)},
				Many:       true,
			},
		},
		Derived: []readmodel.Derived{readmodel.LengthOf("total_videos", readmodel.FieldVideoIDs)},
	})
	if err != nil {
		return nil, dberr.NotFoundAs(err, "Playlist")
	}

	return detail, nil
}

// # Playlist Management

// Create stores an empty playlist owned by the actor.
func (service *Service) Create(context context.Context, actor *model.Actor, name, description string) (*model.Playlist, error) {
	if err := guard.RequireActor(actor); err != nil {
		return nil, err
	}

	name, err := validate.Text(FieldName, name, constants.MaxPlaylistNameLength, MsgNameRequired)
	if err != nil {
		return nil, err
	}
	description, err = validate.Text(FieldDescription, description, constants.MaxPlaylistDescLength, MsgDescriptionRequired)
	if err != nil {
		return nil, err
	}

	playlist := &model.Playlist{
		ID:          uuid.New(),
		OwnerUserID: actor.ID,
		Name:        name,
		Description: description,
		VideoIDs:    []string{},
	}
	if err := service.store.CreatePlaylist(context, playlist); err != nil {
		return nil, err
	}

	service.logger.Info("playlist_created", slog.String("playlist_id", playlist.ID), slog.String("owner_id", actor.ID))
	return playlist, nil
}

// Update edits the name and/or description of the actor's playlist.
func (service *Service) Update(context context.Context, actor *model.Actor, playlistID string, input UpdateInput) (*model.Playlist, error) {
	playlistID, err := validate.ID(FieldPlaylistID, "playlist", playlistID)
	if err != nil {
		return nil, err
	}
	if err := guard.RequireActor(actor); err != nil {
		return nil, err
	}

	name, hasName := textnorm.CleanPtr(input.Name)
	description, hasDescription := textnorm.CleanPtr(input.Description)
	if !hasName && !hasDescription {
		return nil, apperr.ValidationError(MsgNothingToUpdate)
	}
	if err := checkLengths(name, description); err != nil {
		return nil, err
	}

	playlist, err := service.store.MutatePlaylist(context, playlistID, func(current *model.Playlist) error {
		if err := guard.Authorize(actor, current, MsgForbiddenUpdate); err != nil {
			return err
		}
		if hasName {
			current.Name = name
		}
		if hasDescription {
			current.Description = description
		}
		return nil
	})
	if err != nil {
		return nil, dberr.NotFoundAs(err, "Playlist")
	}

	return playlist, nil
}

// Delete removes the actor's playlist. The videos themselves are untouched.
func (service *Service) Delete(context context.Context, actor *model.Actor, playlistID string) error {
	playlistID, err := validate.ID(FieldPlaylistID, "playlist", playlistID)
	if err != nil {
		return err
	}
	if err := guard.RequireActor(actor); err != nil {
		return err
	}

	if err := service.store.DeletePlaylist(context, playlistID, guard.Owner[model.Playlist](actor, MsgForbiddenDelete)); err != nil {
		return dberr.NotFoundAs(err, "Playlist")
	}

	service.logger.Info("playlist_deleted", slog.String("playlist_id", playlistID))
	return nil
}

// # Membership

/*
AddVideo appends a video to the actor's playlist.

Description: The video is looked up once for an early 404 and again inside the
playlist edit, where it is held against a concurrent delete until the append
commits.

Returns:
  - *model.Playlist: The updated playlist
  - error: 404 when the video or playlist is missing, 403 when not the owner,
    409 when the video is already in the playlist
*/
func (service *Service) AddVideo(context context.Context, actor *model.Actor, videoID, playlistID string) (*model.Playlist, error) {
	videoID, playlistID, err := checkMembershipInput(actor, videoID, playlistID)
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

	playlist, err := service.store.MutatePlaylistWithVideo(context, playlistID, videoID, func(current *model.Playlist, held *model.Video) error {
		if err := guard.Authorize(actor, current, MsgForbiddenAdd); err != nil {
			return err
		}
		if held == nil || !held.VisibleTo(actor) {
			return apperr.NotFound("Video")
		}
		if slice.Contains(current.VideoIDs, videoID) {
			return apperr.Conflict(MsgVideoExists)
		}
		current.VideoIDs = append(current.VideoIDs, videoID)
		return nil
	})
	if err != nil {
		return nil, dberr.NotFoundAs(err, "Playlist")
	}

	service.logger.Info("playlist_video_added", slog.String("playlist_id", playlistID), slog.String("video_id", videoID))
	return playlist, nil
}

// RemoveVideo drops a video from the actor's playlist, keeping the order of the rest.
func (service *Service) RemoveVideo(context context.Context, actor *model.Actor, videoID, playlistID string) (*model.Playlist, error) {
	videoID, playlistID, err := checkMembershipInput(actor, videoID, playlistID)
	if err != nil {
		return nil, err
	}

	playlist, err := service.store.MutatePlaylist(context, playlistID, func(current *model.Playlist) error {
		if err := guard.Authorize(actor, current, MsgForbiddenRemove); err != nil {
			return err
		}
		if !slice.Contains(current.VideoIDs, videoID) {
			return apperr.Conflict(MsgVideoAbsent)
		}
		current.VideoIDs = slice.Without(current.VideoIDs, videoID)
		return nil
	})
	if err != nil {
		return nil, dberr.NotFoundAs(err, "Playlist")
	}

	service.logger.Info("playlist_video_removed", slog.String("playlist_id", playlistID), slog.String("video_id", videoID))
	return playlist, nil
}

// checkMembershipInput validates both ids and returns them in stored form.
func checkMembershipInput(actor *model.Actor, videoID, playlistID string) (string, string, error) {
	videoID, err := validate.ID(FieldVideoID, "video", videoID)
	if err != nil {
		return "", "", err
	}
	playlistID, err = validate.ID(FieldPlaylistID, "playlist", playlistID)
	if err != nil {
		return "", "", err
	}
	return videoID, playlistID, guard.RequireActor(actor)
}

func checkLengths(name, description string) error {
	validator := &validate.Validator{}
	validator.MaxLen(FieldName, name, constants.MaxPlaylistNameLength)
	validator.MaxLen(FieldDescription, description, constants.MaxPlaylistDescLength)
	return validator.Err()
}
