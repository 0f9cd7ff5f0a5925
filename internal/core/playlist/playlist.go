// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package playlist manages user playlists: ordered, duplicate-free sequences of
video ids.

Membership edits run inside the store's atomic section against the current
sequence, so two concurrent adds of the same video can never both succeed.
Reading a playlist never exposes another author's unpublished videos, but the
sequence keeps their ids and total_videos counts them.
*/
package playlist

import (
	"time"

	"github.com/taibuivan/vidora/internal/core/model"
	"github.com/taibuivan/vidora/internal/core/video"
)

// # Messages

const (
	MsgNameRequired        = "Playlist name is required"
	MsgDescriptionRequired = "Playlist description is required"
	MsgNothingToUpdate     = "At least one field (name or description) is required"
	MsgVideoExists         = "Video already exists in playlist"
	MsgVideoAbsent         = "Video not found in playlist"
	MsgForbiddenAdd        = "You can only add videos to your own playlists"
	MsgForbiddenRemove     = "You can only remove videos from your own playlists"
	MsgForbiddenUpdate     = "You can only update your own playlists"
	MsgForbiddenDelete     = "You can only delete your own playlists"
)

const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldPlaylistID  = "playlist_id"
	FieldVideoID     = "video_id"
	FieldUserID      = "user_id"
)

// # Read Models

// Summary is a playlist as listed on a channel.
type Summary struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
	Owner       *model.UserSummary `json:"owner"`
	TotalVideos int                `json:"total_videos"`
}

// Detail is a playlist with its videos in sequence order.
type Detail struct {
	Summary
	Videos []video.Card `json:"videos"`
}

// # Inputs

// UpdateInput holds the editable fields. A nil or blank field is left as is.
type UpdateInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}
