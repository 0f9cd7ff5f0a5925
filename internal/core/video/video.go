// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package video manages uploaded videos: the public feed, the watch page,
publishing and owner-scoped edits.

# Visibility

A published video is public. An unpublished one exists only for its author:
every other caller, anonymous or not, gets "Video not found".

# View Counting

The watch page counts a view at most once per viewer per window. The window
is kept by a [ViewRegistry] (Redis in production); the count itself lives on
the video row.
*/
package video

import (
	"time"

	"github.com/taibuivan/vidora/internal/core/model"
)

// # Messages

const (
	MsgForbiddenUpdate = "You can only update your own videos"
	MsgForbiddenDelete = "You can only delete your own videos"
	MsgForbiddenModify = "You can only modify your own videos"
	MsgTitleRequired   = "Title is required"
	MsgMediaRequired   = "Video file is required"
	MsgInvalidSort     = "Invalid sort parameters"
	MsgNothingToUpdate = "At least one field (title, description or thumbnail) is required"
)

// # Domain Fields

const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldVideoURL    = "video_url"
	FieldThumbnail   = "thumbnail"
	FieldDuration    = "duration"
	FieldQuery       = "query"
	FieldUserID      = "user_id"
	FieldVideoID     = "video_id"
)

// # Read Models

// Card is a video as shown in the feed.
type Card struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	VideoURL    string             `json:"video_url"`
	Thumbnail   string             `json:"thumbnail"`
	Duration    float64            `json:"duration"`
	Views       int64              `json:"views"`
	IsPublished bool               `json:"is_published"`
	CreatedAt   time.Time          `json:"created_at"`
	Author      *model.UserSummary `json:"author"`
	LikesCount  int                `json:"likes_count"`
}

// Channel is the author block of the watch page.
type Channel struct {
	model.UserSummary
	SubscribersCount int `json:"subscribers_count"`
}

// Detail is the watch page of one video.
type Detail struct {
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
	Author        *Channel  `json:"author"`
	LikesCount    int       `json:"likes_count"`
	CommentsCount int       `json:"comments_count"`
	IsLiked       bool      `json:"is_liked"`
}

// # Inputs

// Filter narrows the public feed.
type Filter struct {
	Query    string
	AuthorID string
	SortBy   string
	SortType string
}

// PublishInput describes a new video. Media has already been uploaded; only
// its public URLs and duration reach this package.
type PublishInput struct {
	Title        string
	Description  string
	VideoURL     string
	ThumbnailURL string
	Duration     float64
}

// UpdateInput holds the editable fields. A nil or blank field is left as is.
type UpdateInput struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	ThumbnailURL *string `json:"thumbnail"`
}
