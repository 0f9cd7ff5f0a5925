// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package model defines the entities shared by every Vidora domain package.

# Core Entities

  - Owned content: [Video], [Comment], [Tweet], [Playlist]. Each reports its
    owner through [Owned] so the ownership guard can treat them uniformly.
  - Relation rows: [Like] and [Subscription]. They carry no state beyond the
    participants and a creation time, and are only created or destroyed by the
    toggle engine.
  - [User] is read-only here; accounts are managed by the identity service.
*/
package model

import "time"

// # Identity

// Actor is the authenticated principal performing an operation.
// A nil *Actor means the request is anonymous.
type Actor struct {
	ID       string
	Username string
}

// IsAuthor reports whether the actor is the given user. Safe on a nil actor.
func (actor *Actor) IsAuthor(userID string) bool {
	return actor != nil && actor.ID == userID
}

// Owned is implemented by every resource whose mutations are owner-scoped.
type Owned interface {
	OwnerID() string
}

// # Users

// User is a channel/account as seen by this service.
type User struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	FullName   string    `json:"full_name"`
	Avatar     string    `json:"avatar"`
	CoverImage *string   `json:"cover_image,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// UserSummary is the narrow author/owner projection embedded in read models.
type UserSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Avatar   string `json:"avatar"`
}

// # Owned Content

// Video is an uploaded media item.
type Video struct {
	ID           string    `json:"id"`
	AuthorID     string    `json:"author_id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	VideoURL     string    `json:"video_url"`
	ThumbnailURL string    `json:"thumbnail"`
	Duration     float64   `json:"duration"`
	Views        int64     `json:"views"`
	IsPublished  bool      `json:"is_published"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// OwnerID implements [Owned].
func (video *Video) OwnerID() string { return video.AuthorID }

// VisibleTo reports whether the actor may see the video: published videos are
// public, unpublished ones are visible to their author only.
func (video *Video) VisibleTo(actor *Actor) bool {
	return video.IsPublished || actor.IsAuthor(video.AuthorID)
}

// Comment is a text reply attached to a video.
type Comment struct {
	ID          string    `json:"id"`
	VideoID     string    `json:"video_id"`
	OwnerUserID string    `json:"owner_id"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// OwnerID implements [Owned].
func (comment *Comment) OwnerID() string { return comment.OwnerUserID }

// Tweet is a short text post on a channel.
type Tweet struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OwnerID implements [Owned].
func (tweet *Tweet) OwnerID() string { return tweet.AuthorID }

// Playlist is an ordered, duplicate-free sequence of video ids.
type Playlist struct {
	ID          string    `json:"id"`
	OwnerUserID string    `json:"owner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	VideoIDs    []string  `json:"video_ids"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// OwnerID implements [Owned].
func (playlist *Playlist) OwnerID() string { return playlist.OwnerUserID }
