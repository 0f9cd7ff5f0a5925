// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package store defines the relation store contract shared by every domain service.

The store persists owned content (videos, comments, tweets, playlists) and
relation rows (likes, subscriptions). It holds no business rules: ownership,
visibility and toggling semantics live in the services, which hand the store
a callback when a check has to run against the locked, current row.

# Implementations

  - postgres: pgx-backed, row locks and transactions.
  - memory: a mutex-guarded in-process store for tests and local runs.

Both report missing rows as [dberr.ErrNotFound] and uniqueness violations as
[dberr.ErrDuplicate].
*/
package store

import (
	"context"

	"github.com/taibuivan/vidora/internal/core/model"
	"github.com/taibuivan/vidora/internal/core/readmodel"
)

// Check runs inside the store's atomic section against the current row.
// Returning an error aborts the operation with no side effects.
type Check[T any] func(current *T) error

// Mutate edits the current row in place inside the store's atomic section.
// Returning an error aborts the operation with no side effects.
type Mutate[T any] func(current *T) error

// PlaylistVideoMutate edits a playlist while the named video is held in place.
type PlaylistVideoMutate func(current *model.Playlist, video *model.Video) error

// # Users

// UserStore reads accounts managed by the identity service.
type UserStore interface {
	/*
		FindUser retrieves an account by id.

		Returns:
		  - error: dberr.ErrNotFound if missing
	*/
	FindUser(context context.Context, id string) (*model.User, error)
}

// # Videos

// VideoStore persists videos.
type VideoStore interface {
	FindVideo(context context.Context, id string) (*model.Video, error)
	CreateVideo(context context.Context, video *model.Video) error

	/*
		MutateVideo locks the video, runs mutate on the current state and persists
		the result atomically.

		Returns:
		  - *model.Video: The persisted state
		  - error: dberr.ErrNotFound, or whatever mutate returned
	*/
	MutateVideo(context context.Context, id string, mutate Mutate[model.Video]) (*model.Video, error)

	/*
		DeleteVideo locks the video, runs check, then removes the video together
		with its likes, its comments and their likes, and its playlist entries.
	*/
	DeleteVideo(context context.Context, id string, check Check[model.Video]) error

	// IncrementViews adds one view. It never decreases the count.
	IncrementViews(context context.Context, id string) error
}

// # Comments

// CommentStore persists comments.
type CommentStore interface {
	FindComment(context context.Context, id string) (*model.Comment, error)
	CreateComment(context context.Context, comment *model.Comment) error
	MutateComment(context context.Context, id string, mutate Mutate[model.Comment]) (*model.Comment, error)

	// DeleteComment removes the comment and its likes after check passes.
	DeleteComment(context context.Context, id string, check Check[model.Comment]) error
}

// # Tweets

// TweetStore persists tweets.
type TweetStore interface {
	FindTweet(context context.Context, id string) (*model.Tweet, error)
	CreateTweet(context context.Context, tweet *model.Tweet) error
	MutateTweet(context context.Context, id string, mutate Mutate[model.Tweet]) (*model.Tweet, error)

	// DeleteTweet removes the tweet and its likes after check passes.
	// It returns the deleted state.
	DeleteTweet(context context.Context, id string, check Check[model.Tweet]) (*model.Tweet, error)
}

// # Playlists

// PlaylistStore persists playlists and their ordered membership.
type PlaylistStore interface {
	FindPlaylist(context context.Context, id string) (*model.Playlist, error)
	CreatePlaylist(context context.Context, playlist *model.Playlist) error

	// MutatePlaylist edits name, description or the video sequence atomically.
	MutatePlaylist(context context.Context, id string, mutate Mutate[model.Playlist]) (*model.Playlist, error)

	/*
		MutatePlaylistWithVideo is MutatePlaylist with the video held against
		deletion until the edit commits. The video is locked before the playlist,
		the same order DeleteVideo takes them in.

		Parameters:
		  - mutate: Receives the locked playlist and the video, or nil when the
		    video does not exist

		Returns:
		  - error: dberr.ErrNotFound when the playlist is missing, or whatever mutate returned
	*/
	MutatePlaylistWithVideo(context context.Context, id, videoID string, mutate PlaylistVideoMutate) (*model.Playlist, error)

	DeletePlaylist(context context.Context, id string, check Check[model.Playlist]) error
}

// # Relations

// RelationStore inserts and deletes relation rows keyed by (actor, kind, target).
type RelationStore interface {
	/*
		InsertRelation creates the row.

		Returns:
		  - error: dberr.ErrDuplicate if the unique key already exists
	*/
	InsertRelation(context context.Context, relation model.Relation) error

	// DeleteRelation removes the row and reports whether one existed.
	DeleteRelation(context context.Context, relation model.Relation) (bool, error)

	// CountRelations returns the number of rows pointing at the relation's target.
	CountRelations(context context.Context, kind model.RelationKind, targetID string) (int, error)

	// RelationExists reports whether the exact row exists.
	RelationExists(context context.Context, relation model.Relation) (bool, error)
}

// # Aggregates

// StatsStore computes channel-level aggregates at read time.
type StatsStore interface {
	CountVideosByAuthor(context context.Context, authorID string) (int, error)
	SumViewsByAuthor(context context.Context, authorID string) (int64, error)
	CountLikesOnAuthorVideos(context context.Context, authorID string) (int, error)
	CountSubscribers(context context.Context, channelID string) (int, error)
	CountSubscriptions(context context.Context, subscriberID string) (int, error)
}

// Store is the full relation store.
type Store interface {
	UserStore
	VideoStore
	CommentStore
	TweetStore
	PlaylistStore
	RelationStore
	StatsStore
	readmodel.Executor
}
