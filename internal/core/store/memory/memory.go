// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package memory implements the relation store in process.

A single mutex makes every store operation atomic, which gives the same
guarantees the postgres store gets from row locks and unique constraints:
relation keys are unique, checks run against current state, cascades are
all-or-nothing. It backs the service tests and can run the API without a
database.
*/
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/taibuivan/vidora/internal/core/model"
	"github.com/taibuivan/vidora/internal/core/store"
	"github.com/taibuivan/vidora/internal/platform/dberr"
	"github.com/taibuivan/vidora/pkg/slice"
	"github.com/taibuivan/vidora/pkg/uuid"
)

var _ store.Store = (*Store)(nil)

type likeKey struct {
	likedBy  string
	kind     model.TargetKind
	targetID string
}

type subscriptionKey struct {
	subscriberID string
	channelID    string
}

// Store is an in-memory [store.Store].
type Store struct {
	mutex sync.RWMutex

	users         map[string]*model.User
	videos        map[string]*model.Video
	comments      map[string]*model.Comment
	tweets        map[string]*model.Tweet
	playlists     map[string]*model.Playlist
	likes         map[likeKey]*model.Like
	subscriptions map[subscriptionKey]*model.Subscription

	lastTime time.Time
}

// New returns an empty store.
func New() *Store {
	return &Store{
		users:         make(map[string]*model.User),
		videos:        make(map[string]*model.Video),
		comments:      make(map[string]*model.Comment),
		tweets:        make(map[string]*model.Tweet),
		playlists:     make(map[string]*model.Playlist),
		likes:         make(map[likeKey]*model.Like),
		subscriptions: make(map[subscriptionKey]*model.Subscription),
	}
}

// now returns strictly increasing timestamps so creation order is total.
// Callers hold the write lock.
func (store *Store) now() time.Time {
	current := time.Now().UTC()
	if !current.After(store.lastTime) {
		current = store.lastTime.Add(time.Microsecond)
	}
	store.lastTime = current
	return current
}

// # Users

// PutUser seeds an account. Accounts are owned by the identity service, so
// this is the only way users enter the store.
func (store *Store) PutUser(user model.User) {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	if user.CreatedAt.IsZero() {
		user.CreatedAt = store.now()
	}
	store.users[user.ID] = &user
}

func (store *Store) FindUser(_ context.Context, id string) (*model.User, error) {
	store.mutex.RLock()
	defer store.mutex.RUnlock()

	user, ok := store.users[id]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

// # Videos

func (store *Store) FindVideo(_ context.Context, id string) (*model.Video, error) {
	store.mutex.RLock()
	defer store.mutex.RUnlock()

	video, ok := store.videos[id]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	copied := *video
	return &copied, nil
}

func (store *Store) CreateVideo(_ context.Context, video *model.Video) error {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	if _, exists := store.videos[video.ID]; exists {
		return dberr.ErrDuplicate
	}

	video.CreatedAt = store.now()
	video.UpdatedAt = video.CreatedAt
	copied := *video
	store.videos[video.ID] = &copied
	return nil
}

func (store *Store) MutateVideo(_ context.Context, id string, mutate store.Mutate[model.Video]) (*model.Video, error) {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	current, ok := store.videos[id]
	if !ok {
		return nil, dberr.ErrNotFound
	}

	working := *current
	if err := mutate(&working); err != nil {
		return nil, err
	}

	working.ID, working.AuthorID, working.Views = current.ID, current.AuthorID, current.Views
	working.CreatedAt = current.CreatedAt
	working.UpdatedAt = store.now()
	store.videos[id] = &working

	result := working
	return &result, nil
}

func (store *Store) DeleteVideo(_ context.Context, id string, check store.Check[model.Video]) error {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	current, ok := store.videos[id]
	if !ok {
		return dberr.ErrNotFound
	}

	snapshot := *current
	if err := check(&snapshot); err != nil {
		return err
	}

	for commentID, comment := range store.comments {
		if comment.VideoID == id {
			store.deleteLikesOf(model.TargetComment, commentID)
			delete(store.comments, commentID)
		}
	}

	store.deleteLikesOf(model.TargetVideo, id)

	for _, playlist := range store.playlists {
		playlist.VideoIDs = slice.Without(playlist.VideoIDs, id)
	}

	delete(store.videos, id)
	return nil
}

func (store *Store) IncrementViews(_ context.Context, id string) error {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	video, ok := store.videos[id]
	if !ok {
		return dberr.ErrNotFound
	}
	video.Views++
	return nil
}

// # Comments

func (store *Store) FindComment(_ context.Context, id string) (*model.Comment, error) {
	store.mutex.RLock()
	defer store.mutex.RUnlock()

	comment, ok := store.comments[id]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	copied := *comment
	return &copied, nil
}

func (store *Store) CreateComment(_ context.Context, comment *model.Comment) error {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	if _, ok := store.videos[comment.VideoID]; !ok {
		return dberr.ErrNotFound
	}

	comment.CreatedAt = store.now()
	comment.UpdatedAt = comment.CreatedAt
	copied := *comment
	store.comments[comment.ID] = &copied
	return nil
}

func (store *Store) MutateComment(_ context.Context, id string, mutate store.Mutate[model.Comment]) (*model.Comment, error) {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	current, ok := store.comments[id]
	if !ok {
		return nil, dberr.ErrNotFound
	}

	working := *current
	if err := mutate(&working); err != nil {
		return nil, err
	}

	working.ID, working.VideoID, working.OwnerUserID = current.ID, current.VideoID, current.OwnerUserID
	working.CreatedAt = current.CreatedAt
	working.UpdatedAt = store.now()
	store.comments[id] = &working

	result := working
	return &result, nil
}

func (store *Store) DeleteComment(_ context.Context, id string, check store.Check[model.Comment]) error {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	current, ok := store.comments[id]
	if !ok {
		return dberr.ErrNotFound
	}

	snapshot := *current
	if err := check(&snapshot); err != nil {
		return err
	}

	store.deleteLikesOf(model.TargetComment, id)
	delete(store.comments, id)
	return nil
}

// # Tweets

func (store *Store) FindTweet(_ context.Context, id string) (*model.Tweet, error) {
	store.mutex.RLock()
	defer store.mutex.RUnlock()

	tweet, ok := store.tweets[id]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	copied := *tweet
	return &copied, nil
}

func (store *Store) CreateTweet(_ context.Context, tweet *model.Tweet) error {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	tweet.CreatedAt = store.now()
	tweet.UpdatedAt = tweet.CreatedAt
	copied := *tweet
	store.tweets[tweet.ID] = &copied
	return nil
}

func (store *Store) MutateTweet(_ context.Context, id string, mutate store.Mutate[model.Tweet]) (*model.Tweet, error) {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	current, ok := store.tweets[id]
	if !ok {
		return nil, dberr.ErrNotFound
	}

	working := *current
	if err := mutate(&working); err != nil {
		return nil, err
	}

	working.ID, working.AuthorID = current.ID, current.AuthorID
	working.CreatedAt = current.CreatedAt
	working.UpdatedAt = store.now()
	store.tweets[id] = &working

	result := working
	return &result, nil
}

func (store *Store) DeleteTweet(_ context.Context, id string, check store.Check[model.Tweet]) (*model.Tweet, error) {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	current, ok := store.tweets[id]
	if !ok {
		return nil, dberr.ErrNotFound
	}

	snapshot := *current
	if err := check(&snapshot); err != nil {
		return nil, err
	}

	store.deleteLikesOf(model.TargetTweet, id)
	delete(store.tweets, id)
	return &snapshot, nil
}

// # Playlists

func (store *Store) FindPlaylist(_ context.Context, id string) (*model.Playlist, error) {
	store.mutex.RLock()
	defer store.mutex.RUnlock()

	playlist, ok := store.playlists[id]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	return clonePlaylist(playlist), nil
}

func (store *Store) CreatePlaylist(_ context.Context, playlist *model.Playlist) error {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	playlist.CreatedAt = store.now()
	playlist.UpdatedAt = playlist.CreatedAt
	store.playlists[playlist.ID] = clonePlaylist(playlist)
	return nil
}

func (store *Store) MutatePlaylist(_ context.Context, id string, mutate store.Mutate[model.Playlist]) (*model.Playlist, error) {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	return store.mutatePlaylist(id, mutate)
}

func (store *Store) MutatePlaylistWithVideo(_ context.Context, id, videoID string, mutate store.PlaylistVideoMutate) (*model.Playlist, error) {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	var video *model.Video
	if current, ok := store.videos[videoID]; ok {
		copied := *current
		video = &copied
	}

	return store.mutatePlaylist(id, func(current *model.Playlist) error {
		return mutate(current, video)
	})
}

// mutatePlaylist applies mutate to a copy and commits it. Callers hold the write lock.
func (store *Store) mutatePlaylist(id string, mutate store.Mutate[model.Playlist]) (*model.Playlist, error) {
	current, ok := store.playlists[id]
	if !ok {
		return nil, dberr.ErrNotFound
	}

	working := clonePlaylist(current)
	if err := mutate(working); err != nil {
		return nil, err
	}

	working.ID, working.OwnerUserID = current.ID, current.OwnerUserID
	working.CreatedAt = current.CreatedAt
	working.UpdatedAt = store.now()
	store.playlists[id] = working

	return clonePlaylist(working), nil
}

func (store *Store) DeletePlaylist(_ context.Context, id string, check store.Check[model.Playlist]) error {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	current, ok := store.playlists[id]
	if !ok {
		return dberr.ErrNotFound
	}

	if err := check(clonePlaylist(current)); err != nil {
		return err
	}

	delete(store.playlists, id)
	return nil
}

func clonePlaylist(playlist *model.Playlist) *model.Playlist {
	copied := *playlist
	copied.VideoIDs = append([]string{}, playlist.VideoIDs...)
	return &copied
}

// # Relations

func (store *Store) InsertRelation(_ context.Context, relation model.Relation) error {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	if !store.targetExists(relation) {
		return dberr.ErrNotFound
	}

	if relation.Kind == model.RelationSubscription {
		key := subscriptionKey{subscriberID: relation.ActorID, channelID: relation.TargetID}
		if _, exists := store.subscriptions[key]; exists {
			return dberr.ErrDuplicate
		}
		store.subscriptions[key] = &model.Subscription{
			ID:           uuid.New(),
			SubscriberID: relation.ActorID,
			ChannelID:    relation.TargetID,
			CreatedAt:    store.now(),
		}
		return nil
	}

	target, _ := relation.LikeTarget()
	key := likeKey{likedBy: relation.ActorID, kind: target.Kind(), targetID: target.ID()}
	if _, exists := store.likes[key]; exists {
		return dberr.ErrDuplicate
	}
	store.likes[key] = &model.Like{
		ID:        uuid.New(),
		LikedBy:   relation.ActorID,
		Target:    target,
		CreatedAt: store.now(),
	}
	return nil
}

func (store *Store) DeleteRelation(_ context.Context, relation model.Relation) (bool, error) {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	if relation.Kind == model.RelationSubscription {
		key := subscriptionKey{subscriberID: relation.ActorID, channelID: relation.TargetID}
		_, existed := store.subscriptions[key]
		delete(store.subscriptions, key)
		return existed, nil
	}

	target, _ := relation.LikeTarget()
	key := likeKey{likedBy: relation.ActorID, kind: target.Kind(), targetID: target.ID()}
	_, existed := store.likes[key]
	delete(store.likes, key)
	return existed, nil
}

func (store *Store) RelationExists(_ context.Context, relation model.Relation) (bool, error) {
	store.mutex.RLock()
	defer store.mutex.RUnlock()

	if relation.Kind == model.RelationSubscription {
		_, exists := store.subscriptions[subscriptionKey{subscriberID: relation.ActorID, channelID: relation.TargetID}]
		return exists, nil
	}

	target, _ := relation.LikeTarget()
	_, exists := store.likes[likeKey{likedBy: relation.ActorID, kind: target.Kind(), targetID: target.ID()}]
	return exists, nil
}

func (store *Store) CountRelations(_ context.Context, kind model.RelationKind, targetID string) (int, error) {
	store.mutex.RLock()
	defer store.mutex.RUnlock()

	count := 0
	if kind == model.RelationSubscription {
		for key := range store.subscriptions {
			if key.channelID == targetID {
				count++
			}
		}
		return count, nil
	}

	target, _ := model.Relation{Kind: kind, TargetID: targetID}.LikeTarget()
	for key := range store.likes {
		if key.kind == target.Kind() && key.targetID == targetID {
			count++
		}
	}
	return count, nil
}

// targetExists reports whether the row a relation points at is stored.
// Callers hold the lock.
func (store *Store) targetExists(relation model.Relation) bool {
	var found bool
	switch relation.Kind {
	case model.RelationVideoLike:
		_, found = store.videos[relation.TargetID]
	case model.RelationCommentLike:
		_, found = store.comments[relation.TargetID]
	case model.RelationTweetLike:
		_, found = store.tweets[relation.TargetID]
	case model.RelationSubscription:
		_, found = store.users[relation.TargetID]
	}
	return found
}

// deleteLikesOf removes every like pointing at the target. Callers hold the write lock.
func (store *Store) deleteLikesOf(kind model.TargetKind, targetID string) {
	for key := range store.likes {
		if key.kind == kind && key.targetID == targetID {
			delete(store.likes, key)
		}
	}
}

// # Aggregates

func (store *Store) CountVideosByAuthor(_ context.Context, authorID string) (int, error) {
	store.mutex.RLock()
	defer store.mutex.RUnlock()

	count := 0
	for _, video := range store.videos {
		if video.AuthorID == authorID {
			count++
		}
	}
	return count, nil
}

func (store *Store) SumViewsByAuthor(_ context.Context, authorID string) (int64, error) {
	store.mutex.RLock()
	defer store.mutex.RUnlock()

	var total int64
	for _, video := range store.videos {
		if video.AuthorID == authorID {
			total += video.Views
		}
	}
	return total, nil
}

func (store *Store) CountLikesOnAuthorVideos(_ context.Context, authorID string) (int, error) {
	store.mutex.RLock()
	defer store.mutex.RUnlock()

	count := 0
	for key := range store.likes {
		if key.kind != model.TargetVideo {
			continue
		}
		if video, ok := store.videos[key.targetID]; ok && video.AuthorID == authorID {
			count++
		}
	}
	return count, nil
}

func (store *Store) CountSubscribers(_ context.Context, channelID string) (int, error) {
	return store.CountRelations(context.Background(), model.RelationSubscription, channelID)
}

func (store *Store) CountSubscriptions(_ context.Context, subscriberID string) (int, error) {
	store.mutex.RLock()
	defer store.mutex.RUnlock()

	count := 0
	for key := range store.subscriptions {
		if key.subscriberID == subscriberID {
			count++
		}
	}
	return count, nil
}
