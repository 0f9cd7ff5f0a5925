// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package pgstore is the PostgreSQL implementation of the relation store.

  - Mutations that depend on the current row lock it with SELECT ... FOR UPDATE
    inside a transaction, run the caller's check, then write.
  - Relation rows rely on unique constraints plus ON CONFLICT DO NOTHING, so a
    duplicate insert is reported as [dberr.ErrDuplicate] instead of failing.
  - Cascading deletes run in one transaction.
  - Read models are compiled to a single json_build_object query per page.
*/
package pgstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/taibuivan/vidora/internal/core/model"
	"github.com/taibuivan/vidora/internal/core/readmodel"
	"github.com/taibuivan/vidora/internal/core/store"
	"github.com/taibuivan/vidora/internal/platform/database/schema"
	"github.com/taibuivan/vidora/internal/platform/dberr"
	"github.com/taibuivan/vidora/internal/platform/postgres"
	"github.com/taibuivan/vidora/pkg/uuid"
)

var _ store.Store = (*Store)(nil)

// Store implements [store.Store] on a pgx pool.
type Store struct {
	pool *pgxpool.Pool
}

// New constructs a PostgreSQL backed store.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// row is satisfied by pgx.Row and pgx.Rows.
type row interface {
	Scan(dest ...any) error
}

// # Users

func (store *Store) FindUser(context context.Context, id string) (*model.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		strings.Join(schema.UserAccount.Columns(), ", "), schema.UserAccount.Table, schema.UserAccount.ID)

	user := &model.User{}
	err := store.pool.QueryRow(context, query, id).Scan(
		&user.ID, &user.Username, &user.FullName, &user.Avatar, &user.CoverImage, &user.CreatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "find user")
	}

	return user, nil
}

// # Videos

var videoColumns = strings.Join(schema.MediaVideo.Columns(), ", ")

func scanVideo(source row) (*model.Video, error) {
	video := &model.Video{}
	err := source.Scan(
		&video.ID, &video.AuthorID, &video.Title, &video.Description, &video.VideoURL, &video.ThumbnailURL,
		&video.Duration, &video.Views, &video.IsPublished, &video.CreatedAt, &video.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return video, nil
}

func (store *Store) FindVideo(context context.Context, id string) (*model.Video, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, videoColumns, schema.MediaVideo.Table, schema.MediaVideo.ID)

	video, err := scanVideo(store.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "find video")
	}
	return video, nil
}

func (store *Store) CreateVideo(context context.Context, video *model.Video) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING %s, %s, %s`,
		schema.MediaVideo.Table,
		schema.MediaVideo.ID, schema.MediaVideo.AuthorID, schema.MediaVideo.Title, schema.MediaVideo.Description,
		schema.MediaVideo.VideoURL, schema.MediaVideo.ThumbnailURL, schema.MediaVideo.Duration, schema.MediaVideo.IsPublished,
		schema.MediaVideo.Views, schema.MediaVideo.CreatedAt, schema.MediaVideo.UpdatedAt,
	)

	err := store.pool.QueryRow(context, query,
		video.ID, video.AuthorID, video.Title, video.Description,
		video.VideoURL, video.ThumbnailURL, video.Duration, video.IsPublished,
	).Scan(&video.Views, &video.CreatedAt, &video.UpdatedAt)

	return dberr.Wrap(err, "create video")
}

func (store *Store) MutateVideo(context context.Context, id string, mutate store.Mutate[model.Video]) (*model.Video, error) {
	var result *model.Video

	err := postgres.WithTx(context, store.pool, func(tx pgx.Tx) error {
		lock := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 FOR UPDATE`, videoColumns, schema.MediaVideo.Table, schema.MediaVideo.ID)
		video, err := scanVideo(tx.QueryRow(context, lock, id))
		if err != nil {
			return dberr.Wrap(err, "lock video")
		}

		if err := mutate(video); err != nil {
			return err
		}

		update := fmt.Sprintf(`
			UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = NOW()
			WHERE %s = $1
			RETURNING %s`,
			schema.MediaVideo.Table,
			schema.MediaVideo.Title, schema.MediaVideo.Description, schema.MediaVideo.VideoURL,
			schema.MediaVideo.ThumbnailURL, schema.MediaVideo.Duration, schema.MediaVideo.IsPublished,
			schema.MediaVideo.UpdatedAt, schema.MediaVideo.ID, schema.MediaVideo.UpdatedAt,
		)
		err = tx.QueryRow(context, update,
			id, video.Title, video.Description, video.VideoURL, video.ThumbnailURL, video.Duration, video.IsPublished,
		).Scan(&video.UpdatedAt)
		if err != nil {
			return dberr.Wrap(err, "update video")
		}

		result = video
		return nil
	})

	return result, err
}

/*
DeleteVideo removes a video and everything that points at it.

Order inside the transaction: lock the video's comments, delete likes on
them, the comments, likes on the video, playlist entries, the video row.
*/
func (store *Store) DeleteVideo(context context.Context, id string, check store.Check[model.Video]) error {
	return postgres.WithTx(context, store.pool, func(tx pgx.Tx) error {
		lock := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 FOR UPDATE`, videoColumns, schema.MediaVideo.Table, schema.MediaVideo.ID)
		video, err := scanVideo(tx.QueryRow(context, lock, id))
		if err != nil {
			return dberr.Wrap(err, "lock video")
		}

		if err := check(video); err != nil {
			return err
		}

		statements := []string{
			fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 FOR UPDATE`,
				schema.SocialComment.ID, schema.SocialComment.Table, schema.SocialComment.VideoID),
			fmt.Sprintf(`DELETE FROM %s WHERE %s = 'comment' AND %s IN (SELECT %s FROM %s WHERE %s = $1)`,
				schema.SocialLike.Table, schema.SocialLike.TargetKind, schema.SocialLike.TargetID,
				schema.SocialComment.ID, schema.SocialComment.Table, schema.SocialComment.VideoID),
			fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.SocialComment.Table, schema.SocialComment.VideoID),
			fmt.Sprintf(`DELETE FROM %s WHERE %s = 'video' AND %s = $1`,
				schema.SocialLike.Table, schema.SocialLike.TargetKind, schema.SocialLike.TargetID),
			fmt.Sprintf(`UPDATE %s SET %s = array_remove(%s, $1::uuid), %s = NOW() WHERE $1::uuid = ANY(%s)`,
				schema.MediaPlaylist.Table, schema.MediaPlaylist.VideoIDs, schema.MediaPlaylist.VideoIDs,
				schema.MediaPlaylist.UpdatedAt, schema.MediaPlaylist.VideoIDs),
			fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.MediaVideo.Table, schema.MediaVideo.ID),
		}

		for _, statement := range statements {
			if _, err := tx.Exec(context, statement, id); err != nil {
				return dberr.Wrap(err, "delete video")
			}
		}

		return nil
	})
}

func (store *Store) IncrementViews(context context.Context, id string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = %s + 1 WHERE %s = $1`,
		schema.MediaVideo.Table, schema.MediaVideo.Views, schema.MediaVideo.Views, schema.MediaVideo.ID)

	result, err := store.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "increment views")
	}
	if result.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

// # Comments

var commentColumns = strings.Join(schema.SocialComment.Columns(), ", ")

func scanComment(source row) (*model.Comment, error) {
	comment := &model.Comment{}
	err := source.Scan(&comment.ID, &comment.VideoID, &comment.OwnerUserID, &comment.Content, &comment.CreatedAt, &comment.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return comment, nil
}

func (store *Store) FindComment(context context.Context, id string) (*model.Comment, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, commentColumns, schema.SocialComment.Table, schema.SocialComment.ID)

	comment, err := scanComment(store.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "find comment")
	}
	return comment, nil
}

func (store *Store) CreateComment(context context.Context, comment *model.Comment) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s) VALUES ($1, $2, $3, $4)
		RETURNING %s, %s`,
		schema.SocialComment.Table,
		schema.SocialComment.ID, schema.SocialComment.VideoID, schema.SocialComment.OwnerID, schema.SocialComment.Content,
		schema.SocialComment.CreatedAt, schema.SocialComment.UpdatedAt,
	)

	err := store.pool.QueryRow(context, query, comment.ID, comment.VideoID, comment.OwnerUserID, comment.Content).
		Scan(&comment.CreatedAt, &comment.UpdatedAt)

	return dberr.Wrap(err, "create comment")
}

func (store *Store) MutateComment(context context.Context, id string, mutate store.Mutate[model.Comment]) (*model.Comment, error) {
	var result *model.Comment

	err := postgres.WithTx(context, store.pool, func(tx pgx.Tx) error {
		lock := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 FOR UPDATE`, commentColumns, schema.SocialComment.Table, schema.SocialComment.ID)
		comment, err := scanComment(tx.QueryRow(context, lock, id))
		if err != nil {
			return dberr.Wrap(err, "lock comment")
		}

		if err := mutate(comment); err != nil {
			return err
		}

		update := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = NOW() WHERE %s = $1 RETURNING %s`,
			schema.SocialComment.Table, schema.SocialComment.Content, schema.SocialComment.UpdatedAt,
			schema.SocialComment.ID, schema.SocialComment.UpdatedAt)
		if err := tx.QueryRow(context, update, id, comment.Content).Scan(&comment.UpdatedAt); err != nil {
			return dberr.Wrap(err, "update comment")
		}

		result = comment
		return nil
	})

	return result, err
}

func (store *Store) DeleteComment(context context.Context, id string, check store.Check[model.Comment]) error {
	return postgres.WithTx(context, store.pool, func(tx pgx.Tx) error {
		lock := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 FOR UPDATE`, commentColumns, schema.SocialComment.Table, schema.SocialComment.ID)
		comment, err := scanComment(tx.QueryRow(context, lock, id))
		if err != nil {
			return dberr.Wrap(err, "lock comment")
		}

		if err := check(comment); err != nil {
			return err
		}

		if err := deleteLikesOf(context, tx, model.TargetComment, id); err != nil {
			return err
		}

		query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.SocialComment.Table, schema.SocialComment.ID)
		_, err = tx.Exec(context, query, id)
		return dberr.Wrap(err, "delete comment")
	})
}

// # Tweets

var tweetColumns = strings.Join(schema.SocialTweet.Columns(), ", ")

func scanTweet(source row) (*model.Tweet, error) {
	tweet := &model.Tweet{}
	err := source.Scan(&tweet.ID, &tweet.AuthorID, &tweet.Content, &tweet.CreatedAt, &tweet.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return tweet, nil
}

func (store *Store) FindTweet(context context.Context, id string) (*model.Tweet, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, tweetColumns, schema.SocialTweet.Table, schema.SocialTweet.ID)

	tweet, err := scanTweet(store.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "find tweet")
	}
	return tweet, nil
}

func (store *Store) CreateTweet(context context.Context, tweet *model.Tweet) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, $3) RETURNING %s, %s`,
		schema.SocialTweet.Table,
		schema.SocialTweet.ID, schema.SocialTweet.AuthorID, schema.SocialTweet.Content,
		schema.SocialTweet.CreatedAt, schema.SocialTweet.UpdatedAt,
	)

	err := store.pool.QueryRow(context, query, tweet.ID, tweet.AuthorID, tweet.Content).
		Scan(&tweet.CreatedAt, &tweet.UpdatedAt)

	return dberr.Wrap(err, "create tweet")
}

func (store *Store) MutateTweet(context context.Context, id string, mutate store.Mutate[model.Tweet]) (*model.Tweet, error) {
	var result *model.Tweet

	err := postgres.WithTx(context, store.pool, func(tx pgx.Tx) error {
		lock := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 FOR UPDATE`, tweetColumns, schema.SocialTweet.Table, schema.SocialTweet.ID)
		tweet, err := scanTweet(tx.QueryRow(context, lock, id))
		if err != nil {
			return dberr.Wrap(err, "lock tweet")
		}

		if err := mutate(tweet); err != nil {
			return err
		}

		update := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = NOW() WHERE %s = $1 RETURNING %s`,
			schema.SocialTweet.Table, schema.SocialTweet.Content, schema.SocialTweet.UpdatedAt,
			schema.SocialTweet.ID, schema.SocialTweet.UpdatedAt)
		if err := tx.QueryRow(context, update, id, tweet.Content).Scan(&tweet.UpdatedAt); err != nil {
			return dberr.Wrap(err, "update tweet")
		}

		result = tweet
		return nil
	})

	return result, err
}

func (store *Store) DeleteTweet(context context.Context, id string, check store.Check[model.Tweet]) (*model.Tweet, error) {
	var deleted *model.Tweet

	err := postgres.WithTx(context, store.pool, func(tx pgx.Tx) error {
		lock := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 FOR UPDATE`, tweetColumns, schema.SocialTweet.Table, schema.SocialTweet.ID)
		tweet, err := scanTweet(tx.QueryRow(context, lock, id))
		if err != nil {
			return dberr.Wrap(err, "lock tweet")
		}

		if err := check(tweet); err != nil {
			return err
		}

		if err := deleteLikesOf(context, tx, model.TargetTweet, id); err != nil {
			return err
		}

		query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.SocialTweet.Table, schema.SocialTweet.ID)
		if _, err := tx.Exec(context, query, id); err != nil {
			return dberr.Wrap(err, "delete tweet")
		}

		deleted = tweet
		return nil
	})

	return deleted, err
}

// # Playlists

var playlistColumns = strings.Join(schema.MediaPlaylist.Columns(), ", ")

func scanPlaylist(source row) (*model.Playlist, error) {
	playlist := &model.Playlist{}
	err := source.Scan(
		&playlist.ID, &playlist.OwnerUserID, &playlist.Name, &playlist.Description,
		&playlist.VideoIDs, &playlist.CreatedAt, &playlist.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if playlist.VideoIDs == nil {
		playlist.VideoIDs = []string{}
	}
	return playlist, nil
}

func (store *Store) FindPlaylist(context context.Context, id string) (*model.Playlist, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, playlistColumns, schema.MediaPlaylist.Table, schema.MediaPlaylist.ID)

	playlist, err := scanPlaylist(store.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "find playlist")
	}
	return playlist, nil
}

func (store *Store) CreatePlaylist(context context.Context, playlist *model.Playlist) error {
	if playlist.VideoIDs == nil {
		playlist.VideoIDs = []string{}
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s, %s) VALUES ($1, $2, $3, $4, $5) RETURNING %s, %s`,
		schema.MediaPlaylist.Table,
		schema.MediaPlaylist.ID, schema.MediaPlaylist.OwnerID, schema.MediaPlaylist.Name,
		schema.MediaPlaylist.Description, schema.MediaPlaylist.VideoIDs,
		schema.MediaPlaylist.CreatedAt, schema.MediaPlaylist.UpdatedAt,
	)

	err := store.pool.QueryRow(context, query,
		playlist.ID, playlist.OwnerUserID, playlist.Name, playlist.Description, playlist.VideoIDs,
	).Scan(&playlist.CreatedAt, &playlist.UpdatedAt)

	return dberr.Wrap(err, "create playlist")
}

func (store *Store) MutatePlaylist(context context.Context, id string, mutate store.Mutate[model.Playlist]) (*model.Playlist, error) {
	var result *model.Playlist

	err := postgres.WithTx(context, store.pool, func(tx pgx.Tx) error {
		lock := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 FOR UPDATE`, playlistColumns, schema.MediaPlaylist.Table, schema.MediaPlaylist.ID)
		playlist, err := scanPlaylist(tx.QueryRow(context, lock, id))
		if err != nil {
			return dberr.Wrap(err, "lock playlist")
		}

		if err := mutate(playlist); err != nil {
			return err
		}

		result, err = updatePlaylist(context, tx, playlist)
		return err
	})

	return result, err
}

func (store *Store) MutatePlaylistWithVideo(context context.Context, id, videoID string, mutate store.PlaylistVideoMutate) (*model.Playlist, error) {
	var result *model.Playlist

	err := postgres.WithTx(context, store.pool, func(tx pgx.Tx) error {
		share := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 FOR SHARE`, videoColumns, schema.MediaVideo.Table, schema.MediaVideo.ID)
		video, err := scanVideo(tx.QueryRow(context, share, videoID))
		if err != nil {
			if err := dberr.Wrap(err, "share video"); !errors.Is(err, dberr.ErrNotFound) {
				return err
			}
			video = nil
		}

		lock := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 FOR UPDATE`, playlistColumns, schema.MediaPlaylist.Table, schema.MediaPlaylist.ID)
		playlist, err := scanPlaylist(tx.QueryRow(context, lock, id))
		if err != nil {
			return dberr.Wrap(err, "lock playlist")
		}

		if err := mutate(playlist, video); err != nil {
			return err
		}

		result, err = updatePlaylist(context, tx, playlist)
		return err
	})

	return result, err
}

func updatePlaylist(context context.Context, tx pgx.Tx, playlist *model.Playlist) (*model.Playlist, error) {
	update := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = NOW() WHERE %s = $1 RETURNING %s`,
		schema.MediaPlaylist.Table,
		schema.MediaPlaylist.Name, schema.MediaPlaylist.Description, schema.MediaPlaylist.VideoIDs,
		schema.MediaPlaylist.UpdatedAt, schema.MediaPlaylist.ID, schema.MediaPlaylist.UpdatedAt)
	err := tx.QueryRow(context, update, playlist.ID, playlist.Name, playlist.Description, playlist.VideoIDs).Scan(&playlist.UpdatedAt)
	if err != nil {
		return nil, dberr.Wrap(err, "update playlist")
	}
	return playlist, nil
}

func (store *Store) DeletePlaylist(context context.Context, id string, check store.Check[model.Playlist]) error {
	return postgres.WithTx(context, store.pool, func(tx pgx.Tx) error {
		lock := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 FOR UPDATE`, playlistColumns, schema.MediaPlaylist.Table, schema.MediaPlaylist.ID)
		playlist, err := scanPlaylist(tx.QueryRow(context, lock, id))
		if err != nil {
			return dberr.Wrap(err, "lock playlist")
		}

		if err := check(playlist); err != nil {
			return err
		}

		query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.MediaPlaylist.Table, schema.MediaPlaylist.ID)
		_, err = tx.Exec(context, query, id)
		return dberr.Wrap(err, "delete playlist")
	})
}

// # Relations

/*
InsertRelation holds the target row with FOR SHARE while inserting, so a target
deleted concurrently either blocks the delete until the insert commits (and its
cascade then removes the new row) or is already gone and reported as missing.
*/
func (store *Store) InsertRelation(context context.Context, relation model.Relation) error {
	var (
		query string
		args  []any
	)

	if target, ok := relation.LikeTarget(); ok {
		query = fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s) VALUES ($1, $2, $3, $4) ON CONFLICT (%s, %s, %s) DO NOTHING`,
			schema.SocialLike.Table,
			schema.SocialLike.ID, schema.SocialLike.LikedBy, schema.SocialLike.TargetKind, schema.SocialLike.TargetID,
			schema.SocialLike.LikedBy, schema.SocialLike.TargetKind, schema.SocialLike.TargetID)
		args = []any{uuid.New(), relation.ActorID, string(target.Kind()), target.ID()}
	} else {
		query = fmt.Sprintf(`INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, $3) ON CONFLICT (%s, %s) DO NOTHING`,
			schema.SocialSubscription.Table,
			schema.SocialSubscription.ID, schema.SocialSubscription.SubscriberID, schema.SocialSubscription.ChannelID,
			schema.SocialSubscription.SubscriberID, schema.SocialSubscription.ChannelID)
		args = []any{uuid.New(), relation.ActorID, relation.TargetID}
	}

	table, idColumn := relationTarget(relation.Kind)
	share := fmt.Sprintf(`SELECT 1 FROM %s WHERE %s = $1 FOR SHARE`, table, idColumn)

	return postgres.WithTx(context, store.pool, func(tx pgx.Tx) error {
		var held int
		if err := tx.QueryRow(context, share, relation.TargetID).Scan(&held); err != nil {
			return dberr.Wrap(err, "share relation target")
		}

		result, err := tx.Exec(context, query, args...)
		if err != nil {
			return dberr.Wrap(err, "insert relation")
		}
		if result.RowsAffected() == 0 {
			return dberr.ErrDuplicate
		}
		return nil
	})
}

// relationTarget names the table and key column a relation points at.
func relationTarget(kind model.RelationKind) (table, idColumn string) {
	switch kind {
	case model.RelationVideoLike:
		return schema.MediaVideo.Table, schema.MediaVideo.ID
	case model.RelationCommentLike:
		return schema.SocialComment.Table, schema.SocialComment.ID
	case model.RelationTweetLike:
		return schema.SocialTweet.Table, schema.SocialTweet.ID
	}
	return schema.UserAccount.Table, schema.UserAccount.ID
}

func (store *Store) DeleteRelation(context context.Context, relation model.Relation) (bool, error) {
	query, args := relationKey(relation)

	result, err := store.pool.Exec(context, "DELETE FROM "+query, args...)
	if err != nil {
		return false, dberr.Wrap(err, "delete relation")
	}
	return result.RowsAffected() > 0, nil
}

func (store *Store) RelationExists(context context.Context, relation model.Relation) (bool, error) {
	query, args := relationKey(relation)

	var exists bool
	err := store.pool.QueryRow(context, "SELECT EXISTS (SELECT 1 FROM "+query+")", args...).Scan(&exists)
	if err != nil {
		return false, dberr.Wrap(err, "relation exists")
	}
	return exists, nil
}

func (store *Store) CountRelations(context context.Context, kind model.RelationKind, targetID string) (int, error) {
	var (
		query string
		args  []any
	)

	if target, ok := (model.Relation{Kind: kind, TargetID: targetID}).LikeTarget(); ok {
		query = fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1 AND %s = $2`,
			schema.SocialLike.Table, schema.SocialLike.TargetKind, schema.SocialLike.TargetID)
		args = []any{string(target.Kind()), target.ID()}
	} else {
		query = fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`,
			schema.SocialSubscription.Table, schema.SocialSubscription.ChannelID)
		args = []any{targetID}
	}

	return store.count(context, query, args...)
}

// relationKey renders "<table> WHERE <unique key>" for a relation.
func relationKey(relation model.Relation) (string, []any) {
	if target, ok := relation.LikeTarget(); ok {
		return fmt.Sprintf(`%s WHERE %s = $1 AND %s = $2 AND %s = $3`,
				schema.SocialLike.Table, schema.SocialLike.LikedBy, schema.SocialLike.TargetKind, schema.SocialLike.TargetID),
			[]any{relation.ActorID, string(target.Kind()), target.ID()}
	}

	return fmt.Sprintf(`%s WHERE %s = $1 AND %s = $2`,
			schema.SocialSubscription.Table, schema.SocialSubscription.SubscriberID, schema.SocialSubscription.ChannelID),
		[]any{relation.ActorID, relation.TargetID}
}

func deleteLikesOf(context context.Context, tx pgx.Tx, kind model.TargetKind, targetID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		schema.SocialLike.Table, schema.SocialLike.TargetKind, schema.SocialLike.TargetID)
	_, err := tx.Exec(context, query, string(kind), targetID)
	return dberr.Wrap(err, "delete likes")
}

// # Aggregates

func (store *Store) count(context context.Context, query string, args ...any) (int, error) {
	var total int
	if err := store.pool.QueryRow(context, query, args...).Scan(&total); err != nil {
		return 0, dberr.Wrap(err, "count")
	}
	return total, nil
}

func (store *Store) CountVideosByAuthor(context context.Context, authorID string) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`, schema.MediaVideo.Table, schema.MediaVideo.AuthorID)
	return store.count(context, query, authorID)
}

func (store *Store) SumViewsByAuthor(context context.Context, authorID string) (int64, error) {
	query := fmt.Sprintf(`SELECT COALESCE(SUM(%s), 0)::bigint FROM %s WHERE %s = $1`,
		schema.MediaVideo.Views, schema.MediaVideo.Table, schema.MediaVideo.AuthorID)

	var total int64
	if err := store.pool.QueryRow(context, query, authorID).Scan(&total); err != nil {
		return 0, dberr.Wrap(err, "sum views")
	}
	return total, nil
}

func (store *Store) CountLikesOnAuthorVideos(context context.Context, authorID string) (int, error) {
	query := fmt.Sprintf(`
		SELECT COUNT(*) FROM %s l
		JOIN %s v ON v.%s = l.%s
		WHERE l.%s = 'video' AND v.%s = $1`,
		schema.SocialLike.Table, schema.MediaVideo.Table,
		schema.MediaVideo.ID, schema.SocialLike.TargetID,
		schema.SocialLike.TargetKind, schema.MediaVideo.AuthorID,
	)
	return store.count(context, query, authorID)
}

func (store *Store) CountSubscribers(context context.Context, channelID string) (int, error) {
	return store.CountRelations(context, model.RelationSubscription, channelID)
}

func (store *Store) CountSubscriptions(context context.Context, subscriberID string) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`,
		schema.SocialSubscription.Table, schema.SocialSubscription.SubscriberID)
	return store.count(context, query, subscriberID)
}

// # Read Models

// Execute runs the compiled page and count queries concurrently.
func (store *Store) Execute(context context.Context, spec readmodel.Spec) (readmodel.Result, error) {
	pageQuery, countQuery, err := Compile(spec)
	if err != nil {
		return readmodel.Result{}, dberr.Wrap(err, "compile "+string(spec.From))
	}

	var (
		documents []json.RawMessage
		total     int
	)

	group, groupContext := errgroup.WithContext(context)

	group.Go(func() error {
		rows, err := store.pool.Query(groupContext, pageQuery.SQL, pageQuery.Args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var document []byte
			if err := rows.Scan(&document); err != nil {
				return err
			}
			documents = append(documents, document)
		}
		return rows.Err()
	})

	group.Go(func() error {
		return store.pool.QueryRow(groupContext, countQuery.SQL, countQuery.Args...).Scan(&total)
	})

	if err := group.Wait(); err != nil {
		return readmodel.Result{}, dberr.Wrap(err, "execute "+string(spec.From))
	}

	return readmodel.Result{Documents: documents, Total: total}, nil
}
