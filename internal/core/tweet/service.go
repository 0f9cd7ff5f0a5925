// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package tweet manages short text posts on a channel.
package tweet

import (
	"context"
	"log/slog"
	"time"

	"github.com/taibuivan/vidora/internal/core/guard"
	"github.com/taibuivan/vidora/internal/core/model"
	"github.com/taibuivan/vidora/internal/core/readmodel"
	"github.com/taibuivan/vidora/internal/core/store"
	"github.com/taibuivan/vidora/internal/platform/constants"
	"github.com/taibuivan/vidora/internal/platform/dberr"
	"github.com/taibuivan/vidora/internal/platform/validate"
	"github.com/taibuivan/vidora/pkg/pagination"
	"github.com/taibuivan/vidora/pkg/uuid"
)

const (
	MsgContentRequired = "Content is required"
	MsgForbiddenUpdate = "You can only update your own tweets"
	MsgForbiddenDelete = "You can only delete your own tweets"
)

const (
	FieldContent = "content"
	FieldTweetID = "tweet_id"
	FieldUserID  = "user_id"
)

// Item is a tweet as shown on a channel.
type Item struct {
	ID         string    `json:"id"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	LikesCount int       `json:"likes_count"`
	IsLiked    bool      `json:"is_liked"`
}

// Timeline is a channel profile with one page of its tweets.
type Timeline struct {
	User   model.UserSummary     `json:"user"`
	Tweets *readmodel.Page[Item] `json:"tweets"`
}

// Service handles tweets.
type Service struct {
	store  store.Store
	logger *slog.Logger
}

// NewService constructs a new [Service].
func NewService(store store.Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Create posts a tweet for the actor.
func (service *Service) Create(context context.Context, actor *model.Actor, content string) (*model.Tweet, error) {
	if err := guard.RequireActor(actor); err != nil {
		return nil, err
	}

	content, err := validate.Text(FieldContent, content, constants.MaxTweetLength, MsgContentRequired)
	if err != nil {
		return nil, err
	}

	tweet := &model.Tweet{ID: uuid.New(), AuthorID: actor.ID, Content: content}
	if err := service.store.CreateTweet(context, tweet); err != nil {
		return nil, err
	}

	service.logger.Info("tweet_created", slog.String("tweet_id", tweet.ID), slog.String("author_id", actor.ID))
	return tweet, nil
}

/*
ListByUser returns the user's profile and a page of their tweets, newest
first. Each tweet carries its like count and whether the actor likes it.

Returns:
  - *Timeline: Profile plus page
  - error: 400 on a malformed id, 404 when the user is missing
*/
func (service *Service) ListByUser(context context.Context, actor *model.Actor, userID string, page pagination.Params) (*Timeline, error) {
	userID, err := validate.ID(FieldUserID, "user", userID)
	if err != nil {
		return nil, err
	}
	if err := validate.Page(page, pagination.General); err != nil {
		return nil, err
	}

	user, err := service.store.FindUser(context, userID)
	if err != nil {
		return nil, dberr.NotFoundAs(err, "User")
	}

	tweets, err := readmodel.Run[Item](context, service.store, readmodel.Spec{
		From:    readmodel.Tweets,
		Match:   []readmodel.Condition{readmodel.Eq(readmodel.FieldAuthorID, userID)},
		Project: []string{readmodel.FieldID, readmodel.FieldContent, readmodel.FieldCreatedAt, readmodel.FieldUpdatedAt},
		Derived: append(
			[]readmodel.Derived{readmodel.LikeCount("likes_count", model.TargetTweet)},
			readmodel.LikedBy("is_liked", model.TargetTweet, actor)...,
		),
		Sort: readmodel.NewestFirst,
		Page: page,
	})
	if err != nil {
		return nil, err
	}

	return &Timeline{
		User:   model.UserSummary{ID: user.ID, Username: user.Username, FullName: user.FullName, Avatar: user.Avatar},
		Tweets: tweets,
	}, nil
}

// Update replaces the content of the actor's tweet.
func (service *Service) Update(context context.Context, actor *model.Actor, tweetID, content string) (*model.Tweet, error) {
	tweetID, err := validate.ID(FieldTweetID, "tweet", tweetID)
	if err != nil {
		return nil, err
	}
	if err := guard.RequireActor(actor); err != nil {
		return nil, err
	}

	content, err = validate.Text(FieldContent, content, constants.MaxTweetLength, MsgContentRequired)
	if err != nil {
		return nil, err
	}

	tweet, err := service.store.MutateTweet(context, tweetID, func(current *model.Tweet) error {
		if err := guard.Authorize(actor, current, MsgForbiddenUpdate); err != nil {
			return err
		}
		current.Content = content
		return nil
	})
	if err != nil {
		return nil, dberr.NotFoundAs(err, "Tweet")
	}

	return tweet, nil
}

// Delete removes the actor's tweet and its likes, returning the deleted tweet.
func (service *Service) Delete(context context.Context, actor *model.Actor, tweetID string) (*model.Tweet, error) {
	tweetID, err := validate.ID(FieldTweetID, "tweet", tweetID)
	if err != nil {
		return nil, err
	}
	if err := guard.RequireActor(actor); err != nil {
		return nil, err
	}

	tweet, err := service.store.DeleteTweet(context, tweetID, guard.Owner[model.Tweet](actor, MsgForbiddenDelete))
	if err != nil {
		return nil, dberr.NotFoundAs(err, "Tweet")
	}

	service.logger.Info("tweet_deleted", slog.String("tweet_id", tweetID))
	return tweet, nil
}
