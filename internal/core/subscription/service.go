// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package subscription manages channel subscriptions.
package subscription

import (
	"context"
	"time"

	"github.com/taibuivan/vidora/internal/core/model"
	"github.com/taibuivan/vidora/internal/core/readmodel"
	"github.com/taibuivan/vidora/internal/core/store"
	"github.com/taibuivan/vidora/internal/core/toggle"
	"github.com/taibuivan/vidora/internal/platform/dberr"
	"github.com/taibuivan/vidora/internal/platform/validate"
	"github.com/taibuivan/vidora/pkg/pagination"
	"github.com/taibuivan/vidora/pkg/slice"
)

const (
	FieldChannelID    = "channel_id"
	FieldSubscriberID = "subscriber_id"
)

// Channel is a subscribed channel with its current audience size.
type Channel struct {
	model.UserSummary
	SubscribersCount int `json:"subscribers_count"`
}

// Subscriber is one entry of a channel's subscriber listing.
type Subscriber struct {
	Subscriber   *model.UserSummary `json:"subscriber"`
	SubscribedAt time.Time          `json:"subscribed_at"`
}

// SubscribedChannel is one entry of a user's subscription listing.
type SubscribedChannel struct {
	Channel      *Channel  `json:"channel"`
	SubscribedAt time.Time `json:"subscribed_at"`
}

type subscriberRow struct {
	Subscriber *model.UserSummary `json:"subscriber"`
	CreatedAt  time.Time          `json:"created_at"`
}

type channelRow struct {
	Channel   *Channel  `json:"channel"`
	CreatedAt time.Time `json:"created_at"`
}

// Service handles subscriptions.
type Service struct {
	engine *toggle.Engine
	store  store.Store
}

// NewService constructs a new [Service].
func NewService(engine *toggle.Engine, store store.Store) *Service {
	return &Service{engine: engine, store: store}
}

/*
Toggle subscribes the actor to the channel, or unsubscribes when already subscribed.

Returns:
  - bool: true when the subscription now exists
  - error: 401, 400, 404 "Channel not found", 409 on self-subscription
*/
func (service *Service) Toggle(context context.Context, actor *model.Actor, channelID string) (bool, error) {
	result, err := service.engine.Toggle(context, model.RelationSubscription, actor, channelID)
	return result.Active, err
}

// Subscribers returns a page of the channel's subscribers, newest first.
func (service *Service) Subscribers(context context.Context, channelID string, page pagination.Params) (*readmodel.Page[Subscriber], error) {
	channelID, err := service.requireUser(context, FieldChannelID, "channel", channelID, "Channel")
	if err != nil {
		return nil, err
	}
	if err := validate.Page(page, pagination.General); err != nil {
		return nil, err
	}

	rows, err := readmodel.Run[subscriberRow](context, service.store, readmodel.Spec{
		From:    readmodel.Subscriptions,
		Match:   []readmodel.Condition{readmodel.Eq(readmodel.FieldChannelID, channelID)},
		Project: []string{readmodel.FieldCreatedAt},
		Joins: []readmodel.Join{{
			As:         "subscriber",
			From:       readmodel.Users,
			LocalField: readmodel.FieldSubscriberID,
			Project:    readmodel.UserSummaryFields,
			Required:   true,
		}},
		Sort: readmodel.NewestFirst,
		Page: page,
	})
	if err != nil {
		return nil, err
	}

	return &readmodel.Page[Subscriber]{
		Items: slice.Map(rows.Items, func(row subscriberRow) Subscriber {
			return Subscriber{Subscriber: row.Subscriber, SubscribedAt: row.CreatedAt}
		}),
		Pagination: rows.Pagination,
	}, nil
}

// SubscribedChannels returns a page of the channels a user follows, newest first.
func (service *Service) SubscribedChannels(context context.Context, subscriberID string, page pagination.Params) (*readmodel.Page[SubscribedChannel], error) {
	subscriberID, err := service.requireUser(context, FieldSubscriberID, "subscriber", subscriberID, "User")
	if err != nil {
		return nil, err
	}
	if err := validate.Page(page, pagination.General); err != nil {
		return nil, err
	}

	rows, err := readmodel.Run[channelRow](context, service.store, readmodel.Spec{
		From:    readmodel.Subscriptions,
		Match:   []readmodel.Condition{readmodel.Eq(readmodel.FieldSubscriberID, subscriberID)},
		Project: []string{readmodel.FieldCreatedAt},
		Joins: []readmodel.Join{{
			As:         "channel",
			From:       readmodel.Users,
			LocalField: readmodel.FieldChannelID,
			Project:    readmodel.UserSummaryFields,
			Derived: []readmodel.Derived{
				readmodel.CountOf("subscribers_count", readmodel.Subscriptions, readmodel.FieldChannelID),
			},
			Required: true,
		}},
		Sort: readmodel.NewestFirst,
		Page: page,
	})
	if err != nil {
		return nil, err
	}

	return &readmodel.Page[SubscribedChannel]{
		Items: slice.Map(rows.Items, func(row channelRow) SubscribedChannel {
			return SubscribedChannel{Channel: row.Channel, SubscribedAt: row.CreatedAt}
		}),
		Pagination: rows.Pagination,
	}, nil
}

// requireUser returns the canonical id of an existing user.
func (service *Service) requireUser(context context.Context, field, label, id, resource string) (string, error) {
	id, err := validate.ID(field, label, id)
	if err != nil {
		return "", err
	}
	if _, err := service.store.FindUser(context, id); err != nil {
		return "", dberr.NotFoundAs(err, resource)
	}
	return id, nil
}
