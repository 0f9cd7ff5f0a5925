// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package subscription_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/vidora/internal/core/coretest"
	"github.com/taibuivan/vidora/internal/core/subscription"
	"github.com/taibuivan/vidora/internal/core/toggle"
	"github.com/taibuivan/vidora/internal/platform/apperr"
	"github.com/taibuivan/vidora/pkg/pagination"
	"github.com/taibuivan/vidora/pkg/uuid"
)

var firstPage = pagination.Params{Page: 1, Limit: 10}

func newService(f *coretest.Fixture) *subscription.Service {
	engine := toggle.NewEngine(f.Store, toggle.StoreTargets{Store: f.Store})
	return subscription.NewService(engine, f.Store)
}

/*
TestService_Listings verifies both directions of the subscription graph:
subscribers of a channel and channels of a subscriber, newest first, with
the live subscriber count on each channel.
*/
func TestService_Listings(t *testing.T) {
	ctx := context.Background()
	f := coretest.New(t)
	service := newService(f)

	for _, step := range []struct{ subscriber, channel string }{
		{f.Bob.ID, f.Alice.ID},
		{f.Carol.ID, f.Alice.ID},
		{f.Bob.ID, f.Carol.ID},
	} {
		actor := f.Bob
		if step.subscriber == f.Carol.ID {
			actor = f.Carol
		}
		subscribed, err := service.Toggle(ctx, actor, step.channel)
		require.NoError(t, err)
		require.True(t, subscribed)
	}

	subscribers, err := service.Subscribers(ctx, f.Alice.ID, firstPage)
	require.NoError(t, err)
	require.Len(t, subscribers.Items, 2)
	assert.Equal(t, "carol", subscribers.Items[0].Subscriber.Username)
	assert.Equal(t, "bob", subscribers.Items[1].Subscriber.Username)
	assert.False(t, subscribers.Items[0].SubscribedAt.IsZero())

	channels, err := service.SubscribedChannels(ctx, f.Bob.ID, firstPage)
	require.NoError(t, err)
	require.Len(t, channels.Items, 2)
	assert.Equal(t, "carol", channels.Items[0].Channel.Username)
	assert.Equal(t, 1, channels.Items[0].Channel.SubscribersCount)
	assert.Equal(t, "alice", channels.Items[1].Channel.Username)
	assert.Equal(t, 2, channels.Items[1].Channel.SubscribersCount)

	unsubscribed, err := service.Toggle(ctx, f.Bob, f.Alice.ID)
	require.NoError(t, err)
	assert.False(t, unsubscribed)

	subscribers, err = service.Subscribers(ctx, f.Alice.ID, firstPage)
	require.NoError(t, err)
	assert.Equal(t, 1, subscribers.Pagination.TotalItems)
}

// TestService_Preconditions covers the failure modes of toggling and listing.
func TestService_Preconditions(t *testing.T) {
	ctx := context.Background()
	f := coretest.New(t)
	service := newService(f)

	tests := []struct {
		name     string
		call     func() error
		wantCode string
		wantMsg  string
	}{
		{name: "self subscription", call: func() error { _, err := service.Toggle(ctx, f.Alice, f.Alice.ID); return err }, wantCode: apperr.CodeConflict, wantMsg: toggle.MsgSelfSubscription},
		{name: "unknown channel", call: func() error { _, err := service.Toggle(ctx, f.Alice, uuid.New()); return err }, wantCode: apperr.CodeNotFound, wantMsg: "Channel not found"},
		{name: "anonymous", call: func() error { _, err := service.Toggle(ctx, nil, f.Alice.ID); return err }, wantCode: apperr.CodeUnauthorized},
		{name: "subscribers of unknown channel", call: func() error { _, err := service.Subscribers(ctx, uuid.New(), firstPage); return err }, wantCode: apperr.CodeNotFound, wantMsg: "Channel not found"},
		{name: "channels of unknown user", call: func() error { _, err := service.SubscribedChannels(ctx, uuid.New(), firstPage); return err }, wantCode: apperr.CodeNotFound, wantMsg: "User not found"},
		{name: "malformed channel id", call: func() error { _, err := service.Subscribers(ctx, "x", firstPage); return err }, wantCode: apperr.CodeValidation, wantMsg: "Invalid channel ID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			require.Error(t, err)
			assert.True(t, apperr.HasCode(err, tt.wantCode), "got %v", err)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, err.Error())
			}
		})
	}

	count, err := f.Store.CountSubscriptions(ctx, f.Alice.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}
