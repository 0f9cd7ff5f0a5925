// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package video

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/vidora/internal/platform/constants"
	redisstore "github.com/taibuivan/vidora/internal/platform/redis"
)

// RedisViews keeps the view window as expiring Redis keys.
type RedisViews struct {
	client *redis.Client
	window time.Duration
}

// NewRedisViews constructs a [ViewRegistry] over a Redis client.
func NewRedisViews(client *redis.Client, window time.Duration) *RedisViews {
	return &RedisViews{client: client, window: window}
}

// Mark sets vidora:view:{video}:{viewer} only if it is absent, with the window as TTL.
func (views *RedisViews) Mark(context context.Context, videoID, viewer string) (bool, error) {
	key := ViewKey(videoID, viewer)

	first, err := views.client.SetNX(context, key, 1, views.window).Result()
	if err != nil {
		return false, fmt.Errorf("video: mark view %s: %w", key, err)
	}
	return first, nil
}

// ViewKey builds the Redis key of one (video, viewer) pair.
func ViewKey(videoID, viewer string) string {
	return redisstore.Key(constants.RedisPrefixView, videoID, viewer)
}
