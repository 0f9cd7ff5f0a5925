// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package toggle

import (
	"context"

	"github.com/taibuivan/vidora/internal/core/model"
	"github.com/taibuivan/vidora/internal/core/store"
	"github.com/taibuivan/vidora/internal/platform/apperr"
	"github.com/taibuivan/vidora/internal/platform/dberr"
)

// Targets confirms that a relation target exists and is visible to the actor.
type Targets interface {
	CheckTarget(context context.Context, actor *model.Actor, kind model.RelationKind, targetID string) error
}

// StoreTargets resolves targets through the relation store.
type StoreTargets struct {
	Store store.Store
}

// CheckTarget implements [Targets]. An unpublished video of another author
// counts as missing.
func (targets StoreTargets) CheckTarget(context context.Context, actor *model.Actor, kind model.RelationKind, targetID string) error {
	switch kind {
	case model.RelationVideoLike:
		video, err := targets.Store.FindVideo(context, targetID)
		if err != nil {
			return dberr.NotFoundAs(err, "Video")
		}
		if !video.VisibleTo(actor) {
			return apperr.NotFound("Video")
		}
		return nil

	case model.RelationCommentLike:
		_, err := targets.Store.FindComment(context, targetID)
		return dberr.NotFoundAs(err, "Comment")

	case model.RelationTweetLike:
		_, err := targets.Store.FindTweet(context, targetID)
		return dberr.NotFoundAs(err, "Tweet")

	case model.RelationSubscription:
		_, err := targets.Store.FindUser(context, targetID)
		return dberr.NotFoundAs(err, "Channel")
	}

	return apperr.ValidationError("Unknown relation kind")
}
