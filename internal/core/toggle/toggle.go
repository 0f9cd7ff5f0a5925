// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package toggle flips symmetric relations (likes and subscriptions).

A toggle deletes the (actor, kind, target) row when it exists and inserts it
otherwise. Uniqueness is enforced by the store, never by a read-then-write
check here: when an insert loses a race against a concurrent insert of the
same key, the engine starts over and takes the delete branch. Every
successful call therefore performs exactly one state change, and two calls in
sequence always restore the original state.

Counts are never stored; read models derive them from the relation rows.
*/
package toggle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/taibuivan/vidora/internal/core/guard"
	"github.com/taibuivan/vidora/internal/core/model"
	"github.com/taibuivan/vidora/internal/core/store"
	"github.com/taibuivan/vidora/internal/platform/apperr"
	"github.com/taibuivan/vidora/internal/platform/constants"
	"github.com/taibuivan/vidora/internal/platform/ctxutil"
	"github.com/taibuivan/vidora/internal/platform/dberr"
	"github.com/taibuivan/vidora/internal/platform/validate"
)

// MsgSelfSubscription is the conflict message for subscribing to oneself.
const MsgSelfSubscription = "You cannot subscribe to your own channel"

// Result reports the relation state after the toggle.
type Result struct {
	Active bool
}

// Engine toggles relation rows.
type Engine struct {
	relations store.RelationStore
	targets   Targets
}

// NewEngine constructs a toggle engine.
func NewEngine(relations store.RelationStore, targets Targets) *Engine {
	return &Engine{relations: relations, targets: targets}
}

/*
Toggle flips one relation for the actor.

Preconditions are checked in order: authentication, identifier format, target
existence (and visibility), then the no-self-subscription rule.

Returns:
  - Result: Active is true when the relation now exists
  - error: 401, 400, 404, 409, or a storage failure
*/
func (engine *Engine) Toggle(context context.Context, kind model.RelationKind, actor *model.Actor, targetID string) (Result, error) {
	if err := guard.RequireActor(actor); err != nil {
		return Result{}, err
	}

	field, label, resource := describe(kind)
	targetID, err := validate.ID(field, label, targetID)
	if err != nil {
		return Result{}, err
	}

	if err := engine.targets.CheckTarget(context, actor, kind, targetID); err != nil {
		return Result{}, err
	}

	if kind == model.RelationSubscription && actor.ID == targetID {
		return Result{}, apperr.Conflict(MsgSelfSubscription)
	}

	relation := model.Relation{Kind: kind, ActorID: actor.ID, TargetID: targetID}

	for attempt := 1; attempt <= constants.ToggleMaxAttempts; attempt++ {
		removed, err := engine.relations.DeleteRelation(context, relation)
		if err != nil {
			return Result{}, err
		}
		if removed {
			return engine.done(context, relation, false), nil
		}

		err = engine.relations.InsertRelation(context, relation)
		if err == nil {
			return engine.done(context, relation, true), nil
		}
		if !errors.Is(err, dberr.ErrDuplicate) {
			// The target was deleted after CheckTarget
			return Result{}, dberr.NotFoundAs(err, resource)
		}

		ctxutil.GetLogger(context).Debug("toggle_insert_race",
			slog.String("kind", string(kind)),
			slog.String("target_id", targetID),
			slog.Int("attempt", attempt),
		)
	}

	return Result{}, apperr.Timeout(fmt.Errorf("toggle %s %s: no convergence after %d attempts", kind, targetID, constants.ToggleMaxAttempts))
}

func (engine *Engine) done(context context.Context, relation model.Relation, active bool) Result {
	ctxutil.GetLogger(context).Info("relation_toggled",
		slog.String("kind", string(relation.Kind)),
		slog.String("actor_id", relation.ActorID),
		slog.String("target_id", relation.TargetID),
		slog.Bool("active", active),
	)
	return Result{Active: active}
}

// describe names the identifier of a relation target in error responses.
func describe(kind model.RelationKind) (field, label, resource string) {
	switch kind {
	case model.RelationVideoLike:
		return "video_id", "video", "Video"
	case model.RelationCommentLike:
		return "comment_id", "comment", "Comment"
	case model.RelationTweetLike:
		return "tweet_id", "tweet", "Tweet"
	}
	return "channel_id", "channel", "Channel"
}
