// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package guard decides whether an actor may mutate an owned resource.

It reads nothing but the resource's owner and the actor's identity, so it is
called inside the store's atomic section against the locked row.
*/
package guard

import (
	"github.com/taibuivan/vidora/internal/core/model"
	"github.com/taibuivan/vidora/internal/platform/apperr"
)

// MsgAuthRequired is returned for every anonymous mutation.
const MsgAuthRequired = "Authentication required"

// RequireActor fails with 401 when the request is anonymous.
func RequireActor(actor *model.Actor) error {
	if actor == nil {
		return apperr.Unauthorized(MsgAuthRequired)
	}
	return nil
}

/*
Authorize allows the mutation only when the actor owns the resource.

Parameters:
  - actor: The caller, nil when anonymous
  - resource: The current state of the owned resource
  - forbidden: Message used when the actor is not the owner

Returns:
  - error: 401 when anonymous, 403 when not the owner, nil otherwise
*/
func Authorize(actor *model.Actor, resource model.Owned, forbidden string) error {
	if err := RequireActor(actor); err != nil {
		return err
	}
	if !actor.IsAuthor(resource.OwnerID()) {
		return apperr.Forbidden(forbidden)
	}
	return nil
}

// Owner returns a store check that runs [Authorize] on the locked row.
func Owner[T any, P interface {
	*T
	model.Owned
}](actor *model.Actor, forbidden string) func(*T) error {
	return func(current *T) error {
		return Authorize(actor, P(current), forbidden)
	}
}
