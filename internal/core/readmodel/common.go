// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package readmodel

import "github.com/taibuivan/vidora/internal/core/model"

// # Shared Building Blocks

// UserSummaryFields is the narrow projection of an embedded author or owner.
var UserSummaryFields = []string{FieldID, FieldUsername, FieldFullName, FieldAvatar}

// VideoCardFields is the projection of a video embedded in another listing.
var VideoCardFields = []string{
	FieldID, FieldTitle, FieldDescription, FieldVideoURL, FieldThumbnail,
	FieldDuration, FieldViews, FieldIsPublished, FieldCreatedAt,
}

// UserJoin embeds the user referenced by localField as a user summary.
func UserJoin(as, localField string) Join {
	return Join{As: as, From: Users, LocalField: localField, Project: UserSummaryFields}
}

// LikeCount counts likes of the given kind pointing at the row's id.
func LikeCount(as string, kind model.TargetKind) Derived {
	return CountOf(as, Likes, FieldTargetID, Eq(FieldTargetKind, string(kind)))
}

// LikedBy flags whether the actor likes the row. Anonymous actors get no
// flag at all, so views default it to false.
func LikedBy(as string, kind model.TargetKind, actor *model.Actor) []Derived {
	if actor == nil {
		return nil
	}
	return []Derived{ExistsIn(as, Likes, FieldTargetID,
		Eq(FieldTargetKind, string(kind)),
		Eq(FieldLikedBy, actor.ID),
	)}
}

// VisibleVideos restricts a video set to what the actor may see: published
// videos, plus the actor's own unpublished ones.
func VisibleVideos(actor *model.Actor) Condition {
	if actor == nil {
		return Eq(FieldIsPublished, true)
	}
	return AnyOf(Eq(FieldIsPublished, true), Eq(FieldAuthorID, actor.ID))
}

// Sorted resolves caller-supplied sort input for collection. Empty values fall
// back to [NewestFirst]; ok is false when either value is not allowed.
func Sorted(collection Collection, field, direction string) (Sort, bool) {
	order := NewestFirst
	if field != "" {
		if !IsSortable(collection, field) {
			return Sort{}, false
		}
		order.Field = field
	}

	switch Direction(direction) {
	case "":
	case Asc, Desc:
		order.Direction = Direction(direction)
	default:
		return Sort{}, false
	}

	return order, true
}
