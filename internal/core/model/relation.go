// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package model

import "time"

// # Like Targets

// TargetKind discriminates what a like points at.
type TargetKind string

const (
	TargetVideo   TargetKind = "video"
	TargetComment TargetKind = "comment"
	TargetTweet   TargetKind = "tweet"
)

// LikeTarget is the tagged variant a like refers to: exactly one kind and one id.
// The fields are unexported so a target can only be built through the
// constructors below and always names exactly one entity.
type LikeTarget struct {
	kind TargetKind
	id   string
}

// VideoTarget, CommentTarget and TweetTarget build a [LikeTarget].
func VideoTarget(id string) LikeTarget   { return LikeTarget{kind: TargetVideo, id: id} }
func CommentTarget(id string) LikeTarget { return LikeTarget{kind: TargetComment, id: id} }
func TweetTarget(id string) LikeTarget   { return LikeTarget{kind: TargetTweet, id: id} }

func (target LikeTarget) Kind() TargetKind { return target.kind }
func (target LikeTarget) ID() string       { return target.id }

// Like records that a user likes one video, comment or tweet.
type Like struct {
	ID        string
	LikedBy   string
	Target    LikeTarget
	CreatedAt time.Time
}

// Subscription records that a subscriber follows a channel.
type Subscription struct {
	ID           string
	SubscriberID string
	ChannelID    string
	CreatedAt    time.Time
}

// # Toggleable Relations

// RelationKind enumerates the symmetric relations handled by the toggle engine.
type RelationKind string

const (
	RelationVideoLike    RelationKind = "video-like"
	RelationCommentLike  RelationKind = "comment-like"
	RelationTweetLike    RelationKind = "tweet-like"
	RelationSubscription RelationKind = "subscription"
)

// Relation identifies one relation row by its unique key (actor, kind, target).
type Relation struct {
	Kind     RelationKind
	ActorID  string
	TargetID string
}

// LikeTarget returns the like target of a like relation.
// ok is false for subscriptions.
func (relation Relation) LikeTarget() (LikeTarget, bool) {
	switch relation.Kind {
	case RelationVideoLike:
		return VideoTarget(relation.TargetID), true
	case RelationCommentLike:
		return CommentTarget(relation.TargetID), true
	case RelationTweetLike:
		return TweetTarget(relation.TargetID), true
	}
	return LikeTarget{}, false
}
