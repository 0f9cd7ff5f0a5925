// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package readmodel

// Collection names a stored entity set.
type Collection string

const (
	Users         Collection = "users"
	Videos        Collection = "videos"
	Comments      Collection = "comments"
	Tweets        Collection = "tweets"
	Likes         Collection = "likes"
	Subscriptions Collection = "subscriptions"
	Playlists     Collection = "playlists"
)

// # Field Identifiers
//
// Logical field names double as JSON keys of the compiled documents.

const (
	FieldID        = "id"
	FieldCreatedAt = "created_at"
	FieldUpdatedAt = "updated_at"

	FieldUsername   = "username"
	FieldFullName   = "full_name"
	FieldAvatar     = "avatar"
	FieldCoverImage = "cover_image"

	FieldAuthorID    = "author_id"
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldVideoURL    = "video_url"
	FieldThumbnail   = "thumbnail"
	FieldDuration    = "duration"
	FieldViews       = "views"
	FieldIsPublished = "is_published"

	FieldVideoID = "video_id"
	FieldOwnerID = "owner_id"
	FieldContent = "content"

	FieldLikedBy    = "liked_by"
	FieldTargetKind = "target_kind"
	FieldTargetID   = "target_id"

	FieldSubscriberID = "subscriber_id"
	FieldChannelID    = "channel_id"

	FieldName     = "name"
	FieldVideoIDs = "video_ids"
)

// collectionSchema lists the fields of one collection. Sortable fields are
// backed by an index in the relational schema; sequences are ordered id lists.
type collectionSchema struct {
	fields    []string
	sortable  []string
	sequences []string
}

var schemas = map[Collection]collectionSchema{
	Users: {
		fields:   []string{FieldID, FieldUsername, FieldFullName, FieldAvatar, FieldCoverImage, FieldCreatedAt},
		sortable: []string{FieldCreatedAt, FieldUsername},
	},
	Videos: {
		fields: []string{
			FieldID, FieldAuthorID, FieldTitle, FieldDescription, FieldVideoURL, FieldThumbnail,
			FieldDuration, FieldViews, FieldIsPublished, FieldCreatedAt, FieldUpdatedAt,
		},
		sortable: []string{FieldCreatedAt, FieldViews, FieldDuration, FieldTitle},
	},
	Comments: {
		fields:   []string{FieldID, FieldVideoID, FieldOwnerID, FieldContent, FieldCreatedAt, FieldUpdatedAt},
		sortable: []string{FieldCreatedAt},
	},
	Tweets: {
		fields:   []string{FieldID, FieldAuthorID, FieldContent, FieldCreatedAt, FieldUpdatedAt},
		sortable: []string{FieldCreatedAt},
	},
	Likes: {
		fields:   []string{FieldID, FieldLikedBy, FieldTargetKind, FieldTargetID, FieldCreatedAt},
		sortable: []string{FieldCreatedAt},
	},
	Subscriptions: {
		fields:   []string{FieldID, FieldSubscriberID, FieldChannelID, FieldCreatedAt},
		sortable: []string{FieldCreatedAt},
	},
	Playlists: {
		fields:    []string{FieldID, FieldOwnerID, FieldName, FieldDescription, FieldVideoIDs, FieldCreatedAt, FieldUpdatedAt},
		sortable:  []string{FieldCreatedAt, FieldName},
		sequences: []string{FieldVideoIDs},
	},
}

func (collection Collection) known() bool {
	_, ok := schemas[collection]
	return ok
}

// Fields returns every field of the collection, in declaration order.
func Fields(collection Collection) []string {
	return schemas[collection].fields
}

// HasField reports whether field belongs to collection.
func HasField(collection Collection, field string) bool {
	return contains(schemas[collection].fields, field)
}

// IsSortable reports whether field is whitelisted for sorting collection.
func IsSortable(collection Collection, field string) bool {
	return contains(schemas[collection].sortable, field)
}

// IsSequence reports whether field holds an ordered id list.
func IsSequence(collection Collection, field string) bool {
	return contains(schemas[collection].sequences, field)
}

func contains(values []string, value string) bool {
	for _, candidate := range values {
		if candidate == value {
			return true
		}
	}
	return false
}
