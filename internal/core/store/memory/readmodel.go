// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/taibuivan/vidora/internal/core/readmodel"
	"github.com/taibuivan/vidora/internal/platform/apperr"
	"github.com/taibuivan/vidora/pkg/textnorm"
)

type row map[string]any

type snapshot map[readmodel.Collection][]row

// Execute evaluates spec against a consistent snapshot of the store.
func (store *Store) Execute(_ context.Context, spec readmodel.Spec) (readmodel.Result, error) {
	if err := spec.Validate(); err != nil {
		return readmodel.Result{}, apperr.Internal(err)
	}

	store.mutex.RLock()
	data := store.snapshot()
	store.mutex.RUnlock()

	var matched []row
	for _, candidate := range data[spec.From] {
		if !matchAll(candidate, spec.Match) {
			continue
		}
		if !data.requiredJoinsMet(candidate, spec.Joins) {
			continue
		}
		matched = append(matched, candidate)
	}

	sortRows(matched, spec.Sort)

	total := len(matched)
	start := max(0, min(spec.Page.Offset(), total))
	end := min(start+spec.Page.Limit, total)

	documents := make([]json.RawMessage, 0, end-start)
	for _, current := range matched[start:end] {
		document := data.document(current, spec.From, spec.Project, spec.Joins, spec.Derived)
		encoded, err := json.Marshal(document)
		if err != nil {
			return readmodel.Result{}, apperr.Internal(fmt.Errorf("memory: encode %s document: %w", spec.From, err))
		}
		documents = append(documents, encoded)
	}

	return readmodel.Result{Documents: documents, Total: total}, nil
}

// snapshot flattens every entity into field-keyed rows. Callers hold the read lock.
func (store *Store) snapshot() snapshot {
	data := snapshot{}

	for _, user := range store.users {
		var cover any
		if user.CoverImage != nil {
			cover = *user.CoverImage
		}
		data[readmodel.Users] = append(data[readmodel.Users], row{
			readmodel.FieldID:         user.ID,
			readmodel.FieldUsername:   user.Username,
			readmodel.FieldFullName:   user.FullName,
			readmodel.FieldAvatar:     user.Avatar,
			readmodel.FieldCoverImage: cover,
			readmodel.FieldCreatedAt:  user.CreatedAt,
		})
	}

	for _, video := range store.videos {
		data[readmodel.Videos] = append(data[readmodel.Videos], row{
			readmodel.FieldID:          video.ID,
			readmodel.FieldAuthorID:    video.AuthorID,
			readmodel.FieldTitle:       video.Title,
			readmodel.FieldDescription: video.Description,
			readmodel.FieldVideoURL:    video.VideoURL,
			readmodel.FieldThumbnail:   video.ThumbnailURL,
			readmodel.FieldDuration:    video.Duration,
			readmodel.FieldViews:       video.Views,
			readmodel.FieldIsPublished: video.IsPublished,
			readmodel.FieldCreatedAt:   video.CreatedAt,
			readmodel.FieldUpdatedAt:   video.UpdatedAt,
		})
	}

	for _, comment := range store.comments {
		data[readmodel.Comments] = append(data[readmodel.Comments], row{
			readmodel.FieldID:        comment.ID,
			readmodel.FieldVideoID:   comment.VideoID,
			readmodel.FieldOwnerID:   comment.OwnerUserID,
			readmodel.FieldContent:   comment.Content,
			readmodel.FieldCreatedAt: comment.CreatedAt,
			readmodel.FieldUpdatedAt: comment.UpdatedAt,
		})
	}

	for _, tweet := range store.tweets {
		data[readmodel.Tweets] = append(data[readmodel.Tweets], row{
			readmodel.FieldID:        tweet.ID,
			readmodel.FieldAuthorID:  tweet.AuthorID,
			readmodel.FieldContent:   tweet.Content,
			readmodel.FieldCreatedAt: tweet.CreatedAt,
			readmodel.FieldUpdatedAt: tweet.UpdatedAt,
		})
	}

	for _, like := range store.likes {
		data[readmodel.Likes] = append(data[readmodel.Likes], row{
			readmodel.FieldID:         like.ID,
			readmodel.FieldLikedBy:    like.LikedBy,
			readmodel.FieldTargetKind: string(like.Target.Kind()),
			readmodel.FieldTargetID:   like.Target.ID(),
			readmodel.FieldCreatedAt:  like.CreatedAt,
		})
	}

	for _, subscription := range store.subscriptions {
		data[readmodel.Subscriptions] = append(data[readmodel.Subscriptions], row{
			readmodel.FieldID:           subscription.ID,
			readmodel.FieldSubscriberID: subscription.SubscriberID,
			readmodel.FieldChannelID:    subscription.ChannelID,
			readmodel.FieldCreatedAt:    subscription.CreatedAt,
		})
	}

	for _, playlist := range store.playlists {
		data[readmodel.Playlists] = append(data[readmodel.Playlists], row{
			readmodel.FieldID:          playlist.ID,
			readmodel.FieldOwnerID:     playlist.OwnerUserID,
			readmodel.FieldName:        playlist.Name,
			readmodel.FieldDescription: playlist.Description,
			readmodel.FieldVideoIDs:    append([]string{}, playlist.VideoIDs...),
			readmodel.FieldCreatedAt:   playlist.CreatedAt,
			readmodel.FieldUpdatedAt:   playlist.UpdatedAt,
		})
	}

	return data
}

// # Matching

func matchAll(current row, conditions []readmodel.Condition) bool {
	for _, condition := range conditions {
		if !matchOne(current, condition) {
			return false
		}
	}
	return true
}

func matchOne(current row, condition readmodel.Condition) bool {
	switch condition.Op {
	case readmodel.OpEq:
		return sameValue(current[condition.Field], condition.Value)
	case readmodel.OpSearch:
		for _, field := range condition.Fields {
			if text, ok := current[field].(string); ok && textnorm.ContainsFold(text, condition.Text) {
				return true
			}
		}
		return false
	case readmodel.OpAnyOf:
		for _, alternative := range condition.Any {
			if matchOne(current, alternative) {
				return true
			}
		}
		return false
	}
	return false
}

// sameValue compares by printed form so named string types (target kinds)
// equal their plain string values.
func sameValue(left, right any) bool {
	if left == nil || right == nil {
		return left == nil && right == nil
	}
	return fmt.Sprint(left) == fmt.Sprint(right)
}

func (data snapshot) lookup(collection readmodel.Collection, field string, value any, match []readmodel.Condition) row {
	for _, candidate := range data[collection] {
		if sameValue(candidate[field], value) && matchAll(candidate, match) {
			return candidate
		}
	}
	return nil
}

func (data snapshot) requiredJoinsMet(current row, joins []readmodel.Join) bool {
	for _, join := range joins {
		if !join.Required || join.Many {
			continue
		}
		if data.lookup(join.From, join.ForeignKey(), current[join.LocalField], join.Match) == nil {
			return false
		}
	}
	return true
}

// # Ordering

func sortRows(rows []row, order readmodel.Sort) {
	sort.SliceStable(rows, func(i, j int) bool {
		compared := compareValues(rows[i][order.Field], rows[j][order.Field])
		if compared == 0 {
			compared = strings.Compare(fmt.Sprint(rows[i][readmodel.FieldID]), fmt.Sprint(rows[j][readmodel.FieldID]))
		}
		if order.Direction == readmodel.Desc {
			return compared > 0
		}
		return compared < 0
	})
}

func compareValues(left, right any) int {
	switch a := left.(type) {
	case time.Time:
		if b, ok := right.(time.Time); ok {
			return a.Compare(b)
		}
	case int64:
		if b, ok := right.(int64); ok {
			return compareOrdered(a, b)
		}
	case float64:
		if b, ok := right.(float64); ok {
			return compareOrdered(a, b)
		}
	case string:
		if b, ok := right.(string); ok {
			return strings.Compare(a, b)
		}
	}
	return strings.Compare(fmt.Sprint(left), fmt.Sprint(right))
}

func compareOrdered[T int64 | float64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// # Documents

func (data snapshot) document(current row, collection readmodel.Collection, project []string, joins []readmodel.Join, derived []readmodel.Derived) map[string]any {
	fields := project
	if len(fields) == 0 {
		fields = readmodel.Fields(collection)
	}

	document := make(map[string]any, len(fields)+len(joins)+len(derived))
	for _, field := range fields {
		document[field] = current[field]
	}

	for _, join := range joins {
		if join.Many {
			ids, _ := current[join.LocalField].([]string)
			embedded := make([]map[string]any, 0, len(ids))
			for _, id := range ids {
				if foreign := data.lookup(join.From, join.ForeignKey(), id, join.Match); foreign != nil {
					embedded = append(embedded, data.document(foreign, join.From, join.Project, join.Joins, join.Derived))
				}
			}
			document[join.As] = embedded
			continue
		}

		foreign := data.lookup(join.From, join.ForeignKey(), current[join.LocalField], join.Match)
		if foreign == nil {
			document[join.As] = nil
			continue
		}
		document[join.As] = data.document(foreign, join.From, join.Project, join.Joins, join.Derived)
	}

	for _, value := range derived {
		document[value.As] = data.derive(current, value)
	}

	return document
}

func (data snapshot) derive(current row, derived readmodel.Derived) any {
	if derived.Kind == readmodel.DerivedLength {
		ids, _ := current[derived.LocalKey()].([]string)
		return len(ids)
	}

	count := 0
	for _, candidate := range data[derived.From] {
		if sameValue(candidate[derived.ForeignField], current[derived.LocalKey()]) && matchAll(candidate, derived.Match) {
			count++
		}
	}

	if derived.Kind == readmodel.DerivedExists {
		return count > 0
	}
	return count
}
