// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package readmodel_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/vidora/internal/core/model"
	"github.com/taibuivan/vidora/internal/core/readmodel"
	"github.com/taibuivan/vidora/internal/platform/apperr"
	"github.com/taibuivan/vidora/internal/platform/dberr"
	"github.com/taibuivan/vidora/pkg/pagination"
)

func baseSpec() readmodel.Spec {
	return readmodel.Spec{
		From:    readmodel.Videos,
		Project: readmodel.VideoCardFields,
		Sort:    readmodel.NewestFirst,
		Page:    pagination.Params{Page: 1, Limit: 10},
	}
}

/*
TestSpec_Validate checks that every caller-influenced name is resolved
against the collection schema before a spec reaches an executor.
*/
func TestSpec_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(spec *readmodel.Spec)
		wantErr bool
	}{
		{
			name:   "card listing with author join and counts",
			mutate: func(spec *readmodel.Spec) {
				spec.Joins = []readmodel.Join{readmodel.UserJoin("author", readmodel.FieldAuthorID)}
				spec.Derived = []readmodel.Derived{
					readmodel.LikeCount("likes_count", model.TargetVideo),
					readmodel.CountOf("comments_count", readmodel.Comments, readmodel.FieldVideoID),
				}
			},
		},
		{
			name:    "unknown collection",
			mutate:  func(spec *readmodel.Spec) { spec.From = "channels" },
			wantErr: true,
		},
		{
			name:    "projection of a foreign field",
			mutate:  func(spec *readmodel.Spec) { spec.Project = []string{readmodel.FieldUsername} },
			wantErr: true,
		},
		{
			name:    "sort by a field without an index",
			mutate:  func(spec *readmodel.Spec) { spec.Sort.Field = readmodel.FieldDescription },
			wantErr: true,
		},
		{
			name:    "sort direction outside asc and desc",
			mutate:  func(spec *readmodel.Spec) { spec.Sort.Direction = "sideways" },
			wantErr: true,
		},
		{
			name:    "zero limit",
			mutate:  func(spec *readmodel.Spec) { spec.Page.Limit = 0 },
			wantErr: true,
		},
		{
			name: "match inside an alternative on an unknown field",
			mutate: func(spec *readmodel.Spec) {
				spec.Match = []readmodel.Condition{readmodel.AnyOf(readmodel.Eq("secret", 1))}
			},
			wantErr: true,
		},
		{
			name: "sequence join without many",
			mutate: func(spec *readmodel.Spec) {
				spec.From = readmodel.Playlists
				spec.Project = nil
				spec.Joins = []readmodel.Join{{As: "videos", From: readmodel.Videos, LocalField: readmodel.FieldVideoIDs}}
			},
			wantErr: true,
		},
		{
			name: "length of a scalar field",
			mutate: func(spec *readmodel.Spec) {
				spec.Derived = []readmodel.Derived{readmodel.LengthOf("n", readmodel.FieldTitle)}
			},
			wantErr: true,
		},
		{
			name: "nested join on an unknown foreign field",
			mutate: func(spec *readmodel.Spec) {
				spec.Joins = []readmodel.Join{{
					As: "author", From: readmodel.Users, LocalField: readmodel.FieldAuthorID,
					Joins: []readmodel.Join{{As: "x", From: readmodel.Videos, LocalField: readmodel.FieldID, ForeignField: "owner"}},
				}}
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := baseSpec()
			tt.mutate(&spec)

			err := spec.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

// TestSorted covers the defaults and the whitelist of caller sort input.
func TestSorted(t *testing.T) {
	tests := []struct {
		name      string
		field     string
		direction string
		want      readmodel.Sort
		wantOK    bool
	}{
		{name: "defaults", want: readmodel.NewestFirst, wantOK: true},
		{name: "views ascending", field: "views", direction: "asc", want: readmodel.Sort{Field: "views", Direction: readmodel.Asc}, wantOK: true},
		{name: "direction only", direction: "asc", want: readmodel.Sort{Field: readmodel.FieldCreatedAt, Direction: readmodel.Asc}, wantOK: true},
		{name: "unsortable field", field: "description"},
		{name: "unknown direction", field: "views", direction: "up"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := readmodel.Sorted(readmodel.Videos, tt.field, tt.direction)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestLikedBy_Anonymous(t *testing.T) {
	assert.Nil(t, readmodel.LikedBy("is_liked", model.TargetVideo, nil))
	assert.Len(t, readmodel.LikedBy("is_liked", model.TargetVideo, &model.Actor{ID: "u1"}), 1)
}

type fixedExecutor struct {
	result readmodel.Result
	calls  int
}

func (executor *fixedExecutor) Execute(_ context.Context, _ readmodel.Spec) (readmodel.Result, error) {
	executor.calls++
	return executor.result, nil
}

// TestRun verifies decoding, pagination metadata and the not-found path.
func TestRun(t *testing.T) {
	ctx := context.Background()

	type row struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	}

	executor := &fixedExecutor{result: readmodel.Result{
		Documents: []json.RawMessage{
			json.RawMessage(`{"id":"a","title":"first"}`),
			json.RawMessage(`{"id":"b","title":"second"}`),
		},
		Total: 5,
	}}

	spec := baseSpec()
	spec.Page = pagination.Params{Page: 1, Limit: 2}

	page, err := readmodel.Run[row](ctx, executor, spec)
	require.NoError(t, err)
	assert.Equal(t, []row{{ID: "a", Title: "first"}, {ID: "b", Title: "second"}}, page.Items)
	assert.Equal(t, 5, page.Pagination.TotalItems)
	assert.Equal(t, 3, page.Pagination.TotalPages)
	assert.True(t, page.Pagination.HasNextPage)
	assert.False(t, page.Pagination.HasPreviousPage)

	spec.Sort.Field = readmodel.FieldDescription
	_, err = readmodel.Run[row](ctx, executor, spec)
	assert.True(t, apperr.HasCode(err, apperr.CodeInternal))
	assert.Equal(t, 1, executor.calls, "invalid specs never reach the executor")

	empty := &fixedExecutor{}
	_, err = readmodel.First[row](ctx, empty, readmodel.Spec{From: readmodel.Videos})
	assert.ErrorIs(t, err, dberr.ErrNotFound)
}
