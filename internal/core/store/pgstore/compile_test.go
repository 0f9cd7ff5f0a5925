// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pgstore_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/vidora/internal/core/model"
	"github.com/taibuivan/vidora/internal/core/readmodel"
	"github.com/taibuivan/vidora/internal/core/store/pgstore"
	"github.com/taibuivan/vidora/pkg/pagination"
)

/*
TestCompile_PageAndCount verifies the shape of a compiled listing: bound
filter values, the id tie-break in the sort direction and skip/limit.
*/
func TestCompile_PageAndCount(t *testing.T) {
	spec := readmodel.Spec{
		From:    readmodel.Videos,
		Match:   []readmodel.Condition{readmodel.Eq(readmodel.FieldIsPublished, true)},
		Project: []string{readmodel.FieldID, readmodel.FieldTitle},
		Sort:    readmodel.Sort{Field: readmodel.FieldViews, Direction: readmodel.Asc},
		Page:    pagination.Params{Page: 3, Limit: 10},
	}

	page, count, err := pgstore.Compile(spec)
	require.NoError(t, err)

	assert.Contains(t, page.SQL, "json_build_object('id', t1.id, 'title', t1.title)")
	assert.Contains(t, page.SQL, "FROM media.video t1 WHERE t1.ispublished = $1")
	assert.Contains(t, page.SQL, "ORDER BY t1.views ASC, t1.id ASC")
	assert.Contains(t, page.SQL, "LIMIT $2 OFFSET $3")
	assert.Equal(t, []any{true, 10, 20}, page.Args)

	assert.Equal(t, "SELECT COUNT(*) FROM media.video t1 WHERE t1.ispublished = $1", count.SQL)
	assert.Equal(t, []any{true}, count.Args)
}

/*
TestCompile_JoinsAndDerived verifies correlated subqueries for joins, counts,
flags and sequence lengths.
*/
func TestCompile_JoinsAndDerived(t *testing.T) {
	spec := readmodel.Spec{
		From:    readmodel.Playlists,
		Project: []string{readmodel.FieldID},
		Joins: []readmodel.Join{
			{As: "owner", From: readmodel.Users, LocalField: readmodel.FieldOwnerID, Project: []string{readmodel.FieldUsername}},
			{As: "videos", From: readmodel.Videos, LocalField: readmodel.FieldVideoIDs, Many: true, Project: []string{readmodel.FieldID}},
		},
		Derived: []readmodel.Derived{readmodel.LengthOf("total_videos", readmodel.FieldVideoIDs)},
		Sort:    readmodel.NewestFirst,
		Page:    pagination.Params{Page: 1, Limit: 5},
	}

	page, _, err := pgstore.Compile(spec)
	require.NoError(t, err)

	assert.Contains(t, page.SQL, "'owner', (SELECT json_build_object('username', t2.username) FROM users.account t2 WHERE t2.id = t1.ownerid LIMIT 1)")
	assert.Contains(t, page.SQL, "unnest(t1.videoids) WITH ORDINALITY AS t3s(ref, ord)")
	assert.Contains(t, page.SQL, "json_agg(json_build_object('id', t3.id) ORDER BY t3s.ord)")
	assert.Contains(t, page.SQL, "'[]'::json")
	assert.Contains(t, page.SQL, "'total_videos', COALESCE(cardinality(t1.videoids), 0)")
}

/*
TestCompile_RequiredJoinFiltersBothQueries verifies that a required join
becomes an EXISTS clause in the page and the count.
*/
func TestCompile_RequiredJoinFiltersBothQueries(t *testing.T) {
	spec := readmodel.Spec{
		From: readmodel.Likes,
		Match: []readmodel.Condition{
			readmodel.Eq(readmodel.FieldLikedBy, "u1"),
			readmodel.Eq(readmodel.FieldTargetKind, model.TargetVideo),
		},
		Joins: []readmodel.Join{{
			As: "video", From: readmodel.Videos, LocalField: readmodel.FieldTargetID, Required: true,
			Match: []readmodel.Condition{readmodel.Eq(readmodel.FieldIsPublished, true)},
		}},
		Derived: []readmodel.Derived{
			readmodel.ExistsIn("is_mine", readmodel.Videos, readmodel.FieldID, readmodel.Eq(readmodel.FieldAuthorID, "u1")).On(readmodel.FieldTargetID),
		},
		Sort: readmodel.NewestFirst,
		Page: pagination.Params{Page: 1, Limit: 10},
	}

	page, count, err := pgstore.Compile(spec)
	require.NoError(t, err)

	assert.Contains(t, count.SQL, "EXISTS (SELECT 1 FROM media.video t2 WHERE t2.id = t1.targetid AND t2.ispublished = $3)")
	assert.Equal(t, []any{"u1", "video", true}, count.Args)
	assert.Contains(t, page.SQL, "EXISTS (SELECT 1 FROM media.video")

	// Named string kinds are bound as plain strings
	for _, arg := range page.Args {
		_, isKind := arg.(model.TargetKind)
		assert.False(t, isKind)
	}
}

/*
TestCompile_SearchEscapesPattern verifies that wildcard characters typed by
users are matched literally.
*/
func TestCompile_SearchEscapesPattern(t *testing.T) {
	spec := readmodel.Spec{
		From:  readmodel.Videos,
		Match: []readmodel.Condition{readmodel.Search("100%_go", readmodel.FieldTitle, readmodel.FieldDescription)},
		Sort:  readmodel.NewestFirst,
		Page:  pagination.Params{Page: 1, Limit: 10},
	}

	page, _, err := pgstore.Compile(spec)
	require.NoError(t, err)

	assert.Contains(t, page.SQL, `(t1.title ILIKE $1 ESCAPE '\' OR t1.description ILIKE $1 ESCAPE '\')`)
	assert.Equal(t, `%100\%\_go%`, page.Args[0])
}

/*
TestCompile_RejectsUnknownSort verifies that a non-whitelisted sort field
never reaches SQL.
*/
func TestCompile_RejectsUnknownSort(t *testing.T) {
	spec := readmodel.Spec{
		From: readmodel.Videos,
		Sort: readmodel.Sort{Field: "title; DROP TABLE media.video", Direction: readmodel.Desc},
		Page: pagination.Params{Page: 1, Limit: 10},
	}

	_, _, err := pgstore.Compile(spec)
	assert.Error(t, err)
}
