// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pagination_test

import (
	"math"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/vidora/pkg/pagination"
)

/*
TestNewMeta_Arithmetic checks the page facts for 25 items at 10 per page.
*/
func TestNewMeta_Arithmetic(t *testing.T) {
	tests := []struct {
		name        string
		page        int
		totalPages  int
		hasNext     bool
		hasPrevious bool
		offset      int
	}{
		{"first_page", 1, 3, true, false, 0},
		{"middle_page", 2, 3, true, true, 10},
		{"last_page", 3, 3, false, true, 20},
		{"past_the_end", 4, 3, false, true, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := pagination.Params{Page: tt.page, Limit: 10}
			meta := pagination.NewMeta(params, 25)

			assert.Equal(t, tt.page, meta.CurrentPage)
			assert.Equal(t, 25, meta.TotalItems)
			assert.Equal(t, tt.totalPages, meta.TotalPages)
			assert.Equal(t, tt.hasNext, meta.HasNextPage)
			assert.Equal(t, tt.hasPrevious, meta.HasPreviousPage)
			assert.Equal(t, tt.offset, params.Offset())
		})
	}
}

/*
TestOffset_Saturates checks that a page number near the int range never yields
a negative offset.
*/
func TestOffset_Saturates(t *testing.T) {
	tests := []struct {
		name   string
		params pagination.Params
		want   int
	}{
		{"page_zero", pagination.Params{Page: 0, Limit: 10}, 0},
		{"zero_limit", pagination.Params{Page: 7, Limit: 0}, 0},
		{"ordinary", pagination.Params{Page: 4, Limit: 25}, 75},
		{"would_overflow", pagination.Params{Page: math.MaxInt / 10, Limit: 100}, math.MaxInt},
		{"max_page", pagination.Params{Page: math.MaxInt, Limit: 1}, math.MaxInt - 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.params.Offset())
		})
	}

	params, err := pagination.Parse(url.Values{"page": {"922337203685477580"}, "limit": {"100"}}, pagination.General)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, params.Offset(), 0)
}

/*
TestNewMeta_Empty ensures an empty result set has zero pages and no next page.
*/
func TestNewMeta_Empty(t *testing.T) {
	meta := pagination.NewMeta(pagination.Params{Page: 1, Limit: 10}, 0)

	assert.Equal(t, 0, meta.TotalPages)
	assert.False(t, meta.HasNextPage)
	assert.False(t, meta.HasPreviousPage)
}

/*
TestParse covers defaults, malformed input and policy bounds.
*/
func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		policy  pagination.Policy
		want    pagination.Params
		wantErr error
	}{
		{"defaults", "", pagination.General, pagination.Params{Page: 1, Limit: 10}, nil},
		{"explicit", "page=3&limit=25", pagination.General, pagination.Params{Page: 3, Limit: 25}, nil},
		{"zero_page", "page=0", pagination.General, pagination.Params{}, pagination.ErrInvalidPage},
		{"negative_limit", "limit=-5", pagination.General, pagination.Params{}, pagination.ErrInvalidLimit},
		{"non_numeric_page", "page=abc", pagination.General, pagination.Params{}, pagination.ErrInvalidPage},
		{"general_upper_bound", "limit=100", pagination.General, pagination.Params{Page: 1, Limit: 100}, nil},
		{"general_over_bound", "limit=101", pagination.General, pagination.Params{}, pagination.ErrInvalidLimit},
		{"channel_upper_bound", "limit=50", pagination.Channel, pagination.Params{Page: 1, Limit: 50}, nil},
		{"channel_over_bound", "limit=51", pagination.Channel, pagination.Params{}, pagination.ErrInvalidLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, err := url.ParseQuery(tt.query)
			require.NoError(t, err)

			params, err := pagination.Parse(query, tt.policy)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, params)
		})
	}
}
