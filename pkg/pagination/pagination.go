// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination provides shared types and helpers for API list endpoints.
//
// # Overview
//
// Pages are 1-indexed. A [Policy] states the default and the upper bound for
// the page size of one listing; every listing declares its policy explicitly
// so no endpoint runs with an unbounded limit.
package pagination

import (
	"errors"
	"math"
	"net/url"
	"strconv"
)

const (
	// DefaultPage is the starting page (1-indexed).
	DefaultPage = 1
	// DefaultLimit is the number of items per page if not specified.
	DefaultLimit = 10
)

var (
	// ErrInvalidPage is returned for a missing, non-numeric or non-positive page.
	ErrInvalidPage = errors.New("pagination: page must be a positive integer")
	// ErrInvalidLimit is returned for a non-numeric or out-of-range limit.
	ErrInvalidLimit = errors.New("pagination: limit out of range")
)

// # Policies

// Policy bounds the page size accepted by a listing.
type Policy struct {
	DefaultLimit int
	MaxLimit     int
}

var (
	// General applies to feeds, threads and relation lists.
	General = Policy{DefaultLimit: DefaultLimit, MaxLimit: 100}
	// Channel applies to the owner's channel-video listing.
	Channel = Policy{DefaultLimit: DefaultLimit, MaxLimit: 50}
)

// Check validates params against the policy. It never clamps.
func (policy Policy) Check(params Params) error {
	if params.Page < 1 {
		return ErrInvalidPage
	}
	if params.Limit < 1 || params.Limit > policy.MaxLimit {
		return ErrInvalidLimit
	}
	return nil
}

// # Parameters

// Params holds the parsed page and limit of one listing request.
type Params struct {
	Page  int
	Limit int
}

// Offset returns the number of rows to skip: (page - 1) * limit.
// It saturates at [math.MaxInt], so an absurdly far page is just empty.
func (p Params) Offset() int {
	if p.Page <= 1 || p.Limit <= 0 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.Limit {
		return math.MaxInt
	}
	return (p.Page - 1) * p.Limit
}

// Parse reads "page" and "limit" from a query string.
//
// Absent values fall back to [DefaultPage] and the policy's default limit.
// Present but malformed values are reported, not silently replaced, so the
// caller can surface a validation failure.
func Parse(query url.Values, policy Policy) (Params, error) {
	params := Params{Page: DefaultPage, Limit: policy.DefaultLimit}

	if raw := query.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return params, ErrInvalidPage
		}
		params.Page = page
	}

	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return params, ErrInvalidLimit
		}
		params.Limit = limit
	}

	return params, policy.Check(params)
}

// # Metadata

// Meta is the pagination metadata included in every page envelope.
type Meta struct {
	CurrentPage     int  `json:"current_page"`
	Limit           int  `json:"limit"`
	TotalPages      int  `json:"total_pages"`
	TotalItems      int  `json:"total_items"`
	HasNextPage     bool `json:"has_next_page"`
	HasPreviousPage bool `json:"has_previous_page"`
}

// NewMeta constructs pagination metadata for a page of a result set holding
// total items. TotalPages is ceil(total / limit) and never negative.
func NewMeta(params Params, total int) Meta {
	totalPages := 0
	if params.Limit > 0 && total > 0 {
		totalPages = (total + params.Limit - 1) / params.Limit
	}

	return Meta{
		CurrentPage:     params.Page,
		Limit:           params.Limit,
		TotalPages:      totalPages,
		TotalItems:      total,
		HasNextPage:     params.Page < totalPages,
		HasPreviousPage: params.Page > 1,
	}
}
