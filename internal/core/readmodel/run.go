// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package readmodel

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/taibuivan/vidora/internal/platform/apperr"
	"github.com/taibuivan/vidora/internal/platform/dberr"
	"github.com/taibuivan/vidora/pkg/pagination"
)

// # Execution

// Result is what an executor returns for one spec: the documents of the
// requested page and the total number of rows across all pages.
type Result struct {
	Documents []json.RawMessage
	Total     int
}

// Executor evaluates a [Spec] against a store.
type Executor interface {
	Execute(context context.Context, spec Spec) (Result, error)
}

// Page is the page-of-results envelope returned by every listing.
type Page[T any] struct {
	Items      []T             `json:"items"`
	Pagination pagination.Meta `json:"pagination"`
}

// Run validates spec, executes it and decodes each document into T.
// A page past the end yields zero items and no error.
func Run[T any](context context.Context, executor Executor, spec Spec) (*Page[T], error) {
	if err := spec.Validate(); err != nil {
		return nil, apperr.Internal(err)
	}

	result, err := executor.Execute(context, spec)
	if err != nil {
		return nil, err
	}

	items := make([]T, 0, len(result.Documents))
	for _, document := range result.Documents {
		var item T
		if err := json.Unmarshal(document, &item); err != nil {
			return nil, apperr.Internal(fmt.Errorf("readmodel: decode %s document: %w", spec.From, err))
		}
		items = append(items, item)
	}

	return &Page[T]{
		Items:      items,
		Pagination: pagination.NewMeta(spec.Page, result.Total),
	}, nil
}

// First runs spec for a single record. It returns [dberr.ErrNotFound] when
// nothing matches.
func First[T any](context context.Context, executor Executor, spec Spec) (*T, error) {
	spec.Page = pagination.Params{Page: 1, Limit: 1}
	if spec.Sort.Field == "" {
		spec.Sort = NewestFirst
	}

	page, err := Run[T](context, executor, spec)
	if err != nil {
		return nil, err
	}

	if len(page.Items) == 0 {
		return nil, dberr.ErrNotFound
	}

	return &page.Items[0], nil
}
