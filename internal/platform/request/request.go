// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package requestutil extracts typed input from HTTP requests.

Handlers decode and hand typed values to services; the services validate.
*/
package requestutil

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/vidora/internal/core/model"
	"github.com/taibuivan/vidora/internal/platform/ctxutil"
	"github.com/taibuivan/vidora/internal/platform/validate"
	"github.com/taibuivan/vidora/pkg/pagination"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - writer: http.ResponseWriter used to cap the body size
  - request: *http.Request
  - target: any (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(writer http.ResponseWriter, request *http.Request, target any) error {
	request.Body = http.MaxBytesReader(writer, request.Body, maxBodyBytes)
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

// Param retrieves a named URL parameter from the request.
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
Actor returns the authenticated principal, or nil for anonymous requests.
Whether anonymity is acceptable is decided by the service.
*/
func Actor(request *http.Request) *model.Actor {
	claims := ctxutil.Claims(request.Context())
	if claims == nil {
		return nil
	}
	return &model.Actor{ID: claims.UserID, Username: claims.Username}
}

/*
Page parses "page" and "limit" under a listing policy.

Returns:
  - pagination.Params: The parsed values, defaults applied
  - error: 400 "Invalid pagination parameters" on malformed or out-of-range input
*/
func Page(request *http.Request, policy pagination.Policy) (pagination.Params, error) {
	params, err := pagination.Parse(request.URL.Query(), policy)
	return params, validate.PageError(err, policy)
}

// Query returns a query-string value.
func Query(request *http.Request, name string) string {
	return request.URL.Query().Get(name)
}

// Viewer returns the identity used to de-duplicate views of this request.
func Viewer(request *http.Request) string {
	return ctxutil.Viewer(request.Context())
}
