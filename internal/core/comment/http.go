// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package comment

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/vidora/internal/platform/middleware"
	requestutil "github.com/taibuivan/vidora/internal/platform/request"
	"github.com/taibuivan/vidora/internal/platform/respond"
	"github.com/taibuivan/vidora/pkg/pagination"
)

// Handler implements the HTTP layer for comments.
type Handler struct {
	service *Service
}

// NewHandler constructs a comment [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type contentRequest struct {
	Content string `json:"content"`
}

// Routes returns a [chi.Router] configured with the comment endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/{videoID}", handler.listComments)

	router.Group(func(member chi.Router) {
		member.Use(middleware.RequireAuth)

		member.Post("/{videoID}", handler.addComment)
		member.Patch("/c/{commentID}", handler.updateComment)
		member.Delete("/c/{commentID}", handler.deleteComment)
	})

	return router
}

func (handler *Handler) listComments(writer http.ResponseWriter, request *http.Request) {
	page, err := requestutil.Page(request, pagination.General)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	comments, err := handler.service.List(request.Context(), requestutil.Actor(request), requestutil.Param(request, "videoID"), page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, comments, "Comments fetched successfully")
}

func (handler *Handler) addComment(writer http.ResponseWriter, request *http.Request) {
	var body contentRequest
	if err := requestutil.DecodeJSON(writer, request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.service.Add(request.Context(), requestutil.Actor(request), requestutil.Param(request, "videoID"), body.Content)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, comment, "Comment added successfully")
}

func (handler *Handler) updateComment(writer http.ResponseWriter, request *http.Request) {
	var body contentRequest
	if err := requestutil.DecodeJSON(writer, request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.service.Update(request.Context(), requestutil.Actor(request), requestutil.Param(request, "commentID"), body.Content)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, comment, "Comment updated successfully")
}

func (handler *Handler) deleteComment(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Delete(request.Context(), requestutil.Actor(request), requestutil.Param(request, "commentID")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, struct{}{}, "Comment deleted successfully")
}
