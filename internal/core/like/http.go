// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package like

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/vidora/internal/core/model"
	"github.com/taibuivan/vidora/internal/platform/middleware"
	requestutil "github.com/taibuivan/vidora/internal/platform/request"
	"github.com/taibuivan/vidora/internal/platform/respond"
	"github.com/taibuivan/vidora/pkg/pagination"
)

// Handler implements the HTTP layer for likes.
type Handler struct {
	service *Service
}

// NewHandler constructs a like [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type toggleFunc func(context.Context, *model.Actor, string) (bool, error)

// Routes returns a [chi.Router] configured with the like endpoints.
// Every route requires authentication.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Post("/toggle/v/{targetID}", handler.toggle(handler.service.ToggleVideo, "Video"))
	router.Post("/toggle/c/{targetID}", handler.toggle(handler.service.ToggleComment, "Comment"))
	router.Post("/toggle/t/{targetID}", handler.toggle(handler.service.ToggleTweet, "Tweet"))
	router.Get("/videos", handler.listLikedVideos)

	return router
}

func (handler *Handler) toggle(flip toggleFunc, resource string) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		liked, err := flip(request.Context(), requestutil.Actor(request), requestutil.Param(request, "targetID"))
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		message := resource + " unliked successfully"
		if liked {
			message = resource + " liked successfully"
		}
		respond.OK(writer, map[string]bool{"is_liked": liked}, message)
	}
}

func (handler *Handler) listLikedVideos(writer http.ResponseWriter, request *http.Request) {
	page, err := requestutil.Page(request, pagination.General)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	videos, err := handler.service.LikedVideos(request.Context(), requestutil.Actor(request), page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, videos, "Liked videos fetched successfully")
}
