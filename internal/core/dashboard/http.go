// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dashboard

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/vidora/internal/platform/middleware"
	requestutil "github.com/taibuivan/vidora/internal/platform/request"
	"github.com/taibuivan/vidora/internal/platform/respond"
	"github.com/taibuivan/vidora/pkg/pagination"
)

// Handler implements the HTTP layer for the channel dashboard.
type Handler struct {
	service *Service
}

// NewHandler constructs a dashboard [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with the dashboard endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Get("/stats", handler.getStats)
	router.Get("/videos", handler.listVideos)

	return router
}

func (handler *Handler) getStats(writer http.ResponseWriter, request *http.Request) {
	stats, err := handler.service.ChannelStats(request.Context(), requestutil.Actor(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, stats, "Channel stats fetched successfully")
}

func (handler *Handler) listVideos(writer http.ResponseWriter, request *http.Request) {
	page, err := requestutil.Page(request, pagination.Channel)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	videos, err := handler.service.ChannelVideos(request.Context(), requestutil.Actor(request),
		requestutil.Query(request, "sortBy"), requestutil.Query(request, "sortType"), page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, videos, "Channel videos fetched successfully")
}
