// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package playlist

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/vidora/internal/platform/middleware"
	requestutil "github.com/taibuivan/vidora/internal/platform/request"
	"github.com/taibuivan/vidora/internal/platform/respond"
	"github.com/taibuivan/vidora/pkg/pagination"
)

// Handler implements the HTTP layer for playlists.
type Handler struct {
	service *Service
}

// NewHandler constructs a playlist [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type createRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Routes returns a [chi.Router] configured with the playlist endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/user/{userID}", handler.listUserPlaylists)
	router.Get("/{playlistID}", handler.getPlaylist)

	router.Group(func(member chi.Router) {
		member.Use(middleware.RequireAuth)

		member.Post("/", handler.createPlaylist)
		member.Patch("/{playlistID}", handler.updatePlaylist)
		member.Delete("/{playlistID}", handler.deletePlaylist)
		member.Patch("/add/{videoID}/{playlistID}", handler.addVideo)
		member.Patch("/remove/{videoID}/{playlistID}", handler.removeVideo)
	})

	return router
}

func (handler *Handler) createPlaylist(writer http.ResponseWriter, request *http.Request) {
	var body createRequest
	if err := requestutil.DecodeJSON(writer, request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	playlist, err := handler.service.Create(request.Context(), requestutil.Actor(request), body.Name, body.Description)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, playlist, "Playlist created successfully")
}

func (handler *Handler) listUserPlaylists(writer http.ResponseWriter, request *http.Request) {
	page, err := requestutil.Page(request, pagination.General)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	playlists, err := handler.service.ListByUser(request.Context(), requestutil.Param(request, "userID"), page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, playlists, "User playlists fetched successfully")
}

func (handler *Handler) getPlaylist(writer http.ResponseWriter, request *http.Request) {
	playlist, err := handler.service.Get(request.Context(), requestutil.Actor(request), requestutil.Param(request, "playlistID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, playlist, "Playlist fetched successfully")
}

func (handler *Handler) updatePlaylist(writer http.ResponseWriter, request *http.Request) {
	var input UpdateInput
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	playlist, err := handler.service.Update(request.Context(), requestutil.Actor(request), requestutil.Param(request, "playlistID"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, playlist, "Playlist updated successfully")
}

func (handler *Handler) deletePlaylist(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Delete(request.Context(), requestutil.Actor(request), requestutil.Param(request, "playlistID")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, struct{}{}, "Playlist deleted successfully")
}

func (handler *Handler) addVideo(writer http.ResponseWriter, request *http.Request) {
	playlist, err := handler.service.AddVideo(request.Context(), requestutil.Actor(request),
		requestutil.Param(request, "videoID"), requestutil.Param(request, "playlistID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, playlist, "Video added to playlist successfully")
}

func (handler *Handler) removeVideo(writer http.ResponseWriter, request *http.Request) {
	playlist, err := handler.service.RemoveVideo(request.Context(), requestutil.Actor(request),
		requestutil.Param(request, "videoID"), requestutil.Param(request, "playlistID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, playlist, "Video removed from playlist successfully")
}
