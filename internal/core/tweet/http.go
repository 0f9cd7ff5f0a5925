// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tweet

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/vidora/internal/platform/middleware"
	requestutil "github.com/taibuivan/vidora/internal/platform/request"
	"github.com/taibuivan/vidora/internal/platform/respond"
	"github.com/taibuivan/vidora/pkg/pagination"
)

// Handler implements the HTTP layer for tweets.
type Handler struct {
	service *Service
}

// NewHandler constructs a tweet [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type contentRequest struct {
	Content string `json:"content"`
}

// Routes returns a [chi.Router] configured with the tweet endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/user/{userID}", handler.listUserTweets)

	router.Group(func(member chi.Router) {
		member.Use(middleware.RequireAuth)

		member.Post("/", handler.createTweet)
		member.Patch("/{tweetID}", handler.updateTweet)
		member.Delete("/{tweetID}", handler.deleteTweet)
	})

	return router
}

func (handler *Handler) createTweet(writer http.ResponseWriter, request *http.Request) {
	var body contentRequest
	if err := requestutil.DecodeJSON(writer, request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	tweet, err := handler.service.Create(request.Context(), requestutil.Actor(request), body.Content)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, tweet, "Tweet created successfully")
}

func (handler *Handler) listUserTweets(writer http.ResponseWriter, request *http.Request) {
	page, err := requestutil.Page(request, pagination.General)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	timeline, err := handler.service.ListByUser(request.Context(), requestutil.Actor(request), requestutil.Param(request, "userID"), page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, timeline, "User tweets fetched successfully")
}

func (handler *Handler) updateTweet(writer http.ResponseWriter, request *http.Request) {
	var body contentRequest
	if err := requestutil.DecodeJSON(writer, request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	tweet, err := handler.service.Update(request.Context(), requestutil.Actor(request), requestutil.Param(request, "tweetID"), body.Content)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, tweet, "Tweet updated successfully")
}

func (handler *Handler) deleteTweet(writer http.ResponseWriter, request *http.Request) {
	tweet, err := handler.service.Delete(request.Context(), requestutil.Actor(request), requestutil.Param(request, "tweetID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, tweet, "Tweet deleted successfully")
}
