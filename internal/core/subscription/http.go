// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package subscription

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/vidora/internal/platform/middleware"
	requestutil "github.com/taibuivan/vidora/internal/platform/request"
	"github.com/taibuivan/vidora/internal/platform/respond"
	"github.com/taibuivan/vidora/pkg/pagination"
)

// Handler implements the HTTP layer for subscriptions.
type Handler struct {
	service *Service
}

// NewHandler constructs a subscription [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with the subscription endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/c/{channelID}/subscribers", handler.listSubscribers)
	router.Get("/u/{subscriberID}", handler.listSubscribedChannels)

	router.Group(func(member chi.Router) {
		member.Use(middleware.RequireAuth)
		member.Post("/c/{channelID}", handler.toggleSubscription)
	})

	return router
}

func (handler *Handler) toggleSubscription(writer http.ResponseWriter, request *http.Request) {
	subscribed, err := handler.service.Toggle(request.Context(), requestutil.Actor(request), requestutil.Param(request, "channelID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	message := "Unsubscribed successfully"
	if subscribed {
		message = "Subscribed successfully"
	}
	respond.OK(writer, map[string]bool{"is_subscribed": subscribed}, message)
}

func (handler *Handler) listSubscribers(writer http.ResponseWriter, request *http.Request) {
	page, err := requestutil.Page(request, pagination.General)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	subscribers, err := handler.service.Subscribers(request.Context(), requestutil.Param(request, "channelID"), page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, subscribers, "Subscribers fetched successfully")
}

func (handler *Handler) listSubscribedChannels(writer http.ResponseWriter, request *http.Request) {
	page, err := requestutil.Page(request, pagination.General)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	channels, err := handler.service.SubscribedChannels(request.Context(), requestutil.Param(request, "subscriberID"), page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, channels, "Subscribed channels fetched successfully")
}
