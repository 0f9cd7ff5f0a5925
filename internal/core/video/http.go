// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package video

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/vidora/internal/platform/middleware"
	"github.com/taibuivan/vidora/internal/platform/objectstore"
	requestutil "github.com/taibuivan/vidora/internal/platform/request"
	"github.com/taibuivan/vidora/internal/platform/respond"
	"github.com/taibuivan/vidora/pkg/pagination"
)

// MediaResolver turns an object-storage key into a public URL and metadata.
type MediaResolver interface {
	Resolve(context context.Context, key string) (objectstore.Media, error)
}

// # Handler Implementation

// Handler implements the HTTP layer for videos.
type Handler struct {
	service *Service
	media   MediaResolver
}

// NewHandler constructs a video [Handler]. media may be nil, in which case
// publish requests must carry URLs instead of object keys.
func NewHandler(service *Service, media MediaResolver) *Handler {
	return &Handler{service: service, media: media}
}

// Routes returns a [chi.Router] configured with the video endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// ## Public Endpoints
	router.Get("/", handler.listVideos)
	router.Get("/{videoID}", handler.getVideo)

	// ## Owner Endpoints
	router.Group(func(owner chi.Router) {
		owner.Use(middleware.RequireAuth)

		owner.Post("/", handler.publishVideo)
		owner.Patch("/{videoID}", handler.updateVideo)
		owner.Delete("/{videoID}", handler.deleteVideo)
		owner.Patch("/toggle/publish/{videoID}", handler.togglePublish)
	})

	return router
}

/*
GET /api/v1/videos.

Request:
  - query: string (Substring of title or description)
  - userId: string (Author filter)
  - sortBy: string (created_at, views, duration, title)
  - sortType: string (asc, desc)
  - page, limit: int

Response:
  - 200: Page of [Card]
*/
func (handler *Handler) listVideos(writer http.ResponseWriter, request *http.Request) {
	page, err := requestutil.Page(request, pagination.General)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	filter := Filter{
		Query:    requestutil.Query(request, "query"),
		AuthorID: requestutil.Query(request, "userId"),
		SortBy:   requestutil.Query(request, "sortBy"),
		SortType: requestutil.Query(request, "sortType"),
	}

	videos, err := handler.service.List(request.Context(), filter, page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, videos, "Videos fetched successfully")
}

// getVideo handles GET /api/v1/videos/{videoID}.
func (handler *Handler) getVideo(writer http.ResponseWriter, request *http.Request) {
	video, err := handler.service.Get(request.Context(), requestutil.Actor(request), requestutil.Param(request, "videoID"), requestutil.Viewer(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, video, "Video fetched successfully")
}

// publishRequest accepts either public URLs or object keys of uploaded media.
type publishRequest struct {
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	VideoURL     string  `json:"video_url"`
	ThumbnailURL string  `json:"thumbnail"`
	Duration     float64 `json:"duration"`
	VideoKey     string  `json:"video_key"`
	ThumbnailKey string  `json:"thumbnail_key"`
}

/*
POST /api/v1/videos.

Description: When object keys are supplied, each is resolved against object
storage; the video's duration comes from the uploaded object's metadata.

Response:
  - 201: The created video
*/
func (handler *Handler) publishVideo(writer http.ResponseWriter, request *http.Request) {
	var body publishRequest
	if err := requestutil.DecodeJSON(writer, request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	input := PublishInput{
		Title:        body.Title,
		Description:  body.Description,
		VideoURL:     body.VideoURL,
		ThumbnailURL: body.ThumbnailURL,
		Duration:     body.Duration,
	}

	if handler.media != nil && body.VideoKey != "" {
		media, err := handler.media.Resolve(request.Context(), body.VideoKey)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		input.VideoURL, input.Duration = media.URL, media.Duration
	}

	if handler.media != nil && body.ThumbnailKey != "" {
		media, err := handler.media.Resolve(request.Context(), body.ThumbnailKey)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		input.ThumbnailURL = media.URL
	}

	video, err := handler.service.Publish(request.Context(), requestutil.Actor(request), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, video, "Video published successfully")
}

// updateVideo handles PATCH /api/v1/videos/{videoID}.
func (handler *Handler) updateVideo(writer http.ResponseWriter, request *http.Request) {
	var input UpdateInput
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	video, err := handler.service.Update(request.Context(), requestutil.Actor(request), requestutil.Param(request, "videoID"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, video, "Video updated successfully")
}

// deleteVideo handles DELETE /api/v1/videos/{videoID}.
func (handler *Handler) deleteVideo(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Delete(request.Context(), requestutil.Actor(request), requestutil.Param(request, "videoID")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, struct{}{}, "Video deleted successfully")
}

// togglePublish handles PATCH /api/v1/videos/toggle/publish/{videoID}.
func (handler *Handler) togglePublish(writer http.ResponseWriter, request *http.Request) {
	video, err := handler.service.TogglePublish(request.Context(), requestutil.Actor(request), requestutil.Param(request, "videoID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	message := "Video unpublished successfully"
	if video.IsPublished {
		message = "Video published successfully"
	}
	respond.OK(writer, map[string]bool{"is_published": video.IsPublished}, message)
}
