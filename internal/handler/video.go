package handler

import (
	"net/http"
	"strings"

	"github.com/Rahanur19/youStream/internal/httputil"
	"github.com/Rahanur19/youStream/internal/model"
	"github.com/Rahanur19/youStream/internal/service"
	"github.com/Rahanur19/youStream/internal/transport/http/middleware"
)

type VideoHandler struct {
	videoService *service.VideoService
}

func NewVideoHandler(videoService *service.VideoService) *VideoHandler {
	return &VideoHandler{videoService: videoService}
}

// List handles GET /videos?query=&userId=&sortBy=&sortType=&page=&limit=
func (h *VideoHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit, err := pageParams(r)
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}

	q := r.URL.Query()
	sortType := strings.ToLower(q.Get("sortType"))
	if sortType != "" && sortType != "asc" && sortType != "desc" {
		httputil.WriteBadRequest(w, "sortType must be asc or desc")
		return
	}

	viewerID, _ := middleware.GetUserIDFromContext(r.Context())
	result, err := h.videoService.List(r.Context(), model.VideoQuery{
		OwnerID:  q.Get("userId"),
		Query:    strings.TrimSpace(q.Get("query")),
		SortBy:   q.Get("sortBy"),
		SortDesc: sortType != "asc",
		Page:     page,
		Limit:    limit,
		ViewerID: viewerID,
	})
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "Videos fetched successfully", result)
}

// Publish handles POST /videos (multipart videoFile, thumbnail, title, description)
func (h *VideoHandler) Publish(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	if !parseMultipart(w, r, maxVideoForm) {
		return
	}

	videoFile, err := formFile(r, "videoFile")
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}
	thumbnail, err := formFile(r, "thumbnail")
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}

	video, err := h.videoService.Publish(r.Context(), userID, &model.PublishVideoInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		VideoFile:   videoFile,
		Thumbnail:   thumbnail,
	})
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusCreated, "Video published successfully", video)
}

// Get handles GET /videos/{videoId}
func (h *VideoHandler) Get(w http.ResponseWriter, r *http.Request) {
	videoID, ok := pathID(w, r, "videoId")
	if !ok {
		return
	}
	viewerID, _ := middleware.GetUserIDFromContext(r.Context())

	video, err := h.videoService.Get(r.Context(), videoID, viewerID)
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "Video fetched successfully", video)
}

// Update handles PATCH /videos/{videoId} (multipart title, description, thumbnail; all optional)
func (h *VideoHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	videoID, ok := pathID(w, r, "videoId")
	if !ok {
		return
	}
	if !parseMultipart(w, r, maxImageForm) {
		return
	}

	thumbnail, err := formFile(r, "thumbnail")
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}

	video, err := h.videoService.Update(r.Context(), videoID, userID, &model.UpdateVideoInput{
		Title:       optionalFormValue(r, "title"),
		Description: optionalFormValue(r, "description"),
		Thumbnail:   thumbnail,
	})
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "Video updated successfully", video)
}

// Delete handles DELETE /videos/{videoId}
func (h *VideoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	videoID, ok := pathID(w, r, "videoId")
	if !ok {
		return
	}

	if err := h.videoService.Delete(r.Context(), videoID, userID); err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "Video deleted successfully", struct{}{})
}

// TogglePublish handles PATCH /videos/toggle/publish/{videoId}
func (h *VideoHandler) TogglePublish(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	videoID, ok := pathID(w, r, "videoId")
	if !ok {
		return
	}

	video, err := h.videoService.TogglePublish(r.Context(), videoID, userID)
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "Publish status toggled successfully", video)
}
