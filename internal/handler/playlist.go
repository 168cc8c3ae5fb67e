package handler

import (
	"context"
	"net/http"

	"github.com/Rahanur19/youStream/internal/httputil"
	"github.com/Rahanur19/youStream/internal/model"
	"github.com/Rahanur19/youStream/internal/service"
)

type PlaylistHandler struct {
	playlistService *service.PlaylistService
}

func NewPlaylistHandler(playlistService *service.PlaylistService) *PlaylistHandler {
	return &PlaylistHandler{playlistService: playlistService}
}

// Create handles POST /playlists
func (h *PlaylistHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req model.PlaylistRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	playlist, err := h.playlistService.Create(r.Context(), userID, &req)
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusCreated, "Playlist created successfully", playlist)
}

// ListByUser handles GET /playlists/user/{userId}
func (h *PlaylistHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}

	playlists, err := h.playlistService.ListByOwner(r.Context(), ownerID)
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "Playlists fetched successfully", playlists)
}

// Get handles GET /playlists/{playlistId}
func (h *PlaylistHandler) Get(w http.ResponseWriter, r *http.Request) {
	playlistID, ok := pathID(w, r, "playlistId")
	if !ok {
		return
	}

	playlist, err := h.playlistService.Get(r.Context(), playlistID)
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "Playlist fetched successfully", playlist)
}

// Update handles PATCH /playlists/{playlistId}
func (h *PlaylistHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	playlistID, ok := pathID(w, r, "playlistId")
	if !ok {
		return
	}

	var req model.PlaylistRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	playlist, err := h.playlistService.Update(r.Context(), playlistID, userID, &req)
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "Playlist updated successfully", playlist)
}

// Delete handles DELETE /playlists/{playlistId}
func (h *PlaylistHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	playlistID, ok := pathID(w, r, "playlistId")
	if !ok {
		return
	}

	if err := h.playlistService.Delete(r.Context(), playlistID, userID); err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "Playlist deleted successfully", struct{}{})
}

// AddVideo handles PATCH /playlists/add/{videoId}/{playlistId}
func (h *PlaylistHandler) AddVideo(w http.ResponseWriter, r *http.Request) {
	h.membership(w, r, h.playlistService.AddVideo, "Video added to playlist")
}

// RemoveVideo handles PATCH /playlists/remove/{videoId}/{playlistId}
func (h *PlaylistHandler) RemoveVideo(w http.ResponseWriter, r *http.Request) {
	h.membership(w, r, h.playlistService.RemoveVideo, "Video removed from playlist")
}

func (h *PlaylistHandler) membership(
	w http.ResponseWriter,
	r *http.Request,
	apply func(ctx context.Context, playlistID, videoID, userID string) (*model.Playlist, error),
	message string,
) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	videoID, ok := pathID(w, r, "videoId")
	if !ok {
		return
	}
	playlistID, ok := pathID(w, r, "playlistId")
	if !ok {
		return
	}

	playlist, err := apply(r.Context(), playlistID, videoID, userID)
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, message, playlist)
}
