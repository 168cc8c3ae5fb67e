package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Rahanur19/youStream/internal/httputil"
	"github.com/Rahanur19/youStream/internal/model"
	"github.com/Rahanur19/youStream/internal/service"
	"github.com/Rahanur19/youStream/internal/transport/http/middleware"
)

// likeKinds maps the short path segment to a likeable kind.
var likeKinds = map[string]model.ContentKind{
	"v": model.ContentVideo,
	"c": model.ContentComment,
	"p": model.ContentCommunityPost,
}

type LikeHandler struct {
	likeService *service.LikeService
}

func NewLikeHandler(likeService *service.LikeService) *LikeHandler {
	return &LikeHandler{likeService: likeService}
}

// ToggleVideo handles POST /likes/toggle/v/{videoId}
func (h *LikeHandler) ToggleVideo(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, model.ContentVideo, "videoId")
}

// ToggleComment handles POST /likes/toggle/c/{commentId}
func (h *LikeHandler) ToggleComment(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, model.ContentComment, "commentId")
}

// TogglePost handles POST /likes/toggle/p/{postId}
func (h *LikeHandler) TogglePost(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, model.ContentCommunityPost, "postId")
}

func (h *LikeHandler) toggle(w http.ResponseWriter, r *http.Request, kind model.ContentKind, param string) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	targetID, ok := pathID(w, r, param)
	if !ok {
		return
	}

	result, err := h.likeService.Toggle(r.Context(), model.ContentRef{Kind: kind, ID: targetID}, userID)
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}

	message := "Like added"
	if result.State == model.ToggleRemoved {
		message = "Like removed"
	}
	httputil.WriteSuccess(w, http.StatusOK, message, result)
}

// LikedVideos handles GET /likes/videos
func (h *LikeHandler) LikedVideos(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	videos, err := h.likeService.LikedVideos(r.Context(), userID)
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "Liked videos fetched successfully", videos)
}

// Count handles GET /likes/count/{kind}/{id}
func (h *LikeHandler) Count(w http.ResponseWriter, r *http.Request) {
	kind, found := likeKinds[chi.URLParam(r, "kind")]
	if !found {
		httputil.WriteServiceError(w, r, model.ErrNotLikeable)
		return
	}
	targetID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	viewerID, _ := middleware.GetUserIDFromContext(r.Context())
	count, err := h.likeService.Count(r.Context(), model.ContentRef{Kind: kind, ID: targetID}, viewerID)
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "Like count fetched successfully", count)
}
