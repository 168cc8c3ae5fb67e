package handler

import (
	"net/http"

	"github.com/Rahanur19/youStream/internal/httputil"
	"github.com/Rahanur19/youStream/internal/model"
	"github.com/Rahanur19/youStream/internal/service"
)

type CommunityPostHandler struct {
	postService *service.CommunityPostService
}

func NewCommunityPostHandler(postService *service.CommunityPostService) *CommunityPostHandler {
	return &CommunityPostHandler{postService: postService}
}

// Create handles POST /community-posts
func (h *CommunityPostHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req model.CommunityPostRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	post, err := h.postService.Create(r.Context(), userID, &req)
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusCreated, "Community post created successfully", post)
}

// ListByUser handles GET /community-posts/user/{userId}
func (h *CommunityPostHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}

	posts, err := h.postService.ListByOwner(r.Context(), ownerID)
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "Community posts fetched successfully", posts)
}

// Get handles GET /community-posts/{postId}
func (h *CommunityPostHandler) Get(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(w, r, "postId")
	if !ok {
		return
	}

	post, err := h.postService.Get(r.Context(), postID)
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "Community post fetched successfully", post)
}

// Update handles PATCH /community-posts/{postId}
func (h *CommunityPostHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	postID, ok := pathID(w, r, "postId")
	if !ok {
		return
	}

	var req model.CommunityPostRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	post, err := h.postService.Update(r.Context(), postID, userID, &req)
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "Community post updated successfully", post)
}

// Delete handles DELETE /community-posts/{postId}
func (h *CommunityPostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	postID, ok := pathID(w, r, "postId")
	if !ok {
		return
	}

	if err := h.postService.Delete(r.Context(), postID, userID); err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "Community post deleted successfully", struct{}{})
}
