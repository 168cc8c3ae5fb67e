package handler

import (
	"net/http"

	"github.com/Rahanur19/youStream/internal/httputil"
	"github.com/Rahanur19/youStream/internal/model"
	"github.com/Rahanur19/youStream/internal/service"
	"github.com/Rahanur19/youStream/internal/transport/http/middleware"
)

type CommentHandler struct {
	commentService *service.CommentService
}

func NewCommentHandler(commentService *service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// ListForVideo handles GET /comments/video/{videoId}
func (h *CommentHandler) ListForVideo(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, model.ContentVideo, "videoId")
}

// CreateForVideo handles POST /comments/video/{videoId}
func (h *CommentHandler) CreateForVideo(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, model.ContentVideo, "videoId")
}

// ListForPost handles GET /comments/post/{postId}
func (h *CommentHandler) ListForPost(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, model.ContentCommunityPost, "postId")
}

// CreateForPost handles POST /comments/post/{postId}
func (h *CommentHandler) CreateForPost(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, model.ContentCommunityPost, "postId")
}

func (h *CommentHandler) list(w http.ResponseWriter, r *http.Request, kind model.ContentKind, param string) {
	parentID, ok := pathID(w, r, param)
	if !ok {
		return
	}
	page, limit, err := pageParams(r)
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}

	viewerID, _ := middleware.GetUserIDFromContext(r.Context())
	result, err := h.commentService.List(r.Context(), model.ContentRef{Kind: kind, ID: parentID}, viewerID, page, limit)
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "Comments fetched successfully", result)
}

func (h *CommentHandler) create(w http.ResponseWriter, r *http.Request, kind model.ContentKind, param string) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	parentID, ok := pathID(w, r, param)
	if !ok {
		return
	}

	var req model.CommentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	comment, err := h.commentService.Create(r.Context(), model.ContentRef{Kind: kind, ID: parentID}, userID, req.Content)
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusCreated, "Comment added successfully", comment)
}

// Get handles GET /comments/c/{commentId}
func (h *CommentHandler) Get(w http.ResponseWriter, r *http.Request) {
	commentID, ok := pathID(w, r, "commentId")
	if !ok {
		return
	}

	comment, err := h.commentService.Get(r.Context(), commentID)
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "Comment fetched successfully", comment)
}

// Update handles PATCH /comments/c/{commentId}
func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	commentID, ok := pathID(w, r, "commentId")
	if !ok {
		return
	}

	var req model.CommentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	comment, err := h.commentService.Update(r.Context(), commentID, userID, req.Content)
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "Comment updated successfully", comment)
}

// Delete handles DELETE /comments/c/{commentId}
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	commentID, ok := pathID(w, r, "commentId")
	if !ok {
		return
	}

	if err := h.commentService.Delete(r.Context(), commentID, userID); err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "Comment deleted successfully", struct{}{})
}
