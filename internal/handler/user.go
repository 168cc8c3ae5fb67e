package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Rahanur19/youStream/internal/httputil"
	"github.com/Rahanur19/youStream/internal/model"
	"github.com/Rahanur19/youStream/internal/service"
	"github.com/Rahanur19/youStream/internal/transport/http/middleware"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// CurrentUser handles GET /users/current-user
func (h *UserHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	user, err := h.userService.GetByID(r.Context(), userID)
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "Current user fetched successfully", user)
}

// UpdateAccount handles PATCH /users/update-account
func (h *UserHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req model.UpdateAccountRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.userService.UpdateAccount(r.Context(), userID, &req)
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "Account details updated successfully", user)
}

// ChangePassword handles POST /users/change-password
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req model.ChangePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.userService.ChangePassword(r.Context(), userID, &req); err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "Password changed successfully", struct{}{})
}

// UpdateAvatar handles PATCH /users/avatar
func (h *UserHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	h.replaceImage(w, r, "avatar", h.userService.UpdateAvatar, "Avatar updated successfully")
}

// UpdateCoverImage handles PATCH /users/cover-image
func (h *UserHandler) UpdateCoverImage(w http.ResponseWriter, r *http.Request) {
	h.replaceImage(w, r, "coverImage", h.userService.UpdateCoverImage, "Cover image updated successfully")
}

type imageUpdater func(ctx context.Context, userID string, file *model.MediaFile) (*model.User, error)

func (h *UserHandler) replaceImage(w http.ResponseWriter, r *http.Request, field string, update imageUpdater, message string) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	if !parseMultipart(w, r, maxImageForm) {
		return
	}

	file, err := formFile(r, field)
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}
	if file == nil {
		httputil.WriteBadRequest(w, field+" file is required")
		return
	}

	user, err := update(r.Context(), userID, file)
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, message, user)
}

// ChannelProfile handles GET /users/c/{username}
func (h *UserHandler) ChannelProfile(w http.ResponseWriter, r *http.Request) {
	viewerID, _ := middleware.GetUserIDFromContext(r.Context())

	profile, err := h.userService.GetChannelProfile(r.Context(), chi.URLParam(r, "username"), viewerID)
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "User channel fetched successfully", profile)
}

// WatchHistory handles GET /users/history
func (h *UserHandler) WatchHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	videos, err := h.userService.GetWatchHistory(r.Context(), userID)
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "Watch history fetched successfully", videos)
}
