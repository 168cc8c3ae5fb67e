package handler

import (
	"net/http"

	"github.com/Rahanur19/youStream/internal/httputil"
	"github.com/Rahanur19/youStream/internal/service"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
}

func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Stats handles GET /dashboard/stats
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	stats, err := h.dashboardService.Stats(r.Context(), userID)
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "Channel stats fetched successfully", stats)
}

// Videos handles GET /dashboard/videos
func (h *DashboardHandler) Videos(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	videos, err := h.dashboardService.Videos(r.Context(), userID)
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "Channel videos fetched successfully", videos)
}
