package handler

import (
	"net/http"

	"github.com/Rahanur19/youStream/internal/httputil"
	"github.com/Rahanur19/youStream/internal/model"
	"github.com/Rahanur19/youStream/internal/service"
)

type SubscriptionHandler struct {
	subscriptionService *service.SubscriptionService
}

func NewSubscriptionHandler(subscriptionService *service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService}
}

// Toggle handles POST /subscriptions/c/{channelId}
// Responds 201 when a subscription was created and 200 when one was removed.
func (h *SubscriptionHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	channelID, ok := pathID(w, r, "channelId")
	if !ok {
		return
	}

	result, err := h.subscriptionService.Toggle(r.Context(), userID, channelID)
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}

	if result.State == model.ToggleAdded {
		httputil.WriteSuccess(w, http.StatusCreated, "Subscribed successfully", result)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "Unsubscribed successfully", result)
}

// Subscribers handles GET /subscriptions/c/{channelId}
func (h *SubscriptionHandler) Subscribers(w http.ResponseWriter, r *http.Request) {
	channelID, ok := pathID(w, r, "channelId")
	if !ok {
		return
	}

	list, err := h.subscriptionService.Subscribers(r.Context(), channelID)
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "Subscribers fetched successfully", list)
}

// Channels handles GET /subscriptions/u/{subscriberId}
func (h *SubscriptionHandler) Channels(w http.ResponseWriter, r *http.Request) {
	subscriberID, ok := pathID(w, r, "subscriberId")
	if !ok {
		return
	}

	list, err := h.subscriptionService.Channels(r.Context(), subscriberID)
	if err != nil {
		httputil.WriteServiceError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "Subscribed channels fetched successfully", list)
}
