package handlers

import (
	"context"
	"net/http"

	"fitFlowAPI/internal/notification"
)

// DeviceRegistrar subscribes a device to the user's push topic.
type DeviceRegistrar interface {
	RegisterDevice(ctx context.Context, uid string, req notification.RegisterDeviceRequest) error
}

type NotificationHandler struct {
	registrar DeviceRegistrar
}

// NewNotificationHandler takes a nil registrar when push is disabled.
func NewNotificationHandler(registrar DeviceRegistrar) *NotificationHandler {
	return &NotificationHandler{
		registrar: registrar,
	}
}

func (h *NotificationHandler) RegisterDevice(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	uid, ok := authenticatedUser(w, r)
	if !ok {
		return
	}

	if h.registrar == nil {
		respondWithError(w, http.StatusServiceUnavailable, "Push notifications are disabled")
		return
	}

	var req notification.RegisterDeviceRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !req.Valid() {
		respondWithError(w, http.StatusBadRequest, "A device token is required and platform must be ios, android or web")
		return
	}

	if err := h.registrar.RegisterDevice(ctx, uid, req); err != nil {
		respondWithServiceError(w, "RegisterDevice", err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Device registered"})
}
