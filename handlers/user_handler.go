package handlers

import (
	"context"
	"net/http"

	"fitFlowAPI/internal/profile"
	"fitFlowAPI/internal/user"
	"fitFlowAPI/services"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	uid, ok := authenticatedUser(w, r)
	if !ok {
		return
	}

	doc, err := h.userService.GetUser(ctx, uid)
	if err != nil {
		respondWithServiceError(w, "GetProfile", err)
		return
	}
	respondWithJSON(w, http.StatusOK, doc)
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	uid, ok := authenticatedUser(w, r)
	if !ok {
		return
	}

	var req user.UpdateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	doc, err := h.userService.UpdateProfile(ctx, uid, req)
	if err != nil {
		respondWithServiceError(w, "UpdateProfile", err)
		return
	}
	respondWithJSON(w, http.StatusOK, doc)
}

// SaveOnboarding stores the body profile and answers with the computed plan.
func (h *UserHandler) SaveOnboarding(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	uid, ok := authenticatedUser(w, r)
	if !ok {
		return
	}

	var req profile.Profile
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.userService.SaveOnboarding(ctx, uid, req)
	if err != nil {
		respondWithServiceError(w, "SaveOnboarding", err)
		return
	}
	respondWithJSON(w, http.StatusOK, res)
}
