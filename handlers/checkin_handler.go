package handlers

import (
	"context"
	"net/http"

	"fitFlowAPI/internal/daykey"
	"fitFlowAPI/services"

	"github.com/gorilla/mux"
)

type CheckInHandler struct {
	checkInService *services.CheckInService
}

func NewCheckInHandler(checkInService *services.CheckInService) *CheckInHandler {
	return &CheckInHandler{
		checkInService: checkInService,
	}
}

func (h *CheckInHandler) GetStreak(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	uid, ok := authenticatedUser(w, r)
	if !ok {
		return
	}

	view, err := h.checkInService.Streak(ctx, uid)
	if err != nil {
		respondWithServiceError(w, "GetStreak", err)
		return
	}
	respondWithJSON(w, http.StatusOK, view)
}

func (h *CheckInHandler) ResetStreak(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	uid, ok := authenticatedUser(w, r)
	if !ok {
		return
	}

	view, err := h.checkInService.ResetStreak(ctx, uid)
	if err != nil {
		respondWithServiceError(w, "ResetStreak", err)
		return
	}
	respondWithJSON(w, http.StatusOK, view)
}

func (h *CheckInHandler) ResetWeek(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	uid, ok := authenticatedUser(w, r)
	if !ok {
		return
	}

	view, err := h.checkInService.ResetWeek(ctx, uid)
	if err != nil {
		respondWithServiceError(w, "ResetWeek", err)
		return
	}
	respondWithJSON(w, http.StatusOK, view)
}

func (h *CheckInHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	uid, ok := authenticatedUser(w, r)
	if !ok {
		return
	}

	var req services.CheckInRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.checkInService.CheckIn(ctx, uid, req)
	if err != nil {
		respondWithServiceError(w, "CheckIn", err)
		return
	}
	respondWithJSON(w, http.StatusCreated, res)
}

func (h *CheckInHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	uid, ok := authenticatedUser(w, r)
	if !ok {
		return
	}

	day, err := h.checkInService.History(ctx, uid, daykey.Key(mux.Vars(r)["date"]))
	if err != nil {
		respondWithServiceError(w, "GetHistory", err)
		return
	}
	respondWithJSON(w, http.StatusOK, day)
}

func (h *CheckInHandler) DeleteCheckIn(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	uid, ok := authenticatedUser(w, r)
	if !ok {
		return
	}

	if err := h.checkInService.DeleteCheckIn(ctx, uid, daykey.Key(mux.Vars(r)["date"])); err != nil {
		respondWithServiceError(w, "DeleteCheckIn", err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Check-in deleted"})
}
