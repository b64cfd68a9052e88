package handlers

import (
	"context"
	"net/http"

	"fitFlowAPI/services"
)

type GoalHandler struct {
	goalService  *services.GoalService
	statsService *services.StatsService
}

func NewGoalHandler(goalService *services.GoalService, statsService *services.StatsService) *GoalHandler {
	return &GoalHandler{
		goalService:  goalService,
		statsService: statsService,
	}
}

type setGoalRequest struct {
	GoalWeight float64 `json:"goal_weight"`
}

func (h *GoalHandler) GetGoal(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	uid, ok := authenticatedUser(w, r)
	if !ok {
		return
	}

	view, err := h.goalService.Goal(ctx, uid)
	if err != nil {
		respondWithServiceError(w, "GetGoal", err)
		return
	}
	respondWithJSON(w, http.StatusOK, view)
}

func (h *GoalHandler) SetGoal(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	uid, ok := authenticatedUser(w, r)
	if !ok {
		return
	}

	var req setGoalRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	view, err := h.goalService.SetGoal(ctx, uid, req.GoalWeight)
	if err != nil {
		respondWithServiceError(w, "SetGoal", err)
		return
	}
	respondWithJSON(w, http.StatusOK, view)
}

func (h *GoalHandler) GetPrediction(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	uid, ok := authenticatedUser(w, r)
	if !ok {
		return
	}

	res, err := h.goalService.Prediction(ctx, uid)
	if err != nil {
		respondWithServiceError(w, "GetPrediction", err)
		return
	}
	respondWithJSON(w, http.StatusOK, res)
}

func (h *GoalHandler) GetWeightSeries(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	uid, ok := authenticatedUser(w, r)
	if !ok {
		return
	}

	series, err := h.goalService.Series(ctx, uid)
	if err != nil {
		respondWithServiceError(w, "GetWeightSeries", err)
		return
	}
	respondWithJSON(w, http.StatusOK, series)
}

func (h *GoalHandler) GetWeeklyStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	uid, ok := authenticatedUser(w, r)
	if !ok {
		return
	}

	stats, err := h.statsService.Weekly(ctx, uid)
	if err != nil {
		respondWithServiceError(w, "GetWeeklyStats", err)
		return
	}
	respondWithJSON(w, http.StatusOK, stats)
}

func (h *GoalHandler) GetUserStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	uid, ok := authenticatedUser(w, r)
	if !ok {
		return
	}

	stats, err := h.statsService.Totals(ctx, uid)
	if err != nil {
		respondWithServiceError(w, "GetUserStats", err)
		return
	}
	respondWithJSON(w, http.StatusOK, stats)
}
