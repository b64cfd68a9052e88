package handlers

import (
	"context"
	"net/http"

	"fitFlowAPI/services"
)

type AchievementHandler struct {
	achievementService *services.AchievementService
}

func NewAchievementHandler(achievementService *services.AchievementService) *AchievementHandler {
	return &AchievementHandler{
		achievementService: achievementService,
	}
}

// GetAchievements returns every catalog entry with progress. Unlocks found
// while evaluating are stored, so GET and POST /evaluate answer the same.
func (h *AchievementHandler) GetAchievements(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	uid, ok := authenticatedUser(w, r)
	if !ok {
		return
	}

	ev, err := h.achievementService.List(ctx, uid)
	if err != nil {
		respondWithServiceError(w, "GetAchievements", err)
		return
	}
	respondWithJSON(w, http.StatusOK, ev)
}
