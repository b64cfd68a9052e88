package handlers

import (
	"context"
	"net/http"

	"fitFlowAPI/internal/daykey"
	"fitFlowAPI/internal/food"
	"fitFlowAPI/services"

	"github.com/gorilla/mux"
)

type FoodHandler struct {
	foodService *services.FoodService
}

func NewFoodHandler(foodService *services.FoodService) *FoodHandler {
	return &FoodHandler{
		foodService: foodService,
	}
}

// GetFoods returns the food log of ?date=MM-DD-YYYY, today by default.
func (h *FoodHandler) GetFoods(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	uid, ok := authenticatedUser(w, r)
	if !ok {
		return
	}

	day, err := h.foodService.Day(ctx, uid, daykey.Key(r.URL.Query().Get("date")))
	if err != nil {
		respondWithServiceError(w, "GetFoods", err)
		return
	}
	respondWithJSON(w, http.StatusOK, day)
}

func (h *FoodHandler) AddFood(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	uid, ok := authenticatedUser(w, r)
	if !ok {
		return
	}

	var req services.FoodRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	day, err := h.foodService.Add(ctx, uid, req)
	if err != nil {
		respondWithServiceError(w, "AddFood", err)
		return
	}
	respondWithJSON(w, http.StatusCreated, day)
}

func (h *FoodHandler) EditFood(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	uid, ok := authenticatedUser(w, r)
	if !ok {
		return
	}
	index, ok := pathIndex(w, r)
	if !ok {
		return
	}

	var req services.FoodRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	day, err := h.foodService.Edit(ctx, uid, index, req)
	if err != nil {
		respondWithServiceError(w, "EditFood", err)
		return
	}
	respondWithJSON(w, http.StatusOK, day)
}

func (h *FoodHandler) RemoveFood(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	uid, ok := authenticatedUser(w, r)
	if !ok {
		return
	}
	index, ok := pathIndex(w, r)
	if !ok {
		return
	}

	removed, err := h.foodService.Remove(ctx, uid, index)
	if err != nil {
		respondWithServiceError(w, "RemoveFood", err)
		return
	}
	respondWithJSON(w, http.StatusOK, removed)
}

// RestoreFood is the undo of RemoveFood: the body is the removed food.
func (h *FoodHandler) RestoreFood(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	uid, ok := authenticatedUser(w, r)
	if !ok {
		return
	}
	index, ok := pathIndex(w, r)
	if !ok {
		return
	}

	var req services.FoodRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	day, err := h.foodService.Restore(ctx, uid, index, req)
	if err != nil {
		respondWithServiceError(w, "RestoreFood", err)
		return
	}
	respondWithJSON(w, http.StatusOK, day)
}

func (h *FoodHandler) GetRecentFoods(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	uid, ok := authenticatedUser(w, r)
	if !ok {
		return
	}

	recent, err := h.foodService.Recent(ctx, uid)
	if err != nil {
		respondWithServiceError(w, "GetRecentFoods", err)
		return
	}
	respondWithJSON(w, http.StatusOK, recent)
}

func (h *FoodHandler) GetMyFoods(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	uid, ok := authenticatedUser(w, r)
	if !ok {
		return
	}

	list, err := h.foodService.MyFoods(ctx, uid)
	if err != nil {
		respondWithServiceError(w, "GetMyFoods", err)
		return
	}
	respondWithJSON(w, http.StatusOK, list)
}

func (h *FoodHandler) SaveMyFood(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	uid, ok := authenticatedUser(w, r)
	if !ok {
		return
	}

	var req services.FoodRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	saved, err := h.foodService.SaveMyFood(ctx, uid, req)
	if err != nil {
		respondWithServiceError(w, "SaveMyFood", err)
		return
	}
	respondWithJSON(w, http.StatusCreated, saved)
}

func (h *FoodHandler) DeleteMyFood(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	uid, ok := authenticatedUser(w, r)
	if !ok {
		return
	}

	if err := h.foodService.DeleteMyFood(ctx, uid, mux.Vars(r)["id"]); err != nil {
		respondWithServiceError(w, "DeleteMyFood", err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Food deleted"})
}

// AddMyFood logs a saved food into today's log, optionally tagged with ?meal=.
func (h *FoodHandler) AddMyFood(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	uid, ok := authenticatedUser(w, r)
	if !ok {
		return
	}

	day, err := h.foodService.AddMyFood(ctx, uid, mux.Vars(r)["id"], r.URL.Query().Get("meal"))
	if err != nil {
		respondWithServiceError(w, "AddMyFood", err)
		return
	}
	respondWithJSON(w, http.StatusCreated, day)
}

func (h *FoodHandler) GetTargets(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	uid, ok := authenticatedUser(w, r)
	if !ok {
		return
	}

	targets, err := h.foodService.Targets(ctx, uid)
	if err != nil {
		respondWithServiceError(w, "GetTargets", err)
		return
	}
	respondWithJSON(w, http.StatusOK, targets)
}

func (h *FoodHandler) SetTargets(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	uid, ok := authenticatedUser(w, r)
	if !ok {
		return
	}

	var req food.Targets
	if !decodeJSON(w, r, &req) {
		return
	}

	targets, err := h.foodService.SetTargets(ctx, uid, req)
	if err != nil {
		respondWithServiceError(w, "SetTargets", err)
		return
	}
	respondWithJSON(w, http.StatusOK, targets)
}
