package handlers

import (
	"context"
	"net/http"

	"fitFlowAPI/services"

	"github.com/gorilla/mux"
)

type PhotoHandler struct {
	photoService *services.PhotoService
}

func NewPhotoHandler(photoService *services.PhotoService) *PhotoHandler {
	return &PhotoHandler{
		photoService: photoService,
	}
}

func (h *PhotoHandler) GetPhotos(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	uid, ok := authenticatedUser(w, r)
	if !ok {
		return
	}

	photos, err := h.photoService.List(ctx, uid)
	if err != nil {
		respondWithServiceError(w, "GetPhotos", err)
		return
	}
	respondWithJSON(w, http.StatusOK, photos)
}

func (h *PhotoHandler) AddPhoto(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	uid, ok := authenticatedUser(w, r)
	if !ok {
		return
	}

	var req services.AddPhotoRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.photoService.Add(ctx, uid, req)
	if err != nil {
		respondWithServiceError(w, "AddPhoto", err)
		return
	}
	respondWithJSON(w, http.StatusCreated, res)
}

func (h *PhotoHandler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	uid, ok := authenticatedUser(w, r)
	if !ok {
		return
	}

	if err := h.photoService.Delete(ctx, uid, mux.Vars(r)["id"]); err != nil {
		respondWithServiceError(w, "DeletePhoto", err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Photo deleted"})
}
