package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"fitFlowAPI/internal/store"
	"fitFlowAPI/middleware"
	"fitFlowAPI/services"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const (
	requestTimeout = 5 * time.Second
	maxBodyBytes   = 2 << 20
)

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Errorf("Respond: failed to marshal %T: %v", payload, err)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

// respondWithServiceError maps service and store sentinels to status codes.
func respondWithServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrAlreadyCheckedIn):
		respondWithError(w, http.StatusConflict, "Already checked in today")
	case errors.Is(err, store.ErrNotFound):
		respondWithError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, store.ErrUnavailable):
		log.Warnf("%s: %v", op, err)
		respondWithError(w, http.StatusServiceUnavailable, "Storage temporarily unavailable")
	default:
		log.Errorf("%s: %v", op, err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func authenticatedUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	uid, ok := middleware.GetUserID(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
	}
	return uid, ok
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func pathIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Index must be a number")
		return 0, false
	}
	return index, true
}
