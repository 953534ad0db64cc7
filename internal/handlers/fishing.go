package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"fishing-backend/internal/middleware"
	"fishing-backend/internal/models"
)

type fishingService interface {
	DrawCard(ctx context.Context, fisherID, pondID uuid.UUID) (*models.Fish, error)
	SubmitOutcome(ctx context.Context, fisherID, fishID uuid.UUID, quality int) (*models.Fish, error)
	CurrentSession(ctx context.Context, fisherID uuid.UUID) (*models.FishingSession, error)
}

type FishingHandler struct {
	fishing fishingService
}

func NewFishingHandler(fishing fishingService) *FishingHandler {
	return &FishingHandler{fishing: fishing}
}

// StartFishing handles POST /ponds/{id}/start-fishing.
func (h *FishingHandler) StartFishing(w http.ResponseWriter, r *http.Request) {
	pondID, ok := pathID(w, r)
	if !ok {
		return
	}

	fish, err := h.fishing.DrawCard(r.Context(), middleware.GetFisherID(r.Context()), pondID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, fish)
}

// Caught handles PUT /fishes/{id}/caught. The quality comes from the JSON
// body or, when there is no body, from the quality query parameter.
func (h *FishingHandler) Caught(w http.ResponseWriter, r *http.Request) {
	fishID, ok := pathID(w, r)
	if !ok {
		return
	}

	var quality int
	if v := r.URL.Query().Get("quality"); v != "" && r.ContentLength <= 0 {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
				map[string]string{"quality": "must be an integer"}, r))
			return
		}
		quality = n
	} else {
		var req models.CaughtRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.Quality == nil {
			writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
				map[string]string{"quality": "is required"}, r))
			return
		}
		quality = *req.Quality
	}

	fish, err := h.fishing.SubmitOutcome(r.Context(), middleware.GetFisherID(r.Context()), fishID, quality)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, fish)
}

// Current handles GET /fishing-sessions/current; 204 when idle.
func (h *FishingHandler) Current(w http.ResponseWriter, r *http.Request) {
	session, err := h.fishing.CurrentSession(r.Context(), middleware.GetFisherID(r.Context()))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	if session == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, session)
}
