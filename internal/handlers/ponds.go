package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"fishing-backend/internal/middleware"
	"fishing-backend/internal/models"
)

type pondService interface {
	CreatePond(ctx context.Context, fisherID uuid.UUID, req models.PondRequest) (*models.Pond, error)
	ListPonds(ctx context.Context, fisherID uuid.UUID) ([]*models.Pond, error)
	GetPond(ctx context.Context, fisherID, pondID uuid.UUID) (*models.Pond, error)
	UpdatePond(ctx context.Context, fisherID, pondID uuid.UUID, req models.PondRequest) (*models.Pond, error)
	DeletePond(ctx context.Context, fisherID, pondID uuid.UUID) error

	CreateFish(ctx context.Context, fisherID, pondID uuid.UUID, req models.FishRequest) (*models.Fish, error)
	CreateFishes(ctx context.Context, fisherID, pondID uuid.UUID, pairs map[string]string) ([]*models.Fish, error)
	ListFishes(ctx context.Context, fisherID, pondID uuid.UUID, ready *bool, depth *int) ([]*models.Fish, error)
	GetFish(ctx context.Context, fisherID, fishID uuid.UUID) (*models.Fish, error)
	UpdateFish(ctx context.Context, fisherID, fishID uuid.UUID, req models.FishRequest) (*models.Fish, error)
	DeleteFish(ctx context.Context, fisherID, fishID uuid.UUID) error
}

type PondHandler struct {
	ponds pondService
}

func NewPondHandler(ponds pondService) *PondHandler {
	return &PondHandler{ponds: ponds}
}

func (h *PondHandler) List(w http.ResponseWriter, r *http.Request) {
	ponds, err := h.ponds.ListPonds(r.Context(), middleware.GetFisherID(r.Context()))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ponds)
}

func (h *PondHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.PondRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	pond, err := h.ponds.CreatePond(r.Context(), middleware.GetFisherID(r.Context()), req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, pond)
}

func (h *PondHandler) Get(w http.ResponseWriter, r *http.Request) {
	pondID, ok := pathID(w, r)
	if !ok {
		return
	}

	pond, err := h.ponds.GetPond(r.Context(), middleware.GetFisherID(r.Context()), pondID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pond)
}

func (h *PondHandler) Update(w http.ResponseWriter, r *http.Request) {
	pondID, ok := pathID(w, r)
	if !ok {
		return
	}
	var req models.PondRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	pond, err := h.ponds.UpdatePond(r.Context(), middleware.GetFisherID(r.Context()), pondID, req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pond)
}

func (h *PondHandler) Delete(w http.ResponseWriter, r *http.Request) {
	pondID, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.ponds.DeletePond(r.Context(), middleware.GetFisherID(r.Context()), pondID); err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Pond deleted"})
}

// ListFishes handles GET /ponds/{id}/fishes?ready=&depth_level=.
func (h *PondHandler) ListFishes(w http.ResponseWriter, r *http.Request) {
	pondID, ok := pathID(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	var ready *bool
	if v := q.Get("ready"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
				map[string]string{"ready": "must be true or false"}, r))
			return
		}
		ready = &b
	}
	var depth *int
	if v := q.Get("depth_level"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
				map[string]string{"depth_level": "must be an integer"}, r))
			return
		}
		depth = &n
	}

	fishes, err := h.ponds.ListFishes(r.Context(), middleware.GetFisherID(r.Context()), pondID, ready, depth)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, fishes)
}

// CreateFish handles POST /ponds/{id}/fish with one question and answer.
func (h *PondHandler) CreateFish(w http.ResponseWriter, r *http.Request) {
	pondID, ok := pathID(w, r)
	if !ok {
		return
	}
	var req models.FishRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	fish, err := h.ponds.CreateFish(r.Context(), middleware.GetFisherID(r.Context()), pondID, req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, fish)
}

// CreateFishes handles POST /ponds/{id}/fishes with a question to answer map.
func (h *PondHandler) CreateFishes(w http.ResponseWriter, r *http.Request) {
	pondID, ok := pathID(w, r)
	if !ok {
		return
	}
	var pairs map[string]string
	if !decodeJSON(w, r, &pairs) {
		return
	}

	fishes, err := h.ponds.CreateFishes(r.Context(), middleware.GetFisherID(r.Context()), pondID, pairs)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, fishes)
}

func (h *PondHandler) GetFish(w http.ResponseWriter, r *http.Request) {
	fishID, ok := pathID(w, r)
	if !ok {
		return
	}

	fish, err := h.ponds.GetFish(r.Context(), middleware.GetFisherID(r.Context()), fishID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, fish)
}

func (h *PondHandler) UpdateFish(w http.ResponseWriter, r *http.Request) {
	fishID, ok := pathID(w, r)
	if !ok {
		return
	}
	var req models.FishRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	fish, err := h.ponds.UpdateFish(r.Context(), middleware.GetFisherID(r.Context()), fishID, req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, fish)
}

func (h *PondHandler) DeleteFish(w http.ResponseWriter, r *http.Request) {
	fishID, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.ponds.DeleteFish(r.Context(), middleware.GetFisherID(r.Context()), fishID); err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Fish deleted"})
}
