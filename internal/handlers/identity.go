package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"fishing-backend/internal/middleware"
	"fishing-backend/internal/models"
)

type identityService interface {
	Bootstrap(ctx context.Context, token string) (*models.Fisher, string, error)
	GetFisher(ctx context.Context, id uuid.UUID) (*models.Fisher, error)
	GrantAdmin(ctx context.Context, fisherID uuid.UUID, req models.AdminRequest) (*models.Fisher, error)
}

type IdentityHandler struct {
	identity identityService
}

func NewIdentityHandler(identity identityService) *IdentityHandler {
	return &IdentityHandler{identity: identity}
}

// GrantAdmin handles POST /api/v1/users.
func (h *IdentityHandler) GrantAdmin(w http.ResponseWriter, r *http.Request) {
	var req models.AdminRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	fisher, err := h.identity.GrantAdmin(r.Context(), middleware.GetFisherID(r.Context()), req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, fisher)
}

func (h *IdentityHandler) Me(w http.ResponseWriter, r *http.Request) {
	fisher, err := h.identity.GetFisher(r.Context(), middleware.GetFisherID(r.Context()))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, fisher)
}
