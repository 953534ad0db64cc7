package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"fishing-backend/internal/middleware"
	"fishing-backend/internal/models"
)

type feedbackService interface {
	Submit(ctx context.Context, fisherID uuid.UUID, req models.FeedbackRequest) (*models.Feedback, error)
	List(ctx context.Context, fisherID uuid.UUID, unsolvedOnly bool) ([]*models.Feedback, error)
	Solve(ctx context.Context, fisherID, feedbackID uuid.UUID, req models.SolveFeedbackRequest) (*models.Feedback, error)
}

type FeedbackHandler struct {
	feedback feedbackService
}

func NewFeedbackHandler(feedback feedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedback: feedback}
}

func (h *FeedbackHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req models.FeedbackRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	fb, err := h.feedback.Submit(r.Context(), middleware.GetFisherID(r.Context()), req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, fb)
}

func (h *FeedbackHandler) List(w http.ResponseWriter, r *http.Request) {
	unsolved := r.URL.Query().Get("unsolved") == "true"

	items, err := h.feedback.List(r.Context(), middleware.GetFisherID(r.Context()), unsolved)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *FeedbackHandler) Solve(w http.ResponseWriter, r *http.Request) {
	feedbackID, ok := pathID(w, r)
	if !ok {
		return
	}
	var req models.SolveFeedbackRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	fb, err := h.feedback.Solve(r.Context(), middleware.GetFisherID(r.Context()), feedbackID, req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, fb)
}
