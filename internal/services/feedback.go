package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"fishing-backend/internal/models"
	"fishing-backend/internal/repository"
)

type FeedbackService struct {
	store repository.Store
	now   func() time.Time
}

func NewFeedbackService(store repository.Store) *FeedbackService {
	return &FeedbackService{store: store, now: func() time.Time { return time.Now().UTC() }}
}

func (s *FeedbackService) Submit(ctx context.Context, fisherID uuid.UUID, req models.FeedbackRequest) (*models.Feedback, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	fb := &models.Feedback{
		FisherID:  fisherID,
		Type:      req.Type,
		Text:      req.Text,
		CreatedAt: s.now(),
	}
	if err := s.store.CreateFeedback(ctx, fb); err != nil {
		return nil, fmt.Errorf("create feedback: %w", err)
	}
	return fb, nil
}

func (s *FeedbackService) requireAdmin(ctx context.Context, fisherID uuid.UUID) error {
	f, err := s.store.GetFisher(ctx, fisherID)
	if errors.Is(err, repository.ErrNotFound) {
		return &UnauthorizedError{Message: "Unknown fisher"}
	}
	if err != nil {
		return err
	}
	if !f.IsAdmin {
		return &ForbiddenError{Message: "Admin access required"}
	}
	return nil
}

func (s *FeedbackService) List(ctx context.Context, fisherID uuid.UUID, unsolvedOnly bool) ([]*models.Feedback, error) {
	if err := s.requireAdmin(ctx, fisherID); err != nil {
		return nil, err
	}
	return s.ListAsOperator(ctx, unsolvedOnly)
}

// ListAsOperator lists feedback without an admin fisher, for fishctl.
func (s *FeedbackService) ListAsOperator(ctx context.Context, unsolvedOnly bool) ([]*models.Feedback, error) {
	items, err := s.store.ListFeedback(ctx, unsolvedOnly)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	if items == nil {
		items = []*models.Feedback{}
	}
	return items, nil
}

func (s *FeedbackService) Solve(ctx context.Context, fisherID, feedbackID uuid.UUID, req models.SolveFeedbackRequest) (*models.Feedback, error) {
	if err := s.requireAdmin(ctx, fisherID); err != nil {
		return nil, err
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	return s.SolveAsOperator(ctx, feedbackID, req.Solution)
}

// SolveAsOperator marks feedback solved without an admin fisher. It backs
// the fishctl command, which runs with database access.
func (s *FeedbackService) SolveAsOperator(ctx context.Context, feedbackID uuid.UUID, solution string) (*models.Feedback, error) {
	if err := s.store.SolveFeedback(ctx, feedbackID, solution, s.now()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &NotFoundError{Message: "Feedback not found"}
		}
		return nil, fmt.Errorf("solve feedback: %w", err)
	}
	return s.store.GetFeedback(ctx, feedbackID)
}
