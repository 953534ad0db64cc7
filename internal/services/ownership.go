package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"fishing-backend/internal/models"
	"fishing-backend/internal/repository"
)

func loadOwnedPond(ctx context.Context, store repository.Store, fisherID, pondID uuid.UUID) (*models.Pond, error) {
	p, err := store.GetPond(ctx, pondID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &NotFoundError{Message: "Pond not found"}
	}
	if err != nil {
		return nil, err
	}
	if p.FisherID != fisherID {
		return nil, &ForbiddenError{Message: "Pond belongs to another fisher"}
	}
	return p, nil
}

// loadOwnedFish returns the fish and its pond, checking ownership through
// the pond.
func loadOwnedFish(ctx context.Context, store repository.Store, fisherID, fishID uuid.UUID) (*models.Fish, *models.Pond, error) {
	f, err := store.GetFish(ctx, fishID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil, &NotFoundError{Message: "Fish not found"}
	}
	if err != nil {
		return nil, nil, err
	}
	p, err := loadOwnedPond(ctx, store, fisherID, f.PondID)
	if err != nil {
		var nf *NotFoundError
		if errors.As(err, &nf) {
			return nil, nil, &NotFoundError{Message: "Fish not found"}
		}
		return nil, nil, err
	}
	return f, p, nil
}

// clearSessionIf ends the fisher's active session when match reports that it
// refers to something being removed.
func clearSessionIf(ctx context.Context, tx repository.Store, fisherID uuid.UUID, match func(*models.FishingSession) bool) error {
	fisher, err := tx.LockFisher(ctx, fisherID)
	if err != nil {
		return err
	}
	sid, ok := fisher.ActiveSession.ID()
	if !ok {
		return nil
	}
	session, err := tx.GetSession(ctx, sid)
	if errors.Is(err, repository.ErrNotFound) {
		return tx.SetActiveSession(ctx, fisherID, models.NoSession())
	}
	if err != nil {
		return err
	}
	if !match(session) {
		return nil
	}
	if err := tx.SetActiveSession(ctx, fisherID, models.NoSession()); err != nil {
		return err
	}
	return tx.DeleteSession(ctx, sid)
}
