package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"fishing-backend/internal/models"
	"fishing-backend/internal/repository"
	"fishing-backend/internal/scheduler"
)

// FishingService guards the per-fisher review session: a fisher is either
// idle or bound to exactly one drawn fish, and only that fish's outcome
// can be submitted.
type FishingService struct {
	store  repository.Store
	policy scheduler.Policy
	events EventPublisher
	now    func() time.Time
	pick   func(n int) int
}

func NewFishingService(store repository.Store, policy scheduler.Policy, events EventPublisher) *FishingService {
	if events == nil {
		events = NopPublisher{}
	}
	return &FishingService{
		store:  store,
		policy: policy,
		events: events,
		now:    func() time.Time { return time.Now().UTC() },
		pick:   rand.IntN,
	}
}

func lockFisher(ctx context.Context, tx repository.Store, fisherID uuid.UUID) (*models.Fisher, error) {
	fisher, err := tx.LockFisher(ctx, fisherID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &UnauthorizedError{Message: "Unknown fisher"}
	}
	return fisher, err
}

// DrawCard starts a session on a random ready fish of the pond.
func (s *FishingService) DrawCard(ctx context.Context, fisherID, pondID uuid.UUID) (*models.Fish, error) {
	now := s.now()
	var drawn *models.Fish
	var session *models.FishingSession

	err := s.store.Atomic(ctx, func(tx repository.Store) error {
		fisher, err := lockFisher(ctx, tx, fisherID)
		if err != nil {
			return err
		}
		if _, err := loadOwnedPond(ctx, tx, fisherID, pondID); err != nil {
			return err
		}
		if fisher.ActiveSession.IsActive() {
			return &SessionError{Code: SessionAlreadyActive, Message: "Finish the current fish before drawing another"}
		}

		ready := true
		fishes, err := tx.ListFishes(ctx, pondID, repository.FishFilter{Ready: &ready, Now: now})
		if err != nil {
			return fmt.Errorf("list ready fish: %w", err)
		}
		if len(fishes) == 0 {
			return &SessionError{Code: NoReadyFish, Message: "No fish are ready in this pond"}
		}
		drawn = fishes[s.pick(len(fishes))]

		session = &models.FishingSession{
			FisherID:  fisherID,
			PondID:    pondID,
			FishID:    drawn.ID,
			StartedAt: now,
		}
		if err := tx.CreateSession(ctx, session); err != nil {
			if errors.Is(err, repository.ErrSessionExists) {
				return &SessionError{Code: SessionAlreadyActive, Message: "Finish the current fish before drawing another"}
			}
			return fmt.Errorf("create session: %w", err)
		}
		return tx.SetActiveSession(ctx, fisherID, models.ActiveSessionOf(session.ID))
	})
	if err != nil {
		return nil, err
	}

	s.events.Publish(ctx, fisherID, models.WSMessage{
		Type:    models.EventSessionStarted,
		Payload: models.SessionEvent{SessionID: session.ID, PondID: pondID, FishID: drawn.ID},
	})

	drawn.Refresh(now)
	return drawn, nil
}

// SubmitOutcome closes the session on fishID and reschedules the fish with
// the review quality. Session close and reschedule commit together.
func (s *FishingService) SubmitOutcome(ctx context.Context, fisherID, fishID uuid.UUID, quality int) (*models.Fish, error) {
	now := s.now()
	var fish *models.Fish
	var session *models.FishingSession

	err := s.store.Atomic(ctx, func(tx repository.Store) error {
		fisher, err := lockFisher(ctx, tx, fisherID)
		if err != nil {
			return err
		}
		f, pond, err := loadOwnedFish(ctx, tx, fisherID, fishID)
		if err != nil {
			return err
		}

		sid, active := fisher.ActiveSession.ID()
		if !active {
			return &SessionError{Code: NoActiveSession, Message: "No fish is being reviewed"}
		}
		session, err = tx.GetSession(ctx, sid)
		if errors.Is(err, repository.ErrNotFound) {
			return &SessionError{Code: NoActiveSession, Message: "No fish is being reviewed"}
		}
		if err != nil {
			return fmt.Errorf("get session: %w", err)
		}
		if session.FishID != fishID {
			return &SessionError{Code: FishMismatch, Message: "This is not the fish being reviewed"}
		}

		if err := tx.SetActiveSession(ctx, fisherID, models.NoSession()); err != nil {
			return err
		}
		if err := tx.DeleteSession(ctx, sid); err != nil {
			return fmt.Errorf("delete session: %w", err)
		}

		s.policy.Apply(f, pond.GetIntervals(), quality, now)
		if err := tx.UpdateFish(ctx, f); err != nil {
			return fmt.Errorf("update fish: %w", err)
		}
		fish = f
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.events.Publish(ctx, fisherID, models.WSMessage{
		Type:    models.EventSessionClosed,
		Payload: models.SessionEvent{SessionID: session.ID, PondID: session.PondID, FishID: fishID},
	})

	fish.Refresh(now)
	return fish, nil
}

// CurrentSession returns the fisher's running session, or nil when idle.
func (s *FishingService) CurrentSession(ctx context.Context, fisherID uuid.UUID) (*models.FishingSession, error) {
	fisher, err := s.store.GetFisher(ctx, fisherID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &UnauthorizedError{Message: "Unknown fisher"}
	}
	if err != nil {
		return nil, err
	}
	sid, ok := fisher.ActiveSession.ID()
	if !ok {
		return nil, nil
	}
	session, err := s.store.GetSession(ctx, sid)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	return session, err
}
