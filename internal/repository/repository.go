package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"fishing-backend/internal/models"
)

var (
	// ErrNotFound is returned when a row addressed by id does not exist.
	ErrNotFound = errors.New("not found")
	// ErrSessionExists is returned by CreateSession when the fisher
	// already owns a fishing session row.
	ErrSessionExists = errors.New("fisher already has a fishing session")
)

// FishFilter narrows ListFishes. Nil fields are not applied.
type FishFilter struct {
	Ready      *bool
	DepthLevel *int
	// Now is the reference time for Ready.
	Now time.Time
}

func (f FishFilter) match(fish *models.Fish) bool {
	if f.Ready != nil {
		ready := !f.Now.Before(fish.NextReviewAt)
		if ready != *f.Ready {
			return false
		}
	}
	if f.DepthLevel != nil && fish.DepthLevel != *f.DepthLevel {
		return false
	}
	return true
}

type FisherRepository interface {
	CreateFisher(ctx context.Context, f *models.Fisher) error
	GetFisher(ctx context.Context, id uuid.UUID) (*models.Fisher, error)
	// LockFisher reads the fisher and holds it exclusively until the
	// surrounding Atomic call ends.
	LockFisher(ctx context.Context, id uuid.UUID) (*models.Fisher, error)
	SetActiveSession(ctx context.Context, fisherID uuid.UUID, s models.ActiveSession) error
	SetAdmin(ctx context.Context, fisherID uuid.UUID, isAdmin bool) error
}

type PondRepository interface {
	CreatePond(ctx context.Context, p *models.Pond) error
	GetPond(ctx context.Context, id uuid.UUID) (*models.Pond, error)
	ListPondsByFisher(ctx context.Context, fisherID uuid.UUID) ([]*models.Pond, error)
	UpdatePond(ctx context.Context, p *models.Pond) error
	// DeletePond removes the pond with its fish and any sessions on them.
	DeletePond(ctx context.Context, id uuid.UUID) error
	CountFishes(ctx context.Context, pondID uuid.UUID, now time.Time) (total, ready int, err error)
}

type FishRepository interface {
	CreateFishes(ctx context.Context, fishes []*models.Fish) error
	GetFish(ctx context.Context, id uuid.UUID) (*models.Fish, error)
	ListFishes(ctx context.Context, pondID uuid.UUID, filter FishFilter) ([]*models.Fish, error)
	UpdateFish(ctx context.Context, f *models.Fish) error
	DeleteFish(ctx context.Context, id uuid.UUID) error
}

type SessionRepository interface {
	CreateSession(ctx context.Context, s *models.FishingSession) error
	GetSession(ctx context.Context, id uuid.UUID) (*models.FishingSession, error)
	DeleteSession(ctx context.Context, id uuid.UUID) error
}

type FeedbackRepository interface {
	CreateFeedback(ctx context.Context, fb *models.Feedback) error
	GetFeedback(ctx context.Context, id uuid.UUID) (*models.Feedback, error)
	ListFeedback(ctx context.Context, unsolvedOnly bool) ([]*models.Feedback, error)
	SolveFeedback(ctx context.Context, id uuid.UUID, solution string, at time.Time) error
}

// Store is the full persistence surface. Atomic runs fn against a store
// whose writes commit together or not at all.
type Store interface {
	FisherRepository
	PondRepository
	FishRepository
	SessionRepository
	FeedbackRepository

	Atomic(ctx context.Context, fn func(tx Store) error) error
}
