package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"

	"fishing-backend/internal/models"
	"fishing-backend/internal/repository"
	"fishing-backend/internal/scheduler"
)

type PondService struct {
	store  repository.Store
	policy scheduler.Policy
	seeder *Seeder
	events EventPublisher
	now    func() time.Time
}

// NewPondService builds the pond and fish service. seeder may be nil, in
// which case AI seeding requests fail with an UpstreamError.
func NewPondService(store repository.Store, policy scheduler.Policy, seeder *Seeder, events EventPublisher) *PondService {
	if events == nil {
		events = NopPublisher{}
	}
	return &PondService{
		store:  store,
		policy: policy,
		seeder: seeder,
		events: events,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *PondService) withCounts(ctx context.Context, p *models.Pond, now time.Time) error {
	total, ready, err := s.store.CountFishes(ctx, p.ID, now)
	if err != nil {
		return fmt.Errorf("count fishes: %w", err)
	}
	p.FishCount = total
	p.ReadyCount = ready
	return nil
}

// CreatePond creates a pond for the fisher. When the request asks for AI
// seeding and the fisher is an admin, the generated fish are created with
// the pond in one transaction; a failed generation creates nothing. Seeding
// requests from other fishers are ignored.
func (s *PondService) CreatePond(ctx context.Context, fisherID uuid.UUID, req models.PondRequest) (*models.Pond, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	fisher, err := s.store.GetFisher(ctx, fisherID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &UnauthorizedError{Message: "Unknown fisher"}
	}
	if err != nil {
		return nil, err
	}

	var seeds []SeedPair
	if req.AIRequest != nil && *req.AIRequest != "" && fisher.IsAdmin {
		if s.seeder == nil {
			return nil, &UpstreamError{Message: "AI seeding is not configured"}
		}
		seeds, err = s.seeder.Seed(ctx, *req.AIRequest, req.AICount)
		if err != nil {
			return nil, err
		}
	}

	now := s.now()
	ladder := models.LadderFromIntervals(req.Intervals)
	if len(ladder) == 0 {
		ladder = models.DefaultLadder()
	}

	pond := &models.Pond{
		FisherID:    fisherID,
		Name:        req.Name,
		Description: req.Description,
		Topic:       req.Topic,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	pond.SetIntervals(ladder)

	err = s.store.Atomic(ctx, func(tx repository.Store) error {
		if err := tx.CreatePond(ctx, pond); err != nil {
			return fmt.Errorf("create pond: %w", err)
		}
		if len(seeds) == 0 {
			return nil
		}
		fishes := make([]*models.Fish, len(seeds))
		for i, p := range seeds {
			fishes[i] = s.newFish(pond, p.Question, p.Answer, now)
		}
		if err := tx.CreateFishes(ctx, fishes); err != nil {
			return fmt.Errorf("create seeded fishes: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(seeds) > 0 {
		log.Printf("seeded pond %s with %d fish", pond.ID, len(seeds))
		s.events.Publish(ctx, fisherID, models.WSMessage{
			Type:    models.EventPondSeeded,
			Payload: models.PondSeededEvent{PondID: pond.ID, Count: len(seeds)},
		})
	}

	if err := s.withCounts(ctx, pond, now); err != nil {
		return nil, err
	}
	return pond, nil
}

func (s *PondService) ListPonds(ctx context.Context, fisherID uuid.UUID) ([]*models.Pond, error) {
	ponds, err := s.store.ListPondsByFisher(ctx, fisherID)
	if err != nil {
		return nil, fmt.Errorf("list ponds: %w", err)
	}
	now := s.now()
	for _, p := range ponds {
		if err := s.withCounts(ctx, p, now); err != nil {
			return nil, err
		}
	}
	if ponds == nil {
		ponds = []*models.Pond{}
	}
	return ponds, nil
}

func (s *PondService) GetPond(ctx context.Context, fisherID, pondID uuid.UUID) (*models.Pond, error) {
	p, err := loadOwnedPond(ctx, s.store, fisherID, pondID)
	if err != nil {
		return nil, err
	}
	if err := s.withCounts(ctx, p, s.now()); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdatePond replaces the pond's descriptive fields. A non-empty interval
// list replaces the ladder and reschedules every fish in the same
// transaction; an empty list keeps the current ladder.
func (s *PondService) UpdatePond(ctx context.Context, fisherID, pondID uuid.UUID, req models.PondRequest) (*models.Pond, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	now := s.now()
	var pond *models.Pond

	err := s.store.Atomic(ctx, func(tx repository.Store) error {
		p, err := loadOwnedPond(ctx, tx, fisherID, pondID)
		if err != nil {
			return err
		}

		p.Name = req.Name
		p.Description = req.Description
		p.Topic = req.Topic
		p.UpdatedAt = now

		ladderChanged := len(req.Intervals) > 0
		if ladderChanged {
			p.SetIntervals(models.LadderFromIntervals(req.Intervals))
		}
		if err := tx.UpdatePond(ctx, p); err != nil {
			return fmt.Errorf("update pond: %w", err)
		}

		if ladderChanged {
			fishes, err := tx.ListFishes(ctx, pondID, repository.FishFilter{Now: now})
			if err != nil {
				return fmt.Errorf("list fishes: %w", err)
			}
			ladder := p.GetIntervals()
			for _, f := range fishes {
				s.policy.Reschedule(f, ladder)
				if err := tx.UpdateFish(ctx, f); err != nil {
					return fmt.Errorf("reschedule fish %s: %w", f.ID, err)
				}
			}
		}
		pond = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.withCounts(ctx, pond, now); err != nil {
		return nil, err
	}
	return pond, nil
}

// DeletePond removes the pond and its fish. A session drawn from the pond
// is closed in the same transaction.
func (s *PondService) DeletePond(ctx context.Context, fisherID, pondID uuid.UUID) error {
	return s.store.Atomic(ctx, func(tx repository.Store) error {
		if _, err := loadOwnedPond(ctx, tx, fisherID, pondID); err != nil {
			return err
		}
		err := clearSessionIf(ctx, tx, fisherID, func(fs *models.FishingSession) bool {
			return fs.PondID == pondID
		})
		if err != nil {
			return fmt.Errorf("close session: %w", err)
		}
		if err := tx.DeletePond(ctx, pondID); err != nil {
			return fmt.Errorf("delete pond: %w", err)
		}
		return nil
	})
}

// Fish

func (s *PondService) newFish(pond *models.Pond, question, answer string, now time.Time) *models.Fish {
	f := &models.Fish{
		PondID:    pond.ID,
		Question:  question,
		Answer:    answer,
		CreatedAt: now,
	}
	s.policy.Init(f, pond.GetIntervals(), now)
	return f
}

func (s *PondService) CreateFish(ctx context.Context, fisherID, pondID uuid.UUID, req models.FishRequest) (*models.Fish, error) {
	fishes, err := s.createFishes(ctx, fisherID, pondID, []models.FishRequest{req})
	if err != nil {
		return nil, err
	}
	return fishes[0], nil
}

// CreateFishes adds one fish per question/answer entry, in question order.
func (s *PondService) CreateFishes(ctx context.Context, fisherID, pondID uuid.UUID, pairs map[string]string) ([]*models.Fish, error) {
	if len(pairs) == 0 {
		return nil, fieldError("fishes", "must contain at least one question")
	}
	questions := make([]string, 0, len(pairs))
	for q := range pairs {
		questions = append(questions, q)
	}
	sort.Strings(questions)

	reqs := make([]models.FishRequest, len(questions))
	for i, q := range questions {
		reqs[i] = models.FishRequest{Question: q, Answer: pairs[q]}
	}
	return s.createFishes(ctx, fisherID, pondID, reqs)
}

func (s *PondService) createFishes(ctx context.Context, fisherID, pondID uuid.UUID, reqs []models.FishRequest) ([]*models.Fish, error) {
	for _, req := range reqs {
		if err := validateStruct(req); err != nil {
			return nil, err
		}
	}

	now := s.now()
	var fishes []*models.Fish

	err := s.store.Atomic(ctx, func(tx repository.Store) error {
		pond, err := loadOwnedPond(ctx, tx, fisherID, pondID)
		if err != nil {
			return err
		}
		fishes = make([]*models.Fish, len(reqs))
		for i, req := range reqs {
			fishes[i] = s.newFish(pond, req.Question, req.Answer, now)
		}
		if err := tx.CreateFishes(ctx, fishes); err != nil {
			return fmt.Errorf("create fishes: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return fishes, nil
}

func (s *PondService) ListFishes(ctx context.Context, fisherID, pondID uuid.UUID, ready *bool, depth *int) ([]*models.Fish, error) {
	if _, err := loadOwnedPond(ctx, s.store, fisherID, pondID); err != nil {
		return nil, err
	}

	now := s.now()
	fishes, err := s.store.ListFishes(ctx, pondID, repository.FishFilter{Ready: ready, DepthLevel: depth, Now: now})
	if err != nil {
		return nil, fmt.Errorf("list fishes: %w", err)
	}
	for _, f := range fishes {
		f.Refresh(now)
	}
	if fishes == nil {
		fishes = []*models.Fish{}
	}
	return fishes, nil
}

func (s *PondService) GetFish(ctx context.Context, fisherID, fishID uuid.UUID) (*models.Fish, error) {
	f, _, err := loadOwnedFish(ctx, s.store, fisherID, fishID)
	if err != nil {
		return nil, err
	}
	f.Refresh(s.now())
	return f, nil
}

// UpdateFish edits the question and answer. The schedule, including
// updated_at, is left alone.
func (s *PondService) UpdateFish(ctx context.Context, fisherID, fishID uuid.UUID, req models.FishRequest) (*models.Fish, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	var fish *models.Fish
	err := s.store.Atomic(ctx, func(tx repository.Store) error {
		f, _, err := loadOwnedFish(ctx, tx, fisherID, fishID)
		if err != nil {
			return err
		}
		f.Question = req.Question
		f.Answer = req.Answer
		if err := tx.UpdateFish(ctx, f); err != nil {
			return fmt.Errorf("update fish: %w", err)
		}
		fish = f
		return nil
	})
	if err != nil {
		return nil, err
	}
	fish.Refresh(s.now())
	return fish, nil
}

// DeleteFish removes the fish, closing the fisher's session if it was on
// this fish.
func (s *PondService) DeleteFish(ctx context.Context, fisherID, fishID uuid.UUID) error {
	return s.store.Atomic(ctx, func(tx repository.Store) error {
		if _, _, err := loadOwnedFish(ctx, tx, fisherID, fishID); err != nil {
			return err
		}
		err := clearSessionIf(ctx, tx, fisherID, func(fs *models.FishingSession) bool {
			return fs.FishID == fishID
		})
		if err != nil {
			return fmt.Errorf("close session: %w", err)
		}
		if err := tx.DeleteFish(ctx, fishID); err != nil {
			return fmt.Errorf("delete fish: %w", err)
		}
		return nil
	})
}
