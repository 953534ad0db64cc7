package repository

import (
	"context"
	"maps"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"fishing-backend/internal/models"
)

type memState struct {
	fishers  map[uuid.UUID]models.Fisher
	ponds    map[uuid.UUID]models.Pond
	fishes   map[uuid.UUID]models.Fish
	sessions map[uuid.UUID]models.FishingSession
	feedback map[uuid.UUID]models.Feedback
}

func newMemState() *memState {
	return &memState{
		fishers:  map[uuid.UUID]models.Fisher{},
		ponds:    map[uuid.UUID]models.Pond{},
		fishes:   map[uuid.UUID]models.Fish{},
		sessions: map[uuid.UUID]models.FishingSession{},
		feedback: map[uuid.UUID]models.Feedback{},
	}
}

func (s *memState) clone() *memState {
	return &memState{
		fishers:  maps.Clone(s.fishers),
		ponds:    maps.Clone(s.ponds),
		fishes:   maps.Clone(s.fishes),
		sessions: maps.Clone(s.sessions),
		feedback: maps.Clone(s.feedback),
	}
}

// MemoryStore keeps everything in process memory. It backs the server when
// no DATABASE_URL is configured and is used by the service tests.
//
// All access is serialized by one mutex. Atomic holds it for the whole
// callback, which gives the same exclusion LockFisher gets from FOR UPDATE.
type MemoryStore struct {
	mu    *sync.Mutex
	state *memState
	inTx  bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{mu: &sync.Mutex{}, state: newMemState()}
}

func (m *MemoryStore) lock() func() {
	if m.inTx {
		return func() {}
	}
	m.mu.Lock()
	return m.mu.Unlock
}

// Atomic runs fn on a copy of the state and publishes the copy only when
// fn succeeds.
func (m *MemoryStore) Atomic(ctx context.Context, fn func(tx Store) error) error {
	if m.inTx {
		return fn(m)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	tx := &MemoryStore{mu: m.mu, state: m.state.clone(), inTx: true}
	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	*m.state = *tx.state
	return nil
}

// Fishers

func (m *MemoryStore) CreateFisher(ctx context.Context, f *models.Fisher) error {
	defer m.lock()()
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	m.state.fishers[f.ID] = *f
	return nil
}

func (m *MemoryStore) GetFisher(ctx context.Context, id uuid.UUID) (*models.Fisher, error) {
	defer m.lock()()
	f, ok := m.state.fishers[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &f, nil
}

func (m *MemoryStore) LockFisher(ctx context.Context, id uuid.UUID) (*models.Fisher, error) {
	return m.GetFisher(ctx, id)
}

func (m *MemoryStore) SetActiveSession(ctx context.Context, fisherID uuid.UUID, a models.ActiveSession) error {
	defer m.lock()()
	f, ok := m.state.fishers[fisherID]
	if !ok {
		return ErrNotFound
	}
	f.ActiveSession = a
	m.state.fishers[fisherID] = f
	return nil
}

func (m *MemoryStore) SetAdmin(ctx context.Context, fisherID uuid.UUID, isAdmin bool) error {
	defer m.lock()()
	f, ok := m.state.fishers[fisherID]
	if !ok {
		return ErrNotFound
	}
	f.IsAdmin = isAdmin
	m.state.fishers[fisherID] = f
	return nil
}

// Ponds

func (m *MemoryStore) CreatePond(ctx context.Context, p *models.Pond) error {
	defer m.lock()()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	stored := *p
	stored.Intervals = p.Intervals.Clone()
	m.state.ponds[p.ID] = stored
	return nil
}

func (m *MemoryStore) GetPond(ctx context.Context, id uuid.UUID) (*models.Pond, error) {
	defer m.lock()()
	p, ok := m.state.ponds[id]
	if !ok {
		return nil, ErrNotFound
	}
	p.Intervals = p.Intervals.Clone()
	return &p, nil
}

func (m *MemoryStore) ListPondsByFisher(ctx context.Context, fisherID uuid.UUID) ([]*models.Pond, error) {
	defer m.lock()()
	var ponds []*models.Pond
	for _, p := range m.state.ponds {
		if p.FisherID != fisherID {
			continue
		}
		p.Intervals = p.Intervals.Clone()
		ponds = append(ponds, &p)
	}
	sort.SliceStable(ponds, func(i, j int) bool {
		return ponds[i].CreatedAt.After(ponds[j].CreatedAt)
	})
	return ponds, nil
}

func (m *MemoryStore) UpdatePond(ctx context.Context, p *models.Pond) error {
	defer m.lock()()
	stored, ok := m.state.ponds[p.ID]
	if !ok {
		return ErrNotFound
	}
	stored.Name = p.Name
	stored.Description = p.Description
	stored.Topic = p.Topic
	stored.Intervals = p.Intervals.Clone()
	stored.UpdatedAt = p.UpdatedAt
	m.state.ponds[p.ID] = stored
	return nil
}

func (m *MemoryStore) DeletePond(ctx context.Context, id uuid.UUID) error {
	defer m.lock()()
	if _, ok := m.state.ponds[id]; !ok {
		return ErrNotFound
	}
	delete(m.state.ponds, id)
	for fid, f := range m.state.fishes {
		if f.PondID == id {
			m.deleteFishLocked(fid)
		}
	}
	return nil
}

func (m *MemoryStore) CountFishes(ctx context.Context, pondID uuid.UUID, now time.Time) (int, int, error) {
	defer m.lock()()
	var total, ready int
	for _, f := range m.state.fishes {
		if f.PondID != pondID {
			continue
		}
		total++
		if !now.Before(f.NextReviewAt) {
			ready++
		}
	}
	return total, ready, nil
}

// Fishes

func (m *MemoryStore) CreateFishes(ctx context.Context, fishes []*models.Fish) error {
	defer m.lock()()
	for _, f := range fishes {
		if _, ok := m.state.ponds[f.PondID]; !ok {
			return ErrNotFound
		}
	}
	for _, f := range fishes {
		if f.ID == uuid.Nil {
			f.ID = uuid.New()
		}
		m.state.fishes[f.ID] = *f
	}
	return nil
}

func (m *MemoryStore) GetFish(ctx context.Context, id uuid.UUID) (*models.Fish, error) {
	defer m.lock()()
	f, ok := m.state.fishes[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &f, nil
}

func (m *MemoryStore) ListFishes(ctx context.Context, pondID uuid.UUID, filter FishFilter) ([]*models.Fish, error) {
	defer m.lock()()
	var fishes []*models.Fish
	for _, f := range m.state.fishes {
		if f.PondID != pondID || !filter.match(&f) {
			continue
		}
		fishes = append(fishes, &f)
	}
	sort.SliceStable(fishes, func(i, j int) bool {
		return fishes[i].NextReviewAt.Before(fishes[j].NextReviewAt)
	})
	return fishes, nil
}

func (m *MemoryStore) UpdateFish(ctx context.Context, f *models.Fish) error {
	defer m.lock()()
	stored, ok := m.state.fishes[f.ID]
	if !ok {
		return ErrNotFound
	}
	stored.Question = f.Question
	stored.Answer = f.Answer
	stored.Repetitions = f.Repetitions
	stored.DepthLevel = f.DepthLevel
	stored.IntervalDays = f.IntervalDays
	stored.EaseFactor = f.EaseFactor
	stored.NextReviewAt = f.NextReviewAt
	stored.UpdatedAt = f.UpdatedAt
	m.state.fishes[f.ID] = stored
	return nil
}

func (m *MemoryStore) DeleteFish(ctx context.Context, id uuid.UUID) error {
	defer m.lock()()
	if _, ok := m.state.fishes[id]; !ok {
		return ErrNotFound
	}
	m.deleteFishLocked(id)
	return nil
}

// deleteFishLocked removes the fish with the sessions on it and clears the
// fishers pointing at those sessions.
func (m *MemoryStore) deleteFishLocked(id uuid.UUID) {
	delete(m.state.fishes, id)
	for sid, s := range m.state.sessions {
		if s.FishID == id {
			m.deleteSessionLocked(sid)
		}
	}
}

// Sessions

func (m *MemoryStore) CreateSession(ctx context.Context, s *models.FishingSession) error {
	defer m.lock()()
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if _, ok := m.state.fishes[s.FishID]; !ok {
		return ErrNotFound
	}
	for _, existing := range m.state.sessions {
		if existing.FisherID == s.FisherID {
			return ErrSessionExists
		}
	}
	m.state.sessions[s.ID] = *s
	return nil
}

func (m *MemoryStore) GetSession(ctx context.Context, id uuid.UUID) (*models.FishingSession, error) {
	defer m.lock()()
	s, ok := m.state.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (m *MemoryStore) DeleteSession(ctx context.Context, id uuid.UUID) error {
	defer m.lock()()
	if _, ok := m.state.sessions[id]; !ok {
		return ErrNotFound
	}
	m.deleteSessionLocked(id)
	return nil
}

func (m *MemoryStore) deleteSessionLocked(id uuid.UUID) {
	delete(m.state.sessions, id)
	for fid, f := range m.state.fishers {
		if sid, ok := f.ActiveSession.ID(); ok && sid == id {
			f.ActiveSession = models.NoSession()
			m.state.fishers[fid] = f
		}
	}
}

// Feedback

func (m *MemoryStore) CreateFeedback(ctx context.Context, fb *models.Feedback) error {
	defer m.lock()()
	if fb.ID == uuid.Nil {
		fb.ID = uuid.New()
	}
	m.state.feedback[fb.ID] = *fb
	return nil
}

func (m *MemoryStore) GetFeedback(ctx context.Context, id uuid.UUID) (*models.Feedback, error) {
	defer m.lock()()
	fb, ok := m.state.feedback[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &fb, nil
}

func (m *MemoryStore) ListFeedback(ctx context.Context, unsolvedOnly bool) ([]*models.Feedback, error) {
	defer m.lock()()
	var items []*models.Feedback
	for _, fb := range m.state.feedback {
		if unsolvedOnly && fb.Solved {
			continue
		}
		items = append(items, &fb)
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (m *MemoryStore) SolveFeedback(ctx context.Context, id uuid.UUID, solution string, at time.Time) error {
	defer m.lock()()
	fb, ok := m.state.feedback[id]
	if !ok {
		return ErrNotFound
	}
	fb.Solved = true
	fb.Solution = solution
	fb.SolvedAt = &at
	m.state.feedback[id] = fb
	return nil
}
