// Package memory holds process-local repositories used by the "memory"
// storage driver and by engine tests.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/BradenHooton/ideabox/internal/models"
)

// ideaEntry pairs the current snapshot of an idea with the lock that
// serialises its writers.
type ideaEntry struct {
	mu   sync.Mutex
	idea *models.Idea
}

// IdeaStore keeps ideas in insertion order. Readers get clones, writers go
// through Mutate one at a time per idea.
type IdeaStore struct {
	mu         sync.RWMutex
	nextID     int64
	order      []int64
	byID       map[int64]*ideaEntry
	now        func() time.Time
	categories *CategoryStore
}

func NewIdeaStore() *IdeaStore {
	return &IdeaStore{
		byID: make(map[int64]*ideaEntry),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Create stores a new idea. When the store is attached to a CategoryStore the
// category is checked under the registry lock, so a concurrent rename either
// sees the new idea or rejects it.
func (s *IdeaStore) Create(_ context.Context, idea *models.Idea) (*models.Idea, error) {
	if s.categories != nil {
		s.categories.mu.Lock()
		defer s.categories.mu.Unlock()
		if s.categories.indexOf(idea.Category) < 0 {
			return nil, fmt.Errorf("%w: unknown category %q", models.ErrValidation, idea.Category)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	stored := idea.Clone()
	stored.ID = s.nextID
	stored.Version = 1
	now := s.now()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	s.byID[stored.ID] = &ideaEntry{idea: stored}
	s.order = append(s.order, stored.ID)

	return stored.Clone(), nil
}

func (s *IdeaStore) entry(id int64) (*ideaEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.byID[id]
	return e, ok
}

// entries snapshots the entry list in insertion order.
func (s *IdeaStore) entries() []*ideaEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := make([]*ideaEntry, 0, len(s.order))
	for _, id := range s.order {
		entries = append(entries, s.byID[id])
	}
	return entries
}

func (s *IdeaStore) GetByID(_ context.Context, id int64) (*models.Idea, error) {
	e, ok := s.entry(id)
	if !ok {
		return nil, models.ErrNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.idea.Clone(), nil
}

func (s *IdeaStore) List(_ context.Context) ([]*models.Idea, error) {
	entries := s.entries()

	ideas := make([]*models.Idea, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		ideas = append(ideas, e.idea.Clone())
		e.mu.Unlock()
	}

	return ideas, nil
}

// Mutate applies fn to a private copy of the idea while holding the idea's
// lock and publishes the copy if fn succeeds.
func (s *IdeaStore) Mutate(_ context.Context, id int64, fn func(*models.Idea) error) (*models.Idea, error) {
	e, ok := s.entry(id)
	if !ok {
		return nil, models.ErrNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	next := e.idea.Clone()
	if err := fn(next); err != nil {
		if errors.Is(err, models.ErrNoChange) {
			return e.idea.Clone(), nil
		}
		return nil, err
	}

	next.ID = e.idea.ID
	next.Version = e.idea.Version + 1
	next.UpdatedAt = s.now()
	e.idea = next

	return next.Clone(), nil
}

// renameCategory rewrites every idea filed under oldName. The caller holds
// the category registry lock.
func (s *IdeaStore) renameCategory(oldName, newName string) int {
	entries := s.entries()

	rewritten := 0
	for _, e := range entries {
		e.mu.Lock()
		if e.idea.Category == oldName {
			next := e.idea.Clone()
			next.Category = newName
			next.Version++
			next.UpdatedAt = s.now()
			e.idea = next
			rewritten++
		}
		e.mu.Unlock()
	}

	return rewritten
}

func (s *IdeaStore) usesCategory(name string) bool {
	entries := s.entries()

	for _, e := range entries {
		e.mu.Lock()
		used := e.idea.Category == name
		e.mu.Unlock()
		if used {
			return true
		}
	}
	return false
}
