package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/BradenHooton/ideabox/internal/models"
)

// UserStore is the in-memory account directory backing store.
type UserStore struct {
	mu     sync.RWMutex
	nextID int64
	users  map[int64]*models.User
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[int64]*models.User)}
}

func copyUser(u *models.User) *models.User {
	c := *u
	return &c
}

// sorted returns copies of all users ordered by id. Caller holds the lock.
func (s *UserStore) sorted(keep func(*models.User) bool) []*models.User {
	out := make([]*models.User, 0, len(s.users))
	for _, u := range s.users {
		if keep == nil || keep(u) {
			out = append(out, copyUser(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *UserStore) GetByID(_ context.Context, id int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return copyUser(u), nil
}

func (s *UserStore) GetByIDs(_ context.Context, ids []int64) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	return s.sorted(func(u *models.User) bool {
		_, ok := wanted[u.ID]
		return ok
	}), nil
}

func (s *UserStore) GetByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Username == username {
			return copyUser(u), nil
		}
	}
	return nil, models.ErrNotFound
}

func (s *UserStore) List(_ context.Context) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sorted(nil), nil
}

func (s *UserStore) ListWithTempPassword(_ context.Context) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sorted((*models.User).HasTempPassword), nil
}

func (s *UserStore) Create(_ context.Context, user *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == user.Username {
			return nil, fmt.Errorf("%w: username %q is taken", models.ErrConflict, user.Username)
		}
	}

	s.nextID++
	stored := copyUser(user)
	stored.ID = s.nextID
	if stored.Role == "" {
		stored.Role = models.RoleUser
	}
	now := time.Now().UTC()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	s.users[stored.ID] = stored

	return copyUser(stored), nil
}

func (s *UserStore) Update(_ context.Context, user *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.users[user.ID]
	if !ok {
		return nil, models.ErrNotFound
	}

	stored := copyUser(user)
	stored.Username = existing.Username
	stored.CreatedAt = existing.CreatedAt
	stored.UpdatedAt = time.Now().UTC()
	s.users[user.ID] = stored

	return copyUser(stored), nil
}

func (s *UserStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return models.ErrNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *UserStore) ClearTempPasswords(_ context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var cleared int64
	for _, u := range s.users {
		if !u.HasTempPassword() {
			continue
		}
		if !cutoff.IsZero() && !u.CreatedAt.Before(cutoff) {
			continue
		}
		u.TempPassword = ""
		u.UpdatedAt = time.Now().UTC()
		cleared++
	}
	return cleared, nil
}
