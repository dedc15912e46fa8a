package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is a process-local revocation list for single-instance
// deployments without Redis.
type MemoryStore struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		revoked: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (s *MemoryStore) Revoke(_ context.Context, jti string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if floor := s.now().Add(minRevocationTTL); expiresAt.Before(floor) {
		expiresAt = floor
	}
	s.revoked[jti] = expiresAt
	return nil
}

func (s *MemoryStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiresAt, ok := s.revoked[jti]
	if !ok {
		return false, nil
	}
	return s.now().Before(expiresAt), nil
}

// CleanupExpired forgets revocations whose token has expired.
func (s *MemoryStore) CleanupExpired(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var removed int64
	for jti, expiresAt := range s.revoked {
		if !now.Before(expiresAt) {
			delete(s.revoked, jti)
			removed++
		}
	}
	return removed, nil
}
