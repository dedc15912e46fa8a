package memory

import (
	"context"
	"sync"
	"time"

	"github.com/BradenHooton/ideabox/internal/models"
)

// AuditStore keeps audit entries in memory, newest last.
type AuditStore struct {
	mu      sync.Mutex
	nextID  int64
	entries []*models.AuditLog
}

func NewAuditStore() *AuditStore {
	return &AuditStore{}
}

func (s *AuditStore) Create(_ context.Context, log *models.AuditLog) (*models.AuditLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	stored := *log
	stored.ID = s.nextID
	stored.CreatedAt = time.Now().UTC()
	s.entries = append(s.entries, &stored)

	out := stored
	return &out, nil
}

func (s *AuditStore) ListRecent(_ context.Context, limit int) ([]*models.AuditLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 {
		return []*models.AuditLog{}, nil
	}

	out := make([]*models.AuditLog, 0, limit)
	for i := len(s.entries) - 1; i >= 0 && len(out) < limit; i-- {
		e := *s.entries[i]
		out = append(out, &e)
	}
	return out, nil
}
