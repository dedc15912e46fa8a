package services

import (
	"context"
	"sync"
	"time"

	"github.com/BradenHooton/ideabox/internal/models"
)

// MockIdeaRepository implements IdeaRepository for testing
type MockIdeaRepository struct {
	CreateFunc  func(ctx context.Context, idea *models.Idea) (*models.Idea, error)
	GetByIDFunc func(ctx context.Context, id int64) (*models.Idea, error)
	ListFunc    func(ctx context.Context) ([]*models.Idea, error)
	MutateFunc  func(ctx context.Context, id int64, fn func(*models.Idea) error) (*models.Idea, error)
}

func (m *MockIdeaRepository) Create(ctx context.Context, idea *models.Idea) (*models.Idea, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, idea)
	}
	return nil, models.ErrInternalServer
}

func (m *MockIdeaRepository) GetByID(ctx context.Context, id int64) (*models.Idea, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockIdeaRepository) List(ctx context.Context) ([]*models.Idea, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []*models.Idea{}, nil
}

func (m *MockIdeaRepository) Mutate(ctx context.Context, id int64, fn func(*models.Idea) error) (*models.Idea, error) {
	if m.MutateFunc != nil {
		return m.MutateFunc(ctx, id, fn)
	}
	return nil, models.ErrNotFound
}

// MockUserRepository implements UserRepository for testing
type MockUserRepository struct {
	GetByIDFunc              func(ctx context.Context, id int64) (*models.User, error)
	GetByIDsFunc             func(ctx context.Context, ids []int64) ([]*models.User, error)
	GetByUsernameFunc        func(ctx context.Context, username string) (*models.User, error)
	ListFunc                 func(ctx context.Context) ([]*models.User, error)
	ListWithTempPasswordFunc func(ctx context.Context) ([]*models.User, error)
	CreateFunc               func(ctx context.Context, user *models.User) (*models.User, error)
	UpdateFunc               func(ctx context.Context, user *models.User) (*models.User, error)
	DeleteFunc               func(ctx context.Context, id int64) error
	ClearTempPasswordsFunc   func(ctx context.Context, cutoff time.Time) (int64, error)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) GetByIDs(ctx context.Context, ids []int64) ([]*models.User, error) {
	if m.GetByIDsFunc != nil {
		return m.GetByIDsFunc(ctx, ids)
	}
	return []*models.User{}, nil
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if m.GetByUsernameFunc != nil {
		return m.GetByUsernameFunc(ctx, username)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) List(ctx context.Context) ([]*models.User, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []*models.User{}, nil
}

func (m *MockUserRepository) ListWithTempPassword(ctx context.Context) ([]*models.User, error) {
	if m.ListWithTempPasswordFunc != nil {
		return m.ListWithTempPasswordFunc(ctx)
	}
	return []*models.User{}, nil
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil, models.ErrInternalServer
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) (*models.User, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, user)
	}
	return nil, models.ErrInternalServer
}

func (m *MockUserRepository) Delete(ctx context.Context, id int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockUserRepository) ClearTempPasswords(ctx context.Context, cutoff time.Time) (int64, error) {
	if m.ClearTempPasswordsFunc != nil {
		return m.ClearTempPasswordsFunc(ctx, cutoff)
	}
	return 0, nil
}

// MockAuditLogRepository implements AuditLogRepository for testing
type MockAuditLogRepository struct {
	CreateFunc     func(ctx context.Context, log *models.AuditLog) (*models.AuditLog, error)
	ListRecentFunc func(ctx context.Context, limit int) ([]*models.AuditLog, error)
}

func (m *MockAuditLogRepository) Create(ctx context.Context, log *models.AuditLog) (*models.AuditLog, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, log)
	}
	return log, nil
}

func (m *MockAuditLogRepository) ListRecent(ctx context.Context, limit int) ([]*models.AuditLog, error) {
	if m.ListRecentFunc != nil {
		return m.ListRecentFunc(ctx, limit)
	}
	return []*models.AuditLog{}, nil
}

// RecordedAction is one call captured by RecordingAuditor.
type RecordedAction struct {
	Actor        models.Actor
	EventType    string
	Action       string
	ResourceType string
	ResourceID   string
	Metadata     models.AuditMetadata
}

// RecordedAuthEvent is one authentication event captured by RecordingAuditor.
type RecordedAuthEvent struct {
	EventType     string
	UserID        *int64
	Success       bool
	FailureReason string
	IPAddress     string
}

// RecordingAuditor implements Auditor and keeps every call for assertions.
type RecordingAuditor struct {
	mu         sync.Mutex
	Actions    []RecordedAction
	AuthEvents []RecordedAuthEvent
}

func (a *RecordingAuditor) LogAction(_ context.Context, actor models.Actor, eventType, action, resourceType, resourceID string, metadata models.AuditMetadata) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.Actions = append(a.Actions, RecordedAction{
		Actor:        actor,
		EventType:    eventType,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Metadata:     metadata,
	})
}

func (a *RecordingAuditor) LogAuthEvent(_ context.Context, eventType string, userID *int64, success bool, failureReason, ipAddress string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.AuthEvents = append(a.AuthEvents, RecordedAuthEvent{
		EventType:     eventType,
		UserID:        userID,
		Success:       success,
		FailureReason: failureReason,
		IPAddress:     ipAddress,
	})
}

// NewTestUser builds an active account with the given role
func NewTestUser(id int64, username string, role models.Role) *models.User {
	now := time.Now().UTC()
	return &models.User{
		ID:        id,
		Username:  username,
		Role:      role,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewTestIdea builds a fresh idea with no votes or comments
func NewTestIdea(id int64, category string) *models.Idea {
	now := time.Now().UTC()
	return &models.Idea{
		ID:              id,
		Title:           "Test idea",
		FullDescription: "Full description",
		ExpectedEffect:  "Expected effect",
		Category:        category,
		AuthorID:        1,
		CreatedAt:       now,
		UpdatedAt:       now,
		VotedUsers:      []int64{},
		Comments:        []models.Comment{},
		Version:         1,
	}
}

