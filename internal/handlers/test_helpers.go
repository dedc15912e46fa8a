package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/BradenHooton/ideabox/internal/auth"
	"github.com/BradenHooton/ideabox/internal/models"
	"github.com/BradenHooton/ideabox/internal/services"
	pkghttp "github.com/BradenHooton/ideabox/pkg/http"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

// NewTestRequest creates an HTTP request with JSON body for testing
func NewTestRequest(t *testing.T, method, url string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// WithUser attaches an authenticated account to the request context
func WithUser(req *http.Request, userID int64, role models.Role) *http.Request {
	user := &models.User{ID: userID, Username: "user", Role: role, IsActive: true}
	return req.WithContext(auth.WithActor(req.Context(), user))
}

// WithChiRouteContext adds chi URL parameters to request context for testing
func WithChiRouteContext(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// AssertJSONResponse checks that response has correct status and decodes JSON body
func AssertJSONResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, target interface{}) {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	contentType := w.Header().Get("Content-Type")
	assert.Equal(t, "application/json", contentType, "Content-Type should be application/json")

	if target != nil {
		err := json.Unmarshal(w.Body.Bytes(), target)
		assert.NoError(t, err, "Failed to decode response JSON")
	}
}

// AssertErrorResponse checks that response is a valid error response
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedError string) {
	assert.Equal(t, expectedStatus, w.Code, "Response status mismatch")

	var resp pkghttp.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err, "Failed to decode error response")
	assert.Equal(t, expectedError, resp.Error, "Error code mismatch")
	assert.NotEmpty(t, resp.Message, "Error message should not be empty")
}

// MockAuthService implements AuthServiceInterface for testing
type MockAuthService struct {
	LoginFunc  func(ctx context.Context, username, password, ipAddress string) (*services.LoginResponse, error)
	LogoutFunc func(ctx context.Context, claims *models.TokenClaims, ipAddress string) error
}

func (m *MockAuthService) Login(ctx context.Context, username, password, ipAddress string) (*services.LoginResponse, error) {
	if m.LoginFunc == nil {
		return nil, models.ErrUnauthorized
	}
	return m.LoginFunc(ctx, username, password, ipAddress)
}

func (m *MockAuthService) Logout(ctx context.Context, claims *models.TokenClaims, ipAddress string) error {
	if m.LogoutFunc == nil {
		return nil
	}
	return m.LogoutFunc(ctx, claims, ipAddress)
}

// MockIdeaService implements IdeaServiceInterface for testing
type MockIdeaService struct {
	CreateIdeaFunc func(ctx context.Context, input models.NewIdea, authorID int64) (*models.Idea, error)
	GetIdeaForFunc func(ctx context.Context, actor models.Actor, id int64) (*models.Idea, error)
	ListIdeasFunc  func(ctx context.Context, visibility models.Visibility) ([]*models.Idea, error)
}

func (m *MockIdeaService) CreateIdea(ctx context.Context, input models.NewIdea, authorID int64) (*models.Idea, error) {
	if m.CreateIdeaFunc == nil {
		return nil, models.ErrValidation
	}
	return m.CreateIdeaFunc(ctx, input, authorID)
}

func (m *MockIdeaService) GetIdeaFor(ctx context.Context, actor models.Actor, id int64) (*models.Idea, error) {
	if m.GetIdeaForFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.GetIdeaForFunc(ctx, actor, id)
}

func (m *MockIdeaService) ListIdeas(ctx context.Context, visibility models.Visibility) ([]*models.Idea, error) {
	if m.ListIdeasFunc == nil {
		return []*models.Idea{}, nil
	}
	return m.ListIdeasFunc(ctx, visibility)
}

// MockVotingService implements VotingServiceInterface for testing
type MockVotingService struct {
	CastVoteFunc func(ctx context.Context, ideaID, userID int64, direction models.VoteDirection) (*models.Idea, error)
}

func (m *MockVotingService) CastVote(ctx context.Context, ideaID, userID int64, direction models.VoteDirection) (*models.Idea, error) {
	if m.CastVoteFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.CastVoteFunc(ctx, ideaID, userID, direction)
}

// MockCommentService implements CommentServiceInterface for testing
type MockCommentService struct {
	AddCommentFunc    func(ctx context.Context, ideaID, userID int64, text string) (*models.Comment, error)
	DeleteCommentFunc func(ctx context.Context, actor models.Actor, ideaID, commentID int64) error
}

func (m *MockCommentService) AddComment(ctx context.Context, ideaID, userID int64, text string) (*models.Comment, error) {
	if m.AddCommentFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.AddCommentFunc(ctx, ideaID, userID, text)
}

func (m *MockCommentService) DeleteComment(ctx context.Context, actor models.Actor, ideaID, commentID int64) error {
	if m.DeleteCommentFunc == nil {
		return nil
	}
	return m.DeleteCommentFunc(ctx, actor, ideaID, commentID)
}

// MockAuthorLookup resolves authors from a fixed map
type MockAuthorLookup struct {
	Users map[int64]*models.User
}

func (m *MockAuthorLookup) FindUser(_ context.Context, id int64) (*models.User, error) {
	if u, ok := m.Users[id]; ok {
		return u, nil
	}
	return nil, models.ErrNotFound
}

// MockCategoryService implements CategoryServiceInterface for testing
type MockCategoryService struct {
	ListCategoriesFunc func(ctx context.Context) ([]string, error)
	AddCategoryFunc    func(ctx context.Context, actor models.Actor, name string) (*models.Category, error)
	RenameCategoryFunc func(ctx context.Context, actor models.Actor, oldName, newName string) (int, error)
	DeleteCategoryFunc func(ctx context.Context, actor models.Actor, name string) error
}

func (m *MockCategoryService) ListCategories(ctx context.Context) ([]string, error) {
	if m.ListCategoriesFunc == nil {
		return []string{}, nil
	}
	return m.ListCategoriesFunc(ctx)
}

func (m *MockCategoryService) AddCategory(ctx context.Context, actor models.Actor, name string) (*models.Category, error) {
	if m.AddCategoryFunc == nil {
		return nil, models.ErrConflict
	}
	return m.AddCategoryFunc(ctx, actor, name)
}

func (m *MockCategoryService) RenameCategory(ctx context.Context, actor models.Actor, oldName, newName string) (int, error) {
	if m.RenameCategoryFunc == nil {
		return 0, models.ErrNotFound
	}
	return m.RenameCategoryFunc(ctx, actor, oldName, newName)
}

func (m *MockCategoryService) DeleteCategory(ctx context.Context, actor models.Actor, name string) error {
	if m.DeleteCategoryFunc == nil {
		return nil
	}
	return m.DeleteCategoryFunc(ctx, actor, name)
}

// MockProfileService implements ProfileServiceInterface for testing
type MockProfileService struct {
	FindUserFunc             func(ctx context.Context, id int64) (*models.User, error)
	CompleteIntroductionFunc func(ctx context.Context, userID int64, fullName string) (*models.User, error)
	ChangePasswordFunc       func(ctx context.Context, actor models.Actor, currentPassword, newPassword string) error
}

func (m *MockProfileService) FindUser(ctx context.Context, id int64) (*models.User, error) {
	if m.FindUserFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.FindUserFunc(ctx, id)
}

func (m *MockProfileService) CompleteIntroduction(ctx context.Context, userID int64, fullName string) (*models.User, error) {
	if m.CompleteIntroductionFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.CompleteIntroductionFunc(ctx, userID, fullName)
}

func (m *MockProfileService) ChangePassword(ctx context.Context, actor models.Actor, currentPassword, newPassword string) error {
	if m.ChangePasswordFunc == nil {
		return nil
	}
	return m.ChangePasswordFunc(ctx, actor, currentPassword, newPassword)
}

// MockUserService implements UserService for testing
type MockUserService struct {
	ListUsersFunc             func(ctx context.Context) ([]*models.User, error)
	RegisterUserFunc          func(ctx context.Context, actor models.Actor, username, password string, role models.Role) (*models.User, error)
	GenerateUsersFunc         func(ctx context.Context, actor models.Actor, count int) ([]models.GeneratedCredentials, error)
	ListTempPasswordUsersFunc func(ctx context.Context, actor models.Actor) ([]*models.User, error)
	PurgeTempPasswordsFunc    func(ctx context.Context, actor models.Actor) (int64, error)
	SetActiveFunc             func(ctx context.Context, actor models.Actor, userID int64, active bool) (*models.User, error)
	DeleteUserFunc            func(ctx context.Context, actor models.Actor, userID int64) error
}

func (m *MockUserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	if m.ListUsersFunc == nil {
		return []*models.User{}, nil
	}
	return m.ListUsersFunc(ctx)
}

func (m *MockUserService) RegisterUser(ctx context.Context, actor models.Actor, username, password string, role models.Role) (*models.User, error) {
	if m.RegisterUserFunc == nil {
		return nil, models.ErrConflict
	}
	return m.RegisterUserFunc(ctx, actor, username, password, role)
}

func (m *MockUserService) GenerateUsers(ctx context.Context, actor models.Actor, count int) ([]models.GeneratedCredentials, error) {
	if m.GenerateUsersFunc == nil {
		return []models.GeneratedCredentials{}, nil
	}
	return m.GenerateUsersFunc(ctx, actor, count)
}

func (m *MockUserService) ListTempPasswordUsers(ctx context.Context, actor models.Actor) ([]*models.User, error) {
	if m.ListTempPasswordUsersFunc == nil {
		return []*models.User{}, nil
	}
	return m.ListTempPasswordUsersFunc(ctx, actor)
}

func (m *MockUserService) PurgeTempPasswords(ctx context.Context, actor models.Actor) (int64, error) {
	if m.PurgeTempPasswordsFunc == nil {
		return 0, nil
	}
	return m.PurgeTempPasswordsFunc(ctx, actor)
}

func (m *MockUserService) SetActive(ctx context.Context, actor models.Actor, userID int64, active bool) (*models.User, error) {
	if m.SetActiveFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.SetActiveFunc(ctx, actor, userID, active)
}

func (m *MockUserService) DeleteUser(ctx context.Context, actor models.Actor, userID int64) error {
	if m.DeleteUserFunc == nil {
		return nil
	}
	return m.DeleteUserFunc(ctx, actor, userID)
}

// MockAdminService implements AdminServiceInterface for testing
type MockAdminService struct {
	DashboardStatsFunc func(ctx context.Context, actor models.Actor) (*services.DashboardStatsResponse, error)
}

func (m *MockAdminService) DashboardStats(ctx context.Context, actor models.Actor) (*services.DashboardStatsResponse, error) {
	if m.DashboardStatsFunc == nil {
		return &services.DashboardStatsResponse{}, nil
	}
	return m.DashboardStatsFunc(ctx, actor)
}

// MockModerationService implements ModerationServiceInterface for testing
type MockModerationService struct {
	ApproveFunc func(ctx context.Context, actor models.Actor, ideaID int64) (*models.Idea, error)
	HideFunc    func(ctx context.Context, actor models.Actor, ideaID int64) (*models.Idea, error)
	UnhideFunc  func(ctx context.Context, actor models.Actor, ideaID int64) (*models.Idea, error)
}

func (m *MockModerationService) Approve(ctx context.Context, actor models.Actor, ideaID int64) (*models.Idea, error) {
	if m.ApproveFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.ApproveFunc(ctx, actor, ideaID)
}

func (m *MockModerationService) Hide(ctx context.Context, actor models.Actor, ideaID int64) (*models.Idea, error) {
	if m.HideFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.HideFunc(ctx, actor, ideaID)
}

func (m *MockModerationService) Unhide(ctx context.Context, actor models.Actor, ideaID int64) (*models.Idea, error) {
	if m.UnhideFunc == nil {
		return nil, models.ErrNotFound
	}
	return m.UnhideFunc(ctx, actor, ideaID)
}

// MockAuditService implements AuditServiceInterface for testing
type MockAuditService struct {
	RecentActivityFunc func(ctx context.Context, limit int) ([]*models.AuditLog, error)
}

func (m *MockAuditService) RecentActivity(ctx context.Context, limit int) ([]*models.AuditLog, error) {
	if m.RecentActivityFunc == nil {
		return []*models.AuditLog{}, nil
	}
	return m.RecentActivityFunc(ctx, limit)
}
