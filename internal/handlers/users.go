package handlers

import (
	"context"
	"net/http"

	"github.com/BradenHooton/ideabox/internal/models"
	pkghttp "github.com/BradenHooton/ideabox/pkg/http"
)

// UserService defines the interface for account administration
type UserService interface {
	ListUsers(ctx context.Context) ([]*models.User, error)
	RegisterUser(ctx context.Context, actor models.Actor, username, password string, role models.Role) (*models.User, error)
	GenerateUsers(ctx context.Context, actor models.Actor, count int) ([]models.GeneratedCredentials, error)
	ListTempPasswordUsers(ctx context.Context, actor models.Actor) ([]*models.User, error)
	PurgeTempPasswords(ctx context.Context, actor models.Actor) (int64, error)
	SetActive(ctx context.Context, actor models.Actor, userID int64, active bool) (*models.User, error)
	DeleteUser(ctx context.Context, actor models.Actor, userID int64) error
}

// UserHandler handles admin user-management HTTP requests
type UserHandler struct {
	service UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(service UserService) *UserHandler {
	return &UserHandler{
		service: service,
	}
}

// ListUsersResponse represents a list of users
type ListUsersResponse struct {
	Users []*UserResponse `json:"users"`
	Total int             `json:"total"`
}

// GenerateUsersResponse carries freshly generated credentials
type GenerateUsersResponse struct {
	Users []models.GeneratedCredentials `json:"users"`
}

// PurgeResponse reports how many stored passwords were cleared
type PurgeResponse struct {
	Cleared int64 `json:"cleared"`
}

// ListUsers handles GET /admin/users
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		pkghttp.WriteServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, ListUsersResponse{
		Users: usersToResponse(users),
		Total: len(users),
	})
}

// RegisterUser handles POST /admin/users
func (h *UserHandler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req RegisterUserRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	role := models.RoleUser
	if req.Role != "" {
		role = models.Role(req.Role)
	}

	user, err := h.service.RegisterUser(r.Context(), actor, req.Username, req.Password, role)
	if err != nil {
		pkghttp.WriteServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusCreated, userModelToResponse(user))
}

// GenerateUsers handles POST /admin/users/generate
func (h *UserHandler) GenerateUsers(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req GenerateUsersRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	creds, err := h.service.GenerateUsers(r.Context(), actor, req.Count)
	if err != nil {
		pkghttp.WriteServiceError(w, err)
		return
	}

	// Credentials must not linger in intermediary caches.
	w.Header().Set("Cache-Control", "no-store")
	pkghttp.WriteJSON(w, http.StatusCreated, GenerateUsersResponse{Users: creds})
}

// ListTempPasswords handles GET /admin/users/temp-passwords
func (h *UserHandler) ListTempPasswords(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	users, err := h.service.ListTempPasswordUsers(r.Context(), actor)
	if err != nil {
		pkghttp.WriteServiceError(w, err)
		return
	}

	out := make([]TempPasswordResponse, 0, len(users))
	for _, u := range users {
		out = append(out, TempPasswordResponse{ID: u.ID, Username: u.Username, TempPassword: u.TempPassword, CreatedAt: u.CreatedAt})
	}
	w.Header().Set("Cache-Control", "no-store")
	pkghttp.WriteJSON(w, http.StatusOK, out)
}

// PurgeTempPasswords handles DELETE /admin/users/temp-passwords
func (h *UserHandler) PurgeTempPasswords(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	n, err := h.service.PurgeTempPasswords(r.Context(), actor)
	if err != nil {
		pkghttp.WriteServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, PurgeResponse{Cleared: n})
}

// BlockUser handles POST /admin/users/{id}/block
func (h *UserHandler) BlockUser(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, false)
}

// UnblockUser handles POST /admin/users/{id}/unblock
func (h *UserHandler) UnblockUser(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, true)
}

func (h *UserHandler) setActive(w http.ResponseWriter, r *http.Request, active bool) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := int64Param(w, r, "id")
	if !ok {
		return
	}

	user, err := h.service.SetActive(r.Context(), actor, id, active)
	if err != nil {
		pkghttp.WriteServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, userModelToResponse(user))
}

// DeleteUser handles DELETE /admin/users/{id}
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := int64Param(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteUser(r.Context(), actor, id); err != nil {
		pkghttp.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
