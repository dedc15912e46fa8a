package handlers

import (
	"context"
	"net/http"

	"github.com/BradenHooton/ideabox/internal/models"
	pkghttp "github.com/BradenHooton/ideabox/pkg/http"
)

// ProfileServiceInterface defines the self-service account operations
type ProfileServiceInterface interface {
	FindUser(ctx context.Context, id int64) (*models.User, error)
	CompleteIntroduction(ctx context.Context, userID int64, fullName string) (*models.User, error)
	ChangePassword(ctx context.Context, actor models.Actor, currentPassword, newPassword string) error
}

// ProfileHandler serves the caller's own account
type ProfileHandler struct {
	service ProfileServiceInterface
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(service ProfileServiceInterface) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// GetMe returns the authenticated user's account
// @Summary Current user
// @Security BearerAuth
// @Success 200 {object} UserResponse
// @Router /me [get]
func (h *ProfileHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	user, err := h.service.FindUser(r.Context(), actor.UserID)
	if err != nil {
		pkghttp.WriteServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, userModelToResponse(user))
}

// CompleteIntroduction records the user's full name after first login
// @Summary Complete onboarding
// @Security BearerAuth
// @Param request body IntroductionRequest true "Introduction"
// @Success 200 {object} UserResponse
// @Router /me/introduction [put]
func (h *ProfileHandler) CompleteIntroduction(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req IntroductionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.service.CompleteIntroduction(r.Context(), actor.UserID, req.FullName)
	if err != nil {
		pkghttp.WriteServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, userModelToResponse(user))
}

// ChangePassword replaces an administrator's own password
// @Summary Change password
// @Security BearerAuth
// @Param request body ChangePasswordRequest true "Passwords"
// @Success 204
// @Failure 400 {object} pkghttp.ErrorResponse
// @Failure 403 {object} pkghttp.ErrorResponse
// @Router /me/password [put]
func (h *ProfileHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req ChangePasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.service.ChangePassword(r.Context(), actor, req.CurrentPassword, req.NewPassword); err != nil {
		pkghttp.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
