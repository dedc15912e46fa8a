package handlers

import (
	"context"
	"net/http"

	"github.com/BradenHooton/ideabox/internal/models"
	"github.com/BradenHooton/ideabox/internal/services"
	pkghttp "github.com/BradenHooton/ideabox/pkg/http"
)

// AdminServiceInterface defines the dashboard service contract.
type AdminServiceInterface interface {
	DashboardStats(ctx context.Context, actor models.Actor) (*services.DashboardStatsResponse, error)
}

// ModerationServiceInterface defines idea moderation actions.
type ModerationServiceInterface interface {
	Approve(ctx context.Context, actor models.Actor, ideaID int64) (*models.Idea, error)
	Hide(ctx context.Context, actor models.Actor, ideaID int64) (*models.Idea, error)
	Unhide(ctx context.Context, actor models.Actor, ideaID int64) (*models.Idea, error)
}

// AdminHandler handles the admin dashboard and moderation HTTP requests.
type AdminHandler struct {
	service    AdminServiceInterface
	moderation ModerationServiceInterface
	ideas      *IdeaHandler
}

// NewAdminHandler creates a new AdminHandler. Idea rendering and comment
// removal go through ideas.
func NewAdminHandler(service AdminServiceInterface, moderation ModerationServiceInterface, ideas *IdeaHandler) *AdminHandler {
	return &AdminHandler{service: service, moderation: moderation, ideas: ideas}
}

// GetDashboardStats handles GET /admin/dashboard
func (h *AdminHandler) GetDashboardStats(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	stats, err := h.service.DashboardStats(r.Context(), actor)
	if err != nil {
		pkghttp.WriteServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, stats)
}

// ListIdeas handles GET /admin/ideas. Hidden ideas are included.
func (h *AdminHandler) ListIdeas(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	h.ideas.list(w, r, actor, models.VisibilityAdmin)
}

// ApproveIdea handles POST /admin/ideas/{id}/approve
func (h *AdminHandler) ApproveIdea(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, h.moderation.Approve)
}

// HideIdea handles POST /admin/ideas/{id}/hide
func (h *AdminHandler) HideIdea(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, h.moderation.Hide)
}

// UnhideIdea handles POST /admin/ideas/{id}/unhide
func (h *AdminHandler) UnhideIdea(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, h.moderation.Unhide)
}

func (h *AdminHandler) moderate(w http.ResponseWriter, r *http.Request, action func(context.Context, models.Actor, int64) (*models.Idea, error)) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := int64Param(w, r, "id")
	if !ok {
		return
	}

	idea, err := action(r.Context(), actor, id)
	if err != nil {
		pkghttp.WriteServiceError(w, err)
		return
	}
	h.ideas.writeIdea(w, r, http.StatusOK, idea, actor)
}

// DeleteComment handles DELETE /admin/ideas/{id}/comments/{commentID}
func (h *AdminHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	ideaID, ok := int64Param(w, r, "id")
	if !ok {
		return
	}
	commentID, ok := int64Param(w, r, "commentID")
	if !ok {
		return
	}

	if err := h.ideas.comments.DeleteComment(r.Context(), actor, ideaID, commentID); err != nil {
		pkghttp.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
