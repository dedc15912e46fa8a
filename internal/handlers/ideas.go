package handlers

import (
	"context"
	"net/http"

	"github.com/BradenHooton/ideabox/internal/auth"
	"github.com/BradenHooton/ideabox/internal/models"
	"github.com/BradenHooton/ideabox/internal/query"
	pkghttp "github.com/BradenHooton/ideabox/pkg/http"
)

// IdeaServiceInterface defines the idea catalogue operations used by IdeaHandler
type IdeaServiceInterface interface {
	CreateIdea(ctx context.Context, input models.NewIdea, authorID int64) (*models.Idea, error)
	GetIdeaFor(ctx context.Context, actor models.Actor, id int64) (*models.Idea, error)
	ListIdeas(ctx context.Context, visibility models.Visibility) ([]*models.Idea, error)
}

// VotingServiceInterface defines the voting operation
type VotingServiceInterface interface {
	CastVote(ctx context.Context, ideaID, userID int64, direction models.VoteDirection) (*models.Idea, error)
}

// CommentServiceInterface defines comment operations
type CommentServiceInterface interface {
	AddComment(ctx context.Context, ideaID, userID int64, text string) (*models.Comment, error)
	DeleteComment(ctx context.Context, actor models.Actor, ideaID, commentID int64) error
}

// AuthorEnricher attaches author projections to ideas
type AuthorEnricher interface {
	EnrichWithAuthor(ctx context.Context, ideas []*models.Idea) ([]query.EnrichedIdea, error)
}

// IdeaHandler handles idea browsing, submission, voting and commenting
type IdeaHandler struct {
	ideas    IdeaServiceInterface
	voting   VotingServiceInterface
	comments CommentServiceInterface
	enricher AuthorEnricher
}

// NewIdeaHandler creates a new IdeaHandler
func NewIdeaHandler(ideas IdeaServiceInterface, voting VotingServiceInterface, comments CommentServiceInterface, enricher AuthorEnricher) *IdeaHandler {
	return &IdeaHandler{
		ideas:    ideas,
		voting:   voting,
		comments: comments,
		enricher: enricher,
	}
}

// requireActor writes 401 and returns false when the request carries no actor.
func requireActor(w http.ResponseWriter, r *http.Request) (models.Actor, bool) {
	actor, ok := auth.ActorFromContext(r.Context())
	if !ok {
		pkghttp.WriteUnauthorized(w, "authentication required")
	}
	return actor, ok
}

// ListIdeas lists ideas visible to the caller
// @Summary List ideas
// @Security BearerAuth
// @Param status query string false "open, approved, popular or new"
// @Param category query string false "category name or all"
// @Param q query string false "title search"
// @Produce json
// @Success 200 {object} ListIdeasResponse
// @Router /ideas [get]
func (h *IdeaHandler) ListIdeas(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	h.list(w, r, actor, models.VisibilityFor(actor))
}

func (h *IdeaHandler) list(w http.ResponseWriter, r *http.Request, viewer models.Actor, visibility models.Visibility) {
	status, err := query.ParseStatus(r.URL.Query().Get("status"))
	if err != nil {
		pkghttp.WriteServiceError(w, err)
		return
	}

	all, err := h.ideas.ListIdeas(r.Context(), visibility)
	if err != nil {
		pkghttp.WriteServiceError(w, err)
		return
	}

	filtered := query.FilterIdeas(all, query.Filter{Status: status, Category: r.URL.Query().Get("category")})
	result := query.SearchByTitle(filtered, r.URL.Query().Get("q"))

	ideas, err := h.render(r, result.Ideas, viewer)
	if err != nil {
		pkghttp.WriteServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, ListIdeasResponse{
		Ideas:          ideas,
		Total:          len(ideas),
		IsSearchActive: result.IsSearchActive,
		Query:          result.Query,
	})
}

// GetIdea returns a single idea with its comments
// @Summary Get idea
// @Security BearerAuth
// @Param id path int true "Idea ID"
// @Success 200 {object} IdeaResponse
// @Failure 404 {object} pkghttp.ErrorResponse
// @Router /ideas/{id} [get]
func (h *IdeaHandler) GetIdea(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := int64Param(w, r, "id")
	if !ok {
		return
	}

	idea, err := h.ideas.GetIdeaFor(r.Context(), actor, id)
	if err != nil {
		pkghttp.WriteServiceError(w, err)
		return
	}
	h.writeIdea(w, r, http.StatusOK, idea, actor)
}

// CreateIdea submits a new idea
// @Summary Submit idea
// @Security BearerAuth
// @Accept json
// @Param request body CreateIdeaRequest true "Idea"
// @Success 201 {object} IdeaResponse
// @Failure 400 {object} pkghttp.ErrorResponse
// @Router /ideas [post]
func (h *IdeaHandler) CreateIdea(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var req CreateIdeaRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	idea, err := h.ideas.CreateIdea(r.Context(), models.NewIdea{
		Title:            req.Title,
		ShortDescription: req.ShortDescription,
		FullDescription:  req.FullDescription,
		ExpectedEffect:   req.ExpectedEffect,
		Category:         req.Category,
	}, actor.UserID)
	if err != nil {
		pkghttp.WriteServiceError(w, err)
		return
	}
	h.writeIdea(w, r, http.StatusCreated, idea, actor)
}

// Vote casts the caller's single vote on an idea
// @Summary Vote on idea
// @Security BearerAuth
// @Param id path int true "Idea ID"
// @Param request body VoteRequest true "Vote"
// @Success 200 {object} IdeaResponse
// @Failure 409 {object} pkghttp.ErrorResponse
// @Router /ideas/{id}/vote [post]
func (h *IdeaHandler) Vote(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := int64Param(w, r, "id")
	if !ok {
		return
	}
	var req VoteRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	if !h.visible(w, r, actor, id) {
		return
	}

	idea, err := h.voting.CastVote(r.Context(), id, actor.UserID, models.VoteDirection(req.Direction))
	if err != nil {
		pkghttp.WriteServiceError(w, err)
		return
	}
	h.writeIdea(w, r, http.StatusOK, idea, actor)
}

// AddComment appends a comment to an idea
// @Summary Comment on idea
// @Security BearerAuth
// @Param id path int true "Idea ID"
// @Param request body CommentRequest true "Comment"
// @Success 201 {object} CommentResponse
// @Router /ideas/{id}/comments [post]
func (h *IdeaHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	id, ok := int64Param(w, r, "id")
	if !ok {
		return
	}
	var req CommentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if !h.visible(w, r, actor, id) {
		return
	}

	c, err := h.comments.AddComment(r.Context(), id, actor.UserID, req.Text)
	if err != nil {
		pkghttp.WriteServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusCreated, CommentResponse{ID: c.ID, UserID: c.UserID, Text: c.Text, CreatedAt: c.CreatedAt})
}

// visible writes 404 and returns false when the idea is hidden from actor.
// The engine itself does not gate votes and comments on visibility.
func (h *IdeaHandler) visible(w http.ResponseWriter, r *http.Request, actor models.Actor, id int64) bool {
	if _, err := h.ideas.GetIdeaFor(r.Context(), actor, id); err != nil {
		pkghttp.WriteServiceError(w, err)
		return false
	}
	return true
}

func (h *IdeaHandler) writeIdea(w http.ResponseWriter, r *http.Request, status int, idea *models.Idea, viewer models.Actor) {
	out, err := h.render(r, []*models.Idea{idea}, viewer)
	if err != nil {
		pkghttp.WriteServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, status, out[0])
}

// render converts ideas for viewer. Author identity is resolved for
// administrators only; other viewers get author_id alone.
func (h *IdeaHandler) render(r *http.Request, ideas []*models.Idea, viewer models.Actor) ([]IdeaResponse, error) {
	if !viewer.IsAdmin() {
		out := make([]IdeaResponse, 0, len(ideas))
		for _, idea := range ideas {
			out = append(out, ideaToResponse(idea, nil, viewer))
		}
		return out, nil
	}

	enriched, err := h.enricher.EnrichWithAuthor(r.Context(), ideas)
	if err != nil {
		return nil, err
	}
	return enrichedToResponse(enriched, viewer), nil
}
