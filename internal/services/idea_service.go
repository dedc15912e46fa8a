package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/BradenHooton/ideabox/internal/metrics"
	"github.com/BradenHooton/ideabox/internal/models"
)

// IdeaRepository defines the interface for idea storage. Every change to an
// existing idea goes through Mutate, which runs fn as one read-check-write
// unit for that idea.
type IdeaRepository interface {
	Create(ctx context.Context, idea *models.Idea) (*models.Idea, error)
	GetByID(ctx context.Context, id int64) (*models.Idea, error)
	List(ctx context.Context) ([]*models.Idea, error)
	Mutate(ctx context.Context, id int64, fn func(*models.Idea) error) (*models.Idea, error)
}

// CategoryChecker reports whether a category name is registered.
type CategoryChecker interface {
	Exists(ctx context.Context, name string) (bool, error)
}

// IdeaService creates and reads ideas.
type IdeaService struct {
	repo       IdeaRepository
	categories CategoryChecker
	logger     *slog.Logger
}

func NewIdeaService(repo IdeaRepository, categories CategoryChecker, logger *slog.Logger) *IdeaService {
	return &IdeaService{
		repo:       repo,
		categories: categories,
		logger:     logger,
	}
}

// CreateIdea validates input and stores a new idea authored by authorID.
func (s *IdeaService) CreateIdea(ctx context.Context, input models.NewIdea, authorID int64) (*models.Idea, error) {
	idea := &models.Idea{
		Title:            strings.TrimSpace(input.Title),
		ShortDescription: strings.TrimSpace(input.ShortDescription),
		FullDescription:  strings.TrimSpace(input.FullDescription),
		ExpectedEffect:   strings.TrimSpace(input.ExpectedEffect),
		Category:         strings.TrimSpace(input.Category),
		AuthorID:         authorID,
		VotedUsers:       []int64{},
		Comments:         []models.Comment{},
	}

	var missing []string
	if idea.Title == "" {
		missing = append(missing, "title")
	}
	if idea.FullDescription == "" {
		missing = append(missing, "full_description")
	}
	if idea.ExpectedEffect == "" {
		missing = append(missing, "expected_effect")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: required fields are empty: %s", models.ErrValidation, strings.Join(missing, ", "))
	}

	known, err := s.categories.Exists(ctx, idea.Category)
	if err != nil {
		return nil, storageFailure(ctx, s.logger, "failed to check category", err)
	}
	if !known {
		return nil, fmt.Errorf("%w: unknown category %q", models.ErrValidation, idea.Category)
	}

	created, err := s.repo.Create(ctx, idea)
	if err != nil {
		return nil, storageFailure(ctx, s.logger, "failed to create idea", err, slog.Int64("author_id", authorID))
	}

	metrics.IdeasCreated.WithLabelValues(created.Category).Inc()
	s.logger.InfoContext(ctx, "idea created",
		slog.Int64("idea_id", created.ID),
		slog.Int64("author_id", authorID),
		slog.String("category", created.Category),
	)

	return created, nil
}

func (s *IdeaService) GetIdea(ctx context.Context, id int64) (*models.Idea, error) {
	idea, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storageFailure(ctx, s.logger, "failed to get idea", err, slog.Int64("idea_id", id))
	}
	return idea, nil
}

// GetIdeaFor returns the idea if actor may see it. Hidden ideas are reported
// as missing to non-admins.
func (s *IdeaService) GetIdeaFor(ctx context.Context, actor models.Actor, id int64) (*models.Idea, error) {
	idea, err := s.GetIdea(ctx, id)
	if err != nil {
		return nil, err
	}
	if idea.IsHidden && models.VisibilityFor(actor) != models.VisibilityAdmin {
		return nil, models.ErrNotFound
	}
	return idea, nil
}

// ListIdeas returns snapshots of all ideas in creation order. Public
// visibility leaves hidden ideas out.
func (s *IdeaService) ListIdeas(ctx context.Context, visibility models.Visibility) ([]*models.Idea, error) {
	ideas, err := s.repo.List(ctx)
	if err != nil {
		return nil, storageFailure(ctx, s.logger, "failed to list ideas", err)
	}

	if visibility == models.VisibilityAdmin {
		return ideas, nil
	}

	visible := make([]*models.Idea, 0, len(ideas))
	for _, idea := range ideas {
		if !idea.IsHidden {
			visible = append(visible, idea)
		}
	}
	return visible, nil
}
