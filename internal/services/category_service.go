package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/BradenHooton/ideabox/internal/models"
)

// CategoryRepository defines the interface for the category registry
type CategoryRepository interface {
	List(ctx context.Context) ([]models.Category, error)
	Exists(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, name string) (*models.Category, error)
	// Rename also rewrites the category of every idea filed under oldName.
	Rename(ctx context.Context, oldName, newName string) (int, error)
	Delete(ctx context.Context, name string) error
}

// CategoryService manages the set of category names ideas can be filed under.
type CategoryService struct {
	repo   CategoryRepository
	audit  Auditor
	logger *slog.Logger
}

func NewCategoryService(repo CategoryRepository, audit Auditor, logger *slog.Logger) *CategoryService {
	return &CategoryService{
		repo:   repo,
		audit:  auditorOrNoop(audit),
		logger: logger,
	}
}

// ListCategories returns category names in registry order.
func (s *CategoryService) ListCategories(ctx context.Context) ([]string, error) {
	categories, err := s.repo.List(ctx)
	if err != nil {
		return nil, storageFailure(ctx, s.logger, "failed to list categories", err)
	}

	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, c.Name)
	}
	return names, nil
}

func (s *CategoryService) Exists(ctx context.Context, name string) (bool, error) {
	ok, err := s.repo.Exists(ctx, name)
	if err != nil {
		return false, storageFailure(ctx, s.logger, "failed to check category", err, slog.String("category", name))
	}
	return ok, nil
}

func (s *CategoryService) AddCategory(ctx context.Context, actor models.Actor, name string) (*models.Category, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: category name is required", models.ErrValidation)
	}
	if strings.EqualFold(name, models.AllCategories) {
		return nil, fmt.Errorf("%w: %q is reserved", models.ErrValidation, models.AllCategories)
	}

	category, err := s.repo.Create(ctx, name)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			s.logger.InfoContext(ctx, "category already exists", slog.String("category", name))
			return nil, fmt.Errorf("%w: category %q already exists", models.ErrConflict, name)
		}
		return nil, storageFailure(ctx, s.logger, "failed to create category", err, slog.String("category", name))
	}

	s.logger.InfoContext(ctx, "category created", slog.String("category", name))
	s.audit.LogAction(ctx, actor, models.AuditEventTypeCategory, models.AuditActionCreate,
		models.AuditResourceTypeCategory, name, nil)

	return category, nil
}

// RenameCategory renames oldName to newName and returns how many ideas were
// moved along with it. Renaming a category to its own name changes nothing.
func (s *CategoryService) RenameCategory(ctx context.Context, actor models.Actor, oldName, newName string) (int, error) {
	if err := requireAdmin(actor); err != nil {
		return 0, err
	}

	oldName = strings.TrimSpace(oldName)
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return 0, fmt.Errorf("%w: new category name is required", models.ErrValidation)
	}
	if strings.EqualFold(newName, models.AllCategories) {
		return 0, fmt.Errorf("%w: %q is reserved", models.ErrValidation, models.AllCategories)
	}

	if oldName == newName {
		exists, err := s.Exists(ctx, oldName)
		if err != nil {
			return 0, err
		}
		if !exists {
			return 0, models.ErrNotFound
		}
		return 0, nil
	}

	rewritten, err := s.repo.Rename(ctx, oldName, newName)
	if err != nil {
		return 0, storageFailure(ctx, s.logger, "failed to rename category", err,
			slog.String("from", oldName), slog.String("to", newName))
	}

	s.logger.InfoContext(ctx, "category renamed",
		slog.String("from", oldName),
		slog.String("to", newName),
		slog.Int("ideas_rewritten", rewritten),
	)
	s.audit.LogAction(ctx, actor, models.AuditEventTypeCategory, models.AuditActionRename,
		models.AuditResourceTypeCategory, newName, models.AuditMetadata{
			"from":            oldName,
			"ideas_rewritten": rewritten,
		})

	return rewritten, nil
}

// DeleteCategory removes a category that no idea references any more.
func (s *CategoryService) DeleteCategory(ctx context.Context, actor models.Actor, name string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}

	name = strings.TrimSpace(name)
	if err := s.repo.Delete(ctx, name); err != nil {
		if errors.Is(err, models.ErrConflict) {
			s.logger.InfoContext(ctx, "category still in use", slog.String("category", name))
		}
		return storageFailure(ctx, s.logger, "failed to delete category", err, slog.String("category", name))
	}

	s.logger.InfoContext(ctx, "category deleted", slog.String("category", name))
	s.audit.LogAction(ctx, actor, models.AuditEventTypeCategory, models.AuditActionDelete,
		models.AuditResourceTypeCategory, name, nil)

	return nil
}

// SeedDefaults fills an empty registry with names. A non-empty registry is left alone.
func (s *CategoryService) SeedDefaults(ctx context.Context, names []string) error {
	existing, err := s.repo.List(ctx)
	if err != nil {
		return storageFailure(ctx, s.logger, "failed to list categories", err)
	}
	if len(existing) > 0 {
		return nil
	}

	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, err := s.repo.Create(ctx, name); err != nil && !errors.Is(err, models.ErrConflict) {
			return storageFailure(ctx, s.logger, "failed to seed category", err, slog.String("category", name))
		}
	}

	s.logger.InfoContext(ctx, "default categories seeded", slog.Int("count", len(names)))
	return nil
}
