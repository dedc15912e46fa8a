package repositories

import (
	"context"
	"fmt"

	"github.com/BradenHooton/ideabox/internal/database"
	"github.com/BradenHooton/ideabox/internal/models"
	"github.com/jackc/pgx/v5"
)

// CategoryRepository keeps the ordered registry of category names.
type CategoryRepository struct {
	db *database.DB
}

func NewCategoryRepository(db *database.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT name, position, created_at FROM categories ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := make([]models.Category, 0)
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.Name, &c.Position, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category rows: %w", err)
	}

	return categories, nil
}

func (r *CategoryRepository) Exists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.db.Pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM categories WHERE name = $1)`, name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check category: %w", err)
	}
	return exists, nil
}

// Create appends a category at the end of the registry.
func (r *CategoryRepository) Create(ctx context.Context, name string) (*models.Category, error) {
	query := `
		INSERT INTO categories (name, position)
		VALUES ($1, COALESCE((SELECT MAX(position) FROM categories), 0) + 1)
		RETURNING name, position, created_at
	`

	var c models.Category
	if err := r.db.Pool.QueryRow(ctx, query, name).Scan(&c.Name, &c.Position, &c.CreatedAt); err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &c, nil
}

// Rename renames a category in place and rewrites every idea that referenced
// the old name, all in one transaction. It returns the number of rewritten ideas.
func (r *CategoryRepository) Rename(ctx context.Context, oldName, newName string) (int, error) {
	var rewritten int

	err := r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		result, err := tx.Exec(ctx, `UPDATE categories SET name = $2 WHERE name = $1`, oldName, newName)
		if err != nil {
			return database.MapPostgresError(err)
		}
		if result.RowsAffected() == 0 {
			return models.ErrNotFound
		}

		result, err = tx.Exec(ctx,
			`UPDATE ideas SET category = $2, version = version + 1, updated_at = NOW() WHERE category = $1`,
			oldName, newName)
		if err != nil {
			return fmt.Errorf("failed to rewrite idea categories: %w", err)
		}
		rewritten = int(result.RowsAffected())
		return nil
	})
	if err != nil {
		return 0, err
	}

	return rewritten, nil
}

// Delete removes a category. It fails with models.ErrConflict while any idea
// still references the name.
func (r *CategoryRepository) Delete(ctx context.Context, name string) error {
	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		// Lock the row against a concurrent rename
		var locked string
		err := tx.QueryRow(ctx, `SELECT name FROM categories WHERE name = $1 FOR UPDATE`, name).Scan(&locked)
		if err != nil {
			return database.MapPostgresError(err)
		}

		var inUse bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM ideas WHERE category = $1)`, name).Scan(&inUse); err != nil {
			return fmt.Errorf("failed to check category usage: %w", err)
		}
		if inUse {
			return fmt.Errorf("%w: category %q is still used by ideas", models.ErrConflict, name)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM categories WHERE name = $1`, name); err != nil {
			return database.MapPostgresError(err)
		}
		return nil
	})
}
