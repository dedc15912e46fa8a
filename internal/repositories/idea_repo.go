package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/BradenHooton/ideabox/internal/database"
	"github.com/BradenHooton/ideabox/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"
)

const ideaColumns = `id, title, short_description, full_description, expected_effect, category,
	author_id, votes_for, votes_against, voted_users, is_approved, is_hidden,
	comments, last_comment_id, version, created_at, updated_at`

// IdeaRepository stores ideas with their embedded comments and voter set.
type IdeaRepository struct {
	db *database.DB
}

func NewIdeaRepository(db *database.DB) *IdeaRepository {
	return &IdeaRepository{db: db}
}

func scanIdeaRow(scanner rowScanner) (*models.Idea, error) {
	var idea models.Idea
	var comments []byte

	err := scanner.Scan(
		&idea.ID, &idea.Title, &idea.ShortDescription, &idea.FullDescription, &idea.ExpectedEffect,
		&idea.Category, &idea.AuthorID, &idea.VotesFor, &idea.VotesAgainst, pq.Array(&idea.VotedUsers),
		&idea.IsApproved, &idea.IsHidden, &comments, &idea.LastCommentID, &idea.Version,
		&idea.CreatedAt, &idea.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	if len(comments) > 0 {
		if err := json.Unmarshal(comments, &idea.Comments); err != nil {
			return nil, fmt.Errorf("failed to decode comments of idea %d: %w", idea.ID, err)
		}
	}

	// Clone normalises nil slices
	return idea.Clone(), nil
}

func scanIdeaRows(rows pgx.Rows) ([]*models.Idea, error) {
	defer rows.Close()

	ideas := make([]*models.Idea, 0)

	for rows.Next() {
		idea, err := scanIdeaRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan idea: %w", err)
		}
		ideas = append(ideas, idea)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating idea rows: %w", err)
	}

	return ideas, nil
}

func encodeComments(comments []models.Comment) ([]byte, error) {
	if comments == nil {
		comments = []models.Comment{}
	}
	return json.Marshal(comments)
}

func (r *IdeaRepository) Create(ctx context.Context, idea *models.Idea) (*models.Idea, error) {
	now := time.Now().UTC()

	comments, err := encodeComments(idea.Comments)
	if err != nil {
		return nil, err
	}
	votedUsers := idea.VotedUsers
	if votedUsers == nil {
		votedUsers = []int64{}
	}

	// The category row is share-locked so a concurrent rename waits for this
	// insert and then rewrites it along with the rest.
	query := `
		INSERT INTO ideas (title, short_description, full_description, expected_effect, category,
			author_id, votes_for, votes_against, voted_users, is_approved, is_hidden,
			comments, last_comment_id, version, created_at, updated_at)
		SELECT $1::text, $2::text, $3::text, $4::text, c.name,
			$6::bigint, $7::int, $8::int, $9::bigint[], $10::boolean, $11::boolean,
			$12::jsonb, $13::bigint, 1, $14::timestamptz, $14::timestamptz
		FROM categories c
		WHERE c.name = $5
		FOR SHARE
		RETURNING ` + ideaColumns

	created, err := scanIdeaRow(r.db.Pool.QueryRow(ctx, query,
		idea.Title, idea.ShortDescription, idea.FullDescription, idea.ExpectedEffect, idea.Category,
		idea.AuthorID, idea.VotesFor, idea.VotesAgainst, pq.Array(votedUsers), idea.IsApproved, idea.IsHidden,
		comments, idea.LastCommentID, now,
	))
	if errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("%w: unknown category %q", models.ErrValidation, idea.Category)
	}
	return created, err
}

func (r *IdeaRepository) GetByID(ctx context.Context, id int64) (*models.Idea, error) {
	query := `SELECT ` + ideaColumns + ` FROM ideas WHERE id = $1`
	return scanIdeaRow(r.db.Pool.QueryRow(ctx, query, id))
}

// List returns every idea in insertion order.
func (r *IdeaRepository) List(ctx context.Context) ([]*models.Idea, error) {
	query := `SELECT ` + ideaColumns + ` FROM ideas ORDER BY id`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query ideas: %w", err)
	}

	return scanIdeaRows(rows)
}

// Mutate loads the idea under a row lock, applies fn to a copy and writes the
// result back guarded by the version column. If fn returns models.ErrNoChange
// nothing is written and the current state is returned.
func (r *IdeaRepository) Mutate(ctx context.Context, id int64, fn func(*models.Idea) error) (*models.Idea, error) {
	var result *models.Idea

	err := r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		current, err := scanIdeaRow(tx.QueryRow(ctx,
			`SELECT `+ideaColumns+` FROM ideas WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			return err
		}

		next := current.Clone()
		if err := fn(next); err != nil {
			if errors.Is(err, models.ErrNoChange) {
				result = current
				return nil
			}
			return err
		}

		comments, err := encodeComments(next.Comments)
		if err != nil {
			return err
		}

		query := `
			UPDATE ideas
			SET category = $3, votes_for = $4, votes_against = $5, voted_users = $6,
				is_approved = $7, is_hidden = $8, comments = $9, last_comment_id = $10,
				version = version + 1, updated_at = $11
			WHERE id = $1 AND version = $2
			RETURNING ` + ideaColumns

		result, err = scanIdeaRow(tx.QueryRow(ctx, query,
			id, current.Version, next.Category, next.VotesFor, next.VotesAgainst, pq.Array(next.VotedUsers),
			next.IsApproved, next.IsHidden, comments, next.LastCommentID, time.Now().UTC(),
		))
		if errors.Is(err, models.ErrNotFound) {
			return fmt.Errorf("%w: idea %d was modified concurrently", models.ErrConflict, id)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

