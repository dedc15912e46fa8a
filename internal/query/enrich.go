package query

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/BradenHooton/ideabox/internal/models"
)

// AuthorLookup resolves a single account.
type AuthorLookup interface {
	FindUser(ctx context.Context, id int64) (*models.User, error)
}

// BatchAuthorLookup resolves many accounts at once. Unknown ids are simply
// missing from the result.
type BatchAuthorLookup interface {
	FindUsers(ctx context.Context, ids []int64) ([]*models.User, error)
}

// EnrichedIdea is an idea together with its author's display projection.
type EnrichedIdea struct {
	*models.Idea
	Author models.AuthorInfo
}

// Enricher attaches author projections to ideas.
type Enricher struct {
	lookup AuthorLookup
	batch  BatchAuthorLookup
	logger *slog.Logger
}

// NewEnricher picks the batch path once, here, when lookup supports it.
func NewEnricher(lookup AuthorLookup, logger *slog.Logger) *Enricher {
	e := &Enricher{lookup: lookup, logger: logger}
	if batch, ok := lookup.(BatchAuthorLookup); ok {
		e.batch = batch
	}
	return e
}

// UsesBatch reports whether the batch lookup path was selected.
func (e *Enricher) UsesBatch() bool {
	return e.batch != nil
}

// UnknownAuthor is the placeholder for an author id that no longer resolves.
func UnknownAuthor(id int64) models.AuthorInfo {
	return models.AuthorInfo{
		ID:       id,
		Username: fmt.Sprintf("unknown author #%d", id),
		Unknown:  true,
	}
}

func authorInfo(u *models.User) models.AuthorInfo {
	return models.AuthorInfo{ID: u.ID, Username: u.Username, FullName: u.FullName}
}

// EnrichWithAuthor returns one EnrichedIdea per input idea, in input order.
// The ideas themselves are shared, not copied, and are never modified.
func (e *Enricher) EnrichWithAuthor(ctx context.Context, ideas []*models.Idea) ([]EnrichedIdea, error) {
	ids := make([]int64, 0, len(ideas))
	seen := make(map[int64]struct{}, len(ideas))
	for _, idea := range ideas {
		if _, ok := seen[idea.AuthorID]; !ok {
			seen[idea.AuthorID] = struct{}{}
			ids = append(ids, idea.AuthorID)
		}
	}

	authors, err := e.resolve(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]EnrichedIdea, 0, len(ideas))
	for _, idea := range ideas {
		info, ok := authors[idea.AuthorID]
		if !ok {
			info = UnknownAuthor(idea.AuthorID)
		}
		out = append(out, EnrichedIdea{Idea: idea, Author: info})
	}
	return out, nil
}

func (e *Enricher) resolve(ctx context.Context, ids []int64) (map[int64]models.AuthorInfo, error) {
	authors := make(map[int64]models.AuthorInfo, len(ids))
	if len(ids) == 0 {
		return authors, nil
	}

	if e.batch != nil {
		users, err := e.batch.FindUsers(ctx, ids)
		if err != nil {
			return nil, err
		}
		for _, u := range users {
			authors[u.ID] = authorInfo(u)
		}
		return authors, nil
	}

	for _, id := range ids {
		u, err := e.lookup.FindUser(ctx, id)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				e.logger.DebugContext(ctx, "author not found", slog.Int64("author_id", id))
				continue
			}
			return nil, err
		}
		authors[id] = authorInfo(u)
	}
	return authors, nil
}
