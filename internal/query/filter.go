// Package query derives read views over idea snapshots: status and category
// filters, title search and author enrichment. Nothing here mutates its input.
package query

import (
	"fmt"
	"slices"
	"strings"

	"github.com/BradenHooton/ideabox/internal/models"
)

// Status selects which ideas a listing shows and in what order.
type Status string

const (
	StatusOpen     Status = "open"     // not approved, insertion order
	StatusApproved Status = "approved" // approved, insertion order
	StatusPopular  Status = "popular"  // all, rating descending
	StatusNew      Status = "new"      // all, newest first
)

// ParseStatus validates a status coming from a request. An empty value
// means StatusOpen.
func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToLower(strings.TrimSpace(s))); st {
	case "":
		return StatusOpen, nil
	case StatusOpen, StatusApproved, StatusPopular, StatusNew:
		return st, nil
	default:
		return "", fmt.Errorf("%w: unknown filter %q", models.ErrValidation, s)
	}
}

type Filter struct {
	Status   Status
	Category string // exact match; "" or models.AllCategories disables it
}

// FilterIdeas returns a new slice holding the ideas that pass f, ordered as
// the status requires. Sorts are stable so ties keep their input order.
func FilterIdeas(ideas []*models.Idea, f Filter) []*models.Idea {
	out := make([]*models.Idea, 0, len(ideas))
	for _, idea := range ideas {
		if !matchesCategory(idea, f.Category) {
			continue
		}
		switch f.Status {
		case StatusApproved:
			if !idea.IsApproved {
				continue
			}
		case StatusPopular, StatusNew:
		default:
			if idea.IsApproved {
				continue
			}
		}
		out = append(out, idea)
	}

	switch f.Status {
	case StatusPopular:
		slices.SortStableFunc(out, func(a, b *models.Idea) int {
			return b.Rating() - a.Rating()
		})
	case StatusNew:
		slices.SortStableFunc(out, func(a, b *models.Idea) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		})
	}

	return out
}

func matchesCategory(idea *models.Idea, category string) bool {
	if category == "" || category == models.AllCategories {
		return true
	}
	return idea.Category == category
}
