package query

import (
	"strings"

	"github.com/BradenHooton/ideabox/internal/models"
)

// SearchResult carries the matches together with whether a search was
// applied at all, so callers can tell "no search" from "everything matched".
type SearchResult struct {
	Ideas          []*models.Idea
	IsSearchActive bool
	Query          string
}

// SearchByTitle keeps ideas whose title contains q, ignoring case. A blank
// q returns every idea with IsSearchActive false.
func SearchByTitle(ideas []*models.Idea, q string) SearchResult {
	q = strings.TrimSpace(q)
	if q == "" {
		out := make([]*models.Idea, len(ideas))
		copy(out, ideas)
		return SearchResult{Ideas: out}
	}

	needle := strings.ToLower(q)
	out := make([]*models.Idea, 0)
	for _, idea := range ideas {
		if strings.Contains(strings.ToLower(idea.Title), needle) {
			out = append(out, idea)
		}
	}

	return SearchResult{Ideas: out, IsSearchActive: true, Query: q}
}
