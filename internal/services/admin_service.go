package services

import (
	"context"
	"log/slog"

	"github.com/BradenHooton/ideabox/internal/models"
)

// AdminUserLister is the subset of the account directory needed by AdminService.
type AdminUserLister interface {
	ListUsers(ctx context.Context) ([]*models.User, error)
}

// AdminIdeaLister is the subset of idea storage needed by AdminService.
type AdminIdeaLister interface {
	List(ctx context.Context) ([]*models.Idea, error)
}

// DashboardStatsResponse contains aggregate admin metrics.
type DashboardStatsResponse struct {
	TotalUsers   int `json:"total_users"`
	ActiveUsers  int `json:"active_users"`
	BlockedUsers int `json:"blocked_users"`
	AdminCount   int `json:"admin_count"`

	TotalIdeas    int `json:"total_ideas"`
	OpenIdeas     int `json:"open_ideas"`
	ApprovedIdeas int `json:"approved_ideas"`
	HiddenIdeas   int `json:"hidden_ideas"`
	TotalVotes    int `json:"total_votes"`
	TotalComments int `json:"total_comments"`

	IdeasByCategory map[string]int `json:"ideas_by_category"`
}

// AdminService aggregates data for admin dashboard endpoints.
type AdminService struct {
	users  AdminUserLister
	ideas  AdminIdeaLister
	logger *slog.Logger
}

// NewAdminService creates a new AdminService.
func NewAdminService(users AdminUserLister, ideas AdminIdeaLister, logger *slog.Logger) *AdminService {
	return &AdminService{
		users:  users,
		ideas:  ideas,
		logger: logger,
	}
}

// DashboardStats returns aggregate user and idea counts.
func (s *AdminService) DashboardStats(ctx context.Context, actor models.Actor) (*DashboardStatsResponse, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, storageFailure(ctx, s.logger, "dashboard: failed to list users", err)
	}

	ideas, err := s.ideas.List(ctx)
	if err != nil {
		return nil, storageFailure(ctx, s.logger, "dashboard: failed to list ideas", err)
	}

	stats := &DashboardStatsResponse{
		TotalUsers:      len(users),
		TotalIdeas:      len(ideas),
		IdeasByCategory: make(map[string]int),
	}

	for _, u := range users {
		if u.IsActive {
			stats.ActiveUsers++
		} else {
			stats.BlockedUsers++
		}
		if u.IsAdmin() {
			stats.AdminCount++
		}
	}

	for _, idea := range ideas {
		if idea.IsApproved {
			stats.ApprovedIdeas++
		} else {
			stats.OpenIdeas++
		}
		if idea.IsHidden {
			stats.HiddenIdeas++
		}
		stats.TotalVotes += idea.VotesFor + idea.VotesAgainst
		stats.TotalComments += len(idea.Comments)
		stats.IdeasByCategory[idea.Category]++
	}

	return stats, nil
}
