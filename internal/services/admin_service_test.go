package services

import (
	"context"
	"errors"
	"testing"

	"github.com/BradenHooton/ideabox/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUserLister struct {
	users []*models.User
	err   error
}

func (s stubUserLister) ListUsers(context.Context) ([]*models.User, error) {
	return s.users, s.err
}

func TestAdminService_DashboardStats(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t, "IT", "HR")

	a := e.createIdea(t, "IT", 2)
	b := e.createIdea(t, "IT", 3)
	e.createIdea(t, "HR", 3)

	_, err := e.voting.CastVote(ctx, a.ID, 2, models.VoteFor)
	require.NoError(t, err)
	_, err = e.voting.CastVote(ctx, a.ID, 3, models.VoteAgainst)
	require.NoError(t, err)
	_, err = e.voting.CastVote(ctx, b.ID, 2, models.VoteFor)
	require.NoError(t, err)
	_, err = e.comments.AddComment(ctx, b.ID, 2, "nice")
	require.NoError(t, err)
	_, err = e.moderation.Approve(ctx, adminActor, a.ID)
	require.NoError(t, err)
	_, err = e.moderation.Hide(ctx, adminActor, b.ID)
	require.NoError(t, err)

	blocked := NewTestUser(3, "bob", models.RoleUser)
	blocked.IsActive = false
	users := stubUserLister{users: []*models.User{
		NewTestUser(1, "root", models.RoleAdmin),
		NewTestUser(2, "alice", models.RoleUser),
		blocked,
	}}

	svc := NewAdminService(users, e.ideaStore, testLogger())
	stats, err := svc.DashboardStats(ctx, adminActor)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalUsers)
	assert.Equal(t, 2, stats.ActiveUsers)
	assert.Equal(t, 1, stats.BlockedUsers)
	assert.Equal(t, 1, stats.AdminCount)

	assert.Equal(t, 3, stats.TotalIdeas)
	assert.Equal(t, 2, stats.OpenIdeas)
	assert.Equal(t, 1, stats.ApprovedIdeas)
	assert.Equal(t, 1, stats.HiddenIdeas)
	assert.Equal(t, 3, stats.TotalVotes)
	assert.Equal(t, 1, stats.TotalComments)
	assert.Equal(t, map[string]int{"IT": 2, "HR": 1}, stats.IdeasByCategory)
}

func TestAdminService_DashboardStats_RequiresAdmin(t *testing.T) {
	svc := NewAdminService(stubUserLister{}, &MockIdeaRepository{}, testLogger())

	_, err := svc.DashboardStats(context.Background(), userActor)
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestAdminService_DashboardStats_StorageError(t *testing.T) {
	svc := NewAdminService(stubUserLister{err: errors.New("timeout")}, &MockIdeaRepository{}, testLogger())

	_, err := svc.DashboardStats(context.Background(), adminActor)
	assert.ErrorIs(t, err, models.ErrInternalServer)
}
