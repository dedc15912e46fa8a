package services

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/BradenHooton/ideabox/internal/models"
	"github.com/BradenHooton/ideabox/internal/repositories/memory"
	"github.com/BradenHooton/ideabox/pkg/auth"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	auth.BcryptCost = bcrypt.MinCost
	os.Exit(m.Run())
}

var (
	adminActor = models.Actor{UserID: 1, Role: models.RoleAdmin}
	userActor  = models.Actor{UserID: 7, Role: models.RoleUser}
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// engine wires every idea-side service to the in-memory stores.
type engine struct {
	ideaStore  *memory.IdeaStore
	audit      *RecordingAuditor
	categories *CategoryService
	ideas      *IdeaService
	voting     *VotingService
	moderation *ModerationService
	comments   *CommentService
}

func newEngine(t *testing.T, categories ...string) *engine {
	t.Helper()

	log := testLogger()
	ideaStore := memory.NewIdeaStore()
	audit := &RecordingAuditor{}

	e := &engine{
		ideaStore:  ideaStore,
		audit:      audit,
		categories: NewCategoryService(memory.NewCategoryStore(ideaStore), audit, log),
		voting:     NewVotingService(ideaStore, log),
		moderation: NewModerationService(ideaStore, audit, log),
		comments:   NewCommentService(ideaStore, audit, log),
	}
	e.ideas = NewIdeaService(ideaStore, e.categories, log)

	require.NoError(t, e.categories.SeedDefaults(context.Background(), categories))
	return e
}

func (e *engine) createIdea(t *testing.T, category string, authorID int64) *models.Idea {
	t.Helper()
	idea, err := e.ideas.CreateIdea(context.Background(), models.NewIdea{
		Title:           "New Budget Plan",
		FullDescription: "Move budgeting to a shared sheet",
		ExpectedEffect:  "Fewer mistakes",
		Category:        category,
	}, authorID)
	require.NoError(t, err)
	return idea
}

// assertTallyInvariant checks that the voted set and the tallies agree.
func assertTallyInvariant(t *testing.T, idea *models.Idea) {
	t.Helper()
	require.Equal(t, len(idea.VotedUsers), idea.VotesFor+idea.VotesAgainst)

	seen := make(map[int64]struct{}, len(idea.VotedUsers))
	for _, id := range idea.VotedUsers {
		_, dup := seen[id]
		require.False(t, dup, "user %d voted twice", id)
		seen[id] = struct{}{}
	}
}
