package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/BradenHooton/ideabox/internal/metrics"
	"github.com/BradenHooton/ideabox/internal/models"
)

// VotingService records votes. A user votes at most once per idea and
// approved ideas accept no further votes.
type VotingService struct {
	repo   IdeaRepository
	logger *slog.Logger
}

func NewVotingService(repo IdeaRepository, logger *slog.Logger) *VotingService {
	return &VotingService{
		repo:   repo,
		logger: logger,
	}
}

// CastVote adds userID's vote to the idea. Checks run in order: the idea
// exists, it is not approved, the user has not voted, the direction is valid.
func (s *VotingService) CastVote(ctx context.Context, ideaID, userID int64, direction models.VoteDirection) (*models.Idea, error) {
	idea, err := s.repo.Mutate(ctx, ideaID, func(idea *models.Idea) error {
		if idea.IsApproved {
			return models.ErrAlreadyApproved
		}
		if idea.HasVoted(userID) {
			return models.ErrAlreadyVoted
		}
		switch direction {
		case models.VoteFor:
			idea.VotesFor++
		case models.VoteAgainst:
			idea.VotesAgainst++
		default:
			return fmt.Errorf("%w: vote direction must be %q or %q", models.ErrValidation, models.VoteFor, models.VoteAgainst)
		}
		idea.VotedUsers = append(idea.VotedUsers, userID)
		return nil
	})
	if err != nil {
		s.recordRejection(ctx, ideaID, userID, err)
		return nil, storageFailure(ctx, s.logger, "failed to cast vote", err,
			slog.Int64("idea_id", ideaID), slog.Int64("user_id", userID))
	}

	metrics.VotesCast.WithLabelValues(string(direction)).Inc()
	s.logger.InfoContext(ctx, "vote cast",
		slog.Int64("idea_id", ideaID),
		slog.Int64("user_id", userID),
		slog.String("direction", string(direction)),
	)

	return idea, nil
}

func (s *VotingService) recordRejection(ctx context.Context, ideaID, userID int64, err error) {
	var reason string
	switch {
	case errors.Is(err, models.ErrNotFound):
		reason = "not_found"
	case errors.Is(err, models.ErrAlreadyApproved):
		reason = "already_approved"
	case errors.Is(err, models.ErrAlreadyVoted):
		reason = "already_voted"
	case errors.Is(err, models.ErrValidation):
		reason = "invalid"
	default:
		return
	}

	metrics.VotesRejected.WithLabelValues(reason).Inc()
	s.logger.InfoContext(ctx, "vote rejected",
		slog.Int64("idea_id", ideaID),
		slog.Int64("user_id", userID),
		slog.String("reason", reason),
	)
}
