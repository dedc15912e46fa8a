package services

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/BradenHooton/ideabox/internal/metrics"
	"github.com/BradenHooton/ideabox/internal/models"
)

// ModerationService flips the approval and visibility flags of ideas. The two
// flags are independent and neither touches tallies or voters.
type ModerationService struct {
	repo   IdeaRepository
	audit  Auditor
	logger *slog.Logger
}

func NewModerationService(repo IdeaRepository, audit Auditor, logger *slog.Logger) *ModerationService {
	return &ModerationService{
		repo:   repo,
		audit:  auditorOrNoop(audit),
		logger: logger,
	}
}

// Approve closes voting on an idea. Approving an approved idea is a no-op.
func (s *ModerationService) Approve(ctx context.Context, actor models.Actor, ideaID int64) (*models.Idea, error) {
	return s.moderate(ctx, actor, ideaID, models.AuditActionApprove, func(idea *models.Idea) bool {
		if idea.IsApproved {
			return false
		}
		idea.IsApproved = true
		return true
	})
}

// Hide removes an idea from public listings.
func (s *ModerationService) Hide(ctx context.Context, actor models.Actor, ideaID int64) (*models.Idea, error) {
	return s.moderate(ctx, actor, ideaID, models.AuditActionHide, func(idea *models.Idea) bool {
		if idea.IsHidden {
			return false
		}
		idea.IsHidden = true
		return true
	})
}

// Unhide returns a hidden idea to public listings.
func (s *ModerationService) Unhide(ctx context.Context, actor models.Actor, ideaID int64) (*models.Idea, error) {
	return s.moderate(ctx, actor, ideaID, models.AuditActionUnhide, func(idea *models.Idea) bool {
		if !idea.IsHidden {
			return false
		}
		idea.IsHidden = false
		return true
	})
}

// moderate applies set under the idea's unit of work. set reports whether it
// changed anything; when it did not, nothing is written.
func (s *ModerationService) moderate(ctx context.Context, actor models.Actor, ideaID int64, action string, set func(*models.Idea) bool) (*models.Idea, error) {
	if err := requireAdmin(actor); err != nil {
		s.logger.InfoContext(ctx, "moderation forbidden",
			slog.Int64("actor_id", actor.UserID),
			slog.String("action", action),
		)
		return nil, err
	}

	changed := false
	idea, err := s.repo.Mutate(ctx, ideaID, func(idea *models.Idea) error {
		if !set(idea) {
			return models.ErrNoChange
		}
		changed = true
		return nil
	})
	if err != nil {
		return nil, storageFailure(ctx, s.logger, "failed to moderate idea", err,
			slog.Int64("idea_id", ideaID), slog.String("action", action))
	}

	if !changed {
		s.logger.DebugContext(ctx, "moderation no-op", slog.Int64("idea_id", ideaID), slog.String("action", action))
		return idea, nil
	}

	metrics.ModerationActions.WithLabelValues(action).Inc()
	s.logger.InfoContext(ctx, "idea moderated",
		slog.Int64("idea_id", ideaID),
		slog.Int64("actor_id", actor.UserID),
		slog.String("action", action),
	)
	s.audit.LogAction(ctx, actor, models.AuditEventTypeModeration, action,
		models.AuditResourceTypeIdea, strconv.FormatInt(ideaID, 10), nil)

	return idea, nil
}
