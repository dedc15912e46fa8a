package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/BradenHooton/ideabox/internal/metrics"
	"github.com/BradenHooton/ideabox/internal/models"
)

// CommentService appends comments to ideas and lets admins remove them.
type CommentService struct {
	repo   IdeaRepository
	audit  Auditor
	logger *slog.Logger
	now    func() time.Time
}

func NewCommentService(repo IdeaRepository, audit Auditor, logger *slog.Logger) *CommentService {
	return &CommentService{
		repo:   repo,
		audit:  auditorOrNoop(audit),
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// AddComment appends a comment with a fresh id. Comments are accepted
// whether or not the idea is approved or hidden.
func (s *CommentService) AddComment(ctx context.Context, ideaID, userID int64, text string) (*models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: comment text is required", models.ErrValidation)
	}

	var comment models.Comment
	_, err := s.repo.Mutate(ctx, ideaID, func(idea *models.Idea) error {
		idea.LastCommentID++
		comment = models.Comment{
			ID:        idea.LastCommentID,
			IdeaID:    idea.ID,
			UserID:    userID,
			Text:      text,
			CreatedAt: s.now(),
		}
		idea.Comments = append(idea.Comments, comment)
		return nil
	})
	if err != nil {
		return nil, storageFailure(ctx, s.logger, "failed to add comment", err,
			slog.Int64("idea_id", ideaID), slog.Int64("user_id", userID))
	}

	metrics.CommentsTotal.WithLabelValues("add").Inc()
	s.logger.InfoContext(ctx, "comment added",
		slog.Int64("idea_id", ideaID),
		slog.Int64("comment_id", comment.ID),
		slog.Int64("user_id", userID),
	)

	return &comment, nil
}

// DeleteComment permanently removes one comment. Ids of the remaining
// comments do not change.
func (s *CommentService) DeleteComment(ctx context.Context, actor models.Actor, ideaID, commentID int64) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}

	_, err := s.repo.Mutate(ctx, ideaID, func(idea *models.Idea) error {
		i := idea.CommentIndex(commentID)
		if i < 0 {
			return fmt.Errorf("%w: comment %d", models.ErrNotFound, commentID)
		}
		idea.Comments = append(idea.Comments[:i], idea.Comments[i+1:]...)
		return nil
	})
	if err != nil {
		return storageFailure(ctx, s.logger, "failed to delete comment", err,
			slog.Int64("idea_id", ideaID), slog.Int64("comment_id", commentID))
	}

	metrics.CommentsTotal.WithLabelValues("delete").Inc()
	s.logger.InfoContext(ctx, "comment deleted",
		slog.Int64("idea_id", ideaID),
		slog.Int64("comment_id", commentID),
		slog.Int64("actor_id", actor.UserID),
	)
	s.audit.LogAction(ctx, actor, models.AuditEventTypeModeration, models.AuditActionDelete,
		models.AuditResourceTypeComment, strconv.FormatInt(commentID, 10),
		models.AuditMetadata{"idea_id": ideaID})

	return nil
}
