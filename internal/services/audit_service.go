package services

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/BradenHooton/ideabox/internal/models"
	"github.com/BradenHooton/ideabox/pkg/logger"
)

// AuditLogRepository defines the interface for audit log persistence
type AuditLogRepository interface {
	Create(ctx context.Context, log *models.AuditLog) (*models.AuditLog, error)
	ListRecent(ctx context.Context, limit int) ([]*models.AuditLog, error)
}

// Auditor records administrative and authentication events.
type Auditor interface {
	LogAction(ctx context.Context, actor models.Actor, eventType, action, resourceType, resourceID string, metadata models.AuditMetadata)
	LogAuthEvent(ctx context.Context, eventType string, userID *int64, success bool, failureReason, ipAddress string)
}

// noopAuditor is used when a service is built without an auditor.
type noopAuditor struct{}

func (noopAuditor) LogAction(context.Context, models.Actor, string, string, string, string, models.AuditMetadata) {
}

func (noopAuditor) LogAuthEvent(context.Context, string, *int64, bool, string, string) {}

func auditorOrNoop(a Auditor) Auditor {
	if a == nil {
		return noopAuditor{}
	}
	return a
}

// AuditService handles audit logging with dual-write pattern (slog + database)
type AuditService struct {
	repo   AuditLogRepository
	audit  *logger.AuditLogger
	logger *slog.Logger
}

// NewAuditService creates a new AuditService
func NewAuditService(repo AuditLogRepository, log *slog.Logger) *AuditService {
	return &AuditService{
		repo:   repo,
		audit:  logger.NewAuditLogger(log),
		logger: log,
	}
}

// LogAction records a successful admin action on a resource.
func (s *AuditService) LogAction(ctx context.Context, actor models.Actor, eventType, action, resourceType, resourceID string, metadata models.AuditMetadata) {
	actorID := actor.UserID
	entry := &models.AuditLog{
		EventType:    eventType,
		ActorID:      &actorID,
		ResourceType: &resourceType,
		ResourceID:   &resourceID,
		Action:       action,
		Success:      true,
		Metadata:     metadata,
	}

	// Dual-write: immediate slog output
	s.audit.LogAction(ctx, logger.AuditEvent{
		EventType:    eventType,
		Action:       action,
		UserID:       strconv.FormatInt(actor.UserID, 10),
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Success:      true,
	})

	s.persist(ctx, entry)
}

// LogAuthEvent records login and logout outcomes.
func (s *AuditService) LogAuthEvent(ctx context.Context, eventType string, userID *int64, success bool, failureReason, ipAddress string) {
	entry := &models.AuditLog{
		EventType: eventType,
		ActorID:   userID,
		Action:    eventType,
		Success:   success,
	}
	if failureReason != "" {
		entry.FailureReason = &failureReason
	}
	if ipAddress != "" {
		entry.IPAddress = &ipAddress
	}

	event := logger.AuditEvent{
		EventType:     eventType,
		IPAddress:     ipAddress,
		Success:       success,
		FailureReason: failureReason,
	}
	if userID != nil {
		event.UserID = strconv.FormatInt(*userID, 10)
	}
	s.audit.LogAuthAttempt(ctx, event)

	s.persist(ctx, entry)
}

// persist stores the entry. Failures are logged and never surface to the
// caller; the action itself already happened.
func (s *AuditService) persist(ctx context.Context, entry *models.AuditLog) {
	if _, err := s.repo.Create(ctx, entry); err != nil {
		s.logger.ErrorContext(ctx, "failed to persist audit log",
			slog.String("event_type", entry.EventType),
			slog.String("action", entry.Action),
			slog.Any("error", err),
		)
	}
}

// RecentActivity returns the newest audit entries, at most limit of them.
func (s *AuditService) RecentActivity(ctx context.Context, limit int) ([]*models.AuditLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	logs, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, storageFailure(ctx, s.logger, "failed to list audit logs", err)
	}
	return logs, nil
}
