package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/BradenHooton/ideabox/internal/models"
	pkghttp "github.com/BradenHooton/ideabox/pkg/http"
)

// AuditServiceInterface defines read access to the audit trail
type AuditServiceInterface interface {
	RecentActivity(ctx context.Context, limit int) ([]*models.AuditLog, error)
}

// AuditHandler handles audit log HTTP requests
type AuditHandler struct {
	auditService AuditServiceInterface
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(auditService AuditServiceInterface) *AuditHandler {
	return &AuditHandler{
		auditService: auditService,
	}
}

// AuditLogResponse represents an audit log entry in HTTP response
type AuditLogResponse struct {
	ID            int64                  `json:"id"`
	EventType     string                 `json:"event_type"`
	ActorID       *int64                 `json:"actor_id,omitempty"`
	ResourceType  *string                `json:"resource_type,omitempty"`
	ResourceID    *string                `json:"resource_id,omitempty"`
	Action        string                 `json:"action"`
	Success       bool                   `json:"success"`
	FailureReason *string                `json:"failure_reason,omitempty"`
	IPAddress     *string                `json:"ip_address,omitempty"`
	Metadata      map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
}

// GetRecentActivity handles GET /admin/audit
// Accepts optional query param ?limit=N (1-200, default 50).
func (h *AuditHandler) GetRecentActivity(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	logs, err := h.auditService.RecentActivity(r.Context(), limit)
	if err != nil {
		pkghttp.WriteServiceError(w, err)
		return
	}

	response := make([]*AuditLogResponse, len(logs))
	for i, log := range logs {
		response[i] = auditLogToResponse(log)
	}

	pkghttp.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"logs":  response,
		"limit": limit,
	})
}

// auditLogToResponse converts an audit log model to a response DTO
func auditLogToResponse(log *models.AuditLog) *AuditLogResponse {
	return &AuditLogResponse{
		ID:            log.ID,
		EventType:     log.EventType,
		ActorID:       log.ActorID,
		ResourceType:  log.ResourceType,
		ResourceID:    log.ResourceID,
		Action:        log.Action,
		Success:       log.Success,
		FailureReason: log.FailureReason,
		IPAddress:     log.IPAddress,
		Metadata:      log.Metadata,
		CreatedAt:     log.CreatedAt,
	}
}
