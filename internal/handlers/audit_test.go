package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/BradenHooton/ideabox/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestAuditHandler_GetRecentActivity(t *testing.T) {
	actorID := int64(1)
	resource := models.AuditResourceTypeIdea
	var gotLimit int
	h := NewAuditHandler(&MockAuditService{
		RecentActivityFunc: func(_ context.Context, limit int) ([]*models.AuditLog, error) {
			gotLimit = limit
			return []*models.AuditLog{{
				ID:           3,
				EventType:    models.AuditEventTypeModeration,
				ActorID:      &actorID,
				ResourceType: &resource,
				Action:       models.AuditActionApprove,
				Success:      true,
				CreatedAt:    time.Now(),
			}}, nil
		},
	})

	tests := []struct {
		url       string
		wantLimit int
	}{
		{"/admin/audit", 50},
		{"/admin/audit?limit=10", 10},
		{"/admin/audit?limit=5000", 50},
		{"/admin/audit?limit=abc", 50},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		h.GetRecentActivity(w, WithUser(NewTestRequest(t, http.MethodGet, tt.url, nil), 1, models.RoleAdmin))

		var resp struct {
			Logs  []AuditLogResponse `json:"logs"`
			Limit int                `json:"limit"`
		}
		AssertJSONResponse(t, w, http.StatusOK, &resp)
		assert.Equal(t, tt.wantLimit, gotLimit, tt.url)
		if assert.Len(t, resp.Logs, 1) {
			assert.Equal(t, models.AuditActionApprove, resp.Logs[0].Action)
			assert.Equal(t, &actorID, resp.Logs[0].ActorID)
		}
	}
}
