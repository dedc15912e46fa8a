package services

import (
	"context"
	"errors"
	"testing"

	"github.com/BradenHooton/ideabox/internal/models"
	"github.com/BradenHooton/ideabox/internal/repositories/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditService_LogActionPersists(t *testing.T) {
	ctx := context.Background()
	store := memory.NewAuditStore()
	svc := NewAuditService(store, testLogger())

	svc.LogAction(ctx, adminActor, models.AuditEventTypeModeration, models.AuditActionHide,
		models.AuditResourceTypeIdea, "12", models.AuditMetadata{"reason": "duplicate"})

	logs, err := svc.RecentActivity(ctx, 10)
	require.NoError(t, err)
	require.Len(t, logs, 1)

	entry := logs[0]
	assert.Equal(t, models.AuditEventTypeModeration, entry.EventType)
	assert.Equal(t, models.AuditActionHide, entry.Action)
	assert.True(t, entry.Success)
	require.NotNil(t, entry.ActorID)
	assert.Equal(t, adminActor.UserID, *entry.ActorID)
	require.NotNil(t, entry.ResourceID)
	assert.Equal(t, "12", *entry.ResourceID)
	assert.Equal(t, "duplicate", entry.Metadata["reason"])
}

func TestAuditService_LogAuthEvent(t *testing.T) {
	ctx := context.Background()
	store := memory.NewAuditStore()
	svc := NewAuditService(store, testLogger())

	svc.LogAuthEvent(ctx, "login_failed", nil, false, "invalid_credentials", "10.0.0.1")

	logs, err := svc.RecentActivity(ctx, 0)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.False(t, logs[0].Success)
	assert.Nil(t, logs[0].ActorID)
	require.NotNil(t, logs[0].FailureReason)
	assert.Equal(t, "invalid_credentials", *logs[0].FailureReason)
	require.NotNil(t, logs[0].IPAddress)
	assert.Equal(t, "10.0.0.1", *logs[0].IPAddress)
}

func TestAuditService_PersistFailureIsSwallowed(t *testing.T) {
	repo := &MockAuditLogRepository{
		CreateFunc: func(ctx context.Context, log *models.AuditLog) (*models.AuditLog, error) {
			return nil, errors.New("disk full")
		},
	}
	svc := NewAuditService(repo, testLogger())

	assert.NotPanics(t, func() {
		svc.LogAction(context.Background(), adminActor, models.AuditEventTypeAccount,
			models.AuditActionBlock, models.AuditResourceTypeUser, "3", nil)
	})
}

func TestAuditService_RecentActivityLimit(t *testing.T) {
	tests := []struct {
		requested int
		want      int
	}{
		{0, 50},
		{-5, 50},
		{20, 20},
		{200, 200},
		{201, 50},
	}

	for _, tt := range tests {
		var got int
		repo := &MockAuditLogRepository{
			ListRecentFunc: func(ctx context.Context, limit int) ([]*models.AuditLog, error) {
				got = limit
				return nil, nil
			},
		}
		_, err := NewAuditService(repo, testLogger()).RecentActivity(context.Background(), tt.requested)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "requested %d", tt.requested)
	}
}
