package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedactedAttr(t *testing.T) {
	assert.Equal(t, "[REDACTED]", RedactedAttr("username", "alice", "production").Value.String())
	assert.Equal(t, "alice", RedactedAttr("username", "alice", "development").Value.String())
}

func TestSanitizeQueryString(t *testing.T) {
	assert.True(t, SanitizeQueryString("token=abc"))
	assert.True(t, SanitizeQueryString("Password=x"))
	assert.False(t, SanitizeQueryString("filter=popular&category=IT"))
	assert.False(t, SanitizeQueryString(""))
}

func TestAuditLogger_FailureLogsAtWarn(t *testing.T) {
	var buf bytes.Buffer
	al := NewAuditLogger(slog.New(slog.NewJSONHandler(&buf, nil)))

	al.LogAuthAttempt(context.Background(), AuditEvent{
		EventType:     "login",
		IPAddress:     "10.0.0.1",
		FailureReason: "invalid credentials",
	})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "auth", entry["audit_type"])
	assert.Equal(t, "invalid credentials", entry["failure_reason"])
	assert.NotContains(t, entry, "user_id")
}

func TestAuditLogger_ActionIncludesResource(t *testing.T) {
	var buf bytes.Buffer
	al := NewAuditLogger(slog.New(slog.NewJSONHandler(&buf, nil)))

	al.LogAction(context.Background(), AuditEvent{
		EventType:    "moderation",
		Action:       "approve",
		UserID:       "1",
		ResourceType: "idea",
		ResourceID:   "42",
		Success:      true,
	})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "approve", entry["action"])
	assert.Equal(t, "42", entry["resource_id"])
}
