package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// Event types for audit logging
const (
	AuditEventTypeLogin      = "login"
	AuditEventTypeLogout     = "logout"
	AuditEventTypeModeration = "moderation"
	AuditEventTypeAccount    = "account"
	AuditEventTypeCategory   = "category"
)

// Resource types
const (
	AuditResourceTypeIdea     = "idea"
	AuditResourceTypeComment  = "comment"
	AuditResourceTypeUser     = "user"
	AuditResourceTypeCategory = "category"
)

// Actions
const (
	AuditActionApprove  = "approve"
	AuditActionHide     = "hide"
	AuditActionUnhide   = "unhide"
	AuditActionDelete   = "delete"
	AuditActionCreate   = "create"
	AuditActionRename   = "rename"
	AuditActionBlock    = "block"
	AuditActionUnblock  = "unblock"
	AuditActionGenerate = "generate"
	AuditActionPurge    = "purge_temp_passwords"
	AuditActionAccess   = "access"
)

type AuditLog struct {
	ID            int64         `db:"id"`
	EventType     string        `db:"event_type"`
	ActorID       *int64        `db:"actor_id"`
	ResourceType  *string       `db:"resource_type"`
	ResourceID    *string       `db:"resource_id"`
	Action        string        `db:"action"`
	Success       bool          `db:"success"`
	FailureReason *string       `db:"failure_reason"`
	IPAddress     *string       `db:"ip_address"`
	Metadata      AuditMetadata `db:"metadata"`
	CreatedAt     time.Time     `db:"created_at"`
}

// AuditMetadata holds additional context for audit events
type AuditMetadata map[string]interface{}

// Scan implements sql.Scanner for JSONB
func (am *AuditMetadata) Scan(value interface{}) error {
	if value == nil {
		*am = make(AuditMetadata)
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return ErrValidation
	}

	var m map[string]interface{}
	if err := json.Unmarshal(bytes, &m); err != nil {
		return err
	}
	*am = AuditMetadata(m)
	return nil
}

// Value implements driver.Valuer for JSONB
func (am AuditMetadata) Value() (driver.Value, error) {
	if am == nil {
		return nil, nil
	}
	return json.Marshal(am)
}

// MarshalJSON implements json.Marshaler
func (am AuditMetadata) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}(am))
}

// UnmarshalJSON implements json.Unmarshaler
func (am *AuditMetadata) UnmarshalJSON(data []byte) error {
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*am = AuditMetadata(m)
	return nil
}
