package entities

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog is an append-only record of a state change. Only changed keys
// appear in OldValues/NewValues. Rows are never updated or deleted.
type AuditLog struct {
	ID        uuid.UUID              `json:"id"`
	Action    string                 `json:"action"`
	ModelType string                 `json:"modelType,omitempty"`
	ModelID   string                 `json:"modelId,omitempty"`
	OldValues map[string]interface{} `json:"oldValues,omitempty"`
	NewValues map[string]interface{} `json:"newValues,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	ActorID   *uuid.UUID             `json:"actorId,omitempty"`
	IPAddress string                 `json:"ipAddress,omitempty"`
	UserAgent string                 `json:"userAgent,omitempty"`
	CreatedAt time.Time              `json:"createdAt"`
}

// AuditLogFilter narrows audit log listings
type AuditLogFilter struct {
	ModelType string
	ModelID   string
	Action    string
}
