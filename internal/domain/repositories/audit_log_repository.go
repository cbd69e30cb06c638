package repositories

import (
	"context"

	"preipo-sip.backend/internal/domain/entities"
)

// AuditLogRepository defines audit log data operations. Deliberately
// append-only: no update or delete is exposed.
type AuditLogRepository interface {
	Create(ctx context.Context, log *entities.AuditLog) error
	List(ctx context.Context, filter entities.AuditLogFilter, limit, offset int) ([]*entities.AuditLog, int, error)
}
