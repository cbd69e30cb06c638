package usecases

import (
	"context"
	"reflect"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"preipo-sip.backend/internal/domain/entities"
	"preipo-sip.backend/internal/domain/repositories"
	"preipo-sip.backend/pkg/logger"
)

type auditContextKey string

// Context keys populated by the HTTP middleware and merged into audit rows.
const (
	AuditActorKey     auditContextKey = "audit_actor_id"
	AuditIPKey        auditContextKey = "audit_ip"
	AuditUserAgentKey auditContextKey = "audit_user_agent"
)

// WithAuditActor stamps the acting user onto the context
func WithAuditActor(ctx context.Context, actorID uuid.UUID) context.Context {
	return context.WithValue(ctx, AuditActorKey, actorID)
}

// WithAuditRequest stamps request forensics onto the context
func WithAuditRequest(ctx context.Context, ip, userAgent string) context.Context {
	ctx = context.WithValue(ctx, AuditIPKey, ip)
	return context.WithValue(ctx, AuditUserAgentKey, userAgent)
}

// AuditUsecase writes append-only audit rows. Failures are logged, never
// propagated: an audit miss must not fail the underlying operation.
type AuditUsecase struct {
	auditRepo repositories.AuditLogRepository
}

// NewAuditUsecase creates a new audit usecase
func NewAuditUsecase(auditRepo repositories.AuditLogRepository) *AuditUsecase {
	return &AuditUsecase{auditRepo: auditRepo}
}

// Record writes one audit row. Old and new values are reduced to the keys
// that actually changed; unchanged keys appear in neither map.
func (u *AuditUsecase) Record(ctx context.Context, action, modelType, modelID string, oldValues, newValues, metadata map[string]interface{}) {
	oldDelta, newDelta := diffValues(oldValues, newValues)

	log := &entities.AuditLog{
		ID:        uuid.New(),
		Action:    action,
		ModelType: modelType,
		ModelID:   modelID,
		OldValues: oldDelta,
		NewValues: newDelta,
		Metadata:  metadata,
		CreatedAt: time.Now(),
	}

	if actorID, ok := ctx.Value(AuditActorKey).(uuid.UUID); ok {
		log.ActorID = &actorID
	}
	if ip, ok := ctx.Value(AuditIPKey).(string); ok {
		log.IPAddress = ip
	}
	if ua, ok := ctx.Value(AuditUserAgentKey).(string); ok {
		log.UserAgent = ua
	}

	if err := u.auditRepo.Create(ctx, log); err != nil {
		logger.Error(ctx, "failed to write audit log",
			zap.String("action", action),
			zap.String("model_type", modelType),
			zap.Error(err),
		)
	}
}

// List returns audit rows for admin review
func (u *AuditUsecase) List(ctx context.Context, filter entities.AuditLogFilter, limit, offset int) ([]*entities.AuditLog, int, error) {
	return u.auditRepo.List(ctx, filter, limit, offset)
}

// diffValues keeps only keys whose values differ between the two maps. Keys
// present on one side only are kept on that side.
func diffValues(oldValues, newValues map[string]interface{}) (map[string]interface{}, map[string]interface{}) {
	if oldValues == nil && newValues == nil {
		return nil, nil
	}

	oldDelta := map[string]interface{}{}
	newDelta := map[string]interface{}{}

	for k, ov := range oldValues {
		nv, inNew := newValues[k]
		if !inNew || !reflect.DeepEqual(ov, nv) {
			oldDelta[k] = ov
		}
	}
	for k, nv := range newValues {
		ov, inOld := oldValues[k]
		if !inOld || !reflect.DeepEqual(ov, nv) {
			newDelta[k] = nv
		}
	}

	if len(oldDelta) == 0 {
		oldDelta = nil
	}
	if len(newDelta) == 0 {
		newDelta = nil
	}
	return oldDelta, newDelta
}
