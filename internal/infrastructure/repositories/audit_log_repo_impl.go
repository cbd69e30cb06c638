package repositories

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"
	"preipo-sip.backend/internal/domain/entities"
	"preipo-sip.backend/internal/infrastructure/models"
)

// AuditLogRepository implements audit log data operations. No update or
// delete method exists; rows are immutable once written.
type AuditLogRepository struct {
	db *gorm.DB
}

// NewAuditLogRepository creates a new audit log repository
func NewAuditLogRepository(db *gorm.DB) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

// Create appends an audit log row
func (r *AuditLogRepository) Create(ctx context.Context, log *entities.AuditLog) error {
	oldValues, err := marshalJSONMap(log.OldValues)
	if err != nil {
		return err
	}
	newValues, err := marshalJSONMap(log.NewValues)
	if err != nil {
		return err
	}
	metadata, err := marshalJSONMap(log.Metadata)
	if err != nil {
		return err
	}

	m := &models.AuditLog{
		ID:        log.ID,
		Action:    log.Action,
		ModelType: log.ModelType,
		ModelID:   log.ModelID,
		OldValues: oldValues,
		NewValues: newValues,
		Metadata:  metadata,
		ActorID:   log.ActorID,
		IPAddress: log.IPAddress,
		UserAgent: log.UserAgent,
		CreatedAt: log.CreatedAt,
	}

	db := GetDB(ctx, r.db)
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	log.ID = m.ID
	return nil
}

// List lists audit log rows, newest first
func (r *AuditLogRepository) List(ctx context.Context, filter entities.AuditLogFilter, limit, offset int) ([]*entities.AuditLog, int, error) {
	q := r.db.WithContext(ctx).Model(&models.AuditLog{})
	if filter.ModelType != "" {
		q = q.Where("model_type = ?", filter.ModelType)
	}
	if filter.ModelID != "" {
		q = q.Where("model_id = ?", filter.ModelID)
	}
	if filter.Action != "" {
		q = q.Where("action = ?", filter.Action)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.AuditLog
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	var logs []*entities.AuditLog
	for _, m := range ms {
		model := m
		log, err := r.toEntity(&model)
		if err != nil {
			return nil, 0, err
		}
		logs = append(logs, log)
	}
	return logs, int(total), nil
}

func (r *AuditLogRepository) toEntity(m *models.AuditLog) (*entities.AuditLog, error) {
	oldValues, err := unmarshalJSONMap(m.OldValues)
	if err != nil {
		return nil, err
	}
	newValues, err := unmarshalJSONMap(m.NewValues)
	if err != nil {
		return nil, err
	}
	metadata, err := unmarshalJSONMap(m.Metadata)
	if err != nil {
		return nil, err
	}

	return &entities.AuditLog{
		ID:        m.ID,
		Action:    m.Action,
		ModelType: m.ModelType,
		ModelID:   m.ModelID,
		OldValues: oldValues,
		NewValues: newValues,
		Metadata:  metadata,
		ActorID:   m.ActorID,
		IPAddress: m.IPAddress,
		UserAgent: m.UserAgent,
		CreatedAt: m.CreatedAt,
	}, nil
}

func marshalJSONMap(m map[string]interface{}) (string, error) {
	if len(m) == 0 {
		return "{}", nil
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func unmarshalJSONMap(raw string) (map[string]interface{}, error) {
	if raw == "" || raw == "{}" {
		return nil, nil
	}
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, err
	}
	return m, nil
}
