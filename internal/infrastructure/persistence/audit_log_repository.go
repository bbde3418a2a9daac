package persistence

import (
	"context"

	"github.com/erp/reorder/internal/domain/audit"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAuditLogRepository implements audit.Repository using GORM
type GormAuditLogRepository struct {
	db *gorm.DB
}

// NewGormAuditLogRepository creates a new GormAuditLogRepository
func NewGormAuditLogRepository(db *gorm.DB) *GormAuditLogRepository {
	return &GormAuditLogRepository{db: db}
}

// Save persists an audit log entry
func (r *GormAuditLogRepository) Save(ctx context.Context, log *audit.AuditLog) error {
	return session(ctx, r.db).Save(log).Error
}

// FindByDraftID finds the audit entries for a draft
func (r *GormAuditLogRepository) FindByDraftID(ctx context.Context, draftID uuid.UUID) ([]audit.AuditLog, error) {
	var logs []audit.AuditLog
	if err := session(ctx, r.db).
		Where("draft_id = ?", draftID).
		Order("created_at ASC").
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
