package audit

import (
	"context"

	"github.com/erp/reorder/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AuditLog records one engine run's decision summary for later review:
// which items were read, how the plan partitioned them and where the
// draft was routed.
type AuditLog struct {
	shared.BaseEntity
	DraftID              uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemCodesAccessed    []string        `gorm:"serializer:json"`
	ItemsEvaluated       int             `gorm:"not null"`
	ItemsIncluded        int             `gorm:"not null"`
	ItemsDeferred        int             `gorm:"not null"`
	TotalCostAll         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TotalCostIncluded    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	RequiredApproverRole string          `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (AuditLog) TableName() string {
	return "reorder_audit_logs"
}

// NewAuditLog creates a new audit log entry for a draft
func NewAuditLog(draftID uuid.UUID) (*AuditLog, error) {
	if draftID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_DRAFT", "Draft ID cannot be empty")
	}
	return &AuditLog{
		BaseEntity: shared.NewBaseEntity(),
		DraftID:    draftID,
	}, nil
}

// Repository defines persistence operations for audit logs
type Repository interface {
	Save(ctx context.Context, log *AuditLog) error
	FindByDraftID(ctx context.Context, draftID uuid.UUID) ([]AuditLog, error)
}
