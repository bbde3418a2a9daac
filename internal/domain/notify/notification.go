package notify

import (
	"context"
	"time"

	"github.com/erp/reorder/internal/domain/shared"
	"github.com/google/uuid"
)

// Notification is an in-app message delivered to a user about a draft
// awaiting their approval.
type Notification struct {
	shared.BaseEntity
	UserID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Role    string    `gorm:"type:varchar(50);not null"`
	DraftID uuid.UUID `gorm:"type:uuid;not null;index"`
	Message string    `gorm:"type:varchar(1000);not null"`
	ReadAt  *time.Time
}

// TableName returns the table name for GORM
func (Notification) TableName() string {
	return "notifications"
}

// NewNotification creates a new unread notification
func NewNotification(userID uuid.UUID, role string, draftID uuid.UUID, message string) (*Notification, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if message == "" {
		return nil, shared.NewDomainError("VALIDATION", "Notification message cannot be empty")
	}
	return &Notification{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		Role:       role,
		DraftID:    draftID,
		Message:    message,
	}, nil
}

// MarkRead stamps the read timestamp
func (n *Notification) MarkRead() {
	now := time.Now()
	n.ReadAt = &now
	n.UpdatedAt = now
}

// Repository defines persistence operations for notifications
type Repository interface {
	Save(ctx context.Context, notification *Notification) error
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]Notification, error)
}
