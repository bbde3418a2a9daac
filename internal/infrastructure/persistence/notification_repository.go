package persistence

import (
	"context"

	"github.com/erp/reorder/internal/domain/notify"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormNotificationRepository implements notify.Repository using GORM
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GormNotificationRepository
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// Save persists a notification
func (r *GormNotificationRepository) Save(ctx context.Context, notification *notify.Notification) error {
	return session(ctx, r.db).Save(notification).Error
}

// FindByUserID finds all notifications for a user, newest first
func (r *GormNotificationRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]notify.Notification, error) {
	var notifications []notify.Notification
	if err := session(ctx, r.db).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}
