package storage

import (
	"context"

	"gorm.io/gorm"

	"social-go/internal/models"
)

// NotificationRepository defines the interface for notification persistence,
// used by the Kafka consumer in cmd/notifier.
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	ListForUser(ctx context.Context, userID uint, limit int) ([]models.Notification, error)
}

// gormNotificationRepository implements NotificationRepository using GORM.
type gormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GORM-based NotificationRepository.
func NewGormNotificationRepository(db *gorm.DB) NotificationRepository {
	return &gormNotificationRepository{db: db}
}

// Create inserts a notification record.
func (r *gormNotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

// ListForUser retrieves the most recent notifications for userID.
func (r *gormNotificationRepository) ListForUser(ctx context.Context, userID uint, limit int) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error
	return notifications, err
}
