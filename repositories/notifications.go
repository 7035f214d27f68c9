package repositories

import (
	"context"
	"time"

	"gameserver-hub/models"

	"gorm.io/gorm"
)

type NotificationRepository struct {
	DB *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{DB: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	return r.DB.WithContext(ctx).Create(n).Error
}

func (r *NotificationRepository) List(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	var out []models.Notification
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

func (r *NotificationRepository) ListSince(ctx context.Context, userID string, since time.Time) ([]models.Notification, error) {
	var out []models.Notification
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND created_at > ?", userID, since).
		Order("created_at ASC").
		Find(&out).Error
	return out, err
}

func (r *NotificationRepository) Counts(ctx context.Context, userID string) (models.NotificationCounts, error) {
	var counts models.NotificationCounts
	err := r.DB.WithContext(ctx).Model(&models.Notification{}).
		Select("COUNT(*) AS total, COUNT(*) FILTER (WHERE is_read = false) AS unread").
		Where("user_id = ?", userID).
		Scan(&counts).Error
	return counts, err
}

// MarkRead is idempotent: an already-read notification is not an error.
func (r *NotificationRepository) MarkRead(ctx context.Context, userID, notificationID string) error {
	var n models.Notification
	if err := r.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", notificationID, userID).
		First(&n).Error; err != nil {
		return translate(err)
	}
	if n.IsRead {
		return nil
	}
	return r.DB.WithContext(ctx).Model(&n).Update("is_read", true).Error
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	res := r.DB.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}
