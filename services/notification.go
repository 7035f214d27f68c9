package services

import (
	"context"
	"fmt"
	"log"

	"gameserver-hub/models"

	"gorm.io/datatypes"
)

const (
	DefaultNotificationLimit = 20
	MaxNotificationLimit     = 100
)

type NotificationService struct {
	Repo NotificationRepository
}

func NewNotificationService(repo NotificationRepository) *NotificationService {
	return &NotificationService{Repo: repo}
}

// Notify persists n. Callers inside the reward engine log and drop the error.
func (s *NotificationService) Notify(ctx context.Context, n *models.Notification) error {
	if n.UserID == "" || n.Title == "" || n.Type == "" {
		return fmt.Errorf("%w: notification needs user_id, title and type", ErrInvalidInput)
	}
	return s.Repo.Create(ctx, n)
}

func (s *NotificationService) NotifyLevelUp(ctx context.Context, userID string, level int) {
	err := s.Notify(ctx, &models.Notification{
		UserID:  userID,
		Title:   "Level up!",
		Message: fmt.Sprintf("Congratulations! You reached level %d.", level),
		Type:    models.NotificationLevelUp,
		Data:    datatypes.JSONMap{"level": level},
	})
	if err != nil {
		log.Printf("[NOTIFY] ❌ Failed to store level_up notification for user %s: %v", userID, err)
	}
}

func (s *NotificationService) List(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	if limit <= 0 {
		limit = DefaultNotificationLimit
	}
	if limit > MaxNotificationLimit {
		limit = MaxNotificationLimit
	}
	return s.Repo.List(ctx, userID, limit)
}

func (s *NotificationService) Counts(ctx context.Context, userID string) (models.NotificationCounts, error) {
	return s.Repo.Counts(ctx, userID)
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	return s.Repo.MarkRead(ctx, userID, notificationID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	return s.Repo.MarkAllRead(ctx, userID)
}
