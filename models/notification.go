package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationLevelUp           NotificationType = "level_up"
	NotificationLoginStreakReward NotificationType = "login_streak_reward"
)

// Notification is a persisted message for a user (the bell feed).
type Notification struct {
	ID        string            `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID    string            `gorm:"type:uuid;not null;index:idx_notifications_user_created" json:"user_id"`
	Title     string            `gorm:"not null" json:"title"`
	Message   string            `gorm:"type:text" json:"message"`
	Type      NotificationType  `gorm:"type:varchar(32);not null;index" json:"type"`
	Data      datatypes.JSONMap `gorm:"type:jsonb" json:"data,omitempty"`
	IsRead    bool              `gorm:"default:false;index" json:"is_read"`
	CreatedAt time.Time         `gorm:"index:idx_notifications_user_created,sort:desc" json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	DeletedAt gorm.DeletedAt    `gorm:"index" json:"-"`
}

type NotificationCounts struct {
	Total  int64 `json:"total"`
	Unread int64 `json:"unread"`
}
