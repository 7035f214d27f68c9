package models

import (
	"time"

	"gorm.io/datatypes"
)

type MissionType string

const (
	MissionTypeDaily       MissionType = "daily"
	MissionTypeWeekly      MissionType = "weekly"
	MissionTypeAchievement MissionType = "achievement"
	MissionTypeSpecial     MissionType = "special"
)

// Mission is an admin-defined task with a completion rule and a reward.
type Mission struct {
	ID          string      `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Title       string      `gorm:"not null" json:"title"`
	Description string      `gorm:"type:text" json:"description"`
	Type        MissionType `gorm:"type:varchar(16);not null;default:'achievement'" json:"type"`

	// 🎁 Rewards
	XPReward    int64   `gorm:"not null;default:0;check:xp_reward >= 0" json:"xp_reward"`
	CoinsReward int64   `gorm:"not null;default:0;check:coins_reward >= 0" json:"coins_reward"`
	BadgeReward *string `json:"badge_reward,omitempty"` // registry badge id

	Criteria datatypes.JSON `gorm:"type:jsonb;not null" json:"criteria"`

	IsActive  bool       `gorm:"default:true;index" json:"is_active"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`

	Timestamps
}

// Expired reports whether the mission's deadline has passed at now.
func (m *Mission) Expired(now time.Time) bool {
	return m.ExpiresAt != nil && !m.ExpiresAt.After(now)
}

// Available reports whether the mission can still be completed at now.
func (m *Mission) Available(now time.Time) bool {
	return m.IsActive && !m.Expired(now)
}

// ParsedCriteria decodes the mission's criteria column.
func (m *Mission) ParsedCriteria() (Criteria, error) {
	return ParseCriteria(m.Criteria)
}
