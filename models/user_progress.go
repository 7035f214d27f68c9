package models

import (
	"time"

	"gorm.io/datatypes"
)

type MissionStatus string

const (
	MissionStatusPending   MissionStatus = "pending"
	MissionStatusCompleted MissionStatus = "completed"
	MissionStatusClaimed   MissionStatus = "claimed"
)

// UserMissionProgress tracks one user's state on one mission.
// Status only moves forward: pending → completed → claimed.
type UserMissionProgress struct {
	ID        string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID    string `gorm:"type:uuid;not null;uniqueIndex:idx_progress_user_mission" json:"user_id"`
	MissionID string `gorm:"type:uuid;not null;uniqueIndex:idx_progress_user_mission" json:"mission_id"`

	Status      MissionStatus     `gorm:"type:varchar(16);not null;default:'pending';index" json:"status"`
	Progress    datatypes.JSONMap `gorm:"type:jsonb" json:"progress"`
	CompletedAt *time.Time        `json:"completed_at,omitempty"`
	ClaimedAt   *time.Time        `json:"claimed_at,omitempty"`

	Timestamps
}

func (UserMissionProgress) TableName() string { return "user_mission_progress" }

// Claimable reports whether the reward for this record can still be collected.
func (p *UserMissionProgress) Claimable() bool {
	return p != nil && p.Status == MissionStatusCompleted
}
