package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is the community member record. The reward engine owns xp, level, coins and badges;
// everything else is profile data edited by the user.
type User struct {
	ID            string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Email         string `gorm:"index" json:"email,omitempty"`
	Nickname      string `json:"nickname"`
	Bio           string `gorm:"type:text" json:"bio"`
	AvatarURL     string `gorm:"type:text" json:"avatar_url"`
	Role          string `gorm:"type:varchar(16);default:'user'" json:"role"`
	IsServerOwner bool   `gorm:"default:false" json:"is_server_owner"`

	// Progression. Level must always equal CalculateLevel(XP) after an engine write.
	XP     int64                     `gorm:"not null;default:0;check:xp >= 0" json:"xp"`
	Level  int                       `gorm:"not null;default:1" json:"level"`
	Coins  int64                     `gorm:"not null;default:0;check:coins >= 0" json:"coins"`
	Badges datatypes.JSONSlice[Badge] `gorm:"type:jsonb;not null;default:'[]'" json:"badges"`

	// Login streak
	LoginStreak int        `gorm:"default:0" json:"login_streak"`
	LastLogin   *time.Time `json:"last_login,omitempty"`

	LastLevelUpAt *time.Time `json:"last_level_up_at,omitempty"`

	Timestamps
}

// ProfileComplete reports whether nickname, bio and avatar are all filled in.
func (u *User) ProfileComplete() bool {
	return u.Nickname != "" && u.Bio != "" && u.AvatarURL != ""
}

// BadgeList returns a copy of the user's badges as a plain slice.
func (u *User) BadgeList() []Badge {
	out := make([]Badge, len(u.Badges))
	copy(out, u.Badges)
	return out
}

// RewardDelta is an additive change applied to a user's balances in one storage write.
type RewardDelta struct {
	XP    int64
	Coins int64
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
