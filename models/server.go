package models

import "time"

const (
	ServerStatusPending  = "pending"
	ServerStatusApproved = "approved"
	ServerStatusRejected = "rejected"
)

// Server is a community game-server listing.
type Server struct {
	ID          string `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Name        string `json:"name" gorm:"not null"`
	Slug        string `json:"slug" gorm:"uniqueIndex;not null"`
	Description string `json:"description" gorm:"type:text"`
	Game        string `json:"game"`
	Address     string `json:"address"`
	Website     string `json:"website,omitempty"`
	OwnerID     string `json:"owner_id" gorm:"type:uuid;index;not null"`

	// 🌟 Average rating from reviews
	AverageRating float64 `json:"average_rating" gorm:"default:0"`

	// 🎛️ Moderation state
	Status string `json:"status" gorm:"default:'pending'"` // pending | approved | rejected

	Timestamps
}

// Rating is one user's star rating of a server. A user rates a server once.
type Rating struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	ServerID  string    `json:"server_id" gorm:"type:uuid;not null;uniqueIndex:idx_rating_user_server"`
	UserID    string    `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_rating_user_server;index"`
	Stars     int       `json:"stars" gorm:"check:stars >= 1 and stars <= 5"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
