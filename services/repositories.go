package services

import (
	"context"
	"time"

	"gameserver-hub/models"

	"gorm.io/datatypes"
)

// BalanceChange is the before/after picture of one ApplyDelta call, read under the same lock.
type BalanceChange struct {
	OldXP    int64
	NewXP    int64
	OldLevel int
	NewLevel int
	NewCoins int64
}

func (c BalanceChange) LeveledUp() bool { return c.NewLevel > c.OldLevel }

type UserRepository interface {
	Get(ctx context.Context, userID string) (*models.User, error)
	Create(ctx context.Context, u *models.User) error
	UpdateProfile(ctx context.Context, userID, nickname, bio, avatarURL string) (*models.User, error)
	SetServerOwner(ctx context.Context, userID string) error

	// ApplyDelta adds d to the stored balances and recomputes level in one write.
	// Returns ErrInsufficientCoins if coins would go negative; nothing is applied then.
	ApplyDelta(ctx context.Context, userID string, d models.RewardDelta) (BalanceChange, error)

	// AppendBadge adds b to the user's badge set unless a badge with the same id is present.
	// Reports whether the badge was added.
	AppendBadge(ctx context.Context, userID string, b models.Badge) (bool, error)

	// TouchLogin stores streak and at as last_login, but only if the stored last_login is
	// unset or before notBefore. Reports whether the row was updated.
	TouchLogin(ctx context.Context, userID string, streak int, at, notBefore time.Time) (bool, error)

	// Top returns up to limit users ordered by orderBy (one of RankingColumns) descending.
	Top(ctx context.Context, orderBy string, limit int) ([]models.User, error)
}

// RankingColumns are the user columns a ranking can be ordered by.
var RankingColumns = map[string]bool{
	"xp":    true,
	"level": true,
	"coins": true,
}

// MissionQuery is a flat field filter. Keys may be dotted paths into the criteria
// object, e.g. {"criteria.type": "rate_servers", "is_active": true}.
type MissionQuery map[string]any

type MissionRepository interface {
	Filter(ctx context.Context, q MissionQuery) ([]models.Mission, error)
	Get(ctx context.Context, missionID string) (*models.Mission, error)
	Create(ctx context.Context, m *models.Mission) error
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
}

type ProgressRepository interface {
	// Find returns ErrNotFound when the user has no record for the mission.
	Find(ctx context.Context, userID, missionID string) (*models.UserMissionProgress, error)
	// Create inserts p unless a record for (user, mission) exists. Reports whether it inserted.
	Create(ctx context.Context, p *models.UserMissionProgress) (bool, error)
	// Complete moves a pending record to completed. Reports whether it changed.
	Complete(ctx context.Context, progressID string, progress datatypes.JSONMap, at time.Time) (bool, error)
	// MarkClaimed moves a completed record to claimed. Reports whether it changed.
	MarkClaimed(ctx context.Context, progressID string, at time.Time) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]models.UserMissionProgress, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	List(ctx context.Context, userID string, limit int) ([]models.Notification, error)
	ListSince(ctx context.Context, userID string, since time.Time) ([]models.Notification, error)
	Counts(ctx context.Context, userID string) (models.NotificationCounts, error)
	MarkRead(ctx context.Context, userID, notificationID string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
}

type ServerRepository interface {
	Create(ctx context.Context, s *models.Server) error
	Get(ctx context.Context, serverID string) (*models.Server, error)
	SlugTaken(ctx context.Context, slug string) (bool, error)
	CountByOwner(ctx context.Context, ownerID string) (int64, error)

	// CreateRating returns ErrAlreadyRated if the user already rated the server.
	CreateRating(ctx context.Context, r *models.Rating) error
	CountRatingsByUser(ctx context.Context, userID string) (int64, error)
	RefreshAverageRating(ctx context.Context, serverID string) error
}

type StoreRepository interface {
	GetItem(ctx context.Context, itemID string) (*models.StoreItem, error)
	CreateItem(ctx context.Context, item *models.StoreItem) error
	// Purchase debits the price, takes one unit of stock and records the purchase atomically.
	Purchase(ctx context.Context, userID, itemID string, at time.Time) (*models.UserPurchase, error)
	CountPurchasesByUser(ctx context.Context, userID string) (int64, error)
}

// Repositories bundles every store the engine talks to.
type Repositories struct {
	Users         UserRepository
	Missions      MissionRepository
	Progress      ProgressRepository
	Notifications NotificationRepository
	Servers       ServerRepository
	Store         StoreRepository
}
