package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gameserver-hub/models"
	"gameserver-hub/services"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Get(ctx context.Context, userID string) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).Where("id = ?", userID).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	if u.Level < 1 {
		u.Level = models.CalculateLevel(u.XP)
	}
	if u.Badges == nil {
		u.Badges = []models.Badge{}
	}
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	return r.DB.WithContext(ctx).Create(u).Error
}

func (r *UserRepository) UpdateProfile(ctx context.Context, userID, nickname, bio, avatarURL string) (*models.User, error) {
	res := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"nickname":   nickname,
			"bio":        bio,
			"avatar_url": avatarURL,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, services.ErrNotFound
	}
	return r.Get(ctx, userID)
}

func (r *UserRepository) SetServerOwner(ctx context.Context, userID string) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND is_server_owner = ?", userID, false).
		Update("is_server_owner", true).Error
}

// ApplyDelta locks the user row, adds the delta and stores the recomputed level.
func (r *UserRepository) ApplyDelta(ctx context.Context, userID string, d models.RewardDelta) (services.BalanceChange, error) {
	var change services.BalanceChange
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var u models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", userID).
			First(&u).Error; err != nil {
			return translate(err)
		}

		newXP := u.XP + d.XP
		if newXP < 0 {
			newXP = 0
		}
		newCoins := u.Coins + d.Coins
		if newCoins < 0 {
			return services.ErrInsufficientCoins
		}
		newLevel := models.CalculateLevel(newXP)

		updates := map[string]interface{}{
			"xp":    newXP,
			"level": newLevel,
			"coins": newCoins,
		}
		if newLevel > u.Level {
			updates["last_level_up_at"] = time.Now()
		}
		if err := tx.Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
			return err
		}

		change = services.BalanceChange{
			OldXP:    u.XP,
			NewXP:    newXP,
			OldLevel: u.Level,
			NewLevel: newLevel,
			NewCoins: newCoins,
		}
		return nil
	})
	return change, err
}

// AppendBadge appends b to the jsonb badge array in one statement, guarded by a
// containment check on the badge id.
func (r *UserRepository) AppendBadge(ctx context.Context, userID string, b models.Badge) (bool, error) {
	entry, err := json.Marshal([]models.Badge{b})
	if err != nil {
		return false, err
	}
	probe, err := json.Marshal([]map[string]string{{"id": b.ID}})
	if err != nil {
		return false, err
	}

	res := r.DB.WithContext(ctx).Exec(
		`UPDATE users
		    SET badges = COALESCE(badges, '[]'::jsonb) || ?::jsonb, updated_at = ?
		  WHERE id = ? AND deleted_at IS NULL
		    AND NOT (COALESCE(badges, '[]'::jsonb) @> ?::jsonb)`,
		string(entry), time.Now(), userID, string(probe),
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *UserRepository) TouchLogin(ctx context.Context, userID string, streak int, at, notBefore time.Time) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND (last_login IS NULL OR last_login < ?)", userID, notBefore).
		Updates(map[string]interface{}{
			"login_streak": streak,
			"last_login":   at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *UserRepository) Top(ctx context.Context, orderBy string, limit int) ([]models.User, error) {
	if !services.RankingColumns[orderBy] {
		return nil, fmt.Errorf("%w: cannot rank users by %q", services.ErrInvalidInput, orderBy)
	}
	var users []models.User
	err := r.DB.WithContext(ctx).
		Order(clause.OrderByColumn{Column: clause.Column{Name: orderBy}, Desc: true}).
		Order("created_at ASC").
		Order("id ASC").
		Limit(limit).
		Find(&users).Error
	return users, err
}
