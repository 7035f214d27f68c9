package repositories

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"gameserver-hub/models"
	"gameserver-hub/services"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// missionColumns are the plain columns a MissionQuery may filter on.
var missionColumns = map[string]bool{
	"id":           true,
	"type":         true,
	"is_active":    true,
	"badge_reward": true,
}

type MissionRepository struct {
	DB *gorm.DB
}

func NewMissionRepository(db *gorm.DB) *MissionRepository {
	return &MissionRepository{DB: db}
}

func (r *MissionRepository) Filter(ctx context.Context, q services.MissionQuery) ([]models.Mission, error) {
	tx := r.DB.WithContext(ctx).Model(&models.Mission{})

	keys := make([]string, 0, len(q))
	for k := range q {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		val := q[key]
		if path, ok := strings.CutPrefix(key, "criteria."); ok {
			tx = tx.Where(datatypes.JSONQuery("criteria").Equals(val, strings.Split(path, ".")...))
			continue
		}
		if !missionColumns[key] {
			return nil, fmt.Errorf("%w: cannot filter missions on %q", services.ErrInvalidInput, key)
		}
		tx = tx.Where(clause.Eq{Column: clause.Column{Name: key}, Value: val})
	}

	var missions []models.Mission
	if err := tx.Order("created_at ASC").Find(&missions).Error; err != nil {
		return nil, err
	}
	return missions, nil
}

func (r *MissionRepository) Get(ctx context.Context, missionID string) (*models.Mission, error) {
	var m models.Mission
	if err := r.DB.WithContext(ctx).Where("id = ?", missionID).First(&m).Error; err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

func (r *MissionRepository) Create(ctx context.Context, m *models.Mission) error {
	return r.DB.WithContext(ctx).Create(m).Error
}

func (r *MissionRepository) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.DB.WithContext(ctx).Model(&models.Mission{}).
		Where("is_active = ? AND expires_at IS NOT NULL AND expires_at <= ?", true, now).
		Update("is_active", false)
	return res.RowsAffected, res.Error
}
