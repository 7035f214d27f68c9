package repositories

import (
	"context"
	"time"

	"gameserver-hub/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

func (r *ProgressRepository) Find(ctx context.Context, userID, missionID string) (*models.UserMissionProgress, error) {
	var p models.UserMissionProgress
	if err := r.DB.WithContext(ctx).
		Where("user_id = ? AND mission_id = ?", userID, missionID).
		First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// Create relies on the (user_id, mission_id) unique index; a losing concurrent insert is a no-op.
func (r *ProgressRepository) Create(ctx context.Context, p *models.UserMissionProgress) (bool, error) {
	res := r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "mission_id"}},
		DoNothing: true,
	}).Create(p)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *ProgressRepository) Complete(ctx context.Context, progressID string, progress datatypes.JSONMap, at time.Time) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&models.UserMissionProgress{}).
		Where("id = ? AND status = ?", progressID, models.MissionStatusPending).
		Updates(map[string]interface{}{
			"status":       models.MissionStatusCompleted,
			"progress":     progress,
			"completed_at": at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *ProgressRepository) MarkClaimed(ctx context.Context, progressID string, at time.Time) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&models.UserMissionProgress{}).
		Where("id = ? AND status = ?", progressID, models.MissionStatusCompleted).
		Updates(map[string]interface{}{
			"status":     models.MissionStatusClaimed,
			"claimed_at": at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *ProgressRepository) ListByUser(ctx context.Context, userID string) ([]models.UserMissionProgress, error) {
	var out []models.UserMissionProgress
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&out).Error
	return out, err
}
