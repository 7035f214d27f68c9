package repositories

import (
	"context"

	"gameserver-hub/models"
	"gameserver-hub/services"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ServerRepository struct {
	DB *gorm.DB
}

func NewServerRepository(db *gorm.DB) *ServerRepository {
	return &ServerRepository{DB: db}
}

func (r *ServerRepository) Create(ctx context.Context, s *models.Server) error {
	return r.DB.WithContext(ctx).Create(s).Error
}

func (r *ServerRepository) Get(ctx context.Context, serverID string) (*models.Server, error) {
	var s models.Server
	if err := r.DB.WithContext(ctx).Where("id = ?", serverID).First(&s).Error; err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (r *ServerRepository) SlugTaken(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.Server{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

func (r *ServerRepository) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.Server{}).Where("owner_id = ?", ownerID).Count(&count).Error
	return count, err
}

func (r *ServerRepository) CreateRating(ctx context.Context, rating *models.Rating) error {
	res := r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "server_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(rating)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return services.ErrAlreadyRated
	}
	return nil
}

func (r *ServerRepository) CountRatingsByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.Rating{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *ServerRepository) RefreshAverageRating(ctx context.Context, serverID string) error {
	return r.DB.WithContext(ctx).Exec(
		`UPDATE servers
		    SET average_rating = (SELECT COALESCE(AVG(stars), 0) FROM ratings WHERE server_id = ?)
		  WHERE id = ?`,
		serverID, serverID,
	).Error
}
