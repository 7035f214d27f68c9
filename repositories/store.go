package repositories

import (
	"context"
	"time"

	"gameserver-hub/models"
	"gameserver-hub/services"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StoreRepository struct {
	DB *gorm.DB
}

func NewStoreRepository(db *gorm.DB) *StoreRepository {
	return &StoreRepository{DB: db}
}

func (r *StoreRepository) GetItem(ctx context.Context, itemID string) (*models.StoreItem, error) {
	var item models.StoreItem
	if err := r.DB.WithContext(ctx).Where("id = ?", itemID).First(&item).Error; err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

func (r *StoreRepository) CreateItem(ctx context.Context, item *models.StoreItem) error {
	return r.DB.WithContext(ctx).Create(item).Error
}

func (r *StoreRepository) Purchase(ctx context.Context, userID, itemID string, at time.Time) (*models.UserPurchase, error) {
	var purchase *models.UserPurchase
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item models.StoreItem
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", itemID).
			First(&item).Error; err != nil {
			return translate(err)
		}
		if !item.Purchasable() {
			return services.ErrItemUnavailable
		}

		res := tx.Model(&models.User{}).
			Where("id = ? AND coins >= ?", userID, item.Price).
			Update("coins", gorm.Expr("coins - ?", item.Price))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return services.ErrNotFound
			}
			return services.ErrInsufficientCoins
		}

		if item.Stock != nil {
			if err := tx.Model(&item).Update("stock", gorm.Expr("stock - 1")).Error; err != nil {
				return err
			}
		}

		purchase = &models.UserPurchase{
			UserID:      userID,
			ItemID:      item.ID,
			PricePaid:   item.Price,
			PurchasedAt: at,
		}
		return tx.Create(purchase).Error
	})
	if err != nil {
		return nil, err
	}
	return purchase, nil
}

func (r *StoreRepository) CountPurchasesByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.UserPurchase{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
