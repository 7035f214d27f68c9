package models

import "time"

// StoreItem is something users can buy with coins.
type StoreItem struct {
	ID          string `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Name        string `json:"name" gorm:"not null"`
	Description string `json:"description" gorm:"type:text"`
	Price       int64  `json:"price" gorm:"not null;check:price >= 0"`
	IsActive    bool   `json:"is_active" gorm:"default:true"`
	IsApproved  bool   `json:"is_approved" gorm:"default:false"`
	// Stock is nil for unlimited items.
	Stock *int64 `json:"stock,omitempty" gorm:"check:stock >= 0"`

	Timestamps
}

// Purchasable reports whether the item can be bought right now.
func (i *StoreItem) Purchasable() bool {
	if !i.IsActive || !i.IsApproved {
		return false
	}
	return i.Stock == nil || *i.Stock > 0
}

type UserPurchase struct {
	ID          string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	UserID      string    `json:"user_id" gorm:"type:uuid;not null;index"`
	ItemID      string    `json:"item_id" gorm:"type:uuid;not null;index"`
	PricePaid   int64     `json:"price_paid"`
	PurchasedAt time.Time `json:"purchased_at" gorm:"autoCreateTime"`
}
