package services

import (
	"context"
	"log"
	"time"

	"gameserver-hub/models"
)

type PurchaseResult struct {
	Purchase *models.UserPurchase `json:"purchase"`
	ActionOutcome
}

type StoreService struct {
	Store   StoreRepository
	Users   UserRepository
	Actions *ActionService
	Now     func() time.Time
}

func NewStoreService(repos Repositories, actions *ActionService) *StoreService {
	return &StoreService{Store: repos.Store, Users: repos.Users, Actions: actions, Now: time.Now}
}

// Purchase buys one unit of itemID for userID and runs the purchase missions.
// The debit, the stock decrement and the purchase record are one storage transaction.
func (s *StoreService) Purchase(ctx context.Context, userID, itemID string) (*PurchaseResult, error) {
	purchase, err := s.Store.Purchase(ctx, userID, itemID, s.Now())
	if err != nil {
		return nil, err
	}
	log.Printf("🛒 [STORE] %s bought item %s for %d coins", userID, itemID, purchase.PricePaid)

	user, err := s.Users.Get(ctx, userID)
	if err != nil {
		log.Printf("[STORE] ⚠️ Purchase %s stored but user %s could not be reloaded: %v", purchase.ID, userID, err)
		return &PurchaseResult{Purchase: purchase}, nil
	}
	return &PurchaseResult{
		Purchase:      purchase,
		ActionOutcome: s.Actions.OnPurchaseMade(ctx, user, purchase),
	}, nil
}
