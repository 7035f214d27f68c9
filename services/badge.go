package services

import (
	"context"
	"log"

	"gameserver-hub/models"
)

type BadgeService struct {
	Users UserRepository
}

func NewBadgeService(users UserRepository) *BadgeService {
	return &BadgeService{Users: users}
}

// AwardBadge grants the registry badge for key unless badges already holds it.
// It returns the granted badge (nil when nothing was granted) and the badge set the
// caller should carry into its next check. Failures are logged and reported as no badge.
func (s *BadgeService) AwardBadge(ctx context.Context, userID string, badges []models.Badge, key models.BadgeKey) (*models.Badge, []models.Badge) {
	badge, ok := models.LookupBadge(key)
	if !ok {
		log.Printf("[BADGE] ⚠️ Unknown badge key %q (user=%s)", key, userID)
		return nil, badges
	}
	if models.HasBadge(badges, badge.ID) {
		return nil, badges
	}

	added, err := s.Users.AppendBadge(ctx, userID, badge)
	if err != nil {
		log.Printf("[BADGE] ❌ Failed to persist badge %s for user %s: %v", badge.ID, userID, err)
		return nil, badges
	}

	updated := make([]models.Badge, 0, len(badges)+1)
	updated = append(updated, badges...)
	updated = append(updated, badge)

	if !added {
		// Stored set already had it; the caller's snapshot was stale.
		log.Printf("[BADGE] ℹ️ Badge %s already stored for user %s", badge.ID, userID)
		return nil, updated
	}

	log.Printf("🏅 Badge awarded: %s → %s", userID, badge.ID)
	return &badge, updated
}
