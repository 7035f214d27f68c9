package services

import (
	"context"
	"log"

	"gameserver-hub/models"
)

const (
	ActionRateServer      = "RATE_SERVER"
	ActionAddServer       = "ADD_SERVER"
	ActionCompleteProfile = "COMPLETE_PROFILE"
	ActionDailyLogin      = "DAILY_LOGIN"
	ActionFavoriteServer  = "FAVORITE_SERVER"
)

// XPActions is the fixed XP amount per qualifying action.
var XPActions = map[string]int64{
	ActionRateServer:      15,
	ActionAddServer:       50,
	ActionCompleteProfile: 25,
	ActionDailyLogin:      5,
	ActionFavoriteServer:  5,
}

type GrantRequest struct {
	UserID string
	Action string

	// Caller's snapshot before the grant. CurrentLevel is the prior level for the level-up decision.
	CurrentXP     int64
	CurrentLevel  int
	CurrentBadges []models.Badge
}

type GrantResult struct {
	NewXP    int64
	NewLevel int
	XPGained int64

	// AwardedBadge is the highest-priority badge granted by this call.
	AwardedBadge *models.Badge
	// AwardedBadges lists every badge granted by this call, in grant order.
	AwardedBadges []models.Badge
	// Badges is the user's badge set after this call.
	Badges []models.Badge

	LeveledUp bool
	Toasts    []models.Toast
}

type ProgressionService struct {
	Users         UserRepository
	Badges        *BadgeService
	Notifications *NotificationService
}

func NewProgressionService(users UserRepository, badges *BadgeService, notifications *NotificationService) *ProgressionService {
	return &ProgressionService{Users: users, Badges: badges, Notifications: notifications}
}

// GrantXP adds the action's XP to the user with a storage-side increment, then handles
// level-up and level badges. Failures are logged and never returned.
func (s *ProgressionService) GrantXP(ctx context.Context, req GrantRequest) GrantResult {
	res := GrantResult{
		NewXP:    req.CurrentXP,
		NewLevel: req.CurrentLevel,
		Badges:   req.CurrentBadges,
	}

	amount, ok := XPActions[req.Action]
	if !ok {
		log.Printf("[XP] ⚠️ Unknown action %q for user %s, nothing granted", req.Action, req.UserID)
		return res
	}

	change, err := s.Users.ApplyDelta(ctx, req.UserID, models.RewardDelta{XP: amount})
	if err != nil {
		log.Printf("[XP] ❌ Failed to persist %d XP for user %s (action=%s): %v", amount, req.UserID, req.Action, err)
		return res
	}
	res.NewXP = change.NewXP
	res.NewLevel = change.NewLevel
	res.XPGained = amount

	log.Printf("🎮 XP Awarded: %s → XP=%d, Lvl=%d (action: %s)", req.UserID, res.NewXP, res.NewLevel, req.Action)

	if res.NewLevel > req.CurrentLevel {
		res.LeveledUp = true
		res.Toasts = append(res.Toasts, models.LevelUpToast(res.NewLevel))
		s.Notifications.NotifyLevelUp(ctx, req.UserID, res.NewLevel)
	}

	badges := req.CurrentBadges
	var granted *models.Badge

	// Level 10 outranks level 5 for the reported slot; newbie is reported only when nothing else was.
	if res.NewLevel >= 5 {
		granted, badges = s.Badges.AwardBadge(ctx, req.UserID, badges, models.BadgeLevel5)
		res.record(granted, false)
	}
	if res.NewLevel >= 10 {
		granted, badges = s.Badges.AwardBadge(ctx, req.UserID, badges, models.BadgeLevel10)
		res.record(granted, true)
	}
	if req.CurrentXP == 0 && amount > 0 {
		granted, badges = s.Badges.AwardBadge(ctx, req.UserID, badges, models.BadgeNewbie)
		res.record(granted, false)
	}
	res.Badges = badges

	for _, b := range res.AwardedBadges {
		res.Toasts = append(res.Toasts, models.BadgeToast(b))
	}
	return res
}

// record adds b to the awarded list; override lets it take the reported slot from an earlier badge.
func (r *GrantResult) record(b *models.Badge, override bool) {
	if b == nil {
		return
	}
	r.AwardedBadges = append(r.AwardedBadges, *b)
	if r.AwardedBadge == nil || override {
		r.AwardedBadge = b
	}
}
