package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"gameserver-hub/models"

	"gorm.io/datatypes"
)

type StreakReward struct {
	XP    int64
	Coins int64
}

// StreakRewardFor returns the reward for reaching day streak, if that day pays one.
func StreakRewardFor(streak int) (StreakReward, bool) {
	switch {
	case streak == 3:
		return StreakReward{XP: 25, Coins: 10}, true
	case streak == 7:
		return StreakReward{XP: 75, Coins: 30}, true
	case streak == 15:
		return StreakReward{XP: 200, Coins: 75}, true
	case streak > 15 && streak%5 == 0:
		return StreakReward{XP: 50, Coins: 20}, true
	}
	return StreakReward{}, false
}

type CheckInResult struct {
	Streak           int            `json:"streak"`
	AlreadyCheckedIn bool           `json:"already_checked_in"`
	Reward           *StreakReward  `json:"reward,omitempty"`
	NewXP            int64          `json:"new_xp"`
	NewLevel         int            `json:"new_level"`
	NewCoins         int64          `json:"new_coins"`
	LeveledUp        bool           `json:"leveled_up"`
	Toasts           []models.Toast `json:"toasts"`
}

type StreakService struct {
	Users         UserRepository
	Notifications *NotificationService
	Missions      *MissionService
}

func NewStreakService(users UserRepository, notifications *NotificationService, missions *MissionService) *StreakService {
	return &StreakService{Users: users, Notifications: notifications, Missions: missions}
}

func dayStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// RecordLogin counts at most one check-in per UTC day. A check-in the day after the last one
// extends the streak; any longer gap restarts it at 1.
func (s *StreakService) RecordLogin(ctx context.Context, user *models.User, now time.Time) (*CheckInResult, error) {
	today := dayStart(now)
	res := &CheckInResult{
		Streak:   user.LoginStreak,
		NewXP:    user.XP,
		NewLevel: user.Level,
		NewCoins: user.Coins,
	}

	if user.LastLogin != nil && !user.LastLogin.Before(today) {
		res.AlreadyCheckedIn = true
		return res, nil
	}

	streak := 1
	if user.LastLogin != nil && !user.LastLogin.Before(today.AddDate(0, 0, -1)) {
		streak = user.LoginStreak + 1
	}

	updated, err := s.Users.TouchLogin(ctx, user.ID, streak, now, today)
	if err != nil {
		return nil, fmt.Errorf("record login: %w", err)
	}
	if !updated {
		res.AlreadyCheckedIn = true
		return res, nil
	}
	res.Streak = streak
	log.Printf("[STREAK] %s checked in, streak=%d", user.ID, streak)

	reward, ok := StreakRewardFor(streak)
	if !ok {
		s.syncLevelMissions(ctx, user, res)
		return res, nil
	}

	change, err := s.Users.ApplyDelta(ctx, user.ID, models.RewardDelta{XP: reward.XP, Coins: reward.Coins})
	if err != nil {
		log.Printf("[STREAK] ❌ Failed to apply day-%d reward for user %s: %v", streak, user.ID, err)
		s.syncLevelMissions(ctx, user, res)
		return res, nil
	}
	res.Reward = &reward
	res.NewXP, res.NewLevel, res.NewCoins = change.NewXP, change.NewLevel, change.NewCoins

	msg := fmt.Sprintf("%d-day streak! +%d XP, +%d coins!", streak, reward.XP, reward.Coins)
	res.Toasts = append(res.Toasts, models.Toast{Kind: models.ToastStreak, Title: "🔥 Login streak reward!", Message: msg})
	if err := s.Notifications.Notify(ctx, &models.Notification{
		UserID:  user.ID,
		Title:   "Login streak reward!",
		Message: msg,
		Type:    models.NotificationLoginStreakReward,
		Data:    datatypes.JSONMap{"streak": streak, "xp": reward.XP, "coins": reward.Coins},
	}); err != nil {
		log.Printf("[STREAK] ❌ Failed to store streak notification for user %s: %v", user.ID, err)
	}

	if change.LeveledUp() {
		res.LeveledUp = true
		res.Toasts = append(res.Toasts, models.LevelUpToast(change.NewLevel))
		s.Notifications.NotifyLevelUp(ctx, user.ID, change.NewLevel)
	}
	s.syncLevelMissions(ctx, user, res)
	return res, nil
}

// syncLevelMissions runs the reach_level missions against the level after the check-in.
func (s *StreakService) syncLevelMissions(ctx context.Context, user *models.User, res *CheckInResult) {
	lvl := s.Missions.CheckAfterAction(ctx, user.ID, models.CriteriaReachLevel, map[string]any{"level": res.NewLevel})
	res.Toasts = append(res.Toasts, lvl.Toasts...)
}
