package models

import "fmt"

type ToastKind string

const (
	ToastLevelUp          ToastKind = "level_up"
	ToastBadge            ToastKind = "badge"
	ToastMissionCompleted ToastKind = "mission_completed"
	ToastRewardClaimed    ToastKind = "reward_claimed"
	ToastStreak           ToastKind = "streak"
)

// Toast is a transient user-facing message returned alongside an action's response.
type Toast struct {
	Kind    ToastKind `json:"kind"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
}

func LevelUpToast(level int) Toast {
	return Toast{
		Kind:    ToastLevelUp,
		Title:   "🎉 Level up!",
		Message: fmt.Sprintf("You reached level %d!", level),
	}
}

func BadgeToast(b Badge) Toast {
	return Toast{
		Kind:    ToastBadge,
		Title:   "🏅 New badge: " + b.Name,
		Message: b.Description,
	}
}

func MissionCompletedToast(title string) Toast {
	return Toast{
		Kind:    ToastMissionCompleted,
		Title:   "✅ Mission completed!",
		Message: fmt.Sprintf("%q is done. Claim your reward on the missions page.", title),
	}
}

func RewardClaimedToast(xp, coins int64) Toast {
	return Toast{
		Kind:    ToastRewardClaimed,
		Title:   "🎁 Reward claimed!",
		Message: fmt.Sprintf("You received %d XP and %d coins.", xp, coins),
	}
}
