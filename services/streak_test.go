package services_test

import (
	"testing"
	"time"

	"gameserver-hub/models"
	"gameserver-hub/services"

	"github.com/google/uuid"
)

func TestStreakRewardFor(t *testing.T) {
	tests := []struct {
		streak int
		want   services.StreakReward
		ok     bool
	}{
		{1, services.StreakReward{}, false},
		{3, services.StreakReward{XP: 25, Coins: 10}, true},
		{5, services.StreakReward{}, false},
		{7, services.StreakReward{XP: 75, Coins: 30}, true},
		{10, services.StreakReward{}, false},
		{15, services.StreakReward{XP: 200, Coins: 75}, true},
		{16, services.StreakReward{}, false},
		{20, services.StreakReward{XP: 50, Coins: 20}, true},
		{35, services.StreakReward{XP: 50, Coins: 20}, true},
	}
	for _, tt := range tests {
		got, ok := services.StreakRewardFor(tt.streak)
		if ok != tt.ok || got != tt.want {
			t.Errorf("StreakRewardFor(%d) = %+v, %v; want %+v, %v", tt.streak, got, ok, tt.want, tt.ok)
		}
	}
}

func TestRecordLoginSequence(t *testing.T) {
	f := newFixture(t)
	u := f.user(0, 0)
	day := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	steps := []struct {
		at      time.Time
		streak  int
		already bool
		reward  bool
	}{
		{day, 1, false, false},
		{day.Add(5 * time.Hour), 1, true, false},
		{day.AddDate(0, 0, 1), 2, false, false},
		{day.AddDate(0, 0, 2).Add(14 * time.Hour), 3, false, true},
		{day.AddDate(0, 0, 4), 1, false, false},
	}
	for i, step := range steps {
		res, err := f.engine.Streaks.RecordLogin(f.ctx, f.reload(u.ID), step.at)
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if res.Streak != step.streak || res.AlreadyCheckedIn != step.already || (res.Reward != nil) != step.reward {
			t.Fatalf("step %d: got streak=%d already=%v reward=%v", i, res.Streak, res.AlreadyCheckedIn, res.Reward)
		}
	}

	got := f.reload(u.ID)
	if got.XP != 25 || got.Coins != 10 || got.LoginStreak != 1 {
		t.Errorf("user after sequence: xp=%d coins=%d streak=%d", got.XP, got.Coins, got.LoginStreak)
	}
	if n := f.notificationsOfType(u.ID, models.NotificationLoginStreakReward); len(n) != 1 {
		t.Errorf("got %d streak notifications, want 1", len(n))
	}
}

func TestRecordLoginRewardLevelsUp(t *testing.T) {
	f := newFixture(t)
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)
	u := &models.User{ID: uuid.NewString(), XP: 90, Level: 1, LoginStreak: 2, LastLogin: &yesterday}
	if err := f.repos.Users.Create(f.ctx, u); err != nil {
		t.Fatal(err)
	}

	res, err := f.engine.Streaks.RecordLogin(f.ctx, f.reload(u.ID), now)
	if err != nil {
		t.Fatal(err)
	}
	if res.Streak != 3 || !res.LeveledUp || res.NewLevel != 2 || res.NewXP != 115 {
		t.Fatalf("result = %+v", res)
	}
	if n := f.notificationsOfType(u.ID, models.NotificationLevelUp); len(n) != 1 {
		t.Errorf("got %d level_up notifications, want 1", len(n))
	}
	if len(res.Toasts) < 2 {
		t.Errorf("toasts = %+v, want streak and level-up", res.Toasts)
	}
}

func TestRecordLoginStaleSnapshot(t *testing.T) {
	f := newFixture(t)
	u := f.user(0, 0)
	now := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	stale := f.reload(u.ID)
	if _, err := f.engine.Streaks.RecordLogin(f.ctx, stale, now); err != nil {
		t.Fatal(err)
	}
	// same snapshot again, as a second tab would send it
	res, err := f.engine.Streaks.RecordLogin(f.ctx, stale, now.Add(time.Minute))
	if err != nil {
		t.Fatal(err)
	}
	if !res.AlreadyCheckedIn {
		t.Errorf("second check-in with stale snapshot was counted")
	}
	if got := f.reload(u.ID); got.LoginStreak != 1 {
		t.Errorf("streak = %d, want 1", got.LoginStreak)
	}
}

func TestRecordLoginCompletesLevelMissions(t *testing.T) {
	f := newFixture(t)
	u := f.user(models.XPForLevelStart(3), 0)
	m := f.mission("Reach level 2", map[string]any{"type": "reach_level", "level": 2}, 0, 10)

	res, err := f.engine.Streaks.RecordLogin(f.ctx, u, time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Toasts) != 1 {
		t.Errorf("toasts = %+v, want the mission toast", res.Toasts)
	}
	rec, err := f.repos.Progress.Find(f.ctx, u.ID, m.ID)
	if err != nil || rec.Status != models.MissionStatusCompleted {
		t.Fatalf("record = %+v, %v", rec, err)
	}
}
