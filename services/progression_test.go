package services_test

import (
	"errors"
	"sync"
	"testing"

	"gameserver-hub/models"
	"gameserver-hub/services"
)

func grant(f *fixture, u *models.User, action string) services.GrantResult {
	return f.engine.Progression.GrantXP(f.ctx, services.GrantRequest{
		UserID:        u.ID,
		Action:        action,
		CurrentXP:     u.XP,
		CurrentLevel:  u.Level,
		CurrentBadges: u.BadgeList(),
	})
}

func TestGrantXPFirstAction(t *testing.T) {
	f := newFixture(t)
	u := f.user(0, 0)

	res := grant(f, u, services.ActionRateServer)

	if res.NewXP != 15 || res.NewLevel != 1 {
		t.Fatalf("got xp=%d level=%d, want 15/1", res.NewXP, res.NewLevel)
	}
	if res.LeveledUp {
		t.Error("LeveledUp set without a level change")
	}
	if res.AwardedBadge == nil || res.AwardedBadge.ID != "newbie" {
		t.Fatalf("AwardedBadge = %+v, want newbie", res.AwardedBadge)
	}

	stored := f.reload(u.ID)
	if stored.XP != 15 || stored.Level != 1 {
		t.Errorf("stored xp=%d level=%d", stored.XP, stored.Level)
	}
	if !models.HasBadge(stored.Badges, "newbie") {
		t.Error("newbie badge not persisted")
	}
	if n := f.notificationsOfType(u.ID, models.NotificationLevelUp); len(n) != 0 {
		t.Errorf("got %d level_up notifications, want 0", len(n))
	}
}

func TestGrantXPLevelUp(t *testing.T) {
	f := newFixture(t)
	u := f.user(90, 0)

	res := grant(f, u, services.ActionAddServer)

	if res.NewXP != 140 || res.NewLevel != 2 || !res.LeveledUp {
		t.Fatalf("got %+v, want xp=140 level=2 leveled up", res)
	}
	if res.AwardedBadge != nil {
		t.Errorf("AwardedBadge = %+v, want nil (prior xp was not 0)", res.AwardedBadge)
	}

	notes := f.notificationsOfType(u.ID, models.NotificationLevelUp)
	if len(notes) != 1 {
		t.Fatalf("got %d level_up notifications, want 1", len(notes))
	}
	if notes[0].Data["level"] != 2 {
		t.Errorf("notification data = %v", notes[0].Data)
	}

	var sawToast bool
	for _, toast := range res.Toasts {
		sawToast = sawToast || toast.Kind == models.ToastLevelUp
	}
	if !sawToast {
		t.Error("no level_up toast")
	}
}

func TestGrantXPUnknownAction(t *testing.T) {
	f := newFixture(t)
	u := f.user(40, 0)

	res := grant(f, u, "JUMP_AROUND")

	if res.NewXP != 40 || res.NewLevel != 1 || res.AwardedBadge != nil || res.LeveledUp {
		t.Fatalf("unknown action changed state: %+v", res)
	}
	if stored := f.reload(u.ID); stored.XP != 40 {
		t.Errorf("stored xp = %d, want 40", stored.XP)
	}
}

func TestGrantXPLevelBadgePriority(t *testing.T) {
	f := newFixture(t)
	u := f.user(models.XPForLevelStart(10)-10, 0)
	if u.Level != 9 {
		t.Fatalf("seed level = %d, want 9", u.Level)
	}

	// caller's snapshot says 0 xp, so newbie qualifies too but must not take the slot
	res := f.engine.Progression.GrantXP(f.ctx, services.GrantRequest{
		UserID:       u.ID,
		Action:       services.ActionRateServer,
		CurrentXP:    0,
		CurrentLevel: 9,
	})

	if res.NewLevel != 10 {
		t.Fatalf("NewLevel = %d, want 10", res.NewLevel)
	}
	if res.AwardedBadge == nil || res.AwardedBadge.ID != "level_10" {
		t.Fatalf("AwardedBadge = %+v, want level_10", res.AwardedBadge)
	}
	got := badgeIDs(res.AwardedBadges)
	want := []string{"level_5", "level_10", "newbie"}
	if len(got) != len(want) {
		t.Fatalf("AwardedBadges = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("AwardedBadges = %v, want %v", got, want)
		}
	}
	if stored := f.reload(u.ID).Badges; len(stored) != 3 {
		t.Errorf("stored badges = %v", badgeIDs(stored))
	}
}

func TestGrantXPUsesCallerLevelForLevelUp(t *testing.T) {
	f := newFixture(t)
	u := f.user(150, 0) // level 2 in storage

	// a caller that passes a stale level 1 still sees a level-up
	res := f.engine.Progression.GrantXP(f.ctx, services.GrantRequest{
		UserID:       u.ID,
		Action:       services.ActionDailyLogin,
		CurrentXP:    150,
		CurrentLevel: 1,
	})
	if !res.LeveledUp || res.NewLevel != 2 {
		t.Fatalf("got %+v, want level-up against caller level", res)
	}
}

func TestGrantXPPersistenceFailure(t *testing.T) {
	f := newFixture(t)
	u := f.user(0, 0)
	f.store.Fail = func(op string) error {
		if op == "users.apply_delta" {
			return errors.New("backend down")
		}
		return nil
	}

	res := grant(f, u, services.ActionRateServer)
	if res.NewXP != 0 || res.AwardedBadge != nil {
		t.Fatalf("failed write reported %+v", res)
	}
	if stored := f.reload(u.ID); stored.XP != 0 || len(stored.Badges) != 0 {
		t.Errorf("stored user changed: xp=%d badges=%v", stored.XP, badgeIDs(stored.Badges))
	}
}

func TestGrantXPConcurrentGrantsAreAdditive(t *testing.T) {
	f := newFixture(t)
	u := f.user(0, 0)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			grant(f, u, services.ActionRateServer) // every goroutine holds the same stale snapshot
		}()
	}
	wg.Wait()

	stored := f.reload(u.ID)
	if stored.XP != 300 {
		t.Fatalf("stored xp = %d, want 300", stored.XP)
	}
	if stored.Level != models.CalculateLevel(300) {
		t.Errorf("stored level = %d, want %d", stored.Level, models.CalculateLevel(300))
	}
	if len(stored.Badges) != 1 {
		t.Errorf("stored badges = %v, want newbie once", badgeIDs(stored.Badges))
	}
}
