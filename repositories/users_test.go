package repositories

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"gameserver-hub/models"
	"gameserver-hub/services"
)

func TestAppendBadgeOnce(t *testing.T) {
	db := getTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	u := createUser(t, db, 0, 0)

	explorer, _ := models.LookupBadge(models.BadgeExplorer)
	newbie, _ := models.LookupBadge(models.BadgeNewbie)

	if added, err := repo.AppendBadge(ctx, u.ID, explorer); err != nil || !added {
		t.Fatalf("first AppendBadge = %v, %v", added, err)
	}
	if added, err := repo.AppendBadge(ctx, u.ID, explorer); err != nil || added {
		t.Fatalf("duplicate AppendBadge = %v, %v", added, err)
	}
	if added, err := repo.AppendBadge(ctx, u.ID, newbie); err != nil || !added {
		t.Fatalf("second badge AppendBadge = %v, %v", added, err)
	}

	got, err := repo.Get(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Badges) != 2 || got.Badges[0].ID != "explorer" || got.Badges[1].ID != "newbie" {
		t.Errorf("badges = %+v", got.Badges)
	}
}

func TestAppendBadgeConcurrent(t *testing.T) {
	db := getTestDB(t)
	repo := NewUserRepository(db)
	u := createUser(t, db, 0, 0)
	badge, _ := models.LookupBadge(models.BadgeServerOwner)

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		added int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := repo.AppendBadge(context.Background(), u.ID, badge)
			if err != nil {
				t.Errorf("AppendBadge: %v", err)
				return
			}
			if ok {
				mu.Lock()
				added++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if added != 1 {
		t.Errorf("badge added %d times, want 1", added)
	}
}

func TestApplyDelta(t *testing.T) {
	db := getTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	u := createUser(t, db, 95, 5)

	change, err := repo.ApplyDelta(ctx, u.ID, models.RewardDelta{XP: 10, Coins: 3})
	if err != nil {
		t.Fatalf("ApplyDelta() error: %v", err)
	}
	if change.OldLevel != 1 || change.NewLevel != 2 || change.NewXP != 105 || change.NewCoins != 8 {
		t.Errorf("change = %+v", change)
	}

	if _, err := repo.ApplyDelta(ctx, u.ID, models.RewardDelta{Coins: -9}); !errors.Is(err, services.ErrInsufficientCoins) {
		t.Errorf("overdraft err = %v, want ErrInsufficientCoins", err)
	}
	if _, err := repo.ApplyDelta(ctx, "00000000-0000-0000-0000-000000000000", models.RewardDelta{XP: 1}); !errors.Is(err, services.ErrNotFound) {
		t.Errorf("missing user err = %v, want ErrNotFound", err)
	}

	got, _ := repo.Get(ctx, u.ID)
	if got.XP != 105 || got.Level != 2 || got.Coins != 8 || got.LastLevelUpAt == nil {
		t.Errorf("stored user = xp %d level %d coins %d levelUpAt %v", got.XP, got.Level, got.Coins, got.LastLevelUpAt)
	}
}

func TestApplyDeltaConcurrent(t *testing.T) {
	db := getTestDB(t)
	repo := NewUserRepository(db)
	u := createUser(t, db, 0, 0)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.ApplyDelta(context.Background(), u.ID, models.RewardDelta{XP: 15, Coins: 1}); err != nil {
				t.Errorf("ApplyDelta: %v", err)
			}
		}()
	}
	wg.Wait()

	got, _ := repo.Get(context.Background(), u.ID)
	if got.XP != 300 || got.Coins != 20 || got.Level != models.CalculateLevel(300) {
		t.Errorf("user = xp %d coins %d level %d", got.XP, got.Coins, got.Level)
	}
}

func TestTouchLoginOncePerDay(t *testing.T) {
	db := getTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	u := createUser(t, db, 0, 0)

	day := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	if ok, err := repo.TouchLogin(ctx, u.ID, 1, day.Add(time.Hour), day); err != nil || !ok {
		t.Fatalf("first TouchLogin = %v, %v", ok, err)
	}
	if ok, err := repo.TouchLogin(ctx, u.ID, 2, day.Add(2*time.Hour), day); err != nil || ok {
		t.Fatalf("same-day TouchLogin = %v, %v", ok, err)
	}
	next := day.AddDate(0, 0, 1)
	if ok, err := repo.TouchLogin(ctx, u.ID, 2, next.Add(time.Hour), next); err != nil || !ok {
		t.Fatalf("next-day TouchLogin = %v, %v", ok, err)
	}

	got, _ := repo.Get(ctx, u.ID)
	if got.LoginStreak != 2 {
		t.Errorf("streak = %d, want 2", got.LoginStreak)
	}
}

func TestTopUsers(t *testing.T) {
	db := getTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	a := createUser(t, db, 50, 300)
	b := createUser(t, db, 700, 20)
	c := createUser(t, db, 200, 40)

	byXP, err := repo.Top(ctx, "xp", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(byXP) != 2 || byXP[0].ID != b.ID || byXP[1].ID != c.ID {
		t.Errorf("by xp = %v", byXP)
	}
	byCoins, err := repo.Top(ctx, "coins", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(byCoins) != 3 || byCoins[0].ID != a.ID {
		t.Errorf("by coins = %v", byCoins)
	}
	if _, err := repo.Top(ctx, "email; DROP TABLE users", 10); !errors.Is(err, services.ErrInvalidInput) {
		t.Errorf("bad column err = %v", err)
	}
}
