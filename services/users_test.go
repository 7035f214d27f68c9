package services_test

import (
	"errors"
	"strings"
	"testing"

	"gameserver-hub/models"
	"gameserver-hub/services"

	"github.com/google/uuid"
)

func TestEnsureUser(t *testing.T) {
	f := newFixture(t)

	if _, err := f.engine.Users.EnsureUser(f.ctx, "not-a-uuid"); !errors.Is(err, services.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}

	id := uuid.NewString()
	u, err := f.engine.Users.EnsureUser(f.ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if u.ID != id || u.Level != 1 || u.XP != 0 {
		t.Fatalf("new user = %+v", u)
	}

	if _, err := f.repos.Users.ApplyDelta(f.ctx, id, models.RewardDelta{XP: 15}); err != nil {
		t.Fatal(err)
	}
	again, err := f.engine.Users.EnsureUser(f.ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if again.XP != 15 {
		t.Errorf("EnsureUser replaced the existing row: xp=%d", again.XP)
	}
}

func TestUpdateProfileValidation(t *testing.T) {
	f := newFixture(t)
	u := f.user(0, 0)

	_, err := f.engine.Users.UpdateProfile(f.ctx, u.ID, services.ProfileUpdate{Nickname: strings.Repeat("x", 51)})
	if !errors.Is(err, services.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
	if _, err := f.engine.Users.UpdateProfile(f.ctx, "missing", services.ProfileUpdate{Nickname: "a"}); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestRanking(t *testing.T) {
	f := newFixture(t)
	low := f.user(50, 500)
	high := f.user(models.XPForLevelStart(5), 10)
	mid := f.user(models.XPForLevelStart(2), 90)

	tests := []struct {
		by   string
		want []string
	}{
		{"", []string{high.ID, mid.ID, low.ID}},
		{"xp", []string{high.ID, mid.ID, low.ID}},
		{"level", []string{high.ID, mid.ID, low.ID}},
		{"coins", []string{low.ID, mid.ID, high.ID}},
	}
	for _, tt := range tests {
		t.Run("by "+tt.by, func(t *testing.T) {
			entries, err := f.engine.Users.Ranking(f.ctx, tt.by, 0)
			if err != nil {
				t.Fatal(err)
			}
			if len(entries) != len(tt.want) {
				t.Fatalf("got %d entries, want %d", len(entries), len(tt.want))
			}
			for i, e := range entries {
				if e.ID != tt.want[i] || e.Rank != i+1 {
					t.Errorf("entry %d = %s (rank %d), want %s", i, e.ID, e.Rank, tt.want[i])
				}
			}
		})
	}

	top, err := f.engine.Users.Ranking(f.ctx, "xp", 2)
	if err != nil || len(top) != 2 {
		t.Fatalf("limit 2: %d entries, %v", len(top), err)
	}
	if _, err := f.engine.Users.Ranking(f.ctx, "email", 10); !errors.Is(err, services.ErrInvalidInput) {
		t.Errorf("by email err = %v, want ErrInvalidInput", err)
	}
}
