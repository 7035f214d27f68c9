package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"gameserver-hub/models"
	"gameserver-hub/services"

	"gorm.io/datatypes"
)

func TestMissionFilter(t *testing.T) {
	ctx := context.Background()
	repos := New().Repositories()

	for _, m := range []*models.Mission{
		{Title: "rate 5", Criteria: datatypes.JSON(`{"type":"rate_servers","count":5}`), IsActive: true},
		{Title: "rate 15", Criteria: datatypes.JSON(`{"type":"rate_servers","count":15}`), IsActive: false},
		{Title: "add", Criteria: datatypes.JSON(`{"type":"add_server"}`), IsActive: true},
		{Title: "broken", Criteria: datatypes.JSON(`{"type":`), IsActive: true},
	} {
		if err := repos.Missions.Create(ctx, m); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name  string
		query services.MissionQuery
		want  []string
	}{
		{"by type", services.MissionQuery{"criteria.type": "rate_servers"}, []string{"rate 5", "rate 15"}},
		{"by type and active", services.MissionQuery{"criteria.type": "rate_servers", "is_active": true}, []string{"rate 5"}},
		{"by count", services.MissionQuery{"criteria.count": 15}, []string{"rate 15"}},
		{"no match", services.MissionQuery{"criteria.type": "reach_level"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repos.Missions.Filter(ctx, tt.query)
			if err != nil {
				t.Fatal(err)
			}
			var titles []string
			for _, m := range got {
				titles = append(titles, m.Title)
			}
			if len(titles) != len(tt.want) {
				t.Fatalf("got %v, want %v", titles, tt.want)
			}
			for i := range titles {
				if titles[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", titles, tt.want)
				}
			}
		})
	}

	if _, err := repos.Missions.Filter(ctx, services.MissionQuery{"title": "x"}); !errors.Is(err, services.ErrInvalidInput) {
		t.Errorf("unknown column err = %v, want ErrInvalidInput", err)
	}
}

func TestProgressConditionalWrites(t *testing.T) {
	ctx := context.Background()
	repos := New().Repositories()
	now := time.Now()

	p := &models.UserMissionProgress{UserID: "u", MissionID: "m", Status: models.MissionStatusPending}
	if ok, err := repos.Progress.Create(ctx, p); err != nil || !ok {
		t.Fatalf("Create = %v, %v", ok, err)
	}
	dup := &models.UserMissionProgress{UserID: "u", MissionID: "m", Status: models.MissionStatusCompleted}
	if ok, _ := repos.Progress.Create(ctx, dup); ok {
		t.Fatal("duplicate (user, mission) inserted")
	}

	if ok, _ := repos.Progress.MarkClaimed(ctx, p.ID, now); ok {
		t.Fatal("pending record marked claimed")
	}
	if ok, _ := repos.Progress.Complete(ctx, p.ID, datatypes.JSONMap{"count": 5}, now); !ok {
		t.Fatal("Complete on pending record did nothing")
	}
	if ok, _ := repos.Progress.Complete(ctx, p.ID, datatypes.JSONMap{"count": 6}, now); ok {
		t.Fatal("Complete ran twice")
	}
	if ok, _ := repos.Progress.MarkClaimed(ctx, p.ID, now); !ok {
		t.Fatal("MarkClaimed on completed record did nothing")
	}
	if ok, _ := repos.Progress.MarkClaimed(ctx, p.ID, now); ok {
		t.Fatal("MarkClaimed ran twice")
	}

	got, err := repos.Progress.Find(ctx, "u", "m")
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != models.MissionStatusClaimed || got.Progress["count"] != 5 || got.ClaimedAt == nil {
		t.Errorf("record = %+v", got)
	}
}

func TestUserConditionalWrites(t *testing.T) {
	ctx := context.Background()
	repos := New().Repositories()
	u := &models.User{ID: "u1", XP: 95, Coins: 5}
	if err := repos.Users.Create(ctx, u); err != nil {
		t.Fatal(err)
	}

	change, err := repos.Users.ApplyDelta(ctx, "u1", models.RewardDelta{XP: 10})
	if err != nil {
		t.Fatal(err)
	}
	if change.OldLevel != 1 || change.NewLevel != 2 || !change.LeveledUp() {
		t.Errorf("change = %+v", change)
	}
	if _, err := repos.Users.ApplyDelta(ctx, "u1", models.RewardDelta{Coins: -6}); !errors.Is(err, services.ErrInsufficientCoins) {
		t.Errorf("overdraft err = %v", err)
	}

	badge, _ := models.LookupBadge(models.BadgeNewbie)
	if ok, _ := repos.Users.AppendBadge(ctx, "u1", badge); !ok {
		t.Fatal("first AppendBadge did nothing")
	}
	if ok, _ := repos.Users.AppendBadge(ctx, "u1", badge); ok {
		t.Fatal("badge appended twice")
	}

	day := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	if ok, _ := repos.Users.TouchLogin(ctx, "u1", 1, day.Add(time.Hour), day); !ok {
		t.Fatal("first TouchLogin did nothing")
	}
	if ok, _ := repos.Users.TouchLogin(ctx, "u1", 2, day.Add(2*time.Hour), day); ok {
		t.Fatal("second TouchLogin on the same day applied")
	}

	got, _ := repos.Users.Get(ctx, "u1")
	if got.XP != 105 || got.Coins != 5 || len(got.Badges) != 1 || got.LoginStreak != 1 {
		t.Errorf("user = %+v", got)
	}
}

func TestFailHook(t *testing.T) {
	s := New()
	s.Fail = func(op string) error {
		if op == "users.create" {
			return errors.New("disk full")
		}
		return nil
	}
	if err := s.Repositories().Users.Create(context.Background(), &models.User{}); err == nil {
		t.Fatal("Fail hook ignored")
	}
}
