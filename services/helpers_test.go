package services_test

import (
	"context"
	"encoding/json"
	"testing"

	"gameserver-hub/models"
	"gameserver-hub/repositories/memstore"
	"gameserver-hub/services"

	"github.com/google/uuid"
)

type fixture struct {
	t      *testing.T
	ctx    context.Context
	store  *memstore.Store
	repos  services.Repositories
	engine *services.Engine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memstore.New()
	repos := store.Repositories()
	return &fixture{
		t:      t,
		ctx:    context.Background(),
		store:  store,
		repos:  repos,
		engine: services.NewEngine(repos),
	}
}

func (f *fixture) user(xp, coins int64) *models.User {
	f.t.Helper()
	u := &models.User{
		ID:    uuid.NewString(),
		XP:    xp,
		Level: models.CalculateLevel(xp),
		Coins: coins,
	}
	if err := f.repos.Users.Create(f.ctx, u); err != nil {
		f.t.Fatalf("create user: %v", err)
	}
	return f.reload(u.ID)
}

func (f *fixture) reload(userID string) *models.User {
	f.t.Helper()
	u, err := f.repos.Users.Get(f.ctx, userID)
	if err != nil {
		f.t.Fatalf("get user %s: %v", userID, err)
	}
	return u
}

func (f *fixture) mission(title string, criteria map[string]any, xp, coins int64) *models.Mission {
	f.t.Helper()
	raw, err := json.Marshal(criteria)
	if err != nil {
		f.t.Fatal(err)
	}
	m := &models.Mission{
		Title:       title,
		Type:        models.MissionTypeAchievement,
		XPReward:    xp,
		CoinsReward: coins,
		Criteria:    raw,
		IsActive:    true,
	}
	if err := f.repos.Missions.Create(f.ctx, m); err != nil {
		f.t.Fatalf("create mission: %v", err)
	}
	return m
}

func (f *fixture) server(ownerID string) *models.Server {
	f.t.Helper()
	s := &models.Server{
		Name:    "srv",
		Slug:    "srv-" + uuid.NewString()[:8],
		OwnerID: ownerID,
		Status:  models.ServerStatusApproved,
	}
	if err := f.repos.Servers.Create(f.ctx, s); err != nil {
		f.t.Fatalf("create server: %v", err)
	}
	return s
}

// rate stores a rating directly, without any reward side effects.
func (f *fixture) rate(userID, serverID string) {
	f.t.Helper()
	if err := f.repos.Servers.CreateRating(f.ctx, &models.Rating{ServerID: serverID, UserID: userID, Stars: 4}); err != nil {
		f.t.Fatalf("create rating: %v", err)
	}
}

func (f *fixture) notificationsOfType(userID string, typ models.NotificationType) []models.Notification {
	var out []models.Notification
	for _, n := range f.store.Notifications() {
		if n.UserID == userID && n.Type == typ {
			out = append(out, n)
		}
	}
	return out
}

func badgeIDs(badges []models.Badge) []string {
	ids := make([]string, len(badges))
	for i, b := range badges {
		ids[i] = b.ID
	}
	return ids
}
