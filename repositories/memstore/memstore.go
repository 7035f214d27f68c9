// Package memstore is an in-memory implementation of the engine repositories.
// Conditional writes behave like their SQL counterparts in the parent package.
package memstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"gameserver-hub/models"
	"gameserver-hub/services"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Store struct {
	mu sync.Mutex

	users         map[string]*models.User
	missions      map[string]*models.Mission
	missionOrder  []string
	progress      map[string]*models.UserMissionProgress
	notifications []*models.Notification
	servers       map[string]*models.Server
	ratings       []*models.Rating
	items         map[string]*models.StoreItem
	purchases     []*models.UserPurchase

	// Fail, when set, is consulted before every write; a non-nil result is returned as the error.
	Fail func(op string) error

	now func() time.Time
}

func New() *Store {
	return &Store{
		users:    map[string]*models.User{},
		missions: map[string]*models.Mission{},
		progress: map[string]*models.UserMissionProgress{},
		servers:  map[string]*models.Server{},
		items:    map[string]*models.StoreItem{},
		now:      time.Now,
	}
}

// Repositories exposes the store through every repository interface.
func (s *Store) Repositories() services.Repositories {
	return services.Repositories{
		Users:         userRepo{s},
		Missions:      missionRepo{s},
		Progress:      progressRepo{s},
		Notifications: notificationRepo{s},
		Servers:       serverRepo{s},
		Store:         storeRepo{s},
	}
}

// Notifications returns a snapshot of every stored notification, oldest first.
func (s *Store) Notifications() []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		out = append(out, *n)
	}
	return out
}

func (s *Store) fail(op string) error {
	if s.Fail == nil {
		return nil
	}
	return s.Fail(op)
}

func cloneUser(u *models.User) *models.User {
	c := *u
	c.Badges = append(datatypes.JSONSlice[models.Badge]{}, u.Badges...)
	return &c
}

func cloneMap(m datatypes.JSONMap) datatypes.JSONMap {
	if m == nil {
		return nil
	}
	c := make(datatypes.JSONMap, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

func cloneProgress(p *models.UserMissionProgress) *models.UserMissionProgress {
	c := *p
	c.Progress = cloneMap(p.Progress)
	return &c
}

func newID(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}

// ---- users ----

type userRepo struct{ s *Store }

func (r userRepo) Get(_ context.Context, userID string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[userID]
	if !ok {
		return nil, services.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r userRepo) Create(_ context.Context, u *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("users.create"); err != nil {
		return err
	}
	u.ID = newID(u.ID)
	if _, exists := r.s.users[u.ID]; exists {
		return fmt.Errorf("user %s already exists", u.ID)
	}
	if u.Level < 1 {
		u.Level = models.CalculateLevel(u.XP)
	}
	if u.Badges == nil {
		u.Badges = datatypes.JSONSlice[models.Badge]{}
	}
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	now := r.s.now()
	u.CreatedAt, u.UpdatedAt = now, now
	r.s.users[u.ID] = cloneUser(u)
	return nil
}

func (r userRepo) UpdateProfile(_ context.Context, userID, nickname, bio, avatarURL string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("users.update_profile"); err != nil {
		return nil, err
	}
	u, ok := r.s.users[userID]
	if !ok {
		return nil, services.ErrNotFound
	}
	u.Nickname, u.Bio, u.AvatarURL = nickname, bio, avatarURL
	u.UpdatedAt = r.s.now()
	return cloneUser(u), nil
}

func (r userRepo) SetServerOwner(_ context.Context, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("users.set_server_owner"); err != nil {
		return err
	}
	if u, ok := r.s.users[userID]; ok {
		u.IsServerOwner = true
	}
	return nil
}

func (r userRepo) ApplyDelta(_ context.Context, userID string, d models.RewardDelta) (services.BalanceChange, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("users.apply_delta"); err != nil {
		return services.BalanceChange{}, err
	}
	u, ok := r.s.users[userID]
	if !ok {
		return services.BalanceChange{}, services.ErrNotFound
	}

	newXP := u.XP + d.XP
	if newXP < 0 {
		newXP = 0
	}
	newCoins := u.Coins + d.Coins
	if newCoins < 0 {
		return services.BalanceChange{}, services.ErrInsufficientCoins
	}
	change := services.BalanceChange{
		OldXP:    u.XP,
		NewXP:    newXP,
		OldLevel: u.Level,
		NewLevel: models.CalculateLevel(newXP),
		NewCoins: newCoins,
	}

	now := r.s.now()
	u.XP, u.Level, u.Coins = change.NewXP, change.NewLevel, change.NewCoins
	if change.LeveledUp() {
		u.LastLevelUpAt = &now
	}
	u.UpdatedAt = now
	return change, nil
}

func (r userRepo) AppendBadge(_ context.Context, userID string, b models.Badge) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("users.append_badge"); err != nil {
		return false, err
	}
	u, ok := r.s.users[userID]
	if !ok || models.HasBadge(u.Badges, b.ID) {
		return false, nil
	}
	u.Badges = append(u.Badges, b)
	u.UpdatedAt = r.s.now()
	return true, nil
}

func (r userRepo) TouchLogin(_ context.Context, userID string, streak int, at, notBefore time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("users.touch_login"); err != nil {
		return false, err
	}
	u, ok := r.s.users[userID]
	if !ok {
		return false, nil
	}
	if u.LastLogin != nil && !u.LastLogin.Before(notBefore) {
		return false, nil
	}
	u.LoginStreak = streak
	u.LastLogin = &at
	return true, nil
}

func (r userRepo) Top(_ context.Context, orderBy string, limit int) ([]models.User, error) {
	if !services.RankingColumns[orderBy] {
		return nil, fmt.Errorf("%w: cannot rank users by %q", services.ErrInvalidInput, orderBy)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := func(u *models.User) int64 {
		switch orderBy {
		case "level":
			return int64(u.Level)
		case "coins":
			return u.Coins
		}
		return u.XP
	}
	out := make([]models.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		out = append(out, *cloneUser(u))
	}
	sort.SliceStable(out, func(i, j int) bool {
		ki, kj := key(&out[i]), key(&out[j])
		if ki != kj {
			return ki > kj
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ---- missions ----

type missionRepo struct{ s *Store }

func (r missionRepo) Filter(_ context.Context, q services.MissionQuery) ([]models.Mission, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []models.Mission
	for _, id := range r.s.missionOrder {
		m := r.s.missions[id]
		match, err := missionMatches(m, q)
		if err != nil {
			return nil, err
		}
		if match {
			out = append(out, *m)
		}
	}
	return out, nil
}

func missionMatches(m *models.Mission, q services.MissionQuery) (bool, error) {
	for key, want := range q {
		if path, ok := strings.CutPrefix(key, "criteria."); ok {
			var doc any
			if err := json.Unmarshal(m.Criteria, &doc); err != nil {
				return false, nil
			}
			for _, part := range strings.Split(path, ".") {
				obj, ok := doc.(map[string]any)
				if !ok {
					return false, nil
				}
				doc = obj[part]
			}
			if fmt.Sprint(doc) != fmt.Sprint(want) {
				return false, nil
			}
			continue
		}

		var got any
		switch key {
		case "id":
			got = m.ID
		case "type":
			got = string(m.Type)
		case "is_active":
			got = m.IsActive
		case "badge_reward":
			if m.BadgeReward != nil {
				got = *m.BadgeReward
			}
		default:
			return false, fmt.Errorf("%w: cannot filter missions on %q", services.ErrInvalidInput, key)
		}
		if fmt.Sprint(got) != fmt.Sprint(want) {
			return false, nil
		}
	}
	return true, nil
}

func (r missionRepo) Get(_ context.Context, missionID string) (*models.Mission, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.missions[missionID]
	if !ok {
		return nil, services.ErrNotFound
	}
	c := *m
	return &c, nil
}

func (r missionRepo) Create(_ context.Context, m *models.Mission) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("missions.create"); err != nil {
		return err
	}
	m.ID = newID(m.ID)
	now := r.s.now()
	m.CreatedAt, m.UpdatedAt = now, now
	c := *m
	if _, exists := r.s.missions[m.ID]; !exists {
		r.s.missionOrder = append(r.s.missionOrder, m.ID)
	}
	r.s.missions[m.ID] = &c
	return nil
}

func (r missionRepo) DeactivateExpired(_ context.Context, now time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("missions.deactivate_expired"); err != nil {
		return 0, err
	}
	var n int64
	for _, m := range r.s.missions {
		if m.IsActive && m.Expired(now) {
			m.IsActive = false
			n++
		}
	}
	return n, nil
}

// ---- mission progress ----

type progressRepo struct{ s *Store }

func progressKey(userID, missionID string) string { return userID + "|" + missionID }

func (r progressRepo) Find(_ context.Context, userID, missionID string) (*models.UserMissionProgress, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.progress[progressKey(userID, missionID)]
	if !ok {
		return nil, services.ErrNotFound
	}
	return cloneProgress(p), nil
}

func (r progressRepo) Create(_ context.Context, p *models.UserMissionProgress) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("progress.create"); err != nil {
		return false, err
	}
	key := progressKey(p.UserID, p.MissionID)
	if _, exists := r.s.progress[key]; exists {
		return false, nil
	}
	p.ID = newID(p.ID)
	now := r.s.now()
	p.CreatedAt, p.UpdatedAt = now, now
	r.s.progress[key] = cloneProgress(p)
	return true, nil
}

func (r progressRepo) byID(id string) *models.UserMissionProgress {
	for _, p := range r.s.progress {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (r progressRepo) Complete(_ context.Context, progressID string, progress datatypes.JSONMap, at time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("progress.complete"); err != nil {
		return false, err
	}
	p := r.byID(progressID)
	if p == nil || p.Status != models.MissionStatusPending {
		return false, nil
	}
	p.Status = models.MissionStatusCompleted
	p.Progress = cloneMap(progress)
	p.CompletedAt = &at
	return true, nil
}

func (r progressRepo) MarkClaimed(_ context.Context, progressID string, at time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("progress.mark_claimed"); err != nil {
		return false, err
	}
	p := r.byID(progressID)
	if p == nil || p.Status != models.MissionStatusCompleted {
		return false, nil
	}
	p.Status = models.MissionStatusClaimed
	p.ClaimedAt = &at
	return true, nil
}

func (r progressRepo) ListByUser(_ context.Context, userID string) ([]models.UserMissionProgress, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.UserMissionProgress
	for _, p := range r.s.progress {
		if p.UserID == userID {
			out = append(out, *cloneProgress(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// ---- notifications ----

type notificationRepo struct{ s *Store }

func (r notificationRepo) Create(_ context.Context, n *models.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("notifications.create"); err != nil {
		return err
	}
	n.ID = newID(n.ID)
	now := r.s.now()
	n.CreatedAt, n.UpdatedAt = now, now
	c := *n
	c.Data = cloneMap(n.Data)
	r.s.notifications = append(r.s.notifications, &c)
	return nil
}

func (r notificationRepo) List(_ context.Context, userID string, limit int) ([]models.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Notification
	for i := len(r.s.notifications) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		if n := r.s.notifications[i]; n.UserID == userID {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (r notificationRepo) ListSince(_ context.Context, userID string, since time.Time) ([]models.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Notification
	for _, n := range r.s.notifications {
		if n.UserID == userID && n.CreatedAt.After(since) {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (r notificationRepo) Counts(_ context.Context, userID string) (models.NotificationCounts, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var c models.NotificationCounts
	for _, n := range r.s.notifications {
		if n.UserID != userID {
			continue
		}
		c.Total++
		if !n.IsRead {
			c.Unread++
		}
	}
	return c, nil
}

func (r notificationRepo) MarkRead(_ context.Context, userID, notificationID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, n := range r.s.notifications {
		if n.ID == notificationID && n.UserID == userID {
			n.IsRead = true
			return nil
		}
	}
	return services.ErrNotFound
}

func (r notificationRepo) MarkAllRead(_ context.Context, userID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, note := range r.s.notifications {
		if note.UserID == userID && !note.IsRead {
			note.IsRead = true
			n++
		}
	}
	return n, nil
}

// ---- servers & ratings ----

type serverRepo struct{ s *Store }

func (r serverRepo) Create(_ context.Context, srv *models.Server) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("servers.create"); err != nil {
		return err
	}
	for _, existing := range r.s.servers {
		if existing.Slug == srv.Slug {
			return fmt.Errorf("duplicate slug %q", srv.Slug)
		}
	}
	srv.ID = newID(srv.ID)
	now := r.s.now()
	srv.CreatedAt, srv.UpdatedAt = now, now
	c := *srv
	r.s.servers[srv.ID] = &c
	return nil
}

func (r serverRepo) Get(_ context.Context, serverID string) (*models.Server, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	srv, ok := r.s.servers[serverID]
	if !ok {
		return nil, services.ErrNotFound
	}
	c := *srv
	return &c, nil
}

func (r serverRepo) SlugTaken(_ context.Context, slug string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, srv := range r.s.servers {
		if srv.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (r serverRepo) CountByOwner(_ context.Context, ownerID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, srv := range r.s.servers {
		if srv.OwnerID == ownerID {
			n++
		}
	}
	return n, nil
}

func (r serverRepo) CreateRating(_ context.Context, rating *models.Rating) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("ratings.create"); err != nil {
		return err
	}
	for _, existing := range r.s.ratings {
		if existing.ServerID == rating.ServerID && existing.UserID == rating.UserID {
			return services.ErrAlreadyRated
		}
	}
	rating.ID = newID(rating.ID)
	now := r.s.now()
	rating.CreatedAt, rating.UpdatedAt = now, now
	c := *rating
	r.s.ratings = append(r.s.ratings, &c)
	return nil
}

func (r serverRepo) CountRatingsByUser(_ context.Context, userID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, rating := range r.s.ratings {
		if rating.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (r serverRepo) RefreshAverageRating(_ context.Context, serverID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	srv, ok := r.s.servers[serverID]
	if !ok {
		return nil
	}
	var sum, n int
	for _, rating := range r.s.ratings {
		if rating.ServerID == serverID {
			sum += rating.Stars
			n++
		}
	}
	srv.AverageRating = 0
	if n > 0 {
		srv.AverageRating = float64(sum) / float64(n)
	}
	return nil
}

// ---- store ----

type storeRepo struct{ s *Store }

func (r storeRepo) GetItem(_ context.Context, itemID string) (*models.StoreItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	item, ok := r.s.items[itemID]
	if !ok {
		return nil, services.ErrNotFound
	}
	c := *item
	if item.Stock != nil {
		stock := *item.Stock
		c.Stock = &stock
	}
	return &c, nil
}

func (r storeRepo) CreateItem(_ context.Context, item *models.StoreItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("store.create_item"); err != nil {
		return err
	}
	item.ID = newID(item.ID)
	c := *item
	if item.Stock != nil {
		stock := *item.Stock
		c.Stock = &stock
	}
	r.s.items[item.ID] = &c
	return nil
}

func (r storeRepo) Purchase(_ context.Context, userID, itemID string, at time.Time) (*models.UserPurchase, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("store.purchase"); err != nil {
		return nil, err
	}
	item, ok := r.s.items[itemID]
	if !ok {
		return nil, services.ErrNotFound
	}
	if !item.Purchasable() {
		return nil, services.ErrItemUnavailable
	}
	u, ok := r.s.users[userID]
	if !ok {
		return nil, services.ErrNotFound
	}
	if u.Coins < item.Price {
		return nil, services.ErrInsufficientCoins
	}

	u.Coins -= item.Price
	if item.Stock != nil {
		*item.Stock--
	}
	p := &models.UserPurchase{
		ID:          uuid.NewString(),
		UserID:      userID,
		ItemID:      itemID,
		PricePaid:   item.Price,
		PurchasedAt: at,
	}
	c := *p
	r.s.purchases = append(r.s.purchases, &c)
	return p, nil
}

func (r storeRepo) CountPurchasesByUser(_ context.Context, userID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, p := range r.s.purchases {
		if p.UserID == userID {
			n++
		}
	}
	return n, nil
}
