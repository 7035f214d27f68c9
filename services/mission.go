// services/mission.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gameserver-hub/models"

	"gorm.io/datatypes"
)

// Evidence is what a page handler knows right after a qualifying action.
type Evidence struct {
	Kind    string // matches criteria.type
	Count   int64  // fresh count of the user's qualifying actions
	Level   int    // current level, for reach_level
	Details map[string]any
}

type MissionCheckResult struct {
	Completed []models.UserMissionProgress
	Toasts    []models.Toast
}

type ClaimResult struct {
	NewCoins     int64          `json:"new_coins"`
	NewXP        int64          `json:"new_xp"`
	NewLevel     int            `json:"new_level"`
	LeveledUp    bool           `json:"leveled_up"`
	AwardedBadge *models.Badge  `json:"awarded_badge,omitempty"`
	Toasts       []models.Toast `json:"toasts"`
}

// MissionView is a mission as shown on the missions page, joined with the user's progress.
type MissionView struct {
	models.Mission
	Status      models.MissionStatus `json:"status"`
	Progress    datatypes.JSONMap    `json:"progress"`
	CompletedAt *time.Time           `json:"completed_at,omitempty"`
	Rule        models.Criteria      `json:"rule,omitempty"`
}

type MissionService struct {
	Missions MissionRepository
	Progress ProgressRepository
	Users    UserRepository
	Servers  ServerRepository
	Store    StoreRepository

	Badges        *BadgeService
	Notifications *NotificationService

	Now func() time.Time
}

func NewMissionService(repos Repositories, badges *BadgeService, notifications *NotificationService) *MissionService {
	return &MissionService{
		Missions:      repos.Missions,
		Progress:      repos.Progress,
		Users:         repos.Users,
		Servers:       repos.Servers,
		Store:         repos.Store,
		Badges:        badges,
		Notifications: notifications,
		Now:           time.Now,
	}
}

// CheckMissionCompletion marks every mission in active whose criteria the evidence satisfies
// as completed for userID. It never grants XP or coins and never returns an error: a broken
// mission or a failed write skips that mission only.
func (s *MissionService) CheckMissionCompletion(ctx context.Context, userID string, ev Evidence, active []models.Mission) MissionCheckResult {
	var out MissionCheckResult
	now := s.Now()

	for i := range active {
		m := &active[i]
		if !m.Available(now) {
			continue
		}

		crit, err := m.ParsedCriteria()
		if err != nil {
			log.Printf("[MISSION] ⚠️ Skipping mission %s (%q): %v", m.ID, m.Title, err)
			continue
		}
		if crit.Kind() != ev.Kind {
			continue
		}
		if !satisfied(crit, ev) {
			continue
		}

		p, ok := s.markCompleted(ctx, userID, m, ev, now)
		if !ok {
			continue
		}
		log.Printf("✅ [MISSION] %s completed %q", userID, m.Title)
		out.Completed = append(out.Completed, *p)
		out.Toasts = append(out.Toasts, models.MissionCompletedToast(m.Title))
	}
	return out
}

func satisfied(crit models.Criteria, ev Evidence) bool {
	switch c := crit.(type) {
	case models.CountCriteria:
		return ev.Count >= c.Count
	case models.FirstOccurrenceCriteria:
		return ev.Count == 1
	case models.LevelCriteria:
		return ev.Level >= c.Level
	case models.NavigateCriteria:
		return false
	case models.UnknownCriteria:
		log.Printf("[MISSION] ⚠️ Unknown criteria type %q, ignoring", c.Type)
		return false
	}
	return false
}

// markCompleted creates or advances the (user, mission) record. It reports whether the
// record changed to completed in this call.
func (s *MissionService) markCompleted(ctx context.Context, userID string, m *models.Mission, ev Evidence, now time.Time) (*models.UserMissionProgress, bool) {
	evidence := datatypes.JSONMap{}
	for k, v := range ev.Details {
		evidence[k] = v
	}

	existing, err := s.Progress.Find(ctx, userID, m.ID)
	switch {
	case errors.Is(err, ErrNotFound):
		p := &models.UserMissionProgress{
			UserID:      userID,
			MissionID:   m.ID,
			Status:      models.MissionStatusCompleted,
			Progress:    evidence,
			CompletedAt: &now,
		}
		created, err := s.Progress.Create(ctx, p)
		if err != nil {
			log.Printf("[MISSION] ❌ Failed to create progress (user=%s, mission=%s): %v", userID, m.ID, err)
			return nil, false
		}
		return p, created

	case err != nil:
		log.Printf("[MISSION] ❌ Failed to load progress (user=%s, mission=%s): %v", userID, m.ID, err)
		return nil, false

	case existing.Status != models.MissionStatusPending:
		return nil, false
	}

	changed, err := s.Progress.Complete(ctx, existing.ID, evidence, now)
	if err != nil {
		log.Printf("[MISSION] ❌ Failed to complete progress %s: %v", existing.ID, err)
		return nil, false
	}
	if !changed {
		return nil, false
	}
	existing.Status = models.MissionStatusCompleted
	existing.Progress = evidence
	existing.CompletedAt = &now
	return existing, true
}

// CheckAfterAction loads the active missions for kind, computes fresh evidence for the user
// and runs the checker.
func (s *MissionService) CheckAfterAction(ctx context.Context, userID, kind string, details map[string]any) MissionCheckResult {
	missions, err := s.Missions.Filter(ctx, MissionQuery{"criteria.type": kind, "is_active": true})
	if err != nil {
		log.Printf("[MISSION] ❌ Failed to load %s missions for user %s: %v", kind, userID, err)
		return MissionCheckResult{}
	}
	if len(missions) == 0 {
		return MissionCheckResult{}
	}

	ev, err := s.evidenceFor(ctx, userID, kind)
	if err != nil {
		log.Printf("[MISSION] ❌ Failed to count %s evidence for user %s: %v", kind, userID, err)
		return MissionCheckResult{}
	}
	ev.Details = map[string]any{"count": ev.Count}
	for k, v := range details {
		ev.Details[k] = v
	}
	return s.CheckMissionCompletion(ctx, userID, ev, missions)
}

func (s *MissionService) evidenceFor(ctx context.Context, userID, kind string) (Evidence, error) {
	ev := Evidence{Kind: kind}
	var err error
	switch kind {
	case models.CriteriaRateServers:
		ev.Count, err = s.Servers.CountRatingsByUser(ctx, userID)
	case models.CriteriaAddServer:
		ev.Count, err = s.Servers.CountByOwner(ctx, userID)
	case models.CriteriaFirstPurchase:
		ev.Count, err = s.Store.CountPurchasesByUser(ctx, userID)
	case models.CriteriaReachLevel:
		var u *models.User
		u, err = s.Users.Get(ctx, userID)
		if err == nil {
			ev.Level = u.Level
			ev.Count = int64(u.Level)
		}
	}
	return ev, err
}

// ListForUser returns the available missions with the user's status on each. A mission the
// user completed but has not claimed stays listed after it expires or is deactivated.
func (s *MissionService) ListForUser(ctx context.Context, userID string) ([]MissionView, error) {
	missions, err := s.Missions.Filter(ctx, MissionQuery{"is_active": true})
	if err != nil {
		return nil, err
	}
	records, err := s.Progress.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	byMission := make(map[string]models.UserMissionProgress, len(records))
	for _, p := range records {
		byMission[p.MissionID] = p
	}

	now := s.Now()
	views := make([]MissionView, 0, len(missions))
	listed := make(map[string]bool, len(missions))
	for _, m := range missions {
		p, ok := byMission[m.ID]
		if !m.Available(now) && !(ok && p.Claimable()) {
			continue
		}
		views = append(views, newMissionView(m, p, ok))
		listed[m.ID] = true
	}

	for _, p := range records {
		if listed[p.MissionID] || !p.Claimable() {
			continue
		}
		m, err := s.Missions.Get(ctx, p.MissionID)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		views = append(views, newMissionView(*m, p, true))
		listed[m.ID] = true
	}
	return views, nil
}

func newMissionView(m models.Mission, p models.UserMissionProgress, hasRecord bool) MissionView {
	v := MissionView{
		Mission:  m,
		Status:   models.MissionStatusPending,
		Progress: datatypes.JSONMap{},
	}
	if hasRecord {
		v.Status = p.Status
		v.Progress = p.Progress
		v.CompletedAt = p.CompletedAt
	}
	if crit, err := m.ParsedCriteria(); err == nil {
		v.Rule = crit
	}
	return v
}

// SyncLevelMissions completes the reach_level missions the user's current level already satisfies.
func (s *MissionService) SyncLevelMissions(ctx context.Context, user *models.User) MissionCheckResult {
	return s.CheckAfterAction(ctx, user.ID, models.CriteriaReachLevel, map[string]any{"level": user.Level})
}

// ClaimByID loads the mission, the user's progress and the user, then claims.
func (s *MissionService) ClaimByID(ctx context.Context, userID, missionID string) (*ClaimResult, error) {
	mission, err := s.Missions.Get(ctx, missionID)
	if err != nil {
		return nil, err
	}
	user, err := s.Users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	progress, err := s.Progress.Find(ctx, userID, missionID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	return s.ClaimReward(ctx, mission, progress, user)
}

// ClaimReward converts a completed mission into XP and coins. The completed→claimed
// transition is a conditional write, so only one claim per record gets through.
// The balance update is a second write; if it fails the record stays claimed.
func (s *MissionService) ClaimReward(ctx context.Context, mission *models.Mission, progress *models.UserMissionProgress, user *models.User) (*ClaimResult, error) {
	if mission == nil || user == nil || !progress.Claimable() {
		return nil, ErrRewardNotClaimable
	}
	if progress.UserID != user.ID || progress.MissionID != mission.ID {
		return nil, ErrRewardNotClaimable
	}

	claimed, err := s.Progress.MarkClaimed(ctx, progress.ID, s.Now())
	if err != nil {
		return nil, fmt.Errorf("mark claimed: %w", err)
	}
	if !claimed {
		return nil, ErrRewardNotClaimable
	}

	change, err := s.Users.ApplyDelta(ctx, user.ID, models.RewardDelta{
		XP:    mission.XPReward,
		Coins: mission.CoinsReward,
	})
	if err != nil {
		log.Printf("[CLAIM] ❌ Mission %s claimed by %s but reward was not applied: %v", mission.ID, user.ID, err)
		return nil, fmt.Errorf("apply reward: %w", err)
	}

	res := &ClaimResult{
		NewCoins: change.NewCoins,
		NewXP:    change.NewXP,
		NewLevel: change.NewLevel,
		Toasts:   []models.Toast{models.RewardClaimedToast(mission.XPReward, mission.CoinsReward)},
	}
	log.Printf("🎁 [CLAIM] %s claimed %q → XP=%d, Coins=%d, Lvl=%d", user.ID, mission.Title, res.NewXP, res.NewCoins, res.NewLevel)

	if change.LeveledUp() {
		res.LeveledUp = true
		res.Toasts = append(res.Toasts, models.LevelUpToast(change.NewLevel))
		s.Notifications.NotifyLevelUp(ctx, user.ID, change.NewLevel)
	}

	if mission.BadgeReward != nil && *mission.BadgeReward != "" {
		if _, key, ok := models.LookupBadgeByID(*mission.BadgeReward); ok {
			badge, _ := s.Badges.AwardBadge(ctx, user.ID, user.BadgeList(), key)
			if badge != nil {
				res.AwardedBadge = badge
				res.Toasts = append(res.Toasts, models.BadgeToast(*badge))
			}
		} else {
			log.Printf("[CLAIM] ⚠️ Mission %s has unknown badge_reward %q", mission.ID, *mission.BadgeReward)
		}
	}

	if res.LeveledUp {
		lvl := s.CheckAfterAction(ctx, user.ID, models.CriteriaReachLevel, map[string]any{"level": res.NewLevel})
		res.Toasts = append(res.Toasts, lvl.Toasts...)
	}
	return res, nil
}
