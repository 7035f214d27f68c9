package services

import (
	"context"
	"log"

	"gameserver-hub/models"
)

// Rating milestones for the rating badges.
const (
	ExplorerRatings    = 5
	ContributorRatings = 15
)

// ActionOutcome is everything a page handler reports back after the reward side effects ran.
type ActionOutcome struct {
	User              *models.User                 `json:"user"`
	Grant             *GrantResult                 `json:"-"`
	AwardedBadges     []models.Badge               `json:"awarded_badges"`
	CompletedMissions []models.UserMissionProgress `json:"completed_missions"`
	Toasts            []models.Toast               `json:"toasts"`
}

// ActionService runs the reward side effects that follow a user's primary action.
// The primary action itself (storing the rating, the server, the purchase) is already done.
type ActionService struct {
	Users       UserRepository
	Servers     ServerRepository
	Progression *ProgressionService
	Badges      *BadgeService
	Missions    *MissionService
}

func NewActionService(repos Repositories, progression *ProgressionService, badges *BadgeService, missions *MissionService) *ActionService {
	return &ActionService{
		Users:       repos.Users,
		Servers:     repos.Servers,
		Progression: progression,
		Badges:      badges,
		Missions:    missions,
	}
}

func (s *ActionService) grant(ctx context.Context, user *models.User, action string, out *ActionOutcome) []models.Badge {
	res := s.Progression.GrantXP(ctx, GrantRequest{
		UserID:        user.ID,
		Action:        action,
		CurrentXP:     user.XP,
		CurrentLevel:  user.Level,
		CurrentBadges: user.BadgeList(),
	})
	out.Grant = &res
	out.AwardedBadges = append(out.AwardedBadges, res.AwardedBadges...)
	out.Toasts = append(out.Toasts, res.Toasts...)
	return res.Badges
}

func (s *ActionService) award(ctx context.Context, userID string, badges []models.Badge, key models.BadgeKey, out *ActionOutcome) []models.Badge {
	b, badges := s.Badges.AwardBadge(ctx, userID, badges, key)
	if b != nil {
		out.AwardedBadges = append(out.AwardedBadges, *b)
		out.Toasts = append(out.Toasts, models.BadgeToast(*b))
	}
	return badges
}

func (s *ActionService) checkMissions(ctx context.Context, userID, kind string, details map[string]any, out *ActionOutcome) {
	res := s.Missions.CheckAfterAction(ctx, userID, kind, details)
	out.CompletedMissions = append(out.CompletedMissions, res.Completed...)
	out.Toasts = append(out.Toasts, res.Toasts...)
}

// finish runs the level missions after a level-up and reloads the user.
func (s *ActionService) finish(ctx context.Context, user *models.User, out *ActionOutcome) ActionOutcome {
	if out.Grant != nil && out.Grant.LeveledUp {
		s.checkMissions(ctx, user.ID, models.CriteriaReachLevel, map[string]any{"level": out.Grant.NewLevel}, out)
	}

	fresh, err := s.Users.Get(ctx, user.ID)
	if err != nil {
		log.Printf("[ACTION] ⚠️ Could not reload user %s: %v", user.ID, err)
		fresh = user
	}
	out.User = fresh
	return *out
}

// OnRatingSubmitted rewards a stored rating. The rating handler guarantees one rating per user and server.
func (s *ActionService) OnRatingSubmitted(ctx context.Context, user *models.User, rating *models.Rating) ActionOutcome {
	var out ActionOutcome
	badges := s.grant(ctx, user, ActionRateServer, &out)

	count, err := s.Servers.CountRatingsByUser(ctx, user.ID)
	if err != nil {
		log.Printf("[ACTION] ❌ Failed to count ratings for user %s: %v", user.ID, err)
	} else {
		if count >= ExplorerRatings {
			badges = s.award(ctx, user.ID, badges, models.BadgeExplorer, &out)
		}
		if count >= ContributorRatings {
			s.award(ctx, user.ID, badges, models.BadgeContributor, &out)
		}
	}

	s.checkMissions(ctx, user.ID, models.CriteriaRateServers, map[string]any{"rated_server_id": rating.ServerID}, &out)
	return s.finish(ctx, user, &out)
}

// OnServerAdded rewards a newly listed server.
func (s *ActionService) OnServerAdded(ctx context.Context, user *models.User, server *models.Server) ActionOutcome {
	var out ActionOutcome
	if !user.IsServerOwner {
		if err := s.Users.SetServerOwner(ctx, user.ID); err != nil {
			log.Printf("[ACTION] ❌ Failed to flag user %s as server owner: %v", user.ID, err)
		}
	}

	badges := s.grant(ctx, user, ActionAddServer, &out)
	s.award(ctx, user.ID, badges, models.BadgeServerOwner, &out)

	s.checkMissions(ctx, user.ID, models.CriteriaAddServer, map[string]any{"server_added_id": server.ID}, &out)
	return s.finish(ctx, user, &out)
}

// OnPurchaseMade runs the purchase missions. Purchases grant no XP.
func (s *ActionService) OnPurchaseMade(ctx context.Context, user *models.User, purchase *models.UserPurchase) ActionOutcome {
	var out ActionOutcome
	s.checkMissions(ctx, user.ID, models.CriteriaFirstPurchase, map[string]any{
		"purchased": true,
		"item_id":   purchase.ItemID,
	}, &out)
	return s.finish(ctx, user, &out)
}

// OnProfileUpdated awards the profile badge once nickname, bio and avatar are all set.
// The first time it is granted the user also earns the profile XP.
func (s *ActionService) OnProfileUpdated(ctx context.Context, user *models.User) ActionOutcome {
	var out ActionOutcome
	if !user.ProfileComplete() {
		return s.finish(ctx, user, &out)
	}

	before := len(out.AwardedBadges)
	s.award(ctx, user.ID, user.BadgeList(), models.BadgeProfileComplete, &out)
	if len(out.AwardedBadges) > before {
		s.grant(ctx, user, ActionCompleteProfile, &out)
	}
	return s.finish(ctx, user, &out)
}
