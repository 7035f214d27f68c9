package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"gameserver-hub/models"

	"github.com/google/uuid"
)

type UserService struct {
	Users UserRepository
}

func NewUserService(users UserRepository) *UserService {
	return &UserService{Users: users}
}

// EnsureUser returns the user row for the gateway-supplied id, creating an empty one on first sight.
func (s *UserService) EnsureUser(ctx context.Context, userID string) (*models.User, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, fmt.Errorf("%w: user id %q", ErrInvalidInput, userID)
	}

	u, err := s.Users.Get(ctx, userID)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	u = &models.User{ID: userID, Level: 1, Role: models.RoleUser}
	if err := s.Users.Create(ctx, u); err != nil {
		// a concurrent request may have created it first
		if existing, getErr := s.Users.Get(ctx, userID); getErr == nil {
			return existing, nil
		}
		return nil, err
	}
	log.Printf("👤 [USERS] Created user record for %s", userID)
	return u, nil
}

type ProfileUpdate struct {
	Nickname  string `json:"nickname"`
	Bio       string `json:"bio"`
	AvatarURL string `json:"avatar_url"`
}

func (p *ProfileUpdate) Normalize() error {
	p.Nickname = strings.TrimSpace(p.Nickname)
	p.Bio = strings.TrimSpace(p.Bio)
	p.AvatarURL = strings.TrimSpace(p.AvatarURL)
	if len(p.Nickname) > 50 {
		return fmt.Errorf("%w: nickname longer than 50 characters", ErrInvalidInput)
	}
	if len(p.Bio) > 500 {
		return fmt.Errorf("%w: bio longer than 500 characters", ErrInvalidInput)
	}
	return nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, p ProfileUpdate) (*models.User, error) {
	if err := p.Normalize(); err != nil {
		return nil, err
	}
	return s.Users.UpdateProfile(ctx, userID, p.Nickname, p.Bio, p.AvatarURL)
}

const (
	DefaultRankingLimit = 50
	MaxRankingLimit     = 100
)

// RankingEntry is the public view of a user on the leaderboard.
type RankingEntry struct {
	Rank      int            `json:"rank"`
	ID        string         `json:"id"`
	Nickname  string         `json:"nickname"`
	AvatarURL string         `json:"avatar_url"`
	XP        int64          `json:"xp"`
	Level     int            `json:"level"`
	Coins     int64          `json:"coins"`
	Badges    []models.Badge `json:"badges"`
}

// Ranking lists the top users by xp, level or coins.
func (s *UserService) Ranking(ctx context.Context, by string, limit int) ([]RankingEntry, error) {
	if by == "" {
		by = "xp"
	}
	if !RankingColumns[by] {
		return nil, fmt.Errorf("%w: ranking must be by xp, level or coins", ErrInvalidInput)
	}
	if limit <= 0 {
		limit = DefaultRankingLimit
	}
	if limit > MaxRankingLimit {
		limit = MaxRankingLimit
	}

	users, err := s.Users.Top(ctx, by, limit)
	if err != nil {
		return nil, err
	}
	out := make([]RankingEntry, len(users))
	for i := range users {
		u := &users[i]
		out[i] = RankingEntry{
			Rank:      i + 1,
			ID:        u.ID,
			Nickname:  u.Nickname,
			AvatarURL: u.AvatarURL,
			XP:        u.XP,
			Level:     u.Level,
			Coins:     u.Coins,
			Badges:    u.BadgeList(),
		}
	}
	return out, nil
}
