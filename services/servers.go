package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"gameserver-hub/models"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

type NewServerInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Game        string `json:"game"`
	Address     string `json:"address"`
	Website     string `json:"website"`
}

type ServerResult struct {
	Server *models.Server `json:"server"`
	ActionOutcome
}

type RatingResult struct {
	Rating *models.Rating `json:"rating"`
	ActionOutcome
}

type ServerService struct {
	Servers ServerRepository
	Actions *ActionService
}

func NewServerService(servers ServerRepository, actions *ActionService) *ServerService {
	return &ServerService{Servers: servers, Actions: actions}
}

// AddServer stores a new listing awaiting moderation and rewards its owner.
func (s *ServerService) AddServer(ctx context.Context, owner *models.User, in NewServerInput) (*ServerResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, fmt.Errorf("%w: server name is required", ErrInvalidInput)
	}

	srvSlug, err := s.uniqueSlug(ctx, in.Name)
	if err != nil {
		return nil, err
	}

	server := &models.Server{
		Name:        in.Name,
		Slug:        srvSlug,
		Description: strings.TrimSpace(in.Description),
		Game:        strings.TrimSpace(in.Game),
		Address:     strings.TrimSpace(in.Address),
		Website:     strings.TrimSpace(in.Website),
		OwnerID:     owner.ID,
		Status:      models.ServerStatusPending,
	}
	if err := s.Servers.Create(ctx, server); err != nil {
		return nil, fmt.Errorf("create server: %w", err)
	}
	log.Printf("🖥️ [SERVERS] %s listed %q (%s)", owner.ID, server.Name, server.Slug)

	return &ServerResult{
		Server:        server,
		ActionOutcome: s.Actions.OnServerAdded(ctx, owner, server),
	}, nil
}

func (s *ServerService) uniqueSlug(ctx context.Context, name string) (string, error) {
	base := slug.Make(name)
	if base == "" {
		base = "server"
	}
	candidate := base
	for i := 0; i < 5; i++ {
		taken, err := s.Servers.SlugTaken(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = base + "-" + uuid.NewString()[:8]
	}
	return "", fmt.Errorf("could not find a free slug for %q", name)
}

// RateServer stores the user's one rating of a server and rewards it.
func (s *ServerService) RateServer(ctx context.Context, user *models.User, serverID string, stars int, comment string) (*RatingResult, error) {
	if stars < 1 || stars > 5 {
		return nil, fmt.Errorf("%w: stars must be between 1 and 5", ErrInvalidInput)
	}
	if _, err := s.Servers.Get(ctx, serverID); err != nil {
		return nil, err
	}

	rating := &models.Rating{
		ServerID: serverID,
		UserID:   user.ID,
		Stars:    stars,
		Comment:  strings.TrimSpace(comment),
	}
	if err := s.Servers.CreateRating(ctx, rating); err != nil {
		return nil, err
	}
	if err := s.Servers.RefreshAverageRating(ctx, serverID); err != nil {
		log.Printf("[SERVERS] ⚠️ Failed to refresh average rating for %s: %v", serverID, err)
	}

	return &RatingResult{
		Rating:        rating,
		ActionOutcome: s.Actions.OnRatingSubmitted(ctx, user, rating),
	}, nil
}
