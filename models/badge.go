package models

import "sort"

// Badge is the value object held in a user's badge set.
type Badge struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`  // symbolic icon name, e.g. "Compass"
	Color       string `json:"color"` // hex color
}

// BadgeKey is the symbolic registry key, e.g. "LEVEL_5_BADGE".
type BadgeKey string

const (
	BadgeNewbie          BadgeKey = "NEWBIE"
	BadgeExplorer        BadgeKey = "EXPLORER"
	BadgeContributor     BadgeKey = "CONTRIBUTOR"
	BadgeServerOwner     BadgeKey = "SERVER_OWNER_BADGE"
	BadgeProfileComplete BadgeKey = "PROFILE_COMPLETE_BADGE"
	BadgeLevel5          BadgeKey = "LEVEL_5_BADGE"
	BadgeLevel10         BadgeKey = "LEVEL_10_BADGE"
)

// badgeRegistry is built once at init and never written afterwards.
// Accessors hand out copies.
var badgeRegistry = map[BadgeKey]Badge{
	BadgeNewbie: {
		ID:          "newbie",
		Name:        "Curious Newcomer",
		Description: "Welcome! Your journey has started.",
		Icon:        "MousePointerSquare",
		Color:       "#9ca3af",
	},
	BadgeExplorer: {
		ID:          "explorer",
		Name:        "Server Explorer",
		Description: "Rated 5 servers.",
		Icon:        "Compass",
		Color:       "#3b82f6",
	},
	BadgeContributor: {
		ID:          "contributor",
		Name:        "Active Contributor",
		Description: "Rated 15 servers.",
		Icon:        "Award",
		Color:       "#22c55e",
	},
	BadgeServerOwner: {
		ID:          "server_owner",
		Name:        "Server Owner",
		Description: "You added a server to the platform!",
		Icon:        "ServerCog",
		Color:       "#a855f7",
	},
	BadgeProfileComplete: {
		ID:          "profile_complete",
		Name:        "Profile Complete",
		Description: "Your profile is 100% filled in.",
		Icon:        "UserCheck",
		Color:       "#14b8a6",
	},
	BadgeLevel5: {
		ID:          "level_5",
		Name:        "Level 5 Reached",
		Description: "Congratulations on reaching level 5!",
		Icon:        "ChevronsUp",
		Color:       "#6366f1",
	},
	BadgeLevel10: {
		ID:          "level_10",
		Name:        "Level 10 Master",
		Description: "You are a master of the platform!",
		Icon:        "Gem",
		Color:       "#ec4899",
	},
}

// badgesByID indexes the registry by badge id; derived once from badgeRegistry.
var badgesByID = func() map[string]BadgeKey {
	idx := make(map[string]BadgeKey, len(badgeRegistry))
	for key, b := range badgeRegistry {
		idx[b.ID] = key
	}
	return idx
}()

// LookupBadge returns the registry badge for key.
func LookupBadge(key BadgeKey) (Badge, bool) {
	b, ok := badgeRegistry[key]
	return b, ok
}

// LookupBadgeByID resolves a badge by its id (as stored on users and missions).
func LookupBadgeByID(id string) (Badge, BadgeKey, bool) {
	key, ok := badgesByID[id]
	if !ok {
		return Badge{}, "", false
	}
	return badgeRegistry[key], key, true
}

// BadgeKeys lists every registry key in a stable order.
func BadgeKeys() []BadgeKey {
	keys := make([]BadgeKey, 0, len(badgeRegistry))
	for k := range badgeRegistry {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// HasBadge reports whether badges already holds a badge with id.
func HasBadge(badges []Badge, id string) bool {
	for _, b := range badges {
		if b.ID == id {
			return true
		}
	}
	return false
}
