// handlers/progression_routes.go
package handlers

import (
	"time"

	"gameserver-hub/middleware"
	"gameserver-hub/models"
	"gameserver-hub/services"

	"github.com/gofiber/fiber/v2"
)

func SetupProgressionRoutes(router fiber.Router, engine *services.Engine, limiter fiber.Handler) {
	router.Get("/user/progress", func(c *fiber.Ctx) error {
		user, err := currentUser(c, engine.Users)
		if err != nil {
			return respondError(c, "failed to load user", err)
		}

		progress := models.ProgressFor(user.XP)
		return c.JSON(fiber.Map{
			"id":               user.ID,
			"xp":               user.XP,
			"level":            user.Level,
			"coins":            user.Coins,
			"badges":           user.BadgeList(),
			"level_progress":   progress,
			"login_streak":     user.LoginStreak,
			"last_login":       user.LastLogin,
			"last_level_up_at": user.LastLevelUpAt,
			"is_server_owner":  user.IsServerOwner,
		})
	})

	router.Get("/ranking", func(c *fiber.Ctx) error {
		entries, err := engine.Users.Ranking(c.UserContext(), c.Query("by", "xp"), c.QueryInt("limit", services.DefaultRankingLimit))
		if err != nil {
			return respondError(c, "failed to load ranking", err)
		}
		return c.JSON(entries)
	})

	router.Post("/user/checkin", limiter, func(c *fiber.Ctx) error {
		user, err := currentUser(c, engine.Users)
		if err != nil {
			return respondError(c, "failed to load user", err)
		}

		res, err := engine.Streaks.RecordLogin(c.UserContext(), user, time.Now())
		if err != nil {
			return respondError(c, "failed to record check-in", err)
		}
		res.Toasts = toastsOrEmpty(res.Toasts)
		return c.JSON(res)
	})

	router.Put("/user/profile", func(c *fiber.Ctx) error {
		user, err := currentUser(c, engine.Users)
		if err != nil {
			return respondError(c, "failed to load user", err)
		}

		var req services.ProfileUpdate
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}

		updated, err := engine.Users.UpdateProfile(c.UserContext(), user.ID, req)
		if err != nil {
			return respondError(c, "failed to update profile", err)
		}

		out := engine.Actions.OnProfileUpdated(c.UserContext(), updated)
		out.Toasts = toastsOrEmpty(out.Toasts)
		return c.JSON(out)
	})

	// 🛡️ Admin: grant XP for an action on behalf of a user
	router.Post("/admin/xp/grant", middleware.RequireRole(models.RoleAdmin), func(c *fiber.Ctx) error {
		var req struct {
			UserID string `json:"user_id"`
			Action string `json:"action"`
		}
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		if _, ok := services.XPActions[req.Action]; !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown action", "cause": req.Action})
		}

		target, err := engine.Users.EnsureUser(c.UserContext(), req.UserID)
		if err != nil {
			return respondError(c, "failed to load target user", err)
		}

		res := engine.Progression.GrantXP(c.UserContext(), services.GrantRequest{
			UserID:        target.ID,
			Action:        req.Action,
			CurrentXP:     target.XP,
			CurrentLevel:  target.Level,
			CurrentBadges: target.BadgeList(),
		})
		return c.JSON(fiber.Map{
			"new_xp":         res.NewXP,
			"new_level":      res.NewLevel,
			"leveled_up":     res.LeveledUp,
			"awarded_badge":  res.AwardedBadge,
			"awarded_badges": res.AwardedBadges,
			"toasts":         toastsOrEmpty(res.Toasts),
		})
	})
}
