package handlers

import (
	"gameserver-hub/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func SetupMissionRoutes(router fiber.Router, engine *services.Engine, limiter fiber.Handler) {
	router.Get("/missions", func(c *fiber.Ctx) error {
		user, err := currentUser(c, engine.Users)
		if err != nil {
			return respondError(c, "failed to load user", err)
		}

		engine.Missions.SyncLevelMissions(c.UserContext(), user)

		views, err := engine.Missions.ListForUser(c.UserContext(), user.ID)
		if err != nil {
			return respondError(c, "failed to load missions", err)
		}
		return c.JSON(views)
	})

	router.Post("/missions/:id/claim", limiter, func(c *fiber.Ctx) error {
		missionID := c.Params("id")
		if _, err := uuid.Parse(missionID); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid mission ID"})
		}

		user, err := currentUser(c, engine.Users)
		if err != nil {
			return respondError(c, "failed to load user", err)
		}

		res, err := engine.Missions.ClaimByID(c.UserContext(), user.ID, missionID)
		if err != nil {
			return respondError(c, "reward could not be claimed", err)
		}
		res.Toasts = toastsOrEmpty(res.Toasts)
		return c.JSON(res)
	})
}
